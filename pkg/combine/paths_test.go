package combine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolvePathList(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, map[string]string{"lists/extra.txt": "a\n"})

	literal := filepath.Join(root, "lists", "extra.txt")
	got, err := ResolvePathList(literal, "/nonexistent-root")
	require.NoError(t, err)
	assert.Equal(t, literal, got)

	got, err = ResolvePathList("lists/extra.txt", root)
	require.NoError(t, err)
	assert.Equal(t, literal, got)

	_, err = ResolvePathList("lists/missing.txt", root)
	assert.ErrorIs(t, err, ErrPathListNotFound)
}

func TestReadPathList(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "paths.txt")
	require.NoError(t, os.WriteFile(path, []byte("lib/one.php\r\n\n  \nlib/two\n\r\n/abs/three.php"), 0o644))

	paths, err := ReadPathList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/one.php", "lib/two", "/abs/three.php"}, paths)
}

func TestResolveRoots_Default(t *testing.T) {
	root := t.TempDir()
	opts := testOptions(root)

	roots, err := ResolveRoots(opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src"), filepath.Join(root, "composer.json")}, roots.Paths)
	assert.Empty(t, roots.Suffix)
}

func TestResolveRoots_WithPathList(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, map[string]string{"extra.txt": "lib\n/opt/shared/x.php\n"})

	opts := testOptions(root)
	opts.PathListFile = "extra.txt"

	roots, err := ResolveRoots(opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src"),
		filepath.Join(root, "composer.json"),
		filepath.Join(root, "lib"),
		filepath.Clean("/opt/shared/x.php"),
	}, roots.Paths)
	assert.Equal(t, "extra", roots.Suffix)

	opts.OnlyListed = true
	roots, err = ResolveRoots(opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "lib"), filepath.Clean("/opt/shared/x.php")}, roots.Paths)
}

func TestResolveRoots_Errors(t *testing.T) {
	root := t.TempDir()

	opts := testOptions(root)
	opts.PathListFile = "missing.txt"
	_, err := ResolveRoots(opts, zap.NewNop())
	assert.ErrorIs(t, err, ErrPathListNotFound)

	opts = testOptions(root)
	opts.OnlyListed = true
	_, err = ResolveRoots(opts, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoPathList)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "files-all.txt"), OutputName("out", "all", ""))
	assert.Equal(t, filepath.Join("out", "files-php-extra.txt"), OutputName("out", "php", "extra"))
}

func TestPathListSuffix(t *testing.T) {
	assert.Equal(t, "extra", PathListSuffix("/a/b/extra.txt"))
	assert.Equal(t, "paths", PathListSuffix("paths"))
	assert.Equal(t, "paths", PathListSuffix(".paths"))
	assert.Equal(t, "my.list", PathListSuffix("my.list.txt"))
}
