package combine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packageFixture mirrors a small project: one file per bucket plus a hidden
// file and an unsupported extension.
func packageFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	makeFiles(t, root, map[string]string{
		"src/Test.php":   `<?php echo "Hello, World!";`,
		"src/style.css":  "body { background-color: #fff; }",
		"src/script.js":  `console.log("Hello, World!");`,
		"src/.DS_Store":  "This is a hidden system file",
		"src/random.txt": "This is a random text file.",
		"composer.json":  "{}",
	})
	return root
}

func TestRunCombine_GeneratesAllDocuments(t *testing.T) {
	root := packageFixture(t)

	result, err := RunCombine(testOptions(root), nil)
	require.NoError(t, err)

	aiDir := filepath.Join(root, ".ai")
	assert.Equal(t, []string{
		filepath.Join(aiDir, "files-all.txt"),
		filepath.Join(aiDir, "files-php.txt"),
		filepath.Join(aiDir, "files-css.txt"),
		filepath.Join(aiDir, "files-js.txt"),
	}, result.Primary)
	for _, p := range result.Primary {
		assert.FileExists(t, p)
	}
	assert.Empty(t, result.Dependencies)
	assert.Empty(t, result.Tree)
}

func TestRunCombine_BucketContents(t *testing.T) {
	root := packageFixture(t)

	_, err := RunCombine(testOptions(root), nil)
	require.NoError(t, err)

	aiDir := filepath.Join(root, ".ai")
	all := readFile(t, filepath.Join(aiDir, "files-all.txt"))
	assert.Contains(t, all, `<?php echo "Hello, World!";`)
	assert.Contains(t, all, "body { background-color: #fff; }")
	assert.Contains(t, all, `console.log("Hello, World!");`)
	assert.Contains(t, all, "composer.json\n```\n{}\n```\n")
	assert.NotContains(t, all, "random")
	assert.NotContains(t, all, "DS_Store")
	assert.NotContains(t, all, "hidden system file")

	assert.Equal(t, "src/Test.php\n```\n<?php echo \"Hello, World!\";\n```\n", readFile(t, filepath.Join(aiDir, "files-php.txt")))
	assert.Equal(t, "src/style.css\n```\nbody { background-color: #fff; }\n```\n", readFile(t, filepath.Join(aiDir, "files-css.txt")))
	assert.Equal(t, "src/script.js\n```\nconsole.log(\"Hello, World!\");\n```\n", readFile(t, filepath.Join(aiDir, "files-js.txt")))
}

func TestRunCombine_EmptySourceDirectory(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, map[string]string{"composer.json": "{}"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	result, err := RunCombine(testOptions(root), nil)
	require.NoError(t, err)

	aiDir := filepath.Join(root, ".ai")
	assert.Equal(t, "composer.json\n```\n{}\n```\n", readFile(t, filepath.Join(aiDir, "files-all.txt")))
	assert.NoFileExists(t, filepath.Join(aiDir, "files-php.txt"))
	assert.NoFileExists(t, filepath.Join(aiDir, "files-css.txt"))
	assert.NoFileExists(t, filepath.Join(aiDir, "files-js.txt"))

	require.Len(t, result.Documents, 4)
	assert.True(t, result.Documents[0].Written)
	for _, doc := range result.Documents[1:] {
		assert.False(t, doc.Written, doc.Path)
	}
}

func TestRunCombine_Idempotent(t *testing.T) {
	root := packageFixture(t)
	makeFiles(t, root, map[string]string{
		"src/Nested/Deep/Model.php": "<?php class Model {}",
		"src/Nested/view.js":        "render();",
	})

	_, err := RunCombine(testOptions(root), nil)
	require.NoError(t, err)
	first := map[string]string{}
	for _, b := range DefaultBuckets() {
		first[b.Name] = readFile(t, OutputName(filepath.Join(root, ".ai"), b.Name, ""))
	}

	_, err = RunCombine(testOptions(root), nil)
	require.NoError(t, err)
	for _, b := range DefaultBuckets() {
		assert.Equal(t, first[b.Name], readFile(t, OutputName(filepath.Join(root, ".ai"), b.Name, "")), b.Name)
	}
}

func TestRunCombine_OnlyListedPaths(t *testing.T) {
	root := packageFixture(t)
	outside := t.TempDir()
	makeFiles(t, outside, map[string]string{"Shared.php": "<?php // shared"})
	extra := filepath.Join(outside, "Shared.php")
	makeFiles(t, root, map[string]string{"context-paths.txt": extra + "\n\n"})

	opts := testOptions(root)
	opts.PathListFile = "context-paths.txt"
	opts.OnlyListed = true

	result, err := RunCombine(opts, nil)
	require.NoError(t, err)

	aiDir := filepath.Join(root, ".ai")
	assert.Equal(t, filepath.Join(aiDir, "files-all-context-paths.txt"), result.Primary[0])

	header, err := filepath.Rel(root, extra)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.ToSlash(header), "../"))

	all := readFile(t, filepath.Join(aiDir, "files-all-context-paths.txt"))
	assert.Equal(t, filepath.ToSlash(header)+"\n```\n<?php // shared\n```\n", all)
	assert.Equal(t, all, readFile(t, filepath.Join(aiDir, "files-php-context-paths.txt")))
	assert.NoFileExists(t, filepath.Join(aiDir, "files-css-context-paths.txt"))
	assert.NoFileExists(t, filepath.Join(aiDir, "files-all.txt"))
}

func TestRunCombine_ListedPathsAddToDefaults(t *testing.T) {
	root := packageFixture(t)
	makeFiles(t, root, map[string]string{
		"lib/Helper.php": "<?php // helper",
		"paths.txt":      "lib\n",
	})

	opts := testOptions(root)
	opts.PathListFile = "paths.txt"

	_, err := RunCombine(opts, nil)
	require.NoError(t, err)

	php := readFile(t, filepath.Join(root, ".ai", "files-php-paths.txt"))
	assert.Equal(t, 2, strings.Count(php, "\n```\n<?php"))
	assert.True(t, strings.HasPrefix(php, "src/Test.php\n"))
	assert.Contains(t, php, "lib/Helper.php\n```\n<?php // helper\n```\n")
}

func TestRunCombine_MissingPathListAbortsBeforeScanning(t *testing.T) {
	root := packageFixture(t)
	opts := testOptions(root)
	opts.PathListFile = "does-not-exist.txt"

	_, err := RunCombine(opts, nil)
	assert.ErrorIs(t, err, ErrPathListNotFound)
	assert.NoDirExists(t, filepath.Join(root, ".ai"))
}

func TestRunCombine_HarvestsDependencies(t *testing.T) {
	root := packageFixture(t)
	makeFiles(t, root, map[string]string{
		"composer.json":                   `{"require": {"acme/lib": "^1.0", "other/absent": "^2.0"}}`,
		"vendor/acme/lib/src/Service.php": "<?php class Service {}",
		"vendor/acme/lib/src/app.js":      "ignored()",
	})

	result, err := RunCombine(testOptions(root), nil)
	require.NoError(t, err)

	require.Len(t, result.Dependencies, 2)
	assert.Equal(t, "", result.Dependencies[1])
	dep := readFile(t, result.Dependencies[0])
	assert.Equal(t, "vendor/acme/lib/src/Service.php\n```\n<?php class Service {}\n```\n", dep)
	assert.NotContains(t, readFile(t, result.Primary[0]), "Service")
}

func TestRunCombine_MissingManifest(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, map[string]string{"src/a.php": "<?php"})

	result, err := RunCombine(testOptions(root), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Dependencies)
	assert.FileExists(t, filepath.Join(root, ".ai", "files-php.txt"))
}

func TestRunCombine_InvalidManifest(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, map[string]string{"composer.json": `{"require": `})

	_, err := RunCombine(testOptions(root), nil)
	assert.Error(t, err)
}

func TestRunCombine_Tree(t *testing.T) {
	root := packageFixture(t)
	opts := testOptions(root)
	opts.Tree = true

	result, err := RunCombine(opts, nil)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(root, ".ai", "files-tree.txt"), result.Tree)
	tree := readFile(t, result.Tree)
	assert.Contains(t, tree, "src/")
	assert.Contains(t, tree, "Test.php")
	assert.Contains(t, tree, "composer.json")
	assert.NotContains(t, tree, "random.txt")
}

func TestRunCombine_CustomRelativeBase(t *testing.T) {
	root := packageFixture(t)
	opts := testOptions(root)
	opts.RelativeBase = "src"

	_, err := RunCombine(opts, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(root, ".ai", "files-php.txt")), "Test.php\n"))
}
