package combine

import (
	"os"
	"path/filepath"
	"testing"

	"aicontext/pkg/ignore"

	"github.com/stretchr/testify/require"
)

// makeFiles creates files under root. Keys are slash-separated relative paths.
func makeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testOptions(root string) Options {
	return Options{
		ProjectRoot:          root,
		SourceDirs:           []string{"src"},
		Manifest:             "composer.json",
		OutputDir:            ".ai",
		Buckets:              DefaultBuckets(),
		DependencyExtensions: []string{"php"},
		Ignore:               ignore.NewSet(nil, "vendor", "node_modules"),
		MaxBytes:             DefaultMaxBytes,
		Workers:              2,
	}
}
