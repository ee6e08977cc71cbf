// File: pkg/combine/traversal.go
package combine

import (
	"os"
	"path/filepath"
	"strings"

	"aicontext/pkg/ignore"
	"aicontext/pkg/logging"

	"go.uber.org/zap"
)

// CollectFiles walks the root paths and returns the files accepted by the
// extension whitelist, in discovery order and without duplicates.
//
// Directory roots are listed; file roots are treated as a single-item listing.
// At every level an entry is skipped when its base name is in the ignore set
// or starts with a dot. Roots that do not exist yield nothing. Symlinks are
// followed, but each real directory is listed once and each real file is
// returned once.
func CollectFiles(roots []string, extensions []string, gi *ignore.Set, logger *zap.Logger) []string {
	logger = logging.OrNop(logger)
	logger.Debug("Starting file collection", zap.Int("rootCount", len(roots)))

	seen := make(map[string]struct{})
	visited := make(map[string]struct{})
	var files []string
	add := func(path string) {
		key := realPath(path)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			logger.Debug("Root path does not exist or cannot be accessed", zap.String("path", root), zap.Error(err))
			continue
		}

		if info.IsDir() {
			for _, f := range traverse(root, extensions, gi, visited, logger) {
				add(f)
			}
			continue
		}

		if skipEntry(filepath.Base(root), gi, logger) {
			continue
		}
		if info.Mode().IsRegular() && Accepts(root, extensions) {
			add(root)
		}
	}

	logger.Debug("Completed file collection", zap.Int("files", len(files)))
	return files
}

// traverse recursively lists dir depth-first, in name order, unless its real
// path is already in visited. Unreadable directories are skipped with a warning.
func traverse(dir string, extensions []string, gi *ignore.Set, visited map[string]struct{}, logger *zap.Logger) []string {
	resolved := realPath(dir)
	if _, done := visited[resolved]; done {
		logger.Debug("Skipping already visited directory", zap.String("dir", dir), zap.String("realPath", resolved))
		return nil
	}
	visited[resolved] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("Failed to read directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if skipEntry(name, gi, logger) {
			continue
		}

		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("Failed to stat entry", zap.String("path", path), zap.Error(err))
			continue
		}

		switch {
		case info.IsDir():
			files = append(files, traverse(path, extensions, gi, visited, logger)...)
		case info.Mode().IsRegular() && Accepts(path, extensions):
			files = append(files, path)
		}
	}
	return files
}

// realPath resolves symlinks and returns an absolute path, falling back to
// the absolute or given path when resolution fails.
func realPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// skipEntry applies the ignore set and the hidden-entry rule to a base name.
func skipEntry(name string, gi *ignore.Set, logger *zap.Logger) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if ignored, entry := gi.MatchesWithEntry(name); ignored {
		logger.Debug("Skipping ignored entry", zap.String("name", name), zap.String("rule", entry.Line))
		return true
	}
	return false
}
