// File: pkg/combine/paths.go
package combine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrPathListNotFound is returned when a path-list file cannot be found either
// as given or relative to the project root.
var ErrPathListNotFound = errors.New("additional paths file not found")

// ErrNoPathList is returned when only-listed mode is requested without a path-list file.
var ErrNoPathList = errors.New("only-listed mode requires a path-list file")

// Roots is the resolved scan input of a run.
type Roots struct {
	Paths  []string // Root paths in scan order.
	Suffix string   // Output name suffix derived from the path-list file.
}

// ResolvePathList locates the user path-list file: the literal path first,
// then relative to the project root.
func ResolvePathList(name, projectRoot string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	candidate := filepath.Join(projectRoot, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %s", ErrPathListNotFound, name)
}

// ReadPathList returns the non-blank lines of a path-list file with line
// endings removed.
func ReadPathList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read path list %s: %w", path, err)
	}

	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan path list %s: %w", path, err)
	}
	return paths, nil
}

// ResolveRoots determines the root paths of a run: the source directories and
// the manifest, followed by the listed paths. In only-listed mode the listed
// paths are the only roots.
func ResolveRoots(opts Options, logger *zap.Logger) (Roots, error) {
	root := opts.ProjectRoot
	var roots Roots

	if opts.OnlyListed && opts.PathListFile == "" {
		return roots, ErrNoPathList
	}

	if !opts.OnlyListed {
		for _, dir := range opts.SourceDirs {
			roots.Paths = append(roots.Paths, resolveUnder(root, dir))
		}
		if opts.Manifest != "" {
			roots.Paths = append(roots.Paths, resolveUnder(root, opts.Manifest))
		}
	}

	if opts.PathListFile == "" {
		return roots, nil
	}

	listFile, err := ResolvePathList(opts.PathListFile, root)
	if err != nil {
		logger.Error("Path list file not found", zap.String("pathList", opts.PathListFile), zap.String("projectRoot", root))
		return roots, err
	}
	listed, err := ReadPathList(listFile)
	if err != nil {
		return roots, err
	}
	for _, p := range listed {
		roots.Paths = append(roots.Paths, resolveUnder(root, p))
	}
	roots.Suffix = PathListSuffix(listFile)

	logger.Debug("Resolved listed paths", zap.String("pathList", listFile), zap.Int("count", len(listed)))
	return roots, nil
}

// PathListSuffix derives the output name suffix from the path-list file name.
func PathListSuffix(listFile string) string {
	base := filepath.Base(listFile)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return strings.TrimPrefix(base, ".")
}

// OutputName builds the path of a primary bucket document.
func OutputName(outputDir, bucket, suffix string) string {
	name := "files-" + bucket
	if suffix != "" {
		name += "-" + suffix
	}
	return filepath.Join(outputDir, name+".txt")
}

func resolveUnder(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
