// Package combine aggregates project and dependency source files into fenced
// text documents for use as LLM chat context.
package combine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aicontext/pkg/logging"
	"aicontext/pkg/manifest"

	"go.uber.org/zap"
)

// RunCombine performs a full run: resolve roots, walk them once, write one
// document per bucket, then harvest the manifest's dependencies.
func RunCombine(opts Options, logger *zap.Logger) (*Result, error) {
	logger = logging.OrNop(logger)
	startTime := time.Now()

	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	opts.ProjectRoot = root
	logger.Info("Starting combination process", zap.String("projectRoot", root))

	roots, err := ResolveRoots(opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	outputDir := resolveUnder(root, opts.OutputDir)
	if err := ensureDirectory(outputDir, logger); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := opts.RelativeBase
	if base == "" {
		base = root
	} else {
		base = resolveUnder(root, base)
	}
	wopts := WriteOptions{RelativeBase: base, MaxBytes: opts.MaxBytes, Workers: opts.Workers}

	scanned := CollectFiles(roots.Paths, nil, opts.Ignore, logger)

	result := &Result{}
	for _, bucket := range opts.Buckets {
		dest := OutputName(outputDir, bucket.Name, roots.Suffix)
		files := Classify(scanned, bucket.Extensions)

		doc, err := WriteDocument(files, dest, wopts, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to write bucket %q: %w", bucket.Name, err)
		}
		logger.Debug("Processed bucket",
			zap.String("bucket", bucket.Name),
			zap.Int("matched", len(files)),
			zap.Int("blocks", doc.Blocks()))

		result.Primary = append(result.Primary, dest)
		result.Documents = append(result.Documents, doc)
	}

	if opts.Tree {
		treePath, err := writeTree(scanned, opts.Buckets, outputDir, roots.Suffix, base, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to write tree structure: %w", err)
		}
		result.Tree = treePath
	}

	var deps []manifest.Dependency
	if opts.Manifest != "" {
		deps, err = loadDependencies(resolveUnder(root, opts.Manifest), logger)
		if err != nil {
			return nil, err
		}
	}
	result.Dependencies = Harvest(deps, HarvestOptions{
		ProjectRoot: root,
		OutputDir:   outputDir,
		Extensions:  opts.DependencyExtensions,
		Ignore:      opts.Ignore,
		Write:       wopts,
	}, logger)

	logger.Info("Combination process completed",
		zap.Int("documents", len(result.Documents)),
		zap.Int("dependencies", len(result.Dependencies)),
		zap.Duration("elapsed", time.Since(startTime)))
	return result, nil
}

// loadDependencies reads the manifest's require mapping. A missing manifest
// means no dependencies.
func loadDependencies(path string, logger *zap.Logger) ([]manifest.Dependency, error) {
	m, err := manifest.Load(path, logger)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Manifest not found, skipping dependencies", zap.String("manifest", path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	return m.Dependencies, nil
}

// writeTree writes the tree document for the first bucket's files.
func writeTree(scanned []string, buckets []Bucket, outputDir, suffix, base string, logger *zap.Logger) (string, error) {
	files := scanned
	if len(buckets) > 0 {
		files = Classify(scanned, buckets[0].Extensions)
	}
	if len(files) == 0 {
		return "", nil
	}

	rel := make([]string, 0, len(files))
	for _, f := range files {
		rel = append(rel, RelativePath(base, f))
	}

	dest := OutputName(outputDir, "tree", suffix)
	if err := writeToFile(dest, []byte(GenerateTree(rel)), 0o644, logger); err != nil {
		return "", err
	}
	return dest, nil
}
