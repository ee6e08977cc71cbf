// File: pkg/combine/harvest.go
package combine

import (
	"os"
	"path/filepath"
	"strings"

	"aicontext/pkg/ignore"
	"aicontext/pkg/logging"
	"aicontext/pkg/manifest"

	"go.uber.org/zap"
)

// HarvestOptions configures dependency harvesting.
type HarvestOptions struct {
	ProjectRoot string
	OutputDir   string
	Extensions  []string
	Ignore      *ignore.Set
	Write       WriteOptions
}

// DependencyOutputName returns the document path for a dependency.
func DependencyOutputName(outputDir string, dep manifest.Dependency) string {
	return filepath.Join(outputDir, "composer-"+sanitizeName(dep.Name)+"-"+sanitizeName(dep.Constraint)+".txt")
}

// VendorSourceDir returns the conventional vendored source directory of a dependency.
func VendorSourceDir(projectRoot string, dep manifest.Dependency) string {
	return filepath.Join(projectRoot, "vendor", filepath.FromSlash(dep.Name), "src")
}

// Harvest writes one document per vendored dependency and returns one entry
// per dependency: the document path, or "" when the dependency has no
// vendored source or nothing matched. An existing document is returned as is
// without scanning.
func Harvest(deps []manifest.Dependency, opts HarvestOptions, logger *zap.Logger) []string {
	logger = logging.OrNop(logger)

	outputs := make([]string, 0, len(deps))
	for _, dep := range deps {
		outputs = append(outputs, harvestOne(dep, opts, logger.With(zap.String("dependency", dep.Name))))
	}
	return outputs
}

func harvestOne(dep manifest.Dependency, opts HarvestOptions, logger *zap.Logger) string {
	dest := DependencyOutputName(opts.OutputDir, dep)
	if _, err := os.Stat(dest); err == nil {
		logger.Debug("Dependency document already exists", zap.String("document", dest))
		return dest
	}

	srcDir := VendorSourceDir(opts.ProjectRoot, dep)
	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		logger.Debug("No vendored source",
			zap.String("dir", srcDir),
			zap.String("vendor", dep.Vendor()),
			zap.String("package", dep.Package()),
			zap.String("version", dep.Version()))
		return ""
	}

	files := CollectFiles([]string{srcDir}, opts.Extensions, opts.Ignore, logger)
	doc, err := WriteDocument(files, dest, opts.Write, logger)
	if err != nil {
		logger.Warn("Failed to write dependency document", zap.String("document", dest), zap.Error(err))
		return ""
	}
	if !doc.Written {
		return ""
	}

	logger.Debug("Harvested dependency",
		zap.String("document", dest),
		zap.String("vendor", dep.Vendor()),
		zap.String("package", dep.Package()),
		zap.Int("blocks", doc.Blocks()))
	return dest
}

// sanitizeName replaces path separators so a name stays within one path element.
func sanitizeName(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(s)
}
