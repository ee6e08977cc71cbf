// File: pkg/combine/writer.go
package combine

import (
	"bytes"
	"fmt"
	"os"

	"aicontext/pkg/logging"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// WriteDocument renders files into a single Output Document at dest.
//
// Blocks follow the order of files. Unreadable files are left out and their
// errors are combined into Document.Skipped. An empty file list leaves dest
// untouched. When files were given but none could be read, a previous dest is
// removed so no stale document survives. Otherwise dest is overwritten in a
// single write.
func WriteDocument(files []string, dest string, opts WriteOptions, logger *zap.Logger) (Document, error) {
	logger = logging.OrNop(logger)
	doc := Document{Path: dest}

	if len(files) == 0 {
		logger.Debug("No files for document, skipping write", zap.String("document", dest))
		return doc, nil
	}

	var out bytes.Buffer
	for _, fc := range ProcessFilesConcurrently(files, opts, logger) {
		if fc.Err != nil {
			doc.Skipped = multierr.Append(doc.Skipped, fc.Err)
			continue
		}
		out.Write(RenderBlock(fc.RelPath, fc.Content))
		doc.Files = append(doc.Files, fc.RelPath)
		if fc.Truncated {
			doc.Truncated = append(doc.Truncated, fc.RelPath)
		}
	}

	if doc.Skipped != nil {
		logger.Warn("Some files were left out of the document",
			zap.String("document", dest),
			zap.Int("skipped", len(multierr.Errors(doc.Skipped))),
			zap.Error(doc.Skipped))
	}

	if len(doc.Files) == 0 {
		if err := removeStale(dest, logger); err != nil {
			return doc, fmt.Errorf("failed to remove stale document %s: %w", dest, err)
		}
		return doc, nil
	}

	if err := writeToFile(dest, out.Bytes(), 0o644, logger); err != nil {
		return doc, fmt.Errorf("failed to write document %s: %w", dest, err)
	}
	doc.Written = true

	logger.Debug("Wrote document",
		zap.String("document", dest),
		zap.Int("blocks", doc.Blocks()),
		zap.Int("truncated", len(doc.Truncated)))
	return doc, nil
}

// removeStale deletes a document left by an earlier run. A missing file is not an error.
func removeStale(path string, logger *zap.Logger) error {
	err := os.Remove(path)
	if err == nil {
		logger.Warn("Removed stale document, no file could be read", zap.String("document", path))
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// writeToFile writes data to a file and logs the operation.
func writeToFile(path string, data []byte, perm os.FileMode, logger *zap.Logger) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote file", zap.String("path", path))
	return nil
}
