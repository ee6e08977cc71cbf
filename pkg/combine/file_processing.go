package combine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ReadCapped reads at most maxBytes of the file at path. The truncated flag
// reports whether the file held more than maxBytes. A non-positive maxBytes
// reads the whole file.
func ReadCapped(path string, maxBytes int64) ([]byte, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	if maxBytes <= 0 {
		content, err := io.ReadAll(file)
		return content, false, err
	}

	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(content)) > maxBytes {
		return content[:maxBytes], true, nil
	}
	return content, false, nil
}

// RelativePath returns path relative to base with forward slashes. Paths
// outside base keep their leading "../" segments; paths that cannot be
// relativised at all (different volumes) are returned unchanged.
func RelativePath(base, path string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// RenderBlock formats one file as a header line followed by fenced content.
func RenderBlock(relPath string, content []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(relPath) + len(content) + 2*len(Fence) + 4)
	buf.WriteString(relPath)
	buf.WriteString("\n" + Fence + "\n")
	buf.Write(content)
	buf.WriteString("\n" + Fence + "\n")
	return buf.Bytes()
}

// ProcessSingleFile reads one file for a document.
func ProcessSingleFile(filePath string, opts WriteOptions, logger *zap.Logger) FileContent {
	fc := FileContent{
		Path:    filePath,
		RelPath: RelativePath(opts.RelativeBase, filePath),
	}

	content, truncated, err := ReadCapped(filePath, opts.MaxBytes)
	if err != nil {
		fc.Err = fmt.Errorf("error reading file %s: %w", filePath, err)
		return fc
	}
	if truncated {
		logger.Debug("File truncated at read ceiling",
			zap.String("filePath", filePath),
			zap.Int64("maxBytes", opts.MaxBytes))
	}

	fc.Content = content
	fc.Truncated = truncated
	return fc
}
