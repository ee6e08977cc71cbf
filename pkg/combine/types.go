package combine

import (
	"aicontext/pkg/ignore"
)

// Fence is the marker line that opens and closes every block of an Output Document.
const Fence = "```"

// DefaultMaxBytes is the per-file read ceiling; longer files are truncated.
const DefaultMaxBytes int64 = 500000

// Bucket is a named extension whitelist. An empty whitelist accepts every file.
type Bucket struct {
	Name       string   `mapstructure:"name"`
	Extensions []string `mapstructure:"extensions"`
}

// DefaultBuckets returns the primary buckets in output order.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Name: "all", Extensions: []string{"php", "phtml", "css", "scss", "js", "ts", "json", "html", "twig"}},
		{Name: "php", Extensions: []string{"php"}},
		{Name: "css", Extensions: []string{"css", "scss"}},
		{Name: "js", Extensions: []string{"js", "ts"}},
	}
}

// Options holds everything a run needs. Relative paths resolve against ProjectRoot.
type Options struct {
	ProjectRoot          string      // Directory treated as the project root.
	SourceDirs           []string    // Primary source directories.
	Manifest             string      // Dependency manifest, also scanned as a root.
	OutputDir            string      // Destination directory for all documents.
	PathListFile         string      // Optional user file listing extra roots, one per line.
	OnlyListed           bool        // Scan only the listed roots, not SourceDirs or Manifest.
	Buckets              []Bucket    // Primary buckets.
	DependencyExtensions []string    // Whitelist used when harvesting vendored sources.
	Ignore               *ignore.Set // Base names skipped at every level.
	MaxBytes             int64       // Per-file read ceiling.
	Workers              int         // Concurrent readers per document; <= 0 means NumCPU.
	RelativeBase         string      // Base for block headers; empty means ProjectRoot.
	Tree                 bool        // Also write a tree listing of the scanned files.
}

// WriteOptions controls how a single Output Document is rendered.
type WriteOptions struct {
	RelativeBase string
	MaxBytes     int64
	Workers      int
}

// FileContent is one file read for a document.
type FileContent struct {
	Path      string // Source path as discovered.
	RelPath   string // Header path written into the document.
	Content   []byte // Possibly truncated content.
	Truncated bool   // Content was cut at the read ceiling.
	Err       error  // Read failure; the file is left out of the document.
}

// Document describes one Output Document produced (or skipped) by a run.
type Document struct {
	Path      string   // Destination path.
	Files     []string // Header paths of the rendered blocks, in order.
	Truncated []string // Header paths whose content was cut at the ceiling.
	Skipped   error    // Combined read failures of files left out.
	Written   bool     // The destination was (re)written.
}

// Blocks returns the number of fenced blocks in the document.
func (d Document) Blocks() int {
	return len(d.Files)
}

// Result is the outcome of a full run.
type Result struct {
	Primary      []string   // Primary bucket output paths, written or not.
	Dependencies []string   // One entry per dependency; empty when nothing was vendored.
	Documents    []Document // Primary documents in bucket order.
	Tree         string     // Tree document path when requested and written.
}
