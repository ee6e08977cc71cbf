// Package ignore implements the base-name ignore set applied at every level
// of a directory walk.
package ignore

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// DefaultFileName is the per-project file holding extra ignore entries.
const DefaultFileName = ".contextignore"

// Entry is a single ignore rule matched against a base name.
type Entry struct {
	Name   string // Literal base name or doublestar glob.
	Glob   bool   // Name contains glob meta characters.
	Negate bool   // Entry started with '!' and re-includes matching names.
	Line   string // Original entry text.
}

// Set is a collection of ignore entries. Entries are evaluated in order and
// the last matching entry wins, so a later "!name" can re-include a name.
type Set struct {
	entries []*Entry
	logger  *zap.Logger
}

// NewSet creates a Set from the given entries.
func NewSet(logger *zap.Logger, entries ...string) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{logger: logger}
	s.Add(entries...)
	return s
}

// Add parses entries and appends them to the set. Blank lines, comments and
// invalid globs are dropped.
func (s *Set) Add(lines ...string) {
	for _, line := range lines {
		e := parseEntry(line)
		if e == nil {
			continue
		}
		if e.Glob && !doublestar.ValidatePattern(e.Name) {
			s.logger.Warn("Invalid ignore pattern", zap.String("pattern", line))
			continue
		}
		s.entries = append(s.entries, e)
	}
}

// CompileIgnoreFile reads one entry per line from path. A missing file is not an error.
func (s *Set) CompileIgnoreFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", path))
			return nil
		}
		s.logger.Error("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return err
	}

	lines := strings.Split(string(content), "\n")
	before := len(s.entries)
	s.Add(lines...)
	s.logger.Debug("Compiled ignore entries", zap.String("filePath", path), zap.Int("entryCount", len(s.entries)-before))
	return nil
}

// Len returns the number of entries in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Matches reports whether a base name is ignored.
func (s *Set) Matches(name string) bool {
	matched, _ := s.MatchesWithEntry(name)
	return matched
}

// MatchesWithEntry reports whether a base name is ignored and returns the
// entry that decided it.
func (s *Set) MatchesWithEntry(name string) (bool, *Entry) {
	if s == nil {
		return false, nil
	}

	matched := false
	var decided *Entry
	for _, e := range s.entries {
		if !e.match(name) {
			continue
		}
		matched = !e.Negate
		decided = e
	}
	return matched, decided
}

func (e *Entry) match(name string) bool {
	if !e.Glob {
		return e.Name == name
	}
	ok, err := doublestar.Match(e.Name, name)
	return err == nil && ok
}

// parseEntry turns a line into an Entry, or nil for blank lines and comments.
func parseEntry(line string) *Entry {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	e := &Entry{Line: line}
	if strings.HasPrefix(trimmed, "!") {
		e.Negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	// Handle escaped characters for `#` and `!`.
	if strings.HasPrefix(trimmed, "\\#") || strings.HasPrefix(trimmed, "\\!") {
		trimmed = trimmed[1:]
	}

	// Entries name a single path element.
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return nil
	}

	e.Name = trimmed
	e.Glob = strings.ContainsAny(trimmed, "*?[{")
	return e
}
