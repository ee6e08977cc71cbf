// Package report prints the completion summary of a run.
package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

const fence = "```"

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

// Write prints the number of blocks across the existing primary documents and
// the name and size of every existing document. Empty paths are ignored.
func Write(w io.Writer, primary, dependencies []string) error {
	total := 0
	for _, path := range primary {
		n, err := CountBlocks(path)
		if err != nil {
			continue
		}
		total += n
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n%s\n", headerStyle.Render("Script completed successfully."))
	fmt.Fprintf(bw, "Total files scanned: %d\n", total)
	fmt.Fprintln(bw, "Files created:")

	for _, path := range append(append([]string{}, primary...), dependencies...) {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		fmt.Fprintf(bw, "- %s (%s)\n", filepath.Base(path), HumanSize(info.Size()))
	}
	return bw.Flush()
}

// CountBlocks counts the fence-open lines of a document. A fence line opens a
// block when no block is open and closes the open one otherwise.
func CountBlocks(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	count := 0
	open := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for scanner.Scan() {
		if scanner.Text() != fence {
			continue
		}
		if !open {
			count++
		}
		open = !open
	}
	return count, scanner.Err()
}

// HumanSize formats a byte count as bytes, KB or MB with at most two decimals.
func HumanSize(n int64) string {
	switch {
	case n >= 1048576:
		return formatUnit(float64(n)/1048576) + " MB"
	case n >= 1024:
		return formatUnit(float64(n)/1024) + " KB"
	default:
		return strconv.FormatInt(n, 10) + " bytes"
	}
}

func formatUnit(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
