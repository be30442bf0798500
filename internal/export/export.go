// Package export writes the run journal to CSV or JSON.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/tock/internal/store"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write renders runs to out in format f.
func Write(out io.Writer, f Format, runs []store.Run) error {
	switch f {
	case FormatCSV:
		return WriteCSV(out, runs)
	case FormatJSON:
		return WriteJSON(out, runs, time.Now())
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes runs to path in format f.
func ToFile(f Format, runs []store.Run, path string) error {
	switch f {
	case FormatCSV:
		return ToCSV(runs, path)
	case FormatJSON:
		return ToJSON(runs, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// DefaultFilename names an export taken at now.
func DefaultFilename(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("tock-export-%s.%s", now.Format("20060102-150405"), f))
}
