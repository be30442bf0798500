package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/tock/internal/store"
	"github.com/sadopc/tock/internal/timefmt"
)

var csvHeader = []string{"ID", "Session", "Mode", "Outcome", "Start", "End", "Target (s)", "Elapsed (s)", "Elapsed"}

func ToCSV(runs []store.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, runs)
}

// WriteCSV writes runs as CSV with a header row.
func WriteCSV(out io.Writer, runs []store.Run) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range runs {
		target := ""
		if r.TargetSeconds > 0 {
			target = strconv.FormatInt(r.TargetSeconds, 10)
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.SessionID,
			r.Mode,
			string(r.Outcome),
			r.StartedAt.Local().Format(time.RFC3339),
			r.EndedAt.Local().Format(time.RFC3339),
			target,
			strconv.FormatFloat(r.ElapsedSeconds, 'f', 2, 64),
			timefmt.Seconds(int64(r.ElapsedSeconds)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
