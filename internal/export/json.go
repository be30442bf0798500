package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/tock/internal/store"
	"github.com/sadopc/tock/internal/timefmt"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Runs       []jsonRun `json:"runs"`
}

type jsonRun struct {
	ID         int64   `json:"id"`
	Session    string  `json:"session_id"`
	Mode       string  `json:"mode"`
	Outcome    string  `json:"outcome"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	TargetSec  int64   `json:"target_seconds,omitempty"`
	ElapsedSec float64 `json:"elapsed_seconds"`
	Elapsed    string  `json:"elapsed"`
}

func ToJSON(runs []store.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, runs, time.Now())
}

// WriteJSON writes runs as an indented JSON document stamped with now.
func WriteJSON(out io.Writer, runs []store.Run, now time.Time) error {
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(runs),
	}

	for _, r := range runs {
		export.Runs = append(export.Runs, jsonRun{
			ID:         r.ID,
			Session:    r.SessionID,
			Mode:       r.Mode,
			Outcome:    string(r.Outcome),
			StartTime:  r.StartedAt.Local().Format(time.RFC3339),
			EndTime:    r.EndedAt.Local().Format(time.RFC3339),
			TargetSec:  r.TargetSeconds,
			ElapsedSec: r.ElapsedSeconds,
			Elapsed:    timefmt.Seconds(int64(r.ElapsedSeconds)),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
