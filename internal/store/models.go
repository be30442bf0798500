package store

import "time"

// Outcome records how a run ended.
type Outcome string

const (
	OutcomeFinished  Outcome = "finished"
	OutcomeReset     Outcome = "reset"
	OutcomeAbandoned Outcome = "abandoned"
)

// Run is one started-to-ended stretch of a timer or stopwatch.
type Run struct {
	ID             int64
	SessionID      string
	Mode           string
	TargetSeconds  int64
	ElapsedSeconds float64
	Outcome        Outcome
	StartedAt      time.Time
	EndedAt        time.Time
	CreatedAt      time.Time
}

type Setting struct {
	Key   string
	Value string
}

// RunFilter is used to filter runs in queries.
type RunFilter struct {
	Mode      string
	SessionID string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// DailySummary represents aggregated time per mode per day.
type DailySummary struct {
	Date         string
	Mode         string
	TotalSeconds int64
	RunCount     int
}
