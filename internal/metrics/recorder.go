// Package metrics defines the observability hooks the engine reports to.
package metrics

import "time"

// Recorder receives engine events and completed runs. Implementations may
// forward to Prometheus; NoopRecorder is the default when metrics are off.
type Recorder interface {
	IncEvent(event string)
	IncIgnored(event string)
	ObserveRun(mode, outcome string, elapsed time.Duration)
	SetRunning(running bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncEvent(string)                          {}
func (NoopRecorder) IncIgnored(string)                        {}
func (NoopRecorder) ObserveRun(string, string, time.Duration) {}
func (NoopRecorder) SetRunning(bool)                          {}
