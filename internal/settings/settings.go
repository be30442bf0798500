// Package settings is the typed view over the flat key/value surface that
// persists the timer between sessions.
//
// Reads never fail: a missing or unparsable value yields the built-in
// default. Writes are fire-and-forget; a backend error is logged and
// swallowed so that a state transition is never aborted by persistence.
package settings

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/sadopc/tock/internal/logfields"
)

// Key names a persisted setting.
type Key string

const (
	KeyTimer          Key = "timer"
	KeyTimerInitial   Key = "timerInitial"
	KeyStopwatch      Key = "stopwatch"
	KeyMode           Key = "mode"
	KeyIsCountToTimer Key = "isCountToTimer"
	KeyCountTo        Key = "countTo"
)

// Keys lists every key the engine persists, in display order.
var Keys = []Key{KeyMode, KeyTimer, KeyTimerInitial, KeyStopwatch, KeyIsCountToTimer, KeyCountTo}

// Mode is the direction time flows in.
type Mode string

const (
	ModeTimer     Mode = "timer"
	ModeStopwatch Mode = "stopwatch"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeTimer || m == ModeStopwatch
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == ModeStopwatch {
		return ModeTimer
	}
	return ModeStopwatch
}

// Built-in defaults.
const (
	DefaultTimerSeconds     = 300
	DefaultStopwatchSeconds = 0
	DefaultMode             = ModeTimer
	DefaultIsCountToTimer   = false
)

// Backend is the raw persistence surface.
type Backend interface {
	// Lookup returns the stored value and whether the key is present.
	Lookup(key string) (string, bool, error)
	// Store writes value under key.
	Store(key, value string) error
}

// Store is the typed settings adapter.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps backend. A nil logger uses slog.Default().
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Initialize seeds every absent key that has a non-null default. It is safe
// to call repeatedly; present values are never overwritten.
func (s *Store) Initialize() {
	seeds := []struct {
		key   Key
		value string
	}{
		{KeyTimer, strconv.Itoa(DefaultTimerSeconds)},
		{KeyTimerInitial, strconv.Itoa(DefaultTimerSeconds)},
		{KeyStopwatch, strconv.Itoa(DefaultStopwatchSeconds)},
		{KeyMode, string(DefaultMode)},
		{KeyIsCountToTimer, strconv.FormatBool(DefaultIsCountToTimer)},
	}
	for _, seed := range seeds {
		_, ok, err := s.backend.Lookup(string(seed.key))
		if err != nil {
			s.logger.Warn("settings lookup failed", logfields.Key(string(seed.key)), logfields.Error(err))
			continue
		}
		if ok {
			continue
		}
		s.write(seed.key, seed.value)
	}
}

func (s *Store) raw(key Key) (string, bool) {
	v, ok, err := s.backend.Lookup(string(key))
	if err != nil {
		s.logger.Warn("settings lookup failed", logfields.Key(string(key)), logfields.Error(err))
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *Store) number(key Key, fallback float64) float64 {
	v, ok := s.raw(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		s.logger.Debug("unparsable setting, using default", logfields.Key(string(key)), slog.String("value", v))
		return fallback
	}
	return f
}

// Timer returns the persisted Timer-mode display value in seconds.
func (s *Store) Timer() float64 { return s.number(KeyTimer, DefaultTimerSeconds) }

// TimerInitial returns the persisted countdown duration in seconds.
func (s *Store) TimerInitial() float64 { return s.number(KeyTimerInitial, DefaultTimerSeconds) }

// Stopwatch returns the persisted Stopwatch-mode value in seconds.
func (s *Store) Stopwatch() float64 { return s.number(KeyStopwatch, DefaultStopwatchSeconds) }

// Mode returns the persisted mode.
func (s *Store) Mode() Mode {
	v, ok := s.raw(KeyMode)
	if !ok {
		return DefaultMode
	}
	if m := Mode(v); m.Valid() {
		return m
	}
	s.logger.Debug("unknown mode, using default", slog.String("value", v))
	return DefaultMode
}

// IsCountToTimer returns whether the Timer counts down to a clock time.
func (s *Store) IsCountToTimer() bool {
	v, ok := s.raw(KeyIsCountToTimer)
	if !ok {
		return DefaultIsCountToTimer
	}
	return v == "true"
}

// CountTo returns the count-to target in minutes since midnight. The second
// result is false when no target has been stored.
func (s *Store) CountTo() (int, bool) {
	v, ok := s.raw(KeyCountTo)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.logger.Debug("unparsable count-to target", slog.String("value", v))
		return 0, false
	}
	return n, true
}

// Set writes a value, converting it according to key. Unknown keys, invalid
// modes and mismatched value types are logged and dropped.
func (s *Store) Set(key Key, value any) {
	switch key {
	case KeyTimer, KeyTimerInitial, KeyStopwatch, KeyCountTo:
		str, ok := formatNumber(value)
		if !ok {
			s.logger.Warn("setting expects a number", logfields.Key(string(key)), slog.Any("value", value))
			return
		}
		s.write(key, str)
	case KeyMode:
		m, ok := toMode(value)
		if !ok || !m.Valid() {
			s.logger.Warn("invalid mode", slog.Any("value", value))
			return
		}
		s.write(key, string(m))
	case KeyIsCountToTimer:
		b, ok := value.(bool)
		if !ok {
			s.logger.Warn("setting expects a boolean", logfields.Key(string(key)), slog.Any("value", value))
			return
		}
		s.write(key, strconv.FormatBool(b))
	default:
		s.logger.Warn("unknown setting key", logfields.Key(string(key)))
	}
}

// SetTimer persists the Timer-mode display value.
func (s *Store) SetTimer(secs float64) { s.Set(KeyTimer, secs) }

// SetTimerInitial persists the countdown duration.
func (s *Store) SetTimerInitial(secs int) { s.Set(KeyTimerInitial, secs) }

// SetStopwatch persists the Stopwatch-mode value.
func (s *Store) SetStopwatch(secs float64) { s.Set(KeyStopwatch, secs) }

// SetMode persists the mode.
func (s *Store) SetMode(m Mode) { s.Set(KeyMode, m) }

// SetIsCountToTimer persists the count-to flag.
func (s *Store) SetIsCountToTimer(v bool) { s.Set(KeyIsCountToTimer, v) }

// SetCountTo persists the count-to target in minutes since midnight.
func (s *Store) SetCountTo(minutes int) { s.Set(KeyCountTo, minutes) }

// Seconds returns the persisted display value for mode m.
func (s *Store) Seconds(m Mode) float64 {
	if m == ModeStopwatch {
		return s.Stopwatch()
	}
	return s.Timer()
}

// SetSeconds persists the display value for mode m.
func (s *Store) SetSeconds(m Mode, secs float64) {
	if m == ModeStopwatch {
		s.SetStopwatch(secs)
		return
	}
	s.SetTimer(secs)
}

func (s *Store) write(key Key, value string) {
	if err := s.backend.Store(string(key), value); err != nil {
		s.logger.Error("persist setting", logfields.Key(string(key)), logfields.Error(err))
	}
}

func formatNumber(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case string:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "", false
		}
		return v, true
	}
	return "", false
}

func toMode(value any) (Mode, bool) {
	switch v := value.(type) {
	case Mode:
		return v, true
	case string:
		return Mode(v), true
	case fmt.Stringer:
		return Mode(v.String()), true
	}
	return "", false
}
