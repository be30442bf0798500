package store

import (
	"strconv"
	"time"
)

// Preference keys seeded by the first migration.
const (
	KeyAdjustSmall   = "adjust_small"
	KeyAdjustMedium  = "adjust_medium"
	KeyAdjustLarge   = "adjust_large"
	KeyFlashInterval = "flash_interval"
)

// Preferences are the presentation settings kept next to the engine keys.
type Preferences struct {
	// AdjustSteps are the small, medium and large adjust amounts in seconds.
	AdjustSteps   [3]int
	FlashInterval time.Duration
}

// DefaultPreferences mirrors the seeded rows.
func DefaultPreferences() Preferences {
	return Preferences{
		AdjustSteps:   [3]int{30, 60, 300},
		FlashInterval: 500 * time.Millisecond,
	}
}

// LoadPreferences reads the preference rows, keeping the default for any
// row that is missing, unparsable or not positive.
func (s *Store) LoadPreferences() Preferences {
	p := DefaultPreferences()
	for i, k := range []string{KeyAdjustSmall, KeyAdjustMedium, KeyAdjustLarge} {
		if n, ok := s.positiveInt(k); ok {
			p.AdjustSteps[i] = n
		}
	}
	if n, ok := s.positiveInt(KeyFlashInterval); ok {
		p.FlashInterval = time.Duration(n) * time.Millisecond
	}
	return p
}

// SavePreferences writes every preference row.
func (s *Store) SavePreferences(p Preferences) error {
	rows := [][2]string{
		{KeyAdjustSmall, strconv.Itoa(p.AdjustSteps[0])},
		{KeyAdjustMedium, strconv.Itoa(p.AdjustSteps[1])},
		{KeyAdjustLarge, strconv.Itoa(p.AdjustSteps[2])},
		{KeyFlashInterval, strconv.FormatInt(p.FlashInterval.Milliseconds(), 10)},
	}
	for _, r := range rows {
		if err := s.SetSetting(r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) positiveInt(key string) (int, bool) {
	v, err := s.GetSetting(key)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
