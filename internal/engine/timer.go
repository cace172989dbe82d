package engine

import (
	"encoding/json"
	"time"
)

// ExpiringFlag is a boolean condition that holds until a wall-clock instant.
// The zero value is inactive.
type ExpiringFlag struct {
	Until time.Time
}

// Active reports whether the flag is still set at now.
func (f ExpiringFlag) Active(now time.Time) bool {
	return !f.Until.IsZero() && now.Before(f.Until)
}

// Remaining returns the time left, or zero when inactive.
func (f ExpiringFlag) Remaining(now time.Time) time.Duration {
	if !f.Active(now) {
		return 0
	}
	return f.Until.Sub(now)
}

func (f *ExpiringFlag) Set(until time.Time) { f.Until = until }
func (f *ExpiringFlag) Clear()               { f.Until = time.Time{} }

// Shift moves the expiry by d. Inactive flags are left untouched.
func (f *ExpiringFlag) Shift(d time.Duration) {
	if f.Until.IsZero() {
		return
	}
	f.Until = f.Until.Add(d)
}

// MarshalJSON stores the flag as an RFC3339 timestamp, or "" when unset.
func (f ExpiringFlag) MarshalJSON() ([]byte, error) {
	if f.Until.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(f.Until.UTC().Format(time.RFC3339Nano))
}

func (f *ExpiringFlag) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		f.Until = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	f.Until = t
	return nil
}
