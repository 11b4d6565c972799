package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// WallTime is a time-of-day with no associated date, expressed as hours and
// minutes (0-23, 0-59). Markets' trading hours and cut-offs are configured
// this way; WallTime only gains a date and a timezone when combined with one
// in the clock package.
type WallTime struct {
	Hour   int
	Minute int
}

// NewWallTime constructs a WallTime, returning an error if the components are
// out of range.
func NewWallTime(hour, minute int) (WallTime, error) {
	if hour < 0 || hour > 23 {
		return WallTime{}, fmt.Errorf("wall time hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return WallTime{}, fmt.Errorf("wall time minute out of range: %d", minute)
	}
	return WallTime{Hour: hour, Minute: minute}, nil
}

// ParseWallTime parses an "HH:MM" string in 24-hour form.
func ParseWallTime(s string) (WallTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return WallTime{}, fmt.Errorf("invalid time format: %q (want HH:MM)", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return WallTime{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return WallTime{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	return NewWallTime(hour, minute)
}

// String renders the wall time as "HH:MM".
func (w WallTime) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// Before reports whether w occurs strictly before other within the same day.
func (w WallTime) Before(other WallTime) bool {
	return w.Hour < other.Hour || (w.Hour == other.Hour && w.Minute < other.Minute)
}

// MinutesSinceMidnight returns the wall time as an offset in minutes.
func (w WallTime) MinutesSinceMidnight() int {
	return w.Hour*60 + w.Minute
}

// MarshalJSON renders the wall time as an "HH:MM" JSON string.
func (w WallTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

// UnmarshalJSON parses an "HH:MM" JSON string into a WallTime.
func (w *WallTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWallTime(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
