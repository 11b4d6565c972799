package rules

import (
	"fmt"
	"time"
)

// knownHalfDays is the table of recurring half-day patterns: month/day
// pairs that recur every year regardless of weekday, keyed by label.
var knownHalfDays = []struct {
	label string
	month time.Month
	day   int
}{
	{"Christmas Eve", time.December, 24},
	{"New Year's Eve", time.December, 31},
}

// KnownHalfDayRule warns about markets that typically trade reduced hours
// on recurring calendar dates (Christmas Eve, New Year's Eve), plus the
// Lunar New Year's Eve derived from the LNY table.
type KnownHalfDayRule struct{}

// NewKnownHalfDayRule constructs the rule.
func NewKnownHalfDayRule() *KnownHalfDayRule {
	return &KnownHalfDayRule{}
}

// Name returns the rule's identifier.
func (r *KnownHalfDayRule) Name() string { return "known_half_day" }

// Check returns reduced-hours advice when date matches a known half-day
// pattern.
func (r *KnownHalfDayRule) Check(market string, date time.Time) Advice {
	for _, hd := range knownHalfDays {
		if date.Month() == hd.month && date.Day() == hd.day {
			return r.advice(market, hd.label)
		}
	}

	if lny, ok := lunarNewYearDates[date.Year()]; ok {
		eve := lny.AddDate(0, 0, -1)
		if date.Year() == eve.Year() && date.Month() == eve.Month() && date.Day() == eve.Day() {
			return r.advice(market, "Lunar New Year's Eve")
		}
	}

	return Advice{}
}

func (r *KnownHalfDayRule) advice(market, label string) Advice {
	return Advice{
		Warnings: []string{
			fmt.Sprintf("%s may trade reduced hours on %s", market, label),
		},
	}
}
