package rules

import (
	"fmt"
	"time"
)

// lunarNewYearDates maps year to the date of Lunar New Year's Day. The
// Lunar calendar has no closed-form conversion; this table is maintained
// by hand for the years this engine is expected to run against.
var lunarNewYearDates = map[int]time.Time{
	2024: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
	2025: time.Date(2025, time.January, 29, 0, 0, 0, 0, time.UTC),
	2026: time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC),
	2027: time.Date(2027, time.February, 6, 0, 0, 0, 0, time.UTC),
	2028: time.Date(2028, time.January, 26, 0, 0, 0, 0, time.UTC),
}

// withinLunarNewYearWindow reports whether date falls within [LNY-7,
// LNY+14] for its year, per §4.7. A year absent from the table never
// matches.
func withinLunarNewYearWindow(date time.Time) bool {
	lny, ok := lunarNewYearDates[date.Year()]
	if !ok {
		return false
	}
	start := lny.AddDate(0, 0, -7)
	end := lny.AddDate(0, 0, 14)
	return !date.Before(start) && !date.After(end)
}

// LunarNewYearRule warns that the Lunar New Year period brings extended
// closures, particularly in Mainland China, Hong Kong, Taiwan, and Korea.
type LunarNewYearRule struct{}

// NewLunarNewYearRule constructs the rule.
func NewLunarNewYearRule() *LunarNewYearRule {
	return &LunarNewYearRule{}
}

// Name returns the rule's identifier.
func (r *LunarNewYearRule) Name() string { return "lunar_new_year" }

// Check returns Lunar-New-Year advice when date falls in the window.
func (r *LunarNewYearRule) Check(market string, date time.Time) Advice {
	if !withinLunarNewYearWindow(date) {
		return Advice{}
	}
	lny := lunarNewYearDates[date.Year()]
	return Advice{
		Warnings: []string{
			fmt.Sprintf("%s is within the Lunar New Year period (around %s); expect multiple consecutive closure days", market, lny.Format("2006-01-02")),
		},
		Recommendations: []string{
			"verify the exact Lunar New Year closure schedule for affected markets before committing to a settlement date",
		},
	}
}
