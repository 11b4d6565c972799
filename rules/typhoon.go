package rules

import (
	"fmt"
	"time"
)

// TyphoonSeasonRule warns that HK and TW are subject to unplanned
// typhoon-signal closures between June and October, and recommends
// building in a settlement buffer.
type TyphoonSeasonRule struct{}

// NewTyphoonSeasonRule constructs the rule.
func NewTyphoonSeasonRule() *TyphoonSeasonRule {
	return &TyphoonSeasonRule{}
}

// Name returns the rule's identifier.
func (r *TyphoonSeasonRule) Name() string { return "typhoon_season" }

// Check returns typhoon-season advice for HK/TW during June-October.
func (r *TyphoonSeasonRule) Check(market string, date time.Time) Advice {
	if market != "HK" && market != "TW" {
		return Advice{}
	}
	month := date.Month()
	if month < time.June || month > time.October {
		return Advice{}
	}
	return Advice{
		Warnings: []string{
			fmt.Sprintf("%s is in typhoon season (June-October); unplanned signal-8 closures can occur with little notice", market),
		},
		Recommendations: []string{
			"consider adding a settlement buffer for trades involving a typhoon-season market",
		},
	}
}
