// Package settlement implements the Settlement Engine (C6): it
// orchestrates validation, cut-off checks, settlement-date resolution,
// classification, and deadline/warning/recommendation assembly into a
// fully populated SettlementResult for every request, never failing for
// an input-driven outcome.
package settlement

import (
	"fmt"
	"sort"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/calendar"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/clock"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/overlap"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/registry"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/rules"
)

// Clock abstracts "now" so a check_settlement call is reproducible in
// tests (§8 property 7: repeated invocations with the same "now" produce
// equal results).
type Clock func() time.Time

// Engine is the Settlement Engine (C6), assembled once at startup from
// its dependency components and held as an immutable, concurrently-safe
// context for the lifetime of the process.
type Engine struct {
	registry *registry.Registry
	calendar *calendar.Service
	advisor  *rules.Advisor
	now      Clock

	// CutOffWarningMinutesThreshold is the §4.6.1 "AT_RISK if 0 <
	// time_remaining < N minutes" threshold.
	CutOffWarningMinutesThreshold int
	// MaxSettlementExtensionDays is the §4.6.1 "AT_RISK if days_to_settle
	// > N" threshold.
	MaxSettlementExtensionDays int
}

// New builds the Settlement Engine from its already-constructed
// dependencies.
func New(reg *registry.Registry, cal *calendar.Service, advisor *rules.Advisor, now Clock, cutOffWarningMinutes, maxExtensionDays int) *Engine {
	return &Engine{
		registry:                      reg,
		calendar:                      cal,
		advisor:                       advisor,
		now:                           now,
		CutOffWarningMinutesThreshold: cutOffWarningMinutes,
		MaxSettlementExtensionDays:    maxExtensionDays,
	}
}

func unlikely(req models.SettlementCheckRequest, message string) models.SettlementResult {
	return models.SettlementResult{
		Status:          models.StatusUnlikely,
		Message:         message,
		TradeDate:       req.TradeDate,
		BuyMarket:       req.BuyMarket,
		SellMarket:      req.SellMarket,
		Deadlines:       []models.Deadline{},
		Warnings:        []string{},
		Recommendations: []string{},
	}
}

// CheckSettlement runs the full §4.6 algorithm for req. Every branch
// returns a fully populated SettlementResult; the engine never returns an
// error for an input-driven outcome (see §7).
func (e *Engine) CheckSettlement(req models.SettlementCheckRequest) models.SettlementResult {
	// Step 1: validate markets exist.
	buy, ok := e.registry.Get(req.BuyMarket)
	if !ok {
		result := unlikely(req, fmt.Sprintf("unknown market code: %s", req.BuyMarket))
		return result
	}
	sell, ok := e.registry.Get(req.SellMarket)
	if !ok {
		result := unlikely(req, fmt.Sprintf("unknown market code: %s", req.SellMarket))
		return result
	}

	buyZone, _ := e.registry.Zone(buy.Code)
	sellZone, _ := e.registry.Zone(sell.Code)

	// Step 2: trade-date validation.
	buyTrades := e.calendar.IsTradingDay(buy.Code, req.TradeDate)
	sellTrades := e.calendar.IsTradingDay(sell.Code, req.TradeDate)
	if !buyTrades || !sellTrades {
		var warnings []string
		if !buyTrades {
			warnings = append(warnings, closureWarning(e.calendar, buy.Code, req.TradeDate))
		}
		if !sellTrades {
			warnings = append(warnings, closureWarning(e.calendar, sell.Code, req.TradeDate))
		}

		result := unlikely(req, "trade date is not a common trading day for both markets")
		result.Warnings = warnings

		next, err := e.calendar.FindNextViableTradeDate(buy.Code, sell.Code, req.TradeDate.AddDate(0, 0, 1), true,
			map[string]models.TradingHours{buy.Code: buy.TradingHours, sell.Code: sell.TradingHours},
			map[string]*time.Location{buy.Code: buyZone, sell.Code: sellZone})
		if err == nil {
			result.NextViableTradeDate = &next
		}

		result.Details = e.buildDetails(buy, sell, req.TradeDate, buyTrades, sellTrades, nil, nil, nil, nil)
		return result
	}

	// Step 3: cut-off checks (only when execution_time supplied).
	var cutOffChecks []models.CutOffCheck
	var cutOffDeadlines []models.Deadline
	if req.ExecutionTime != nil {
		for _, m := range []models.Market{buy, sell} {
			zone, _ := e.registry.Zone(m.Code)
			if !m.HasCutOff() {
				continue
			}
			check, deadline := e.checkCutOff(m, zone, req.TradeDate, *req.ExecutionTime)
			cutOffChecks = append(cutOffChecks, check)
			cutOffDeadlines = append(cutOffDeadlines, deadline)
		}
	}

	// Step 4: settlement-date resolution.
	commonDate, err := e.calendar.CommonSettlementDate(buy.Code, buy.SettlementCycleDays, sell.Code, sell.SettlementCycleDays, req.TradeDate)
	if err != nil {
		panic(fmt.Sprintf("internal invariant breach: %v", err))
	}
	buySettlement, err := e.calendar.AdvanceBusinessDays(buy.Code, req.TradeDate, buy.SettlementCycleDays)
	if err != nil {
		panic(fmt.Sprintf("internal invariant breach: %v", err))
	}
	sellSettlement, err := e.calendar.AdvanceBusinessDays(sell.Code, req.TradeDate, sell.SettlementCycleDays)
	if err != nil {
		panic(fmt.Sprintf("internal invariant breach: %v", err))
	}

	// Step 5: overlap & details.
	windows := overlap.Windows(
		overlap.MarketSession{Hours: buy.TradingHours, Zone: buyZone},
		overlap.MarketSession{Hours: sell.TradingHours, Zone: sellZone},
		req.TradeDate, buyTrades, sellTrades,
	)
	var executionValid *bool
	if req.ExecutionTime != nil {
		valid := overlap.ExecutionTimeValid(windows, *req.ExecutionTime)
		executionValid = &valid
	}

	// Step 6: deadline assembly.
	deadlines := e.assembleDeadlines(buy, sell, buyZone, sellZone, req.TradeDate, cutOffDeadlines)

	// Step 7/8: classification, warnings, recommendations.
	warnings, recommendations := e.gatherAdvisorOutput(buy, sell, req.TradeDate, commonDate)
	status, classificationWarnings, classificationRecs := e.classify(cutOffChecks, buySettlement, sellSettlement)
	warnings = rules.Dedup(append(warnings, classificationWarnings...))
	recommendations = rules.Dedup(append(recommendations, classificationRecs...))

	result := models.SettlementResult{
		Status:          status,
		Message:         messageFor(status),
		TradeDate:       req.TradeDate,
		SettlementDate:  &commonDate,
		BuyMarket:       buy.Code,
		SellMarket:      sell.Code,
		Deadlines:       deadlines,
		Warnings:        warnings,
		Recommendations: recommendations,
		Details: e.buildDetails(buy, sell, req.TradeDate, buyTrades, sellTrades,
			&buySettlement, &sellSettlement, windows, executionValid),
	}
	result.Details.CutOffChecks = cutOffChecks

	return result
}

// closureWarning renders a human-readable "MARKET: HolidayName" warning
// for a market that is closed on date.
func closureWarning(cal *calendar.Service, market string, date time.Time) string {
	if fact, ok := cal.GetHolidayInfo(market, date); ok {
		return fmt.Sprintf("%s: %s", market, fact.Name)
	}
	return fmt.Sprintf("%s: closed", market)
}

// checkCutOff converts execution_time into market's local zone and
// compares it against the market's depository cut-off. Execution exactly
// at the cut-off is treated as past (§8 property 9).
func (e *Engine) checkCutOff(market models.Market, zone *time.Location, tradeDate, executionTime time.Time) (models.CutOffCheck, models.Deadline) {
	cutOffInstant := clock.ToUTC(tradeDate, *market.DepositoryCutOff, zone)
	isBefore := executionTime.Before(cutOffInstant)

	check := models.CutOffCheck{Market: market.Code, IsBefore: isBefore}
	remaining := clock.TimeUntil(cutOffInstant, executionTime)
	if remaining != nil {
		check.TimeRemaining = remaining
		check.TimeRemainingText = clock.FormatDuration(*remaining)
	}

	deadline := models.Deadline{
		Market:     market.Code,
		Kind:       models.DeadlineDepositoryCutOff,
		InstantUTC: cutOffInstant,
		LocalTime:  *market.DepositoryCutOff,
		IsPassed:   !isBefore,
	}
	if remaining != nil {
		deadline.TimeRemainingText = clock.FormatDuration(*remaining)
	}

	return check, deadline
}

// assembleDeadlines builds the per-market MARKET_CLOSE deadlines (and
// folds in the already-computed DEPOSITORY_CUT_OFF deadlines), sorted by
// instant.
func (e *Engine) assembleDeadlines(buy, sell models.Market, buyZone, sellZone *time.Location, tradeDate time.Time, cutOffDeadlines []models.Deadline) []models.Deadline {
	now := e.now()
	deadlines := make([]models.Deadline, 0, 2+len(cutOffDeadlines))

	for _, pair := range []struct {
		m    models.Market
		zone *time.Location
	}{{buy, buyZone}, {sell, sellZone}} {
		closeInstant := clock.ToUTC(tradeDate, pair.m.TradingHours.Close, pair.zone)
		deadline := models.Deadline{
			Market:     pair.m.Code,
			Kind:       models.DeadlineMarketClose,
			InstantUTC: closeInstant,
			LocalTime:  pair.m.TradingHours.Close,
			IsPassed:   closeInstant.Before(now),
		}
		if remaining := clock.TimeUntil(closeInstant, now); remaining != nil {
			deadline.TimeRemainingText = clock.FormatDuration(*remaining)
		}
		deadlines = append(deadlines, deadline)
	}

	deadlines = append(deadlines, cutOffDeadlines...)

	sort.Slice(deadlines, func(i, j int) bool {
		return deadlines[i].InstantUTC.Before(deadlines[j].InstantUTC)
	})
	return deadlines
}

// gatherAdvisorOutput merges C7's per-market advice for trade date and
// settlement date plus the cross-market warnings, already deduplicated by
// string equality per §4.7.
func (e *Engine) gatherAdvisorOutput(buy, sell models.Market, tradeDate, settlementDate time.Time) ([]string, []string) {
	var warnings, recommendations []string

	for _, m := range []models.Market{buy, sell} {
		for _, date := range []time.Time{tradeDate, settlementDate} {
			advice := e.advisor.CheckSpecialConditions(m.Code, date)
			warnings = append(warnings, advice.Warnings...)
			recommendations = append(recommendations, advice.Recommendations...)
		}
	}

	warnings = append(warnings, e.advisor.CrossMarketWarnings(buy.Code, sell.Code, tradeDate, settlementDate)...)

	return rules.Dedup(warnings), rules.Dedup(recommendations)
}

// classify applies the §4.6.1 status classifier rules, in order.
func (e *Engine) classify(cutOffChecks []models.CutOffCheck, buySettlement, sellSettlement models.SettlementDateResult) (models.SettlementStatus, []string, []string) {
	var warnings, recommendations []string

	for _, c := range cutOffChecks {
		if !c.IsBefore {
			warnings = append(warnings, fmt.Sprintf("%s depository cut-off has already passed", c.Market))
			return models.StatusUnlikely, warnings, recommendations
		}
	}

	atRisk := false
	for _, c := range cutOffChecks {
		if c.TimeRemaining != nil && *c.TimeRemaining > 0 && *c.TimeRemaining < time.Duration(e.CutOffWarningMinutesThreshold)*time.Minute {
			atRisk = true
			warnings = append(warnings, fmt.Sprintf("%s depository cut-off is approaching (%s remaining)", c.Market, c.TimeRemainingText))
			recommendations = append(recommendations, fmt.Sprintf("expedite trade confirmation for %s ahead of its cut-off", c.Market))
		}
	}

	if buySettlement.CalendarDays > e.MaxSettlementExtensionDays || sellSettlement.CalendarDays > e.MaxSettlementExtensionDays {
		atRisk = true
		warnings = append(warnings, "settlement cycle was extended past standard by intervening holidays")
	}

	if atRisk {
		return models.StatusAtRisk, warnings, recommendations
	}
	return models.StatusLikely, warnings, recommendations
}

func messageFor(status models.SettlementStatus) string {
	switch status {
	case models.StatusLikely:
		return "trade is expected to settle on its standard cycle"
	case models.StatusAtRisk:
		return "trade may settle, but settlement carries material risk"
	default:
		return "trade is unlikely to settle as requested"
	}
}

// buildDetails assembles the structured per-market/overlap breakdown
// attached to every result.
func (e *Engine) buildDetails(buy, sell models.Market, tradeDate time.Time, buyTrades, sellTrades bool,
	buySettlement, sellSettlement *models.SettlementDateResult, windows []models.OverlapWindow, executionValid *bool) models.SettlementDetails {

	details := models.SettlementDetails{
		BuyMarket: models.MarketDetail{
			Market:                  buy.Code,
			IsTradingDayOnTradeDate: buyTrades,
		},
		SellMarket: models.MarketDetail{
			Market:                  sell.Code,
			IsTradingDayOnTradeDate: sellTrades,
		},
		Overlap: models.OverlapSummary{
			Windows:            windows,
			ExecutionTimeValid: executionValid,
		},
	}
	for _, w := range windows {
		details.Overlap.TotalMinutes += w.DurationMinutes
	}

	if buySettlement != nil {
		details.BuySettlement = buySettlement
		details.BuyMarket.IsSettlementDayOnTradeDate = e.calendar.IsSettlementDay(buy.Code, tradeDate)
		details.BuyMarket.IsSettlementDayOnSettlementDate = e.calendar.IsSettlementDay(buy.Code, buySettlement.FinalDate)
	}
	if sellSettlement != nil {
		details.SellSettlement = sellSettlement
		details.SellMarket.IsSettlementDayOnTradeDate = e.calendar.IsSettlementDay(sell.Code, tradeDate)
		details.SellMarket.IsSettlementDayOnSettlementDate = e.calendar.IsSettlementDay(sell.Code, sellSettlement.FinalDate)
	}

	return details
}
