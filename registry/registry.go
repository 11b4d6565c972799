// Package registry implements the Market Registry (C1): it loads the
// market configuration blob once at startup, validates every record, and
// exposes an immutable, read-only view over it for the lifetime of the
// process. Validation failures are aggregated into a single report rather
// than surfaced one at a time, the same fail-fast-with-full-report idiom
// config.Validate uses for process configuration.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
)

// ValidationReport aggregates every configuration problem found while
// loading the market blob, so operators can fix all of them in one pass.
type ValidationReport struct {
	Errors   []string
	Warnings []string
}

// Error satisfies the error interface; a report with no Errors is not
// itself an error condition (see HasErrors).
func (r *ValidationReport) Error() string {
	return fmt.Sprintf("%d market configuration error(s):\n  - %s",
		len(r.Errors), strings.Join(r.Errors, "\n  - "))
}

// HasErrors reports whether the report contains at least one fatal error.
func (r *ValidationReport) HasErrors() bool {
	return len(r.Errors) > 0
}

// Registry is the immutable, loaded-once view over the market
// configuration blob. All methods are safe for concurrent read.
type Registry struct {
	markets   map[string]models.Market
	codes     []string
	zones     map[string]*time.Location
	version   string
	updatedAt string
}

// Load reads and validates the market configuration blob at path. On any
// validation error the registry is not constructed and the aggregated
// report is returned as the error; the caller should treat this as a fatal
// startup condition.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading market config %s: %w", path, err)
	}

	var blob models.MarketConfigBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("parsing market config %s: %w", path, err)
	}

	report := &ValidationReport{}
	markets := make(map[string]models.Market, len(blob.Markets))
	zones := make(map[string]*time.Location, len(blob.Markets))
	codes := make([]string, 0, len(blob.Markets))

	for i, m := range blob.Markets {
		if errs := validateMarket(m); len(errs) > 0 {
			for _, e := range errs {
				report.Errors = append(report.Errors, fmt.Sprintf("market[%d] (%s): %s", i, m.Code, e))
			}
			continue
		}

		if _, dup := markets[m.Code]; dup {
			report.Errors = append(report.Errors, fmt.Sprintf("duplicate market code %q", m.Code))
			continue
		}

		loc, err := time.LoadLocation(m.Timezone)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("market[%d] (%s): invalid timezone %q: %v", i, m.Code, m.Timezone, err))
			continue
		}

		markets[m.Code] = m
		zones[m.Code] = loc
		codes = append(codes, m.Code)
	}

	if report.HasErrors() {
		return nil, report
	}

	sort.Strings(codes)

	return &Registry{
		markets:   markets,
		codes:     codes,
		zones:     zones,
		version:   blob.Version,
		updatedAt: blob.LastUpdated,
	}, nil
}

// validateMarket checks a single market record per §4.1: valid IANA zone
// (checked by the caller, which already needs the *time.Location), 2-letter
// code, non-empty hours, cycle in range, currency length 3, and the
// open<close / lunch-break-within-session invariants of §3.
func validateMarket(m models.Market) []string {
	var errs []string

	if len(m.Code) != 2 {
		errs = append(errs, fmt.Sprintf("code %q must be exactly 2 letters", m.Code))
	}
	if strings.ToUpper(m.Code) != m.Code {
		errs = append(errs, fmt.Sprintf("code %q must be uppercase", m.Code))
	}
	if m.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if m.Timezone == "" {
		errs = append(errs, "timezone must not be empty")
	}
	if m.SettlementCycleDays < 0 || m.SettlementCycleDays > 5 {
		errs = append(errs, fmt.Sprintf("settlement_cycle_days %d out of range [0,5]", m.SettlementCycleDays))
	}
	if len(m.Currency) != 3 {
		errs = append(errs, fmt.Sprintf("currency %q must be exactly 3 letters", m.Currency))
	}

	if !m.TradingHours.Open.Before(m.TradingHours.Close) {
		errs = append(errs, "trading_hours.open must be before trading_hours.close")
	}
	if lb := m.TradingHours.LunchBreak; lb != nil {
		if lb.Start.Before(m.TradingHours.Open) {
			errs = append(errs, "lunch_break.start must not be before trading_hours.open")
		}
		if !lb.Start.Before(lb.End) {
			errs = append(errs, "lunch_break.start must be before lunch_break.end")
		}
		if m.TradingHours.Close.Before(lb.End) {
			errs = append(errs, "lunch_break.end must not be after trading_hours.close")
		}
	}

	return errs
}

// Get returns the market for code, or false if unknown.
func (r *Registry) Get(code string) (models.Market, bool) {
	m, ok := r.markets[code]
	return m, ok
}

// Zone returns the already-resolved *time.Location for code, or false if
// the code is unknown. Resolution happens once at Load, never at query
// time, so this call never fails.
func (r *Registry) Zone(code string) (*time.Location, bool) {
	z, ok := r.zones[code]
	return z, ok
}

// ListAll returns every market, ordered by code.
func (r *Registry) ListAll() []models.Market {
	out := make([]models.Market, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, r.markets[c])
	}
	return out
}

// ListCodes returns every known market code, sorted.
func (r *Registry) ListCodes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// Version returns the configuration blob's informational version string.
func (r *Registry) Version() string { return r.version }

// LastUpdated returns the configuration blob's informational last-updated
// string.
func (r *Registry) LastUpdated() string { return r.updatedAt }
