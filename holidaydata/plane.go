package holidaydata

import (
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
)

// Plane is the merged query surface over the three adapters, applying the
// precedence rule of §4.3: manual override, then weekend, then the
// exchange-session adapter (named via the public-holiday adapter when
// possible).
type Plane struct {
	exchange  ExchangeSessionAdapter
	holidays  PublicHolidayAdapter
	overrides *OverrideStore
}

// NewPlane assembles the merged Holiday Data Plane from its three
// adapters.
func NewPlane(exchange ExchangeSessionAdapter, holidays PublicHolidayAdapter, overrides *OverrideStore) *Plane {
	return &Plane{exchange: exchange, holidays: holidays, overrides: overrides}
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// HolidayInfo returns the single merged fact for (market, date), or false
// if date is an ordinary trading day. Precedence: manual override, then
// weekend, then the exchange-session adapter.
func (p *Plane) HolidayInfo(market string, date time.Time) (models.HolidayFact, bool) {
	if o, ok := p.overrides.Get(market, date); ok {
		if !o.IsClosure {
			return models.HolidayFact{}, false
		}
		return models.HolidayFact{
			MarketCode:        market,
			Date:              date,
			Name:              o.Name,
			Source:            models.SourceManual,
			AffectsTrading:    o.AffectsTrading,
			AffectsSettlement: o.AffectsSettlement,
			Notes:             o.Reason,
		}, true
	}

	if isWeekend(date) {
		return models.HolidayFact{
			MarketCode:        market,
			Date:              date,
			Name:              "Weekend",
			Source:            models.SourceWeekend,
			AffectsTrading:    true,
			AffectsSettlement: true,
		}, true
	}

	if !p.exchange.IsSession(market, date) {
		name := "Market Holiday"
		if n, ok := p.holidays.HolidayName(market, date); ok {
			name = n
		}
		return models.HolidayFact{
			MarketCode:        market,
			Date:              date,
			Name:              name,
			Source:            models.SourceExchange,
			AffectsTrading:    true,
			AffectsSettlement: true,
		}, true
	}

	return models.HolidayFact{}, false
}

// IsTradingDay reports whether market trades on date: a manual override
// resolves first (a closure only blocks trading if it affects_trading,
// force-open ⇒ true); otherwise the exchange-session adapter decides.
func (p *Plane) IsTradingDay(market string, date time.Time) bool {
	if o, ok := p.overrides.Get(market, date); ok {
		if o.IsClosure {
			return !o.AffectsTrading
		}
		return true
	}
	if isWeekend(date) {
		return false
	}
	return p.exchange.IsSession(market, date)
}

// IsSettlementDay follows the same precedence as IsTradingDay, but a
// manual override may distinguish AffectsTrading from AffectsSettlement.
func (p *Plane) IsSettlementDay(market string, date time.Time) bool {
	if o, ok := p.overrides.Get(market, date); ok {
		if o.IsClosure {
			return !o.AffectsSettlement
		}
		return true
	}
	if isWeekend(date) {
		return false
	}
	return p.exchange.IsSession(market, date)
}
