package models

import "time"

// AuditRecord is a durable record of one check_settlement call, persisted
// by the audit log (A4). It never influences the engine's decision; it is
// written after classification completes and a write failure is logged,
// not propagated.
type AuditRecord struct {
	ID            string     `json:"id" db:"id"`
	OccurredAt    time.Time  `json:"occurred_at" db:"occurred_at"`
	TradeDate     time.Time  `json:"trade_date" db:"trade_date"`
	BuyMarket     string     `json:"buy_market" db:"buy_market"`
	SellMarket    string     `json:"sell_market" db:"sell_market"`
	Status        string     `json:"status" db:"status"`
	ExecutionTime *time.Time `json:"execution_time,omitempty" db:"execution_time"`
	RequestedBy   string     `json:"requested_by,omitempty" db:"requested_by"`
}
