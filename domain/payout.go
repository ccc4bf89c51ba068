package domain

import (
	"math"
	"time"
)

// Payout records money transferred to a vendor. Rows are append-only.
// AmountPaid is nil when the admin only flagged the payout as paid.
type Payout struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Reference   string     `gorm:"column:reference;uniqueIndex;size:36" json:"reference"`
	VendorID    uint       `gorm:"column:vendor_id;not null;index" json:"vendor_id"`
	PeriodStart *time.Time `gorm:"column:period_start" json:"period_start,omitempty"`
	PeriodEnd   *time.Time `gorm:"column:period_end" json:"period_end,omitempty"`
	NetPayable  float64    `gorm:"column:net_payable;type:numeric;not null" json:"net_payable"`
	AmountPaid  *float64   `gorm:"column:amount_paid;type:numeric" json:"amount_paid"`
	Paid        bool       `gorm:"column:paid;default:false" json:"paid"`
	PaidAt      *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedBy   uint       `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Payout) TableName() string {
	return "payouts"
}

// Settled is the amount this payout counts toward a vendor's paid total:
// AmountPaid when it is a finite number, else NetPayable for a paid record, else 0.
func (p Payout) Settled() float64 {
	if p.AmountPaid != nil && isFinite(*p.AmountPaid) {
		return *p.AmountPaid
	}
	if p.Paid && isFinite(p.NetPayable) {
		return p.NetPayable
	}
	return 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
