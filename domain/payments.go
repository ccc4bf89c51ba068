package domain

import "time"

type (
	Payment struct {
		ID            uint       `gorm:"primaryKey" json:"id"`
		BuyerID       uint       `gorm:"column:buyer_id;not null;index" json:"buyer_id"`
		OrderID       uint       `gorm:"column:order_id;not null;index" json:"order_id"`
		ExternalID    string     `gorm:"column:external_id;uniqueIndex" json:"external_id"`
		Amount        float64    `gorm:"column:amount;type:numeric" json:"amount"`
		PaymentStatus string     `gorm:"column:payment_status" json:"payment_status"`
		PaymentMethod string     `gorm:"column:payment_method" json:"payment_method"`
		PaymentLink   string     `gorm:"column:payment_link" json:"payment_link"`
		PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at"`
		CreatedAt     time.Time  `json:"created_at"`
		UpdatedAt     time.Time  `json:"updated_at"`
	}

	// Invoice is the gateway request built for one order.
	Invoice struct {
		ExternalID  string
		Amount      float64
		Description string
		PayerEmail  string
		Items       []Item
	}
)

func (Payment) TableName() string {
	return "payments"
}
