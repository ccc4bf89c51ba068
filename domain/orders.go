package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[string][]string{
	OrderStatusPending:  {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:  {OrderStatusDelivered},
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	BuyerID         uint              `gorm:"column:buyer_id;not null;index" json:"buyer_id"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID" json:"items"`
	Total           float64           `gorm:"column:total;type:numeric" json:"total"`
	Status          string            `gorm:"column:status;not null;index;default:pending" json:"status"`
	PaymentMethod   string            `gorm:"column:payment_method" json:"payment_method"`
	PaymentStatus   string            `gorm:"column:payment_status;default:unpaid" json:"payment_status"`
	PaymentMetadata datatypes.JSONMap `gorm:"column:payment_metadata" json:"payment_metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// HasVendor reports whether any line item of the order belongs to vendorID.
func (o Order) HasVendor(vendorID uint) bool {
	for _, item := range o.Items {
		if item.VendorID != nil && *item.VendorID == vendorID {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID uint64  `gorm:"column:product_id;not null;index" json:"product_id"`
	VendorID  *uint   `gorm:"column:vendor_id;index" json:"vendor_id"`
	Price     float64 `gorm:"column:price;type:numeric;not null" json:"price"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
