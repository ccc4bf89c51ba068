package domain

import "time"

type StoreCounts struct {
	Users    int64 `json:"users"`
	Vendors  int64 `json:"vendors"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}

// RecentOrder is a dashboard row for one order and its buyer.
type RecentOrder struct {
	ID         uint      `json:"id"`
	BuyerID    uint      `json:"buyer_id"`
	BuyerName  string    `json:"buyer_name"`
	BuyerEmail string    `json:"buyer_email"`
	Total      float64   `json:"total"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type ServerStats struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Goroutines     int     `json:"goroutines"`
	HeapAllocBytes uint64  `json:"heap_alloc_bytes"`
}

// AdminStats backs the admin dashboard. TotalRevenue sums every order that
// was not cancelled.
type AdminStats struct {
	Counts       StoreCounts   `json:"counts"`
	TotalRevenue float64       `json:"totalRevenue"`
	RecentOrders []RecentOrder `json:"recentOrders"`
	Server       ServerStats   `json:"server"`
}
