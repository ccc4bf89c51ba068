package domain

import "math"

const (
	ReportSortVendor     = "vendor"
	ReportSortGrossSales = "grossSales"
	ReportSortOrderCount = "orderCount"
	ReportSortDue        = "due"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// VendorLineItem is one delivered line item attributed to a vendor, joined
// with the current service charge of its product's category.
// ServiceCharge is nil when the product or category no longer resolves.
type VendorLineItem struct {
	VendorID      uint
	OrderID       uint
	ProductID     uint64
	Price         float64
	Quantity      int
	ServiceCharge *float64
}

func (i VendorLineItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ChargePct returns the category charge, or DefaultServiceChargePct when the
// category is missing or its charge is not a finite number.
func (i VendorLineItem) ChargePct() float64 {
	if i.ServiceCharge == nil || math.IsNaN(*i.ServiceCharge) || math.IsInf(*i.ServiceCharge, 0) {
		return DefaultServiceChargePct
	}
	return *i.ServiceCharge
}

type VendorSummary struct {
	Vendor         *VendorRef `json:"vendor"`
	GrossSales     float64    `json:"grossSales"`
	ServiceCharges float64    `json:"serviceCharges"`
	NetPayable     float64    `json:"netPayable"`
	PaidAmount     float64    `json:"paidAmount"`
	Due            float64    `json:"due"`
	OrderCount     int        `json:"orderCount"`
}

// VendorSales is one row of the grouping query behind the admin report.
type VendorSales struct {
	VendorID   uint
	FullName   string
	Email      string
	IsBanned   bool
	GrossSales float64
	OrderCount int
}

type VendorReportQuery struct {
	VendorID uint
	Search   string
	SortKey  string
	SortDir  string
	Page     int
	Limit    int
}

func (q VendorReportQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type VendorReportPage struct {
	Results    []VendorSummary `json:"results"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
}
