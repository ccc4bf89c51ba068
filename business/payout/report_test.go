package payout

import (
	"context"
	"fmt"
	"math"
	"testing"

	"bazaarHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedVendors creates n vendors where vendor i sells one unit at 100*i in a
// 10% category, so its due is 90*i.
func seedVendors(n int) *memStore {
	m := newMemStore()
	m.addCategory(1, ptr(10.0))
	for i := 1; i <= n; i++ {
		id := uint(i)
		m.addVendor(id, fmt.Sprintf("Vendor %02d", i))
		m.addProduct(uint64(100+i), id, ptr(uint64(1)), float64(100*i))
		m.sell(uint64(100+i), 1, domain.OrderStatusDelivered)
	}
	return m
}

func TestVendorReportSortByDuePagination(t *testing.T) {
	svc, _, _ := newTestService(seedVendors(25))

	page, err := svc.VendorReport(context.Background(), domain.VendorReportQuery{
		SortKey: domain.ReportSortDue,
		SortDir: domain.SortDesc,
		Page:    2,
		Limit:   10,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Results, 10)

	// ranks 11..20 by due descending are vendors 15 down to 6
	for rank, row := range page.Results {
		want := uint(15 - rank)
		assert.Equal(t, want, row.Vendor.ID)
		assert.InDelta(t, float64(90*want), row.Due, 1e-9)
	}
}

func TestVendorReportSortByDueAscendingWithPayouts(t *testing.T) {
	m := seedVendors(3)
	// vendor 3 is fully paid out
	m.payouts = append(m.payouts, domain.Payout{ID: 1, VendorID: 3, NetPayable: 270, Paid: true})
	svc, _, _ := newTestService(m)

	page, err := svc.VendorReport(context.Background(), domain.VendorReportQuery{
		SortKey: domain.ReportSortDue,
		SortDir: domain.SortAsc,
	})
	require.NoError(t, err)
	require.Len(t, page.Results, 3)

	ids := []uint{page.Results[0].Vendor.ID, page.Results[1].Vendor.ID, page.Results[2].Vendor.ID}
	assert.Equal(t, []uint{3, 1, 2}, ids)
	assert.Zero(t, page.Results[0].Due)
	assert.InDelta(t, 270, page.Results[0].PaidAmount, 1e-9)
}

func TestVendorReportDueTiesBreakByName(t *testing.T) {
	m := newMemStore()
	m.addCategory(1, ptr(10.0))
	for i, name := range []string{"Charlie", "Alpha", "Bravo"} {
		id := uint(i + 1)
		m.addVendor(id, name)
		m.addProduct(uint64(id), id, ptr(uint64(1)), 100)
		m.sell(uint64(id), 1, domain.OrderStatusDelivered)
	}
	svc, _, _ := newTestService(m)

	page, err := svc.VendorReport(context.Background(), domain.VendorReportQuery{SortKey: domain.ReportSortDue})
	require.NoError(t, err)
	require.Len(t, page.Results, 3)

	assert.Equal(t, "Alpha", page.Results[0].Vendor.FullName)
	assert.Equal(t, "Bravo", page.Results[1].Vendor.FullName)
	assert.Equal(t, "Charlie", page.Results[2].Vendor.FullName)
}

func TestVendorReportDefaultSortEnrichesRows(t *testing.T) {
	m := seedVendors(12)
	m.payouts = append(m.payouts, domain.Payout{ID: 1, VendorID: 12, NetPayable: 1080, AmountPaid: ptr(1000.0)})
	svc, _, _ := newTestService(m)

	page, err := svc.VendorReport(context.Background(), domain.VendorReportQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultReportLimit, page.PageSize)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 10)

	top := page.Results[0]
	assert.Equal(t, uint(12), top.Vendor.ID)
	assert.InDelta(t, 1200, top.GrossSales, 1e-9)
	assert.InDelta(t, 120, top.ServiceCharges, 1e-9)
	assert.InDelta(t, 1000, top.PaidAmount, 1e-9)
	assert.InDelta(t, 80, top.Due, 1e-9)
	assert.Equal(t, 1, top.OrderCount)
}

func TestVendorReportSearchAndVendorFilter(t *testing.T) {
	m := seedVendors(3)
	m.addVendor(50, "Idle Vendor")
	svc, _, _ := newTestService(m)

	page, err := svc.VendorReport(context.Background(), domain.VendorReportQuery{Search: "VENDOR 02"})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, uint(2), page.Results[0].Vendor.ID)

	page, err = svc.VendorReport(context.Background(), domain.VendorReportQuery{VendorID: 50, SortKey: domain.ReportSortDue})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.NotNil(t, page.Results)
	assert.Zero(t, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestVendorReportPageBeyondEnd(t *testing.T) {
	svc, _, _ := newTestService(seedVendors(4))

	page, err := svc.VendorReport(context.Background(), domain.VendorReportQuery{SortKey: domain.ReportSortDue, Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestVendorReportHugePage(t *testing.T) {
	svc, _, _ := newTestService(seedVendors(4))

	for _, key := range []string{domain.ReportSortDue, domain.ReportSortGrossSales} {
		t.Run(key, func(t *testing.T) {
			var page domain.VendorReportPage
			require.NotPanics(t, func() {
				var err error
				page, err = svc.VendorReport(context.Background(), domain.VendorReportQuery{SortKey: key, Page: math.MaxInt, Limit: 10})
				assert.NoError(t, err)
			})
			assert.Empty(t, page.Results)
			assert.Equal(t, int64(4), page.Total)
			assert.Equal(t, MaxReportPage, page.Page)
		})
	}
}

func TestNormalizeReportQuery(t *testing.T) {
	tests := []struct {
		name string
		in   domain.VendorReportQuery
		want domain.VendorReportQuery
	}{
		{
			name: "defaults",
			in:   domain.VendorReportQuery{},
			want: domain.VendorReportQuery{SortKey: domain.ReportSortGrossSales, SortDir: domain.SortDesc, Page: 1, Limit: 10},
		},
		{
			name: "unknown key and direction",
			in:   domain.VendorReportQuery{SortKey: "createdAt", SortDir: "sideways", Page: 3, Limit: 5},
			want: domain.VendorReportQuery{SortKey: domain.ReportSortGrossSales, SortDir: domain.SortDesc, Page: 3, Limit: 5},
		},
		{
			name: "page capped",
			in:   domain.VendorReportQuery{SortKey: domain.ReportSortDue, Page: math.MaxInt, Limit: 10},
			want: domain.VendorReportQuery{SortKey: domain.ReportSortDue, SortDir: domain.SortDesc, Page: MaxReportPage, Limit: 10},
		},
		{
			name: "limit clamped",
			in:   domain.VendorReportQuery{SortKey: domain.ReportSortVendor, SortDir: "ASC", Page: -2, Limit: 1000, Search: "  shop "},
			want: domain.VendorReportQuery{SortKey: domain.ReportSortVendor, SortDir: domain.SortAsc, Page: 1, Limit: 100, Search: "shop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeReportQuery(tt.in))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 3, totalPages(25, 10))
}
