package payout

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
	"bazaarHub/pkg/metrics"
)

const (
	DefaultReportLimit = 10
	MaxReportLimit     = 100

	// MaxReportPage keeps (page-1)*limit within an int.
	MaxReportPage = math.MaxInt / MaxReportLimit
)

// NormalizeReportQuery fills defaults and clamps paging. Unknown sort keys
// fall back to gross sales, unknown directions to descending.
func NormalizeReportQuery(q domain.VendorReportQuery) domain.VendorReportQuery {
	switch q.SortKey {
	case domain.ReportSortVendor, domain.ReportSortGrossSales, domain.ReportSortOrderCount, domain.ReportSortDue:
	default:
		q.SortKey = domain.ReportSortGrossSales
	}

	q.SortDir = strings.ToLower(q.SortDir)
	if q.SortDir != domain.SortAsc {
		q.SortDir = domain.SortDesc
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxReportPage {
		q.Page = MaxReportPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultReportLimit
	}
	if q.Limit > MaxReportLimit {
		q.Limit = MaxReportLimit
	}

	q.Search = strings.TrimSpace(q.Search)

	return q
}

// VendorReport builds one page of the admin vendor table. Sorting by due
// reconciles every qualifying vendor first; other keys are sorted and paged
// by the database and only the page is reconciled.
func (s *PayoutService) VendorReport(ctx context.Context, query domain.VendorReportQuery) (domain.VendorReportPage, error) {
	query = NormalizeReportQuery(query)

	start := time.Now()
	defer func() {
		metrics.ReconcileDuration.WithLabelValues("report").Observe(time.Since(start).Seconds())
	}()
	metrics.VendorReportRequests.WithLabelValues(query.SortKey).Inc()

	var (
		results []domain.VendorSummary
		total   int64
		err     error
	)
	if query.SortKey == domain.ReportSortDue {
		results, total, err = s.reportByDue(ctx, query)
	} else {
		results, total, err = s.reportBySales(ctx, query)
	}
	if err != nil {
		return domain.VendorReportPage{}, err
	}

	if results == nil {
		results = []domain.VendorSummary{}
	}

	return domain.VendorReportPage{
		Results:    results,
		Page:       query.Page,
		PageSize:   query.Limit,
		Total:      total,
		TotalPages: totalPages(total, query.Limit),
	}, nil
}

func (s *PayoutService) reportByDue(ctx context.Context, query domain.VendorReportQuery) ([]domain.VendorSummary, int64, error) {
	vendors, err := s.revenueRepo.QualifyingVendors(ctx, query)
	if err != nil {
		logger.Error("failed to find qualifying vendors", err)
		return nil, 0, err
	}

	refs := make([]*domain.VendorRef, 0, len(vendors))
	for _, v := range vendors {
		ref := v.Ref()
		refs = append(refs, &ref)
	}

	byID, err := s.reconcileMany(ctx, refs)
	if err != nil {
		return nil, 0, err
	}

	all := make([]domain.VendorSummary, 0, len(refs))
	for _, ref := range refs {
		all = append(all, byID[ref.ID])
	}

	desc := query.SortDir == domain.SortDesc
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Due != b.Due {
			if desc {
				return a.Due > b.Due
			}
			return a.Due < b.Due
		}
		if a.Vendor.FullName != b.Vendor.FullName {
			return a.Vendor.FullName < b.Vendor.FullName
		}
		return a.Vendor.ID < b.Vendor.ID
	})

	total := int64(len(all))
	from := query.Offset()
	if from < 0 || from >= len(all) {
		return []domain.VendorSummary{}, total, nil
	}
	to := from + query.Limit
	if to > len(all) {
		to = len(all)
	}

	return all[from:to], total, nil
}

func (s *PayoutService) reportBySales(ctx context.Context, query domain.VendorReportQuery) ([]domain.VendorSummary, int64, error) {
	rows, total, err := s.revenueRepo.VendorSales(ctx, query)
	if err != nil {
		logger.Error("failed to aggregate vendor sales", err)
		return nil, 0, err
	}

	refs := make([]*domain.VendorRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, &domain.VendorRef{
			ID:       row.VendorID,
			FullName: row.FullName,
			Email:    row.Email,
			IsBanned: row.IsBanned,
		})
	}

	byID, err := s.reconcileMany(ctx, refs)
	if err != nil {
		return nil, 0, err
	}

	results := make([]domain.VendorSummary, 0, len(refs))
	for _, ref := range refs {
		results = append(results, byID[ref.ID])
	}

	return results, total, nil
}

// totalPages is never below 1, so an empty report still has one page.
func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
