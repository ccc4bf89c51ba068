package payout

import (
	"context"
	"errors"
	"math"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
	"bazaarHub/pkg/metrics"
)

// Reconcile computes the revenue summary of one vendor from its delivered
// line items and its payouts. Items and payouts of other vendors must not be
// passed in. The category charge is read as it is now, not as it was at sale.
func Reconcile(vendor *domain.VendorRef, items []domain.VendorLineItem, payouts []domain.Payout) domain.VendorSummary {
	summary := domain.VendorSummary{Vendor: vendor}

	orders := make(map[uint]struct{})
	for _, item := range items {
		lineTotal := item.LineTotal()
		summary.GrossSales += lineTotal
		summary.ServiceCharges += lineTotal * item.ChargePct() / 100
		orders[item.OrderID] = struct{}{}
	}
	summary.OrderCount = len(orders)
	summary.NetPayable = summary.GrossSales - summary.ServiceCharges

	for _, p := range payouts {
		summary.PaidAmount += p.Settled()
	}

	summary.Due = math.Max(0, summary.NetPayable-summary.PaidAmount)

	return summary
}

// VendorSummary reconciles a single vendor. An unknown id, or a user who is
// not a vendor, yields an empty summary rather than an error.
func (s *PayoutService) VendorSummary(ctx context.Context, vendorID uint) (domain.VendorSummary, error) {
	start := time.Now()
	defer func() {
		metrics.ReconcileDuration.WithLabelValues("vendor").Observe(time.Since(start).Seconds())
	}()

	user, err := s.userRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("summary requested for unknown vendor", "vendor_id", vendorID)
			return domain.VendorSummary{}, nil
		}
		return domain.VendorSummary{}, err
	}
	if !user.IsVendor() {
		return domain.VendorSummary{}, nil
	}

	ref := user.Ref()
	summaries, err := s.reconcileMany(ctx, []*domain.VendorRef{&ref})
	if err != nil {
		return domain.VendorSummary{}, err
	}

	return summaries[ref.ID], nil
}

// reconcileMany reconciles every vendor with one line-item query and one
// payout query.
func (s *PayoutService) reconcileMany(ctx context.Context, vendors []*domain.VendorRef) (map[uint]domain.VendorSummary, error) {
	ids := make([]uint, 0, len(vendors))
	for _, v := range vendors {
		ids = append(ids, v.ID)
	}

	items, err := s.revenueRepo.DeliveredLineItems(ctx, ids)
	if err != nil {
		logger.Error("failed to load delivered line items", err)
		return nil, err
	}

	payouts, err := s.payoutRepo.FindByVendors(ctx, ids)
	if err != nil {
		logger.Error("failed to load payouts", err)
		return nil, err
	}

	itemsByVendor := make(map[uint][]domain.VendorLineItem, len(vendors))
	for _, item := range items {
		itemsByVendor[item.VendorID] = append(itemsByVendor[item.VendorID], item)
	}

	payoutsByVendor := make(map[uint][]domain.Payout, len(vendors))
	for _, p := range payouts {
		payoutsByVendor[p.VendorID] = append(payoutsByVendor[p.VendorID], p)
	}

	summaries := make(map[uint]domain.VendorSummary, len(vendors))
	for _, v := range vendors {
		summaries[v.ID] = Reconcile(v, itemsByVendor[v.ID], payoutsByVendor[v.ID])
	}
	metrics.ReconciledVendors.Add(float64(len(vendors)))

	return summaries, nil
}
