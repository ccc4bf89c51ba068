package payout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bazaarHub/domain"
	"bazaarHub/internal/events"
	"bazaarHub/pkg/logger"
	"bazaarHub/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RevenueRepository interface {
	DeliveredLineItems(ctx context.Context, vendorIDs []uint) ([]domain.VendorLineItem, error)
	QualifyingVendors(ctx context.Context, query domain.VendorReportQuery) ([]domain.User, error)
	VendorSales(ctx context.Context, query domain.VendorReportQuery) ([]domain.VendorSales, int64, error)
}

type PayoutRepository interface {
	Create(ctx context.Context, payout *domain.Payout) error
	FindAll(ctx context.Context, vendorID uint) ([]domain.Payout, error)
	FindByVendors(ctx context.Context, vendorIDs []uint) ([]domain.Payout, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type EventPublisher interface {
	PublishPayoutRecorded(ctx context.Context, event events.PayoutRecordedEvent) error
}

type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, body string) error
}

// PayoutInput is an admin request to record a payout. NetPayable and
// AmountPaid hold the raw JSON values so numeric strings are accepted too.
type PayoutInput struct {
	VendorID    uint
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	NetPayable  json.RawMessage
	AmountPaid  json.RawMessage
	Paid        bool
}

type PayoutService struct {
	revenueRepo RevenueRepository
	payoutRepo  PayoutRepository
	userRepo    UserFinder
	publisher   EventPublisher
	notifRepo   NotificationRepository
	now         func() time.Time
}

func NewPayoutService(revenueRepo RevenueRepository, payoutRepo PayoutRepository, userRepo UserFinder, publisher EventPublisher, notifRepo NotificationRepository) *PayoutService {
	return &PayoutService{
		revenueRepo: revenueRepo,
		payoutRepo:  payoutRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		notifRepo:   notifRepo,
		now:         time.Now,
	}
}

// CreatePayout appends a payout for a vendor. The record counts as paid when
// flagged so, or when the amount paid covers a positive net payable.
func (s *PayoutService) CreatePayout(ctx context.Context, adminID uint, in PayoutInput) (domain.Payout, error) {
	if in.VendorID == 0 {
		return domain.Payout{}, fmt.Errorf("vendorId is required: %w", domain.ErrValidation)
	}

	vendor, err := s.userRepo.FindByID(ctx, in.VendorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Payout{}, fmt.Errorf("vendor %d not found: %w", in.VendorID, domain.ErrNotFound)
		}
		return domain.Payout{}, err
	}
	if !vendor.IsVendor() {
		return domain.Payout{}, fmt.Errorf("vendor %d not found: %w", in.VendorID, domain.ErrNotFound)
	}

	net, ok, err := ParseAmount(in.NetPayable)
	if err != nil || !ok {
		return domain.Payout{}, fmt.Errorf("netPayable must be numeric: %w", domain.ErrValidation)
	}
	if net.IsNegative() {
		return domain.Payout{}, fmt.Errorf("netPayable cannot be negative: %w", domain.ErrValidation)
	}

	amount, hasAmount, err := ParseAmount(in.AmountPaid)
	if err != nil {
		return domain.Payout{}, fmt.Errorf("amountPaid must be numeric: %w", domain.ErrValidation)
	}
	if hasAmount && amount.IsNegative() {
		return domain.Payout{}, fmt.Errorf("amountPaid cannot be negative: %w", domain.ErrValidation)
	}

	if in.PeriodStart != nil && in.PeriodEnd != nil && in.PeriodEnd.Before(*in.PeriodStart) {
		return domain.Payout{}, fmt.Errorf("periodEnd is before periodStart: %w", domain.ErrValidation)
	}

	payout := domain.Payout{
		Reference:   uuid.NewString(),
		VendorID:    vendor.ID,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		NetPayable:  net.InexactFloat64(),
		Paid:        in.Paid || (hasAmount && net.IsPositive() && amount.GreaterThanOrEqual(net)),
		CreatedBy:   adminID,
	}
	if hasAmount {
		v := amount.InexactFloat64()
		payout.AmountPaid = &v
	}
	if payout.Paid {
		paidAt := s.now()
		payout.PaidAt = &paidAt
	}

	if err := s.payoutRepo.Create(ctx, &payout); err != nil {
		logger.Error("failed to create payout", "vendor_id", vendor.ID, err)
		return domain.Payout{}, err
	}

	metrics.PayoutsRecorded.WithLabelValues(strconv.FormatBool(payout.Paid)).Inc()
	if settled := payout.Settled(); settled > 0 {
		metrics.PayoutAmountPaid.Add(settled)
	}

	logger.Info("payout recorded", "payout_id", payout.ID, "reference", payout.Reference,
		"vendor_id", vendor.ID, "paid", payout.Paid, "created_by", adminID)

	s.announce(ctx, vendor, payout)

	return payout, nil
}

// announce publishes the payout event and emails the vendor. Failures are
// logged only; the payout is already stored.
func (s *PayoutService) announce(ctx context.Context, vendor domain.User, payout domain.Payout) {
	event := events.PayoutRecordedEvent{
		PayoutID:   payout.ID,
		Reference:  payout.Reference,
		VendorID:   payout.VendorID,
		NetPayable: payout.NetPayable,
		AmountPaid: payout.AmountPaid,
		Paid:       payout.Paid,
		CreatedBy:  payout.CreatedBy,
	}
	if err := s.publisher.PublishPayoutRecorded(ctx, event); err != nil {
		logger.Warn("failed to publish payout event", "payout_id", payout.ID, err)
	}

	subject := "A payout has been recorded for your store"
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Payout <b>%s</b> was recorded. Net payable: %.2f, amount paid: %.2f.</p>",
		vendor.FullName, payout.Reference, payout.NetPayable, payout.Settled(),
	)
	if err := s.notifRepo.SendEmail(ctx, vendor.FullName, vendor.Email, subject, body); err != nil {
		logger.Warn("failed to email vendor about payout", "vendor_id", vendor.ID, err)
	}
}

// ListPayouts returns payouts newest first; vendorID 0 means every vendor.
func (s *PayoutService) ListPayouts(ctx context.Context, vendorID uint) ([]domain.Payout, error) {
	payouts, err := s.payoutRepo.FindAll(ctx, vendorID)
	if err != nil {
		logger.Error("failed to list payouts", "vendor_id", vendorID, err)
		return nil, err
	}

	return payouts, nil
}

// ParseAmount reads a JSON number or numeric string. ok is false when the
// value is absent, null or an empty string.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, bool, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return decimal.Zero, false, nil
	}

	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false, err
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return decimal.Zero, false, nil
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false, err
	}

	return d, true, nil
}
