package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"

	"github.com/google/uuid"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusExpired = "EXPIRED"
)

type PaymentsRepository interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	GetAllPayments(ctx context.Context, buyerID uint) ([]domain.Payment, error)
	GetPayment(ctx context.Context, id uint) (domain.Payment, error)
	GetPaymentByExternalID(ctx context.Context, externalID string) (domain.Payment, error)
	UpdatePayment(ctx context.Context, payment *domain.Payment) error
}

type InvoiceGateway interface {
	CreateInvoice(ctx context.Context, invoice domain.Invoice) (string, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	MarkPaid(ctx context.Context, id uint, method string, metadata map[string]interface{}) error
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

type PaymentsService struct {
	paymentRepo PaymentsRepository
	gateway     InvoiceGateway
	userRepo    UserFinder
	orderRepo   OrderRepository
	productRepo ProductFinder
	now         func() time.Time
}

func NewPaymentsService(paymentRepo PaymentsRepository, gateway InvoiceGateway, userRepo UserFinder, orderRepo OrderRepository, productRepo ProductFinder) *PaymentsService {
	return &PaymentsService{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// CreatePayment opens a gateway invoice for one of the buyer's unpaid orders.
func (s *PaymentsService) CreatePayment(ctx context.Context, buyerID, orderID uint) (domain.Payment, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return domain.Payment{}, err
	}

	if order.BuyerID != buyerID {
		return domain.Payment{}, fmt.Errorf("order %d belongs to another buyer: %w", orderID, domain.ErrForbidden)
	}
	if order.PaymentStatus == domain.PaymentStatusPaid {
		return domain.Payment{}, fmt.Errorf("order %d is already paid: %w", orderID, domain.ErrConflict)
	}
	if order.Status == domain.OrderStatusCancelled {
		return domain.Payment{}, fmt.Errorf("order %d is cancelled: %w", orderID, domain.ErrValidation)
	}

	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		return domain.Payment{}, err
	}

	items, err := s.invoiceItems(ctx, order)
	if err != nil {
		return domain.Payment{}, err
	}

	invoice := domain.Invoice{
		ExternalID:  uuid.NewString(),
		Amount:      order.Total,
		Description: fmt.Sprintf("Payment for order #%d", order.ID),
		PayerEmail:  buyer.Email,
		Items:       items,
	}

	link, err := s.gateway.CreateInvoice(ctx, invoice)
	if err != nil {
		logger.Error("failed to create invoice", "order_id", orderID, err)
		return domain.Payment{}, err
	}

	payment := domain.Payment{
		BuyerID:       buyerID,
		OrderID:       orderID,
		ExternalID:    invoice.ExternalID,
		Amount:        invoice.Amount,
		PaymentStatus: PaymentStatusPending,
		PaymentLink:   link,
	}
	if err := s.paymentRepo.CreatePayment(ctx, &payment); err != nil {
		logger.Error("failed to store payment", "order_id", orderID, err)
		return domain.Payment{}, err
	}

	logger.Info("payment created", "payment_id", payment.ID, "order_id", orderID, "external_id", payment.ExternalID)

	return payment, nil
}

func (s *PaymentsService) invoiceItems(ctx context.Context, order domain.Order) ([]domain.Item, error) {
	ids := make([]uint64, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	items := make([]domain.Item, 0, len(order.Items))
	for _, item := range order.Items {
		name := names[item.ProductID]
		if name == "" {
			name = fmt.Sprintf("Product #%d", item.ProductID)
		}
		items = append(items, domain.Item{
			Name:     name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return items, nil
}

// GetAllPayments lists every payment for admins and own payments otherwise.
func (s *PaymentsService) GetAllPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error) {
	if actor.IsAdmin() {
		return s.paymentRepo.GetAllPayments(ctx, 0)
	}
	return s.paymentRepo.GetAllPayments(ctx, actor.UserID)
}

func (s *PaymentsService) GetPayment(ctx context.Context, actor domain.Actor, id uint) (domain.Payment, error) {
	payment, err := s.paymentRepo.GetPayment(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}

	if !actor.IsAdmin() && payment.BuyerID != actor.UserID {
		return domain.Payment{}, fmt.Errorf("payment %d: %w", id, domain.ErrForbidden)
	}

	return payment, nil
}

// HandleWebhook applies an invoice callback. A paid callback marks both the
// payment and its order paid; repeating it is harmless.
func (s *PaymentsService) HandleWebhook(ctx context.Context, hook domain.XenditWebhook) error {
	if hook.ExternalID == "" {
		return fmt.Errorf("missing external id: %w", domain.ErrValidation)
	}

	payment, err := s.paymentRepo.GetPaymentByExternalID(ctx, hook.ExternalID)
	if err != nil {
		return err
	}

	status := strings.ToUpper(hook.Status)
	switch status {
	case PaymentStatusPaid, "SETTLED":
		if payment.PaymentStatus == PaymentStatusPaid {
			logger.Debug("payment already settled", "payment_id", payment.ID)
			return nil
		}

		paidAt := hook.PaidAt
		if paidAt.IsZero() {
			paidAt = s.now()
		}
		payment.PaymentStatus = PaymentStatusPaid
		payment.PaymentMethod = hook.PaymentMethod
		payment.PaidAt = &paidAt

		if err := s.paymentRepo.UpdatePayment(ctx, &payment); err != nil {
			return err
		}

		metadata := map[string]interface{}{
			"invoice_id":      hook.ID,
			"external_id":     hook.ExternalID,
			"payment_channel": hook.PaymentChannel,
			"paid_amount":     hook.PaidAmount,
			"currency":        hook.Currency,
		}
		if err := s.orderRepo.MarkPaid(ctx, payment.OrderID, hook.PaymentMethod, metadata); err != nil {
			logger.Error("failed to mark order paid", "order_id", payment.OrderID, err)
			return err
		}

		logger.Info("payment settled", "payment_id", payment.ID, "order_id", payment.OrderID)
	case PaymentStatusExpired:
		payment.PaymentStatus = PaymentStatusExpired
		if err := s.paymentRepo.UpdatePayment(ctx, &payment); err != nil {
			return err
		}
		logger.Info("payment expired", "payment_id", payment.ID)
	default:
		logger.Warn("ignoring invoice callback", "status", hook.Status, "external_id", hook.ExternalID)
	}

	return nil
}
