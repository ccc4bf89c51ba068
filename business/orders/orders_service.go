package orders

import (
	"context"
	"errors"
	"fmt"

	"bazaarHub/domain"
	"bazaarHub/internal/events"
	"bazaarHub/pkg/logger"
	"bazaarHub/pkg/metrics"
)

type OrdersRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	FindAll(ctx context.Context, buyerID, vendorID uint, status string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) error
}

type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

type EventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event events.OrderStatusChangedEvent) error
}

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type OrdersService struct {
	orderRepo    OrdersRepository
	productsRepo ProductFinder
	publisher    EventPublisher
}

func NewOrdersService(orderRepo OrdersRepository, productsRepo ProductFinder, publisher EventPublisher) *OrdersService {
	return &OrdersService{
		orderRepo:    orderRepo,
		productsRepo: productsRepo,
		publisher:    publisher,
	}
}

// CreateOrder places an order for buyerID. Unit price and vendor of every line
// are copied from the product at this moment.
func (s *OrdersService) CreateOrder(ctx context.Context, buyerID uint, lines []OrderLine) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("order needs at least one item: %w", domain.ErrValidation)
	}

	ids := make([]uint64, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("invalid order line for product %d: %w", line.ProductID, domain.ErrValidation)
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.productsRepo.FindByIDs(ctx, ids)
	if err != nil {
		return domain.Order{}, err
	}

	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := domain.Order{
		BuyerID:       buyerID,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
	for _, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok {
			return domain.Order{}, fmt.Errorf("product %d: %w", line.ProductID, domain.ErrNotFound)
		}
		item := domain.OrderItem{
			ProductID: p.ID,
			VendorID:  p.VendorID,
			Price:     p.Price,
			Quantity:  line.Quantity,
		}
		order.Total += item.LineTotal()
		order.Items = append(order.Items, item)
	}

	if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
		logger.Error("failed to create order", "buyer_id", buyerID, err)
		return domain.Order{}, err
	}

	logger.Info("order created", "order_id", order.ID, "buyer_id", buyerID, "total", order.Total)

	return order, nil
}

// GetAllOrders lists what the actor may see: everything for admins, orders
// with their items for vendors and own orders for customers.
func (s *OrdersService) GetAllOrders(ctx context.Context, actor domain.Actor, status string) ([]domain.Order, error) {
	if status != "" && !domain.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q: %w", status, domain.ErrValidation)
	}

	switch {
	case actor.IsAdmin():
		return s.orderRepo.FindAll(ctx, 0, 0, status)
	case actor.IsVendor():
		return s.orderRepo.FindAll(ctx, 0, actor.UserID, status)
	default:
		return s.orderRepo.FindAll(ctx, actor.UserID, 0, status)
	}
}

func (s *OrdersService) GetOrder(ctx context.Context, actor domain.Actor, id uint) (domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if !canView(actor, order) {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrForbidden)
	}

	return order, nil
}

// UpdateStatus advances an order along its lifecycle. Admins may move any
// order, vendors only orders holding one of their items.
func (s *OrdersService) UpdateStatus(ctx context.Context, actor domain.Actor, id uint, status string) (domain.Order, error) {
	if !domain.IsValidOrderStatus(status) {
		return domain.Order{}, fmt.Errorf("unknown order status %q: %w", status, domain.ErrValidation)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if !actor.IsAdmin() && !(actor.IsVendor() && order.HasVendor(actor.UserID)) {
		return domain.Order{}, fmt.Errorf("not allowed to update order %d: %w", id, domain.ErrForbidden)
	}

	if !domain.CanTransitionOrder(order.Status, status) {
		return domain.Order{}, fmt.Errorf("cannot move order from %s to %s: %w", order.Status, status, domain.ErrValidation)
	}

	from := order.Status
	if err := s.orderRepo.UpdateStatus(ctx, id, from, status); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			logger.Error("failed to update order status", "order_id", id, err)
		}
		return domain.Order{}, err
	}
	order.Status = status

	metrics.OrderStatusChanges.WithLabelValues(status).Inc()
	logger.Info("order status changed", "order_id", id, "from", from, "to", status, "by", actor.UserID)

	event := events.OrderStatusChangedEvent{
		OrderID:   id,
		From:      from,
		To:        status,
		VendorIDs: vendorIDs(order),
		ChangedBy: actor.UserID,
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		logger.Warn("failed to publish order status change", "order_id", id, err)
	}

	return order, nil
}

func canView(actor domain.Actor, order domain.Order) bool {
	switch {
	case actor.IsAdmin():
		return true
	case order.BuyerID == actor.UserID:
		return true
	case actor.IsVendor():
		return order.HasVendor(actor.UserID)
	}
	return false
}

func vendorIDs(order domain.Order) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, item := range order.Items {
		if item.VendorID == nil || seen[*item.VendorID] {
			continue
		}
		seen[*item.VendorID] = true
		ids = append(ids, *item.VendorID)
	}
	return ids
}
