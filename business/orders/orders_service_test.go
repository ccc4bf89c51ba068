package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bazaarHub/domain"
	"bazaarHub/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	orders map[uint]domain.Order
	nextID uint
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *domain.Order) error {
	f.nextID++
	o.ID = f.nextID
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uint) (domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (f *fakeOrders) FindAll(_ context.Context, buyerID, vendorID uint, status string) ([]domain.Order, error) {
	var out []domain.Order
	for id := uint(1); id <= f.nextID; id++ {
		o, ok := f.orders[id]
		if !ok {
			continue
		}
		if buyerID != 0 && o.BuyerID != buyerID {
			continue
		}
		if vendorID != 0 && !o.HasVendor(vendorID) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uint, from, to string) error {
	o := f.orders[id]
	if o.Status != from {
		return fmt.Errorf("order %d: %w", id, domain.ErrConflict)
	}
	o.Status = to
	f.orders[id] = o
	return nil
}

type fakeProducts map[uint64]domain.Product

func (f fakeProducts) FindByIDs(_ context.Context, ids []uint64) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePublisher struct {
	events []events.OrderStatusChangedEvent
	err    error
}

func (f *fakePublisher) PublishOrderStatusChanged(_ context.Context, e events.OrderStatusChangedEvent) error {
	f.events = append(f.events, e)
	return f.err
}

func ptr[T any](v T) *T { return &v }

const (
	buyerID   uint = 10
	vendorA   uint = 20
	vendorB   uint = 21
	adminID   uint = 1
	strangerV uint = 22
)

func newService() (*OrdersService, *fakeOrders, *fakePublisher) {
	repo := &fakeOrders{orders: map[uint]domain.Order{}}
	products := fakeProducts{
		1: {ID: 1, VendorID: ptr(vendorA), Price: 100, Stock: 10},
		2: {ID: 2, VendorID: ptr(vendorB), Price: 15.5, Stock: 10},
		3: {ID: 3, Price: 7, Stock: 10},
	}
	pub := &fakePublisher{}
	return NewOrdersService(repo, products, pub), repo, pub
}

func TestCreateOrderCopiesPriceAndVendor(t *testing.T) {
	svc, repo, _ := newService()

	order, err := svc.CreateOrder(context.Background(), buyerID, []OrderLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 2},
		{ProductID: 3, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, order.PaymentStatus)
	assert.InDelta(t, 238, order.Total, 1e-9)
	require.Len(t, order.Items, 3)
	assert.Equal(t, vendorA, *order.Items[0].VendorID)
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Nil(t, order.Items[2].VendorID)
	assert.Contains(t, repo.orders, order.ID)
}

func TestCreateOrderRejectsBadLines(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CreateOrder(context.Background(), buyerID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateOrder(context.Background(), buyerID, []OrderLine{{ProductID: 1, Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateOrder(context.Background(), buyerID, []OrderLine{{ProductID: 99, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderVisibility(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, buyerID, []OrderLine{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, buyerID+1, []OrderLine{{ProductID: 2, Quantity: 1}})
	require.NoError(t, err)

	buyer := domain.Actor{UserID: buyerID, Role: domain.RoleCustomer}
	list, err := svc.GetAllOrders(ctx, buyer, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	vendor := domain.Actor{UserID: vendorB, Role: domain.RoleVendor}
	list, err = svc.GetAllOrders(ctx, vendor, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, buyerID+1, list[0].BuyerID)

	admin := domain.Actor{UserID: adminID, Role: domain.RoleAdmin}
	list, err = svc.GetAllOrders(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.GetAllOrders(ctx, admin, "lost")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.GetOrder(ctx, buyer, order.ID)
	assert.NoError(t, err)
	_, err = svc.GetOrder(ctx, domain.Actor{UserID: vendorA, Role: domain.RoleVendor}, order.ID)
	assert.NoError(t, err)
	_, err = svc.GetOrder(ctx, vendor, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus(t *testing.T) {
	svc, _, pub := newService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, buyerID, []OrderLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}})
	require.NoError(t, err)

	stranger := domain.Actor{UserID: strangerV, Role: domain.RoleVendor}
	_, err = svc.UpdateStatus(ctx, stranger, order.ID, domain.OrderStatusAccepted)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	buyer := domain.Actor{UserID: buyerID, Role: domain.RoleCustomer}
	_, err = svc.UpdateStatus(ctx, buyer, order.ID, domain.OrderStatusAccepted)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	seller := domain.Actor{UserID: vendorA, Role: domain.RoleVendor}
	_, err = svc.UpdateStatus(ctx, seller, order.ID, domain.OrderStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateStatus(ctx, seller, order.ID, "teleported")
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := svc.UpdateStatus(ctx, seller, order.ID, domain.OrderStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAccepted, updated.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.OrderStatusPending, pub.events[0].From)
	assert.Equal(t, domain.OrderStatusAccepted, pub.events[0].To)
	assert.ElementsMatch(t, []uint{vendorA, vendorB}, pub.events[0].VendorIDs)

	pub.err = errors.New("broker down")
	admin := domain.Actor{UserID: adminID, Role: domain.RoleAdmin}
	updated, err = svc.UpdateStatus(ctx, admin, order.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)
}
