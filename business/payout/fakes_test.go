package payout

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bazaarHub/domain"
	"bazaarHub/internal/events"
)

// memStore keeps users, catalog, orders and payouts in memory and answers
// the revenue queries the way the SQL repositories do.
type memStore struct {
	users      map[uint]domain.User
	categories map[uint64]*float64
	products   map[uint64]domain.Product
	orders     []domain.Order
	payouts    []domain.Payout
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uint]domain.User{},
		categories: map[uint64]*float64{},
		products:   map[uint64]domain.Product{},
	}
}

func ptr[T any](v T) *T { return &v }

func (m *memStore) addVendor(id uint, name string) {
	m.users[id] = domain.User{ID: id, FullName: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@shop.test", Role: domain.RoleVendor}
}

func (m *memStore) addCategory(id uint64, charge *float64) {
	m.categories[id] = charge
}

func (m *memStore) addProduct(id uint64, vendorID uint, categoryID *uint64, price float64) {
	m.products[id] = domain.Product{ID: id, VendorID: ptr(vendorID), CategoryID: categoryID, Name: fmt.Sprintf("product %d", id), Price: price}
}

func (m *memStore) addOrder(status string, items ...domain.OrderItem) {
	id := uint(len(m.orders) + 1)
	for i := range items {
		items[i].OrderID = id
	}
	m.orders = append(m.orders, domain.Order{ID: id, Status: status, Items: items})
}

func (m *memStore) sell(productID uint64, qty int, status string) {
	p := m.products[productID]
	m.addOrder(status, domain.OrderItem{ProductID: productID, VendorID: p.VendorID, Price: p.Price, Quantity: qty})
}

func (m *memStore) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (m *memStore) DeliveredLineItems(_ context.Context, vendorIDs []uint) ([]domain.VendorLineItem, error) {
	want := map[uint]bool{}
	for _, id := range vendorIDs {
		want[id] = true
	}

	var out []domain.VendorLineItem
	for _, o := range m.orders {
		if o.Status != domain.OrderStatusDelivered {
			continue
		}
		for _, it := range o.Items {
			if it.VendorID == nil || !want[*it.VendorID] {
				continue
			}
			var charge *float64
			if p, ok := m.products[it.ProductID]; ok && p.CategoryID != nil {
				charge = m.categories[*p.CategoryID]
			}
			out = append(out, domain.VendorLineItem{
				VendorID:      *it.VendorID,
				OrderID:       o.ID,
				ProductID:     it.ProductID,
				Price:         it.Price,
				Quantity:      it.Quantity,
				ServiceCharge: charge,
			})
		}
	}
	return out, nil
}

func (m *memStore) qualifies(u domain.User, q domain.VendorReportQuery) bool {
	if u.Role != domain.RoleVendor {
		return false
	}
	if q.VendorID != 0 && u.ID != q.VendorID {
		return false
	}
	if s := strings.ToLower(q.Search); s != "" &&
		!strings.Contains(strings.ToLower(u.FullName), s) && !strings.Contains(strings.ToLower(u.Email), s) {
		return false
	}
	items, _ := m.DeliveredLineItems(context.Background(), []uint{u.ID})
	return len(items) > 0
}

func (m *memStore) QualifyingVendors(_ context.Context, q domain.VendorReportQuery) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if m.qualifies(u, q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) VendorSales(ctx context.Context, q domain.VendorReportQuery) ([]domain.VendorSales, int64, error) {
	vendors, _ := m.QualifyingVendors(ctx, q)

	rows := make([]domain.VendorSales, 0, len(vendors))
	for _, v := range vendors {
		items, _ := m.DeliveredLineItems(ctx, []uint{v.ID})
		row := domain.VendorSales{VendorID: v.ID, FullName: v.FullName, Email: v.Email}
		orders := map[uint]bool{}
		for _, it := range items {
			row.GrossSales += it.LineTotal()
			orders[it.OrderID] = true
		}
		row.OrderCount = len(orders)
		rows = append(rows, row)
	}

	less := func(a, b domain.VendorSales) bool {
		switch q.SortKey {
		case domain.ReportSortVendor:
			return a.FullName < b.FullName
		case domain.ReportSortOrderCount:
			return a.OrderCount < b.OrderCount
		}
		return a.GrossSales < b.GrossSales
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if q.SortDir == domain.SortAsc {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})

	total := int64(len(rows))
	from := q.Offset()
	if from > len(rows) {
		from = len(rows)
	}
	to := from + q.Limit
	if to > len(rows) {
		to = len(rows)
	}
	return rows[from:to], total, nil
}

func (m *memStore) Create(_ context.Context, p *domain.Payout) error {
	p.ID = uint(len(m.payouts) + 1)
	m.payouts = append(m.payouts, *p)
	return nil
}

func (m *memStore) FindAll(_ context.Context, vendorID uint) ([]domain.Payout, error) {
	var out []domain.Payout
	for i := len(m.payouts) - 1; i >= 0; i-- {
		if vendorID == 0 || m.payouts[i].VendorID == vendorID {
			out = append(out, m.payouts[i])
		}
	}
	return out, nil
}

func (m *memStore) FindByVendors(_ context.Context, vendorIDs []uint) ([]domain.Payout, error) {
	want := map[uint]bool{}
	for _, id := range vendorIDs {
		want[id] = true
	}
	var out []domain.Payout
	for _, p := range m.payouts {
		if want[p.VendorID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []events.PayoutRecordedEvent
	err    error
}

func (r *recordingPublisher) PublishPayoutRecorded(_ context.Context, e events.PayoutRecordedEvent) error {
	r.events = append(r.events, e)
	return r.err
}

type sentEmail struct {
	toEmail string
	subject string
	body    string
}

type recordingMailer struct {
	sent []sentEmail
	err  error
}

func (r *recordingMailer) SendEmail(_ context.Context, _, toEmail, subject, body string) error {
	r.sent = append(r.sent, sentEmail{toEmail: toEmail, subject: subject, body: body})
	return r.err
}

func newTestService(m *memStore) (*PayoutService, *recordingPublisher, *recordingMailer) {
	pub := &recordingPublisher{}
	mail := &recordingMailer{}
	return NewPayoutService(m, m, m, pub, mail), pub, mail
}
