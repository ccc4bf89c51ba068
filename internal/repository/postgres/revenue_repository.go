package postgres

import (
	"context"
	"fmt"
	"strings"

	"bazaarHub/domain"

	"gorm.io/gorm"
)

// RevenueRepository reads delivered sales for vendor reconciliation. Reads are
// not wrapped in a transaction.
type RevenueRepository struct {
	DB *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{
		DB: db,
	}
}

var reportOrderColumns = map[string]string{
	domain.ReportSortVendor:     "u.full_name",
	domain.ReportSortGrossSales: "gross_sales",
	domain.ReportSortOrderCount: "order_count",
}

// DeliveredLineItems returns every line item of a delivered order attributed
// to one of vendorIDs, with the current service charge of the product's
// category (nil when the product or category is gone).
func (r *RevenueRepository) DeliveredLineItems(ctx context.Context, vendorIDs []uint) ([]domain.VendorLineItem, error) {
	var items []domain.VendorLineItem
	if len(vendorIDs) == 0 {
		return items, nil
	}

	err := r.DB.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.vendor_id, oi.order_id, oi.product_id, oi.price, oi.quantity, c.service_charge").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("LEFT JOIN products p ON p.id = oi.product_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("o.status = ?", domain.OrderStatusDelivered).
		Where("oi.vendor_id IN ?", vendorIDs).
		Order("oi.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load delivered line items: %w", err)
	}

	return items, nil
}

// QualifyingVendors returns vendors with at least one delivered sale that
// match the query's vendor and search filters, ordered by name.
func (r *RevenueRepository) QualifyingVendors(ctx context.Context, query domain.VendorReportQuery) ([]domain.User, error) {
	q := r.DB.WithContext(ctx).Model(&domain.User{}).
		Where("role = ?", domain.RoleVendor).
		Where("EXISTS (SELECT 1 FROM order_items oi JOIN orders o ON o.id = oi.order_id WHERE oi.vendor_id = users.id AND o.status = ?)",
			domain.OrderStatusDelivered)

	if query.VendorID != 0 {
		q = q.Where("users.id = ?", query.VendorID)
	}
	if pattern := likePattern(query.Search); pattern != "" {
		q = q.Where(`(LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var vendors []domain.User
	if err := q.Order("full_name ASC, id ASC").Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to find qualifying vendors: %w", err)
	}

	return vendors, nil
}

// VendorSales groups delivered sales per vendor, sorted and paginated by the
// database. SortKey must not be "due"; the total counts every matching vendor.
func (r *RevenueRepository) VendorSales(ctx context.Context, query domain.VendorReportQuery) ([]domain.VendorSales, int64, error) {
	column, ok := reportOrderColumns[query.SortKey]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported sort key %q: %w", query.SortKey, domain.ErrValidation)
	}

	dir := "DESC"
	if query.SortDir == domain.SortAsc {
		dir = "ASC"
	}

	var total int64
	if err := r.salesBase(ctx, query).
		Select("COUNT(DISTINCT u.id)").
		Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vendor sales: %w", err)
	}

	var rows []domain.VendorSales
	err := r.salesBase(ctx, query).
		Select("u.id AS vendor_id, u.full_name, u.email, u.is_banned, " +
			"SUM(oi.price * oi.quantity) AS gross_sales, COUNT(DISTINCT oi.order_id) AS order_count").
		Group("u.id, u.full_name, u.email, u.is_banned").
		Order(fmt.Sprintf("%s %s, u.id ASC", column, dir)).
		Limit(query.Limit).
		Offset(query.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate vendor sales: %w", err)
	}

	return rows, total, nil
}

func (r *RevenueRepository) salesBase(ctx context.Context, query domain.VendorReportQuery) *gorm.DB {
	q := r.DB.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN users u ON u.id = oi.vendor_id").
		Where("o.status = ?", domain.OrderStatusDelivered).
		Where("u.role = ?", domain.RoleVendor).
		Where("u.deleted_at IS NULL")

	if query.VendorID != 0 {
		q = q.Where("u.id = ?", query.VendorID)
	}
	if pattern := likePattern(query.Search); pattern != "" {
		q = q.Where(`(LOWER(u.full_name) LIKE ? ESCAPE '\' OR LOWER(u.email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	return q
}

func likePattern(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return ""
	}

	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(search))
	return "%" + escaped + "%"
}
