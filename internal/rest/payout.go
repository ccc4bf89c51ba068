package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bazaarHub/business/payout"
	"bazaarHub/domain"
	"bazaarHub/pkg/logger"

	"github.com/labstack/echo/v4"
)

type PayoutService interface {
	VendorSummary(ctx context.Context, vendorID uint) (domain.VendorSummary, error)
	VendorReport(ctx context.Context, query domain.VendorReportQuery) (domain.VendorReportPage, error)
	CreatePayout(ctx context.Context, adminID uint, in payout.PayoutInput) (domain.Payout, error)
	ListPayouts(ctx context.Context, vendorID uint) ([]domain.Payout, error)
}

type PayoutHandler struct {
	payoutService PayoutService
	timeout       time.Duration
}

func NewPayoutHandler(payoutService PayoutService, timeout time.Duration) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
		timeout:       timeout,
	}
}

// CreatePayoutRequest accepts numbers or numeric strings for vendorId and the
// amounts, and dates as YYYY-MM-DD or RFC 3339.
type CreatePayoutRequest struct {
	VendorID    json.RawMessage `json:"vendorId"`
	PeriodStart string          `json:"periodStart"`
	PeriodEnd   string          `json:"periodEnd"`
	NetPayable  json.RawMessage `json:"netPayable"`
	AmountPaid  json.RawMessage `json:"amountPaid"`
	Paid        bool            `json:"paid"`
}

// VendorSummary returns the caller's own revenue summary.
func (h *PayoutHandler) VendorSummary(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.payoutService.VendorSummary(ctx, actor.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *PayoutHandler) VendorPayouts(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payouts, err := h.payoutService.ListPayouts(ctx, actor.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"results": payouts})
}

// VendorReport serves the admin vendor table.
func (h *PayoutHandler) VendorReport(c echo.Context) error {
	query := domain.VendorReportQuery{
		Search:  c.QueryParam("q"),
		SortKey: c.QueryParam("sortKey"),
		SortDir: c.QueryParam("sortDir"),
	}

	vendorID, err := queryUint(c, "vendorId")
	if err != nil {
		return badRequest(c, "invalid vendorId")
	}
	query.VendorID = uint(vendorID)

	if query.Page, err = queryInt(c, "page"); err != nil {
		return badRequest(c, "invalid page")
	}
	if query.Limit, err = queryInt(c, "limit"); err != nil {
		return badRequest(c, "invalid limit")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.payoutService.VendorReport(ctx, query)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, page)
}

func (h *PayoutHandler) CreatePayout(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreatePayoutRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid payout request body", err)
		return badRequest(c, "invalid request body")
	}

	vendorID, err := parseVendorID(req.VendorID)
	if err != nil {
		return badRequest(c, "vendorId must be a positive integer")
	}

	in := payout.PayoutInput{
		VendorID:   vendorID,
		NetPayable: req.NetPayable,
		AmountPaid: req.AmountPaid,
		Paid:       req.Paid,
	}
	if in.PeriodStart, err = parseDate(req.PeriodStart); err != nil {
		return badRequest(c, "invalid periodStart")
	}
	if in.PeriodEnd, err = parseDate(req.PeriodEnd); err != nil {
		return badRequest(c, "invalid periodEnd")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.payoutService.CreatePayout(ctx, actor.UserID, in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

// ListPayouts lists payouts for admins, optionally for a single vendor.
func (h *PayoutHandler) ListPayouts(c echo.Context) error {
	vendorID, err := queryUint(c, "vendorId")
	if err != nil {
		return badRequest(c, "invalid vendorId")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payouts, err := h.payoutService.ListPayouts(ctx, uint(vendorID))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"results": payouts})
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// parseVendorID returns 0 for an absent id so the service reports it.
func parseVendorID(raw json.RawMessage) (uint, error) {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" || text == "null" {
		return 0, nil
	}
	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &time.ParseError{Layout: time.RFC3339, Value: raw}
}
