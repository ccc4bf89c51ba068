package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bazaarHub/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentsService struct {
	hooks []domain.XenditWebhook
	err   error
}

func (f *fakePaymentsService) CreatePayment(context.Context, uint, uint) (domain.Payment, error) {
	return domain.Payment{}, nil
}

func (f *fakePaymentsService) GetAllPayments(context.Context, domain.Actor) ([]domain.Payment, error) {
	return nil, nil
}

func (f *fakePaymentsService) GetPayment(context.Context, domain.Actor, uint) (domain.Payment, error) {
	return domain.Payment{}, nil
}

func (f *fakePaymentsService) HandleWebhook(_ context.Context, hook domain.XenditWebhook) error {
	f.hooks = append(f.hooks, hook)
	return f.err
}

func postWebhook(ctrl *WebhookController, token, body string) *httptest.ResponseRecorder {
	e := echo.New()
	e.POST("/webhook/xendit", ctrl.HandleWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhook/xendit", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(CallbackTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookRequiresCallbackToken(t *testing.T) {
	svc := &fakePaymentsService{}
	ctrl := NewWebhookController(svc, "s3cret", time.Second)
	body := `{"external_id": "abc", "status": "PAID"}`

	assert.Equal(t, http.StatusUnauthorized, postWebhook(ctrl, "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, postWebhook(ctrl, "guess", body).Code)
	assert.Empty(t, svc.hooks)

	rec := postWebhook(ctrl, "s3cret", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.hooks, 1)
	assert.Equal(t, "abc", svc.hooks[0].ExternalID)
	assert.Equal(t, "PAID", svc.hooks[0].Status)
}

func TestWebhookWithoutConfiguredToken(t *testing.T) {
	svc := &fakePaymentsService{}
	ctrl := NewWebhookController(svc, "", time.Second)

	rec := postWebhook(ctrl, "", `{"external_id": "abc", "status": "PAID"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.hooks)
}

func TestWebhookUnknownInvoice(t *testing.T) {
	svc := &fakePaymentsService{err: domain.ErrNotFound}
	ctrl := NewWebhookController(svc, "s3cret", time.Second)

	rec := postWebhook(ctrl, "s3cret", `{"external_id": "missing", "status": "PAID"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
