package xendit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bazaarHub/domain"
)

type XenditConfig struct {
	XenditApi          string
	XenditUrl          string
	Currency           string
	SuccessRedirectUrl string
	FailureRedirectUrl string
}

type XenditRepository struct {
	xenditConfig XenditConfig
	client       *http.Client
}

func NewXenditRepository(cfg XenditConfig) *XenditRepository {
	return &XenditRepository{
		xenditConfig: cfg,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateInvoice registers an invoice with the gateway and returns its hosted URL.
func (r *XenditRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice) (string, error) {
	body := domain.XenditInvoiceRequest{
		ExternalID:         invoice.ExternalID,
		Amount:             invoice.Amount,
		Description:        invoice.Description,
		InvoiceDuration:    3600,
		Customer:           domain.Customer{Email: invoice.PayerEmail},
		SuccessRedirectURL: r.xenditConfig.SuccessRedirectUrl,
		FailureRedirectURL: r.xenditConfig.FailureRedirectUrl,
		Currency:           r.xenditConfig.Currency,
		Items:              invoice.Items,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.xenditConfig.XenditUrl, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.xenditConfig.XenditApi, "")

	res, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call xendit: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	var xenditResponse domain.XenditResponse
	if err := json.Unmarshal(raw, &xenditResponse); err != nil {
		return "", fmt.Errorf("failed to decode xendit response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("xendit returned %d: %s %s", res.StatusCode, xenditResponse.ErrorCode, xenditResponse.Message)
	}

	return xenditResponse.InvoiceURL, nil
}
