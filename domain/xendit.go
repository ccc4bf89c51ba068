package domain

import "time"

// XenditInvoiceRequest is the body of POST /v2/invoices.
type XenditInvoiceRequest struct {
	ExternalID         string   `json:"external_id"`
	Amount             float64  `json:"amount"`
	Description        string   `json:"description"`
	InvoiceDuration    int      `json:"invoice_duration"`
	Customer           Customer `json:"customer"`
	SuccessRedirectURL string   `json:"success_redirect_url"`
	FailureRedirectURL string   `json:"failure_redirect_url"`
	Currency           string   `json:"currency"`
	Items              []Item   `json:"items"`
}

type XenditResponse struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	ExpiryDate  time.Time `json:"expiry_date"`
	InvoiceURL  string    `json:"invoice_url"`
	Currency    string    `json:"currency"`
	Items       []Item    `json:"items"`
	Customer    Customer  `json:"customer"`
	ErrorCode   string    `json:"error_code,omitempty"`
	Message     string    `json:"message,omitempty"`
}

// XenditWebhook is the invoice callback payload.
type XenditWebhook struct {
	ID             string    `json:"id"`
	ExternalID     string    `json:"external_id"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentChannel string    `json:"payment_channel"`
	Amount         float64   `json:"amount"`
	PaidAmount     float64   `json:"paid_amount"`
	PaidAt         time.Time `json:"paid_at"`
	PayerEmail     string    `json:"payer_email"`
	Currency       string    `json:"currency"`
}

type Customer struct {
	Email string `json:"email"`
}

type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}
