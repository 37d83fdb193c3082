package mutation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// Sales invoice DTOs
// =============================================================================

// InvoiceItemRequest is one line of a point-of-sale invoice.
type InvoiceItemRequest struct {
	ItemCode string          `json:"item_code" binding:"required,min=1,max=140"`
	Qty      decimal.Decimal `json:"qty" binding:"required"`
	Rate     decimal.Decimal `json:"rate"`
	UOM      string          `json:"uom" binding:"max=50"`
}

// PaymentLineRequest is one tender line settling an invoice.
type PaymentLineRequest struct {
	Method string          `json:"method" binding:"required,min=1,max=140"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateInvoiceRequest creates and submits a sales invoice in one call.
type CreateInvoiceRequest struct {
	ClientRequestID string               `json:"client_request_id" binding:"max=140"`
	Customer        string               `json:"customer" binding:"required,min=1,max=140"`
	POSProfile      string               `json:"pos_profile" binding:"required,min=1,max=140"`
	Warehouse       string               `json:"warehouse" binding:"max=140"`
	Currency        string               `json:"currency" binding:"omitempty,len=3"`
	PostingDate     string               `json:"posting_date" binding:"omitempty,datetime=2006-01-02"`
	Items           []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	Payments        []PaymentLineRequest `json:"payments" binding:"omitempty,dive"`
}

// InvoiceMutationResponse is the replayable summary of an invoice mutation.
type InvoiceMutationResponse struct {
	Name       string          `json:"name"`
	Docstatus  int             `json:"docstatus"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Currency   string          `json:"currency"`
}

// CancelInvoiceRequest voids a submitted invoice.
type CancelInvoiceRequest struct {
	ClientRequestID string `json:"client_request_id" binding:"max=140"`
	Name            string `json:"name" binding:"required,min=1,max=140"`
	Reason          string `json:"reason" binding:"max=500"`
}

// =============================================================================
// Payment entry DTOs
// =============================================================================

// PaymentKind distinguishes money direction.
type PaymentKind string

const (
	PaymentReceive          PaymentKind = "Receive"
	PaymentPay              PaymentKind = "Pay"
	PaymentInternalTransfer PaymentKind = "Internal Transfer"
)

// CreatePaymentRequest records a payment entry against a party or between accounts.
type CreatePaymentRequest struct {
	ClientRequestID string          `json:"client_request_id" binding:"max=140"`
	Kind            PaymentKind     `json:"kind" binding:"required,oneof=Receive Pay 'Internal Transfer'"`
	Party           string          `json:"party" binding:"max=140"`
	PartyType       string          `json:"party_type" binding:"omitempty,oneof=Customer Supplier"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	FromCurrency    string          `json:"from_currency" binding:"required,len=3"`
	ToCurrency      string          `json:"to_currency" binding:"required,len=3"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	FromAccount     string          `json:"from_account" binding:"max=140"`
	ToAccount       string          `json:"to_account" binding:"max=140"`
	PostingDate     string          `json:"posting_date" binding:"omitempty,datetime=2006-01-02"`
	ReferenceNo     string          `json:"reference_no" binding:"max=140"`
	InvoiceName     string          `json:"invoice_name" binding:"max=140"`
}

// PaymentMutationResponse is the replayable summary of a payment mutation.
type PaymentMutationResponse struct {
	Name         string          `json:"name"`
	Docstatus    int             `json:"docstatus"`
	Kind         PaymentKind     `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// =============================================================================
// Session DTOs
// =============================================================================

// OpenSessionRequest opens a point-of-sale session, or returns the already
// open one for the same profile and user.
type OpenSessionRequest struct {
	ClientRequestID string          `json:"client_request_id" binding:"max=140"`
	POSProfile      string          `json:"pos_profile" binding:"required,min=1,max=140"`
	OpeningFloat    decimal.Decimal `json:"opening_float"`
}

// CloseSessionRequest closes an open session with counted totals.
type CloseSessionRequest struct {
	ClientRequestID string          `json:"client_request_id" binding:"max=140"`
	SessionID       string          `json:"session_id" binding:"required,min=1,max=140"`
	ClosingTotal    decimal.Decimal `json:"closing_total"`
}

// SessionMutationResponse is the replayable summary of a session mutation.
type SessionMutationResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Reused    bool   `json:"reused"`
}

// =============================================================================
// Customer upsert DTOs
// =============================================================================

// UpsertCustomerRequest creates a customer, or patches the existing one
// matched by customer code.
type UpsertCustomerRequest struct {
	ClientRequestID string `json:"client_request_id" binding:"max=140"`
	Code            string `json:"code" binding:"required,min=1,max=140"`
	Name            string `json:"name" binding:"required,min=1,max=200"`
	Mobile          string `json:"mobile" binding:"max=50"`
	Email           string `json:"email" binding:"omitempty,email,max=200"`
	Territory       string `json:"territory" binding:"max=140"`
	CustomerGroup   string `json:"customer_group" binding:"max=140"`
}

// CustomerMutationResponse is the replayable summary of a customer upsert.
type CustomerMutationResponse struct {
	Name    string `json:"name"`
	Created bool   `json:"created"`
}
