package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItemRequest línea de un documento en creación.
type DocumentItemRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
}

// CreateDocumentRequest datos para crear un documento (de cualquier variante).
type CreateDocumentRequest struct {
	ClientID    string                `json:"client_id"`
	Number      string                `json:"number"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Currency    string                `json:"currency"`
	Notes       string                `json:"notes"`
	Terms       string                `json:"terms"`
	DueDate     *time.Time            `json:"due_date"`
	Items       []DocumentItemRequest `json:"items"`
}

// DocumentItemResponse línea con total derivado y formato de presentación.
type DocumentItemResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Total           decimal.Decimal `json:"total"`
	TotalDisplay    string          `json:"total_display"`
}

// DocumentResponse documento expuesto por la API.
type DocumentResponse struct {
	ID                 string                 `json:"id"`
	DocType            string                 `json:"doc_type"`
	CompanyID          string                 `json:"company_id"`
	ClientID           string                 `json:"client_id"`
	ClientName         string                 `json:"client_name,omitempty"`
	Number             string                 `json:"number"`
	Title              string                 `json:"title,omitempty"`
	Description        string                 `json:"description,omitempty"`
	Status             string                 `json:"status"`
	Currency           string                 `json:"currency"`
	Subtotal           decimal.Decimal        `json:"subtotal"`
	DiscountTotal      decimal.Decimal        `json:"discount_total"`
	TaxTotal           decimal.Decimal        `json:"tax_total"`
	GrandTotal         decimal.Decimal        `json:"grand_total"`
	GrandTotalDisplay  string                 `json:"grand_total_display"`
	Notes              string                 `json:"notes,omitempty"`
	Terms              string                 `json:"terms,omitempty"`
	IssueDate          time.Time              `json:"issue_date"`
	DueDate            *time.Time             `json:"due_date,omitempty"`
	TrackingToken      string                 `json:"tracking_token,omitempty"`
	SignNowDocumentID  string                 `json:"signnow_document_id,omitempty"`
	SignedAt           *time.Time             `json:"signed_at,omitempty"`
	SignedDocumentURL  string                 `json:"signed_document_url,omitempty"`
	Items              []DocumentItemResponse `json:"items,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}
