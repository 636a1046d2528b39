package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackClientInfo contexto opcional del cliente que origina el evento.
type TrackClientInfo struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}

// TrackPaymentInfo metadatos opcionales de pago (solo payment_received).
type TrackPaymentInfo struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

// TrackEventRequest beacon del endpoint público de tracking.
type TrackEventRequest struct {
	Token       string            `json:"token"`
	EventType   string            `json:"eventType"`
	ClientInfo  *TrackClientInfo  `json:"clientInfo"`
	PaymentInfo *TrackPaymentInfo `json:"paymentInfo"`
}

// DocumentEventResponse fila del historial de eventos de un documento
// (vista del dueño, autenticada).
type DocumentEventResponse struct {
	ID               string          `json:"id"`
	DocumentID       string          `json:"document_id"`
	DocumentType     string          `json:"document_type"`
	DocumentNumber   string          `json:"document_number"`
	EventType        string          `json:"event_type"`
	ClientEmail      string          `json:"client_email,omitempty"`
	ClientName       string          `json:"client_name,omitempty"`
	ClientIP         string          `json:"client_ip,omitempty"`
	UserAgent        string          `json:"user_agent,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
