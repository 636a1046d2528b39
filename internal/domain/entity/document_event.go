package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento rastreables en el endpoint público.
const (
	EventViewed             = "viewed"
	EventPaymentLinkClicked = "payment_link_clicked"
	EventPaymentReceived    = "payment_received"
	EventReceiptViewed      = "receipt_viewed"
)

// ValidEventType reporta si el tipo pertenece al conjunto cerrado.
func ValidEventType(t string) bool {
	switch t {
	case EventViewed, EventPaymentLinkClicked, EventPaymentReceived, EventReceiptViewed:
		return true
	}
	return false
}

// IsPixelEvent indica si la respuesta HTTP del evento es el pixel GIF 1x1
// (beacon de apertura) en lugar de JSON.
func IsPixelEvent(t string) bool {
	return t == EventViewed || t == EventReceiptViewed
}

// DocumentEvent es una fila de auditoría append-only: nunca se actualiza ni
// se borra. Una fila por interacción rastreada; el log es la fuente de verdad
// aunque fallen los pasos posteriores (status, notificaciones).
type DocumentEvent struct {
	ID               string
	UserID           string
	DocumentID       string
	DocumentType     DocType
	DocumentNumber   string
	EventType        string
	ClientEmail      string
	ClientName       string
	ClientIP         string
	UserAgent        string
	Amount           decimal.Decimal
	PaymentMethod    string
	PaymentReference string
	TrackingToken    string
	Metadata         string // JSON libre
	CreatedAt        time.Time
}
