package tracking

import (
	"context"

	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// Mailer es el puerto hacia el proveedor de email transaccional.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// EventNotification es el payload encolado para el fan-out de notificaciones
// (dueño + admin). Lleva lo justo para que el worker reconstruya los emails
// sin volver a resolver el token.
type EventNotification struct {
	EventType      string          `json:"event_type"`
	DocumentID     string          `json:"document_id"`
	DocumentType   entity.DocType  `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	OwnerUserID    string          `json:"owner_user_id"`
	ClientName     string          `json:"client_name"`
	Amount         string          `json:"amount"` // monto formateado para el cuerpo del email
}

// NotificationEnqueuer encola la notificación para envío fuera de banda
// (con reintentos); el request de tracking nunca espera por los emails.
type NotificationEnqueuer interface {
	EnqueueEventNotification(ctx context.Context, n EventNotification) error
}
