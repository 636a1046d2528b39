package repository

import (
	"time"

	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// DocumentEventRepository persiste el log append-only de eventos.
// No hay Update ni Delete: el log es inmutable.
type DocumentEventRepository interface {
	Create(event *entity.DocumentEvent) error
	ListByDocument(documentID string, docType entity.DocType) ([]*entity.DocumentEvent, error)
	// ListPaymentEventsSince devuelve los eventos payment_received creados
	// después de since (para la reconciliación periódica de status).
	ListPaymentEventsSince(since time.Time) ([]*entity.DocumentEvent, error)
}
