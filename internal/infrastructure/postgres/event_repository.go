package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/repository"
)

var _ repository.DocumentEventRepository = (*DocumentEventRepo)(nil)

// DocumentEventRepo implementación de DocumentEventRepository. Solo INSERT y
// SELECT: el log de eventos es append-only.
type DocumentEventRepo struct {
	q Querier
}

// NewDocumentEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentEventRepository(q Querier) *DocumentEventRepo {
	return &DocumentEventRepo{q: q}
}

// Create apendiza una fila de evento. Sin deduplicación: dos eventos iguales
// son dos filas.
func (r *DocumentEventRepo) Create(event *entity.DocumentEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO document_events (id, user_id, document_id, document_type, document_number, event_type,
		                             client_email, client_name, client_ip, user_agent,
		                             amount, payment_method, payment_reference, tracking_token, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.UserID, event.DocumentID, string(event.DocumentType), event.DocumentNumber, event.EventType,
		nullIfEmpty(event.ClientEmail), nullIfEmpty(event.ClientName), nullIfEmpty(event.ClientIP), nullIfEmpty(event.UserAgent),
		event.Amount, nullIfEmpty(event.PaymentMethod), nullIfEmpty(event.PaymentReference),
		nullIfEmpty(event.TrackingToken), nullIfEmpty(event.Metadata), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document event: %w", err)
	}
	return nil
}

const eventColumns = `id, user_id, document_id, document_type, document_number, event_type,
	       COALESCE(client_email, ''), COALESCE(client_name, ''), COALESCE(client_ip, ''), COALESCE(user_agent, ''),
	       amount, COALESCE(payment_method, ''), COALESCE(payment_reference, ''),
	       COALESCE(tracking_token, ''), COALESCE(metadata, ''), created_at`

// ListByDocument lista los eventos de un documento, más antiguos primero.
func (r *DocumentEventRepo) ListByDocument(documentID string, docType entity.DocType) ([]*entity.DocumentEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM document_events WHERE document_id = $1 AND document_type = $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, documentID, string(docType))
	if err != nil {
		return nil, fmt.Errorf("list document events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListPaymentEventsSince devuelve los payment_received creados después de
// since (entrada de la reconciliación periódica de status).
func (r *DocumentEventRepo) ListPaymentEventsSince(since time.Time) ([]*entity.DocumentEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM document_events WHERE event_type = $1 AND created_at > $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, entity.EventPaymentReceived, since)
	if err != nil {
		return nil, fmt.Errorf("list payment events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*entity.DocumentEvent, error) {
	var list []*entity.DocumentEvent
	for rows.Next() {
		var e entity.DocumentEvent
		var docType string
		if err := rows.Scan(&e.ID, &e.UserID, &e.DocumentID, &docType, &e.DocumentNumber, &e.EventType,
			&e.ClientEmail, &e.ClientName, &e.ClientIP, &e.UserAgent,
			&e.Amount, &e.PaymentMethod, &e.PaymentReference,
			&e.TrackingToken, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.DocumentType = entity.DocType(docType)
		list = append(list, &e)
	}
	return list, rows.Err()
}
