package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/repository"
)

var _ repository.SignatureRepository = (*SignatureRepo)(nil)

// SignatureRepo implementación de SignatureRepository (usable con pool o tx).
type SignatureRepo struct {
	q Querier
}

// NewSignatureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSignatureRepository(q Querier) *SignatureRepo {
	return &SignatureRepo{q: q}
}

// Create persiste el registro de auditoría de la firma.
func (r *SignatureRepo) Create(sig *entity.Signature) error {
	if sig.ID == "" {
		sig.ID = uuid.New().String()
	}
	query := `
		INSERT INTO signatures (id, document_id, document_type, signnow_document_id, status, signed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		sig.ID, sig.DocumentID, string(sig.DocumentType), sig.SignNowDocumentID, sig.Status, sig.SignedAt,
	)
	if err != nil {
		return fmt.Errorf("insert signature: %w", err)
	}
	return nil
}

// ExistsForDocument reporta si ya existe auditoría de firma para el documento.
func (r *SignatureRepo) ExistsForDocument(documentID string, docType entity.DocType) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM signatures WHERE document_id = $1 AND document_type = $2)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, documentID, string(docType)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check signature exists: %w", err)
	}
	return exists, nil
}
