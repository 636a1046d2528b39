package repository

import "github.com/tu-usuario/negocio-pro/internal/domain/entity"

// SignatureRepository persiste el registro de auditoría de firmas.
type SignatureRepository interface {
	Create(sig *entity.Signature) error
	// ExistsForDocument reporta si ya hay registro de firma para el
	// documento (guarda de idempotencia de la finalización).
	ExistsForDocument(documentID string, docType entity.DocType) (bool, error)
}
