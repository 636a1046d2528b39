package repository

import "github.com/tu-usuario/negocio-pro/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para documentos de
// cualquier variante. Las variantes viven en tablas separadas; la
// implementación resuelve la tabla a partir de DocType.
type DocumentRepository interface {
	Create(docType entity.DocType, doc *entity.Document) error
	GetByID(docType entity.DocType, id string) (*entity.Document, error)
	List(docType entity.DocType, companyID string, limit, offset int) ([]*entity.Document, error)
	// GetByTrackingToken sondea las tablas en el orden fijo de
	// entity.AllDocTypes (invoice primero) y devuelve el primer match.
	// (nil, "", nil) si ninguna tabla contiene el token.
	GetByTrackingToken(token string) (*entity.Document, entity.DocType, error)
	// UpdateStatus actualiza solo el campo status (y updated_at).
	UpdateStatus(docType entity.DocType, id, newStatus string) error
	// UpdateTracking persiste el tracking_token y el status asignados al enviar.
	UpdateTracking(docType entity.DocType, id, trackingToken, newStatus string) error
	// UpdateSignNowID persiste el ID externo del proveedor de firma junto
	// con el cambio de status a pending_signature.
	UpdateSignNowID(docType entity.DocType, id, signNowID, newStatus string) error
	// UpdateSigned persiste los tres campos de la finalización de firma.
	UpdateSigned(docType entity.DocType, id string, doc *entity.Document) error

	CreateItems(items []*entity.DocumentItem) error
	GetItemsByDocumentID(documentID string) ([]*entity.DocumentItem, error)
}
