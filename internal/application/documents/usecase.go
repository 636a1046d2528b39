package documents

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/negocio-pro/internal/application/dto"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/billing"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/repository"
	"github.com/tu-usuario/negocio-pro/internal/domain/status"
	"github.com/tu-usuario/negocio-pro/pkg/money"
)

// UseCase casos de uso de documentos: crear con líneas, consultar, listar y
// enviar (asignación del token de tracking).
type UseCase struct {
	docRepo    repository.DocumentRepository
	clientRepo repository.ClientRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(docRepo repository.DocumentRepository, clientRepo repository.ClientRepository) *UseCase {
	return &UseCase{docRepo: docRepo, clientRepo: clientRepo}
}

// Create crea un documento en draft con sus líneas. Los totales se calculan
// en el servidor con el calculador de líneas (nunca se confía en totales del
// cliente).
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, docType entity.DocType, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if !docType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.ClientID == "" || in.Number == "" {
		return nil, domain.ErrInvalidInput
	}

	// Validar cliente y pertenencia a la empresa
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	docID := uuid.New().String()

	items := make([]*entity.DocumentItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, &entity.DocumentItem{
			ID:              uuid.New().String(),
			DocumentID:      docID,
			Name:            it.Name,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
		})
	}
	totals := billing.Compute(items)

	doc := &entity.Document{
		ID:            docID,
		CompanyID:     companyID,
		UserID:        userID,
		ClientID:      in.ClientID,
		DocType:       docType,
		Number:        in.Number,
		Title:         in.Title,
		Description:   in.Description,
		Status:        string(status.Draft),
		Currency:      currency,
		Subtotal:      totals.Subtotal,
		DiscountTotal: totals.DiscountTotal,
		TaxTotal:      totals.TaxTotal,
		GrandTotal:    totals.GrandTotal,
		Notes:         in.Notes,
		Terms:         in.Terms,
		IssueDate:     now,
		DueDate:       in.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.docRepo.Create(docType, doc); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := uc.docRepo.CreateItems(items); err != nil {
			return nil, err
		}
	}
	return uc.toResponse(doc, client.Name, items), nil
}

// Get obtiene un documento con sus líneas.
func (uc *UseCase) Get(ctx context.Context, companyID string, docType entity.DocType, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(docType, id)
	if err != nil || doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.docRepo.GetItemsByDocumentID(id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(doc.ClientID); client != nil {
		clientName = client.Name
	}
	return uc.toResponse(doc, clientName, items), nil
}

// List lista documentos de una variante por empresa.
func (uc *UseCase) List(ctx context.Context, companyID string, docType entity.DocType, page dto.PageRequest) ([]*dto.DocumentResponse, error) {
	if !docType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	docs, err := uc.docRepo.List(docType, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, uc.toResponse(d, "", nil))
	}
	return out, nil
}

// Send marca el documento como enviado y le asigna un token de tracking
// opaco (capability del endpoint público). Si el documento ya tiene token se
// reutiliza: reenviar no invalida los enlaces ya distribuidos.
func (uc *UseCase) Send(ctx context.Context, companyID string, docType entity.DocType, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(docType, id)
	if err != nil || doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	next, err := status.Next(status.Status(doc.Status), status.Send)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}

	token := doc.TrackingToken
	if token == "" {
		token, err = newTrackingToken()
		if err != nil {
			return nil, fmt.Errorf("generar token de tracking: %w", err)
		}
	}
	if err := uc.docRepo.UpdateTracking(docType, id, token, string(next)); err != nil {
		return nil, err
	}
	doc.TrackingToken = token
	doc.Status = string(next)
	doc.UpdatedAt = time.Now()
	return uc.toResponse(doc, "", nil), nil
}

// newTrackingToken genera 16 bytes aleatorios en hex (32 caracteres).
// El token es una capability: su posesión es el control de acceso del
// endpoint público de tracking.
func newTrackingToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (uc *UseCase) toResponse(doc *entity.Document, clientName string, items []*entity.DocumentItem) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:                doc.ID,
		DocType:           string(doc.DocType),
		CompanyID:         doc.CompanyID,
		ClientID:          doc.ClientID,
		ClientName:        clientName,
		Number:            doc.Number,
		Title:             doc.Title,
		Description:       doc.Description,
		Status:            doc.Status,
		Currency:          doc.Currency,
		Subtotal:          doc.Subtotal,
		DiscountTotal:     doc.DiscountTotal,
		TaxTotal:          doc.TaxTotal,
		GrandTotal:        doc.GrandTotal,
		GrandTotalDisplay: money.Format(doc.Currency, doc.GrandTotal),
		Notes:             doc.Notes,
		Terms:             doc.Terms,
		IssueDate:         doc.IssueDate,
		DueDate:           doc.DueDate,
		TrackingToken:     doc.TrackingToken,
		SignNowDocumentID: doc.SignNowDocumentID,
		SignedAt:          doc.SignedAt,
		SignedDocumentURL: doc.SignedDocumentURL,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.DocumentItemResponse{
			ID:              it.ID,
			Name:            it.Name,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
			Total:           it.Total,
			TotalDisplay:    money.Format(doc.Currency, it.Total),
		})
	}
	return resp
}
