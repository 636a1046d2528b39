// Package signing implementa la sesión de firma de un documento:
// loading → ready/signing → completed | error. Orquesta las llamadas al
// proveedor externo y persiste el resultado sobre el documento dueño.
package signing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/negocio-pro/internal/application/documents"
	"github.com/tu-usuario/negocio-pro/internal/application/dto"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/repository"
	"github.com/tu-usuario/negocio-pro/internal/domain/status"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// Estados de la sesión de firma (locales a la sesión, no persistidos).
const (
	StateLoading   = "loading"
	StateReady     = "ready"
	StateSigning   = "signing"
	StateCompleted = "completed"
	StateError     = "error"
)

// SessionUseCase gestiona la sesión de firma. Garantías:
//   - A lo sumo un upload externo por documento: reabrir la sesión de un
//     documento ya en pending_signature reutiliza el ID externo guardado.
//   - La finalización es efectiva una sola vez: exactamente una fila de
//     auditoría Signature y una actualización del documento.
//
// Los errores del proveedor no se propagan como errores Go: la sesión
// transiciona a "error" con mensaje legible y el reintento del usuario
// vuelve a entrar por Start (sin backoff, decisión de la capa de UI).
type SessionUseCase struct {
	docRepo     repository.DocumentRepository
	sigRepo     repository.SignatureRepository
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
	provider    SignatureProvider
	pdfGen      DocumentPDFGenerator
	archive     ArchiveStorage
	log         *logger.Logger
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	docRepo repository.DocumentRepository,
	sigRepo repository.SignatureRepository,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	provider SignatureProvider,
	pdfGen DocumentPDFGenerator,
	archive ArchiveStorage,
	log *logger.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		docRepo:     docRepo,
		sigRepo:     sigRepo,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		provider:    provider,
		pdfGen:      pdfGen,
		archive:     archive,
		log:         log,
	}
}

// Start entra a la sesión en loading y resuelve un artefacto firmable.
// Dos caminos:
//
//	(a) el documento ya tiene signnow_document_id: se consulta el proveedor;
//	    "completed" corta directo a la finalización idempotente, cualquier
//	    otro estado re-adjunta la sesión existente (ready) SIN re-subir;
//	(b) sin sesión previa: genera el PDF, sube al proveedor con email/nombre
//	    del usuario autenticado y persiste el ID externo + pending_signature.
func (uc *SessionUseCase) Start(ctx context.Context, companyID, userID string, docType entity.DocType, docID string) (*dto.SigningSessionResponse, error) {
	doc, err := uc.docRepo.GetByID(docType, docID)
	if err != nil || doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// (a) sesión existente: nunca re-subir, solo re-adjuntar.
	if doc.SignNowDocumentID != "" {
		provStatus, err := uc.provider.CheckStatus(ctx, doc.SignNowDocumentID)
		if err != nil {
			return uc.errorState(doc, "consultar estado en el proveedor de firma: "+err.Error()), nil
		}
		if provStatus == ProviderStatusCompleted {
			if err := uc.finalize(ctx, doc); err != nil {
				return uc.errorState(doc, err.Error()), nil
			}
			return uc.sessionResponse(doc, StateCompleted), nil
		}
		return uc.sessionResponse(doc, StateReady), nil
	}

	// (b) sesión nueva: PDF → upload → persistir ID externo.
	next, err := status.Next(status.Status(doc.Status), status.RequestSignature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil || user == nil {
		return nil, domain.ErrUserNotFound
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	var client *entity.Client
	if doc.ClientID != "" {
		client, _ = uc.clientRepo.GetByID(doc.ClientID)
	}
	items, err := uc.docRepo.GetItemsByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}

	pdf, err := uc.pdfGen.Generate(ctx, documents.BuildRender(doc, company, client, items))
	if err != nil {
		return uc.errorState(doc, "generar PDF del documento: "+err.Error()), nil
	}

	filename := fmt.Sprintf("%s_%s.pdf", doc.DocType, doc.Number)
	provID, err := uc.provider.Upload(ctx, pdf, filename, user.Email, user.Name)
	if err != nil {
		return uc.errorState(doc, "subir documento al proveedor de firma: "+err.Error()), nil
	}

	if err := uc.docRepo.UpdateSignNowID(docType, doc.ID, provID, string(next)); err != nil {
		return nil, err
	}
	doc.SignNowDocumentID = provID
	doc.Status = string(next)

	uc.log.Info().
		Str("document_id", doc.ID).
		Str("doc_type", string(docType)).
		Str("signnow_document_id", provID).
		Msg("documento subido al proveedor de firma")

	return uc.sessionResponse(doc, StateReady), nil
}

// Complete atiende tanto la acción explícita "Complete Signature" como el
// postMessage del frame embebido: misma transición, misma idempotencia.
// Re-consulta el proveedor y solo con "completed" confirmado ejecuta la
// finalización; si no, la sesión permanece en signing sin escribir nada.
func (uc *SessionUseCase) Complete(ctx context.Context, companyID string, docType entity.DocType, docID string) (*dto.SigningSessionResponse, error) {
	doc, err := uc.docRepo.GetByID(docType, docID)
	if err != nil || doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if doc.SignNowDocumentID == "" {
		return nil, fmt.Errorf("%w: el documento no tiene sesión de firma", domain.ErrConflict)
	}

	provStatus, err := uc.provider.CheckStatus(ctx, doc.SignNowDocumentID)
	if err != nil {
		return uc.errorState(doc, "consultar estado en el proveedor de firma: "+err.Error()), nil
	}
	if provStatus != ProviderStatusCompleted {
		// Sin escritura alguna: la sesión sigue en signing.
		return uc.sessionResponse(doc, StateSigning), nil
	}
	if err := uc.finalize(ctx, doc); err != nil {
		return uc.errorState(doc, err.Error()), nil
	}
	return uc.sessionResponse(doc, StateCompleted), nil
}

// finalize ejecuta el paso lógico único de finalización: descargar el
// artefacto firmado, actualizar el documento (status, signed_at,
// signed_document_url) e insertar UNA fila de auditoría Signature.
// Idempotente: si el documento ya está firmado no escribe nada. Los tres
// writes son secuenciales y no atómicos (gap conocido y aceptado).
func (uc *SessionUseCase) finalize(ctx context.Context, doc *entity.Document) error {
	if doc.SignedAt != nil {
		return nil // ya finalizado: corto idempotente, cero escrituras
	}

	downloadURL, err := uc.provider.DownloadSigned(ctx, doc.SignNowDocumentID)
	if err != nil {
		return fmt.Errorf("descargar documento firmado: %w", err)
	}

	// Archivar en almacenamiento propio; si falla se persiste la URL del
	// proveedor (la finalización nunca falla por el archivo).
	signedURL := downloadURL
	objectKey := fmt.Sprintf("%s/%s.pdf", doc.DocType, doc.ID)
	if archivedURL, aerr := uc.archive.ArchiveFromURL(ctx, objectKey, downloadURL); aerr == nil {
		signedURL = archivedURL
	} else {
		uc.log.Warn().Err(aerr).
			Str("document_id", doc.ID).
			Msg("no se pudo archivar el documento firmado; se usa la URL del proveedor")
	}

	now := time.Now()
	newStatus := doc.Status
	if next, serr := status.Next(status.Status(doc.Status), status.Sign); serr == nil {
		newStatus = string(next)
	}
	doc.Status = newStatus
	doc.SignedAt = &now
	doc.SignedDocumentURL = signedURL
	doc.UpdatedAt = now
	if err := uc.docRepo.UpdateSigned(doc.DocType, doc.ID, doc); err != nil {
		return fmt.Errorf("actualizar documento firmado: %w", err)
	}

	exists, err := uc.sigRepo.ExistsForDocument(doc.ID, doc.DocType)
	if err != nil {
		return fmt.Errorf("verificar auditoría de firma: %w", err)
	}
	if !exists {
		sig := &entity.Signature{
			ID:                uuid.New().String(),
			DocumentID:        doc.ID,
			DocumentType:      doc.DocType,
			SignNowDocumentID: doc.SignNowDocumentID,
			Status:            ProviderStatusCompleted,
			SignedAt:          now,
		}
		if err := uc.sigRepo.Create(sig); err != nil {
			return fmt.Errorf("insertar auditoría de firma: %w", err)
		}
	}

	uc.log.Info().
		Str("document_id", doc.ID).
		Str("doc_type", string(doc.DocType)).
		Msg("firma completada")
	return nil
}

func (uc *SessionUseCase) sessionResponse(doc *entity.Document, state string) *dto.SigningSessionResponse {
	resp := &dto.SigningSessionResponse{
		State:             state,
		DocumentID:        doc.ID,
		DocType:           string(doc.DocType),
		SignNowDocumentID: doc.SignNowDocumentID,
		SignedAt:          doc.SignedAt,
		SignedDocumentURL: doc.SignedDocumentURL,
	}
	if state == StateReady || state == StateSigning {
		resp.EmbedURL = uc.provider.EmbedURL(doc.SignNowDocumentID)
	}
	return resp
}

func (uc *SessionUseCase) errorState(doc *entity.Document, msg string) *dto.SigningSessionResponse {
	uc.log.Error().
		Str("document_id", doc.ID).
		Str("doc_type", string(doc.DocType)).
		Str("detail", msg).
		Msg("sesión de firma en error")
	return &dto.SigningSessionResponse{
		State:      StateError,
		DocumentID: doc.ID,
		DocType:    string(doc.DocType),
		Error:      msg,
	}
}
