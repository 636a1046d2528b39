// Package tracking implementa el endpoint público de seguimiento: resuelve
// el token opaco contra las tablas de documentos, apendiza el evento
// inmutable y dispara los efectos best-effort (status pagado, notificaciones).
package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/negocio-pro/internal/application/dto"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/repository"
	"github.com/tu-usuario/negocio-pro/internal/domain/status"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
	"github.com/tu-usuario/negocio-pro/pkg/money"
)

// Result resultado del tracking para la capa HTTP.
type Result struct {
	// Pixel indica que la respuesta es el GIF 1x1 (viewed, receipt_viewed)
	// en lugar de JSON.
	Pixel bool
}

// UseCase caso de uso del tracking público. Secuencia saga, sin transacción:
//
//  1. insertar el DocumentEvent (paso ancla, durable, nunca se revierte);
//  2. solo payment_received: flip one-way del status a paid, best-effort;
//  3. encolar la notificación (dueño + admin) para envío con reintentos.
//
// Un fallo en 2 o 3 se loguea y no falla el request: el log de eventos es
// el registro autoritativo. La reconciliación periódica converge el status.
type UseCase struct {
	docRepo    repository.DocumentRepository
	eventRepo  repository.DocumentEventRepository
	clientRepo repository.ClientRepository
	enqueuer   NotificationEnqueuer
	log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	docRepo repository.DocumentRepository,
	eventRepo repository.DocumentEventRepository,
	clientRepo repository.ClientRepository,
	enqueuer NotificationEnqueuer,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		docRepo:    docRepo,
		eventRepo:  eventRepo,
		clientRepo: clientRepo,
		enqueuer:   enqueuer,
		log:        log,
	}
}

// Track procesa un beacon. clientIP y userAgent vienen del request HTTP y se
// usan como fallback si el beacon no trae clientInfo explícito.
//
// Errores: ErrInvalidInput (token/eventType faltante o tipo desconocido, sin
// efectos), ErrTokenNotFound (ninguna tabla contiene el token, cero
// escrituras), o el error del insert del evento (paso ancla fallido).
func (uc *UseCase) Track(ctx context.Context, in dto.TrackEventRequest, clientIP, userAgent string) (*Result, error) {
	if in.Token == "" || in.EventType == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidEventType(in.EventType) {
		return nil, domain.ErrInvalidInput
	}

	// Sondeo lineal multi-tabla en orden fijo; invoice gana si el token
	// apareciera en más de una tabla.
	doc, docType, err := uc.docRepo.GetByTrackingToken(in.Token)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrTokenNotFound
	}

	// Contexto denormalizado del cliente del documento (best-effort).
	clientEmail, clientName := "", ""
	if doc.ClientID != "" {
		if client, cerr := uc.clientRepo.GetByID(doc.ClientID); cerr == nil && client != nil {
			clientEmail = client.Email
			clientName = client.Name
		}
	}
	if in.ClientInfo != nil {
		if in.ClientInfo.IP != "" {
			clientIP = in.ClientInfo.IP
		}
		if in.ClientInfo.UserAgent != "" {
			userAgent = in.ClientInfo.UserAgent
		}
	}

	event := &entity.DocumentEvent{
		ID:             uuid.New().String(),
		UserID:         doc.UserID,
		DocumentID:     doc.ID,
		DocumentType:   docType,
		DocumentNumber: doc.Number,
		EventType:      in.EventType,
		ClientEmail:    clientEmail,
		ClientName:     clientName,
		ClientIP:       clientIP,
		UserAgent:      userAgent,
		Amount:         doc.GrandTotal,
		TrackingToken:  in.Token,
		CreatedAt:      time.Now(),
	}
	if in.PaymentInfo != nil {
		if in.PaymentInfo.Amount.GreaterThan(decimal.Zero) {
			event.Amount = in.PaymentInfo.Amount
		}
		event.PaymentMethod = in.PaymentInfo.Method
		event.PaymentReference = in.PaymentInfo.Reference
	}

	// 1) Paso ancla: el evento se apendiza siempre, sin deduplicación (dos
	// "viewed" del mismo token son dos filas). Si esto falla, falla el request.
	if err := uc.eventRepo.Create(event); err != nil {
		return nil, err
	}

	// 2) Solo payment_received muta el status, one-way hacia paid.
	if in.EventType == entity.EventPaymentReceived {
		uc.applyPaid(doc, docType)
	}

	// 3) Fan-out de notificaciones fuera de banda.
	if err := uc.enqueuer.EnqueueEventNotification(ctx, EventNotification{
		EventType:      in.EventType,
		DocumentID:     doc.ID,
		DocumentType:   docType,
		DocumentNumber: doc.Number,
		OwnerUserID:    doc.UserID,
		ClientName:     clientName,
		Amount:         money.Format(doc.Currency, event.Amount),
	}); err != nil {
		uc.log.Warn().Err(err).
			Str("document_id", doc.ID).
			Str("event_type", in.EventType).
			Msg("no se pudo encolar la notificación del evento")
	}

	return &Result{Pixel: entity.IsPixelEvent(in.EventType)}, nil
}

// ListEvents devuelve el historial de eventos de un documento para su dueño
// (verifica pertenencia a la empresa antes de exponer el log).
func (uc *UseCase) ListEvents(ctx context.Context, companyID string, docType entity.DocType, docID string) ([]*dto.DocumentEventResponse, error) {
	doc, err := uc.docRepo.GetByID(docType, docID)
	if err != nil || doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	events, err := uc.eventRepo.ListByDocument(docID, docType)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, &dto.DocumentEventResponse{
			ID:               ev.ID,
			DocumentID:       ev.DocumentID,
			DocumentType:     string(ev.DocumentType),
			DocumentNumber:   ev.DocumentNumber,
			EventType:        ev.EventType,
			ClientEmail:      ev.ClientEmail,
			ClientName:       ev.ClientName,
			ClientIP:         ev.ClientIP,
			UserAgent:        ev.UserAgent,
			Amount:           ev.Amount,
			PaymentMethod:    ev.PaymentMethod,
			PaymentReference: ev.PaymentReference,
			CreatedAt:        ev.CreatedAt,
		})
	}
	return out, nil
}

// applyPaid intenta el flip a paid guardado por la tabla de transiciones.
// Best-effort: el fallo se loguea y el evento ya insertado permanece.
func (uc *UseCase) applyPaid(doc *entity.Document, docType entity.DocType) {
	current := status.Status(doc.Status)
	next, err := status.Next(current, status.ReceivePayment)
	if err != nil {
		// paid → paid u otro estado sin transición: nada que hacer.
		uc.log.Debug().
			Str("document_id", doc.ID).
			Str("status", doc.Status).
			Msg("payment_received sin transición de status aplicable")
		return
	}
	if err := uc.docRepo.UpdateStatus(docType, doc.ID, string(next)); err != nil {
		uc.log.Error().Err(err).
			Str("document_id", doc.ID).
			Msg("no se pudo marcar el documento como pagado; la reconciliación lo corregirá")
		return
	}
	doc.Status = string(next)
}
