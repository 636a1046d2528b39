// Package worker implementa los handlers asynq del proceso worker:
// notificaciones de eventos de documento y reconciliación periódica de estados.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
	"github.com/tu-usuario/negocio-pro/internal/domain/repository"
	"github.com/tu-usuario/negocio-pro/internal/domain/status"
	"github.com/tu-usuario/negocio-pro/internal/queue"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// Processor se engancha al loop de workers de asynq.
type Processor struct {
	userRepo   repository.UserRepository
	docRepo    repository.DocumentRepository
	eventRepo  repository.DocumentEventRepository
	mailer     tracking.Mailer
	adminEmail string
	// reconcileWindow es cuánto hacia atrás mira la reconciliación periódica.
	reconcileWindow time.Duration
	log             *logger.Logger
}

// NewProcessor construye el procesador de tareas.
func NewProcessor(
	userRepo repository.UserRepository,
	docRepo repository.DocumentRepository,
	eventRepo repository.DocumentEventRepository,
	mailer tracking.Mailer,
	adminEmail string,
	reconcileWindow time.Duration,
	log *logger.Logger,
) *Processor {
	return &Processor{
		userRepo:        userRepo,
		docRepo:         docRepo,
		eventRepo:       eventRepo,
		mailer:          mailer,
		adminEmail:      adminEmail,
		reconcileWindow: reconcileWindow,
		log:             log,
	}
}

// Handler registra los handlers de tareas.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TrackingNotifyTask, p.handleNotify)
	mux.HandleFunc(queue.TrackingReconcileTask, p.handleReconcile)
	return mux
}

// handleNotify envía los emails de un evento: al dueño del documento y a la
// dirección de administración. At-least-once: un reintento puede duplicar
// emails, lo cual es aceptable para notificaciones.
func (p *Processor) handleNotify(ctx context.Context, task *asynq.Task) error {
	var n tracking.EventNotification
	if err := json.Unmarshal(task.Payload(), &n); err != nil {
		return fmt.Errorf("worker: decodificar notificación: %w", err)
	}

	subject := tracking.NotificationSubject(n)
	body := tracking.NotificationBody(n)

	recipients := make([]string, 0, 2)
	owner, err := p.userRepo.GetByID(n.OwnerUserID)
	if err != nil {
		return fmt.Errorf("worker: obtener dueño del documento: %w", err)
	}
	if owner != nil && owner.Email != "" {
		recipients = append(recipients, owner.Email)
	}
	if p.adminEmail != "" {
		recipients = append(recipients, p.adminEmail)
	}

	for _, to := range recipients {
		if err := p.mailer.Send(ctx, to, subject, body); err != nil {
			return fmt.Errorf("worker: enviar email a %s: %w", to, err)
		}
	}

	p.log.Info().
		Str("event_type", n.EventType).
		Str("document_id", n.DocumentID).
		Int("recipients", len(recipients)).
		Msg("Notificación de evento enviada")
	return nil
}

// handleReconcile converge el estado de documentos con pagos registrados en la
// ventana reciente cuyo flip inline a "paid" falló. Idempotente: documentos ya
// pagados se saltan sin escribir.
func (p *Processor) handleReconcile(ctx context.Context, _ *asynq.Task) error {
	since := time.Now().UTC().Add(-p.reconcileWindow)
	events, err := p.eventRepo.ListPaymentEventsSince(since)
	if err != nil {
		return fmt.Errorf("worker: listar eventos de pago: %w", err)
	}

	var flipped int
	for _, ev := range events {
		doc, err := p.docRepo.GetByID(ev.DocumentType, ev.DocumentID)
		if err != nil {
			p.log.Error().Err(err).
				Str("document_id", ev.DocumentID).
				Msg("Reconciliación: error obteniendo documento")
			continue
		}
		if doc == nil {
			continue
		}
		next, err := status.Next(status.Status(doc.Status), status.ReceivePayment)
		if err != nil {
			// Ya pagado o en estado sin transición de pago: nada que converger.
			continue
		}
		if err := p.docRepo.UpdateStatus(ev.DocumentType, ev.DocumentID, string(next)); err != nil {
			p.log.Error().Err(err).
				Str("document_id", ev.DocumentID).
				Msg("Reconciliación: error actualizando status")
			continue
		}
		flipped++
	}

	p.log.Info().
		Int("events", len(events)).
		Int("flipped", flipped).
		Msg("Reconciliación de pagos completada")
	return nil
}
