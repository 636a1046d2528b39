// Package queue define las tareas asíncronas del sistema y el encolador
// que las publica en Redis vía asynq.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
)

const (
	// TrackingNotifyTask se encola por cada evento de tracking que amerita
	// notificar al dueño del documento.
	TrackingNotifyTask = "tracking:notify"

	// TrackingReconcileTask se programa periódicamente para converger estados
	// de documentos con pagos registrados cuyo flip de estado inline falló.
	TrackingReconcileTask = "tracking:reconcile"
)

// Verificar en tiempo de compilación que Enqueuer implementa el puerto.
var _ tracking.NotificationEnqueuer = (*Enqueuer)(nil)

// Enqueuer publica tareas de notificación en la cola.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer construye el encolador sobre un cliente asynq.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueEventNotification encola la notificación de un evento de documento.
// La entrega es at-least-once: el handler del worker debe tolerar reintentos.
func (e *Enqueuer) EnqueueEventNotification(ctx context.Context, n tracking.EventNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("queue: serializar notificación: %w", err)
	}
	task := asynq.NewTask(TrackingNotifyTask, data)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("queue: encolar notificación: %w", err)
	}
	return nil
}

// NewReconcileTask construye la tarea periódica de reconciliación (sin payload).
func NewReconcileTask() *asynq.Task {
	return asynq.NewTask(TrackingReconcileTask, nil)
}
