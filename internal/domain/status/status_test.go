package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-pro/internal/domain/status"
)

// ──────────────────────────────────────────────────────────────────────────────
// La tabla de transiciones es la única fuente de verdad del ciclo de vida:
// la sesión de firma y el tracking la consultan en lugar de comparar strings.
// Estos tests fijan las garantías del dominio, no la forma de la tabla.
// ──────────────────────────────────────────────────────────────────────────────

func TestNext_FlujoFirma(t *testing.T) {
	s, err := status.Next(status.Draft, status.RequestSignature)
	require.NoError(t, err)
	assert.Equal(t, status.PendingSignature, s, "draft + request_signature → pending_signature")

	s, err = status.Next(status.PendingSignature, status.Sign)
	require.NoError(t, err)
	assert.Equal(t, status.Signed, s, "pending_signature + sign → signed")
}

func TestNext_FlujoEnvio(t *testing.T) {
	s, err := status.Next(status.Draft, status.Send)
	require.NoError(t, err)
	assert.Equal(t, status.Sent, s, "draft + send → sent")

	s, err = status.Next(status.Sent, status.RequestSignature)
	require.NoError(t, err)
	assert.Equal(t, status.PendingSignature, s, "un documento enviado puede pasar a firma")
}

// TestNext_SoloReceivePaymentLlevaAPaid verifica que paid solo es alcanzable
// vía receive_payment, desde cualquiera de sus estados origen válidos.
func TestNext_SoloReceivePaymentLlevaAPaid(t *testing.T) {
	origenes := []status.Status{
		status.Sent, status.Pending, status.PendingSignature, status.Signed, status.Overdue,
	}
	for _, origen := range origenes {
		s, err := status.Next(origen, status.ReceivePayment)
		require.NoError(t, err, "receive_payment debe ser válido desde %s", origen)
		assert.Equal(t, status.Paid, s)
	}

	// Ningún otro evento produce paid.
	otros := []status.Event{status.Send, status.RequestSignature, status.Sign, status.MarkOverdue, status.Cancel}
	for _, ev := range otros {
		for st := range map[status.Status]bool{
			status.Draft: true, status.Sent: true, status.Pending: true,
			status.PendingSignature: true, status.Signed: true, status.Overdue: true,
		} {
			if next, err := status.Next(st, ev); err == nil {
				assert.NotEqual(t, status.Paid, next,
					"%s + %s no debe llevar a paid", st, ev)
			}
		}
	}
}

// TestNext_EstadosTerminales verifica que paid y cancelled no tienen salida.
func TestNext_EstadosTerminales(t *testing.T) {
	eventos := []status.Event{
		status.Send, status.RequestSignature, status.Sign,
		status.ReceivePayment, status.MarkOverdue, status.Cancel,
	}
	for _, ev := range eventos {
		_, err := status.Next(status.Paid, ev)
		assert.Error(t, err, "paid es terminal: %s debe fallar", ev)

		_, err = status.Next(status.Cancelled, ev)
		assert.Error(t, err, "cancelled es terminal: %s debe fallar", ev)
	}
}

func TestNext_DraftNoAceptaPago(t *testing.T) {
	_, err := status.Next(status.Draft, status.ReceivePayment)
	assert.Error(t, err, "un borrador nunca enviado no puede recibir pagos")
}

func TestNext_EstadoDesconocido(t *testing.T) {
	_, err := status.Next(status.Status("archived"), status.Send)
	assert.Error(t, err, "estados fuera de la tabla deben rechazarse")
}

// TestPendingYPendingSignatureSonDistintos fija que ambos estados coexisten:
// pending es el estado genérico legado, pending_signature el que escribe el
// flujo de firma. Ambos aceptan receive_payment, pero solo pending_signature
// acepta sign.
func TestPendingYPendingSignatureSonDistintos(t *testing.T) {
	assert.True(t, status.Can(status.Pending, status.ReceivePayment))
	assert.True(t, status.Can(status.PendingSignature, status.ReceivePayment))

	assert.True(t, status.Can(status.PendingSignature, status.Sign))
	assert.False(t, status.Can(status.Pending, status.Sign),
		"pending no es un estado de firma: sign debe ser inválido")
}

func TestValid(t *testing.T) {
	assert.True(t, status.Draft.Valid())
	assert.True(t, status.Paid.Valid())
	assert.False(t, status.Status("unknown").Valid())
	assert.False(t, status.Status("").Valid())
}

func TestCan(t *testing.T) {
	assert.True(t, status.Can(status.Draft, status.Send))
	assert.False(t, status.Can(status.Paid, status.ReceivePayment), "paid + receive_payment es no-op, no transición")
}
