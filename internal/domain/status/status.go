// Package status define la máquina de estados de los documentos con una
// única tabla de transiciones (estado actual × evento → estado siguiente),
// compartida por la sesión de firma y por el actualizador de estado del
// tracking. Sustituye las comparaciones ad-hoc de strings dispersas.
package status

import "fmt"

// Status es el estado del ciclo de vida de un documento.
type Status string

const (
	Draft   Status = "draft"
	Sent    Status = "sent"
	// Pending y PendingSignature se mantienen como estados distintos:
	// el flujo de firma escribe solo pending_signature; pending queda como
	// estado genérico legado que sigue siendo origen válido de receive_payment.
	Pending          Status = "pending"
	PendingSignature Status = "pending_signature"
	Signed           Status = "signed"
	Paid             Status = "paid"
	Overdue          Status = "overdue"
	Cancelled        Status = "cancelled"
)

// Event es un evento que puede provocar una transición de estado.
type Event string

const (
	Send             Event = "send"
	RequestSignature Event = "request_signature"
	Sign             Event = "sign"
	// ReceivePayment es el ÚNICO evento que lleva a paid; ningún otro
	// evento de tracking muta el estado. La transición es one-way.
	ReceivePayment Event = "receive_payment"
	MarkOverdue    Event = "mark_overdue"
	Cancel         Event = "cancel"
)

// transitions es la tabla única de transiciones.
var transitions = map[Status]map[Event]Status{
	Draft: {
		Send:             Sent,
		RequestSignature: PendingSignature,
		Cancel:           Cancelled,
	},
	Sent: {
		RequestSignature: PendingSignature,
		ReceivePayment:   Paid,
		MarkOverdue:      Overdue,
		Cancel:           Cancelled,
	},
	Pending: {
		RequestSignature: PendingSignature,
		ReceivePayment:   Paid,
		MarkOverdue:      Overdue,
		Cancel:           Cancelled,
	},
	PendingSignature: {
		Sign:           Signed,
		ReceivePayment: Paid,
		Cancel:         Cancelled,
	},
	Signed: {
		ReceivePayment: Paid,
		Cancel:         Cancelled,
	},
	Overdue: {
		ReceivePayment: Paid,
		Cancel:         Cancelled,
	},
	// Paid y Cancelled son terminales: sin transiciones de salida.
	Paid:      {},
	Cancelled: {},
}

// Valid reporta si s pertenece al conjunto de estados conocido.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Next devuelve el estado resultante de aplicar ev sobre current.
// Retorna error si la transición no está en la tabla.
func Next(current Status, ev Event) (Status, error) {
	byEvent, ok := transitions[current]
	if !ok {
		return "", fmt.Errorf("estado desconocido: %q", current)
	}
	next, ok := byEvent[ev]
	if !ok {
		return "", fmt.Errorf("transición inválida: %s + %s", current, ev)
	}
	return next, nil
}

// Can reporta si la transición current + ev es válida.
func Can(current Status, ev Event) bool {
	_, err := Next(current, ev)
	return err == nil
}
