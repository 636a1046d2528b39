package tracking

import (
	"fmt"

	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// Plantillas de notificación por tipo de evento. Dos emails por evento
// rastreado: uno al dueño del documento y uno a la dirección fija de
// administración, con el mismo asunto/cuerpo.

var eventSubjects = map[string]string{
	entity.EventViewed:             "Tu documento %s fue visto",
	entity.EventPaymentLinkClicked: "Hicieron clic en el enlace de pago de %s",
	entity.EventPaymentReceived:    "Pago recibido para %s",
	entity.EventReceiptViewed:      "El recibo de %s fue visto",
}

var eventBodies = map[string]string{
	entity.EventViewed:             "<p>El documento <strong>%s</strong>%s acaba de ser abierto.</p>",
	entity.EventPaymentLinkClicked: "<p>El enlace de pago del documento <strong>%s</strong>%s acaba de recibir un clic.</p>",
	entity.EventPaymentReceived:    "<p>Se registró un pago para el documento <strong>%s</strong>%s. El documento quedó marcado como pagado.</p>",
	entity.EventReceiptViewed:      "<p>El recibo del documento <strong>%s</strong>%s acaba de ser abierto.</p>",
}

// NotificationSubject devuelve el asunto del email según el tipo de evento.
func NotificationSubject(n EventNotification) string {
	tpl, ok := eventSubjects[n.EventType]
	if !ok {
		tpl = "Actividad en tu documento %s"
	}
	return fmt.Sprintf(tpl, n.DocumentNumber)
}

// NotificationBody devuelve el cuerpo HTML del email según el tipo de evento.
func NotificationBody(n EventNotification) string {
	tpl, ok := eventBodies[n.EventType]
	if !ok {
		tpl = "<p>Actividad registrada en el documento <strong>%s</strong>%s.</p>"
	}
	detail := ""
	if n.ClientName != "" {
		detail += " de " + n.ClientName
	}
	body := fmt.Sprintf(tpl, n.DocumentNumber, detail)
	if n.EventType == entity.EventPaymentReceived && n.Amount != "" {
		body += fmt.Sprintf("<p>Monto: <strong>%s</strong></p>", n.Amount)
	}
	return body
}
