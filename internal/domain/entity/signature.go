package entity

import "time"

// Signature es el registro de auditoría de una firma completada.
// Exactamente una fila por documento firmado (la finalización es idempotente).
type Signature struct {
	ID                string
	DocumentID        string
	DocumentType      DocType
	SignNowDocumentID string
	Status            string // "completed"
	SignedAt          time.Time
}
