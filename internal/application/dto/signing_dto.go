package dto

import "time"

// SigningSessionResponse estado de la sesión de firma tras start/complete.
type SigningSessionResponse struct {
	State             string     `json:"state"` // loading|ready|signing|completed|error
	DocumentID        string     `json:"document_id"`
	DocType           string     `json:"doc_type"`
	SignNowDocumentID string     `json:"signnow_document_id,omitempty"`
	EmbedURL          string     `json:"embed_url,omitempty"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`
	SignedDocumentURL string     `json:"signed_document_url,omitempty"`
	Error             string     `json:"error,omitempty"`
}
