package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
)

// Verificar en tiempo de compilación que ResendMailer implementa Mailer.
var _ tracking.Mailer = (*ResendMailer)(nil)

const resendEmailsURL = "https://api.resend.com/emails"

// ResendMailer adaptador que implementa Mailer usando la API REST de Resend.
// Usa net/http de la librería estándar de Go; no requiere SDK oficial.
type ResendMailer struct {
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewResendMailer construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send envía un correo HTML a un destinatario.
func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	if m.apiKey == "" {
		return fmt.Errorf("email: RESEND_API_KEY no configurado")
	}

	payload := resendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("email: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEmailsURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("email: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("email: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("email: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp resendErrorResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Message != "" {
			return fmt.Errorf("email: Resend error (%s): %s", errResp.Name, errResp.Message)
		}
		return fmt.Errorf("email: Resend HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	return nil
}
