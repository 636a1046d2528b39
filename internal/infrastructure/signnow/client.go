package signnow

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tu-usuario/negocio-pro/internal/application/signing"
	"github.com/tu-usuario/negocio-pro/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa SignatureProvider.
var _ signing.SignatureProvider = (*Client)(nil)

const (
	uploadPath   = "/v1/documents"
	invitePath   = "/v1/documents/%s/invite"
	statusPath   = "/v1/documents/%s"
	downloadPath = "/v1/documents/%s/download?type=merged"
)

// Client adaptador que implementa SignatureProvider usando la API REST de SignNow.
// Usa net/http de la librería estándar de Go; no requiere SDK oficial.
type Client struct {
	apiKey     string
	baseURL    string
	signURL    string
	httpClient *http.Client
}

// NewClient construye el adaptador a partir de la configuración SignNow.
// Si APIKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewClient(cfg config.SignNowConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		signURL: cfg.SignURL,
		httpClient: &http.Client{
			// La subida incluye el PDF en base64; timeout generoso.
			Timeout: 60 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo SignNow ────────────────────────────────

type uploadRequest struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
}

type uploadResponse struct {
	ID string `json:"id"`
}

type inviteRequest struct {
	To      []inviteSigner `json:"to"`
	From    string         `json:"from"`
	Subject string         `json:"subject"`
}

type inviteSigner struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Order int    `json:"order"`
}

type statusResponse struct {
	ID           string `json:"id"`
	FieldInvites []struct {
		Status string `json:"status"`
		Email  string `json:"email"`
	} `json:"field_invites"`
}

type downloadResponse struct {
	Link string `json:"link"`
}

type errorResponse struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Upload sube el PDF a SignNow, crea la invitación de firma para el firmante
// y devuelve el ID del documento remoto.
func (c *Client) Upload(ctx context.Context, pdf []byte, filename, signerEmail, signerName string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("signnow: SIGNNOW_API_KEY no configurado")
	}

	payload := uploadRequest{
		File:     base64.StdEncoding.EncodeToString(pdf),
		Filename: filename,
	}

	var up uploadResponse
	if err := c.doJSON(ctx, http.MethodPost, uploadPath, payload, &up); err != nil {
		return "", fmt.Errorf("signnow: subir documento: %w", err)
	}
	if up.ID == "" {
		return "", fmt.Errorf("signnow: respuesta de subida sin ID de documento")
	}

	invite := inviteRequest{
		To: []inviteSigner{
			{Email: signerEmail, Role: "Signer 1", Order: 1},
		},
		Subject: fmt.Sprintf("Documento para firma: %s", signerName),
	}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf(invitePath, up.ID), invite, nil); err != nil {
		return "", fmt.Errorf("signnow: crear invitación de firma: %w", err)
	}

	return up.ID, nil
}

// CheckStatus consulta el estado del documento remoto.
// Devuelve "completed" cuando todas las invitaciones de firma están fulfilled.
func (c *Client) CheckStatus(ctx context.Context, signNowDocumentID string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("signnow: SIGNNOW_API_KEY no configurado")
	}

	var st statusResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(statusPath, signNowDocumentID), nil, &st); err != nil {
		return "", fmt.Errorf("signnow: consultar estado: %w", err)
	}

	if len(st.FieldInvites) == 0 {
		return "pending", nil
	}
	for _, inv := range st.FieldInvites {
		if inv.Status != "fulfilled" {
			return inv.Status, nil
		}
	}
	return signing.ProviderStatusCompleted, nil
}

// DownloadSigned obtiene la URL temporal de descarga del PDF firmado (merged).
func (c *Client) DownloadSigned(ctx context.Context, signNowDocumentID string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("signnow: SIGNNOW_API_KEY no configurado")
	}

	var dl downloadResponse
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf(downloadPath, signNowDocumentID), nil, &dl); err != nil {
		return "", fmt.Errorf("signnow: obtener enlace de descarga: %w", err)
	}
	if dl.Link == "" {
		return "", fmt.Errorf("signnow: respuesta de descarga sin enlace")
	}
	return dl.Link, nil
}

// EmbedURL construye la URL del widget de firma embebido para el documento.
func (c *Client) EmbedURL(signNowDocumentID string) string {
	return fmt.Sprintf("%s/sign/%s?embedded=true&auto_close=true&decline_enabled=true",
		c.signURL, signNowDocumentID)
}

// doJSON ejecuta una llamada JSON autenticada contra la API de SignNow.
// out puede ser nil cuando la respuesta no interesa.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && len(errResp.Errors) > 0 {
			return fmt.Errorf("SignNow error (%d): %s", errResp.Errors[0].Code, errResp.Errors[0].Message)
		}
		return fmt.Errorf("SignNow HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("deserializar respuesta SignNow: %w", err)
	}
	return nil
}
