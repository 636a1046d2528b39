package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	apphttp "github.com/tu-usuario/negocio-pro/internal/interfaces/http"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para montar el endpoint público de tracking sobre app.Test.
// ──────────────────────────────────────────────────────────────────────────────

type trackDocRepo struct {
	doc *entity.Document
}

func (r *trackDocRepo) Create(entity.DocType, *entity.Document) error { return nil }
func (r *trackDocRepo) GetByID(docType entity.DocType, id string) (*entity.Document, error) {
	if r.doc != nil && r.doc.ID == id && r.doc.DocType == docType {
		return r.doc, nil
	}
	return nil, nil
}
func (r *trackDocRepo) List(entity.DocType, string, int, int) ([]*entity.Document, error) {
	return nil, nil
}
func (r *trackDocRepo) GetByTrackingToken(token string) (*entity.Document, entity.DocType, error) {
	if r.doc != nil && r.doc.TrackingToken == token {
		return r.doc, r.doc.DocType, nil
	}
	return nil, "", nil
}
func (r *trackDocRepo) UpdateStatus(_ entity.DocType, _, newStatus string) error {
	r.doc.Status = newStatus
	return nil
}
func (r *trackDocRepo) UpdateTracking(entity.DocType, string, string, string) error { return nil }
func (r *trackDocRepo) UpdateSignNowID(entity.DocType, string, string, string) error { return nil }
func (r *trackDocRepo) UpdateSigned(entity.DocType, string, *entity.Document) error  { return nil }
func (r *trackDocRepo) CreateItems([]*entity.DocumentItem) error                     { return nil }
func (r *trackDocRepo) GetItemsByDocumentID(string) ([]*entity.DocumentItem, error) {
	return nil, nil
}

type trackEventRepo struct {
	events []*entity.DocumentEvent
}

func (r *trackEventRepo) Create(ev *entity.DocumentEvent) error {
	r.events = append(r.events, ev)
	return nil
}
func (r *trackEventRepo) ListByDocument(string, entity.DocType) ([]*entity.DocumentEvent, error) {
	return r.events, nil
}
func (r *trackEventRepo) ListPaymentEventsSince(time.Time) ([]*entity.DocumentEvent, error) {
	return nil, nil
}

type trackClientRepo struct{}

func (trackClientRepo) Create(*entity.Client) error                              { return nil }
func (trackClientRepo) GetByID(string) (*entity.Client, error)                   { return nil, nil }
func (trackClientRepo) ListByCompany(string, int, int) ([]*entity.Client, error) { return nil, nil }
func (trackClientRepo) Update(*entity.Client) error                              { return nil }

type trackEnqueuer struct{}

func (trackEnqueuer) EnqueueEventNotification(context.Context, tracking.EventNotification) error {
	return nil
}

func buildTrackingApp(doc *entity.Document) (*fiber.App, *trackEventRepo) {
	docRepo := &trackDocRepo{doc: doc}
	eventRepo := &trackEventRepo{}
	uc := tracking.NewUseCase(docRepo, eventRepo, trackClientRepo{}, trackEnqueuer{},
		logger.New(logger.Config{Env: "production", Level: "error"}))

	app := fiber.New()
	handler := apphttp.NewTrackingHandler(uc)
	app.Post("/api/track/document-event", handler.TrackEvent)
	return app, eventRepo
}

func trackedInvoice() *entity.Document {
	return &entity.Document{
		ID:            "inv-1",
		CompanyID:     "co-1",
		UserID:        "u-1",
		DocType:       entity.DocTypeInvoice,
		Number:        "INV-001",
		Status:        "sent",
		Currency:      "USD",
		GrandTotal:    decimal.NewFromInt(500),
		TrackingToken: "tok-abc",
	}
}

func postTrack(t *testing.T, app *fiber.App, payload map[string]any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/track/document-event", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del endpoint público
// ──────────────────────────────────────────────────────────────────────────────

// El beacon viewed responde con el pixel GIF 1x1, no con JSON.
func TestTrackEvent_ViewedRespondePixel(t *testing.T) {
	app, eventRepo := buildTrackingApp(trackedInvoice())

	resp := postTrack(t, app, map[string]any{"token": "tok-abc", "eventType": "viewed"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get("Content-Type"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, byte('G'), body[0], "la respuesta debe ser un GIF (magic bytes GIF89a)")
	assert.Len(t, eventRepo.events, 1)
}

// Los eventos no-pixel responden JSON {"success":true}.
func TestTrackEvent_PaymentRespondeJSON(t *testing.T) {
	app, _ := buildTrackingApp(trackedInvoice())

	resp := postTrack(t, app, map[string]any{
		"token":      "tok-abc",
		"eventType":  "payment_link_clicked",
		"clientInfo": map[string]any{"ip": "9.9.9.9", "userAgent": "beacon"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
}

func TestTrackEvent_TokenFaltante_Retorna400(t *testing.T) {
	app, eventRepo := buildTrackingApp(trackedInvoice())

	resp := postTrack(t, app, map[string]any{"eventType": "viewed"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "VALIDATION")
	assert.Empty(t, eventRepo.events, "entrada inválida no registra eventos")
}

func TestTrackEvent_EventTypeDesconocido_Retorna400(t *testing.T) {
	app, _ := buildTrackingApp(trackedInvoice())

	resp := postTrack(t, app, map[string]any{"token": "tok-abc", "eventType": "exploded"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTrackEvent_TokenDesconocido_Retorna404(t *testing.T) {
	app, eventRepo := buildTrackingApp(trackedInvoice())

	resp := postTrack(t, app, map[string]any{"token": "tok-nope", "eventType": "viewed"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_FOUND")
	assert.Empty(t, eventRepo.events, "token desconocido no deja rastro")
}

// payment_received a través del endpoint completo: evento + flip de status.
func TestTrackEvent_PaymentReceivedFlipAPaid(t *testing.T) {
	doc := trackedInvoice()
	app, eventRepo := buildTrackingApp(doc)

	resp := postTrack(t, app, map[string]any{
		"token":     "tok-abc",
		"eventType": "payment_received",
		"paymentInfo": map[string]any{
			"amount": "500",
			"method": "card",
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", doc.Status, "el pago voltea el documento a paid")
	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, "payment_received", eventRepo.events[0].EventType)
}
