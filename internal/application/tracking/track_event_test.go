package tracking_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-pro/internal/application/dto"
	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El fake de documentos respeta el orden de sondeo fijo de
// entity.AllDocTypes: si un token apareciera en dos tablas, gana la primera.
// ──────────────────────────────────────────────────────────────────────────────

type fakeDocRepo struct {
	docs        map[string]*entity.Document
	statusCalls int
}

func newFakeDocRepo(docs ...*entity.Document) *fakeDocRepo {
	r := &fakeDocRepo{docs: map[string]*entity.Document{}}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *fakeDocRepo) Create(_ entity.DocType, doc *entity.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) GetByID(docType entity.DocType, id string) (*entity.Document, error) {
	d := r.docs[id]
	if d == nil || d.DocType != docType {
		return nil, nil
	}
	copia := *d
	return &copia, nil
}

func (r *fakeDocRepo) List(entity.DocType, string, int, int) ([]*entity.Document, error) {
	return nil, nil
}

func (r *fakeDocRepo) GetByTrackingToken(token string) (*entity.Document, entity.DocType, error) {
	// Sondeo en el orden fijo: primera tabla con el token gana.
	for _, dt := range entity.AllDocTypes {
		for _, d := range r.docs {
			if d.DocType == dt && d.TrackingToken == token {
				copia := *d
				return &copia, dt, nil
			}
		}
	}
	return nil, "", nil
}

func (r *fakeDocRepo) UpdateStatus(_ entity.DocType, id, newStatus string) error {
	r.statusCalls++
	r.docs[id].Status = newStatus
	return nil
}

func (r *fakeDocRepo) UpdateTracking(_ entity.DocType, id, token, newStatus string) error {
	r.docs[id].TrackingToken = token
	r.docs[id].Status = newStatus
	return nil
}

func (r *fakeDocRepo) UpdateSignNowID(entity.DocType, string, string, string) error { return nil }
func (r *fakeDocRepo) UpdateSigned(entity.DocType, string, *entity.Document) error  { return nil }
func (r *fakeDocRepo) CreateItems([]*entity.DocumentItem) error                     { return nil }
func (r *fakeDocRepo) GetItemsByDocumentID(string) ([]*entity.DocumentItem, error) {
	return nil, nil
}

type fakeEventRepo struct {
	events []*entity.DocumentEvent
}

func (r *fakeEventRepo) Create(ev *entity.DocumentEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *fakeEventRepo) ListByDocument(documentID string, docType entity.DocType) ([]*entity.DocumentEvent, error) {
	var out []*entity.DocumentEvent
	for _, ev := range r.events {
		if ev.DocumentID == documentID && ev.DocumentType == docType {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListPaymentEventsSince(since time.Time) ([]*entity.DocumentEvent, error) {
	var out []*entity.DocumentEvent
	for _, ev := range r.events {
		if ev.EventType == entity.EventPaymentReceived && ev.CreatedAt.After(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeClientRepo struct{ client *entity.Client }

func (r *fakeClientRepo) Create(*entity.Client) error { return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	if r.client != nil && r.client.ID == id {
		return r.client, nil
	}
	return nil, nil
}
func (r *fakeClientRepo) ListByCompany(string, int, int) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(*entity.Client) error                              { return nil }

type fakeEnqueuer struct {
	enqueued []tracking.EventNotification
}

func (e *fakeEnqueuer) EnqueueEventNotification(_ context.Context, n tracking.EventNotification) error {
	e.enqueued = append(e.enqueued, n)
	return nil
}

// ── fixture ───────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func sentInvoice() *entity.Document {
	return &entity.Document{
		ID:            "inv-1",
		CompanyID:     "co-1",
		UserID:        "u-1",
		ClientID:      "cl-1",
		DocType:       entity.DocTypeInvoice,
		Number:        "INV-001",
		Status:        "sent",
		Currency:      "USD",
		GrandTotal:    decimal.NewFromInt(500),
		TrackingToken: "tok-abc",
	}
}

func buildTracking(docs ...*entity.Document) (*tracking.UseCase, *fakeDocRepo, *fakeEventRepo, *fakeEnqueuer) {
	docRepo := newFakeDocRepo(docs...)
	eventRepo := &fakeEventRepo{}
	clientRepo := &fakeClientRepo{client: &entity.Client{ID: "cl-1", Name: "ACME", Email: "acme@test"}}
	enqueuer := &fakeEnqueuer{}
	uc := tracking.NewUseCase(docRepo, eventRepo, clientRepo, enqueuer, testLogger())
	return uc, docRepo, eventRepo, enqueuer
}

// ── Validación de entrada ─────────────────────────────────────────────────────

func TestTrack_EntradaInvalida(t *testing.T) {
	uc, _, eventRepo, _ := buildTracking(sentInvoice())

	casos := []dto.TrackEventRequest{
		{Token: "", EventType: "viewed"},
		{Token: "tok-abc", EventType: ""},
		{Token: "tok-abc", EventType: "self_destructed"}, // fuera del conjunto cerrado
	}
	for _, in := range casos {
		_, err := uc.Track(context.Background(), in, "1.2.3.4", "UA")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, eventRepo.events, "la validación rechaza antes de cualquier escritura")
}

func TestTrack_TokenDesconocidoCeroEscrituras(t *testing.T) {
	uc, docRepo, eventRepo, enqueuer := buildTracking(sentInvoice())

	_, err := uc.Track(context.Background(), dto.TrackEventRequest{Token: "tok-nope", EventType: "viewed"}, "", "")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	assert.Empty(t, eventRepo.events)
	assert.Empty(t, enqueuer.enqueued)
	assert.Equal(t, 0, docRepo.statusCalls)
}

// ── Registro de eventos ───────────────────────────────────────────────────────

func TestTrack_ViewedRegistraSinMutarStatus(t *testing.T) {
	uc, docRepo, eventRepo, enqueuer := buildTracking(sentInvoice())

	result, err := uc.Track(context.Background(), dto.TrackEventRequest{Token: "tok-abc", EventType: "viewed"}, "1.2.3.4", "Mozilla")
	require.NoError(t, err)

	assert.True(t, result.Pixel, "viewed responde con el pixel GIF")
	require.Len(t, eventRepo.events, 1)
	ev := eventRepo.events[0]
	assert.Equal(t, "viewed", ev.EventType)
	assert.Equal(t, "inv-1", ev.DocumentID)
	assert.Equal(t, "ACME", ev.ClientName, "contexto del cliente denormalizado en la fila")
	assert.Equal(t, "1.2.3.4", ev.ClientIP)
	assert.Equal(t, "sent", docRepo.docs["inv-1"].Status, "viewed nunca muta el status")
	require.Len(t, enqueuer.enqueued, 1)
	assert.Equal(t, "u-1", enqueuer.enqueued[0].OwnerUserID)
}

// TestTrack_SinDeduplicacion: dos beacons viewed del mismo token son dos
// filas; el log es append-only sin deduplicación.
func TestTrack_SinDeduplicacion(t *testing.T) {
	uc, _, eventRepo, _ := buildTracking(sentInvoice())
	in := dto.TrackEventRequest{Token: "tok-abc", EventType: "viewed"}

	_, err := uc.Track(context.Background(), in, "", "")
	require.NoError(t, err)
	_, err = uc.Track(context.Background(), in, "", "")
	require.NoError(t, err)

	assert.Len(t, eventRepo.events, 2)
}

func TestTrack_PaymentReceivedFlipAPaid(t *testing.T) {
	uc, docRepo, eventRepo, _ := buildTracking(sentInvoice())

	result, err := uc.Track(context.Background(), dto.TrackEventRequest{
		Token:     "tok-abc",
		EventType: "payment_received",
		PaymentInfo: &dto.TrackPaymentInfo{
			Amount: decimal.NewFromInt(500),
			Method: "card",
		},
	}, "", "")
	require.NoError(t, err)

	assert.False(t, result.Pixel, "payment_received responde JSON, no pixel")
	assert.Equal(t, "paid", docRepo.docs["inv-1"].Status)
	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, "card", eventRepo.events[0].PaymentMethod)
}

// TestTrack_PaymentReceivedSobrePagadoNoEscribeStatus: el flip es one-way;
// un segundo pago no produce transición pero el evento sí se registra.
func TestTrack_PaymentReceivedSobrePagadoNoEscribeStatus(t *testing.T) {
	doc := sentInvoice()
	doc.Status = "paid"
	uc, docRepo, eventRepo, _ := buildTracking(doc)

	_, err := uc.Track(context.Background(), dto.TrackEventRequest{Token: "tok-abc", EventType: "payment_received"}, "", "")
	require.NoError(t, err)

	assert.Equal(t, 0, docRepo.statusCalls, "paid + receive_payment es no-op sobre el status")
	assert.Len(t, eventRepo.events, 1, "el evento se registra igual: el log es la fuente de verdad")
}

func TestTrack_ClientInfoExplicitoPrevalece(t *testing.T) {
	uc, _, eventRepo, _ := buildTracking(sentInvoice())

	_, err := uc.Track(context.Background(), dto.TrackEventRequest{
		Token:      "tok-abc",
		EventType:  "receipt_viewed",
		ClientInfo: &dto.TrackClientInfo{IP: "9.9.9.9", UserAgent: "beacon-agent"},
	}, "1.2.3.4", "Mozilla")
	require.NoError(t, err)

	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, "9.9.9.9", eventRepo.events[0].ClientIP, "clientInfo del beacon prevalece sobre el request HTTP")
	assert.Equal(t, "beacon-agent", eventRepo.events[0].UserAgent)
}

// TestTrack_OrdenDeSondeoInvoiceGana: con el mismo token en invoice y
// estimate, el sondeo resuelve al invoice (primera tabla del orden fijo).
func TestTrack_OrdenDeSondeoInvoiceGana(t *testing.T) {
	estimate := &entity.Document{
		ID:            "est-1",
		CompanyID:     "co-1",
		UserID:        "u-1",
		DocType:       entity.DocTypeEstimate,
		Number:        "EST-001",
		Status:        "sent",
		Currency:      "USD",
		TrackingToken: "tok-abc",
	}
	uc, _, eventRepo, _ := buildTracking(sentInvoice(), estimate)

	_, err := uc.Track(context.Background(), dto.TrackEventRequest{Token: "tok-abc", EventType: "viewed"}, "", "")
	require.NoError(t, err)

	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, entity.DocTypeInvoice, eventRepo.events[0].DocumentType,
		"el orden de sondeo fijo resuelve la ambigüedad a favor de invoice")
	assert.Equal(t, "inv-1", eventRepo.events[0].DocumentID)
}

// ── ListEvents ────────────────────────────────────────────────────────────────

func TestListEvents_VerificaPertenencia(t *testing.T) {
	uc, _, eventRepo, _ := buildTracking(sentInvoice())
	eventRepo.events = append(eventRepo.events, &entity.DocumentEvent{
		ID: "ev-1", DocumentID: "inv-1", DocumentType: entity.DocTypeInvoice, EventType: "viewed",
	})

	events, err := uc.ListEvents(context.Background(), "co-1", entity.DocTypeInvoice, "inv-1")
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = uc.ListEvents(context.Background(), "co-otra", entity.DocTypeInvoice, "inv-1")
	assert.ErrorIs(t, err, domain.ErrForbidden, "el historial solo es visible para la empresa dueña")
}
