package signing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-pro/internal/application/documents"
	"github.com/tu-usuario/negocio-pro/internal/application/signing"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Cuentan las llamadas que importan a las garantías:
// uploads al proveedor, inserts de auditoría y updates del documento.
// ──────────────────────────────────────────────────────────────────────────────

type fakeDocRepo struct {
	docs              map[string]*entity.Document
	items             map[string][]*entity.DocumentItem
	updateSignedCalls int
}

func newFakeDocRepo(docs ...*entity.Document) *fakeDocRepo {
	r := &fakeDocRepo{docs: map[string]*entity.Document{}, items: map[string][]*entity.DocumentItem{}}
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
	r.docs[id].Status = newStatus
	return nil
}

func (r *fakeDocRepo) UpdateTracking(_ entity.DocType, id, token, newStatus string) error {
	r.docs[id].TrackingToken = token
	r.docs[id].Status = newStatus
	return nil
}

func (r *fakeDocRepo) UpdateSignNowID(_ entity.DocType, id, signNowID, newStatus string) error {
	r.docs[id].SignNowDocumentID = signNowID
	r.docs[id].Status = newStatus
	return nil
}

func (r *fakeDocRepo) UpdateSigned(_ entity.DocType, id string, doc *entity.Document) error {
	r.updateSignedCalls++
	r.docs[id].Status = doc.Status
	r.docs[id].SignedAt = doc.SignedAt
	r.docs[id].SignedDocumentURL = doc.SignedDocumentURL
	return nil
}

func (r *fakeDocRepo) CreateItems(items []*entity.DocumentItem) error {
	for _, it := range items {
		r.items[it.DocumentID] = append(r.items[it.DocumentID], it)
	}
	return nil
}

func (r *fakeDocRepo) GetItemsByDocumentID(documentID string) ([]*entity.DocumentItem, error) {
	return r.items[documentID], nil
}

type fakeSigRepo struct {
	sigs []*entity.Signature
}

func (r *fakeSigRepo) Create(sig *entity.Signature) error {
	r.sigs = append(r.sigs, sig)
	return nil
}

func (r *fakeSigRepo) ExistsForDocument(documentID string, docType entity.DocType) (bool, error) {
	for _, s := range r.sigs {
		if s.DocumentID == documentID && s.DocumentType == docType {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct{ user *entity.User }

func (r *fakeUserRepo) Create(*entity.User) error { return nil }
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, nil
}
func (r *fakeUserRepo) FindByEmail(string) (*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) GetByEmailAndCompany(string, string) (*entity.User, error) {
	return nil, nil
}

type fakeCompanyRepo struct{ company *entity.Company }

func (r *fakeCompanyRepo) Create(*entity.Company) error { return nil }
func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	if r.company != nil && r.company.ID == id {
		return r.company, nil
	}
	return nil, nil
}
func (r *fakeCompanyRepo) List(int, int) ([]*entity.Company, error) { return nil, nil }
func (r *fakeCompanyRepo) Update(*entity.Company) error             { return nil }

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

type fakeProvider struct {
	uploadCalls int
	uploadErr   error
	status      string
	statusErr   error
	downloadURL string
}

func (p *fakeProvider) Upload(context.Context, []byte, string, string, string) (string, error) {
	p.uploadCalls++
	if p.uploadErr != nil {
		return "", p.uploadErr
	}
	return "sn-123", nil
}

func (p *fakeProvider) CheckStatus(context.Context, string) (string, error) {
	return p.status, p.statusErr
}

func (p *fakeProvider) DownloadSigned(context.Context, string) (string, error) {
	return p.downloadURL, nil
}

func (p *fakeProvider) EmbedURL(id string) string { return "https://sign.test/" + id }

type fakePDFGen struct{}

func (fakePDFGen) Generate(context.Context, *documents.DocumentRender) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type fakeArchive struct{ err error }

func (a *fakeArchive) ArchiveFromURL(_ context.Context, objectKey, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return "https://archive.test/" + objectKey, nil
}

// ── fixture ───────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func contractDraft() *entity.Document {
	return &entity.Document{
		ID:        "doc-1",
		CompanyID: "co-1",
		UserID:    "u-1",
		DocType:   entity.DocTypeContract,
		Number:    "CTR-001",
		Status:    "draft",
		Currency:  "USD",
		IssueDate: time.Now(),
	}
}

func buildSession(doc *entity.Document, provider *fakeProvider) (*signing.SessionUseCase, *fakeDocRepo, *fakeSigRepo) {
	docRepo := newFakeDocRepo(doc)
	sigRepo := &fakeSigRepo{}
	userRepo := &fakeUserRepo{user: &entity.User{ID: "u-1", Email: "owner@test", Name: "Owner"}}
	companyRepo := &fakeCompanyRepo{company: &entity.Company{ID: "co-1", Name: "Delta"}}
	clientRepo := &fakeClientRepo{}
	uc := signing.NewSessionUseCase(
		docRepo, sigRepo, userRepo, companyRepo, clientRepo,
		provider, fakePDFGen{}, &fakeArchive{}, testLogger(),
	)
	return uc, docRepo, sigRepo
}

// ── Start ─────────────────────────────────────────────────────────────────────

func TestStart_SesionNueva(t *testing.T) {
	provider := &fakeProvider{}
	uc, docRepo, _ := buildSession(contractDraft(), provider)

	resp, err := uc.Start(context.Background(), "co-1", "u-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, signing.StateReady, resp.State, "sesión nueva termina en ready")
	assert.Equal(t, "sn-123", resp.SignNowDocumentID)
	assert.Equal(t, "https://sign.test/sn-123", resp.EmbedURL)
	assert.Equal(t, 1, provider.uploadCalls)
	assert.Equal(t, "pending_signature", docRepo.docs["doc-1"].Status,
		"el documento queda en pending_signature tras subir al proveedor")
}

// TestStart_ReadjuntaSinResubir es la garantía central: dos Start sobre el
// mismo documento producen a lo sumo UN upload externo.
func TestStart_ReadjuntaSinResubir(t *testing.T) {
	provider := &fakeProvider{status: "pending"}
	uc, _, _ := buildSession(contractDraft(), provider)

	_, err := uc.Start(context.Background(), "co-1", "u-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	resp, err := uc.Start(context.Background(), "co-1", "u-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, signing.StateReady, resp.State, "la segunda sesión re-adjunta en ready")
	assert.Equal(t, 1, provider.uploadCalls, "a lo sumo un upload por documento")
}

func TestStart_ProveedorYaCompletadoFinaliza(t *testing.T) {
	doc := contractDraft()
	doc.Status = "pending_signature"
	doc.SignNowDocumentID = "sn-123"
	provider := &fakeProvider{status: "completed", downloadURL: "https://prov.test/signed.pdf"}
	uc, docRepo, sigRepo := buildSession(doc, provider)

	resp, err := uc.Start(context.Background(), "co-1", "u-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, signing.StateCompleted, resp.State)
	assert.Equal(t, "signed", docRepo.docs["doc-1"].Status)
	assert.Len(t, sigRepo.sigs, 1, "la finalización inserta exactamente una fila de auditoría")
	assert.Equal(t, 0, provider.uploadCalls, "finalizar nunca re-sube")
}

// TestStart_ErrorDeProveedorNoEsErrorGo: el fallo del proveedor llega como
// sesión en estado error con HTTP normal, no como error de la operación.
func TestStart_ErrorDeProveedorNoEsErrorGo(t *testing.T) {
	provider := &fakeProvider{uploadErr: errors.New("límite de API excedido")}
	uc, docRepo, _ := buildSession(contractDraft(), provider)

	resp, err := uc.Start(context.Background(), "co-1", "u-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err, "el fallo del proveedor no debe propagarse como error Go")

	assert.Equal(t, signing.StateError, resp.State)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, "draft", docRepo.docs["doc-1"].Status, "el documento no cambia de estado si el upload falla")
	assert.Empty(t, docRepo.docs["doc-1"].SignNowDocumentID)
}

func TestStart_DocumentoDeOtraEmpresa(t *testing.T) {
	uc, _, _ := buildSession(contractDraft(), &fakeProvider{})
	_, err := uc.Start(context.Background(), "co-otra", "u-1", entity.DocTypeContract, "doc-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStart_DocumentoInexistente(t *testing.T) {
	uc, _, _ := buildSession(contractDraft(), &fakeProvider{})
	_, err := uc.Start(context.Background(), "co-1", "u-1", entity.DocTypeContract, "doc-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Complete ──────────────────────────────────────────────────────────────────

func TestComplete_ProveedorNoCompletadoNoEscribe(t *testing.T) {
	doc := contractDraft()
	doc.Status = "pending_signature"
	doc.SignNowDocumentID = "sn-123"
	provider := &fakeProvider{status: "pending"}
	uc, docRepo, sigRepo := buildSession(doc, provider)

	resp, err := uc.Complete(context.Background(), "co-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, signing.StateSigning, resp.State, "sin confirmación del proveedor la sesión sigue en signing")
	assert.Equal(t, "pending_signature", docRepo.docs["doc-1"].Status)
	assert.Equal(t, 0, docRepo.updateSignedCalls, "cero escrituras sin confirmación")
	assert.Empty(t, sigRepo.sigs)
}

func TestComplete_Finaliza(t *testing.T) {
	doc := contractDraft()
	doc.Status = "pending_signature"
	doc.SignNowDocumentID = "sn-123"
	provider := &fakeProvider{status: "completed", downloadURL: "https://prov.test/signed.pdf"}
	uc, docRepo, sigRepo := buildSession(doc, provider)

	resp, err := uc.Complete(context.Background(), "co-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, signing.StateCompleted, resp.State)
	assert.Equal(t, "signed", docRepo.docs["doc-1"].Status)
	assert.NotNil(t, docRepo.docs["doc-1"].SignedAt)
	assert.Equal(t, "https://archive.test/contract/doc-1.pdf", docRepo.docs["doc-1"].SignedDocumentURL,
		"el artefacto se archiva en storage propio")
	require.Len(t, sigRepo.sigs, 1)
	assert.Equal(t, "completed", sigRepo.sigs[0].Status)
}

// TestComplete_DobleFinalizacionIdempotente verifica que la acción explícita
// y el postMessage del frame pueden llegar ambos sin duplicar efectos.
func TestComplete_DobleFinalizacionIdempotente(t *testing.T) {
	doc := contractDraft()
	doc.Status = "pending_signature"
	doc.SignNowDocumentID = "sn-123"
	provider := &fakeProvider{status: "completed", downloadURL: "https://prov.test/signed.pdf"}
	uc, docRepo, sigRepo := buildSession(doc, provider)

	_, err := uc.Complete(context.Background(), "co-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)
	resp, err := uc.Complete(context.Background(), "co-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, signing.StateCompleted, resp.State)
	assert.Len(t, sigRepo.sigs, 1, "exactamente una fila de auditoría pese a la doble llegada")
	assert.Equal(t, 1, docRepo.updateSignedCalls, "exactamente un update del documento")
}

func TestComplete_SinSesionPrevia(t *testing.T) {
	uc, _, _ := buildSession(contractDraft(), &fakeProvider{})
	_, err := uc.Complete(context.Background(), "co-1", entity.DocTypeContract, "doc-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "completar sin sesión de firma es un conflicto")
}

// TestFinalize_ArchivoFallaUsaURLProveedor: si el archivado falla, la
// finalización persiste la URL temporal del proveedor en lugar de fallar.
func TestFinalize_ArchivoFallaUsaURLProveedor(t *testing.T) {
	doc := contractDraft()
	doc.Status = "pending_signature"
	doc.SignNowDocumentID = "sn-123"
	provider := &fakeProvider{status: "completed", downloadURL: "https://prov.test/signed.pdf"}

	docRepo := newFakeDocRepo(doc)
	sigRepo := &fakeSigRepo{}
	uc := signing.NewSessionUseCase(
		docRepo, sigRepo,
		&fakeUserRepo{user: &entity.User{ID: "u-1", Email: "owner@test"}},
		&fakeCompanyRepo{company: &entity.Company{ID: "co-1"}},
		&fakeClientRepo{},
		provider, fakePDFGen{}, &fakeArchive{err: errors.New("bucket inaccesible")}, testLogger(),
	)

	resp, err := uc.Complete(context.Background(), "co-1", entity.DocTypeContract, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, signing.StateCompleted, resp.State, "el archivado es best-effort")
	assert.Equal(t, "https://prov.test/signed.pdf", docRepo.docs["doc-1"].SignedDocumentURL)
	assert.Len(t, sigRepo.sigs, 1)
}
