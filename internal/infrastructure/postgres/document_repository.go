package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// docTable es el resultado del resolver de variantes: tabla y campo de
// numeración de cada DocType.
type docTable struct {
	table       string
	numberField string
}

// tableFor resuelve la variante a su tabla. El switch es exhaustivo sobre
// el conjunto cerrado de entity.DocType; una variante desconocida es un
// error de programación y se reporta como tal.
func tableFor(t entity.DocType) (docTable, error) {
	switch t {
	case entity.DocTypeInvoice:
		return docTable{table: "invoices", numberField: "invoice_number"}, nil
	case entity.DocTypeEstimate:
		return docTable{table: "estimates", numberField: "estimate_number"}, nil
	case entity.DocTypeQuote:
		return docTable{table: "quotes", numberField: "quote_number"}, nil
	case entity.DocTypeContract:
		return docTable{table: "contracts", numberField: "contract_number"}, nil
	case entity.DocTypeWorkOrder:
		return docTable{table: "work_orders", numberField: "work_order_number"}, nil
	case entity.DocTypeBid:
		return docTable{table: "bids", numberField: "bid_number"}, nil
	case entity.DocTypeProposal:
		return docTable{table: "proposals", numberField: "proposal_number"}, nil
	default:
		return docTable{}, fmt.Errorf("doc type desconocido: %q", t)
	}
}

// DocumentRepo implementación de DocumentRepository sobre las tablas por
// variante (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const docColumns = `id, company_id, user_id, client_id, %s, title, description, status, currency,
	       subtotal, discount_total, tax_total, grand_total, notes, terms,
	       issue_date, due_date, tracking_token, signnow_document_id, signed_at,
	       signed_document_url, created_at, updated_at`

func (r *DocumentRepo) scanDoc(row pgx.Row, docType entity.DocType) (*entity.Document, error) {
	var d entity.Document
	var title, description, notes, terms, trackingToken, signNowID, signedURL *string
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.UserID, &d.ClientID, &d.Number, &title, &description,
		&d.Status, &d.Currency,
		&d.Subtotal, &d.DiscountTotal, &d.TaxTotal, &d.GrandTotal,
		&notes, &terms,
		&d.IssueDate, &d.DueDate, &trackingToken, &signNowID, &d.SignedAt,
		&signedURL, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.DocType = docType
	d.Title = derefStr(title)
	d.Description = derefStr(description)
	d.Notes = derefStr(notes)
	d.Terms = derefStr(terms)
	d.TrackingToken = derefStr(trackingToken)
	d.SignNowDocumentID = derefStr(signNowID)
	d.SignedDocumentURL = derefStr(signedURL)
	return &d, nil
}

// Create persiste la cabecera del documento en la tabla de su variante.
func (r *DocumentRepo) Create(docType entity.DocType, doc *entity.Document) error {
	t, err := tableFor(docType)
	if err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, user_id, client_id, %s, title, description, status, currency,
		                subtotal, discount_total, tax_total, grand_total, notes, terms,
		                issue_date, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		t.table, t.numberField)
	_, err = r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, doc.UserID, doc.ClientID, doc.Number,
		nullIfEmpty(doc.Title), nullIfEmpty(doc.Description), doc.Status, doc.Currency,
		doc.Subtotal, doc.DiscountTotal, doc.TaxTotal, doc.GrandTotal,
		nullIfEmpty(doc.Notes), nullIfEmpty(doc.Terms),
		doc.IssueDate, doc.DueDate, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("document number already exists: %w", err)
		}
		return fmt.Errorf("insert %s: %w", t.table, err)
	}
	return nil
}

// GetByID obtiene un documento por ID dentro de su variante.
func (r *DocumentRepo) GetByID(docType entity.DocType, id string) (*entity.Document, error) {
	t, err := tableFor(docType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT `+docColumns+` FROM %s WHERE id = $1`, t.numberField, t.table)
	doc, err := r.scanDoc(r.q.QueryRow(context.Background(), query, id), docType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	return doc, nil
}

// List lista documentos de una variante por empresa, más recientes primero.
func (r *DocumentRepo) List(docType entity.DocType, companyID string, limit, offset int) ([]*entity.Document, error) {
	t, err := tableFor(docType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT `+docColumns+` FROM %s WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, t.numberField, t.table)
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		doc, err := r.scanDoc(rows, docType)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

// GetByTrackingToken sondea las tablas en el orden fijo de AllDocTypes
// (invoice primero). First-table-wins: si el token coincidiera en más de
// una tabla gana la primera del orden. (nil, "", nil) si se agotan todas.
func (r *DocumentRepo) GetByTrackingToken(token string) (*entity.Document, entity.DocType, error) {
	for _, docType := range entity.AllDocTypes {
		t, err := tableFor(docType)
		if err != nil {
			return nil, "", err
		}
		query := fmt.Sprintf(`SELECT `+docColumns+` FROM %s WHERE tracking_token = $1`, t.numberField, t.table)
		doc, err := r.scanDoc(r.q.QueryRow(context.Background(), query, token), docType)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, "", fmt.Errorf("probe %s by token: %w", t.table, err)
		}
		return doc, docType, nil
	}
	return nil, "", nil
}

// UpdateStatus actualiza solo el status (y updated_at).
func (r *DocumentRepo) UpdateStatus(docType entity.DocType, id, newStatus string) error {
	t, err := tableFor(docType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = $3 WHERE id = $1`, t.table)
	_, err = r.q.Exec(context.Background(), query, id, newStatus, time.Now())
	if err != nil {
		return fmt.Errorf("update %s status: %w", t.table, err)
	}
	return nil
}

// UpdateTracking persiste el token de tracking junto con el nuevo status.
func (r *DocumentRepo) UpdateTracking(docType entity.DocType, id, trackingToken, newStatus string) error {
	t, err := tableFor(docType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET tracking_token = $2, status = $3, updated_at = $4 WHERE id = $1`, t.table)
	_, err = r.q.Exec(context.Background(), query, id, trackingToken, newStatus, time.Now())
	if err != nil {
		return fmt.Errorf("update %s tracking: %w", t.table, err)
	}
	return nil
}

// UpdateSignNowID persiste el ID externo del proveedor y el nuevo status.
func (r *DocumentRepo) UpdateSignNowID(docType entity.DocType, id, signNowID, newStatus string) error {
	t, err := tableFor(docType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET signnow_document_id = $2, status = $3, updated_at = $4 WHERE id = $1`, t.table)
	_, err = r.q.Exec(context.Background(), query, id, signNowID, newStatus, time.Now())
	if err != nil {
		return fmt.Errorf("update %s signnow id: %w", t.table, err)
	}
	return nil
}

// UpdateSigned persiste los tres campos de finalización de firma.
func (r *DocumentRepo) UpdateSigned(docType entity.DocType, id string, doc *entity.Document) error {
	t, err := tableFor(docType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, signed_at = $3, signed_document_url = $4, updated_at = $5
		WHERE id = $1`, t.table)
	_, err = r.q.Exec(context.Background(), query,
		id, doc.Status, doc.SignedAt, nullIfEmpty(doc.SignedDocumentURL), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update %s signed: %w", t.table, err)
	}
	return nil
}

// CreateItems persiste las líneas (tabla única compartida por variantes).
func (r *DocumentRepo) CreateItems(items []*entity.DocumentItem) error {
	query := `
		INSERT INTO document_items (id, document_id, name, description, quantity, unit_price, discount_percent, tax_percent, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), query,
			it.ID, it.DocumentID, it.Name, nullIfEmpty(it.Description),
			it.Quantity, it.UnitPrice, it.DiscountPercent, it.TaxPercent, it.Total,
		)
		if err != nil {
			return fmt.Errorf("insert document item: %w", err)
		}
	}
	return nil
}

// GetItemsByDocumentID obtiene todas las líneas de un documento.
func (r *DocumentRepo) GetItemsByDocumentID(documentID string) ([]*entity.DocumentItem, error) {
	query := `
		SELECT id, document_id, name, COALESCE(description, ''), quantity, unit_price, discount_percent, tax_percent, total
		FROM document_items WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document items: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentItem
	for rows.Next() {
		var it entity.DocumentItem
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.Name, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.DiscountPercent, &it.TaxPercent, &it.Total); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
