package entity

import "time"

// Client representa un cliente del tenant (bloque "bill to" de los
// documentos y destinatario de enlaces de pago/firma).
type Client struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
