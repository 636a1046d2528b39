package entity

import "time"

// Company es el perfil de negocio del tenant: identidad del emisor en la
// cabecera de los documentos generados.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	Website   string
	LogoURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
