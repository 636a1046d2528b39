package repository

import "github.com/tu-usuario/negocio-pro/internal/domain/entity"

// ClientRepository define el puerto de persistencia para clientes (CRM).
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Client, error)
	Update(client *entity.Client) error
}
