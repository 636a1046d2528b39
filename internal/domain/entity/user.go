package entity

import "time"

// Roles de usuario dentro de la empresa.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User representa un usuario de la plataforma (pertenece a una empresa).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string // "admin" | "member"
	Status       string // "active" | "disabled"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
