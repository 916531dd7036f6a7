package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RolePlant = "plant"
	RoleStore = "store"
)

// User representa un actor del sistema: administrador, planta de producción
// o punto de venta (tienda).
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, plant, store
	Name         string
	CreatedAt    time.Time
}

// ValidRole indica si el rol es uno de los tres conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RolePlant || role == RoleStore
}
