package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
)

// User representa una cuenta del sistema (administrador o asesor/vendedor).
// Identifier es la clave única (usuario o email). Secret vacío indica una invitación
// pendiente de reclamar en el primer inicio de sesión.
type User struct {
	ID         string
	Identifier string
	Secret     string // texto plano o hash según el modo de autenticación
	Name       string
	Role       string // admin, vendor
	CreatedAt  time.Time
}

// IsInvite indica si la cuenta fue creada por un admin sin contraseña.
func (u *User) IsInvite() bool {
	return u.Secret == ""
}

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleVendor
}
