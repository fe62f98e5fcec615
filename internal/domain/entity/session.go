package entity

// SessionKey nombre fijo del registro de sesión en el almacenamiento local duradero.
const SessionKey = "vendor_app_session"

// Session identidad con sesión iniciada. Se serializa tal cual en el almacenamiento local.
type Session struct {
	Identifier string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

// NewSession construye la sesión a partir de un usuario autenticado.
func NewSession(u *User) *Session {
	return &Session{Identifier: u.Identifier, Name: u.Name, Role: u.Role}
}

// IsAdmin indica si la sesión pertenece a un administrador.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
