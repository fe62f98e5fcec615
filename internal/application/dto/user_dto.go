package dto

import (
	"time"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// CreateUserRequest entrada para crear un usuario (la contraseña se procesa según el modo de auth).
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // admin | vendor; vacío = vendor
}

// InviteUserRequest alta de una invitación: cuenta sin contraseña que se reclama en el primer login.
type InviteUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// UpdatePasswordRequest cambio de contraseña por un administrador.
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// UserResponse salida de un usuario (sin contraseña).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Pending   bool      `json:"pending"` // invitación sin reclamar
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse convierte la entidad; nunca expone el secreto.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Identifier,
		Name:      u.Name,
		Role:      u.Role,
		Pending:   u.IsInvite(),
		CreatedAt: u.CreatedAt,
	}
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse sesión activa.
type SessionResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// NewSessionResponse convierte la sesión.
func NewSessionResponse(s *entity.Session) SessionResponse {
	return SessionResponse{Username: s.Identifier, Name: s.Name, Role: s.Role}
}

// LoginResponse salida con token JWT y la sesión.
type LoginResponse struct {
	Token   string          `json:"token"`
	Session SessionResponse `json:"session"`
}
