package ports

import (
	"context"
	"errors"
)

// ErrUnknownIdentity lo devuelve el proveedor cuando la identidad no está registrada.
// Permite distinguir una invitación pendiente de una contraseña incorrecta.
var ErrUnknownIdentity = errors.New("identidad no registrada en el proveedor")

// IdentityProvider define el puerto de salida hacia el proveedor externo de identidad.
// Los fallos de red deben envolverse con domain.Unavailable para no confundirse con
// credenciales inválidas.
type IdentityProvider interface {
	// SignIn valida la contraseña. Devuelve ErrUnknownIdentity, domain.ErrInvalidCredentials
	// o un error de backend.
	SignIn(ctx context.Context, identifier, secret string) error
	// SignUp registra la identidad; domain.ErrDuplicateIdentifier si ya existe.
	SignUp(ctx context.Context, identifier, secret string) error
	// SignOut cierra la sesión de la identidad en el proveedor.
	SignOut(ctx context.Context, identifier string) error
}
