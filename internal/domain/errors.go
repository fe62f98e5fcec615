package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrDuplicateIdentifier = errors.New("el identificador ya existe")
	ErrInvalidCredentials  = errors.New("usuario o contraseña incorrectos")
	ErrBackendUnavailable  = errors.New("almacenamiento no disponible")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrNoData              = errors.New("no hay datos para exportar con los filtros actuales")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
)

// BackendError envuelve una falla de transporte o E/S del almacenamiento.
// errors.Is(err, ErrBackendUnavailable) es verdadero para cualquier BackendError.
type BackendError struct {
	Op  string
	Err error
}

// Unavailable construye un BackendError para la operación indicada.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrBackendUnavailable.Error(), e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrBackendUnavailable).
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}
