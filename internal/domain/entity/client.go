package entity

import "time"

// DefaultClientType etiqueta por defecto de un cliente recién registrado.
const DefaultClientType = "Nuevo"

// Client representa una empresa visitada por los asesores.
// La unicidad por nombre es consultiva: se verifica antes de insertar, sin restricción en la base.
type Client struct {
	ID        string
	Name      string // nombre de la empresa
	Contact   string // persona de contacto
	Phone     string
	Type      string // etiqueta libre, ej. Nuevo, Recurrente
	CreatedAt time.Time
}
