package repository

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Los Get* devuelven (nil, nil) cuando no hay coincidencia exacta.
type ClientRepository interface {
	List(ctx context.Context) ([]*entity.Client, error)
	GetByName(ctx context.Context, name string) (*entity.Client, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) error
}
