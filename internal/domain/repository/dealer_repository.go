package repository

import (
	"context"

	"github.com/jhoicas/asha-billing/internal/domain/entity"
)

// DealerRepository es el puerto de persistencia del directorio de distribuidores.
// Los nombres son únicos; las búsquedas por nombre no distinguen mayúsculas.
type DealerRepository interface {
	Create(ctx context.Context, dealer *entity.Dealer) error
	GetByID(ctx context.Context, id string) (*entity.Dealer, error)
	GetByName(ctx context.Context, name string) (*entity.Dealer, error)
	List(ctx context.Context) ([]*entity.Dealer, error)
	Update(ctx context.Context, dealer *entity.Dealer) error
	Delete(ctx context.Context, id string) error
}
