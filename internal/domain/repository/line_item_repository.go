package repository

import (
	"context"

	"github.com/jhoicas/asha-billing/internal/domain/entity"
)

// LineItemRepository es el puerto de persistencia del registro de facturación.
// List devuelve las filas en orden de inserción; las facturas dependen de ese orden.
type LineItemRepository interface {
	Create(ctx context.Context, item *entity.LineItem) error
	CreateBatch(ctx context.Context, items []*entity.LineItem) error
	GetByID(ctx context.Context, id string) (*entity.LineItem, error)
	List(ctx context.Context) ([]*entity.LineItem, error)
	ListByBill(ctx context.Context, billNumber string) ([]*entity.LineItem, error)
	BillNumbers(ctx context.Context) ([]string, error)
	// BillTotals devuelve una entrada por cuenta, en orden de aparición.
	BillTotals(ctx context.Context) ([]entity.BillTotal, error)
	Update(ctx context.Context, item *entity.LineItem) error
	Delete(ctx context.Context, id string) error
	// ReplaceAll sustituye todo el registro de forma atómica.
	ReplaceAll(ctx context.Context, items []*entity.LineItem) error
}
