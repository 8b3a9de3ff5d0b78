// Package memory contiene repositorios en proceso, usados cuando no hay base
// de datos configurada y en los tests.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
	"github.com/jhoicas/asha-billing/internal/domain/repository"
)

var _ repository.LineItemRepository = (*LineItemRepo)(nil)

// LineItemRepo guarda el registro en un slice, en orden de inserción.
type LineItemRepo struct {
	mu    sync.RWMutex
	items []entity.LineItem
}

// NewLineItemRepository construye un registro vacío.
func NewLineItemRepository() *LineItemRepo {
	return &LineItemRepo{}
}

// Create agrega item. El ID debe ser único.
func (r *LineItemRepo) Create(_ context.Context, item *entity.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(item.ID) >= 0 {
		return domain.ErrDuplicate
	}
	r.items = append(r.items, item.Clone())
	return nil
}

// CreateBatch agrega todos los items o ninguno.
func (r *LineItemRepo) CreateBatch(_ context.Context, items []*entity.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup || r.indexOf(it.ID) >= 0 {
			return domain.ErrDuplicate
		}
		seen[it.ID] = struct{}{}
	}
	for _, it := range items {
		r.items = append(r.items, it.Clone())
	}
	return nil
}

// GetByID devuelve nil, nil cuando la fila no existe.
func (r *LineItemRepo) GetByID(_ context.Context, id string) (*entity.LineItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	c := r.items[i].Clone()
	return &c, nil
}

// List devuelve todas las filas.
func (r *LineItemRepo) List(_ context.Context) ([]*entity.LineItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.LineItem, 0, len(r.items))
	for i := range r.items {
		c := r.items[i].Clone()
		out = append(out, &c)
	}
	return out, nil
}

// ListByBill devuelve las filas cuyo número de cuenta es exactamente billNumber.
func (r *LineItemRepo) ListByBill(_ context.Context, billNumber string) ([]*entity.LineItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.LineItem
	for i := range r.items {
		if r.items[i].BillNumber == billNumber {
			c := r.items[i].Clone()
			out = append(out, &c)
		}
	}
	return out, nil
}

// BillNumbers devuelve los números de cuenta distintos y no vacíos en orden de aparición.
func (r *LineItemRepo) BillNumbers(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, it := range r.items {
		if it.BillNumber == "" {
			continue
		}
		if _, ok := seen[it.BillNumber]; ok {
			continue
		}
		seen[it.BillNumber] = struct{}{}
		out = append(out, it.BillNumber)
	}
	return out, nil
}

// BillTotals interpreta cantidad y precio igual que las facturas.
func (r *LineItemRepo) BillTotals(_ context.Context) ([]entity.BillTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	index := make(map[string]int)
	var out []entity.BillTotal
	for _, it := range r.items {
		if it.BillNumber == "" {
			continue
		}
		i, ok := index[it.BillNumber]
		if !ok {
			i = len(out)
			index[it.BillNumber] = i
			out = append(out, entity.BillTotal{BillNumber: it.BillNumber, Taxable: decimal.Zero})
		}
		out[i].Lines++
		out[i].Taxable = out[i].Taxable.Add(gst.ParseAmount(it.Quantity).Mul(gst.ParseAmount(it.Price)))
	}
	return out, nil
}

// Update reemplaza la fila guardada con el mismo ID.
func (r *LineItemRepo) Update(_ context.Context, item *entity.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(item.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.items[i] = item.Clone()
	return nil
}

// Delete elimina la fila con id.
func (r *LineItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

// ReplaceAll sustituye el registro por items.
func (r *LineItemRepo) ReplaceAll(_ context.Context, items []*entity.LineItem) error {
	next := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		next = append(next, it.Clone())
	}
	r.mu.Lock()
	r.items = next
	r.mu.Unlock()
	return nil
}

func (r *LineItemRepo) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
