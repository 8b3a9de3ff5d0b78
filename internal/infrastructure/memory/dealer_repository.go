package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/repository"
)

var _ repository.DealerRepository = (*DealerRepo)(nil)

// DealerRepo es un directorio de distribuidores respaldado por un mapa.
type DealerRepo struct {
	mu      sync.RWMutex
	dealers map[string]entity.Dealer
}

// NewDealerRepository construye un directorio vacío.
func NewDealerRepository() *DealerRepo {
	return &DealerRepo{dealers: make(map[string]entity.Dealer)}
}

// Create guarda dealer. Los IDs y los nombres deben ser únicos.
func (r *DealerRepo) Create(_ context.Context, dealer *entity.Dealer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dealers[dealer.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.byName(dealer.Name) != nil {
		return domain.ErrDuplicate
	}
	r.dealers[dealer.ID] = *dealer
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *DealerRepo) GetByID(_ context.Context, id string) (*entity.Dealer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dealers[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// GetByName compara sin distinguir mayúsculas e ignora espacios alrededor.
func (r *DealerRepo) GetByName(_ context.Context, name string) (*entity.Dealer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d := r.byName(name); d != nil {
		c := *d
		return &c, nil
	}
	return nil, nil
}

// List devuelve los distribuidores ordenados por nombre.
func (r *DealerRepo) List(_ context.Context) ([]*entity.Dealer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Dealer, 0, len(r.dealers))
	for _, d := range r.dealers {
		c := d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

// Update reemplaza el distribuidor con el mismo ID.
func (r *DealerRepo) Update(_ context.Context, dealer *entity.Dealer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dealers[dealer.ID]; !ok {
		return domain.ErrNotFound
	}
	if other := r.byName(dealer.Name); other != nil && other.ID != dealer.ID {
		return domain.ErrDuplicate
	}
	r.dealers[dealer.ID] = *dealer
	return nil
}

// Delete elimina el distribuidor con id.
func (r *DealerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dealers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.dealers, id)
	return nil
}

func (r *DealerRepo) byName(name string) *entity.Dealer {
	key := strings.ToLower(strings.TrimSpace(name))
	for id := range r.dealers {
		d := r.dealers[id]
		if strings.ToLower(strings.TrimSpace(d.Name)) == key {
			return &d
		}
	}
	return nil
}
