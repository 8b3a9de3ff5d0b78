package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/repository"
)

var _ repository.DealerRepository = (*DealerRepo)(nil)

// DealerRepo implementa DealerRepository. La unicidad del nombre la impone
// un índice sobre lower(trim(name)).
type DealerRepo struct {
	q Querier
}

// NewDealerRepository construye el adaptador. Recibe un pool o una tx.
func NewDealerRepository(q Querier) *DealerRepo {
	return &DealerRepo{q: q}
}

// Create inserta un distribuidor.
func (r *DealerRepo) Create(ctx context.Context, d *entity.Dealer) error {
	query := `
		INSERT INTO dealers (id, name, gstin, location, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, d.ID, d.Name, d.GSTIN, d.Location, d.Address, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dealer: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *DealerRepo) GetByID(ctx context.Context, id string) (*entity.Dealer, error) {
	return r.getOne(ctx, `
		SELECT id, name, gstin, location, address, created_at, updated_at
		FROM dealers WHERE id = $1`, id)
}

// GetByName compara sin distinguir mayúsculas, ignorando espacios alrededor.
func (r *DealerRepo) GetByName(ctx context.Context, name string) (*entity.Dealer, error) {
	return r.getOne(ctx, `
		SELECT id, name, gstin, location, address, created_at, updated_at
		FROM dealers WHERE lower(trim(name)) = lower(trim($1))`, name)
}

// List devuelve los distribuidores ordenados por nombre.
func (r *DealerRepo) List(ctx context.Context) ([]*entity.Dealer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, gstin, location, address, created_at, updated_at
		FROM dealers ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("list dealers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Dealer
	for rows.Next() {
		var d entity.Dealer
		if err := rows.Scan(&d.ID, &d.Name, &d.GSTIN, &d.Location, &d.Address, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dealer: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update sobrescribe el distribuidor con el mismo ID.
func (r *DealerRepo) Update(ctx context.Context, d *entity.Dealer) error {
	query := `
		UPDATE dealers SET name = $2, gstin = $3, location = $4, address = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.Name, d.GSTIN, d.Location, d.Address, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update dealer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un distribuidor por ID.
func (r *DealerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM dealers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dealer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DealerRepo) getOne(ctx context.Context, query string, arg string) (*entity.Dealer, error) {
	var d entity.Dealer
	err := r.q.QueryRow(ctx, query, arg).Scan(&d.ID, &d.Name, &d.GSTIN, &d.Location, &d.Address, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dealer: %w", err)
	}
	return &d, nil
}
