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

var _ repository.LineItemRepository = (*LineItemRepo)(nil)

const lineItemColumns = `id, bill_number, entry_date, entry_time, vehicle_no, dealer_name, location,
	gst_number, item_name, hsn, quantity, price, extra, created_at, updated_at`

// LineItemRepo guarda el registro en line_items. La columna seq conserva el
// orden de inserción.
type LineItemRepo struct {
	q Querier
}

// NewLineItemRepository construye el adaptador. Recibe un pool o una tx.
func NewLineItemRepository(q Querier) *LineItemRepo {
	return &LineItemRepo{q: q}
}

// Create inserta una fila.
func (r *LineItemRepo) Create(ctx context.Context, item *entity.LineItem) error {
	return insertLineItem(ctx, r.q, item)
}

// CreateBatch inserta todas las filas en una transacción.
func (r *LineItemRepo) CreateBatch(ctx context.Context, items []*entity.LineItem) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		for _, it := range items {
			if err := insertLineItem(ctx, tx, it); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID devuelve nil, nil cuando la fila no existe.
func (r *LineItemRepo) GetByID(ctx context.Context, id string) (*entity.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE id = $1`
	it, err := scanLineItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get line item: %w", err)
	}
	return it, nil
}

// List devuelve todas las filas en orden de inserción.
func (r *LineItemRepo) List(ctx context.Context) ([]*entity.LineItem, error) {
	return r.list(ctx, `SELECT `+lineItemColumns+` FROM line_items ORDER BY seq`)
}

// ListByBill devuelve las filas de una cuenta en orden de inserción.
func (r *LineItemRepo) ListByBill(ctx context.Context, billNumber string) ([]*entity.LineItem, error) {
	return r.list(ctx, `SELECT `+lineItemColumns+` FROM line_items WHERE bill_number = $1 ORDER BY seq`, billNumber)
}

// BillNumbers devuelve los números de cuenta distintos y no vacíos en orden de aparición.
func (r *LineItemRepo) BillNumbers(ctx context.Context) ([]string, error) {
	query := `
		SELECT bill_number FROM line_items
		WHERE bill_number <> ''
		GROUP BY bill_number
		ORDER BY MIN(seq)`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bill numbers: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan bill number: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// leadingNumeric lee como NUMERIC el número inicial de una columna de texto,
// 0 si no hay ninguno ("600/-" es 600).
func leadingNumeric(col string) string {
	return `COALESCE(substring(btrim(` + col + `) from '^[+-]?(?:[0-9]+[.]?[0-9]*|[.][0-9]+)')::numeric, 0)`
}

// BillTotals suma cantidad × precio por cuenta en la base de datos. El resultado
// NUMERIC se escanea en decimal.Decimal con el codec registrado en NewPool.
func (r *LineItemRepo) BillTotals(ctx context.Context) ([]entity.BillTotal, error) {
	query := `
		SELECT bill_number, COUNT(*), COALESCE(SUM(` + leadingNumeric("quantity") + ` * ` + leadingNumeric("price") + `), 0)
		FROM line_items
		WHERE bill_number <> ''
		GROUP BY bill_number
		ORDER BY MIN(seq)`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sum bill totals: %w", err)
	}
	defer rows.Close()
	var out []entity.BillTotal
	for rows.Next() {
		var t entity.BillTotal
		if err := rows.Scan(&t.BillNumber, &t.Lines, &t.Taxable); err != nil {
			return nil, fmt.Errorf("scan bill total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update sobrescribe la fila con el mismo ID.
func (r *LineItemRepo) Update(ctx context.Context, item *entity.LineItem) error {
	query := `
		UPDATE line_items SET bill_number = $2, entry_date = $3, entry_time = $4, vehicle_no = $5,
			dealer_name = $6, location = $7, gst_number = $8, item_name = $9, hsn = $10,
			quantity = $11, price = $12, extra = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.BillNumber, item.Date, item.Time, item.VehicleNo,
		item.DealerName, item.Location, item.GSTNumber, item.ItemName, item.HSN,
		item.Quantity, item.Price, extraOrEmpty(item.Extra), item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update line item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la fila con id.
func (r *LineItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM line_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceAll vacía el registro e inserta items en una transacción.
func (r *LineItemRepo) ReplaceAll(ctx context.Context, items []*entity.LineItem) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM line_items`); err != nil {
			return fmt.Errorf("clear line items: %w", err)
		}
		for _, it := range items {
			if err := insertLineItem(ctx, tx, it); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LineItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LineItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()
	var list []*entity.LineItem
	for rows.Next() {
		it, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func insertLineItem(ctx context.Context, q Querier, item *entity.LineItem) error {
	query := `
		INSERT INTO line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := q.Exec(ctx, query,
		item.ID, item.BillNumber, item.Date, item.Time, item.VehicleNo,
		item.DealerName, item.Location, item.GSTNumber, item.ItemName, item.HSN,
		item.Quantity, item.Price, extraOrEmpty(item.Extra), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert line item: %w", err)
	}
	return nil
}

func scanLineItem(row pgx.Row) (*entity.LineItem, error) {
	var it entity.LineItem
	var extra map[string]string
	if err := row.Scan(
		&it.ID, &it.BillNumber, &it.Date, &it.Time, &it.VehicleNo, &it.DealerName, &it.Location,
		&it.GSTNumber, &it.ItemName, &it.HSN, &it.Quantity, &it.Price, &extra, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		it.Extra = extra
	}
	return &it, nil
}

// extraOrEmpty mantiene como objeto la columna jsonb NOT NULL.
func extraOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
