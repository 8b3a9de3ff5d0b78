package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/asha-billing/internal/application/dto"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/repository"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

// RegisterUseCase administra las filas del registro de facturación.
type RegisterUseCase struct {
	repo  repository.LineItemRepository
	clock Clock
	log   *logger.Logger
}

// NewRegisterUseCase construye el caso de uso.
func NewRegisterUseCase(repo repository.LineItemRepository, clock Clock, log *logger.Logger) *RegisterUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterUseCase{repo: repo, clock: clock, log: log.Component("register")}
}

// Add guarda una fila.
func (uc *RegisterUseCase) Add(ctx context.Context, in dto.LineItemRequest) (*dto.LineItemResponse, error) {
	out, err := uc.AddMany(ctx, []dto.LineItemRequest{in})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// AddMany guarda las filas en orden, todas o ninguna. Cada fila necesita al menos un número de cuenta.
func (uc *RegisterUseCase) AddMany(ctx context.Context, in []dto.LineItemRequest) ([]dto.LineItemResponse, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no rows", domain.ErrInvalidInput)
	}
	items := make([]*entity.LineItem, 0, len(in))
	for i, r := range in {
		if strings.TrimSpace(r.BillNumber) == "" {
			return nil, fmt.Errorf("%w: row %d has no bill number", domain.ErrInvalidInput, i+1)
		}
		items = append(items, uc.newItem(r.ToEntity()))
	}
	if err := uc.repo.CreateBatch(ctx, items); err != nil {
		return nil, fmt.Errorf("register: add rows: %w", err)
	}
	uc.log.Info().Int("rows", len(items)).Str("bill", items[0].BillNumber).Msg("rows added")
	return toResponses(items), nil
}

// List devuelve todo el registro en orden de inserción.
func (uc *RegisterUseCase) List(ctx context.Context) ([]dto.LineItemResponse, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: list: %w", err)
	}
	return toResponses(items), nil
}

// Rows devuelve el registro como entidades, para exportación e IA.
func (uc *RegisterUseCase) Rows(ctx context.Context) ([]entity.LineItem, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: list: %w", err)
	}
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out, nil
}

// Bills devuelve los números de cuenta distintos.
func (uc *RegisterUseCase) Bills(ctx context.Context) ([]string, error) {
	bills, err := uc.repo.BillNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: bills: %w", err)
	}
	return bills, nil
}

// Totals devuelve la cantidad de filas y el valor antes de impuestos por cuenta, en orden de aparición.
func (uc *RegisterUseCase) Totals(ctx context.Context) ([]entity.BillTotal, error) {
	totals, err := uc.repo.BillTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: totals: %w", err)
	}
	return totals, nil
}

// Import agrega las filas de una hoja cuya primera fila trae los nombres de
// columna (el formato que escribe la exportación CSV). Las filas sin número
// de cuenta se omiten. Devuelve cuántas filas se guardaron.
func (uc *RegisterUseCase) Import(ctx context.Context, table [][]string) (int, error) {
	if len(table) < 2 {
		return 0, fmt.Errorf("%w: the sheet has no data rows", domain.ErrInvalidInput)
	}
	header := make([]string, len(table[0]))
	hasBill := false
	for i, h := range table[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		hasBill = hasBill || header[i] == "Bill Number"
	}
	if !hasBill {
		return 0, fmt.Errorf("%w: the sheet has no \"Bill Number\" column", domain.ErrInvalidInput)
	}

	var items []*entity.LineItem
	for _, rec := range table[1:] {
		var it entity.LineItem
		for i, v := range rec {
			if i < len(header) && header[i] != "" {
				it.Set(header[i], strings.TrimSpace(v))
			}
		}
		if it.BillNumber == "" {
			continue
		}
		items = append(items, uc.newItem(it))
	}
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: no row has a bill number", domain.ErrInvalidInput)
	}
	if err := uc.repo.CreateBatch(ctx, items); err != nil {
		return 0, fmt.Errorf("register: import: %w", err)
	}
	uc.log.Info().Int("rows", len(items)).Msg("rows imported")
	return len(items), nil
}

// Get devuelve una fila o domain.ErrNotFound.
func (uc *RegisterUseCase) Get(ctx context.Context, id string) (*dto.LineItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("register: get: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	r := dto.LineItemFromEntity(item)
	return &r, nil
}

// Update sobrescribe los campos editables de la fila id.
func (uc *RegisterUseCase) Update(ctx context.Context, id string, in dto.LineItemRequest) (*dto.LineItemResponse, error) {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("register: get: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	next := in.ToEntity()
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("register: update: %w", err)
	}
	r := dto.LineItemFromEntity(&next)
	return &r, nil
}

// Delete elimina la fila id.
func (uc *RegisterUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("register: delete: %w", err)
	}
	return nil
}

// Replace sustituye todo el registro por rows. Se usa al aceptar una edición de IA.
// Un rows vacío nunca limpia el registro, y cada fila necesita número de cuenta.
func (uc *RegisterUseCase) Replace(ctx context.Context, rows []entity.LineItem) ([]dto.LineItemResponse, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", domain.ErrInvalidInput)
	}
	items := make([]*entity.LineItem, 0, len(rows))
	for i, r := range rows {
		if strings.TrimSpace(r.BillNumber) == "" {
			return nil, fmt.Errorf("%w: row %d has no bill number", domain.ErrInvalidInput, i+1)
		}
		items = append(items, uc.newItem(r))
	}
	if err := uc.repo.ReplaceAll(ctx, items); err != nil {
		return nil, fmt.Errorf("register: replace: %w", err)
	}
	uc.log.Info().Int("rows", len(items)).Msg("register replaced")
	return toResponses(items), nil
}

func (uc *RegisterUseCase) newItem(e entity.LineItem) *entity.LineItem {
	now := uc.clock.Now()
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now
	return &e
}

func toResponses(items []*entity.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineItemFromEntity(it))
	}
	return out
}
