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
	"github.com/jhoicas/asha-billing/pkg/gstin"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

// ValidGSTIN indica si s tiene el formato de GSTIN y un dígito de control correcto.
func ValidGSTIN(s string) bool { return gstin.Validate(s) == nil }

// DealerUseCase administra el directorio de distribuidores.
type DealerUseCase struct {
	repo   repository.DealerRepository
	sheets SheetSource
	clock  Clock
	log    *logger.Logger
}

// NewDealerUseCase construye el caso de uso. sheets puede ser nil (sin sincronización).
func NewDealerUseCase(repo repository.DealerRepository, sheets SheetSource, clock Clock, log *logger.Logger) *DealerUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DealerUseCase{repo: repo, sheets: sheets, clock: clock, log: log.Component("dealers")}
}

func normalizeDealer(in dto.DealerRequest) (dto.DealerRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.GSTIN = strings.ToUpper(strings.TrimSpace(in.GSTIN))
	in.Location = strings.TrimSpace(in.Location)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" {
		return in, fmt.Errorf("%w: dealer name is required", domain.ErrInvalidInput)
	}
	if in.GSTIN != "" && !ValidGSTIN(in.GSTIN) {
		return in, fmt.Errorf("%w: invalid GSTIN %q", domain.ErrInvalidInput, in.GSTIN)
	}
	return in, nil
}

// Create agrega un distribuidor. Los nombres son únicos.
func (uc *DealerUseCase) Create(ctx context.Context, in dto.DealerRequest) (*dto.DealerResponse, error) {
	in, err := normalizeDealer(in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("dealers: find: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.clock.Now()
	d := &entity.Dealer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		GSTIN:     in.GSTIN,
		Location:  in.Location,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("dealers: create: %w", err)
	}
	r := dto.DealerFromEntity(d)
	return &r, nil
}

// List devuelve todos los distribuidores ordenados por nombre.
func (uc *DealerUseCase) List(ctx context.Context) ([]dto.DealerResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dealers: list: %w", err)
	}
	out := make([]dto.DealerResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DealerFromEntity(d))
	}
	return out, nil
}

// Update sobrescribe el distribuidor id.
func (uc *DealerUseCase) Update(ctx context.Context, id string, in dto.DealerRequest) (*dto.DealerResponse, error) {
	in, err := normalizeDealer(in)
	if err != nil {
		return nil, err
	}
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("dealers: get: %w", err)
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	d.Name, d.GSTIN, d.Location, d.Address = in.Name, in.GSTIN, in.Location, in.Address
	d.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("dealers: update: %w", err)
	}
	r := dto.DealerFromEntity(d)
	return &r, nil
}

// Delete elimina el distribuidor id.
func (uc *DealerUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("dealers: delete: %w", err)
	}
	return nil
}

// Sync inserta o actualiza distribuidores por nombre desde una hoja publicada.
// La cabecera se compara sin distinguir mayúsculas: se exige una columna con
// "name"; "gst", "location" y "address" son opcionales. Las filas con GSTIN
// inválido se omiten y se reportan.
func (uc *DealerUseCase) Sync(ctx context.Context, url string) (*dto.DealerSyncResponse, error) {
	if uc.sheets == nil {
		return nil, fmt.Errorf("%w: sheet source", domain.ErrNotConfigured)
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: sheet url is required", domain.ErrInvalidInput)
	}

	// ── 1. Descargar ──────────────────────────────────────────────────────────
	rows, err := uc.sheets.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dealers: fetch sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet is empty", domain.ErrInvalidInput)
	}

	// ── 2. Mapear columnas ────────────────────────────────────────────────────
	cols := mapDealerColumns(rows[0])
	if cols.name < 0 {
		return nil, fmt.Errorf("%w: sheet has no name column", domain.ErrInvalidInput)
	}

	// ── 3. Insertar o actualizar ──────────────────────────────────────────────
	res := &dto.DealerSyncResponse{}
	for i, r := range rows[1:] {
		in := dto.DealerRequest{
			Name:     cell(r, cols.name),
			GSTIN:    cell(r, cols.gst),
			Location: cell(r, cols.location),
			Address:  cell(r, cols.address),
		}
		if strings.TrimSpace(in.Name) == "" {
			res.Skipped++
			continue
		}
		in, err := normalizeDealer(in)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		existing, err := uc.repo.GetByName(ctx, in.Name)
		if err != nil {
			return res, fmt.Errorf("dealers: find: %w", err)
		}
		if existing == nil {
			if _, err := uc.Create(ctx, in); err != nil {
				return res, err
			}
			res.Created++
			continue
		}
		if _, err := uc.Update(ctx, existing.ID, in); err != nil {
			return res, err
		}
		res.Updated++
	}

	uc.log.Info().Int("created", res.Created).Int("updated", res.Updated).Int("skipped", res.Skipped).
		Msg("dealer sync finished")
	return res, nil
}

type dealerColumns struct{ name, gst, location, address int }

func mapDealerColumns(header []string) dealerColumns {
	c := dealerColumns{name: -1, gst: -1, location: -1, address: -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case c.name < 0 && strings.Contains(h, "name"):
			c.name = i
		case c.gst < 0 && strings.Contains(h, "gst"):
			c.gst = i
		case c.location < 0 && (strings.Contains(h, "location") || strings.Contains(h, "city")):
			c.location = i
		case c.address < 0 && strings.Contains(h, "address"):
			c.address = i
		}
	}
	return c
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
