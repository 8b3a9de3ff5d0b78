package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/asha-billing/internal/application/dto"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
	"github.com/jhoicas/asha-billing/internal/domain/repository"
)

// Valores por defecto del formulario rápido.
const (
	BillPrefix       = "AFI-0"
	DefaultVehicleNo = "HR67D0177"
)

// IST es la zona en la que se registran fechas y horas.
var IST = time.FixedZone("IST", 5*3600+30*60)

// EntryUseCase convierte el formulario rápido en filas del registro.
type EntryUseCase struct {
	register *RegisterUseCase
	dealers  repository.DealerRepository
	catalog  CatalogSource
	clock    Clock
	invoices *InvoiceUseCase
}

// NewEntryUseCase construye el caso de uso del formulario.
func NewEntryUseCase(register *RegisterUseCase, dealers repository.DealerRepository, catalog CatalogSource, clock Clock) *EntryUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &EntryUseCase{register: register, dealers: dealers, catalog: catalog, clock: clock}
}

// WithInvoices genera la factura de la cuenta después de cada envío.
func (uc *EntryUseCase) WithInvoices(invoices *InvoiceUseCase) *EntryUseCase {
	uc.invoices = invoices
	return uc
}

// Catalog lista los artículos facturables.
func (uc *EntryUseCase) Catalog() entity.Catalog { return uc.catalog.Catalog() }

// Submit valida el formulario y guarda una fila por cada artículo completo.
// Se omiten las entradas sin artículo, cantidad o precio. Con facturas
// conectadas, luego se genera la factura desde el registro; si el render
// falla, las filas guardadas se conservan y se reporta un aviso.
func (uc *EntryUseCase) Submit(ctx context.Context, in dto.QuickEntryRequest) (*dto.QuickEntryResponse, error) {
	// ── 1. Cabecera ───────────────────────────────────────────────────────────
	if strings.TrimSpace(in.DealerName) == "" || strings.TrimSpace(in.BillNumber) == "" {
		return nil, fmt.Errorf("%w: dealer and bill number are required", domain.ErrInvalidInput)
	}
	mode, err := gst.ParseTaxMode(in.Mode)
	if err != nil {
		return nil, err
	}
	dealer, err := uc.dealers.GetByName(ctx, in.DealerName)
	if err != nil {
		return nil, fmt.Errorf("entry: find dealer: %w", err)
	}
	if dealer == nil {
		return nil, fmt.Errorf("%w: dealer %q", domain.ErrNotFound, in.DealerName)
	}

	now := uc.clock.Now().In(IST)
	date, err := EntryDate(in.Date, now)
	if err != nil {
		return nil, err
	}
	at, err := EntryTime(in.Time, now)
	if err != nil {
		return nil, err
	}
	vehicle := strings.TrimSpace(in.VehicleNo)
	if vehicle == "" {
		vehicle = DefaultVehicleNo
	}
	bill := NormalizeBillNumber(in.BillNumber)

	// ── 2. Artículos ──────────────────────────────────────────────────────────
	catalog := uc.catalog.Catalog()
	rows := make([]dto.LineItemRequest, 0, len(in.Items))
	for _, e := range in.Items {
		if e.ItemName == "" || strings.TrimSpace(e.Quantity) == "" {
			continue
		}
		item, ok := catalog.Find(e.ItemName)
		if !ok {
			return nil, fmt.Errorf("%w: unknown item %q", domain.ErrInvalidInput, e.ItemName)
		}
		price := strings.TrimSpace(e.Price)
		if price == "" && item.DefaultPrice.IsPositive() {
			price = item.DefaultPrice.String()
		}
		if price == "" {
			continue
		}
		rows = append(rows, dto.LineItemRequest{
			BillNumber: bill,
			Date:       date,
			Time:       at,
			VehicleNo:  vehicle,
			DealerName: dealer.Name,
			Location:   dealer.Location,
			GSTNumber:  dealer.GSTIN,
			ItemName:   item.Name,
			HSN:        item.HSN,
			Quantity:   strings.TrimSpace(e.Quantity),
			Price:      price,
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: at least one item with quantity and price is required", domain.ErrInvalidInput)
	}

	// ── 3. Guardar ────────────────────────────────────────────────────────────
	stored, err := uc.register.AddMany(ctx, rows)
	if err != nil {
		return nil, err
	}
	out := &dto.QuickEntryResponse{BillNumber: bill, Rows: stored}
	if uc.invoices == nil {
		return out, nil
	}

	// ── 4. Factura ────────────────────────────────────────────────────────────
	doc, err := uc.invoices.GenerateFromRepository(ctx, bill, mode)
	switch {
	case err != nil:
		out.Warning = err.Error()
	case doc != nil:
		out.Invoice = &dto.EntryInvoice{
			Filename:   doc.Filename,
			SavedAt:    doc.SavedAt,
			Mode:       doc.Mode.String(),
			LineCount:  doc.LineCount,
			GrandTotal: doc.GrandTotal,
			Words:      doc.Words,
		}
	}
	return out, nil
}

// NormalizeBillNumber antepone AFI-0 salvo que el número ya lo traiga
// (en cualquier capitalización). Por lo demás se conserva tal como se escribió.
func NormalizeBillNumber(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToUpper(s), BillPrefix) {
		return s
	}
	return BillPrefix + s
}

// EntryDate convierte una fecha YYYY-MM-DD del formulario a DD-MM-YYYY. Vacía usa now.
func EntryDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format("02-01-2006"), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("%w: date %q is not YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return d.Format("02-01-2006"), nil
}

// EntryTime convierte una hora HH:MM de 24 h a "hh:mm am". Vacía usa now.
func EntryTime(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format("03:04 pm"), nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("%w: time %q is not HH:MM", domain.ErrInvalidInput, s)
	}
	return t.Format("03:04 pm"), nil
}
