package billing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
)

// ExportRow es una fila del registro con sus cifras calculadas.
type ExportRow struct {
	Item entity.LineItem
	Line gst.LineComputation
}

// RegisterWriter codifica el registro en un formato de archivo.
type RegisterWriter interface {
	Format() string // "csv", "xlsx"
	ContentType() string
	Write(w io.Writer, rows []ExportRow) error
}

// ExportFile es un registro codificado listo para descargar.
type ExportFile struct {
	Filename    string
	ContentType string
	Bytes       []byte
	Rows        int
}

// ExportUseCase escribe el registro como CSV o XLSX.
type ExportUseCase struct {
	register *RegisterUseCase
	writers  map[string]RegisterWriter
	clock    Clock
}

// NewExportUseCase registra los writers dados por formato.
func NewExportUseCase(register *RegisterUseCase, clock Clock, writers ...RegisterWriter) *ExportUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	m := make(map[string]RegisterWriter, len(writers))
	for _, w := range writers {
		m[w.Format()] = w
	}
	return &ExportUseCase{register: register, writers: m, clock: clock}
}

// Formats lista los formatos soportados, ordenados.
func (uc *ExportUseCase) Formats() []string {
	out := make([]string, 0, len(uc.writers))
	for f := range uc.writers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ExportFilename es ashafan_billing_<YYYY-MM-DD>.<format> según la fecha IST.
func (uc *ExportUseCase) ExportFilename(format string) string {
	return fmt.Sprintf("ashafan_billing_%s.%s", uc.clock.Now().In(IST).Format("2006-01-02"), format)
}

// Export codifica todo el registro. Los impuestos usan la división intraestatal;
// la tasa combinada es la misma en ambos modos.
func (uc *ExportUseCase) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	w, ok := uc.writers[format]
	if !ok {
		return nil, fmt.Errorf("%w: export format %q", domain.ErrInvalidInput, format)
	}

	items, err := uc.register.Rows(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]ExportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, ExportRow{Item: it, Line: gst.ComputeLine(it, gst.ModeCGSTSGST)})
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, rows); err != nil {
		return nil, fmt.Errorf("export: write %s: %w", format, err)
	}
	return &ExportFile{
		Filename:    uc.ExportFilename(format),
		ContentType: w.ContentType(),
		Bytes:       buf.Bytes(),
		Rows:        len(rows),
	}, nil
}
