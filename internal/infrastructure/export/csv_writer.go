// Package export codifica el registro de facturación para su descarga.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
)

// utf8BOM permite que las hojas de cálculo detecten la codificación del CSV.
const utf8BOM = "\ufeff"

var _ appbilling.RegisterWriter = CSVWriter{}

// CSVWriter escribe las columnas del registro tal como se registraron.
type CSVWriter struct{}

func (CSVWriter) Format() string      { return "csv" }
func (CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

// Write implementa billing.RegisterWriter.
func (CSVWriter) Write(w io.Writer, rows []appbilling.ExportRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(entity.RegisterColumns); err != nil {
		return fmt.Errorf("csv export: header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(r.Item.Values()); err != nil {
			return fmt.Errorf("csv export: row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	return nil
}
