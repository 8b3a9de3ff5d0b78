package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
)

// RegisterSheet es el nombre de la hoja de la exportación XLSX.
const RegisterSheet = "Register"

var computedColumns = []string{"Taxable", "Tax", "Total"}

var _ appbilling.RegisterWriter = XLSXWriter{}

// XLSXWriter escribe el registro más las columnas calculadas Taxable, Tax y
// Total como números.
type XLSXWriter struct{}

func (XLSXWriter) Format() string { return "xlsx" }
func (XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write implementa billing.RegisterWriter.
func (XLSXWriter) Write(w io.Writer, rows []appbilling.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RegisterSheet); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	header := append(append([]string{}, entity.RegisterColumns...), computedColumns...)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(RegisterSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx export: header: %w", err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(RegisterSheet, "A1", last, bold)
	}

	for i, r := range rows {
		rowNum := i + 2
		values := make([]interface{}, 0, len(header))
		for _, v := range r.Item.Values() {
			values = append(values, v)
		}
		values = append(values,
			r.Line.Taxable.InexactFloat64(),
			r.Line.Tax().InexactFloat64(),
			r.Line.Total.InexactFloat64(),
		)
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(RegisterSheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx export: row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	return nil
}
