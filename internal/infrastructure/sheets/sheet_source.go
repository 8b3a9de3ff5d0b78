// Package sheets descarga hojas de distribuidores publicadas (CSV o XLSX).
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
)

// MaxSheetBytes limita el tamaño de una hoja descargada.
const MaxSheetBytes = 10 << 20

var _ appbilling.SheetSource = (*HTTPSource)(nil)

// HTTPSource implementa billing.SheetSource sobre HTTP.
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource construye una fuente con el timeout de solicitud dado.
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{client: &http.Client{Timeout: timeout}}
}

// Fetch descarga url y devuelve sus filas, cabecera primero. XLSX se detecta
// por el content type o la firma zip; todo lo demás se lee como CSV.
func (s *HTTPSource) Fetch(ctx context.Context, url string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("sheets: build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets: fetch: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSheetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("sheets: read body: %w", err)
	}
	if len(data) > MaxSheetBytes {
		return nil, fmt.Errorf("sheets: larger than %d bytes", MaxSheetBytes)
	}

	if isXLSX(resp.Header.Get("Content-Type"), data) {
		return ParseXLSX(data)
	}
	return ParseCSV(data)
}

// ParseCSV lee filas CSV. La entrada que no es UTF-8 válido se decodifica como
// Windows-1252, que es lo que emiten las hojas de cálculo en Windows.
func ParseCSV(data []byte) ([][]string, error) {
	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheets: parse csv: %w", err)
	}
	return rows, nil
}

// ParseXLSX lee las filas de la primera hoja.
func ParseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sheets: open xlsx: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("sheets: workbook has no sheets")
	}
	rows, err := f.GetRows(names[0])
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", names[0], err)
	}
	return rows, nil
}

func isXLSX(contentType string, data []byte) bool {
	if strings.Contains(contentType, "spreadsheetml") {
		return true
	}
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}
