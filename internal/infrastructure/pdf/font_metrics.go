package pdf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/phpdave11/gofpdf"

	"github.com/jhoicas/asha-billing/internal/domain/invoice"
)

var _ invoice.TextMeasurer = (*FontMetrics)(nil)

// FontMetrics mide texto con los anchos Helvetica de las fuentes core de gofpdf,
// el backend con el que dibuja maroto, así las líneas partidas coinciden con la página.
type FontMetrics struct {
	mu  sync.Mutex
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewFontMetrics carga las tablas de las fuentes core.
func NewFontMetrics() (*FontMetrics, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetCellMargin(0)
	p.SetFont("Helvetica", "", 9)
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("pdf: load font metrics: %w", err)
	}
	return &FontMetrics{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}, nil
}

// Width de s en milímetros.
func (m *FontMetrics) Width(s string, style invoice.FontStyle, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.use(style, size)
	return m.pdf.GetStringWidth(m.tr(latin1(s)))
}

// Split parte s en límites de palabra en líneas no más anchas que width.
func (m *FontMetrics) Split(s string, style invoice.FontStyle, size, width float64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.use(style, size)
	return m.pdf.SplitText(latin1(s), width)
}

func (m *FontMetrics) use(style invoice.FontStyle, size float64) {
	st := ""
	if style == invoice.Bold {
		st = "B"
	}
	m.pdf.SetFont("Helvetica", st, size)
}

// latin1 reemplaza las runas que las fuentes core no tienen. gofpdf indexa su
// tabla de anchos de 256 entradas por runa.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
}
