// Package pdf renderiza páginas de factura posicionadas con Maroto v2.
//
// El motor de layout trabaja en milímetros absolutos; Maroto apila filas. Cada
// invoice.Block se vuelve una fila (los huecos, filas vacías) y cada Cell una
// columna en una grilla de 1 mm. Los textos quedan dentro de su columna con
// desplazamientos Top, Left y Right.
package pdf

import (
	"context"
	"fmt"
	"math"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/domain/invoice"
)

var _ appbilling.InvoiceRenderer = (*MarotoPDFGenerator)(nil)

// Maroto rechaza márgenes menores a 10 mm, así que la página empieza en y=10 y
// los bloques por encima se desplazan hacia abajo.
const (
	topMargin    = 10.0
	bottomMargin = 10.0
	ptToMM       = 25.4 / 72
	minGap       = 0.01
)

// ── Generador ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoiceRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Render dibuja page y devuelve los bytes del PDF.
func (g *MarotoPDFGenerator) Render(_ context.Context, page *invoice.Page) ([]byte, error) {
	if page == nil || len(page.Blocks) == 0 {
		return nil, fmt.Errorf("pdf: empty page")
	}

	grid := gridSize(page)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(page.Margin).WithRightMargin(page.Margin).
		WithTopMargin(topMargin).WithBottomMargin(bottomMargin).
		WithMaxGridSize(grid).
		WithDefaultFont(&props.Font{Family: fontfamily.Helvetica, Size: 9}).
		WithTitle(page.Title, true).
		WithAuthor(page.Author, true).
		WithSubject(page.Subject, true).
		Build()

	m := maroto.New(cfg)
	for _, r := range pageRows(page, grid) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// gridSize da una unidad de grilla por milímetro de ancho útil.
func gridSize(page *invoice.Page) int {
	n := int(math.Round(page.ContentWidth()))
	if n < 12 {
		return 12
	}
	return n
}

// pageRows convierte bloques en filas de Maroto, insertando filas espaciadoras
// para los huecos verticales entre bloques.
func pageRows(page *invoice.Page, grid int) []core.Row {
	blocks := append([]invoice.Block(nil), page.Blocks...)
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Y < blocks[j].Y })

	unit := page.ContentWidth() / float64(grid)
	rows := make([]core.Row, 0, 2*len(blocks))
	cursor := topMargin
	for _, b := range blocks {
		if b.Y < cursor {
			// Lo que quede por encima del área imprimible se baja hasta ella.
			b.Y = cursor
		}
		if gap := b.Y - cursor; gap > minGap {
			rows = append(rows, row.New(gap))
		}
		rows = append(rows, blockRow(b, page, grid, unit))
		cursor = b.Bottom()
	}
	return rows
}

// ── Filas y columnas ──────────────────────────────────────────────────────────

func blockRow(b invoice.Block, page *invoice.Page, grid int, unit float64) core.Row {
	cells := append([]invoice.Cell(nil), b.Cells...)
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].X < cells[j].X })

	var cols []core.Col
	pos := 0
	for _, c := range cells {
		start := clampInt(int(math.Round((c.X-page.Margin)/unit)), pos, grid)
		size := clampInt(int(math.Round(c.Width/unit)), 1, grid-start)
		if start > pos {
			cols = append(cols, col.New(start-pos))
		}
		if size <= 0 {
			continue
		}
		geom := cellGeom{
			x: page.Margin + float64(start)*unit,
			w: float64(size) * unit,
			y: b.Y,
			h: b.Height,
		}
		cols = append(cols, cellCol(c, size, geom))
		pos = start + size
	}

	r := row.New(b.Height).Add(cols...)
	if b.Fill != nil {
		r = r.WithStyle(&props.Cell{BackgroundColor: color(*b.Fill)})
	}
	return r
}

type cellGeom struct{ x, w, y, h float64 }

func cellCol(c invoice.Cell, size int, g cellGeom) core.Col {
	var comps []core.Component
	if c.Image != nil && len(c.Image.Data) > 0 {
		comps = append(comps, image.NewFromBytes(c.Image.Data, imageExt(c.Image.Format), props.Rect{
			Center:  true,
			Percent: 100,
		}))
	}
	for _, r := range c.Rules {
		comps = append(comps, ruleComponent(r, g))
	}
	for _, t := range c.Texts {
		comps = append(comps, textComponent(t, g))
	}

	out := col.New(size).Add(comps...)
	if c.Border {
		out = out.WithStyle(&props.Cell{
			BorderType:      border.Full,
			BorderColor:     &props.Color{Red: 0, Green: 0, Blue: 0},
			BorderThickness: c.BorderThickness,
		})
	}
	return out
}

// textComponent ubica t en su línea base dentro de la columna.
func textComponent(t invoice.Text, g cellGeom) core.Component {
	p := props.Text{
		Family: fontfamily.Helvetica,
		Style:  fontstyle.Normal,
		Size:   t.Size,
		Color:  color(t.Color),
		Top:    math.Max(0, t.Baseline-g.y-t.Size*ptToMM),
	}
	if t.Style == invoice.Bold {
		p.Style = fontstyle.Bold
	}

	switch t.Align {
	case invoice.AlignRight:
		p.Align = align.Right
		p.Right = math.Max(0, g.x+g.w-t.X)
	case invoice.AlignCenter:
		// Centrar en t.X recortando el lado lejano de la columna.
		p.Align = align.Center
		if off := t.X - g.x; off < g.w/2 {
			p.Right = math.Max(0, g.w-2*off)
		} else {
			p.Left = math.Max(0, 2*off-g.w)
		}
	default:
		p.Align = align.Left
		p.Left = math.Max(0, t.X-g.x)
	}
	return text.New(t.Value, p)
}

// ruleComponent dibuja una línea horizontal centrada en la columna.
func ruleComponent(r invoice.Rule, g cellGeom) core.Component {
	size := 100.0
	if g.w > 0 {
		size = math.Min(100, (r.X2-r.X1)/g.w*100)
	}
	offset := 50.0
	if g.h > 0 {
		offset = math.Min(100, math.Max(0, (r.Y-g.y)/g.h*100))
	}
	return line.New(props.Line{
		Color:         color(r.Color),
		Thickness:     r.Thickness,
		SizePercent:   size,
		OffsetPercent: offset,
	})
}

// ── auxiliares ────────────────────────────────────────────────────────────────

func color(c invoice.RGB) *props.Color {
	return &props.Color{Red: int(c.R), Green: int(c.G), Blue: int(c.B)}
}

func imageExt(format string) extension.Type {
	switch format {
	case "png":
		return extension.Png
	case "jpeg":
		return extension.Jpeg
	default:
		return extension.Jpg
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
