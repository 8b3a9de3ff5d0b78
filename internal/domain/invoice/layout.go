// Package invoice posiciona una factura de GST en una página A4.
//
// El layout se calcula como geometría simple (bloques, celdas, textos, líneas)
// para poder probarlo sin librería PDF. Esquema de la página, de arriba abajo:
//
//	┌───────────────────────────────────────────────────────┐
//	│                                             Bill-Cash │
//	│                        [logo]                         │
//	│                ASHA FAN INDUSTRIES ®                  │
//	│           address / GSTIN / website (underlined)      │
//	│  ═══════════════════════════════════════════════════  │
//	│                     TAX INVOICE                       │
//	│  Customer Name / Location / GSTIN   Invoice No / Date │
//	│  ░ # Item  Qty  Price  Taxable  Tax…  Total ░░░░░░░░  │
//	│    rows (item names wrapped, HSN sub-line)            │
//	│  ░░░░░░░░░░░░░░░░░░░░░░░ Total (Rs.)   grand total ░  │
//	│  Amount (In words)          … and Twenty Only         │
//	│  BANK ACCOUNT DETAILS box                             │
//	│                                   ________________    │
//	│                                   For <Company>®      │
//	│  Terms & Conditions / contact                         │
//	└───────────────────────────────────────────────────────┘
package invoice

import (
	"fmt"
	"math"
	"strings"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
)

// TextMeasurer mide texto Helvetica en milímetros.
type TextMeasurer interface {
	Width(text string, style FontStyle, size float64) float64
	// Split parte text en líneas no más anchas que width.
	Split(text string, style FontStyle, size float64, width float64) []string
}

// Anclas verticales, en milímetros desde el borde superior de la página.
const (
	billLabelY  = 15.0
	logoY       = 17.0
	logoSize    = 15.0
	titleY      = 40.0
	addressY    = 49.0
	gstinY      = 54.0
	websiteY    = 59.0
	dividerY    = 68.0
	headingY    = 75.0
	metaY       = 88.0
	tableY      = 130.0
	tableHeadH  = 18.0
	firstRowGap = 23.5 // del borde de la tabla a la línea base de la primera fila
	rowLead     = 4.5  // el bloque de fila empieza esta distancia por encima de su línea base
	itemWrapW   = 33.0
	minRowH     = 11.0
	summaryH    = 10.0
	bankBoxW    = 110.0
	bankLabelW  = 38.0
	bankRowH    = 6.0
	sigRuleW    = 55.0
	ptToMM      = 25.4 / 72
	lineSpacing = 1.15
)

// LineHeight es la distancia entre líneas base apiladas para el tamaño pt.
func LineHeight(size float64) float64 { return size * lineSpacing * ptToMM }

// Engine diagrama facturas para un membrete.
type Engine struct {
	brand   Branding
	measure TextMeasurer
}

// NewEngine construye el motor de layout.
func NewEngine(brand Branding, measure TextMeasurer) *Engine {
	return &Engine{brand: brand, measure: measure}
}

// Branding devuelve el membrete en uso.
func (e *Engine) Branding() Branding { return e.brand }

// Layout posiciona agg en una página con la geometría de columnas de schema.
// La fila de cabecera de agg aporta el cliente y la fecha y hora registradas;
// aquí nada lee el reloj.
func (e *Engine) Layout(agg gst.InvoiceAggregate, schema gst.ColumnSchema, logo Logo) (*Page, error) {
	if e.measure == nil {
		return nil, fmt.Errorf("%w: text measurer", domain.ErrNotConfigured)
	}
	if len(agg.Lines) == 0 {
		return nil, domain.ErrNoMatchingRows
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	l := &pageBuilder{
		brand:   e.brand,
		measure: e.measure,
		schema:  schema,
		page: &Page{
			Width:   schema.PageWidth,
			Height:  A4Height,
			Margin:  schema.Margin,
			Title:   "Invoice " + nonEmpty(agg.BillNumber, e.brand.Fallbacks.BillNumber),
			Author:  e.brand.DisplayName,
			Subject: "Tax Invoice",
		},
	}

	l.letterhead(logo)
	l.metadata(agg)
	cursor := l.table(agg)
	summaryY := l.summary(agg, cursor)
	bankY := l.bank(summaryY + 27)
	sigY := bankY + 34
	l.signature(sigY)
	l.terms(sigY + 15)

	return l.page, nil
}

// ── builder ───────────────────────────────────────────────────────────────────

type pageBuilder struct {
	brand   Branding
	measure TextMeasurer
	schema  gst.ColumnSchema
	page    *Page
}

func (l *pageBuilder) right() float64  { return l.page.Width - l.page.Margin }
func (l *pageBuilder) center() float64 { return l.page.Width / 2 }

// full es una celda de margen a margen.
func (l *pageBuilder) full(texts ...Text) Cell {
	return Cell{X: l.page.Margin, Width: l.page.ContentWidth(), Texts: texts}
}

func (l *pageBuilder) add(b Block) {
	l.page.Blocks = append(l.page.Blocks, b)
}

func text(v string, x, y float64, a Align, s FontStyle, size float64, c RGB) Text {
	return Text{Value: v, X: x, Baseline: y, Align: a, Style: s, Size: size, Color: c}
}

// ── 1. Membrete ───────────────────────────────────────────────────────────────

func (l *pageBuilder) letterhead(logo Logo) {
	b := l.brand
	cx := l.center()

	l.add(Block{Name: "bill-label", Y: 10, Height: 5, Cells: []Cell{l.full(
		text(b.BillLabel, l.right(), billLabelY, AlignRight, Regular, 10, LabelGray),
	)}})

	if logo.Present {
		c := l.full()
		c.Image = &Image{
			Data: logo.Data, Format: logo.Format,
			X: (l.page.Width - logoSize) / 2, Y: logoY, W: logoSize, H: logoSize,
		}
		l.add(Block{Name: "logo", Y: logoY, Height: logoSize, Cells: []Cell{c}})
	}

	// El título se alinea a la izquierda en su inicio medido para que el ® lo siga.
	tw := l.measure.Width(b.CompanyName, Bold, 26)
	start := (l.page.Width - tw) / 2
	l.add(Block{Name: "title", Y: logoY + logoSize, Height: 10, Cells: []Cell{l.full(
		text(b.CompanyName, start, titleY, AlignLeft, Bold, 26, BrandBlue),
		text("®", start+tw+1, titleY-6, AlignLeft, Bold, 10, BrandBlue),
	)}})

	ww := l.measure.Width(b.Website, Bold, 9)
	addr := l.full(
		text(b.Address, cx, addressY, AlignCenter, Regular, 9, AddressGray),
		text("GSTIN: "+b.GSTIN, cx, gstinY, AlignCenter, Bold, 9, AddressGray),
		text(b.Website, cx, websiteY, AlignCenter, Bold, 9, BrandBlue),
	)
	addr.Rules = []Rule{{X1: cx - ww/2, X2: cx + ww/2, Y: websiteY + 1, Thickness: 0.2, Color: BrandBlue}}
	l.add(Block{Name: "address", Y: 42, Height: 20, Cells: []Cell{addr}})

	div := l.full()
	div.Rules = []Rule{{X1: l.page.Margin, X2: l.right(), Y: dividerY, Thickness: 0.8, Color: BrandBlue}}
	l.add(Block{Name: "divider", Y: dividerY - 2, Height: 4, Cells: []Cell{div}})

	l.add(Block{Name: "heading", Y: dividerY + 2, Height: 7, Cells: []Cell{l.full(
		text("TAX INVOICE", cx, headingY, AlignCenter, Bold, 12, BrandBlue),
	)}})
}

// ── 2. Cliente y metadatos de la factura ──────────────────────────────────────

func (l *pageBuilder) metadata(agg gst.InvoiceAggregate) {
	fb := l.brand.Fallbacks
	h := agg.Header
	m := l.page.Margin
	rx := l.page.Width - 85
	vx := rx + 38

	texts := []Text{
		text("Customer Name", m, metaY, AlignLeft, Bold, 10, Black),
		text(nonEmpty(h.DealerName, fb.CustomerName), m, metaY+6, AlignLeft, Regular, 10, Black),
		text(nonEmpty(h.Location, fb.Location), m, metaY+12, AlignLeft, Regular, 10, Black),
		text("Customer GSTIN", m, metaY+28, AlignLeft, Bold, 10, Black),
		text(nonEmpty(h.GSTNumber, fb.CustomerGSTIN), m, metaY+34, AlignLeft, Regular, 10, BrandBlue),

		text("Invoice No.", rx, metaY, AlignLeft, Bold, 10, Black),
		text("Date", rx, metaY+6, AlignLeft, Bold, 10, Black),
		text("Time", rx, metaY+12, AlignLeft, Bold, 10, Black),
		text("Vehicle No.", rx, metaY+28, AlignLeft, Bold, 10, Black),
		text(nonEmpty(agg.BillNumber, fb.BillNumber), vx, metaY, AlignLeft, Regular, 10, Black),
		text(nonEmpty(h.Date, fb.Date), vx, metaY+6, AlignLeft, Regular, 10, Black),
		text(nonEmpty(h.Time, fb.Time), vx, metaY+12, AlignLeft, Regular, 10, Black),
		text(strings.ToUpper(nonEmpty(h.VehicleNo, fb.VehicleNo)), vx, metaY+28, AlignLeft, Regular, 10, Black),
	}
	l.add(Block{Name: "metadata", Y: metaY - 6, Height: 42, Cells: []Cell{l.full(texts...)}})
}

// ── 3. Tabla de líneas ────────────────────────────────────────────────────────

// table diagrama la cabecera y un bloque por línea. Devuelve el cursor de
// fila después de la última línea.
func (l *pageBuilder) table(agg gst.InvoiceAggregate) float64 {
	headTop := tableY + 9
	lh := LineHeight(9)

	var head []Text
	for _, b := range l.schema.Bands {
		y := headTop
		if len(b.Header) > 1 {
			y = headTop - 3
		}
		for i, label := range b.Header {
			head = append(head, text(label, b.TextX, y+float64(i)*lh, bandAlign(b), Bold, 9, Black))
		}
	}
	fill := TableHeaderBg
	l.add(Block{Name: "table-header", Y: tableY, Height: tableHeadH, Fill: &fill, Cells: []Cell{l.full(head...)}})

	cursor := tableY + firstRowGap
	for _, line := range agg.Lines {
		texts, advance := l.lineTexts(line, cursor)
		l.add(Block{
			Name:   fmt.Sprintf("row-%d", line.Index),
			Y:      cursor - rowLead,
			Height: advance,
			Cells:  []Cell{l.full(texts...)},
		})
		cursor += advance
	}
	return cursor
}

func (l *pageBuilder) lineTexts(line gst.LineComputation, y float64) ([]Text, float64) {
	fb := l.brand.Fallbacks
	item := line.Item

	wrapped := l.measure.Split(nonEmpty(item.ItemName, fb.ItemName), Regular, 9, itemWrapW)
	if len(wrapped) == 0 {
		wrapped = []string{""}
	}
	n := float64(len(wrapped))

	var out []Text
	put := func(key gst.BandKey, v string) {
		if b, ok := l.schema.Band(key); ok {
			out = append(out, text(v, b.TextX, y, bandAlign(b), Regular, 9, Black))
		}
	}

	put(gst.BandIndex, fmt.Sprintf("%d", line.Index))
	if b, ok := l.schema.Band(gst.BandItem); ok {
		for i, s := range wrapped {
			out = append(out, text(s, b.TextX, y+float64(i)*LineHeight(9), AlignLeft, Regular, 9, Black))
		}
		out = append(out, text("HSN: "+nonEmpty(item.HSN, fb.HSN), b.TextX, y+n*4.5+0.5, AlignLeft, Regular, 8, Black))
	}
	put(gst.BandQuantity, gst.FormatQuantity(line.Quantity))
	put(gst.BandPrice, gst.FormatMoney(line.Price))
	put(gst.BandTaxable, gst.FormatMoney(line.Taxable))
	for _, tb := range l.schema.TaxBands() {
		put(tb.Key, gst.FormatMoney(line.Component(tb.Key)))
	}
	put(gst.BandTotal, gst.FormatMoney(line.Total))

	return out, math.Max(n*5.5+3, minRowH)
}

func bandAlign(b gst.Band) Align {
	if b.Anchor == gst.AnchorCenter {
		return AlignCenter
	}
	return AlignLeft
}

// ── 4. Resumen y monto en letras ──────────────────────────────────────────────

func (l *pageBuilder) summary(agg gst.InvoiceAggregate, cursor float64) float64 {
	y := cursor - 2
	fill := TableHeaderBg
	l.add(Block{Name: "summary", Y: y, Height: summaryH, Fill: &fill, Cells: []Cell{l.full(
		text("Total (Rs.)", l.schema.TotalLabelX, y+6.5, AlignRight, Bold, 9, Black),
		text(gst.FormatMoney(agg.GrandTotal), l.schema.TotalCenter, y+6.5, AlignCenter, Bold, 9, Black),
	)}})

	words := agg.Words
	if agg.WordsOverflow || words == "" {
		words = l.brand.OverflowWords
	}
	l.add(Block{Name: "words", Y: y + summaryH, Height: 8, Cells: []Cell{l.full(
		text("Amount (In words)", l.page.Margin, y+16, AlignLeft, Regular, 9, Black),
		text(words, l.right(), y+16, AlignRight, Bold, 9, Black),
	)}})
	return y
}

// ── 5. Datos bancarios ────────────────────────────────────────────────────────

func (l *pageBuilder) bank(bankY float64) float64 {
	m := l.page.Margin
	bd := l.brand.Bank

	l.add(Block{Name: "bank-title", Y: bankY - 5, Height: 7, Cells: []Cell{l.full(
		text("BANK ACCOUNT DETAILS", m, bankY, AlignLeft, Bold, 10, Black),
	)}})

	rows := [][2]string{
		{"Account Name", bd.AccountName},
		{"Account Number", bd.AccountNumber},
		{"Bank & Branch", bd.BankBranch},
		{"IFSC Code", bd.IFSC},
	}
	for i, r := range rows {
		top := bankY + 2 + float64(i)*bankRowH
		base := top + 4
		l.add(Block{Name: fmt.Sprintf("bank-%d", i), Y: top, Height: bankRowH, Cells: []Cell{
			{X: m, Width: bankLabelW, Border: true, BorderThickness: 0.3,
				Texts: []Text{text(r[0], m+2, base, AlignLeft, Regular, 9, Black)}},
			{X: m + bankLabelW, Width: bankBoxW - bankLabelW, Border: true, BorderThickness: 0.3,
				Texts: []Text{text(r[1], m+bankLabelW+2, base, AlignLeft, Regular, 9, Black)}},
		}})
	}
	return bankY
}

// ── 6. Firma ──────────────────────────────────────────────────────────────────

func (l *pageBuilder) signature(sigY float64) {
	x := l.right() - sigRuleW
	cx := l.right() - sigRuleW/2
	c := Cell{
		X: x, Width: sigRuleW,
		Rules: []Rule{{X1: x, X2: l.right(), Y: sigY, Thickness: 0.8, Color: Black}},
		Texts: []Text{
			text("For "+l.brand.CompanyName+"®", cx, sigY+5, AlignCenter, Bold, 10, Black),
			text("(Signature)", cx, sigY+10, AlignCenter, Regular, 9, Black),
		},
	}
	l.add(Block{Name: "signature", Y: sigY - 2, Height: 13, Cells: []Cell{c}})
}

// ── 7. Términos ───────────────────────────────────────────────────────────────

func (l *pageBuilder) terms(termsY float64) {
	m := l.page.Margin
	texts := []Text{text("Terms & Conditions :", m, termsY, AlignLeft, Bold, 10, Black)}
	y := termsY
	for _, t := range l.brand.Terms {
		y += 5
		texts = append(texts, text(t, m, y, AlignLeft, Regular, 9, Black))
	}
	y += 3
	for i, c := range l.brand.ContactLines {
		y += 5
		color := Black
		if i == len(l.brand.ContactLines)-1 {
			color = BrandBlue
		}
		texts = append(texts, text(c, m, y, AlignLeft, Regular, 8.5, color))
	}

	top := termsY - 4
	l.add(Block{Name: "terms", Y: top, Height: y + 2 - top, Cells: []Cell{l.full(texts...)}})
}

// ── auxiliares ────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
