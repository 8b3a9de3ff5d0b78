package gst

import (
	"fmt"
	"strings"

	"github.com/jhoicas/asha-billing/internal/domain"
)

// TaxMode selecciona cómo se divide el GST del 18% en una factura.
type TaxMode int

const (
	// ModeCGSTSGST divide el impuesto en mitades central y estatal (intraestatal).
	ModeCGSTSGST TaxMode = iota
	// ModeIGST cobra un único impuesto integrado (interestatal).
	ModeIGST
)

func (m TaxMode) String() string {
	if m == ModeIGST {
		return "igst"
	}
	return "cgst_sgst"
}

// ParseTaxMode acepta "igst", "cgst_sgst" o "cgst". Vacío selecciona CGST+SGST.
func ParseTaxMode(s string) (TaxMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cgst", "cgst_sgst", "cgst+sgst", "sgst":
		return ModeCGSTSGST, nil
	case "igst":
		return ModeIGST, nil
	default:
		return ModeCGSTSGST, fmt.Errorf("%w: unknown tax mode %q", domain.ErrInvalidInput, s)
	}
}

// ModeFromIGST traduce el selector de la factura a un TaxMode.
func ModeFromIGST(isIGST bool) TaxMode {
	if isIGST {
		return ModeIGST
	}
	return ModeCGSTSGST
}

// BandKey nombra una columna de la tabla.
type BandKey string

const (
	BandIndex    BandKey = "index"
	BandItem     BandKey = "item"
	BandQuantity BandKey = "quantity"
	BandPrice    BandKey = "price"
	BandTaxable  BandKey = "taxable"
	BandIGST     BandKey = "igst"
	BandCGST     BandKey = "cgst"
	BandSGST     BandKey = "sgst"
	BandTotal    BandKey = "total"
)

// Anchor indica cómo se ubican los valores de una banda respecto a Band.TextX.
type Anchor int

const (
	AnchorLeft Anchor = iota
	AnchorCenter
)

// Band es una columna horizontal de la tabla de líneas. X y Right son
// coordenadas absolutas de la página en milímetros.
type Band struct {
	Key    BandKey
	X      float64
	Right  float64
	TextX  float64
	Anchor Anchor
	Header []string
}

// Width de la banda.
func (b Band) Width() float64 { return b.Right - b.X }

// IsTax indica si la banda lleva un componente de impuesto.
func (b Band) IsTax() bool {
	return b.Key == BandIGST || b.Key == BandCGST || b.Key == BandSGST
}

// ColumnSchema es la geometría de la tabla para un TaxMode.
type ColumnSchema struct {
	Mode      TaxMode
	PageWidth float64
	Margin    float64
	Bands     []Band
	// TotalCenter es la x sobre la que se centra la columna de total.
	TotalCenter float64
	// TotalLabelX es donde termina la etiqueta "Total (Rs.)" alineada a la derecha.
	TotalLabelX float64
}

// Desplazamientos desde el margen izquierdo, y el ancho impreso de la última columna de impuesto.
const (
	offItem     = 8
	offQuantity = 45
	offPrice    = 65
	offTaxable  = 88
	offIGST     = 117
	offCGST     = 112
	offSGST     = 133
	igstWidth   = 20
	sgstWidth   = 18
)

// SelectSchema arma las bandas de columnas para mode en una página de ancho
// pageWidth con el margen lateral dado.
func SelectSchema(mode TaxMode, pageWidth, margin float64) ColumnSchema {
	right := pageWidth - margin
	at := func(off float64) float64 { return margin + off }

	bands := []Band{
		{Key: BandIndex, X: at(0), TextX: at(2), Anchor: AnchorLeft},
		{Key: BandItem, X: at(offItem), TextX: at(offItem + 2), Anchor: AnchorLeft, Header: []string{"Item"}},
		{Key: BandQuantity, X: at(offQuantity), TextX: at(offQuantity + 5), Anchor: AnchorCenter, Header: []string{"Quantity"}},
		{Key: BandPrice, X: at(offPrice), TextX: at(offPrice + 10), Anchor: AnchorCenter, Header: []string{"Price/Item", "(Rs.)"}},
		{Key: BandTaxable, X: at(offTaxable), TextX: at(offTaxable + 10), Anchor: AnchorCenter, Header: []string{"Taxable", "Value (Rs.)"}},
	}

	var lastTax Band
	if mode == ModeIGST {
		lastTax = Band{Key: BandIGST, X: at(offIGST), Right: at(offIGST + igstWidth), TextX: at(offIGST + 10), Anchor: AnchorCenter, Header: []string{"IGST", "(18%) (Rs.)"}}
		bands = append(bands, lastTax)
	} else {
		cgst := Band{Key: BandCGST, X: at(offCGST), TextX: at(offCGST + 10), Anchor: AnchorCenter, Header: []string{"CGST", "(9%) (Rs.)"}}
		lastTax = Band{Key: BandSGST, X: at(offSGST), Right: at(offSGST + sgstWidth), TextX: at(offSGST + 10), Anchor: AnchorCenter, Header: []string{"SGST", "(9%) (Rs.)"}}
		bands = append(bands, cgst, lastTax)
	}

	totalCenter := (lastTax.Right + right) / 2
	bands = append(bands, Band{
		Key: BandTotal, X: lastTax.Right, Right: right,
		TextX: totalCenter, Anchor: AnchorCenter, Header: []string{"Total", "(Rs.)"},
	})

	// Las bandas abiertas terminan donde empieza la siguiente.
	for i := 0; i < len(bands)-1; i++ {
		if bands[i].Right == 0 {
			bands[i].Right = bands[i+1].X
		}
	}

	return ColumnSchema{
		Mode:        mode,
		PageWidth:   pageWidth,
		Margin:      margin,
		Bands:       bands,
		TotalCenter: totalCenter,
		TotalLabelX: lastTax.X - 5,
	}
}

// Band devuelve la banda con la clave dada.
func (s ColumnSchema) Band(key BandKey) (Band, bool) {
	for _, b := range s.Bands {
		if b.Key == key {
			return b, true
		}
	}
	return Band{}, false
}

// TaxBands devuelve las columnas de impuesto en orden de impresión.
func (s ColumnSchema) TaxBands() []Band {
	out := make([]Band, 0, 2)
	for _, b := range s.Bands {
		if b.IsTax() {
			out = append(out, b)
		}
	}
	return out
}

// Validate verifica que las bandas estén ordenadas, no vacías y sin solaparse,
// y que la tabla quepa entre los márgenes.
func (s ColumnSchema) Validate() error {
	if len(s.Bands) == 0 {
		return fmt.Errorf("%w: empty column schema", domain.ErrInvalidInput)
	}
	if s.Bands[0].X < s.Margin || s.Bands[len(s.Bands)-1].Right > s.PageWidth-s.Margin {
		return fmt.Errorf("%w: table exceeds page margins", domain.ErrInvalidInput)
	}
	for i, b := range s.Bands {
		if b.Right <= b.X {
			return fmt.Errorf("%w: band %s has no width", domain.ErrInvalidInput, b.Key)
		}
		if i > 0 && b.X < s.Bands[i-1].Right {
			return fmt.Errorf("%w: band %s overlaps %s", domain.ErrInvalidInput, b.Key, s.Bands[i-1].Key)
		}
	}
	return nil
}
