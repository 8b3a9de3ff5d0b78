package gst

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
)

// Tasas de GST. La tasa combinada es la misma en ambos modos.
var (
	RateIGST     = decimal.RequireFromString("0.18")
	RateCGST     = decimal.RequireFromString("0.09")
	RateSGST     = decimal.RequireFromString("0.09")
	RateCombined = decimal.RequireFromString("0.18")
)

// TaxComponent es un monto de impuesto impreso en una línea.
type TaxComponent struct {
	Key    BandKey
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// LineComputation guarda las cifras derivadas de una línea.
type LineComputation struct {
	Index      int // posición en la factura, desde 1
	Item       entity.LineItem
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Taxable    decimal.Decimal
	Components []TaxComponent
	Total      decimal.Decimal
}

// Component devuelve el monto de key, o cero si la línea no lo tiene.
func (l LineComputation) Component(key BandKey) decimal.Decimal {
	for _, c := range l.Components {
		if c.Key == key {
			return c.Amount
		}
	}
	return decimal.Zero
}

// Tax es la suma de todos los componentes.
func (l LineComputation) Tax() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range l.Components {
		sum = sum.Add(c.Amount)
	}
	return sum
}

// InvoiceAggregate es todo lo que el layout necesita de una cuenta.
type InvoiceAggregate struct {
	BillNumber   string
	Mode         TaxMode
	Header       entity.LineItem // primera fila: cliente, fecha, vehículo
	Lines        []LineComputation
	TaxableTotal decimal.Decimal
	TaxTotal     decimal.Decimal
	GrandTotal   decimal.Decimal
	Words        string
	// WordsOverflow se marca cuando GrandTotal es demasiado grande para escribirlo.
	WordsOverflow bool
}

// ComputeLine deriva valor gravable, componentes de impuesto y total de una fila.
// Cantidad y precio se leen con tolerancia: lo ilegible cuenta como 0.
func ComputeLine(item entity.LineItem, mode TaxMode) LineComputation {
	qty := ParseAmount(item.Quantity)
	price := ParseAmount(item.Price)
	taxable := qty.Mul(price)

	var comps []TaxComponent
	if mode == ModeIGST {
		comps = []TaxComponent{
			{Key: BandIGST, Rate: RateIGST, Amount: taxable.Mul(RateIGST)},
		}
	} else {
		comps = []TaxComponent{
			{Key: BandCGST, Rate: RateCGST, Amount: taxable.Mul(RateCGST)},
			{Key: BandSGST, Rate: RateSGST, Amount: taxable.Mul(RateSGST)},
		}
	}

	total := taxable
	for _, c := range comps {
		total = total.Add(c.Amount)
	}
	return LineComputation{
		Item:       item,
		Quantity:   qty,
		Price:      price,
		Taxable:    taxable,
		Components: comps,
		Total:      total,
	}
}

// ComputeAggregate calcula cada línea de una cuenta y el total general.
// Los montos se acumulan sin redondear; el redondeo ocurre en FormatMoney.
//
// Un total negativo (líneas de devolución) se escribe con el prefijo "Minus".
// Si el total no se puede escribir, el agregado igual se devuelve con
// WordsOverflow marcado, junto con domain.ErrAmountOverflow.
func ComputeAggregate(items []entity.LineItem, mode TaxMode) (InvoiceAggregate, error) {
	if len(items) == 0 {
		return InvoiceAggregate{}, domain.ErrNoMatchingRows
	}

	agg := InvoiceAggregate{
		BillNumber:   items[0].BillNumber,
		Mode:         mode,
		Header:       items[0],
		Lines:        make([]LineComputation, 0, len(items)),
		TaxableTotal: decimal.Zero,
		TaxTotal:     decimal.Zero,
		GrandTotal:   decimal.Zero,
	}
	for i, it := range items {
		line := ComputeLine(it, mode)
		line.Index = i + 1
		agg.Lines = append(agg.Lines, line)
		agg.TaxableTotal = agg.TaxableTotal.Add(line.Taxable)
		agg.TaxTotal = agg.TaxTotal.Add(line.Tax())
		agg.GrandTotal = agg.GrandTotal.Add(line.Total)
	}

	spell, prefix := agg.GrandTotal.Abs(), ""
	if agg.GrandTotal.Truncate(0).IsNegative() {
		prefix = "Minus "
	}
	words, err := AmountInWords(spell)
	if err != nil {
		if errors.Is(err, domain.ErrAmountOverflow) {
			agg.WordsOverflow = true
		}
		return agg, err
	}
	agg.Words = prefix + words
	return agg, nil
}

// FormatMoney muestra un monto con dos decimales, como se imprime en la factura.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatQuantity muestra una cantidad sin relleno ("40", "2.5").
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

const (
	// MaxAmountDigits acota los dígitos enteros de una cantidad o precio leídos.
	MaxAmountDigits = 15
	// AmountScale es la cantidad de decimales que se conservan de un valor leído.
	AmountScale = 6
)

// ParseAmount lee el número inicial de s ("40", " 12.5 ", "600/-").
// Una entrada vacía o no numérica da cero, y también un valor con más de
// MaxAmountDigits dígitos enteros ("1e5000000"). Los decimales más allá de
// AmountScale se truncan.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return bounded(d)
	}
	m := numericPrefix.FindString(s)
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Zero
	}
	return bounded(d)
}

// bounded inspecciona solo dígitos y exponente, así que los exponentes enormes
// nunca se expanden a cadenas de dígitos.
func bounded(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	exp := int64(d.Exponent())
	intDigits := int64(d.NumDigits()) + exp
	switch {
	case intDigits > MaxAmountDigits:
		return decimal.Zero
	case intDigits < -AmountScale:
		return decimal.Zero
	case exp < -AmountScale:
		return d.Truncate(AmountScale)
	}
	return d
}
