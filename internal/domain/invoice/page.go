package invoice

// A4 vertical en milímetros.
const (
	A4Width  = 210.0
	A4Height = 297.0
	Margin   = 15.0
)

// FontStyle de un texto. La familia es siempre Helvetica.
type FontStyle int

const (
	Regular FontStyle = iota
	Bold
)

// Align ubica un texto respecto a su X.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// RGB color.
type RGB struct{ R, G, B uint8 }

// Paleta.
var (
	BrandBlue     = RGB{34, 65, 126}
	TableHeaderBg = RGB{217, 230, 243}
	Black         = RGB{0, 0, 0}
	LabelGray     = RGB{50, 50, 50}
	AddressGray   = RGB{60, 60, 60}
)

// Text es un texto posicionado. X y Baseline son coordenadas absolutas de la página.
type Text struct {
	Value    string
	X        float64
	Baseline float64
	Align    Align
	Style    FontStyle
	Size     float64 // puntos
	Color    RGB
}

// Rule es una línea horizontal de X1 a X2 en Y.
type Rule struct {
	X1, X2    float64
	Y         float64
	Thickness float64
	Color     RGB
}

// Image es la ubicación del logo.
type Image struct {
	Data   []byte
	Format string // "jpg" o "png"
	X, Y   float64
	W, H   float64
}

// Cell es una franja horizontal de un Block. Los textos, líneas e imagen de una
// celda quedan dentro de [X, X+Width].
type Cell struct {
	X               float64
	Width           float64
	Border          bool
	BorderThickness float64
	Texts           []Text
	Rules           []Rule
	Image           *Image
}

// Block es una banda horizontal de la página. Los bloques de una Page están
// ordenados por Y y nunca se solapan.
type Block struct {
	Name   string
	Y      float64
	Height float64
	Fill   *RGB // de margen a margen
	Cells  []Cell
}

// Borde inferior del bloque.
func (b Block) Bottom() float64 { return b.Y + b.Height }

// Page es la factura posicionada, independiente de cualquier librería PDF.
type Page struct {
	Width   float64
	Height  float64
	Margin  float64
	Title   string
	Author  string
	Subject string
	Blocks  []Block
}

// ContentWidth es el ancho útil entre los márgenes laterales.
func (p *Page) ContentWidth() float64 { return p.Width - 2*p.Margin }

// Bottom es el borde más bajo que alcanza cualquier bloque.
func (p *Page) Bottom() float64 {
	var max float64
	for _, b := range p.Blocks {
		if b.Bottom() > max {
			max = b.Bottom()
		}
	}
	return max
}

// Overflows indica si el contenido pasa del margen inferior.
func (p *Page) Overflows() bool {
	return p.Bottom() > p.Height-p.Margin
}

// Block devuelve el primer bloque con el nombre dado.
func (p *Page) Block(name string) (Block, bool) {
	for _, b := range p.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return Block{}, false
}

// Texts devuelve todos los textos de la página en orden de bloques.
func (p *Page) Texts() []Text {
	var out []Text
	for _, b := range p.Blocks {
		for _, c := range b.Cells {
			out = append(out, c.Texts...)
		}
	}
	return out
}

// FindText devuelve el primer texto cuyo valor es igual a v.
func (p *Page) FindText(v string) (Text, bool) {
	for _, t := range p.Texts() {
		if t.Value == v {
			return t, true
		}
	}
	return Text{}, false
}
