package entity

import "time"

// LineItem es una fila del registro de facturación. Varias filas comparten un
// BillNumber y juntas forman una factura. Quantity y Price se guardan tal como
// se escribieron; se interpretan con tolerancia al calcular la factura.
type LineItem struct {
	ID         string
	BillNumber string
	Date       string // DD-MM-YYYY tal como se registró
	Time       string // hh:mm am/pm tal como se registró
	VehicleNo  string
	DealerName string
	Location   string
	GSTNumber  string
	ItemName   string
	HSN        string
	Quantity   string
	Price      string
	Extra      map[string]string // columnas fuera del formato fijo del registro
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone devuelve una copia profunda para entregar filas al pipeline de facturas
// sin compartir el mapa Extra.
func (l LineItem) Clone() LineItem {
	out := l
	if l.Extra != nil {
		out.Extra = make(map[string]string, len(l.Extra))
		for k, v := range l.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// RegisterColumns es el orden fijo de columnas del registro (exportación y sync).
var RegisterColumns = []string{
	"Bill Number", "Date", "Time", "Vehicle No", "Dealer Name", "Location",
	"GST Number", "Item Name", "HSN", "Quantity", "Price",
}

// Values devuelve la fila en el orden de RegisterColumns.
func (l LineItem) Values() []string {
	return []string{
		l.BillNumber, l.Date, l.Time, l.VehicleNo, l.DealerName, l.Location,
		l.GSTNumber, l.ItemName, l.HSN, l.Quantity, l.Price,
	}
}

// Set asigna un valor por nombre de columna. Las columnas desconocidas van a Extra.
func (l *LineItem) Set(column, value string) {
	switch column {
	case "Bill Number":
		l.BillNumber = value
	case "Date":
		l.Date = value
	case "Time":
		l.Time = value
	case "Vehicle No":
		l.VehicleNo = value
	case "Dealer Name":
		l.DealerName = value
	case "Location":
		l.Location = value
	case "GST Number":
		l.GSTNumber = value
	case "Item Name":
		l.ItemName = value
	case "HSN":
		l.HSN = value
	case "Quantity":
		l.Quantity = value
	case "Price":
		l.Price = value
	default:
		if l.Extra == nil {
			l.Extra = make(map[string]string)
		}
		l.Extra[column] = value
	}
}
