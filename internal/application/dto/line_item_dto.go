package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asha-billing/internal/domain/entity"
)

// LineItemRequest cuerpo para POST/PUT /api/items.
type LineItemRequest struct {
	BillNumber string            `json:"bill_number"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	VehicleNo  string            `json:"vehicle_no"`
	DealerName string            `json:"dealer_name"`
	Location   string            `json:"location"`
	GSTNumber  string            `json:"gst_number"`
	ItemName   string            `json:"item_name"`
	HSN        string            `json:"hsn"`
	Quantity   string            `json:"quantity"`
	Price      string            `json:"price"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// ToEntity copia la solicitud en una fila nueva sin ID ni timestamps.
func (r LineItemRequest) ToEntity() entity.LineItem {
	item := entity.LineItem{
		BillNumber: r.BillNumber,
		Date:       r.Date,
		Time:       r.Time,
		VehicleNo:  r.VehicleNo,
		DealerName: r.DealerName,
		Location:   r.Location,
		GSTNumber:  r.GSTNumber,
		ItemName:   r.ItemName,
		HSN:        r.HSN,
		Quantity:   r.Quantity,
		Price:      r.Price,
	}
	if len(r.Extra) > 0 {
		item.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			item.Extra[k] = v
		}
	}
	return item
}

// LineItemResponse es una fila almacenada del registro.
type LineItemResponse struct {
	ID string `json:"id"`
	LineItemRequest
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItemFromEntity mapea una fila almacenada.
func LineItemFromEntity(e *entity.LineItem) LineItemResponse {
	c := e.Clone()
	return LineItemResponse{
		ID: c.ID,
		LineItemRequest: LineItemRequest{
			BillNumber: c.BillNumber,
			Date:       c.Date,
			Time:       c.Time,
			VehicleNo:  c.VehicleNo,
			DealerName: c.DealerName,
			Location:   c.Location,
			GSTNumber:  c.GSTNumber,
			ItemName:   c.ItemName,
			HSN:        c.HSN,
			Quantity:   c.Quantity,
			Price:      c.Price,
			Extra:      c.Extra,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// QuickEntryItem es una línea de producto del formulario rápido.
type QuickEntryItem struct {
	ItemName string `json:"item_name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price,omitempty"` // vacío usa el precio por defecto del catálogo
}

// QuickEntryRequest cuerpo para POST /api/items/entry.
// Date es YYYY-MM-DD y Time es HH:MM (24 h); ambos usan la hora actual en IST por defecto.
type QuickEntryRequest struct {
	DealerName string           `json:"dealer_name"`
	BillNumber string           `json:"bill_number"`
	VehicleNo  string           `json:"vehicle_no,omitempty"`
	Date       string           `json:"date,omitempty"`
	Time       string           `json:"time,omitempty"`
	Mode       string           `json:"mode,omitempty"` // igst o cgst_sgst (por defecto)
	Items      []QuickEntryItem `json:"items"`
}

// EntryInvoice describe la factura generada para una cuenta enviada.
type EntryInvoice struct {
	Filename   string          `json:"filename"`
	SavedAt    string          `json:"saved_at"`
	Mode       string          `json:"mode"`
	LineCount  int             `json:"line_count"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Words      string          `json:"amount_in_words"`
}

// QuickEntryResponse devuelve las filas guardadas y, si se renderizó, la
// factura de la cuenta.
type QuickEntryResponse struct {
	BillNumber string             `json:"bill_number"`
	Rows       []LineItemResponse `json:"rows"`
	Invoice    *EntryInvoice      `json:"invoice,omitempty"`
	Warning    string             `json:"warning,omitempty"` // se llena cuando no se pudo renderizar la factura
}

// BillListResponse lista los números de cuenta distintos del registro.
type BillListResponse struct {
	Bills []string `json:"bills"`
}
