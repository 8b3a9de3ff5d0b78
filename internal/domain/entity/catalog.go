package entity

import "github.com/shopspring/decimal"

// CatalogItem es un producto ofrecido en el formulario rápido.
type CatalogItem struct {
	Name         string          `json:"name"`
	HSN          string          `json:"hsn"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// Catalog es la lista inyectada de artículos que el formulario puede facturar.
type Catalog struct {
	Items []CatalogItem
}

// Find devuelve el artículo del catálogo con el nombre dado.
func (c Catalog) Find(name string) (CatalogItem, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return CatalogItem{}, false
}

// DefaultCatalog es la lista de productos incorporada, ordenada por nombre.
func DefaultCatalog() Catalog {
	items := []CatalogItem{
		{Name: "Air Cooler", HSN: "8479"},
		{Name: "Ceiling Fan", HSN: "8414"},
		{Name: "Madhani 20kg", HSN: "8414"},
		{Name: "Madhani 5kg", HSN: "8414"},
		{Name: "Pedestal Base, Pipe, Blade", HSN: "8414", DefaultPrice: decimal.NewFromInt(600)},
		{Name: "Pedestal Fan", HSN: "8414"},
		{Name: "Pedestal Fan without Jaal", HSN: "8414"},
		{Name: "Room Heater", HSN: "8516"},
	}
	return Catalog{Items: items}
}
