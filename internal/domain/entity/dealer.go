package entity

import "time"

// Dealer es un cliente del fabricante (el "Customer Name" de la factura).
type Dealer struct {
	ID        string
	Name      string
	GSTIN     string
	Location  string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
