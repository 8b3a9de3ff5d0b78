package entity

import "github.com/shopspring/decimal"

// BillTotal resume una cuenta del registro: cuántas filas tiene y
// la suma de cantidad × precio antes de impuestos.
type BillTotal struct {
	BillNumber string
	Lines      int
	Taxable    decimal.Decimal
}
