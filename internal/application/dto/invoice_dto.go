package dto

import "github.com/shopspring/decimal"

// ShareInvoiceRequest cuerpo para POST /api/invoices/:bill/share.
type ShareInvoiceRequest struct {
	Mode  string `json:"mode,omitempty"` // igst o cgst_sgst
	Email string `json:"email,omitempty"`
}

// ShareInvoiceResponse trae los enlaces de una factura compartida.
type ShareInvoiceResponse struct {
	BillNumber  string          `json:"bill_number"`
	Filename    string          `json:"filename"`
	URL         string          `json:"url"`
	WhatsAppURL string          `json:"whatsapp_url"`
	Message     string          `json:"message"`
	ExpiresAt   string          `json:"expires_at"`
	Emailed     bool            `json:"emailed"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Words       string          `json:"amount_in_words"`
	Warning     string          `json:"warning,omitempty"` // se llena cuando no se pudo enviar el correo
}
