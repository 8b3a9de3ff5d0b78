package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/dto"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
)

// Cabeceras de respuesta que describen una factura generada.
const (
	HeaderAmountWords = "X-Amount-Words"
	HeaderGrandTotal  = "X-Grand-Total"
)

// InvoiceHandler entrega facturas generadas.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// PDF godoc
// @Summary      Descargar la factura de una cuenta
// @Tags         invoices
// @Produce      application/pdf
// @Param        bill  path   string  true   "Número de cuenta, coincidencia exacta"
// @Param        mode  query  string  false  "igst o cgst_sgst (por defecto)"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{bill}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	doc, err := h.generate(c, c.Query("mode"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", doc.Filename))
	c.Set(HeaderGrandTotal, gst.FormatMoney(doc.GrandTotal))
	if doc.WordsOverflow {
		c.Set(HeaderAmountWords, "overflow")
	}
	return c.Send(doc.Bytes)
}

// Share godoc
// @Summary      Subir la factura y devolver enlaces para compartir
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        bill  path  string                   true   "Número de cuenta"
// @Param        body  body  dto.ShareInvoiceRequest  false  "Modo de impuesto y correo opcional"
// @Success      200   {object}  dto.ShareInvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/invoices/{bill}/share [post]
func (h *InvoiceHandler) Share(c *fiber.Ctx) error {
	var in dto.ShareInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	doc, err := h.generate(c, in.Mode)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Share(c.UserContext(), doc, billing.ShareRequest{Email: strings.TrimSpace(in.Email)})
	if err != nil && res == nil {
		return writeError(c, err)
	}
	out := dto.ShareInvoiceResponse{
		BillNumber:  doc.BillNumber,
		Filename:    doc.Filename,
		URL:         res.URL,
		WhatsAppURL: res.WhatsAppURL,
		Message:     res.Message,
		ExpiresAt:   res.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Emailed:     res.Emailed,
		GrandTotal:  doc.GrandTotal,
		Words:       doc.Words,
	}
	if err != nil {
		// Subida, pero falló el correo: igual se entrega el enlace.
		out.Warning = err.Error()
	}
	return c.JSON(out)
}

func (h *InvoiceHandler) generate(c *fiber.Ctx, rawMode string) (*billing.GeneratedDocument, error) {
	bill, err := url.PathUnescape(c.Params("bill"))
	if err != nil || strings.TrimSpace(bill) == "" {
		return nil, fmt.Errorf("%w: bill number", domain.ErrInvalidInput)
	}
	mode, err := gst.ParseTaxMode(rawMode)
	if err != nil {
		return nil, err
	}
	doc, err := h.uc.GenerateFromRepository(c.UserContext(), bill, mode)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoMatchingRows, bill)
	}
	return doc, nil
}
