package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asha-billing/internal/application/billing"
)

// ExportHandler descarga el registro.
type ExportHandler struct {
	uc *billing.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *billing.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export godoc
// @Summary      Descargar el registro como CSV o XLSX
// @Tags         export
// @Param        format  path  string  true  "csv o xlsx"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/export.{format} [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	file, err := h.uc.Export(c.UserContext(), c.Params("format"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Bytes)
}
