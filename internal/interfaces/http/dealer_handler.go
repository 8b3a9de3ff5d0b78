package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/dto"
)

// DealerHandler atiende el directorio de distribuidores.
type DealerHandler struct {
	uc *billing.DealerUseCase
}

// NewDealerHandler construye el handler.
func NewDealerHandler(uc *billing.DealerUseCase) *DealerHandler {
	return &DealerHandler{uc: uc}
}

// List godoc
// @Summary      Listar distribuidores ordenados por nombre
// @Tags         dealers
// @Produce      json
// @Success      200  {array}  dto.DealerResponse
// @Router       /api/dealers [get]
func (h *DealerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Agregar un distribuidor
// @Tags         dealers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DealerRequest  true  "Distribuidor"
// @Success      201   {object}  dto.DealerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dealers [post]
func (h *DealerHandler) Create(c *fiber.Ctx) error {
	var in dto.DealerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar un distribuidor
// @Tags         dealers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del distribuidor"
// @Param        body  body  dto.DealerRequest  true  "Distribuidor"
// @Success      200   {object}  dto.DealerResponse
// @Router       /api/dealers/{id} [put]
func (h *DealerHandler) Update(c *fiber.Ctx) error {
	var in dto.DealerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un distribuidor
// @Tags         dealers
// @Security     Bearer
// @Param        id  path  string  true  "ID del distribuidor"
// @Success      204
// @Router       /api/dealers/{id} [delete]
func (h *DealerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sync godoc
// @Summary      Importar distribuidores desde una hoja publicada
// @Tags         dealers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DealerSyncRequest  true  "URL de CSV o XLSX"
// @Success      200   {object}  dto.DealerSyncResponse
// @Router       /api/dealers/sync [post]
func (h *DealerHandler) Sync(c *fiber.Ctx) error {
	var in dto.DealerSyncRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Sync(c.UserContext(), in.URL)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
