package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/dto"
)

// ItemHandler atiende el registro de facturación y el formulario rápido.
type ItemHandler struct {
	register *billing.RegisterUseCase
	entry    *billing.EntryUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(register *billing.RegisterUseCase, entry *billing.EntryUseCase) *ItemHandler {
	return &ItemHandler{register: register, entry: entry}
}

// List godoc
// @Summary      Listar las filas del registro en orden de inserción
// @Tags         items
// @Produce      json
// @Success      200  {array}  dto.LineItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.register.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Agregar filas al registro
// @Description  Acepta una fila o un arreglo de filas; un arreglo se guarda completo o nada.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LineItemRequest  true  "Fila(s)"
// @Success      201   {array}   dto.LineItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var many []dto.LineItemRequest
	if err := c.BodyParser(&many); err != nil {
		var one dto.LineItemRequest
		if err := c.BodyParser(&one); err != nil {
			return badBody(c)
		}
		many = []dto.LineItemRequest{one}
	}
	out, err := h.register.AddMany(c.UserContext(), many)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener una fila del registro
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "ID de la fila"
// @Success      200  {object}  dto.LineItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.register.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Sobrescribir una fila del registro
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la fila"
// @Param        body  body  dto.LineItemRequest  true  "Fila"
// @Success      200   {object}  dto.LineItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.LineItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.register.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar una fila del registro
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID de la fila"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.register.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Entry godoc
// @Summary      Enviar el formulario rápido
// @Description  El GST y la ubicación salen del directorio de distribuidores; el HSN del catálogo.
// @Description  La factura de la cuenta se genera justo después de guardar las filas.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuickEntryRequest  true  "Formulario"
// @Success      201   {object}  dto.QuickEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/entry [post]
func (h *ItemHandler) Entry(c *fiber.Ctx) error {
	var in dto.QuickEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.entry.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Catalog godoc
// @Summary      Artículos que el formulario puede facturar
// @Tags         items
// @Produce      json
// @Router       /api/catalog [get]
func (h *ItemHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(h.entry.Catalog().Items)
}

// Bills godoc
// @Summary      Números de cuenta distintos en orden de aparición
// @Tags         items
// @Produce      json
// @Success      200  {object}  dto.BillListResponse
// @Router       /api/bills [get]
func (h *ItemHandler) Bills(c *fiber.Ctx) error {
	bills, err := h.register.Bills(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	if bills == nil {
		bills = []string{}
	}
	return c.JSON(dto.BillListResponse{Bills: bills})
}
