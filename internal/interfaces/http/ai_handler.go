package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asha-billing/internal/application/dto"
	"github.com/jhoicas/asha-billing/internal/application/usecase"
)

// AIHandler atiende ediciones y análisis del registro asistidos por IA.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Transform godoc
// @Summary      Proponer una edición del registro con IA
// @Description  Envía el registro y una instrucción en lenguaje natural al modelo.
// @Description  No se guarda nada; para aceptar, enviar las filas devueltas a POST /api/ai/apply.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AITransformRequest  true  "Instrucción"
// @Success      200   {object}  dto.AITransformResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/transform [post]
func (h *AIHandler) Transform(c *fiber.Ctx) error {
	var req dto.AITransformRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Transform(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Analyze godoc
// @Summary      Resumir el registro con IA
// @Tags         ai
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AIAnalysisResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      408  {object}  dto.ErrorResponse
// @Router       /api/ai/analyze [post]
func (h *AIHandler) Analyze(c *fiber.Ctx) error {
	out, err := h.uc.Analyze(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Apply godoc
// @Summary      Reemplazar el registro con las filas de IA aceptadas
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AIApplyRequest  true  "Filas"
// @Success      200   {array}  dto.LineItemResponse
// @Router       /api/ai/apply [post]
func (h *AIHandler) Apply(c *fiber.Ctx) error {
	var req dto.AIApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Apply(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
