package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/usecase"
	"github.com/jhoicas/asha-billing/pkg/jwt"
)

// RouterDeps son los casos de uso detrás de la API. AI puede ser nil.
type RouterDeps struct {
	Invoice   *billing.InvoiceUseCase
	Register  *billing.RegisterUseCase
	Entry     *billing.EntryUseCase
	Export    *billing.ExportUseCase
	Dealers   *billing.DealerUseCase
	AI        *usecase.AIUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Las lecturas son públicas; las escrituras
// necesitan token cuando JWTSecret está definido.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// guard devuelve la cadena de middlewares de una ruta de escritura.
	guard := func(roles ...string) []fiber.Handler {
		if deps.JWTSecret == "" {
			return nil
		}
		return []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(roles...)}
	}
	with := func(h fiber.Handler, roles ...string) []fiber.Handler {
		return append(guard(roles...), h)
	}
	anyRole := []string{jwt.RoleAdmin, jwt.RoleOperator}

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.Invoice)
	api.Get("/invoices/:bill/pdf", invoiceHandler.PDF)
	api.Post("/invoices/:bill/share", with(invoiceHandler.Share, anyRole...)...)

	// Registro y formulario rápido
	itemHandler := NewItemHandler(deps.Register, deps.Entry)
	api.Get("/bills", itemHandler.Bills)
	api.Get("/catalog", itemHandler.Catalog)
	items := api.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", with(itemHandler.Create, anyRole...)...)
	items.Post("/entry", with(itemHandler.Entry, anyRole...)...)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", with(itemHandler.Update, anyRole...)...)
	items.Delete("/:id", with(itemHandler.Delete, anyRole...)...)

	// Exportación
	exportHandler := NewExportHandler(deps.Export)
	api.Get("/export.:format", exportHandler.Export)

	// Distribuidores
	dealerHandler := NewDealerHandler(deps.Dealers)
	dealers := api.Group("/dealers")
	dealers.Get("/", dealerHandler.List)
	dealers.Post("/", with(dealerHandler.Create, anyRole...)...)
	dealers.Post("/sync", with(dealerHandler.Sync, jwt.RoleAdmin)...)
	dealers.Put("/:id", with(dealerHandler.Update, anyRole...)...)
	dealers.Delete("/:id", with(dealerHandler.Delete, jwt.RoleAdmin)...)

	// IA
	if deps.AI != nil {
		aiHandler := NewAIHandler(deps.AI)
		ai := api.Group("/ai")
		ai.Post("/transform", with(aiHandler.Transform, anyRole...)...)
		ai.Post("/analyze", with(aiHandler.Analyze, anyRole...)...)
		ai.Post("/apply", with(aiHandler.Apply, jwt.RoleAdmin)...)
	}
}
