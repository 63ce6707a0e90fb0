package http

import (
	"github.com/gofiber/fiber/v2"

	appfiscal "github.com/grupovoltera/erp-api/internal/application/fiscal"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	ConfigUC    *appfiscal.ConfigUseCase
	EmitUC      *appfiscal.EmitInvoiceUseCase
	LifecycleUC *appfiscal.LifecycleUseCase
	DownloadUC  *appfiscal.DownloadUseCase
	JWTSecret   string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Configuração fiscal do tenant (protegido)
	fiscal := protected.Group("/fiscal")
	configHandler := NewFiscalConfigHandler(deps.ConfigUC)
	fiscal.Get("/config", configHandler.Get)
	fiscal.Put("/config", configHandler.Update)

	// Notas fiscais (protegido)
	invoices := fiscal.Group("/invoices")
	invoiceHandler := NewFiscalInvoiceHandler(deps.EmitUC, deps.LifecycleUC, deps.DownloadUC)
	invoices.Post("/", invoiceHandler.Emit)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/status", invoiceHandler.Status)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Patch("/:id/value", invoiceHandler.EditValue)
	invoices.Get("/:id/value-edits", invoiceHandler.ListValueEdits)
	invoices.Get("/:id/xml", invoiceHandler.XML)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/espelho", invoiceHandler.Espelho)
}
