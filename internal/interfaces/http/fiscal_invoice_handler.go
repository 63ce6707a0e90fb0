package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupovoltera/erp-api/internal/application/dto"
	appfiscal "github.com/grupovoltera/erp-api/internal/application/fiscal"
)

// FiscalInvoiceHandler emissão e ciclo de vida das notas fiscais (protegido).
type FiscalInvoiceHandler struct {
	emitUC      *appfiscal.EmitInvoiceUseCase
	lifecycleUC *appfiscal.LifecycleUseCase
	downloadUC  *appfiscal.DownloadUseCase
}

// NewFiscalInvoiceHandler constrói o handler.
func NewFiscalInvoiceHandler(
	emitUC *appfiscal.EmitInvoiceUseCase,
	lifecycleUC *appfiscal.LifecycleUseCase,
	downloadUC *appfiscal.DownloadUseCase,
) *FiscalInvoiceHandler {
	return &FiscalInvoiceHandler{
		emitUC:      emitUC,
		lifecycleUC: lifecycleUC,
		downloadUC:  downloadUC,
	}
}

// Emit emite uma nota (NFE ou NFSE) a partir de uma proposta.
// POST /api/fiscal/invoices
func (h *FiscalInvoiceHandler) Emit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.EmitInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	inv, err := h.emitUC.Emit(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// List lista as notas do tenant, com filtro opcional por status.
// GET /api/fiscal/invoices?status=&limit=&offset=
func (h *FiscalInvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parâmetros de página inválidos"})
	}
	out, err := h.lifecycleUC.ListInvoices(c.Context(), companyID, c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID devolve a nota com o snapshot de itens.
// GET /api/fiscal/invoices/:id
func (h *FiscalInvoiceHandler) GetByID(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	inv, err := h.lifecycleUC.GetInvoice(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Status sincroniza o status local com o provedor (no-op em estado terminal).
// GET /api/fiscal/invoices/:id/status
func (h *FiscalInvoiceHandler) Status(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	inv, err := h.lifecycleUC.ConsultarStatus(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Cancel cancela a nota no provedor e localmente.
// POST /api/fiscal/invoices/:id/cancel
func (h *FiscalInvoiceHandler) Cancel(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	inv, err := h.lifecycleUC.Cancelar(c.Context(), companyID, id, in.Motivo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// EditValue corrige o valor da nota com trilha de auditoria.
// PATCH /api/fiscal/invoices/:id/value
func (h *FiscalInvoiceHandler) EditValue(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	userID := GetUserID(c)
	var in dto.EditInvoiceValueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	inv, err := h.lifecycleUC.EditarValor(c.Context(), companyID, id, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// ListValueEdits lista a trilha de correções de valor.
// GET /api/fiscal/invoices/:id/value-edits
func (h *FiscalInvoiceHandler) ListValueEdits(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	edits, err := h.lifecycleUC.ListValueEdits(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(edits)
}

// XML baixa o XML autorizado (com checagem de integridade da chave).
// GET /api/fiscal/invoices/:id/xml
func (h *FiscalInvoiceHandler) XML(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	xml, err := h.downloadUC.BaixarXML(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="nota-`+id+`.xml"`)
	return c.Send(xml)
}

// PDF baixa o PDF oficial do provedor (DANFE / NFS-e).
// GET /api/fiscal/invoices/:id/pdf
func (h *FiscalInvoiceHandler) PDF(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	pdf, err := h.downloadUC.BaixarPDF(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="nota-`+id+`.pdf"`)
	return c.Send(pdf)
}

// Espelho gera o PDF de conferência local (qualquer status).
// GET /api/fiscal/invoices/:id/espelho
func (h *FiscalInvoiceHandler) Espelho(c *fiber.Ctx) error {
	companyID, id, ok := companyAndID(c)
	if !ok {
		return nil
	}
	pdf, err := h.downloadUC.GerarEspelho(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="espelho-`+id+`.pdf"`)
	return c.Send(pdf)
}

// companyAndID extrai tenant e id da rota. Quando falta algum, escreve a
// resposta de erro e devolve ok=false para o handler encerrar.
func companyAndID(c *fiber.Ctx) (companyID, id string, ok bool) {
	companyID = GetCompanyID(c)
	if companyID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		return "", "", false
	}
	id = c.Params("id")
	if id == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id obrigatório"})
		return "", "", false
	}
	return companyID, id, true
}
