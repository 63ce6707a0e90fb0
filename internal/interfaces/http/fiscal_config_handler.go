package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupovoltera/erp-api/internal/application/dto"
	appfiscal "github.com/grupovoltera/erp-api/internal/application/fiscal"
)

// FiscalConfigHandler configura a emissão fiscal do tenant (protegido).
type FiscalConfigHandler struct {
	uc *appfiscal.ConfigUseCase
}

// NewFiscalConfigHandler constrói o handler.
func NewFiscalConfigHandler(uc *appfiscal.ConfigUseCase) *FiscalConfigHandler {
	return &FiscalConfigHandler{uc: uc}
}

// Get devolve a config do tenant, criando-a na primeira leitura.
// GET /api/fiscal/config
func (h *FiscalConfigHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cfg, err := h.uc.GetConfig(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

// Update altera cadastro, credenciais, certificado e retenções.
// PUT /api/fiscal/config
func (h *FiscalConfigHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateFiscalConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	cfg, err := h.uc.UpdateConfig(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}
