package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/grupovoltera/erp-api/internal/application/dto"
	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
)

// respondError traduz os erros de domínio e do provedor para HTTP.
// Os erros sentinela chegam embrulhados (fmt.Errorf %w); usar errors.Is/As.
func respondError(c *fiber.Ctx, err error) error {
	var authErr *nuvemfiscal.AuthError
	if errors.As(err, &authErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "PROVIDER_AUTH", Message: "credenciais do provedor rejeitadas; verifique client_id/client_secret",
		})
	}
	// Erros do provedor chegam ao chamador como 4xx com mensagem legível
	// (no fluxo de emissão eles viram status ERRO na nota, não resposta).
	var apiErr *nuvemfiscal.APIError
	if errors.As(err, &apiErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "PROVIDER_ERROR", Message: apiErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConfigIncompleta):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CONFIG_INCOMPLETA", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
