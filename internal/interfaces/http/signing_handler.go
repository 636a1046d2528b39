package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/negocio-pro/internal/application/dto"
	"github.com/tu-usuario/negocio-pro/internal/application/signing"
	"github.com/tu-usuario/negocio-pro/internal/domain"
)

// SigningHandler maneja la sesión de firma de un documento (protegido).
// Las respuestas llevan el estado de la sesión; los fallos del proveedor de
// firma llegan como state="error" con HTTP 200, no como 5xx: el usuario
// reintenta volviendo a llamar Start.
type SigningHandler struct {
	uc *signing.SessionUseCase
}

// NewSigningHandler construye el handler.
func NewSigningHandler(uc *signing.SessionUseCase) *SigningHandler {
	return &SigningHandler{uc: uc}
}

// Start abre (o re-adjunta) la sesión de firma del documento.
// POST /api/documents/:type/:id/signing/start
func (h *SigningHandler) Start(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de documento desconocido"})
	}
	resp, err := h.uc.Start(c.Context(), companyID, userID, docType, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// Complete confirma la firma (acción explícita o postMessage del frame).
// POST /api/documents/:type/:id/signing/complete
func (h *SigningHandler) Complete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de documento desconocido"})
	}
	resp, err := h.uc.Complete(c.Context(), companyID, docType, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

func (h *SigningHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
