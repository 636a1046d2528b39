package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/negocio-pro/internal/application/dto"
	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
	"github.com/tu-usuario/negocio-pro/internal/domain"
)

// pixelGIF es un GIF 1x1 transparente: respuesta de los beacons de apertura
// (viewed, receipt_viewed) embebidos como <img> en emails y páginas.
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackingHandler maneja el endpoint público de tracking (sin auth: el token
// opaco es la capability).
type TrackingHandler struct {
	uc *tracking.UseCase
}

// NewTrackingHandler construye el handler.
func NewTrackingHandler(uc *tracking.UseCase) *TrackingHandler {
	return &TrackingHandler{uc: uc}
}

// TrackEvent registra un evento de interacción con un documento.
// POST /api/track/document-event (público)
func (h *TrackingHandler) TrackEvent(c *fiber.Ctx) error {
	var in dto.TrackEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	result, err := h.uc.Track(c.Context(), in, c.IP(), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token y eventType válidos son requeridos"})
		}
		if errors.Is(err, domain.ErrTokenNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "token de tracking desconocido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	if result.Pixel {
		c.Set(fiber.HeaderContentType, "image/gif")
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(pixelGIF)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
