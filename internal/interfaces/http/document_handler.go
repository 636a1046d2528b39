package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/negocio-pro/internal/application/documents"
	"github.com/tu-usuario/negocio-pro/internal/application/dto"
	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// DocumentHandler maneja las siete variantes de documento bajo una misma
// superficie: el segmento :type de la ruta selecciona la variante.
type DocumentHandler struct {
	uc         *documents.UseCase
	trackingUC *tracking.UseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.UseCase, trackingUC *tracking.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, trackingUC: trackingUC}
}

// docTypeParam resuelve el segmento :type a la variante. Segundo valor false
// si el tipo no pertenece al conjunto cerrado.
func docTypeParam(c *fiber.Ctx) (entity.DocType, bool) {
	dt := entity.DocType(c.Params("type"))
	return dt, dt.Valid()
}

// Create crea un documento en draft con sus líneas.
// POST /api/documents/:type
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de documento desconocido"})
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), companyID, userID, docType, in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// GetByID obtiene un documento con sus líneas.
// GET /api/documents/:type/:id
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de documento desconocido"})
	}
	doc, err := h.uc.Get(c.Context(), companyID, docType, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(doc)
}

// List lista documentos de una variante.
// GET /api/documents/:type
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de documento desconocido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	docs, err := h.uc.List(c.Context(), companyID, docType, page)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(docs)
}

// Send marca el documento como enviado y asigna el token de tracking.
// POST /api/documents/:type/:id/send
func (h *DocumentHandler) Send(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de documento desconocido"})
	}
	doc, err := h.uc.Send(c.Context(), companyID, docType, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(doc)
}

// ListEvents devuelve el historial de eventos del documento (vista del dueño).
// GET /api/documents/:type/:id/events
func (h *DocumentHandler) ListEvents(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de documento desconocido"})
	}
	events, err := h.trackingUC.ListEvents(c.Context(), companyID, docType, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(events)
}

func (h *DocumentHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento o cliente no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "número de documento duplicado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
