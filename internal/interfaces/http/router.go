package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/negocio-pro/internal/application/auth"
	"github.com/tu-usuario/negocio-pro/internal/application/crm"
	"github.com/tu-usuario/negocio-pro/internal/application/documents"
	"github.com/tu-usuario/negocio-pro/internal/application/signing"
	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *crm.CompanyUseCase
	ClientUC   *crm.ClientUseCase
	DocumentUC *documents.UseCase
	SigningUC  *signing.SessionUseCase
	TrackingUC *tracking.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Tracking (público: el token opaco es el control de acceso)
	trackingHandler := NewTrackingHandler(deps.TrackingUC)
	api.Post("/track/document-event", trackingHandler.TrackEvent)

	// Companies: crear es público (onboarding); el resto protegido
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/companies/me", companyHandler.Me)
	protected.Put("/companies/me", RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)

	// Documents (protegido): :type selecciona la variante
	docs := protected.Group("/documents/:type")
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.TrackingUC)
	docs.Post("/", documentHandler.Create)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.GetByID)
	docs.Post("/:id/send", documentHandler.Send)
	docs.Get("/:id/events", documentHandler.ListEvents)

	// Signing session (protegido)
	signingHandler := NewSigningHandler(deps.SigningUC)
	docs.Post("/:id/signing/start", signingHandler.Start)
	docs.Post("/:id/signing/complete", signingHandler.Complete)
}
