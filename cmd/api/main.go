package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"

	"github.com/tu-usuario/negocio-pro/internal/application/auth"
	"github.com/tu-usuario/negocio-pro/internal/application/crm"
	"github.com/tu-usuario/negocio-pro/internal/application/documents"
	"github.com/tu-usuario/negocio-pro/internal/application/signing"
	"github.com/tu-usuario/negocio-pro/internal/application/tracking"
	infrapdf "github.com/tu-usuario/negocio-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/negocio-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/negocio-pro/internal/infrastructure/s3storage"
	infrasignnow "github.com/tu-usuario/negocio-pro/internal/infrastructure/signnow"
	httpRouter "github.com/tu-usuario/negocio-pro/internal/interfaces/http"
	"github.com/tu-usuario/negocio-pro/internal/queue"
	"github.com/tu-usuario/negocio-pro/pkg/config"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	eventRepo := postgres.NewDocumentEventRepository(pool)
	sigRepo := postgres.NewSignatureRepository(pool)

	// Cola asynq: las notificaciones de tracking se envían fuera de banda.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()
	enqueuer := queue.NewEnqueuer(asynqClient)

	// Archivo de documentos firmados en storage de objetos (MinIO/S3).
	archive, err := s3storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar storage de objetos")
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo verificar el bucket de archivo")
	}

	signProvider := infrasignnow.NewClient(cfg.SignNow)
	pdfGenerator := infrapdf.NewMarotoDocumentGenerator()

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := crm.NewCompanyUseCase(companyRepo)
	clientUC := crm.NewClientUseCase(clientRepo)
	documentUC := documents.NewUseCase(docRepo, clientRepo)
	signingUC := signing.NewSessionUseCase(
		docRepo, sigRepo, userRepo, companyRepo, clientRepo,
		signProvider, pdfGenerator, archive, log,
	)
	trackingUC := tracking.NewUseCase(docRepo, eventRepo, clientRepo, enqueuer, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "NegocioPro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  companyUC,
		ClientUC:   clientUC,
		DocumentUC: documentUC,
		SigningUC:  signingUC,
		TrackingUC: trackingUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
