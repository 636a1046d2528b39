package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	infraemail "github.com/tu-usuario/negocio-pro/internal/infrastructure/email"
	"github.com/tu-usuario/negocio-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/negocio-pro/internal/queue"
	"github.com/tu-usuario/negocio-pro/internal/worker"
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
		Service: "worker",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando worker")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	eventRepo := postgres.NewDocumentEventRepository(pool)
	mailer := infraemail.NewResendMailer(cfg.Email.APIKey, cfg.Email.From)

	processor := worker.NewProcessor(
		userRepo, docRepo, eventRepo, mailer,
		cfg.Email.AdminEmail,
		time.Duration(cfg.Tracking.ReconcileWindowHours)*time.Hour,
		log,
	)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// Reconciliación periódica de pagos: converge status de documentos cuyo
	// flip inline a paid falló.
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 5m", queue.NewReconcileTask()); err != nil {
		log.Fatal().Err(err).Msg("registrar tarea de reconciliación")
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Error().Err(err).Msg("scheduler finalizado")
		}
	}()
	go func() {
		if err := srv.Run(processor.Handler()); err != nil {
			log.Fatal().Err(err).Msg("servidor asynq finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando worker...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("worker detenido")
}
