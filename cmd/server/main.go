package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/ireserve/email-api/emails"
	"github.com/ireserve/email-api/emails/handlers"
	"github.com/ireserve/email-api/emails/repository"
	"github.com/ireserve/email-api/emails/services"
	"github.com/ireserve/email-api/internal/database/postgres"
	"github.com/ireserve/email-api/internal/middleware/requestid"
	"github.com/ireserve/email-api/internal/pkg/log"
	platformconfig "github.com/ireserve/email-api/internal/platform/config"
	platformemail "github.com/ireserve/email-api/internal/platform/email"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		stdlog.Fatalf("Failed to load platform config: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		stdlog.Fatalf("Failed to create postgres client: %v", err)
	}
	defer pgClient.Close()

	sender, err := platformemail.NewSMTPSender(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPass,
	)
	if err != nil {
		stdlog.Fatalf("Failed to create SMTP sender: %v", err)
	}

	directoryRepo := repository.NewPostgresDirectoryRepository(pgClient)
	resolver := services.NewAudienceResolver(directoryRepo)
	renderer := services.NewRenderer()
	pool := services.NewDeliveryPool(sender, services.PoolConfig{
		Workers:       cfg.Dispatch.Workers,
		MaxAttempts:   cfg.Dispatch.MaxAttempts,
		RetryBackoff:  cfg.Dispatch.RetryBackoff,
		RatePerSecond: cfg.Dispatch.RatePerSecond,
		SendTimeout:   cfg.Dispatch.SendTimeout,
		FromEmail:     cfg.Email.FromEmail,
		FromName:      cfg.Email.FromName,
	})
	dispatchService := services.NewDispatchService(resolver, renderer, pool)

	// The connection outlives the dispatch bound so a timed-out broadcast
	// still gets its summary response.
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Dispatch.RequestTimeout + 15*time.Second,
		WriteTimeout: cfg.Dispatch.RequestTimeout + 15*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.Error("unhandled error on %s: %v", c.Path(), err)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.WebOrigin,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pgClient.Ping(c.Context()); err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	emails.RegisterRoutes(app, &emails.EmailsHandlers{
		EmailHandler: handlers.NewEmailHandler(dispatchService, cfg.Dispatch.RequestTimeout),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("email API listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		stdlog.Fatalf("Server stopped: %v", err)
	}
}
