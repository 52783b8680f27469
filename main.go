package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chiludos-backend/broker"
	"chiludos-backend/config"
	"chiludos-backend/routes"
	"chiludos-backend/seeders"
	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := config.NewLogger("chiludos-backend", cfg.IsProduction())
	if cfg.JWTSecretGenerated {
		logger.Warn("JWT_SECRET not set, using a random secret for this run")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	if cfg.SeedData {
		admin := seeders.Admin{Username: cfg.Admin.Username, Email: cfg.Admin.Email, Password: cfg.Admin.Password}
		if err := seeders.Seed(ctx, db, admin, logger); err != nil {
			return err
		}
	}

	var events services.EventPublisher = services.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		mq, err := broker.Connect(cfg.RabbitMQURL, logger)
		if err != nil {
			return err
		}
		defer mq.Close()
		events = mq
	} else {
		logger.Info("RABBITMQ_URL not set, domain events are not published")
	}

	r := routes.SetupRouter(routes.Dependencies{
		Config: cfg,
		DB:     db,
		Logger: logger,
		Tokens: utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Events: events,
	})
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Twilio.Enabled() {
		sender := services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber)
		reminders := services.NewReminderService(db, sender, logger)
		g.Go(func() error {
			return reminders.Run(ctx, cfg.ReminderCron)
		})
	} else {
		logger.Info("Twilio credentials not set, reservation reminders disabled")
	}

	return g.Wait()
}

func printRoutes(r *gin.Engine, logger *slog.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", "method", route.Method, "path", route.Path)
	}
}
