package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/imaging"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		st           store.Store
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
		cleanup      *cron.Cron
	)

	switch cfg.StoreDriver {
	case "memory":
		slog.Warn("using in-memory store; data is lost on restart")
		st = store.NewMemoryStore()
	default:
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		st = store.NewGormStore(db)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(logging.StdoutHandler(), pgLogHandler)))

		cleanup, err = logging.StartCleanup(db, cfg.LogRetentionDays)
		if err != nil {
			slog.Error("log cleanup scheduling failed", "error", err)
			os.Exit(1)
		}
	}

	// Services
	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}
	images := imaging.NewNormalizer(imaging.Config{
		MaxBytes:     cfg.ImageMaxBytes,
		MaxPixels:    cfg.ImageMaxPixels,
		MaxDimension: cfg.ImageMaxDimension,
		Quality:      cfg.ImageJPEGQuality,
		Timeout:      cfg.ImageFetchTimeout,
	})
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTResetExpiry)

	authService := services.NewAuthService(st, tokens, mailer, cfg)
	userService := services.NewUserService(st)
	wishlistService := services.NewWishlistService(st)
	itemService := services.NewItemService(st, images, services.NewModerationService())

	// Sentry error tracking
	var extra []fiber.Handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			extra = append(extra, sentryfiber.New(sentryfiber.Options{
				Repanic:         true,
				WaitForDelivery: false,
			}))
		}
	}
	extra = append(extra, fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))

	app := routes.NewApp(cfg, extra...)
	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		User:     handlers.NewUserHandler(userService),
		Wishlist: handlers.NewWishlistHandler(wishlistService),
		Item:     handlers.NewItemHandler(itemService),
		Health:   handlers.NewHealthHandler(st),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if cleanup != nil {
		<-cleanup.Stop().Done()
	}
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	// Close database connections
	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
