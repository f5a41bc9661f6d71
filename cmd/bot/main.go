package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	tareabotroot "github.com/tarealabs/tareabot"
	"github.com/tarealabs/tareabot/internal/config"
	"github.com/tarealabs/tareabot/internal/handler"
	"github.com/tarealabs/tareabot/internal/middleware"
	"github.com/tarealabs/tareabot/internal/repository"
	"github.com/tarealabs/tareabot/internal/repository/postgres"
	"github.com/tarealabs/tareabot/internal/service"
	"github.com/tarealabs/tareabot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(tareabotroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize store and services
	store := postgres.NewStore(pool)
	userService := service.NewUserService(store)
	campaignService := service.NewCampaignService(store)
	submissionService := service.NewSubmissionService(store)
	assignmentService := service.NewAssignmentService(store)
	approvalService := service.NewApprovalService(store)

	// Telegram logger pointer for use in the middleware closure; assigned
	// once the bot exists, before any update is processed.
	var tgLogger *telegram.TelegramLogger

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(),
			middleware.ActorLoader(userService, cfg, func(telegramID int64, name, username string) {
				if tgLogger != nil {
					tgLogger.LogRegistration(telegramID, name, username)
				}
			}),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	// Initialize telegram logger
	tgLogger = telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:               b,
		Cfg:               cfg,
		UserService:       userService,
		CampaignService:   campaignService,
		SubmissionService: submissionService,
		AssignmentService: assignmentService,
		ApprovalService:   approvalService,
		Store:             store,
		TgLogger:          tgLogger,
	})

	// Register all handlers
	h.Register()

	// Start expired assignment cleanup goroutine
	go func() {
		ticker := time.NewTicker(config.AssignmentCleanup)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := assignmentService.CleanupExpired(); removed > 0 {
					slog.Debug("expired assignments cleaned", "count", removed)
				}
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
