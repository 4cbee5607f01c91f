package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordbook/internal/handler"
	"wordbook/internal/middleware"
	"wordbook/internal/proxy"
	"wordbook/internal/repository/postgres"
	"wordbook/internal/rest"
	"wordbook/internal/service"
	"wordbook/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the Telegram bot when BOT_TOKEN is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}

	logger.Info("Starting wordbook", zap.String("addr", cfg.Addr()))

	db, err := connectDatabase(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := runMigrations(db, cfg.MigrationsPath, logger); err != nil {
		return err
	}

	wordRepo := postgres.NewWordRepo(db)
	wordService := service.NewWordService(wordRepo, logger)

	var authProxy http.Handler
	if cfg.AuthURL != "" {
		authProxy, err = proxy.New(cfg.AuthURL, logger)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(rest.NewAPI(wordService, logger), authProxy, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var bot *tele.Bot
	if cfg.BotToken != "" {
		bot, err = tele.NewBot(tele.Settings{
			Token:  cfg.BotToken,
			Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		})
		if err != nil {
			return fmt.Errorf("failed to create bot: %w", err)
		}

		authService := service.NewAuthService(
			postgres.NewBotUserRepo(db),
			session.NewClient(cfg.AuthURL, logger),
			logger,
		)
		h := handler.NewHandler(bot, authService, wordService, logger)
		h.RegisterHandlers()

		logger.Info("Telegram bot initialized")
	} else {
		logger.Info("BOT_TOKEN not set, bot disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if bot != nil {
		g.Go(func() error {
			logger.Info("Bot started")
			bot.Start()
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			bot.Stop()
			logger.Info("Bot stopped")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Stopped gracefully")
	return nil
}

// newRouter wires the middleware chain, the auth proxy and the API
func newRouter(api http.Handler, authProxy http.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Email)

	if authProxy != nil {
		r.Mount(proxy.Prefix, authProxy)
	}
	r.Mount("/", api)
	return r
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(ctx context.Context, dsn string, logger *zap.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		db, err = sqlx.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		// Test connection
		if err = db.PingContext(ctx); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// newMigrator binds the migration files at path to db
func newMigrator(db *sqlx.DB, path string) (*migrate.Migrate, error) {
	driver, err := postgresdb.WithInstance(db.DB, &postgresdb.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(path, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// runMigrations applies all pending up migrations
func runMigrations(db *sqlx.DB, path string, logger *zap.Logger) error {
	m, err := newMigrator(db, path)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Migrations applied successfully")
	}
	return nil
}
