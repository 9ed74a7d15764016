package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/nodebook-web/auth"
	"github.com/andrewpaige1/nodebook-web/config"
	"github.com/andrewpaige1/nodebook-web/handlers"
	"github.com/andrewpaige1/nodebook-web/middleware"
	"github.com/andrewpaige1/nodebook-web/review"
	"github.com/andrewpaige1/nodebook-web/studyset"
	"github.com/andrewpaige1/nodebook-web/utils"
	"github.com/andrewpaige1/nodebook-web/views"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "nodebook",
		Short:        "Study sets and flashcards on the web",
		SilenceUsage: true,
	}
	config.DefineFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web server",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				// Connect migrates as part of opening the database.
				db, err := config.Connect(cfg.DB)
				if err != nil {
					return err
				}
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	)
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: .env file not loaded, environment variables might be missing: %v", err)
	}
	return config.Load(cmd.Flags())
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := utils.NewLogger(cfg.Log.Level, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := config.Connect(cfg.DB)
	if err != nil {
		return err
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		return err
	}

	cache := studyset.NewCache(cfg.Cache.TTL)
	reviews := review.NewStore(cfg.Review.TTL)
	err = reviews.StartSweeper(cfg.Review.SweepInterval, func(removed int) {
		pruned := cache.Prune()
		if removed > 0 || pruned > 0 {
			sugar.Infow("sweep: dropped idle reviews and expired sets", "reviews", removed, "sets", pruned)
		}
	})
	if err != nil {
		return err
	}
	defer reviews.StopSweeper()

	tokens := auth.NewTokens(cfg.Auth, cfg.CookieSecure())
	authMiddleware, err := middleware.EnsureValidToken(cfg.Auth, tokens, sugar)
	if err != nil {
		return err
	}

	DBHandler := &handlers.DBHandler{
		DB:      db,
		Sets:    studyset.NewService(db, cache, sugar),
		Reviews: reviews,
		Views:   renderer,
		Tokens:  tokens,
		Log:     sugar,
	}

	handler := middleware.RequestLogger(logger)(
		authMiddleware(
			middleware.SyncUser(db, sugar)(
				DBHandler.Routes(cfg.CORS.Origins))))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("listening", "addr", cfg.Addr, "env", cfg.Env)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sugar.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
