// @title                       Sentiment API
// @version                     1.0
// @description                 Register, log in, analyze text sentiment and read back your history.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token returned by /login.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/sentiscope/sentiment-api/docs"
	"github.com/sentiscope/sentiment-api/internal/api"
	"github.com/sentiscope/sentiment-api/internal/api/handler"
	"github.com/sentiscope/sentiment-api/internal/core/domain"
	"github.com/sentiscope/sentiment-api/internal/core/ports"
	"github.com/sentiscope/sentiment-api/internal/core/service"
	"github.com/sentiscope/sentiment-api/internal/infrastructure/classifier"
	"github.com/sentiscope/sentiment-api/internal/infrastructure/config"
	"github.com/sentiscope/sentiment-api/internal/infrastructure/db/memory"
	mongodb "github.com/sentiscope/sentiment-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sentiscope/sentiment-api/internal/infrastructure/db/redis"
	"github.com/sentiscope/sentiment-api/pkg/logger"
)

const serviceName = "sentiment-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	probes := map[string]handler.Pinger{}

	// --- Credential store ---
	var repo ports.AccountRepository
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		accounts := mongodb.NewAccountRepository(db)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = accounts
		probes["mongodb"] = mongodb.NewPinger(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	case config.StoreMemory:
		accounts := memory.NewAccountRepository()
		repo = accounts
		probes["memory"] = accounts
		log.Warn().Msg("using in-memory store, data is lost on restart")
	}

	// --- Idempotency cache (optional) ---
	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()

		idem = redisdb.NewIdempotencyStore(client)
		probes["redis"] = redisdb.NewPinger(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	// --- Core ---
	hf := classifier.NewHuggingFaceClient(classifier.Config{
		URL:     cfg.Classifier.URL,
		APIKey:  cfg.Classifier.APIKey,
		Timeout: cfg.Classifier.Timeout,
	})
	authSvc := service.NewAuthService(repo, cfg.JWTSecret, domain.TokenTTL, log)
	analysisSvc := service.NewAnalysisService(repo, hf, idem, log)

	e := api.NewRouter(api.Dependencies{
		Auth:     authSvc,
		Analysis: analysisSvc,
		Probes:   probes,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
