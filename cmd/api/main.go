package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/azulcreative/server/internal/adapter/repo"
	"github.com/azulcreative/server/internal/creative"
	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/gallery"
	"github.com/azulcreative/server/internal/genai"
	"github.com/azulcreative/server/internal/http/handlers"
	"github.com/azulcreative/server/internal/http/httpapi"
	"github.com/azulcreative/server/internal/infra"
	"github.com/azulcreative/server/internal/infra/credentials"
	"github.com/azulcreative/server/internal/infra/geoip"
	"github.com/azulcreative/server/internal/localstore"
	"github.com/azulcreative/server/internal/middleware"
	"github.com/azulcreative/server/internal/retry"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Local cache backend always exists; the remote store is optional.
	backend, err := localstore.NewFileBackend(cfg.CacheDir, cfg.CacheMaxBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open gallery cache")
	}
	cache := localstore.New(backend, logger)

	var (
		pool   *pgxpool.Pool
		remote domain.RemoteGalleryStore
		users  domain.UserStore
	)
	if cfg.RemoteConfigured() {
		pool, err = infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()

		if err := infra.Migrate(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}

		remote = repo.NewCreativeRepository(pool)
		users = repo.NewUserRepository(pool)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, running in local-only mode")
		users = repo.NewUserRepositoryMem()
	}

	bootstrapAdmin(ctx, logger, users)

	apiKey := cfg.GeminiAPIKey
	if apiKey == "" && pool != nil {
		apiKey, err = credentials.NewStore(pool).GeminiAPIKey(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load gemini api key")
		}
	}

	client, err := genai.NewClient(genai.Options{
		APIKey:     apiKey,
		BaseURL:    cfg.GeminiBaseURL,
		ImageModel: cfg.GeminiImageModel,
		TextModel:  cfg.GeminiTextModel,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}

	policy := retry.Policy{
		MaxRetries: uint64(cfg.GenerateRetries),
		Delay:      cfg.GenerateDelay,
	}

	app := &handlers.App{
		Logger:    logger,
		Config:    cfg,
		Gallery:   gallery.New(remote, cache, logger),
		Generator: creative.NewGenerator(client, policy, logger),
		Assistant: creative.NewAssistant(client, logger),
		Users:     users,
	}
	if pool != nil {
		app.DB = pool
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// bootstrapAdmin creates the initial admin account when ADMIN_USERNAME and
// ADMIN_PASSWORD are set and no such user exists yet. In local-only mode
// this is the only way to get an active account without a second tool.
func bootstrapAdmin(ctx context.Context, logger zerolog.Logger, users domain.UserStore) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	if _, err := users.GetByUsername(ctx, username); err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash admin password")
	}

	admin := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.UserRoleAdmin,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.Fatal().Err(err).Msg("failed to create admin user")
	}
	logger.Info().Str("username", username).Msg("bootstrapped admin account")
}
