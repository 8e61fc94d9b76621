package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"adstudio/internal/auth"
	"adstudio/internal/domain"
	"adstudio/internal/generate"
	"adstudio/internal/http/handlers"
	"adstudio/internal/http/httpapi"
	"adstudio/internal/infra"
	"adstudio/internal/infra/geoip"
	"adstudio/internal/middleware"
	"adstudio/internal/providers/image"
	"adstudio/internal/providers/video"
	"adstudio/internal/storage"
	"adstudio/internal/store/memory"
	"adstudio/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	// Stores: Postgres when a database is configured, in-memory otherwise.
	var (
		users  domain.UserStore
		videos domain.VideoStore
	)
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		store := postgres.NewStore(dbpool)
		users, videos = store, store
		logger.Info().Msg("using postgres store")
	} else {
		store := memory.NewStore()
		users, videos = store, store
		logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
	}

	// AI providers are optional; without an API key the endpoints answer 503.
	var generator video.Generator
	var editor image.Editor
	if cfg.GeminiAPIKey != "" {
		veo, err := video.NewVeo(ctx, video.VeoOptions{APIKey: cfg.GeminiAPIKey, Model: cfg.VeoModel})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init video provider")
		}
		generator = veo

		gemini, err := image.NewGeminiEditor(ctx, image.GeminiOptions{APIKey: cfg.GeminiAPIKey, Model: cfg.EditModel})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init image editor")
		}
		editor = gemini
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, generation and editing disabled")
	}

	var google auth.GoogleVerifier
	if cfg.GoogleClientID != "" {
		verifier, err := auth.NewGoogleIDTokenVerifier(cfg.GoogleClientID)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init google verifier")
		}
		google = verifier
	}

	// Generated videos are inlined as data URIs unless a storage dir is set.
	var media *storage.FileStore
	if cfg.StorageDir != "" {
		media, err = storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init file store")
		}
	}

	var country middleware.CountryLookup
	if cfg.GeoIPDBPath != "" {
		resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open geoip database")
		}
		defer resolver.Close()
		country = resolver.CountryCode
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	svc := generate.NewService(generator, videos, generate.Options{
		Interval:     cfg.PollInterval,
		MaxWait:      cfg.PollMaxWait,
		Media:        media,
		MediaBaseURL: cfg.StorageBaseURL,
		Logger:       logger,
	})

	app := &handlers.App{
		Logger:    logger,
		Users:     users,
		Videos:    videos,
		Tokens:    tokens,
		Google:    google,
		Editor:    editor,
		Generator: svc,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Verifier:        tokens,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Country:         country,
		StaticDir:       cfg.StorageDir,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
