package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"studymate/internal/adapter/kv"
	"studymate/internal/adapter/repo"
	"studymate/internal/http/handlers"
	"studymate/internal/http/httpapi"
	"studymate/internal/infra"
	"studymate/internal/infra/credentials"
	"studymate/internal/infra/geoip"
	"studymate/internal/infra/google"
	"studymate/internal/learning"
	"studymate/internal/middleware"
	"studymate/internal/payments"
	"studymate/internal/providers/gcp"
	"studymate/internal/providers/generation"
	"studymate/internal/storage"
	"studymate/internal/study"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	users := repo.NewUserRepository(sqlRunner)
	notes := repo.NewNoteRepository(sqlRunner)
	chats := repo.NewChatRepository(sqlRunner)
	tutorRepo := repo.NewTutorRepository(sqlRunner)
	tests := repo.NewMemoryTestRepository(sqlRunner)
	paymentRepo := repo.NewPaymentRepository(sqlRunner)
	stats := repo.NewStatsRepository(sqlRunner)

	checks := map[string]func(context.Context) error{"postgres": dbpool.Ping}
	store, redisPing := newStateStore(ctx, cfg, logger)
	if redisPing != nil {
		checks["redis"] = redisPing
	}
	sessions := learning.NewSessions(store, cfg.StateTTL)
	gate := learning.NewGate(repo.NewUsageCounter(sqlRunner))

	gen, err := newGenerator(ctx, cfg, credentials.NewStore(sqlRunner), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure generation backend")
	}

	gcpOpts := gcp.ClientOptions(cfg.GoogleCredentialsFile, cfg.GoogleCredentialsJSON)
	var ocr study.OCR
	if v, err := gcp.NewVision(ctx, gcpOpts...); err != nil {
		logger.Warn().Err(err).Msg("vision client unavailable; image features disabled")
	} else {
		defer v.Close()
		ocr = v
	}
	var tts study.Synthesizer
	if t, err := gcp.NewTextToSpeech(ctx, gcpOpts...); err != nil {
		logger.Warn().Err(err).Msg("text-to-speech client unavailable")
	} else {
		defer t.Close()
		tts = t
	}
	var stt study.Transcriber
	if s, err := gcp.NewSpeech(ctx, gcpOpts...); err != nil {
		logger.Warn().Err(err).Msg("speech client unavailable")
	} else {
		defer s.Close()
		stt = s
	}

	audioCache, err := storage.NewFileStore(cfg.AudioCacheDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.AudioCacheDir).Msg("failed to prepare audio cache")
	}

	var region middleware.RegionLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		region = resolver.Lookup
	}

	var orders payments.OrderCreator
	if client, err := payments.NewClient(payments.ClientConfig{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		BaseURL:   cfg.RazorpayBaseURL,
	}); err != nil {
		logger.Warn().Err(err).Msg("payments disabled")
	} else {
		orders = client
	}

	var verifier study.IDTokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID)
	}

	app := &handlers.App{
		Accounts:  study.NewAccounts(users, verifier, sessions, logger),
		Notes:     study.NewNotes(gate, gen, notes, ocr, logger),
		Chat:      study.NewChat(gate, gen, chats, ocr, logger),
		Tutor:     study.NewTutor(gate, gen, sessions, tutorRepo, ocr, logger),
		Memory:    study.NewMemoryTests(gen, learning.NewScorer(gen, learning.DefaultScoreConcurrency).WithLogger(logger), notes, tests, sessions, logger),
		Evaluator: study.NewEvaluator(gen),
		Dashboard: study.NewDashboard(stats, users),
		Voice:     study.NewVoice(tts, stt, audioCache, logger),
		Payments: payments.NewService(orders, paymentRepo, users, payments.Config{
			KeySecret:     cfg.RazorpayKeySecret,
			WebhookSecret: cfg.RazorpayWebhookSecret,
			PricePaise:    cfg.ProPricePaise,
		}, logger),
		Users:     users,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.JWTTTL,
		Logger:    logger,

		HealthChecks: checks,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   "en",
		Region:          region,
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().Str("provider", gen.Name()).Str("addr", server.Addr()).Msg("API listening")
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		return
	}
	logger.Info().Msg("server stopped")
}

// newStateStore prefers Redis and falls back to process memory, which loses
// tutor state on restart. The returned ping is nil for the memory store.
func newStateStore(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (learning.StateStore, func(context.Context) error) {
	client, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		if cfg.IsProduction() {
			logger.Fatal().Err(err).Msg("redis is required in production")
		}
		logger.Warn().Err(err).Msg("redis unavailable; using in-memory state store")
		return kv.NewMemoryStore(), nil
	}
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return kv.NewRedisStore(client, "studymate:"), ping
}

// newGenerator resolves API keys, environment first, then the key store.
func newGenerator(ctx context.Context, cfg *infra.Config, keys *credentials.Store, logger zerolog.Logger) (generation.Generator, error) {
	resolve := func(provider, env string) string {
		v, err := keys.Resolve(ctx, provider, env)
		if err != nil {
			logger.Warn().Err(err).Str("provider", provider).Msg("read stored api key")
		}
		return v
	}
	return generation.New(generation.Settings{
		Provider:        cfg.GenerationProvider,
		Timeout:         cfg.GenerationTimeout,
		GroqAPIKey:      resolve(credentials.ProviderGroq, cfg.GroqAPIKey),
		GroqModel:       cfg.GroqModel,
		GroqBaseURL:     cfg.GroqBaseURL,
		AnthropicAPIKey: resolve(credentials.ProviderAnthropic, cfg.AnthropicAPIKey),
		AnthropicModel:  cfg.AnthropicModel,
		OpenAIAPIKey:    resolve(credentials.ProviderOpenAI, cfg.OpenAIAPIKey),
		OpenAIModel:     cfg.OpenAIModel,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		OnWarning: func(reason, detail string) {
			logger.Warn().Str("reason", reason).Str("detail", detail).Msg("generation settings adjusted")
		},
	})
}
