package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/mawulip/pronostix/external/fedapay"
	"github.com/mawulip/pronostix/external/footballdata"
	"github.com/mawulip/pronostix/external/llmchat"
	"github.com/mawulip/pronostix/internal/config"
	"github.com/mawulip/pronostix/internal/infrastructure/repository/postgres"
	"github.com/mawulip/pronostix/internal/interfaces/httpapi"
	"github.com/mawulip/pronostix/internal/platform/cache"
	idgen "github.com/mawulip/pronostix/internal/platform/id"
	"github.com/mawulip/pronostix/internal/platform/logging"
	"github.com/mawulip/pronostix/internal/platform/resilience"
	"github.com/mawulip/pronostix/internal/usecase"
)

// NewHTTPServer wires the full application: database pool, external
// clients, services, and the HTTP router. The returned cleanup closes
// the database pool and must be called on shutdown.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	appLogger := logging.Default()

	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	cleanup := func(context.Context) error {
		return db.Close()
	}

	footballClient := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballAPIBaseURL,
		APIKey:     cfg.FootballAPIKey,
		Timeout:    cfg.FootballAPITimeout,
		MaxRetries: cfg.FootballAPIMaxRetries,
		Logger:     appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenReq,
		},
	})
	llmClient := llmchat.NewClient(llmchat.ClientConfig{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
		Logger:      appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.LLMCircuitEnabled,
			FailureThreshold: cfg.LLMCircuitFailureCount,
			OpenTimeout:      cfg.LLMCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.LLMCircuitHalfOpenReq,
		},
	})
	fedapayClient := fedapay.NewClient(fedapay.ClientConfig{
		SecretKey:   cfg.FedapaySecretKey,
		Environment: cfg.FedapayEnv,
		Country:     cfg.FedapayCountry,
		Timeout:     cfg.FedapayTimeout,
		Logger:      appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FedapayCircuitEnabled,
			FailureThreshold: cfg.FedapayCircuitFailureCount,
			OpenTimeout:      cfg.FedapayCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FedapayCircuitHalfOpenReq,
		},
	})

	predictionSvc, err := usecase.NewPredictionService(usecase.PredictionServiceConfig{
		Provider:    footballClient,
		LLM:         llmClient,
		Cache:       cache.NewStore(cfg.PredictionCacheTTL),
		Logger:      appLogger,
		FormMatches: cfg.PredictionFormSize,
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("build prediction service: %w", err)
	}
	batchSvc, err := usecase.NewBatchPredictionService(predictionSvc, footballClient, appLogger)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("build batch prediction service: %w", err)
	}
	paymentSvc, err := usecase.NewPaymentService(
		fedapayClient,
		postgres.NewPaymentRepository(db),
		idgen.NewRandomGenerator(),
		appLogger,
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("build payment service: %w", err)
	}

	handler := httpapi.NewHandler(paymentSvc, predictionSvc, batchSvc, appLogger)
	router := httpapi.NewRouter(
		handler,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server, cleanup, nil
}
