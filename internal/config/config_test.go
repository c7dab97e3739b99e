package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FOOTBALL_API_KEY", "football-key")
	t.Setenv("LLM_API_KEY", "llm-key")
	t.Setenv("FEDAPAY_SECRET_KEY", "sk_sandbox_123")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("expected default HTTPAddr :3000, got %q", cfg.HTTPAddr)
	}
	if cfg.FedapayEnv != FedapayEnvSandbox {
		t.Fatalf("expected default FEDAPAY_ENV sandbox, got %q", cfg.FedapayEnv)
	}
	if cfg.FedapayCountry != "tg" {
		t.Fatalf("expected default FEDAPAY_COUNTRY tg, got %q", cfg.FedapayCountry)
	}
	if cfg.PredictionCacheTTL != 10*time.Minute {
		t.Fatalf("expected default PREDICTION_CACHE_TTL 10m, got %s", cfg.PredictionCacheTTL)
	}
	if cfg.LLMModel != "deepseek-chat" {
		t.Fatalf("unexpected default LLM model: %q", cfg.LLMModel)
	}
	if cfg.LLMTemperature != 0.3 {
		t.Fatalf("unexpected default LLM temperature: %v", cfg.LLMTemperature)
	}
	if cfg.FootballAPIBaseURL != "https://apiv3.apifootball.com" {
		t.Fatalf("unexpected default football API base URL: %q", cfg.FootballAPIBaseURL)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled outside prod")
	}
}

func TestLoad_PortOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8081" {
		t.Fatalf("expected HTTPAddr :8081, got %q", cfg.HTTPAddr)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid PORT")
	}
}

func TestLoad_MissingFedapaySecretKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_API_KEY", "football-key")
	t.Setenv("LLM_API_KEY", "llm-key")
	t.Setenv("FEDAPAY_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when FEDAPAY_SECRET_KEY is missing")
	}
}

func TestLoad_InvalidFedapayEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FEDAPAY_ENV", "staging")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid FEDAPAY_ENV")
	}
}

func TestLoad_SwaggerDisabledByDefaultInProd(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled by default in prod")
	}
}

func TestLoad_CircuitKnobs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("LLM_CIRCUIT_FAILURE_COUNT", "9")
	t.Setenv("LLM_CIRCUIT_OPEN_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LLMCircuitFailureCount != 9 {
		t.Fatalf("unexpected LLM circuit failure count: %d", cfg.LLMCircuitFailureCount)
	}
	if cfg.LLMCircuitOpenTimeout != 45*time.Second {
		t.Fatalf("unexpected LLM circuit open timeout: %s", cfg.LLMCircuitOpenTimeout)
	}
}

func TestLoad_InvalidCircuitKnobIsRejected(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FEDAPAY_CIRCUIT_FAILURE_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for FEDAPAY_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/project"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/project" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}
