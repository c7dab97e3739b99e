package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mawulip/pronostix/external/footballdata"
	"github.com/mawulip/pronostix/external/llmchat"
	"github.com/mawulip/pronostix/internal/platform/cache"
	"github.com/mawulip/pronostix/internal/platform/logging"
	"github.com/mawulip/pronostix/internal/usecase"
)

// One-shot prediction runner for local checks: fetches the match context,
// asks the model, and prints the parsed prediction as JSON.
func main() {
	matchID := flag.String("match", "", "match identifier to predict (required)")
	detailed := flag.Bool("detailed", false, "ask the model for a detailed analysis")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall run timeout")
	flag.Parse()

	if *matchID == "" {
		fmt.Fprintln(os.Stderr, "usage: predict -match <id> [-detailed]")
		os.Exit(2)
	}

	footballKey := os.Getenv("FOOTBALL_API_KEY")
	llmKey := os.Getenv("LLM_API_KEY")
	if footballKey == "" || llmKey == "" {
		fmt.Fprintln(os.Stderr, "FOOTBALL_API_KEY and LLM_API_KEY must be set")
		os.Exit(2)
	}

	logger := logging.NewJSON(logging.LevelWarn)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	temperature := 0.3
	if raw := os.Getenv("LLM_TEMPERATURE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid LLM_TEMPERATURE %q\n", raw)
			os.Exit(2)
		}
		temperature = parsed
	}

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL: os.Getenv("FOOTBALL_API_BASE_URL"),
		APIKey:  footballKey,
		Timeout: 20 * time.Second,
		Logger:  logger,
	})
	llm := llmchat.NewClient(llmchat.ClientConfig{
		BaseURL:     os.Getenv("LLM_BASE_URL"),
		APIKey:      llmKey,
		Model:       os.Getenv("LLM_MODEL"),
		Temperature: temperature,
		Timeout:     90 * time.Second,
		Logger:      logger,
	})

	svc, err := usecase.NewPredictionService(usecase.PredictionServiceConfig{
		Provider: provider,
		LLM:      llm,
		Cache:    cache.NewStore(time.Minute),
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	prediction, err := svc.Predict(ctx, *matchID, *detailed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := sonic.MarshalIndent(prediction, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
