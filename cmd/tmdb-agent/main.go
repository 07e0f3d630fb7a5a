// Command tmdb-agent answers one natural language movie question from the
// command line and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bububa/tmdb-agent/agents"
	"github.com/bububa/tmdb-agent/components"
	"github.com/bububa/tmdb-agent/config"
	"github.com/bububa/tmdb-agent/pipeline"
	"github.com/bububa/tmdb-agent/tools/tmdb"
)

func main() {
	var (
		configPath string
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.BoolVar(&verbose, "v", false, "verbose pipeline logging")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: tmdb-agent [-config file] [-v] <question about movies>")
		os.Exit(2)
	}

	// .env is optional, real environment wins either way
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := components.NewInstructor(cfg.InstructorProvider(), cfg.ModelKey(), cfg.BaseURL)
	api := tmdb.New(cfg.TMDBToken)
	pipe := pipeline.New(api, api, []agents.Option{
		agents.WithClient(client),
		agents.WithModel(cfg.Model),
		agents.WithTemperature(cfg.Temperature),
		agents.WithMaxTokens(cfg.MaxTokens),
	}, pipeline.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipe.Ask(ctx, query)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(result.Answer.Answer)
	if result.Answer.DataSummary != "" {
		fmt.Println()
		fmt.Println(result.Answer.DataSummary)
	}
	if len(result.Unresolved) > 0 {
		fmt.Println()
		fmt.Println("Could not identify:", strings.Join(result.Unresolved, ", "))
	}
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
