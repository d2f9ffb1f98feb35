// Command weather is an interactive terminal client for the weather lookup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobby-s-dev/weather-lookup/internal/config"
	"github.com/bobby-s-dev/weather-lookup/internal/logging"
	"github.com/bobby-s-dev/weather-lookup/internal/services"
	"github.com/bobby-s-dev/weather-lookup/internal/ui"
	"github.com/bobby-s-dev/weather-lookup/pkg/client"
	"go.uber.org/zap"
)

func main() {
	city := flag.String("city", "", "city to look up on start")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error), defaults to LOG_LEVEL")
	flag.Parse()

	if err := run(*city, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "weather:", err)
		os.Exit(1)
	}
}

// resolveLogLevel prefers an explicit -log-level over LOG_LEVEL.
func resolveLogLevel(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Server.LogLevel
}

func run(city, logLevel string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(resolveLogLevel(logLevel, cfg))
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	owm := client.NewOpenWeatherClient(
		cfg.WeatherAPI.OpenWeatherAPIKey,
		cfg.WeatherAPI.OpenWeatherURL,
		client.ClientConfig{
			Timeout:        cfg.WeatherAPI.Timeout,
			Threshold:      cfg.CircuitBreaker.Threshold,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
		logger,
	)
	adapter := services.NewAdapter(owm, cfg.Display.Location, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console := ui.NewConsole(adapter, os.Stdout, logger)
	if city != "" {
		console.Search(ctx, city)
	}
	return console.Run(ctx, os.Stdin)
}
