package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"confbot/internal/config"
	"confbot/internal/logging"
	"confbot/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file
	envErr := godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(settings.LogLevel).With().Str("service", "bot-server").Logger()
	if envErr != nil {
		logger.Debug().Msg("no .env file found, using environment variables")
	}

	botConfig, err := config.NewBotConfigService(settings.BotConfigPath).LoadBotConfig()
	if err != nil {
		return fmt.Errorf("failed to load bot config: %w", err)
	}

	router, err := newRouter(settings, botConfig, logger)
	if err != nil {
		return err
	}

	logStartup(logger, settings)
	return server.Run(settings.Addr, router, logger)
}

func logStartup(logger zerolog.Logger, settings config.Settings) {
	logger.Info().
		Str("schema", settings.SchemaServiceURL).
		Str("values", settings.ValuesServiceURL).
		Str("gateway", settings.ModelGatewayURL).
		Str("gateway_api", settings.ModelGatewayAPI).
		Msg("bot server starting")
}
