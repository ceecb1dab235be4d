package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"confbot/internal/config"
	"confbot/internal/features/change/application"
	"confbot/internal/features/change/infrastructure"
	change_http "confbot/internal/features/change/presentation/http"
	configdomain "confbot/internal/features/config/domain"
	config_http "confbot/internal/features/config/presentation/http"
	docdomain "confbot/internal/features/docstore/domain"
	docinfra "confbot/internal/features/docstore/infrastructure"
	"confbot/internal/metrics"
	"confbot/internal/server"
)

// newRouter wires the bot-server services and routes.
func newRouter(settings config.Settings, botConfig *configdomain.BotConfig, logger zerolog.Logger) (*gin.Engine, error) {
	gateway, err := infrastructure.NewModelGateway(infrastructure.GatewayConfig{
		API:     settings.ModelGatewayAPI,
		BaseURL: settings.ModelGatewayURL,
		APIKey:  settings.ModelGatewayKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model gateway: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize services
	resolver := application.NewAppNameResolver(botConfig, gateway, m, logger)
	changeService := application.NewChangeService(application.ChangeServiceDeps{
		BotConfig: botConfig,
		Resolver:  resolver,
		Schemas:   docinfra.NewDocumentClient(settings.SchemaServiceURL, docdomain.KindSchema, docinfra.DefaultFetchTimeout),
		Values:    docinfra.NewDocumentClient(settings.ValuesServiceURL, docdomain.KindValues, docinfra.DefaultFetchTimeout),
		Gateway:   gateway,
		Observer:  m,
		Logger:    logger,
	})

	r := server.NewRouter(logger)
	change_http.NewChangeHandler(changeService, m, logger).Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	configHandler := config_http.NewBotConfigHandler(botConfig)
	r.GET("/api/config/app", configHandler.GetBotConfigHandler)

	return r, nil
}
