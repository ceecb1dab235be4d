package application

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"confbot/internal/features/change/infrastructure"
	configdomain "confbot/internal/features/config/domain"
)

// AppNameResolver maps free text to a known application name.
type AppNameResolver interface {
	// Resolve returns the application and true, or false when nothing matched.
	// Failures of the model gateway are logged, never returned.
	Resolve(ctx context.Context, input string) (string, bool)
}

// appNameResolver matches keywords first and asks the model second.
type appNameResolver struct {
	botConfig *configdomain.BotConfig
	gateway   infrastructure.ModelGateway
	observer  Observer
	logger    zerolog.Logger
}

// NewAppNameResolver creates a new AppNameResolver.
func NewAppNameResolver(botConfig *configdomain.BotConfig, gateway infrastructure.ModelGateway, observer Observer, logger zerolog.Logger) AppNameResolver {
	if observer == nil {
		observer = NopObserver
	}
	return &appNameResolver{botConfig: botConfig, gateway: gateway, observer: observer, logger: logger}
}

func (r *appNameResolver) Resolve(ctx context.Context, input string) (string, bool) {
	log := loggerFrom(ctx, &r.logger)

	if app, ok := MatchKeyword(r.botConfig.Applications, input); ok {
		r.observer.ObserveResolution(ResolvedByKeyword)
		log.Info().Str("app", app).Str("method", ResolvedByKeyword).Msg("application resolved")
		return app, true
	}

	params := r.botConfig.Resolver
	start := time.Now()
	text, err := r.gateway.Complete(ctx, infrastructure.ModelRequest{
		Model:       params.Model,
		Prompt:      buildResolverPrompt(input, r.botConfig.Identifiers()),
		Temperature: params.Temperature,
		Timeout:     params.Timeout,
	})
	if err != nil {
		r.observer.ObserveResolution(ResolvedNone)
		log.Warn().Err(err).
			Str("model", params.Model).
			Str("kind", string(infrastructure.KindOf(err))).
			Dur("elapsed", time.Since(start)).
			Msg("error calling model for app name extraction")
		return "", false
	}

	app := normalizeAppName(text)
	if !r.botConfig.IsKnown(app) {
		r.observer.ObserveResolution(ResolvedNone)
		log.Info().Str("model", params.Model).Str("answer", text).Msg("model named no known application")
		return "", false
	}

	r.observer.ObserveResolution(ResolvedByModel)
	log.Info().Str("app", app).Str("method", ResolvedByModel).Dur("elapsed", time.Since(start)).Msg("application resolved")
	return app, true
}

// MatchKeyword returns the first application, in configured order, with a
// keyword occurring in input. Matching is case-insensitive.
func MatchKeyword(apps []configdomain.Application, input string) (string, bool) {
	lowered := strings.ToLower(input)
	for _, app := range apps {
		for _, keyword := range app.Keywords {
			if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
				return app.Name, true
			}
		}
	}
	return "", false
}

// normalizeAppName lowercases s and keeps only the letters a-z.
func normalizeAppName(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'a' && c <= 'z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
