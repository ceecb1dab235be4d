package application

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Observer receives counters about resolutions and edit attempts.
type Observer interface {
	ObserveResolution(method string)
	ObserveAttempt(model, outcome string, elapsed time.Duration)
}

// Resolution methods reported to the Observer.
const (
	ResolvedByKeyword = "keyword"
	ResolvedByModel   = "model"
	ResolvedNone      = "none"
)

type nopObserver struct{}

func (nopObserver) ObserveResolution(string)                     {}
func (nopObserver) ObserveAttempt(string, string, time.Duration) {}

// NopObserver discards all observations.
var NopObserver Observer = nopObserver{}

// loggerFrom prefers the request-scoped logger carried by ctx.
func loggerFrom(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
