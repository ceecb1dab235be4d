package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"confbot/internal/features/change/domain"
	"confbot/internal/features/change/infrastructure"
	configdomain "confbot/internal/features/config/domain"
	docinfra "confbot/internal/features/docstore/infrastructure"
)

// ChangeService defines the interface for the change application service.
type ChangeService interface {
	// ApplyChange resolves the application named in input, loads its documents
	// and returns the values document as edited by the model.
	ApplyChange(ctx context.Context, input string) (json.RawMessage, error)
}

// ChangeServiceDeps are the collaborators of the change service.
type ChangeServiceDeps struct {
	BotConfig *configdomain.BotConfig
	Resolver  AppNameResolver
	Schemas   docinfra.DocumentFetcher
	Values    docinfra.DocumentFetcher
	Gateway   infrastructure.ModelGateway
	Observer  Observer
	Logger    zerolog.Logger
}

// changeService is the implementation of ChangeService.
type changeService struct {
	deps ChangeServiceDeps
}

// NewChangeService creates a new instance of changeService.
func NewChangeService(deps ChangeServiceDeps) ChangeService {
	if deps.Observer == nil {
		deps.Observer = NopObserver
	}
	return &changeService{deps: deps}
}

// ApplyChange runs RESOLVE_APP, FETCH_SCHEMA, FETCH_VALUES and APPLY_EDIT in
// order, stopping at the first stage that fails.
func (s *changeService) ApplyChange(ctx context.Context, input string) (json.RawMessage, error) {
	log := loggerFrom(ctx, &s.deps.Logger)
	log.Info().Str("stage", string(domain.StageResolveApp)).Str("input", input).Msg("change request received")

	app, ok := s.deps.Resolver.Resolve(ctx, input)
	if !ok {
		log.Info().Str("stage", string(domain.StageResolveApp)).Msg("application not identified")
		return nil, domain.ErrNotIdentified
	}

	log.Info().Str("stage", string(domain.StageFetchSchema)).Str("app", app).Msg("fetching schema")
	schema, err := s.deps.Schemas.Fetch(ctx, app)
	if err == nil && isEmptyDocument(schema) {
		err = errors.New("empty schema document")
	}
	if err != nil {
		log.Warn().Err(err).Str("stage", string(domain.StageFetchSchema)).Str("app", app).Msg("error fetching schema")
		return nil, &domain.NotFoundError{App: app, Kind: domain.ErrSchemaNotFound, Err: err}
	}

	log.Info().Str("stage", string(domain.StageFetchValues)).Str("app", app).Msg("fetching values")
	values, err := s.deps.Values.Fetch(ctx, app)
	if err == nil && isEmptyDocument(values) {
		err = errors.New("empty values document")
	}
	if err != nil {
		log.Warn().Err(err).Str("stage", string(domain.StageFetchValues)).Str("app", app).Msg("error fetching values")
		return nil, &domain.NotFoundError{App: app, Kind: domain.ErrValuesNotFound, Err: err}
	}
	log.Info().Str("app", app).Int("schema_bytes", len(schema)).Int("values_bytes", len(values)).Msg("data loaded")

	if mib, found := sampleMemoryLimitMiB(values); found {
		log.Debug().Float64("limit_mib", mib).Bool("looks_like_mib", mib < 100000).Msg("memory unit sample")
	}

	log.Info().Str("stage", string(domain.StageApplyEdit)).Str("app", app).Msg("applying edit")
	edited, err := s.applyEdit(ctx, log, input, values)
	if err != nil {
		log.Error().Err(err).Str("stage", string(domain.StageApplyEdit)).Str("app", app).Msg("edit failed")
		return nil, err
	}

	log.Info().Str("stage", string(domain.StageRespond)).Str("app", app).Int("bytes", len(edited)).Msg("change applied")
	return edited, nil
}

// applyEdit walks the model ladder until one candidate's output parses.
func (s *changeService) applyEdit(ctx context.Context, log *zerolog.Logger, input string, values json.RawMessage) (json.RawMessage, error) {
	prompt, err := buildEditPrompt(input, values)
	if err != nil {
		return nil, err
	}

	edit := s.deps.BotConfig.Edit
	result, err := Fallback(edit.Candidates, func(candidate configdomain.ModelCandidate) (json.RawMessage, error) {
		return s.attemptEdit(ctx, log, candidate, prompt)
	})
	if err != nil {
		var ladderErr *LadderError
		if errors.As(err, &ladderErr) {
			log.Error().Int("attempts", ladderErr.Attempts()).Msg("all models failed")
			return nil, &domain.ExhaustedError{
				PreferredModel: s.deps.BotConfig.PreferredModel(),
				Attempts:       ladderErr.Attempts(),
				Last:           ladderErr.Last(),
			}
		}
		return nil, err
	}
	return result, nil
}

// attemptEdit is one rung of the ladder: call, repair, strict parse.
func (s *changeService) attemptEdit(ctx context.Context, log *zerolog.Logger, candidate configdomain.ModelCandidate, prompt string) (json.RawMessage, error) {
	edit := s.deps.BotConfig.Edit
	log.Info().Str("model", candidate.Name).Str("description", candidate.Description).Msg("trying model")

	start := time.Now()
	text, err := s.deps.Gateway.Complete(ctx, infrastructure.ModelRequest{
		Model:       candidate.Name,
		Prompt:      prompt,
		Temperature: edit.Temperature,
		Format:      edit.Format,
		NumPredict:  edit.NumPredict,
		Timeout:     edit.Timeout,
	})
	elapsed := time.Since(start)
	if err != nil {
		kind := infrastructure.KindOf(err)
		if kind == "" {
			kind = "error"
		}
		s.deps.Observer.ObserveAttempt(candidate.Name, string(kind), elapsed)

		event := log.Warn().Err(err).Str("model", candidate.Name).Dur("elapsed", elapsed)
		switch kind {
		case infrastructure.FailureTimeout:
			event.Msg("model timed out")
		case infrastructure.FailureUnavailable:
			event.Msg("model not available, trying next")
		default:
			event.Msg("error with model")
		}
		return nil, err
	}
	log.Info().Str("model", candidate.Name).Int("chars", len(text)).Dur("elapsed", elapsed).Msg("got response")

	doc, err := ParseObject(Repair(text))
	if err != nil {
		s.deps.Observer.ObserveAttempt(candidate.Name, "parse_error", elapsed)
		event := log.Warn().Err(err).Str("model", candidate.Name).Dur("elapsed", elapsed)
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			event = event.Int64("offset", parseErr.Offset).Str("near", parseErr.Window)
		}
		event.Msg("JSON parse failed")
		return nil, fmt.Errorf("model %s: %w", candidate.Name, err)
	}

	s.deps.Observer.ObserveAttempt(candidate.Name, "success", elapsed)
	log.Info().Str("model", candidate.Name).Dur("elapsed", elapsed).Msg("model succeeded")
	return doc, nil
}

// isEmptyDocument reports whether doc is falsy: null, false, 0, "", {} or [].
// Such documents count as missing.
func isEmptyDocument(doc json.RawMessage) bool {
	if len(bytes.TrimSpace(doc)) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// sampleMemoryLimitMiB looks for the first
// workloads.<type>.<name>.containers.<name>.resources.memory.limitMiB value,
// walking keys in sorted order. It only feeds diagnostics.
func sampleMemoryLimitMiB(values json.RawMessage) (float64, bool) {
	var root map[string]any
	if err := json.Unmarshal(values, &root); err != nil {
		return 0, false
	}
	workloads, ok := root["workloads"].(map[string]any)
	if !ok {
		return 0, false
	}
	for _, byType := range sortedObjects(workloads) {
		for _, workload := range sortedObjects(byType) {
			containers, ok := workload["containers"].(map[string]any)
			if !ok {
				continue
			}
			for _, container := range sortedObjects(containers) {
				resources, _ := container["resources"].(map[string]any)
				memory, _ := resources["memory"].(map[string]any)
				if limit, ok := memory["limitMiB"].(float64); ok {
					return limit, true
				}
			}
		}
	}
	return 0, false
}

// sortedObjects returns the object-valued members of m ordered by key.
func sortedObjects(m map[string]any) []map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		if obj, ok := m[k].(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
