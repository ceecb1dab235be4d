package domain

import (
	"errors"
	"fmt"
)

// Errors surfaced by the change orchestrator. The HTTP layer maps them to
// status codes with errors.Is.
var (
	ErrMissingInput      = errors.New("missing 'input' field")
	ErrNotIdentified     = errors.New("could not identify application")
	ErrSchemaNotFound    = errors.New("schema not found")
	ErrValuesNotFound    = errors.New("values not found")
	ErrExhaustedFallback = errors.New("all model candidates failed")
)

// Stage names one step of a change request.
type Stage string

const (
	StageResolveApp  Stage = "RESOLVE_APP"
	StageFetchSchema Stage = "FETCH_SCHEMA"
	StageFetchValues Stage = "FETCH_VALUES"
	StageApplyEdit   Stage = "APPLY_EDIT"
	StageRespond     Stage = "RESPOND"
)

// ChangeRequest is the body of POST /message.
type ChangeRequest struct {
	Input *string `json:"input"`
}

// NotFoundError reports a missing document for an identified application.
type NotFoundError struct {
	App  string
	Kind error // ErrSchemaNotFound or ErrValuesNotFound
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.App)
}

func (e *NotFoundError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// ExhaustedError carries the model users should install when every candidate failed.
type ExhaustedError struct {
	PreferredModel string
	Attempts       int
	Last           error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrExhaustedFallback, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrExhaustedFallback
}
