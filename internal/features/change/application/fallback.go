package application

import (
	"errors"
	"fmt"
)

// haltError stops a fallback ladder at the current candidate.
type haltError struct {
	err error
}

func (e *haltError) Error() string { return e.err.Error() }
func (e *haltError) Unwrap() error { return e.err }

// Halt marks err as fatal for the whole ladder: no further candidates are tried.
func Halt(err error) error {
	if err == nil {
		return nil
	}
	return &haltError{err: err}
}

// LadderError reports that every candidate failed. Errs holds one error per
// attempted candidate, in order.
type LadderError struct {
	Errs []error
}

func (e *LadderError) Error() string {
	if len(e.Errs) == 0 {
		return "no candidates to try"
	}
	return fmt.Sprintf("all %d candidates failed, last: %v", len(e.Errs), e.Last())
}

func (e *LadderError) Unwrap() []error { return e.Errs }

// Attempts is the number of candidates that were tried.
func (e *LadderError) Attempts() int { return len(e.Errs) }

// Last returns the error of the final attempt, or nil.
func (e *LadderError) Last() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e.Errs[len(e.Errs)-1]
}

// Fallback calls attempt for each candidate in order and returns the first
// success. Candidates after the winner are never attempted. An attempt that
// fails with Halt ends the ladder with the unwrapped error; when all attempts
// fail the result is a *LadderError.
func Fallback[C, T any](candidates []C, attempt func(C) (T, error)) (T, error) {
	var zero T
	errs := make([]error, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := attempt(candidate)
		if err == nil {
			return result, nil
		}
		var halt *haltError
		if errors.As(err, &halt) {
			return zero, halt.err
		}
		errs = append(errs, err)
	}
	return zero, &LadderError{Errs: errs}
}
