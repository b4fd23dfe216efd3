package interview

import (
	"errors"
	"fmt"

	"mockprep/interview/internal/llm"
)

var (
	ErrConfiguration    = errors.New("invalid interview configuration")
	ErrInvalidAnswer    = errors.New("answer is required")
	ErrNotFound         = errors.New("interview session not found")
	ErrAlreadyCompleted = errors.New("interview session already completed")
	ErrInvalidState     = errors.New("interview session is not in a state that allows this operation")
	ErrProvider         = errors.New("question provider failed")
	ErrProviderTimeout  = errors.New("question provider timed out")
	ErrEvaluationParse  = llm.ErrEvaluationParse
	ErrConcurrentUpdate = errors.New("interview session is being updated by another request")
)

// providerFailure maps a collaborator error onto the taxonomy, keeping the cause.
func providerFailure(err error) error {
	switch {
	case errors.Is(err, ErrEvaluationParse):
		return err
	case llm.IsTimeout(err):
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}
}
