package groq

import (
	"errors"

	"github.com/openai/openai-go"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
)

func classifyGroqError(err error) resilience.ErrorClassification {
	if class, ok := resilience.ClassifyTransient(err); ok {
		return class
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return resilience.ClassifyHTTPStatus(apiErr.StatusCode)
	}
	if domain.IsKind(err, domain.ErrInvalidResponse) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyGroqError(err).Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
