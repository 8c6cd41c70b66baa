package httpadapter

import (
	"net/http"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

const internalErrorDetail = "Something went wrong while generating recommendations."

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail keeps internal causes out of responses; only caller-facing
// kinds carry their own message.
func errorDetail(err error, status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	case http.StatusUnauthorized:
		return "Missing or invalid API key"
	case http.StatusServiceUnavailable:
		return "unable to compute recommendations"
	default:
		return internalErrorDetail
	}
}
