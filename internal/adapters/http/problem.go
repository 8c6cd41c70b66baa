package httpadapter

import (
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
)

const problemContentType = "application/problem+json"

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Example  any    `json:"example,omitempty"`
}

func newProblem(r *http.Request, status int, detail string) Problem {
	return Problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblemDocument(w, newProblem(r, status, detail))
}

func writeProblemDocument(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("problem_encode_failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request_failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeProblem(w, r, status, errorDetail(err, status))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}
