package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

const maxRequestBodyBytes = 1 << 20

func (rt *Router) recommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequestBody
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(&body); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "request body must be a JSON object")
		return
	}
	if body.empty() {
		problem := newProblem(r, http.StatusBadRequest, "Missing input. Provide at least `freeTextAnswers` or `selectedCategorySlugs`.")
		problem.Example = missingInputExample
		writeProblemDocument(w, problem)
		return
	}

	start := time.Now()
	rec, err := rt.recommender.Recommend(r.Context(), body.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.observe("post", start, rec)
	writeJSON(w, http.StatusOK, newRecommendResponse(rec, false))
}

// recommendQuery is the GET variant. It never calls the language model and
// falls back to a demo request when no parameter is given.
func (rt *Router) recommendQuery(w http.ResponseWriter, r *http.Request) {
	var body recommendRequestBody
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "freeTextAnswers", query, &body.FreeTextAnswers); err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "selectedCategorySlugs", query, &body.SelectedCategorySlugs); err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "resultLimit", query, &body.ResultLimit); err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req := body.toDomain()
	demo := body.empty() && body.ResultLimit == nil
	if demo {
		req = demoRequest
	}

	start := time.Now()
	rec, err := rt.recommender.Recommend(r.Context(), req, ports.WithoutEnrichment())
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.observe("get", start, rec)
	writeJSON(w, http.StatusOK, newRecommendResponse(rec, demo))
}

func (rt *Router) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := rt.catalog.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemListResponse{Count: len(items), Items: items})
}

func (rt *Router) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := rt.catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (rt *Router) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := rt.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryListResponse{Count: len(categories), Categories: categories})
}

func (rt *Router) observe(endpoint string, start time.Time, rec domain.Recommendation) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordRecommendation(endpoint, rec, time.Since(start))
}
