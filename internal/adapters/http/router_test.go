package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/icyphotoget/perfume/internal/config"
	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/core/usecase"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog"
	"github.com/icyphotoget/perfume/internal/observability/metrics"
)

type recommenderFake struct {
	rec     domain.Recommendation
	err     error
	req     domain.RecommendRequest
	options ports.RecommendOptions
	calls   int
}

func (f *recommenderFake) Recommend(_ context.Context, req domain.RecommendRequest, opts ...ports.RecommendOption) (domain.Recommendation, error) {
	f.calls++
	f.req = req
	f.options = ports.RecommendOptions{}
	for _, opt := range opts {
		opt(&f.options)
	}
	if f.err != nil {
		return domain.Recommendation{}, f.err
	}
	return f.rec, nil
}

type readinessFake bool

func (f readinessFake) Ready() bool { return bool(f) }

func seedStore(t *testing.T) *catalog.Store {
	t.Helper()
	store := catalog.NewStore(catalog.SeedSource{})
	if _, err := store.Reload(context.Background()); err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}
	return store
}

func newTestHandler(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	store := seedStore(t)
	recommender := usecase.NewRecommendUseCase(store, nil, nil, usecase.RecommendConfig{})
	return newHandlerWith(t, cfg, Dependencies{
		Recommender: recommender,
		Catalog:     usecase.NewCatalogUseCase(store),
		Readiness:   store,
	})
}

func newHandlerWith(t *testing.T, cfg config.Config, deps Dependencies) http.Handler {
	t.Helper()
	router, err := NewRouter(cfg, deps)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return router.Handler()
}

func postJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func decodeBody[T any](t *testing.T, res *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(bytes.NewReader(res.Body.Bytes())).Decode(&out); err != nil {
		t.Fatalf("decode response %q: %v", res.Body.String(), err)
	}
	return out
}

func TestRecommendPostReturnsRankedEnvelope(t *testing.T) {
	handler := newTestHandler(t, config.Config{})

	res := postJSON(handler, "/v1/recommend", `{"freeTextAnswers":["dark smoky nights"],"selectedCategorySlugs":["moody-introvert"],"resultLimit":2}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}

	body := decodeBody[recommendResponse](t, res)
	if body.Count != 2 || len(body.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", body)
	}
	if body.Demo {
		t.Fatalf("POST must not be a demo response")
	}
	top := body.Results[0]
	if top.Item.ID != "velvet-smoke" {
		t.Fatalf("expected velvet-smoke first, got %s", top.Item.ID)
	}
	if len(top.MatchedCategories) != 1 || top.MatchedCategories[0].Slug != "moody-introvert" {
		t.Fatalf("unexpected matched categories %+v", top.MatchedCategories)
	}
	if body.Input.ResultLimit != 2 || body.CatalogVersion == "" {
		t.Fatalf("unexpected envelope %+v", body)
	}
	if body.ProfileStatus != domain.ProfileSkipped {
		t.Fatalf("expected skipped profile without extractor, got %s", body.ProfileStatus)
	}
}

func TestRecommendPostRejectsMissingInput(t *testing.T) {
	handler := newTestHandler(t, config.Config{})

	res := postJSON(handler, "/v1/recommend", `{"resultLimit":3}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); ct != problemContentType {
		t.Fatalf("expected problem content type, got %q", ct)
	}
	problem := decodeBody[map[string]any](t, res)
	if !strings.Contains(problem["detail"].(string), "Missing input") {
		t.Fatalf("unexpected detail %v", problem["detail"])
	}
	if _, ok := problem["example"].(map[string]any); !ok {
		t.Fatalf("expected example payload, got %v", problem)
	}
}

func TestRecommendPostRejectsSchemaViolations(t *testing.T) {
	handler := newTestHandler(t, config.Config{})

	res := postJSON(handler, "/v1/recommend", `{"freeTextAnswers":"not a list"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from request validation, got %d", res.Code)
	}
}

func TestRecommendPostUsesEnrichment(t *testing.T) {
	fake := &recommenderFake{rec: domain.Recommendation{ProfileStatus: domain.ProfileOK}}
	handler := newHandlerWith(t, config.Config{}, Dependencies{
		Recommender: fake,
		Catalog:     usecase.NewCatalogUseCase(seedStore(t)),
	})

	res := postJSON(handler, "/v1/recommend", `{"freeTextAnswers":["rain"]}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if fake.options.SkipEnrichment {
		t.Fatalf("POST must keep enrichment enabled")
	}
	if len(fake.req.FreeTextAnswers) != 1 || fake.req.FreeTextAnswers[0] != "rain" {
		t.Fatalf("unexpected request %+v", fake.req)
	}
}

func TestRecommendMapsCatalogUnavailableTo503(t *testing.T) {
	fake := &recommenderFake{err: domain.WrapError(domain.ErrCatalogUnavailable, "read catalog snapshot", errors.New("boom"))}
	handler := newHandlerWith(t, config.Config{}, Dependencies{
		Recommender: fake,
		Catalog:     usecase.NewCatalogUseCase(seedStore(t)),
	})

	res := postJSON(handler, "/v1/recommend", `{"selectedCategorySlugs":["night-creature"]}`)
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
	problem := decodeBody[Problem](t, res)
	if problem.Detail != "unable to compute recommendations" || strings.Contains(res.Body.String(), "boom") {
		t.Fatalf("unexpected problem %+v", problem)
	}
}

func TestRecommendMapsUnexpectedErrorsTo500(t *testing.T) {
	fake := &recommenderFake{err: errors.New("db password leaked")}
	handler := newHandlerWith(t, config.Config{}, Dependencies{
		Recommender: fake,
		Catalog:     usecase.NewCatalogUseCase(seedStore(t)),
	})

	res := postJSON(handler, "/v1/recommend", `{"freeTextAnswers":["x"]}`)
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	problem := decodeBody[Problem](t, res)
	if problem.Detail != internalErrorDetail {
		t.Fatalf("unexpected detail %q", problem.Detail)
	}
}

func TestRecommendGetWithoutParamsServesDemo(t *testing.T) {
	handler := newTestHandler(t, config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/recommend", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	body := decodeBody[recommendResponse](t, res)
	if !body.Demo || body.Input.ResultLimit != 3 || len(body.Input.SelectedCategorySlugs) != 1 {
		t.Fatalf("unexpected demo envelope %+v", body)
	}
	if body.Results[0].Item.ID != "velvet-smoke" {
		t.Fatalf("expected velvet-smoke first, got %s", body.Results[0].Item.ID)
	}
}

func TestRecommendGetBindsQueryAndSkipsEnrichment(t *testing.T) {
	fake := &recommenderFake{}
	handler := newHandlerWith(t, config.Config{}, Dependencies{
		Recommender: fake,
		Catalog:     usecase.NewCatalogUseCase(seedStore(t)),
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/recommend?freeTextAnswers=rain&freeTextAnswers=smoke&selectedCategorySlugs=night-creature&resultLimit=2", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !fake.options.SkipEnrichment {
		t.Fatalf("GET must skip enrichment")
	}
	if len(fake.req.FreeTextAnswers) != 2 || fake.req.FreeTextAnswers[1] != "smoke" {
		t.Fatalf("unexpected answers %#v", fake.req.FreeTextAnswers)
	}
	if fake.req.ResultLimit != 2 || fake.req.SelectedCategorySlugs[0] != "night-creature" {
		t.Fatalf("unexpected request %+v", fake.req)
	}
}

func TestRecommendGetRejectsNonIntegerLimit(t *testing.T) {
	handler := newTestHandler(t, config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/recommend?resultLimit=many", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestCatalogBrowsing(t *testing.T) {
	handler := newTestHandler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/items", nil))
	items := decodeBody[itemListResponse](t, res)
	if res.Code != http.StatusOK || items.Count != 3 || items.Items[0].Name != "Heritage Cashmere" {
		t.Fatalf("unexpected item list %d %+v", res.Code, items)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/items/velvet-smoke", nil))
	item := decodeBody[domain.Item](t, res)
	if res.Code != http.StatusOK || item.Brand != "Maison Obscura" {
		t.Fatalf("unexpected item %d %+v", res.Code, item)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/items/unknown", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))
	categories := decodeBody[categoryListResponse](t, res)
	if categories.Count != 4 || categories.Categories[0].Slug != "old-money-weekend" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	handler := newHandlerWith(t, config.Config{}, Dependencies{
		Recommender: &recommenderFake{},
		Catalog:     usecase.NewCatalogUseCase(seedStore(t)),
		Readiness:   readinessFake(false),
	})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("healthz expected 200, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz expected 503 before load, got %d", res.Code)
	}
}

func TestBearerAuthProtectsAPI(t *testing.T) {
	handler := newTestHandler(t, config.Config{APIKey: "secret"})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	req.Header.Set("Authorization", "Bearer secret")
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("healthz must stay public, got %d", res.Code)
	}
}

func TestOpenAPIDocumentAndMetricsAreServed(t *testing.T) {
	store := seedStore(t)
	handler := newHandlerWith(t, config.Config{}, Dependencies{
		Recommender: usecase.NewRecommendUseCase(store, nil, nil, usecase.RecommendConfig{}),
		Catalog:     usecase.NewCatalogUseCase(store),
		Metrics:     metrics.New("test"),
	})

	res := postJSON(handler, "/v1/recommend", `{"selectedCategorySlugs":["night-creature"]}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), "/v1/recommend") {
		t.Fatalf("unexpected openapi response %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(res.Body.String(), "perfume_recommend_requests_total") {
		t.Fatalf("expected recommendation metrics, got %s", res.Body.String())
	}
}

func TestRecovererReturnsProblem(t *testing.T) {
	handler := recovererMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/items", nil))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if strings.Contains(res.Body.String(), "kaboom") {
		t.Fatalf("panic value must not leak")
	}
}

func TestIsAuthorizedBearerHeader(t *testing.T) {
	cases := []struct {
		header string
		want   bool
	}{
		{"Bearer secret", true},
		{"  Bearer secret  ", true},
		{"bearer secret", false},
		{"Bearer other", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isAuthorizedBearerHeader(tc.header, "secret"); got != tc.want {
			t.Fatalf("isAuthorizedBearerHeader(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}
