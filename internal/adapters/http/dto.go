package httpadapter

import "github.com/icyphotoget/perfume/internal/core/domain"

type recommendRequestBody struct {
	FreeTextAnswers       *[]string `json:"freeTextAnswers"`
	SelectedCategorySlugs *[]string `json:"selectedCategorySlugs"`
	ResultLimit           *int      `json:"resultLimit"`
}

func (b recommendRequestBody) empty() bool {
	return b.FreeTextAnswers == nil && b.SelectedCategorySlugs == nil
}

func (b recommendRequestBody) toDomain() domain.RecommendRequest {
	var req domain.RecommendRequest
	if b.FreeTextAnswers != nil {
		req.FreeTextAnswers = *b.FreeTextAnswers
	}
	if b.SelectedCategorySlugs != nil {
		req.SelectedCategorySlugs = *b.SelectedCategorySlugs
	}
	if b.ResultLimit != nil {
		req.ResultLimit = *b.ResultLimit
	}
	return req
}

// missingInputExample is returned with the 400 raised for an empty request.
var missingInputExample = domain.RecommendRequest{
	FreeTextAnswers: []string{
		"I like cozy scents for reading on rainy nights",
		"I prefer warm, spicy, evening fragrances",
	},
	SelectedCategorySlugs: []string{"moody-introvert", "dark-academia"},
	ResultLimit:           3,
}

// demoRequest answers GET /v1/recommend without parameters.
var demoRequest = domain.RecommendRequest{
	FreeTextAnswers: []string{
		"I like dark, moody, evening scents with velvet and smoke.",
		"I read books alone when it rains.",
	},
	SelectedCategorySlugs: []string{"moody-introvert"},
	ResultLimit:           3,
}

type recommendResponse struct {
	Demo           bool                    `json:"demo,omitempty"`
	Input          domain.RecommendRequest `json:"input"`
	Count          int                     `json:"count"`
	CatalogVersion string                  `json:"catalogVersion"`
	ProfileStatus  domain.ProfileStatus    `json:"profileStatus"`
	Results        []scoredItemResponse    `json:"results"`
}

type scoredItemResponse struct {
	Score             float64               `json:"score"`
	MatchedCategories []categoryRefResponse `json:"matchedCategories"`
	MatchedKeywords   []string              `json:"matchedKeywords"`
	Explanation       string                `json:"explanation,omitempty"`
	Item              domain.Item           `json:"item"`
}

type categoryRefResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func newRecommendResponse(rec domain.Recommendation, demo bool) recommendResponse {
	results := make([]scoredItemResponse, 0, len(rec.Items))
	for _, scored := range rec.Items {
		categories := make([]categoryRefResponse, 0, len(scored.MatchedCategories))
		for _, category := range scored.MatchedCategories {
			categories = append(categories, categoryRefResponse{Slug: category.Slug, Name: category.Name})
		}
		keywords := scored.MatchedKeywords
		if keywords == nil {
			keywords = []string{}
		}
		results = append(results, scoredItemResponse{
			Score:             domain.RoundScore(scored.Score),
			MatchedCategories: categories,
			MatchedKeywords:   keywords,
			Explanation:       scored.Explanation,
			Item:              scored.Item,
		})
	}
	return recommendResponse{
		Demo:           demo,
		Input:          rec.Request,
		Count:          len(results),
		CatalogVersion: rec.CatalogVersion,
		ProfileStatus:  rec.ProfileStatus,
		Results:        results,
	}
}

type itemListResponse struct {
	Count int           `json:"count"`
	Items []domain.Item `json:"items"`
}

type categoryListResponse struct {
	Count      int               `json:"count"`
	Categories []domain.Category `json:"categories"`
}
