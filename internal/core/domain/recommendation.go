package domain

import "math"

const DefaultResultLimit = 5

// FallbackExplanation replaces any explanation that could not be generated.
const FallbackExplanation = "This item echoes the mood and texture of your answers, extending what you already lean toward rather than overpowering it."

type RecommendRequest struct {
	FreeTextAnswers       []string `json:"freeTextAnswers"`
	SelectedCategorySlugs []string `json:"selectedCategorySlugs"`
	ResultLimit           int      `json:"resultLimit"`
}

// Normalize returns a copy with empty collections instead of nil and a positive limit.
func (r RecommendRequest) Normalize() RecommendRequest {
	out := RecommendRequest{
		FreeTextAnswers:       append([]string{}, r.FreeTextAnswers...),
		SelectedCategorySlugs: append([]string{}, r.SelectedCategorySlugs...),
		ResultLimit:           r.ResultLimit,
	}
	if out.ResultLimit <= 0 {
		out.ResultLimit = DefaultResultLimit
	}
	return out
}

type ScoredItem struct {
	Item              Item       `json:"item"`
	Score             float64    `json:"score"`
	MatchedCategories []Category `json:"matchedCategories"`
	MatchedKeywords   []string   `json:"matchedKeywords"`
	Explanation       string     `json:"explanation,omitempty"`
}

type ProfileStatus string

const (
	ProfileSkipped ProfileStatus = "skipped"
	ProfileOK      ProfileStatus = "ok"
	ProfileEmpty   ProfileStatus = "empty"
	ProfileFailed  ProfileStatus = "failed"
)

// Recommendation is the outcome of one orchestrated recommendation pass.
type Recommendation struct {
	Request        RecommendRequest   `json:"request"`
	Items          []ScoredItem       `json:"items"`
	Profile        *StructuredProfile `json:"profile,omitempty"`
	ProfileStatus  ProfileStatus      `json:"profileStatus"`
	FallbackCount  int                `json:"fallbackCount"`
	CatalogVersion string             `json:"catalogVersion"`
}

// RoundScore rounds a score to the 3 decimals reported to callers.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
