package usecase

import (
	"github.com/icyphotoget/perfume/internal/core/domain"
)

const (
	BaseScore     = 0.1
	CategoryBonus = 2.5
	KeywordBonus  = 0.4
	TagBonus      = 0.05
)

// Score rates one item against a request. The keyword bonus is added for
// every qualifying token occurrence across all answers while each token is
// recorded once in MatchedKeywords. The profile never changes the score.
func Score(item domain.Item, req domain.RecommendRequest, catalog domain.Catalog, _ *domain.StructuredProfile) domain.ScoredItem {
	scored := domain.ScoredItem{
		Item:              item,
		Score:             BaseScore,
		MatchedCategories: []domain.Category{},
		MatchedKeywords:   []string{},
	}

	if category, ok := catalog.CategoryBySlug(item.CategorySlug); ok && containsString(req.SelectedCategorySlugs, category.Slug) {
		scored.Score += CategoryBonus
		scored.MatchedCategories = append(scored.MatchedCategories, category)
	}

	searchable := SearchableText(item)
	seen := make(map[string]struct{})
	for _, answer := range req.FreeTextAnswers {
		for _, token := range Tokenize(answer) {
			if !Contains(searchable, token) {
				continue
			}
			scored.Score += KeywordBonus
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			scored.MatchedKeywords = append(scored.MatchedKeywords, token)
		}
	}

	scored.Score += TagBonus * float64(len(item.CategoryTags))
	return scored
}

// ScoreCatalog scores every catalog item in catalog order.
func ScoreCatalog(catalog domain.Catalog, req domain.RecommendRequest, profile *domain.StructuredProfile) []domain.ScoredItem {
	scored := make([]domain.ScoredItem, 0, len(catalog.Items))
	for _, item := range catalog.Items {
		scored = append(scored, Score(item, req, catalog, profile))
	}
	return scored
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
