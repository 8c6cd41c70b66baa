package usecase

import (
	"math"
	"reflect"
	"testing"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

func scoringCatalog(items ...domain.Item) domain.Catalog {
	return domain.Catalog{
		Version: "test",
		Items:   items,
		Categories: []domain.Category{
			{Slug: "old-money-weekend", Name: "Old Money Weekend"},
			{Slug: "moody-introvert", Name: "Moody Introvert"},
		},
	}
}

func assertScore(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("score = %v, want %v", got, want)
	}
}

func TestScoreBaseFloorWithEmptyRequest(t *testing.T) {
	items := []domain.Item{
		{ID: "a"},
		{ID: "b", CategoryTags: []string{"one"}},
		{ID: "c", CategoryTags: []string{"one", "two", "three"}, CategorySlug: "old-money-weekend"},
	}
	catalog := scoringCatalog(items...)
	req := domain.RecommendRequest{}.Normalize()

	for _, item := range items {
		got := Score(item, req, catalog, nil)
		want := BaseScore + TagBonus*float64(len(item.CategoryTags))
		if got.Score != want {
			t.Fatalf("item %s: score = %v, want exactly %v", item.ID, got.Score, want)
		}
		if len(got.MatchedCategories) != 0 || len(got.MatchedKeywords) != 0 {
			t.Fatalf("item %s: expected no matches, got %+v", item.ID, got)
		}
	}
}

func TestScoreCategoryBonus(t *testing.T) {
	item := domain.Item{ID: "h", CategorySlug: "old-money-weekend", CategoryTags: []string{"Old Money Weekend", "Quiet Luxury Fresh"}}
	req := domain.RecommendRequest{SelectedCategorySlugs: []string{"old-money-weekend"}}.Normalize()

	got := Score(item, req, scoringCatalog(item), nil)
	want := BaseScore + CategoryBonus + TagBonus*2
	if got.Score != want {
		t.Fatalf("score = %v, want exactly %v", got.Score, want)
	}
	if len(got.MatchedCategories) != 1 || got.MatchedCategories[0].Slug != "old-money-weekend" {
		t.Fatalf("expected exactly one matched category, got %+v", got.MatchedCategories)
	}
}

func TestScoreCategoryBonusRequiresKnownCategory(t *testing.T) {
	item := domain.Item{ID: "x", CategorySlug: "unknown-vibe"}
	req := domain.RecommendRequest{SelectedCategorySlugs: []string{"unknown-vibe"}}.Normalize()

	got := Score(item, req, scoringCatalog(item), nil)
	assertScore(t, got.Score, BaseScore)
	if len(got.MatchedCategories) != 0 {
		t.Fatalf("expected no matched categories, got %+v", got.MatchedCategories)
	}
}

func TestScoreKeywordBonusCountsEveryOccurrence(t *testing.T) {
	item := domain.Item{ID: "v", Description: "soft velvet musk"}
	req := domain.RecommendRequest{FreeTextAnswers: []string{"I love velvet nights", "velvet again"}}.Normalize()

	got := Score(item, req, scoringCatalog(item), nil)
	assertScore(t, got.Score, BaseScore+2*KeywordBonus)
	if !reflect.DeepEqual(got.MatchedKeywords, []string{"velvet"}) {
		t.Fatalf("matched keywords = %v, want [velvet]", got.MatchedKeywords)
	}
}

func TestScoreKeywordsKeepFirstSeenOrder(t *testing.T) {
	item := domain.Item{ID: "v", Description: "smoke, rose and rain", CategoryTags: []string{"Night"}}
	req := domain.RecommendRequest{FreeTextAnswers: []string{"rain then smoke", "night rose rain"}}.Normalize()

	got := Score(item, req, scoringCatalog(item), nil)
	want := []string{"rain", "smoke", "night", "rose"}
	if !reflect.DeepEqual(got.MatchedKeywords, want) {
		t.Fatalf("matched keywords = %v, want %v", got.MatchedKeywords, want)
	}
	assertScore(t, got.Score, BaseScore+5*KeywordBonus+TagBonus)
}

func TestScoreScenarioDarkSmoky(t *testing.T) {
	item := domain.Item{
		ID:           "v1",
		Description:  "dark smoky oud and black vanilla",
		CategoryTags: []string{"night", "dark"},
		CategorySlug: "moody-introvert",
	}
	req := domain.RecommendRequest{
		FreeTextAnswers:       []string{"I like dark, smoky scents"},
		SelectedCategorySlugs: []string{"moody-introvert"},
	}.Normalize()

	got := Score(item, req, scoringCatalog(item), nil)
	// 0.1 base, one category, "dark" and "smoky" once each, two tags.
	assertScore(t, got.Score, BaseScore+CategoryBonus+2*KeywordBonus+2*TagBonus)
	if len(got.MatchedCategories) != 1 || got.MatchedCategories[0].Slug != "moody-introvert" {
		t.Fatalf("matched categories = %+v", got.MatchedCategories)
	}
	if !reflect.DeepEqual(got.MatchedKeywords, []string{"dark", "smoky"}) {
		t.Fatalf("matched keywords = %v", got.MatchedKeywords)
	}
}

func TestScoreIgnoresProfile(t *testing.T) {
	item := domain.Item{ID: "v", Description: "warm amber", CategoryTags: []string{"Cozy"}}
	req := domain.RecommendRequest{FreeTextAnswers: []string{"warm evenings"}}.Normalize()
	profile := &domain.StructuredProfile{Moods: []string{"cozy"}, Intensity: domain.IntensityLoud, Budget: domain.BudgetLow}

	without := Score(item, req, scoringCatalog(item), nil)
	with := Score(item, req, scoringCatalog(item), profile)
	if without.Score != with.Score {
		t.Fatalf("profile changed score: %v vs %v", without.Score, with.Score)
	}
}

func TestScoreToleratesMalformedTags(t *testing.T) {
	item := domain.Item{ID: "m", CategoryTags: []string{"", "", "ok"}}
	req := domain.RecommendRequest{FreeTextAnswers: []string{"   ", "ok?"}}.Normalize()

	got := Score(item, req, scoringCatalog(item), nil)
	if math.IsNaN(got.Score) || math.IsInf(got.Score, 0) || got.Score < 0 {
		t.Fatalf("expected finite non-negative score, got %v", got.Score)
	}
	assertScore(t, got.Score, BaseScore+3*TagBonus)
}
