// Package llm holds the prompts and response parsing shared by the language
// model adapters.
package llm

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

const answerSeparator = "\n\n---\n\n"

const ProfileSystemPrompt = `You are an AI perfume stylist.

The user has described what they like in perfumes.
From their free-text answers, extract a structured profile.

Return ONLY valid JSON with this exact schema:

{
  "moods": string[],
  "personality": string[],
  "seasons": string[],
  "occasions": string[],
  "intensity": "soft" | "moderate" | "loud" | null,
  "budget": "low" | "medium" | "high" | null,
  "genders": string[],
  "notePreferences": string[]
}

Do NOT include any extra keys or comments.`

const ExplanationSystemPrompt = `You are an AI perfume stylist.

Given:
- a user's structured scent profile
- a perfume's basic information

Write a short, poetic explanation (2 sentences max) of WHY this perfume suits the user.

Style:
- intimate, aesthetic, a bit romantic
- no marketing cliches
- talk about the aura it creates around the wearer
- don't mention "profile", "tags", "JSON" or "AI"`

// JoinAnswers builds the user message sent with ProfileSystemPrompt.
func JoinAnswers(answers []string) string {
	return strings.Join(answers, answerSeparator)
}

type explanationItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Brand        string   `json:"house"`
	Description  string   `json:"description"`
	CategoryTags []string `json:"vibeTags"`
	CategorySlug string   `json:"vibeSlug"`
	Longevity    float64  `json:"longevity"`
	Projection   float64  `json:"sillage"`
	BasePrice    float64  `json:"basePrice"`
}

// ExplanationUserContent renders the profile and item as indented JSON using
// perfume vocabulary, which is what the system prompt talks about.
func ExplanationUserContent(profile *domain.StructuredProfile, item domain.Item) (string, error) {
	payload := struct {
		Profile *profileWire    `json:"profile"`
		Perfume explanationItem `json:"perfume"`
	}{
		Profile: toProfileWire(profile),
		Perfume: explanationItem{
			ID:           item.ID,
			Name:         item.Name,
			Brand:        item.Brand,
			Description:  item.Description,
			CategoryTags: item.CategoryTags,
			CategorySlug: item.CategorySlug,
			Longevity:    item.Longevity,
			Projection:   item.Projection,
			BasePrice:    item.BasePrice,
		},
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal explanation payload: %w", err)
	}
	return string(body), nil
}

type profileWire struct {
	Moods           []string `json:"moods"`
	Personality     []string `json:"personality"`
	Seasons         []string `json:"seasons"`
	Occasions       []string `json:"occasions"`
	Intensity       *string  `json:"intensity"`
	Budget          *string  `json:"budget"`
	Genders         []string `json:"genders"`
	NotePreferences []string `json:"notePreferences"`
}

func toProfileWire(profile *domain.StructuredProfile) *profileWire {
	if profile == nil {
		return nil
	}
	wire := &profileWire{
		Moods:           nonNil(profile.Moods),
		Personality:     nonNil(profile.PersonalityTraits),
		Seasons:         nonNil(profile.Seasons),
		Occasions:       nonNil(profile.Occasions),
		Genders:         nonNil(profile.GenderAffinities),
		NotePreferences: nonNil(profile.NotePreferences),
	}
	if profile.Intensity != "" {
		v := string(profile.Intensity)
		wire.Intensity = &v
	}
	if profile.Budget != "" {
		v := string(profile.Budget)
		wire.Budget = &v
	}
	return wire
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
