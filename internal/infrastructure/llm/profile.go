package llm

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

// Each profile field accepts the key used in ProfileSystemPrompt and the
// name used by the domain type.
var (
	moodKeys        = []string{"moods"}
	personalityKeys = []string{"personality", "personalityTraits"}
	seasonKeys      = []string{"seasons"}
	occasionKeys    = []string{"occasions"}
	genderKeys      = []string{"genders", "genderAffinities"}
	noteKeys        = []string{"notePreferences", "notes"}
)

// ParseProfile decodes a model reply into a StructuredProfile field by field.
// Missing or mistyped fields fall back to their empty defaults; only a reply
// without a decodable JSON object is an error.
func ParseProfile(raw string) (domain.StructuredProfile, error) {
	object := ExtractJSONObject(raw)
	if object == "" {
		return domain.StructuredProfile{}, domain.WrapError(domain.ErrInvalidResponse, "parse profile", fmt.Errorf("no json object in reply"))
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(object), &fields); err != nil {
		return domain.StructuredProfile{}, domain.WrapError(domain.ErrInvalidResponse, "parse profile", err)
	}

	profile := domain.EmptyProfile()
	profile.Moods = stringList(fields, moodKeys)
	profile.PersonalityTraits = stringList(fields, personalityKeys)
	profile.Seasons = stringList(fields, seasonKeys)
	profile.Occasions = stringList(fields, occasionKeys)
	profile.GenderAffinities = stringList(fields, genderKeys)
	profile.NotePreferences = stringList(fields, noteKeys)

	if v := domain.Intensity(enumValue(fields, "intensity")); v.Valid() {
		profile.Intensity = v
	}
	if v := domain.Budget(enumValue(fields, "budget")); v.Valid() {
		profile.Budget = v
	}
	return profile, nil
}

// ExtractJSONObject returns the outermost {...} span of raw, or "" when there is none.
func ExtractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}

func stringList(fields map[string]any, keys []string) []string {
	out := []string{}
	for _, key := range keys {
		value, ok := fields[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case []any:
			for _, entry := range v {
				s, ok := entry.(string)
				if !ok {
					continue
				}
				out = appendTrimmed(out, s)
			}
		case string:
			out = appendTrimmed(out, v)
		}
		return out
	}
	return out
}

func appendTrimmed(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}
	return append(out, s)
}

func enumValue(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.ToLower(strings.TrimSpace(s))
}
