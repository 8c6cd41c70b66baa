package domain

type Intensity string

const (
	IntensitySoft     Intensity = "soft"
	IntensityModerate Intensity = "moderate"
	IntensityLoud     Intensity = "loud"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensitySoft, IntensityModerate, IntensityLoud:
		return true
	default:
		return false
	}
}

type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

func (b Budget) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	default:
		return false
	}
}

// StructuredProfile is the preference profile extracted from free-text answers.
// Empty scalars mean the attribute is absent.
type StructuredProfile struct {
	Moods             []string  `json:"moods"`
	PersonalityTraits []string  `json:"personalityTraits"`
	Seasons           []string  `json:"seasons"`
	Occasions         []string  `json:"occasions"`
	Intensity         Intensity `json:"intensity,omitempty"`
	Budget            Budget    `json:"budget,omitempty"`
	GenderAffinities  []string  `json:"genderAffinities"`
	NotePreferences   []string  `json:"notePreferences"`
}

func EmptyProfile() StructuredProfile {
	return StructuredProfile{
		Moods:             []string{},
		PersonalityTraits: []string{},
		Seasons:           []string{},
		Occasions:         []string{},
		GenderAffinities:  []string{},
		NotePreferences:   []string{},
	}
}

func (p StructuredProfile) IsEmpty() bool {
	return len(p.Moods) == 0 &&
		len(p.PersonalityTraits) == 0 &&
		len(p.Seasons) == 0 &&
		len(p.Occasions) == 0 &&
		len(p.GenderAffinities) == 0 &&
		len(p.NotePreferences) == 0 &&
		p.Intensity == "" &&
		p.Budget == ""
}
