package ollama

import (
	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/infrastructure/llm"
)

// The generate endpoint takes a single prompt, so the system instruction and
// the user message are concatenated.
func buildProfilePrompt(answers []string) string {
	return llm.ProfileSystemPrompt + "\n\nAnswers:\n" + llm.JoinAnswers(answers)
}

func buildExplanationPrompt(profile *domain.StructuredProfile, item domain.Item) (string, error) {
	content, err := llm.ExplanationUserContent(profile, item)
	if err != nil {
		return "", err
	}
	return llm.ExplanationSystemPrompt + "\n\nInput:\n" + content, nil
}
