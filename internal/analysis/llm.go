package analysis

import "context"

// LLM is the opaque external language-model capability backing the
// primary strategies. A nil LLM means every primary-capable analyzer
// runs on its fallback.
type LLM interface {
	AnalyzeGrammar(ctx context.Context, text string) (GrammarResult, error)
	AnalyzeCharacters(ctx context.Context, text string) (CharactersResult, error)
	DetectAIContent(ctx context.Context, text string) (AIDetection, error)
}

// maxPrimaryInputChars bounds what gets sent to an external service.
// Fallbacks always see the full text.
const maxPrimaryInputChars = 6000

func truncateForPrimary(text string) string {
	if len(text) <= maxPrimaryInputChars {
		return text
	}
	return text[:maxPrimaryInputChars]
}
