package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule-based grammar fallback. Each matched occurrence costs 3 points
// off a starting score of 100, floored at 0.

type grammarRule struct {
	name       string
	re         *regexp.Regexp
	suggestion string
}

var grammarRules = []grammarRule{
	{
		name:       "capitalization",
		re:         regexp.MustCompile(`\bi\b`),
		suggestion: `Capitalize the pronoun "I"`,
	},
	{
		name:       "spacing",
		re:         regexp.MustCompile(` +[.,!?;:]`),
		suggestion: "Remove the space before punctuation",
	},
	{
		name:       "spacing",
		re:         regexp.MustCompile(`  +`),
		suggestion: "Use a single space between words",
	},
	{
		name:       "apostrophe",
		re:         regexp.MustCompile(`(?i)\b(dont|cant|wont|isnt|arent|wasnt|werent|doesnt|didnt|couldnt|shouldnt|wouldnt|im|ive|youre|theyre|weve|theyve)\b`),
		suggestion: "Add the missing apostrophe",
	},
}

func fallbackGrammar(text string) GrammarResult {
	errs := []GrammarError{}
	for _, rule := range grammarRules {
		for _, match := range rule.re.FindAllString(text, -1) {
			errs = append(errs, GrammarError{
				Type:       rule.name,
				Text:       match,
				Suggestion: rule.suggestion,
			})
		}
	}

	score := 100 - 3*len(errs)
	if score < 0 {
		score = 0
	}

	corrected := grammarRules[0].re.ReplaceAllString(text, "I")
	corrected = grammarRules[1].re.ReplaceAllStringFunc(corrected, func(m string) string {
		return strings.TrimLeft(m, " ")
	})
	corrected = grammarRules[2].re.ReplaceAllString(corrected, " ")

	summary := "No rule-based grammar issues found"
	if len(errs) > 0 {
		summary = fmt.Sprintf("Found %d issue(s) via rule-based checks", len(errs))
	}

	return GrammarResult{
		Errors:        errs,
		Score:         score,
		Summary:       summary,
		CorrectedText: corrected,
	}
}
