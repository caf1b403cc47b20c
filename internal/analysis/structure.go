package analysis

import (
	"regexp"
	"strings"
)

// Structure fallback: split the piece into paragraph thirds (first 20%,
// middle 60%, last 20%) and run one cheap check against each third.
// Base score 50, +10 per satisfied check. Uniqueness is a type-token
// vocabulary ratio feeding the originality blend.

var settingCueRe = regexp.MustCompile(`(?i)\b(in|at|on|once|lived|city|town|village|house|school|forest|morning|night|kingdom|world)\b`)
var properNounRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
var resolutionRe = regexp.MustCompile(`(?i)\b(finally|at last|in the end|resolved|learned|realized|realised|ever after|concluded|home again)\b`)

func fallbackStructure(text string) StructureResult {
	paragraphs := splitParagraphs(text)
	n := len(paragraphs)

	firstEnd := n / 5
	if firstEnd < 1 {
		firstEnd = 1
	}
	lastStart := n - n/5
	if lastStart <= firstEnd {
		lastStart = firstEnd
	}

	beginning := strings.Join(paragraphs[:min(firstEnd, n)], "\n")
	var middle, end []string
	if lastStart < n {
		middle = paragraphs[firstEnd:lastStart]
		end = paragraphs[lastStart:]
	} else {
		middle = paragraphs[min(firstEnd, n):]
	}

	score := 50
	suggestions := []string{}

	beginningNote := "The opening does not clearly establish a character or setting"
	if properNounRe.MatchString(beginning) && settingCueRe.MatchString(beginning) {
		score += 10
		beginningNote = "The opening introduces a character and a setting"
	} else {
		suggestions = append(suggestions, "Introduce your main character and where the story takes place early on")
	}

	middleNote := "The middle is thin; consider developing the conflict over more paragraphs"
	if len(middle) >= 3 {
		score += 10
		middleNote = "The middle develops over several paragraphs"
	} else {
		suggestions = append(suggestions, "Expand the middle of the story to build the conflict")
	}

	endText := strings.Join(end, "\n")
	endNote := "The ending does not signal a resolution"
	if resolutionRe.MatchString(endText) {
		score += 10
		endNote = "The ending signals a resolution"
	} else {
		suggestions = append(suggestions, "Give the story a clear resolution")
	}

	return StructureResult{
		Beginning:   beginningNote,
		Middle:      middleNote,
		End:         endNote,
		Suggestions: suggestions,
		Score:       score,
		Uniqueness:  vocabularyUniqueness(text),
	}
}

func splitParagraphs(text string) []string {
	out := []string{}
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func vocabularyUniqueness(text string) int {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	distinct := map[string]bool{}
	for _, w := range words {
		distinct[strings.Trim(w, ".,!?;:'\"")] = true
	}
	ratio := float64(len(distinct)) / float64(len(words))
	v := int(ratio * 100)
	if v > 100 {
		v = 100
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
