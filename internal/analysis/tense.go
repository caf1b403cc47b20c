package analysis

import (
	"fmt"
	"strings"
)

// Tense fallback: per-sentence marker-word counting. Whichever tense
// exceeds the other by 1.5x is primary, otherwise the piece is Mixed.

var pastMarkers = map[string]bool{
	"was": true, "were": true, "had": true, "did": true, "went": true,
	"said": true, "came": true, "saw": true, "took": true, "got": true,
	"made": true, "felt": true, "knew": true, "thought": true, "ran": true,
}

var presentMarkers = map[string]bool{
	"is": true, "are": true, "am": true, "has": true, "does": true,
	"goes": true, "says": true, "comes": true, "sees": true, "takes": true,
	"gets": true, "makes": true, "feels": true, "knows": true, "thinks": true,
}

func fallbackTense(text string) TenseResult {
	sentences := []string{}
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}

	totalPast, totalPresent := 0, 0
	sentenceTense := make([]string, len(sentences))
	for i, s := range sentences {
		past, present := 0, 0
		for _, word := range strings.Fields(strings.ToLower(s)) {
			word = strings.Trim(word, ".,!?;:'\"")
			if pastMarkers[word] {
				past++
			}
			if presentMarkers[word] {
				present++
			}
		}
		totalPast += past
		totalPresent += present
		switch {
		case past > present:
			sentenceTense[i] = "Past"
		case present > past:
			sentenceTense[i] = "Present"
		default:
			sentenceTense[i] = ""
		}
	}

	primary := "Mixed"
	switch {
	case float64(totalPast) >= 1.5*float64(totalPresent) && totalPast > 0:
		primary = "Past"
	case float64(totalPresent) >= 1.5*float64(totalPast) && totalPresent > 0:
		primary = "Present"
	}

	inconsistencies := []string{}
	if primary == "Past" || primary == "Present" {
		for i, t := range sentenceTense {
			if t != "" && t != primary {
				inconsistencies = append(inconsistencies,
					fmt.Sprintf("Sentence %d shifts to %s tense", i+1, strings.ToLower(t)))
			}
		}
	}

	score := 100 - 8*len(inconsistencies)
	if score < 0 {
		score = 0
	}

	return TenseResult{
		Primary:         primary,
		Inconsistencies: inconsistencies,
		Score:           score,
	}
}
