package analysis

import (
	"regexp"
	"strings"
)

// Sentiment-lexicon tone analyzer. Fallback only; there is no external
// tone service.

var sentimentLexicon = map[string]int{
	"love": 3, "wonderful": 4, "beautiful": 3, "happy": 3, "joy": 3,
	"great": 3, "good": 3, "amazing": 4, "excellent": 3, "brave": 2,
	"kind": 2, "hope": 2, "win": 2, "smile": 2, "friend": 1,
	"hate": -3, "terrible": -3, "awful": -3, "sad": -2, "angry": -3,
	"fear": -2, "cry": -2, "dark": -1, "pain": -2, "lost": -1,
	"dead": -3, "kill": -3, "bad": -3, "horrible": -3, "afraid": -2,
}

var formalMarkers = regexp.MustCompile(`(?i)\b(therefore|moreover|furthermore|consequently|however|nevertheless|regarding|thus|hence)\b`)
var casualMarkers = regexp.MustCompile(`(?i)\b(gonna|wanna|gotta|kinda|sorta|yeah|cool|awesome|stuff|okay|ok)\b`)

func fallbackTone(text string) ToneResult {
	var sentiment int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"")
		if v, ok := sentimentLexicon[word]; ok {
			sentiment += v
		}
	}

	formal := len(formalMarkers.FindAllString(text, -1))
	casual := len(casualMarkers.FindAllString(text, -1))

	classification := "Neutral"
	diff := 0
	switch {
	case formal > casual:
		classification = "Formal"
		diff = formal - casual
	case casual > formal:
		classification = "Casual"
		diff = casual - formal
	}

	confidence := 0.5 + 0.05*float64(diff)
	if confidence > 0.95 {
		confidence = 0.95
	}

	sentimentLabel := "neutral"
	if sentiment > 0 {
		sentimentLabel = "positive"
	} else if sentiment < 0 {
		sentimentLabel = "negative"
	}

	appropriateness := 70 + confidence*15
	if sentimentLabel == "positive" {
		appropriateness += 5
	}

	return ToneResult{
		Classification:  classification,
		Confidence:      confidence,
		Sentiment:       sentimentLabel,
		Appropriateness: appropriateness,
	}
}
