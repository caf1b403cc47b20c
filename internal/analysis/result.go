package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Result is the composite analysis report attached to a submission.
// Field names are part of the persisted JSON contract consumed by the
// frontend and reporting layers; do not rename.
type Result struct {
	BasicMetrics BasicMetrics       `json:"basicMetrics"`
	Grammar      GrammarResult      `json:"grammar"`
	Tone         ToneResult         `json:"tone"`
	Characters   CharactersResult   `json:"characters"`
	Structure    StructureResult    `json:"structure"`
	LogicalFlaws LogicalFlawsResult `json:"logicalFlaws"`
	Tense        TenseResult        `json:"tense"`
	Metrics      Metrics            `json:"metrics"`
}

type BasicMetrics struct {
	WordCount           int     `json:"wordCount"`
	SentenceCount       int     `json:"sentenceCount"`
	AvgWordsPerSentence float64 `json:"avgWordsPerSentence"`
}

type GrammarError struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	Suggestion string `json:"suggestion"`
}

type GrammarResult struct {
	Errors        []GrammarError `json:"errors"`
	Score         int            `json:"score"`
	Summary       string         `json:"summary"`
	CorrectedText string         `json:"correctedText"`
}

type ToneResult struct {
	Classification  string  `json:"classification"`
	Confidence      float64 `json:"confidence"`
	Sentiment       string  `json:"sentiment"`
	Appropriateness float64 `json:"appropriateness"`
}

type Character struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Traits      []string `json:"traits"`
	Consistency string   `json:"consistency"`
}

type CharactersResult struct {
	Characters  []Character `json:"characters"`
	Score       int         `json:"score"`
	Suggestions []string    `json:"suggestions"`
}

type StructureResult struct {
	Beginning   string   `json:"beginning"`
	Middle      string   `json:"middle"`
	End         string   `json:"end"`
	Suggestions []string `json:"suggestions"`
	Score       int      `json:"score"`
	Uniqueness  int      `json:"uniqueness"`
}

type LogicalFlawsResult struct {
	Flaws     []string `json:"flaws"`
	Questions []string `json:"questions"`
	Score     int      `json:"score"`
}

type TenseResult struct {
	Primary         string   `json:"primary"`
	Inconsistencies []string `json:"inconsistencies"`
	Score           int      `json:"score"`
}

type Metrics struct {
	AIScore          int      `json:"aiScore"`
	PlagiarismScore  float64  `json:"plagiarismScore"`
	OriginalityScore int      `json:"originalityScore"`
	Genre            string   `json:"genre"`
	SubGenres        []string `json:"subGenres"`
	OverallScore     int      `json:"overallScore"`
}

// AIDetection is the partial produced by the AI-content analyzer. Only
// Score survives into the composite metrics.
type AIDetection struct {
	Score      int     `json:"score"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

type GenreResult struct {
	Genre     string   `json:"genre"`
	SubGenres []string `json:"subGenres"`
}

// Fingerprint derives the cache key for a piece of text. The prefix is
// enough: a collision only costs a stale-looking cache hit, never
// correctness of the workflow.
func Fingerprint(text string) string {
	const prefixLen = 100
	prefix := text
	if len(prefix) > prefixLen {
		prefix = prefix[:prefixLen]
	}
	sum := sha256.Sum256([]byte(prefix))
	return hex.EncodeToString(sum[:])
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// ComputeBasicMetrics tokenizes deterministically. Empty input yields
// all zeroes rather than an error.
func ComputeBasicMetrics(text string) BasicMetrics {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return BasicMetrics{}
	}
	words := strings.Fields(trimmed)
	sentences := 0
	for _, part := range sentenceSplitRe.Split(trimmed, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}
	if sentences < 1 {
		sentences = 1
	}
	avg := float64(len(words)) / float64(sentences)
	return BasicMetrics{
		WordCount:           len(words),
		SentenceCount:       sentences,
		AvgWordsPerSentence: avg,
	}
}

// NeutralResult is returned for empty or invalid input. Every field is
// populated so downstream consumers never see a partial object.
func NeutralResult() *Result {
	return &Result{
		BasicMetrics: BasicMetrics{},
		Grammar: GrammarResult{
			Errors:  []GrammarError{},
			Score:   0,
			Summary: "No text provided",
		},
		Tone: ToneResult{
			Classification: "Neutral",
			Sentiment:      "neutral",
		},
		Characters: CharactersResult{
			Characters:  []Character{},
			Suggestions: []string{},
		},
		Structure: StructureResult{
			Suggestions: []string{},
		},
		LogicalFlaws: LogicalFlawsResult{
			Flaws:     []string{},
			Questions: []string{},
		},
		Tense: TenseResult{
			Primary:         "Unknown",
			Inconsistencies: []string{},
		},
		Metrics: Metrics{
			Genre:     "Unknown",
			SubGenres: []string{},
		},
	}
}
