package analysis

import "math"

// Score aggregation is pure arithmetic, no I/O. Weights follow the
// editorial rubric and sum to 1.0; a missing component is omitted from
// the sum rather than substituted, so the overall score degrades
// gracefully without being renormalized.

func clampScore(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// OriginalityScore blends inverted AI likelihood, inverted plagiarism
// similarity and structural uniqueness. The plagiarism score arrives on
// a 0-10 similarity scale, hence the x10.
func OriginalityScore(aiScore int, plagiarismScore float64, structureUniqueness int) int {
	aiComponent := float64(100-aiScore) * 0.4
	plagiarismComponent := (100 - plagiarismScore*10) * 0.3
	uniquenessComponent := float64(structureUniqueness) * 0.3
	return clampScore(aiComponent + plagiarismComponent + uniquenessComponent)
}

// OverallInputs carries the weighted sub-scores. Nil means the
// component is unavailable and its weight is dropped.
type OverallInputs struct {
	Grammar             *float64
	ToneAppropriateness *float64
	Structure           *float64
	Characters          *float64
	LogicalFlow         *float64
	Tense               *float64
	AIScore             *float64
	PlagiarismScore     *float64
	Originality         *float64
}

func OverallScore(in OverallInputs) int {
	sum := 0.0
	add := func(score *float64, weight float64) {
		if score != nil {
			sum += *score * weight
		}
	}
	add(in.Grammar, 0.10)
	add(in.ToneAppropriateness, 0.10)
	add(in.Structure, 0.15)
	add(in.Characters, 0.15)
	add(in.LogicalFlow, 0.10)
	add(in.Tense, 0.05)
	if in.AIScore != nil {
		sum += (100 - *in.AIScore) * 0.15
	}
	if in.PlagiarismScore != nil {
		sum += (100 - *in.PlagiarismScore) * 0.10
	}
	add(in.Originality, 0.10)
	return clampScore(sum)
}

func ptr(v float64) *float64 { return &v }
