package analysis

import "testing"

func TestOriginalityScore(t *testing.T) {
	cases := []struct {
		name            string
		aiScore         int
		plagiarismScore float64
		uniqueness      int
		want            int
	}{
		{name: "reference_blend", aiScore: 20, plagiarismScore: 2, uniqueness: 70, want: 77},
		{name: "fully_original", aiScore: 0, plagiarismScore: 0, uniqueness: 100, want: 100},
		{name: "heavy_plagiarism_clamped", aiScore: 100, plagiarismScore: 10, uniqueness: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OriginalityScore(tc.aiScore, tc.plagiarismScore, tc.uniqueness)
			if got != tc.want {
				t.Fatalf("OriginalityScore(%d, %v, %d)=%d, want %d", tc.aiScore, tc.plagiarismScore, tc.uniqueness, got, tc.want)
			}
		})
	}
}

func TestOverallScoreFullInputs(t *testing.T) {
	got := OverallScore(OverallInputs{
		Grammar:             ptr(100),
		ToneAppropriateness: ptr(100),
		Structure:           ptr(100),
		Characters:          ptr(100),
		LogicalFlow:         ptr(100),
		Tense:               ptr(100),
		AIScore:             ptr(0),
		PlagiarismScore:     ptr(0),
		Originality:         ptr(100),
	})
	if got != 100 {
		t.Fatalf("expected perfect inputs to score 100, got %d", got)
	}
}

func TestOverallScoreOmitsMissingComponents(t *testing.T) {
	// Only grammar present: 100 * 0.10, not renormalized.
	got := OverallScore(OverallInputs{Grammar: ptr(100)})
	if got != 10 {
		t.Fatalf("expected 10 with only grammar present, got %d", got)
	}
}

func TestOverallScoreBounds(t *testing.T) {
	inputs := []OverallInputs{
		{},
		{AIScore: ptr(100), PlagiarismScore: ptr(100)},
		{Grammar: ptr(0), Structure: ptr(0), Originality: ptr(0)},
	}
	for _, in := range inputs {
		got := OverallScore(in)
		if got < 0 || got > 100 {
			t.Fatalf("overall score %d out of [0,100] for %+v", got, in)
		}
	}
}
