package analysis

import "testing"

func TestFallbackGrammarRuleMatches(t *testing.T) {
	res := fallbackGrammar("i am tired .  ok")

	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d: %+v", len(res.Errors), res.Errors)
	}
	if res.Score != 91 {
		t.Fatalf("expected score 91, got %d", res.Score)
	}
}

func TestFallbackGrammarCleanText(t *testing.T) {
	res := fallbackGrammar("The sun rose over the hills. Everything was quiet.")

	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %+v", res.Errors)
	}
	if res.Score != 100 {
		t.Fatalf("expected score 100, got %d", res.Score)
	}
}

func TestFallbackGrammarScoreFloor(t *testing.T) {
	text := ""
	for i := 0; i < 40; i++ {
		text += "i dont know .  "
	}
	res := fallbackGrammar(text)
	if res.Score != 0 {
		t.Fatalf("expected score floored at 0, got %d", res.Score)
	}
}

func TestFallbackGrammarCorrectedText(t *testing.T) {
	res := fallbackGrammar("i was here .")
	if res.CorrectedText != "I was here." {
		t.Fatalf("unexpected corrected text: %q", res.CorrectedText)
	}
}
