package analysis

import (
	"strings"
	"testing"
)

func TestFallbackToneClassification(t *testing.T) {
	cases := []struct {
		name          string
		text          string
		wantClass     string
		wantSentiment string
	}{
		{
			name:          "formal_positive",
			text:          "Therefore the committee was happy. Moreover, the results were excellent. Consequently we love the outcome.",
			wantClass:     "Formal",
			wantSentiment: "positive",
		},
		{
			name:          "casual_negative",
			text:          "Yeah this is kinda awful stuff. I hate it, gonna stop now.",
			wantClass:     "Casual",
			wantSentiment: "negative",
		},
		{
			name:          "neutral",
			text:          "The door opened. A person entered the room.",
			wantClass:     "Neutral",
			wantSentiment: "neutral",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fallbackTone(tc.text)
			if got.Classification != tc.wantClass {
				t.Fatalf("classification=%q, want %q", got.Classification, tc.wantClass)
			}
			if got.Sentiment != tc.wantSentiment {
				t.Fatalf("sentiment=%q, want %q", got.Sentiment, tc.wantSentiment)
			}
			if got.Appropriateness < 70 || got.Appropriateness > 95 {
				t.Fatalf("appropriateness %v outside expected band", got.Appropriateness)
			}
		})
	}
}

func TestFallbackCharactersExtraction(t *testing.T) {
	text := `Maya said hello. Maya walked to the market. Tom asked about the weather. Tom laughed. Maya smiled again.`
	got := fallbackCharacters(text)

	if len(got.Characters) != 2 {
		t.Fatalf("expected 2 characters, got %+v", got.Characters)
	}
	if got.Characters[0].Name != "Maya" || got.Characters[0].Role != "Protagonist" {
		t.Fatalf("most mentioned should be protagonist, got %+v", got.Characters[0])
	}
	if got.Characters[1].Role != "Supporting" {
		t.Fatalf("second character should be supporting, got %+v", got.Characters[1])
	}
	// 2 characters, 5 total mentions: 40 + 20 + 2 = 62.
	if got.Score != 62 {
		t.Fatalf("score=%d, want 62", got.Score)
	}
}

func TestFallbackCharactersNoneFound(t *testing.T) {
	got := fallbackCharacters("the wind blew through the empty streets all night long")
	if len(got.Characters) != 0 {
		t.Fatalf("expected no characters, got %+v", got.Characters)
	}
	if len(got.Suggestions) == 0 {
		t.Fatal("expected a suggestion when no characters are found")
	}
	if got.Score != 40 {
		t.Fatalf("score=%d, want base 40", got.Score)
	}
}

func TestFallbackStructureScoring(t *testing.T) {
	full := strings.Join([]string{
		"Maya lived in a small town by the sea.",
		"One day she found a map.",
		"She followed it through the woods.",
		"The path grew darker and darker.",
		"A storm came and she hid in a cave.",
		"Finally she reached the treasure and learned the truth.",
	}, "\n")
	got := fallbackStructure(full)
	if got.Score != 80 {
		t.Fatalf("expected all three checks satisfied (80), got %d: %+v", got.Score, got)
	}
	if got.Uniqueness <= 0 || got.Uniqueness > 100 {
		t.Fatalf("uniqueness %d out of range", got.Uniqueness)
	}

	thin := "It happened.\nThe end."
	gotThin := fallbackStructure(thin)
	if gotThin.Score != 50 {
		t.Fatalf("expected base score 50 for thin text, got %d", gotThin.Score)
	}
	if len(gotThin.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %+v", gotThin.Suggestions)
	}
}

func TestFallbackTense(t *testing.T) {
	past := "She was tired. They were late. He had a plan. She saw the door and went inside."
	if got := fallbackTense(past); got.Primary != "Past" {
		t.Fatalf("primary=%q, want Past", got.Primary)
	}

	present := "She is tired. They are late. He has a plan. She sees the door and goes inside."
	if got := fallbackTense(present); got.Primary != "Present" {
		t.Fatalf("primary=%q, want Present", got.Primary)
	}

	mixed := "She is tired. They were late. He has a plan. She saw the door."
	got := fallbackTense(mixed)
	if got.Primary != "Mixed" {
		t.Fatalf("primary=%q, want Mixed", got.Primary)
	}

	// No marker words at all: nothing dominates, so the text is Mixed.
	markerless := "Birds fly south. Rivers flow east."
	if got := fallbackTense(markerless); got.Primary != "Mixed" {
		t.Fatalf("primary=%q, want Mixed for markerless text", got.Primary)
	}

	shifted := "He was walking home. He was alone. It is raining now."
	gotShift := fallbackTense(shifted)
	if gotShift.Primary != "Past" {
		t.Fatalf("primary=%q, want Past", gotShift.Primary)
	}
	if len(gotShift.Inconsistencies) != 1 {
		t.Fatalf("expected one inconsistency, got %+v", gotShift.Inconsistencies)
	}
	if gotShift.Score != 92 {
		t.Fatalf("score=%d, want 92", gotShift.Score)
	}
}

func TestFallbackGenre(t *testing.T) {
	fantasy := "The wizard cast a spell on the dragon guarding the enchanted kingdom. A magic quest began at the castle."
	got := fallbackGenre(fantasy)
	if got.Genre != "Fantasy" {
		t.Fatalf("genre=%q, want Fantasy", got.Genre)
	}

	plain := "qqq www eee rrr"
	gotPlain := fallbackGenre(plain)
	if gotPlain.Genre != "General Fiction" {
		t.Fatalf("genre=%q, want General Fiction", gotPlain.Genre)
	}
	if len(gotPlain.SubGenres) != 0 {
		t.Fatalf("expected no sub-genres, got %+v", gotPlain.SubGenres)
	}

	blended := "The detective found a clue about the missing treasure. The journey to the island was full of danger. Another clue surfaced during the investigation near the secret map."
	gotBlended := fallbackGenre(blended)
	if gotBlended.Genre != "Mystery" {
		t.Fatalf("genre=%q, want Mystery", gotBlended.Genre)
	}
	if len(gotBlended.SubGenres) == 0 {
		t.Fatal("expected sub-genres for blended text")
	}
}
