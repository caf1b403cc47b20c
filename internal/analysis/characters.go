package analysis

import (
	"regexp"
	"sort"
)

// Character extraction fallback: a proper noun directly followed by a
// dialogue verb is treated as a character sighting. Names mentioned at
// least twice anywhere in the text become character entries.

var dialogueRe = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(said|asked|replied|answered|shouted|whispered|exclaimed|muttered|cried|thought|wondered)\b`)

func fallbackCharacters(text string) CharactersResult {
	names := map[string]bool{}
	for _, match := range dialogueRe.FindAllStringSubmatch(text, -1) {
		names[match[1]] = true
	}

	type mention struct {
		name  string
		count int
	}
	mentions := []mention{}
	totalMentions := 0
	for name := range names {
		wordRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		count := len(wordRe.FindAllString(text, -1))
		if count >= 2 {
			mentions = append(mentions, mention{name: name, count: count})
			totalMentions += count
		}
	}
	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].count != mentions[j].count {
			return mentions[i].count > mentions[j].count
		}
		return mentions[i].name < mentions[j].name
	})

	characters := []Character{}
	for i, m := range mentions {
		role := "Supporting"
		if i == 0 {
			role = "Protagonist"
		}
		characters = append(characters, Character{
			Name:        m.name,
			Role:        role,
			Traits:      []string{},
			Consistency: "Consistent",
		})
	}

	score := 40 + 10*len(characters) + totalMentions/2
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	suggestions := []string{}
	if len(characters) == 0 {
		suggestions = append(suggestions, "No clearly identifiable characters were found; consider naming your characters and giving them dialogue")
	}

	return CharactersResult{
		Characters:  characters,
		Score:       score,
		Suggestions: suggestions,
	}
}
