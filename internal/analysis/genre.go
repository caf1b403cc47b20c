package analysis

import (
	"regexp"
	"sort"
)

// Weighted keyword genre classifier. Fallback only.

type genrePattern struct {
	genre  string
	weight int
	re     *regexp.Regexp
}

var genrePatterns = []genrePattern{
	{"Fantasy", 2, regexp.MustCompile(`(?i)\b(magic|magical|dragon|wizard|witch|kingdom|spell|quest|enchanted|fairy)\b`)},
	{"Science Fiction", 2, regexp.MustCompile(`(?i)\b(space|spaceship|robot|alien|planet|galaxy|future|laser|technology)\b`)},
	{"Mystery", 2, regexp.MustCompile(`(?i)\b(detective|clue|mystery|murder|suspect|investigate|secret|missing)\b`)},
	{"Horror", 2, regexp.MustCompile(`(?i)\b(ghost|haunted|scream|terror|monster|nightmare|shadow|blood)\b`)},
	{"Adventure", 1, regexp.MustCompile(`(?i)\b(journey|treasure|explore|island|danger|map|expedition|rescue)\b`)},
	{"Romance", 1, regexp.MustCompile(`(?i)\b(love|heart|kiss|romance|wedding|crush)\b`)},
	{"Realistic Fiction", 1, regexp.MustCompile(`(?i)\b(school|teacher|family|homework|friend|neighborhood|soccer|home)\b`)},
}

func fallbackGenre(text string) GenreResult {
	type scored struct {
		genre string
		score int
	}
	scores := []scored{}
	for _, p := range genrePatterns {
		hits := len(p.re.FindAllString(text, -1))
		if hits > 0 {
			scores = append(scores, scored{genre: p.genre, score: hits * p.weight})
		}
	}
	if len(scores) == 0 {
		return GenreResult{Genre: "General Fiction", SubGenres: []string{}}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].genre < scores[j].genre
	})

	sub := []string{}
	for _, s := range scores[1:] {
		if len(sub) == 2 {
			break
		}
		sub = append(sub, s.genre)
	}
	return GenreResult{Genre: scores[0].genre, SubGenres: sub}
}
