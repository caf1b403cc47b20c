package analysis

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
)

// Orchestrator fans the nine analyzers out concurrently, settles every
// task to either its primary result or its fallback, and aggregates
// the sub-scores. Analyze never returns an error: invalid input yields
// a neutral result and analyzer failures yield a degraded one.
type Orchestrator struct {
	log   *logger.Logger
	llm   LLM
	cache *ResultCache

	heavyTimeout time.Duration
	lightTimeout time.Duration
}

// Stats describes how a result was produced, so the workflow can flag
// fallback-heavy computations.
type Stats struct {
	CacheHit      bool
	PrimaryCount  int
	FallbackCount int
}

// Degraded reports whether the result leaned mostly on fallbacks for
// the analyzers that have an external primary.
func (s Stats) Degraded() bool {
	return s.FallbackCount >= 2
}

func NewOrchestrator(log *logger.Logger, llm LLM, cache *ResultCache) *Orchestrator {
	if cache == nil {
		cache = NewResultCache(DefaultCacheTTL)
	}
	return &Orchestrator{
		log:          log.With("service", "AnalysisOrchestrator"),
		llm:          llm,
		cache:        cache,
		heavyTimeout: 10 * time.Second,
		lightTimeout: 5 * time.Second,
	}
}

func (o *Orchestrator) Analyze(ctx context.Context, text, title string) (*Result, Stats) {
	if strings.TrimSpace(text) == "" {
		o.log.Warn("Empty text submitted for analysis, returning neutral result", "title", title)
		return NeutralResult(), Stats{}
	}

	fp := Fingerprint(text)
	if cached := o.cache.Get(fp); cached != nil {
		o.log.Debug("Analysis cache hit", "fingerprint", fp)
		return cached, Stats{CacheHit: true}
	}

	result := &Result{BasicMetrics: ComputeBasicMetrics(text)}
	truncated := truncateForPrimary(text)

	var mu sync.Mutex
	stats := Stats{}
	settle := func(usedFallback bool) {
		mu.Lock()
		if usedFallback {
			stats.FallbackCount++
		} else {
			stats.PrimaryCount++
		}
		mu.Unlock()
	}

	var plagiarismScore float64
	var aiDetection AIDetection
	var genre GenreResult

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var primary func(context.Context) (GrammarResult, error)
		if o.llm != nil {
			primary = func(c context.Context) (GrammarResult, error) {
				return o.llm.AnalyzeGrammar(c, truncated)
			}
		}
		var usedFallback bool
		result.Grammar, usedFallback = attemptWithFallback(gctx, o.log, "grammar", o.heavyTimeout,
			primary, func() GrammarResult { return fallbackGrammar(text) })
		settle(usedFallback)
		return nil
	})

	g.Go(func() error {
		result.Tone = fallbackTone(text)
		return nil
	})

	g.Go(func() error {
		var primary func(context.Context) (CharactersResult, error)
		if o.llm != nil {
			primary = func(c context.Context) (CharactersResult, error) {
				return o.llm.AnalyzeCharacters(c, truncated)
			}
		}
		var usedFallback bool
		result.Characters, usedFallback = attemptWithFallback(gctx, o.log, "characters", o.heavyTimeout,
			primary, func() CharactersResult { return fallbackCharacters(text) })
		settle(usedFallback)
		return nil
	})

	g.Go(func() error {
		result.Structure = fallbackStructure(text)
		return nil
	})

	g.Go(func() error {
		result.LogicalFlaws = fallbackLogicalFlaws(text)
		return nil
	})

	g.Go(func() error {
		result.Tense = fallbackTense(text)
		return nil
	})

	g.Go(func() error {
		var primary func(context.Context) (AIDetection, error)
		if o.llm != nil {
			primary = func(c context.Context) (AIDetection, error) {
				return o.llm.DetectAIContent(c, truncated)
			}
		}
		var usedFallback bool
		aiDetection, usedFallback = attemptWithFallback(gctx, o.log, "ai_detection", o.heavyTimeout,
			primary, func() AIDetection { return fallbackAIDetection(text) })
		settle(usedFallback)
		return nil
	})

	g.Go(func() error {
		plagiarismScore = fallbackPlagiarismScore(text)
		return nil
	})

	g.Go(func() error {
		genre = fallbackGenre(text)
		return nil
	})

	// Every task settles to a value, so Wait cannot fail.
	_ = g.Wait()

	originality := OriginalityScore(aiDetection.Score, plagiarismScore, result.Structure.Uniqueness)
	overall := OverallScore(OverallInputs{
		Grammar:             ptr(float64(result.Grammar.Score)),
		ToneAppropriateness: ptr(result.Tone.Appropriateness),
		Structure:           ptr(float64(result.Structure.Score)),
		Characters:          ptr(float64(result.Characters.Score)),
		LogicalFlow:         ptr(float64(result.LogicalFlaws.Score)),
		Tense:               ptr(float64(result.Tense.Score)),
		AIScore:             ptr(float64(aiDetection.Score)),
		PlagiarismScore:     ptr(plagiarismScore),
		Originality:         ptr(float64(originality)),
	})

	result.Metrics = Metrics{
		AIScore:          aiDetection.Score,
		PlagiarismScore:  plagiarismScore,
		OriginalityScore: originality,
		Genre:            genre.Genre,
		SubGenres:        genre.SubGenres,
		OverallScore:     overall,
	}

	o.cache.Put(fp, result)
	o.log.Info("Analysis complete",
		"title", title,
		"word_count", result.BasicMetrics.WordCount,
		"overall_score", overall,
		"primaries", stats.PrimaryCount,
		"fallbacks", stats.FallbackCount,
	)
	return result, stats
}
