package services

import (
	"context"
	"fmt"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/analysis"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/clients/openai"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
)

// llmAnalyzer adapts the OpenAI client to the analyzer capability the
// orchestrator consumes. Every method returns structured JSON or an
// error; the orchestrator treats both failure modes identically.
type llmAnalyzer struct {
	log *logger.Logger
	ai  openai.Client
}

func NewLLMAnalyzer(log *logger.Logger, ai openai.Client) analysis.LLM {
	return &llmAnalyzer{
		log: log.With("service", "LLMAnalyzer"),
		ai:  ai,
	}
}

const grammarSystemPrompt = `You are an encouraging writing coach for students.
Review the text for grammar, spelling and punctuation. Respond with a JSON object:
{"errors":[{"type":"...","text":"...","suggestion":"..."}],"score":0-100,"summary":"...","correctedText":"..."}`

func (l *llmAnalyzer) AnalyzeGrammar(ctx context.Context, text string) (analysis.GrammarResult, error) {
	var out analysis.GrammarResult
	if err := l.ai.GenerateJSON(ctx, grammarSystemPrompt, text, &out); err != nil {
		return analysis.GrammarResult{}, fmt.Errorf("grammar analysis: %w", err)
	}
	if out.Score < 0 || out.Score > 100 {
		return analysis.GrammarResult{}, fmt.Errorf("grammar analysis: score %d out of range", out.Score)
	}
	if out.Errors == nil {
		out.Errors = []analysis.GrammarError{}
	}
	return out, nil
}

const charactersSystemPrompt = `You analyze characters in student fiction.
Respond with a JSON object:
{"characters":[{"name":"...","role":"...","traits":["..."],"consistency":"..."}],"score":0-100,"suggestions":["..."]}`

func (l *llmAnalyzer) AnalyzeCharacters(ctx context.Context, text string) (analysis.CharactersResult, error) {
	var out analysis.CharactersResult
	if err := l.ai.GenerateJSON(ctx, charactersSystemPrompt, text, &out); err != nil {
		return analysis.CharactersResult{}, fmt.Errorf("character analysis: %w", err)
	}
	if out.Score < 0 || out.Score > 100 {
		return analysis.CharactersResult{}, fmt.Errorf("character analysis: score %d out of range", out.Score)
	}
	if out.Characters == nil {
		out.Characters = []analysis.Character{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return out, nil
}

const aiDetectSystemPrompt = `You estimate how likely a piece of student writing was produced by an AI model.
Respond with a JSON object: {"score":0-100,"reasoning":"...","confidence":0.0-1.0}`

func (l *llmAnalyzer) DetectAIContent(ctx context.Context, text string) (analysis.AIDetection, error) {
	var out analysis.AIDetection
	if err := l.ai.GenerateJSON(ctx, aiDetectSystemPrompt, text, &out); err != nil {
		return analysis.AIDetection{}, fmt.Errorf("ai detection: %w", err)
	}
	if out.Score < 0 || out.Score > 100 {
		return analysis.AIDetection{}, fmt.Errorf("ai detection: score %d out of range", out.Score)
	}
	return out, nil
}
