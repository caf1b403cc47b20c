package analysis

// Constant-valued fallbacks for analyzers whose real implementations
// live behind external integrations.

// fallbackLogicalFlaws is a placeholder for a real consistency checker.
func fallbackLogicalFlaws(_ string) LogicalFlawsResult {
	return LogicalFlawsResult{
		Flaws:     []string{},
		Questions: []string{},
		Score:     80,
	}
}

// fallbackAIDetection is a conservative low estimate used when the
// external detector is unavailable.
func fallbackAIDetection(_ string) AIDetection {
	return AIDetection{
		Score:      20,
		Reasoning:  "External AI detector unavailable; conservative heuristic estimate",
		Confidence: 0.3,
	}
}

// fallbackPlagiarismScore is the integration point for a corpus
// similarity service. Until one is wired in, every text gets the same
// low similarity on the 0-10 scale.
func fallbackPlagiarismScore(_ string) float64 {
	return 2
}
