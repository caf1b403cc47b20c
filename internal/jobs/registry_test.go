package jobs

import (
	"context"
	"testing"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("missing"); ok {
		t.Fatal("empty registry must not resolve handlers")
	}

	var ran bool
	r.Register("job_a", HandlerFunc(func(ctx context.Context, run *types.AnalysisRun) error {
		ran = true
		return nil
	}))

	h, ok := r.Get("job_a")
	if !ok {
		t.Fatal("registered handler not found")
	}
	if err := h.Run(context.Background(), &types.AnalysisRun{}); err != nil {
		t.Fatalf("handler run: %v", err)
	}
	if !ran {
		t.Fatal("handler body did not execute")
	}

	if _, ok := r.Get("job_b"); ok {
		t.Fatal("unregistered job type must not resolve")
	}
}
