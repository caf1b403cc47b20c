package jobs

import (
	"context"
	"sync"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

// Handler executes one claimed job. Returning an error marks the run
// failed and eligible for retry under the worker's policy.
type Handler interface {
	Run(ctx context.Context, run *types.AnalysisRun) error
}

type HandlerFunc func(ctx context.Context, run *types.AnalysisRun) error

func (f HandlerFunc) Run(ctx context.Context, run *types.AnalysisRun) error {
	return f(ctx, run)
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(jobType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[jobType] = h
}

func (r *Registry) Get(jobType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[jobType]
	return h, ok
}
