package analysis

import (
	"context"
	"time"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
)

// attemptWithFallback races a primary strategy against its deadline and
// substitutes the deterministic fallback on any error, malformed
// response or timeout. This is the settle-all building block: callers
// never see a failure, only a possibly degraded value.
//
// The second return reports whether the fallback was used.
func attemptWithFallback[T any](
	ctx context.Context,
	log *logger.Logger,
	name string,
	timeout time.Duration,
	primary func(ctx context.Context) (T, error),
	fallback func() T,
) (T, bool) {
	if primary == nil {
		return fallback(), true
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := primary(cctx)
		done <- outcome{val: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			if log != nil {
				log.Warn("Analyzer primary failed, using fallback", "analyzer", name, "error", o.err)
			}
			return fallback(), true
		}
		return o.val, false
	case <-cctx.Done():
		if log != nil {
			log.Warn("Analyzer primary timed out, using fallback", "analyzer", name, "timeout", timeout.String())
		}
		return fallback(), true
	}
}
