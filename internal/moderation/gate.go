// Package moderation implements the content-safety and creativity-scoring
// gate every submission must pass. The gate is a pluggable capability: the
// built-in heuristic implementation is deterministic and suitable for tests
// and local development, while RemoteGate delegates to a hosted classifier.
package moderation

import (
	"context"
	"time"

	"roastarena/internal/observability"
)

// TextResult is the verdict for a candidate roast text.
type TextResult struct {
	Accepted bool `json:"accepted"`
	// Score is the creativity score on a 0-100 scale. Zero when rejected.
	Score  int    `json:"score"`
	Reason string `json:"reason,omitempty"`
}

// ImageResult is the verdict for an uploaded image.
type ImageResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// Gate evaluates candidate content. Implementations must be deterministic for
// identical input and must respect context cancellation.
type Gate interface {
	EvaluateText(ctx context.Context, text, roastLevel string) (TextResult, error)
	EvaluateImage(ctx context.Context, data []byte, mimeType string) (ImageResult, error)
}

// Guarded wraps a Gate with a bounded timeout and fail-closed semantics:
// moderation is a safety control, so a timeout or internal failure is an
// unaccepted verdict, never an accepted one.
type Guarded struct {
	inner   Gate
	timeout time.Duration
}

// NewGuarded returns a Gate enforcing the given per-call timeout on inner.
func NewGuarded(inner Gate, timeout time.Duration) *Guarded {
	return &Guarded{inner: inner, timeout: timeout}
}

func (g *Guarded) EvaluateText(ctx context.Context, text, roastLevel string) (TextResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type outcome struct {
		res TextResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := g.inner.EvaluateText(ctx, text, roastLevel)
		ch <- outcome{res, err}
	}()

	var res TextResult
	select {
	case out := <-ch:
		if out.err != nil {
			res = TextResult{Accepted: false, Reason: "Moderation unavailable, please try again"}
		} else {
			res = out.res
		}
	case <-ctx.Done():
		res = TextResult{Accepted: false, Reason: "Moderation timed out, please try again"}
	}

	observability.ModerationLatency.WithLabelValues("text").Observe(time.Since(start).Seconds())
	observability.ModerationDecisions.WithLabelValues("text", verdictLabel(res.Accepted)).Inc()
	return res, nil
}

func (g *Guarded) EvaluateImage(ctx context.Context, data []byte, mimeType string) (ImageResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type outcome struct {
		res ImageResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := g.inner.EvaluateImage(ctx, data, mimeType)
		ch <- outcome{res, err}
	}()

	var res ImageResult
	select {
	case out := <-ch:
		if out.err != nil {
			res = ImageResult{Accepted: false, Reason: "Moderation unavailable, please try again"}
		} else {
			res = out.res
		}
	case <-ctx.Done():
		res = ImageResult{Accepted: false, Reason: "Moderation timed out, please try again"}
	}

	observability.ModerationLatency.WithLabelValues("image").Observe(time.Since(start).Seconds())
	observability.ModerationDecisions.WithLabelValues("image", verdictLabel(res.Accepted)).Inc()
	return res, nil
}

func verdictLabel(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}
