package translate

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ReliabilityConfig bounds a single provider call: per-call timeout, retry
// with doubling backoff, and a circuit breaker shared across calls.
type ReliabilityConfig struct {
	// CallTimeout bounds one attempt. Zero disables the per-call timeout.
	CallTimeout time.Duration
	// MaxAttempts includes the first attempt. Values below 1 become 1.
	MaxAttempts int
	// Backoff is the pause before the second attempt; it doubles each retry.
	Backoff time.Duration
	// Breaker configures the circuit breaker. Name defaults to the type.
	Breaker gobreaker.Settings
}

// DefaultReliabilityConfig matches the posture expected of an external,
// flaky translation service.
func DefaultReliabilityConfig() ReliabilityConfig {
	return ReliabilityConfig{
		CallTimeout: 10 * time.Second,
		MaxAttempts: 3,
		Backoff:     250 * time.Millisecond,
		Breaker: gobreaker.Settings{
			Name:    "translation-provider",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		},
	}
}

// ReliableProvider wraps a Provider with the reliability policy. A tripped
// breaker fails fast, which the orchestrator surfaces as per-field failures
// with source-value fallback rather than a stalled translation pass.
type ReliableProvider struct {
	inner   Provider
	cfg     ReliabilityConfig
	breaker *gobreaker.CircuitBreaker[string]
	sleep   func(ctx context.Context, d time.Duration) error
}

var _ Provider = (*ReliableProvider)(nil)

// NewReliableProvider wraps inner with timeout, retry, and breaker.
func NewReliableProvider(inner Provider, cfg ReliabilityConfig) *ReliableProvider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "translation-provider"
	}
	return &ReliableProvider{
		inner:   inner,
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[string](cfg.Breaker),
		sleep:   sleepContext,
	}
}

// Translate runs one translation call under the reliability policy.
func (p *ReliableProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	var lastErr error
	backoff := p.cfg.Backoff

	for attempt := 0; attempt < p.cfg.MaxAttempts; attempt++ {
		if attempt > 0 && backoff > 0 {
			if err := p.sleep(ctx, backoff); err != nil {
				return "", err
			}
			backoff *= 2
		}

		result, err := p.breaker.Execute(func() (string, error) {
			callCtx := ctx
			if p.cfg.CallTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, p.cfg.CallTimeout)
				defer cancel()
			}
			return p.inner.Translate(callCtx, text, from, to)
		})
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !IsRetryable(err) {
			break
		}
	}
	return "", lastErr
}

// SupportedLanguages delegates without retry; callers treat it as advisory.
func (p *ReliableProvider) SupportedLanguages(ctx context.Context) ([]string, error) {
	return p.inner.SupportedLanguages(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
