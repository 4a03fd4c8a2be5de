package translate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/wisatago/tourcms/internal/translate"
)

func reliabilityConfig() translate.ReliabilityConfig {
	cfg := translate.DefaultReliabilityConfig()
	cfg.Backoff = time.Millisecond
	return cfg
}

func TestReliableProvider_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	inner := &scriptedProvider{
		translate: func(_ context.Context, text, _, _ string) (string, error) {
			attempts++
			if attempts < 3 {
				return "", &translate.ProviderError{
					Provider:  "test",
					Operation: "translate",
					Retryable: true,
					Err:       errors.New("timeout"),
				}
			}
			return text + " (EN)", nil
		},
	}

	provider := translate.NewReliableProvider(inner, reliabilityConfig())
	got, err := provider.Translate(context.Background(), "Paket Bromo", "id", "en")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Paket Bromo (EN)" {
		t.Fatalf("unexpected result %q", got)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestReliableProvider_StopsOnPermanentFailure(t *testing.T) {
	attempts := 0
	permanent := &translate.ProviderError{
		Provider:  "test",
		Operation: "translate",
		Retryable: false,
		Err:       errors.New("unsupported pair"),
	}
	inner := &scriptedProvider{
		translate: func(context.Context, string, string, string) (string, error) {
			attempts++
			return "", permanent
		},
	}

	provider := translate.NewReliableProvider(inner, reliabilityConfig())
	_, err := provider.Translate(context.Background(), "text", "id", "en")
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("permanent failure must not retry, got %d attempts", attempts)
	}
}

func TestReliableProvider_BreakerFailsFast(t *testing.T) {
	attempts := 0
	inner := &scriptedProvider{
		translate: func(context.Context, string, string, string) (string, error) {
			attempts++
			return "", &translate.ProviderError{
				Provider:  "test",
				Operation: "translate",
				Retryable: false,
				Err:       errors.New("down"),
			}
		},
	}

	cfg := reliabilityConfig()
	cfg.Breaker.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 2
	}
	provider := translate.NewReliableProvider(inner, cfg)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := provider.Translate(ctx, "text", "id", "en"); err == nil {
			t.Fatal("expected failure")
		}
	}

	before := attempts
	_, err := provider.Translate(ctx, "text", "id", "en")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if attempts != before {
		t.Fatal("open breaker must not reach the provider")
	}
}

func TestReliableProvider_HonorsContextCancellation(t *testing.T) {
	inner := &scriptedProvider{
		translate: func(context.Context, string, string, string) (string, error) {
			return "", &translate.ProviderError{
				Provider:  "test",
				Operation: "translate",
				Retryable: true,
				Err:       errors.New("flaky"),
			}
		},
	}

	cfg := reliabilityConfig()
	cfg.Backoff = time.Second
	provider := translate.NewReliableProvider(inner, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := provider.Translate(ctx, "text", "id", "en")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
