package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/azulcreative/server/internal/domain"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Policy{MaxRetries: 3, Delay: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.ErrRateLimited
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestDoExhaustionMapsToQuotaExhausted(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Policy{MaxRetries: 2, Delay: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return domain.ErrServiceOverloaded
	})
	if !errors.Is(err, domain.ErrQuotaExhausted) {
		t.Fatalf("Do error = %v, want ErrQuotaExhausted", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (initial + 2 retries)", attempts)
	}
}

func TestDoBackoffTotalWait(t *testing.T) {
	// Waits between attempts double from the base delay, so two retries
	// sleep 20ms then 40ms for a 60ms total before the final attempt.
	policy := Policy{MaxRetries: 2, Delay: 20 * time.Millisecond}
	attempts := 0
	start := time.Now()
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		attempts++
		if attempts <= 2 {
			return domain.ErrServiceOverloaded
		}
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Do error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
	if want := 60 * time.Millisecond; elapsed < want {
		t.Fatalf("elapsed = %v, want at least %v", elapsed, want)
	}
	if limit := time.Second; elapsed > limit {
		t.Fatalf("elapsed = %v, want under %v", elapsed, limit)
	}
}

func TestDoFailsFastOnNonTransientError(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Policy{MaxRetries: 3, Delay: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return domain.ErrKeyRevoked
	})
	if !errors.Is(err, domain.ErrKeyRevoked) {
		t.Fatalf("Do error = %v, want ErrKeyRevoked", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestDoZeroRetriesMakesSingleAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Policy{MaxRetries: 0, Delay: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return domain.ErrRateLimited
	})
	if !errors.Is(err, domain.ErrQuotaExhausted) {
		t.Fatalf("Do error = %v, want ErrQuotaExhausted", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", domain.ErrRateLimited, true},
		{"overloaded", domain.ErrServiceOverloaded, true},
		{"key revoked", domain.ErrKeyRevoked, false},
		{"permission", domain.ErrPermissionDenied, false},
		{"other", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Transient(tc.err); got != tc.want {
				t.Fatalf("Transient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
