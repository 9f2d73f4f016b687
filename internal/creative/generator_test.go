package creative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/genai"
	"github.com/azulcreative/server/internal/retry"
)

type stubImageClient struct {
	calls int
	fn    func(call int) ([]genai.Blob, error)

	lastParts  []genai.Part
	lastAspect string
}

func (s *stubImageClient) GenerateImages(ctx context.Context, parts []genai.Part, aspectRatio string) ([]genai.Blob, error) {
	s.calls++
	s.lastParts = parts
	s.lastAspect = aspectRatio
	return s.fn(s.calls)
}

func okBlob(call int) ([]genai.Blob, error) {
	return []genai.Blob{{MimeType: "image/png", Data: []byte{byte(call)}}}, nil
}

func testPolicy() retry.Policy {
	return retry.Policy{MaxRetries: 2, Delay: time.Millisecond}
}

func TestGenerateProducesBatch(t *testing.T) {
	client := &stubImageClient{fn: okBlob}
	gen := NewGenerator(client, testPolicy(), zerolog.Nop())

	req := baseRequest()
	req.Count = 3

	creatives, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if len(creatives) != 3 {
		t.Fatalf("len(creatives) = %d, want 3", len(creatives))
	}
	seen := map[string]bool{}
	for _, c := range creatives {
		if c.ID == "" || seen[c.ID] {
			t.Fatalf("creative ids must be unique and non-empty")
		}
		seen[c.ID] = true
		if !strings.HasPrefix(c.URL, "data:image/png;base64,") {
			t.Fatalf("URL = %q, want data url", c.URL)
		}
		if c.Timestamp == 0 {
			t.Fatalf("Timestamp not set")
		}
		if c.Settings.Category != req.Settings.Category {
			t.Fatalf("Settings not carried onto creative")
		}
	}
	if client.lastAspect != "3:4" {
		t.Fatalf("aspect = %q, want 3:4 for 4:5 format", client.lastAspect)
	}
	if len(client.lastParts) != 1 || client.lastParts[0].Text == "" {
		t.Fatalf("expected a single text part, got %d parts", len(client.lastParts))
	}
}

func TestGenerateClampsCount(t *testing.T) {
	cases := []struct {
		name  string
		count int
		want  int
	}{
		{"zero", 0, 1},
		{"negative", -2, 1},
		{"above max", 9, maxBatchSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubImageClient{fn: okBlob}
			gen := NewGenerator(client, testPolicy(), zerolog.Nop())

			req := baseRequest()
			req.Count = tc.count

			creatives, err := gen.Generate(context.Background(), req)
			if err != nil {
				t.Fatalf("Generate error = %v", err)
			}
			if len(creatives) != tc.want {
				t.Fatalf("len(creatives) = %d, want %d", len(creatives), tc.want)
			}
		})
	}
}

func TestGenerateKeepsEveryImageFromOneCall(t *testing.T) {
	// One model call may carry several inline images; all of them become
	// creatives.
	client := &stubImageClient{fn: func(call int) ([]genai.Blob, error) {
		return []genai.Blob{
			{MimeType: "image/png", Data: []byte{1}},
			{MimeType: "image/jpeg", Data: []byte{2}},
		}, nil
	}}
	gen := NewGenerator(client, testPolicy(), zerolog.Nop())

	req := baseRequest()
	req.Count = 1

	creatives, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if len(creatives) != 2 {
		t.Fatalf("len(creatives) = %d, want 2", len(creatives))
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
}

func TestGenerateRetriesWholeBatch(t *testing.T) {
	// Second variation fails on the first attempt; the retry must start
	// the batch over instead of keeping the partial result.
	client := &stubImageClient{fn: func(call int) ([]genai.Blob, error) {
		if call == 2 {
			return nil, domain.ErrServiceOverloaded
		}
		return okBlob(call)
	}}
	gen := NewGenerator(client, testPolicy(), zerolog.Nop())

	req := baseRequest()
	req.Count = 2

	creatives, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if len(creatives) != 2 {
		t.Fatalf("len(creatives) = %d, want 2", len(creatives))
	}
	if client.calls != 4 {
		t.Fatalf("calls = %d, want 4 (failed batch of 2, then full batch)", client.calls)
	}
}

func TestGenerateExhaustionSurfacesQuota(t *testing.T) {
	client := &stubImageClient{fn: func(int) ([]genai.Blob, error) {
		return nil, domain.ErrRateLimited
	}}
	gen := NewGenerator(client, testPolicy(), zerolog.Nop())

	_, err := gen.Generate(context.Background(), baseRequest())
	if !errors.Is(err, domain.ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}
	if client.calls != 3 {
		t.Fatalf("calls = %d, want 3", client.calls)
	}
}

func TestGenerateFailsFastOnRevokedKey(t *testing.T) {
	client := &stubImageClient{fn: func(int) ([]genai.Blob, error) {
		return nil, domain.ErrKeyRevoked
	}}
	gen := NewGenerator(client, testPolicy(), zerolog.Nop())

	_, err := gen.Generate(context.Background(), baseRequest())
	if !errors.Is(err, domain.ErrKeyRevoked) {
		t.Fatalf("err = %v, want ErrKeyRevoked", err)
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
}

func TestGenerateEmptyResultIsNotRetried(t *testing.T) {
	client := &stubImageClient{fn: func(int) ([]genai.Blob, error) {
		return nil, domain.ErrEmptyGenerationResult
	}}
	gen := NewGenerator(client, testPolicy(), zerolog.Nop())

	_, err := gen.Generate(context.Background(), baseRequest())
	if !errors.Is(err, domain.ErrEmptyGenerationResult) {
		t.Fatalf("err = %v, want ErrEmptyGenerationResult", err)
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
}
