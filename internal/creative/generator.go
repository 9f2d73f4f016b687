package creative

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/genai"
	"github.com/azulcreative/server/internal/retry"
)

// maxBatchSize bounds how many variations one request may ask for.
const maxBatchSize = 3

// ImageClient is the slice of the Gemini client the generator needs.
type ImageClient interface {
	GenerateImages(ctx context.Context, parts []genai.Part, aspectRatio string) ([]genai.Blob, error)
}

// Generator turns a Request into finished creatives. One request produces
// the full batch or nothing: a failure on any variation fails the attempt,
// and the retry policy re-runs the whole batch so partial results never
// leak out.
type Generator struct {
	client ImageClient
	policy retry.Policy
	logger zerolog.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(client ImageClient, policy retry.Policy, logger zerolog.Logger) *Generator {
	return &Generator{client: client, policy: policy, logger: logger}
}

// Generate produces between one and maxBatchSize creatives for the
// request. The returned creatives carry data URLs, fresh UUIDs and the
// request settings; persisting them is the caller's concern.
func (g *Generator) Generate(ctx context.Context, req Request) ([]domain.Creative, error) {
	count := req.Count
	if count < 1 {
		count = 1
	}
	if count > maxBatchSize {
		count = maxBatchSize
	}

	parts, err := g.assembleParts(req)
	if err != nil {
		return nil, err
	}
	aspect := MapAspectRatio(req.Settings.Format)

	var urls []string
	attempt := func(ctx context.Context) error {
		urls = urls[:0]
		for i := 0; i < count; i++ {
			blobs, err := g.client.GenerateImages(ctx, parts, aspect)
			if err != nil {
				return err
			}
			for _, blob := range blobs {
				urls = append(urls, dataURL(blob))
			}
		}
		return nil
	}

	start := time.Now()
	if err := retry.Do(ctx, g.policy, attempt); err != nil {
		g.logger.Warn().Err(err).Int("count", count).Msg("creative: generation failed")
		return nil, err
	}

	now := time.Now().UnixMilli()
	creatives := make([]domain.Creative, len(urls))
	for i, url := range urls {
		creatives[i] = domain.Creative{
			ID:        uuid.NewString(),
			URL:       url,
			Timestamp: now,
			Settings:  req.Settings,
		}
	}

	g.logger.Info().
		Int("count", len(creatives)).
		Str("aspect_ratio", aspect).
		Dur("elapsed", time.Since(start)).
		Msg("creative: batch generated")

	return creatives, nil
}

// assembleParts builds the request parts in the order BuildPrompt
// annotates them: logo, references, then the instruction text.
func (g *Generator) assembleParts(req Request) ([]genai.Part, error) {
	var parts []genai.Part
	if req.Logo != nil {
		blob, err := NormalizeImage(*req.Logo)
		if err != nil {
			return nil, fmt.Errorf("creative: process logo: %w", err)
		}
		parts = append(parts, genai.Part{Blob: &blob})
	}
	for i, ref := range req.References {
		blob, err := NormalizeImage(ref)
		if err != nil {
			return nil, fmt.Errorf("creative: process reference %d: %w", i+1, err)
		}
		parts = append(parts, genai.Part{Blob: &blob})
	}
	parts = append(parts, genai.Part{Text: BuildPrompt(req)})
	return parts, nil
}

func dataURL(blob genai.Blob) string {
	return fmt.Sprintf("data:%s;base64,%s", blob.MimeType, base64.StdEncoding.EncodeToString(blob.Data))
}
