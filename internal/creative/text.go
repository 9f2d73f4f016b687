package creative

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/genai"
)

// TextClient is the slice of the Gemini client the copy assistants need.
type TextClient interface {
	GenerateText(ctx context.Context, parts []genai.Part, jsonOutput bool) (string, error)
}

// Assistant bundles the text-model helpers around generation: prompt
// rewriting, caption copywriting and brand identity analysis.
type Assistant struct {
	client TextClient
	logger zerolog.Logger
}

// NewAssistant constructs an Assistant.
func NewAssistant(client TextClient, logger zerolog.Logger) *Assistant {
	return &Assistant{client: client, logger: logger}
}

// BrandProfile is the visual identity extracted from uploaded brand
// assets.
type BrandProfile struct {
	Palette string `json:"palette"`
	Style   string `json:"style"`
	Niche   string `json:"niche"`
}

// EnhancePrompt rewrites a terse scene description into a detailed image
// generation prompt. An empty model response falls back to the original
// description rather than failing.
func (a *Assistant) EnhancePrompt(ctx context.Context, description, category, style string) (string, error) {
	prompt := fmt.Sprintf(`ACT AS A PROFESSIONAL PROMPT ENGINEER.
Rewrite the following simple description into a detailed, high-quality image generation prompt.

CONTEXT:
- User Input: %q
- Category: %s
- Desired Style: %s

INSTRUCTIONS:
- Add details about lighting, camera angle, texture, and mood.
- Keep it concise but descriptive (approx 40-60 words).
- Ensure it fits the selected Style.
- Output ONLY the rewritten prompt text. No "Here is the prompt" prefix.`, description, category, style)

	text, err := a.client.GenerateText(ctx, []genai.Part{{Text: prompt}}, false)
	if err != nil {
		return "", err
	}
	if text == "" {
		return description, nil
	}
	return text, nil
}

// GenerateSocialCaption writes an Instagram caption in Brazilian
// Portuguese for a finished creative. imageDataURL accepts both raw
// base64 and data: URLs.
func (a *Assistant) GenerateSocialCaption(ctx context.Context, imageDataURL, niche, objective string) (string, error) {
	prompt := fmt.Sprintf(`You are a Social Media Manager Expert.

TASK: Write a captivating Instagram caption for this image.
CONTEXT:
- Niche: %s
- Goal: %s

INSTRUCTIONS:
- Write in Portuguese (Brazil).
- Use an engaging tone suitable for the niche.
- Start with a strong hook.
- Include a Call to Action (CTA) at the end.
- Add 5-10 relevant and trending hashtags.
- Keep it concise (under 100 words).`, niche, objective)

	mimeType, data, err := decodeDataURL(imageDataURL)
	if err != nil {
		return "", err
	}

	parts := []genai.Part{
		{Blob: &genai.Blob{MimeType: mimeType, Data: data}},
		{Text: prompt},
	}
	return a.client.GenerateText(ctx, parts, false)
}

// AnalyzeBrandAssets inspects uploaded brand images and extracts a color
// palette, the closest named style and a niche suggestion. The model is
// asked for strict JSON but stray code fences are tolerated.
func (a *Assistant) AnalyzeBrandAssets(ctx context.Context, images []ImageInput) (BrandProfile, error) {
	prompt := `You are a Brand Identity Expert. Analyze these images.

TASK: Extract the visual identity.

OUTPUT FORMAT: JSON ONLY (No Markdown, No code blocks).
Structure:
{
  "palette": "String describing main hex colors (e.g., #FF0000, #000000) and the mood (e.g., Dark & Neon)",
  "style": "One exact value from this list: ['Ultra Realistic', 'Cinematic', 'Studio Lighting', 'Minimalist', 'Advertising', 'Vibrant Neon', '3D Illustration', 'Corporate Tech']",
  "niche": "A short suggestion for the industry niche based on the images"
}

Choose the 'style' that BEST matches the provided images.`

	parts := make([]genai.Part, 0, len(images)+1)
	for i, img := range images {
		blob, err := NormalizeImage(img)
		if err != nil {
			return BrandProfile{}, fmt.Errorf("creative: process brand asset %d: %w", i+1, err)
		}
		parts = append(parts, genai.Part{Blob: &blob})
	}
	parts = append(parts, genai.Part{Text: prompt})

	raw, err := a.client.GenerateText(ctx, parts, true)
	if err != nil {
		return BrandProfile{}, err
	}

	var profile BrandProfile
	if err := json.Unmarshal([]byte(extractJSONFragment(raw)), &profile); err != nil {
		a.logger.Warn().Err(err).Msg("creative: brand analysis returned malformed JSON")
		return BrandProfile{}, fmt.Errorf("creative: decode brand analysis: %w", err)
	}
	if profile.Style == "" {
		profile.Style = "Cinematic"
	}
	return profile, nil
}

func decodeDataURL(input string) (string, []byte, error) {
	mimeType := "image/jpeg"
	payload := input
	if strings.HasPrefix(input, "data:") {
		rest := strings.TrimPrefix(input, "data:")
		meta, b64, ok := strings.Cut(rest, ",")
		if !ok {
			return "", nil, fmt.Errorf("creative: malformed data url")
		}
		if mt := strings.TrimSuffix(meta, ";base64"); mt != "" {
			mimeType = mt
		}
		payload = b64
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("creative: decode image payload: %w", err)
	}
	return mimeType, data, nil
}

// extractJSONFragment strips code fences and any prose surrounding the
// first JSON value in a model response.
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSpace(text)
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
