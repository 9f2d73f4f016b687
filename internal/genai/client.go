package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is a thin facade over the Gemini generateContent API. It speaks
// the wire format directly and folds API failures into the domain error
// taxonomy so callers can distinguish transient pressure (retry) from
// revoked credentials and malformed requests (fail fast).
type Client struct {
	apiKey     string
	baseURL    string
	imageModel string
	textModel  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Part is a single prompt fragment, either text or inline binary data.
type Part struct {
	Text string
	Blob *Blob
}

// Blob carries inline binary data with its MIME type.
type Blob struct {
	MimeType string
	Data     []byte
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string             `json:"responseMimeType,omitempty"`
	ImageConfig      *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generous timeout is
// created, since image generation routinely takes tens of seconds. An
// empty API key is accepted so the rest of the service can run keyless;
// generation calls then fail with ErrConfigurationMissing until a key is
// configured.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-3-flash-preview"
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		imageModel: imageModel,
		textModel:  textModel,
		httpClient: client,
		logger:     opts.Logger,
	}, nil
}

// ImageModel returns the configured image model identifier.
func (c *Client) ImageModel() string {
	return c.imageModel
}

// GenerateImages runs a single image generation call and returns every
// inline image among the candidates. A response with no image data is
// reported as ErrEmptyGenerationResult.
func (c *Client) GenerateImages(ctx context.Context, parts []Part, aspectRatio string) ([]Blob, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: encodeParts(parts)}},
	}
	if aspectRatio != "" {
		payload.GenerationConfig = &geminiGenerationConfig{
			ImageConfig: &geminiImageConfig{AspectRatio: aspectRatio},
		}
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.imageModel, payload, &response); err != nil {
		return nil, err
	}

	var blobs []Blob
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: decode inline data: %v", domain.ErrTransport, err)
			}
			mime := part.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			blobs = append(blobs, Blob{MimeType: mime, Data: data})
		}
	}
	if len(blobs) == 0 {
		return nil, domain.ErrEmptyGenerationResult
	}
	return blobs, nil
}

// GenerateText runs a text generation call and returns the concatenated
// text of the first candidate. With jsonOutput the model is asked for an
// application/json response.
func (c *Client) GenerateText(ctx context.Context, parts []Part, jsonOutput bool) (string, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: encodeParts(parts)}},
	}
	if jsonOutput {
		payload.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: "application/json"}
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.textModel, payload, &response); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			b.WriteString(part.Text)
		}
		break
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", domain.ErrEmptyGenerationResult
	}
	return text, nil
}

func (c *Client) invoke(ctx context.Context, model string, payload any, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: gemini api key", domain.ErrConfigurationMissing)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("genai: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("genai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.classifyAPIError(resp, model)
	}

	c.logger.Debug().
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Msg("genai: generateContent ok")

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrTransport, err)
	}
	return nil
}

// classifyAPIError maps an HTTP error response onto the domain taxonomy.
// 429 means rate limiting, 503 means the model is overloaded, and an
// invalid or revoked API key surfaces as ErrKeyRevoked regardless of the
// exact status code Google chooses to send it with.
func (c *Client) classifyAPIError(resp *http.Response, model string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var apiErr geminiErrorResponse
	_ = json.Unmarshal(raw, &apiErr)

	message := strings.TrimSpace(apiErr.Error.Message)
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	c.logger.Warn().
		Str("model", model).
		Int("status", resp.StatusCode).
		Str("api_status", apiErr.Error.Status).
		Msg("genai: generateContent failed")

	upper := strings.ToUpper(message + " " + apiErr.Error.Status)
	switch {
	case strings.Contains(upper, "API_KEY_INVALID") || strings.Contains(upper, "API KEY NOT VALID") || strings.Contains(upper, "PERMISSION_DENIED"):
		return fmt.Errorf("%w: %s", domain.ErrKeyRevoked, message)
	case resp.StatusCode == http.StatusTooManyRequests || apiErr.Error.Status == "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, message)
	case resp.StatusCode == http.StatusServiceUnavailable || apiErr.Error.Status == "UNAVAILABLE":
		return fmt.Errorf("%w: %s", domain.ErrServiceOverloaded, message)
	default:
		return fmt.Errorf("%w: gemini status %d: %s", domain.ErrTransport, resp.StatusCode, message)
	}
}

func encodeParts(parts []Part) []geminiPart {
	out := make([]geminiPart, 0, len(parts))
	for _, p := range parts {
		if p.Blob != nil {
			out = append(out, geminiPart{InlineData: &geminiInlineData{
				MimeType: p.Blob.MimeType,
				Data:     base64.StdEncoding.EncodeToString(p.Blob.Data),
			}})
			continue
		}
		out = append(out, geminiPart{Text: p.Text})
	}
	return out
}
