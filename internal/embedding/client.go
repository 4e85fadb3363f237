package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks vectorvision/internal/embedding Embedder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	ModalityText  = "text"
	ModalityImage = "image"
)

// Image is raw image content handed to the embedding model.
type Image struct {
	ContentType string
	Bytes       []byte
}

// Embedder maps text and images into the same vector space.
type Embedder interface {
	// EmbedTexts returns one vector per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedImages returns one vector per input image.
	EmbedImages(ctx context.Context, images []Image) ([][]float32, error)
}

// Client calls an OpenAI-compatible /v1/embeddings endpoint that serves a
// CLIP-style model (text and image inputs share one vector space).
type Client struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // Expected vector size for validation
	client       *http.Client
	limiter      *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit limits outgoing requests to rps per second. rps <= 0 disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new embeddings client.
// expectedSize is the expected vector size (from VECTOR_SIZE config).
// All returned embeddings are validated against this size.
func NewClient(baseURL, apiKey, model string, expectedSize int, opts ...Option) *Client {
	c := &Client{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EmbeddingsRequest represents the request payload for embeddings API.
type EmbeddingsRequest struct {
	Model    string   `json:"model"`
	Input    []string `json:"input"`
	Modality string   `json:"modality,omitempty"`
}

// EmbeddingData represents a single embedding in the response.
type EmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingsResponse represents the response from the embeddings API.
type EmbeddingsResponse struct {
	Data []EmbeddingData `json:"data"`
}

// EmbedTexts generates embeddings for the given texts.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}
	return c.embed(ctx, texts, ModalityText)
}

// EmbedImages generates embeddings for the given images.
// Images are sent inline as base64 data URIs.
func (c *Client) EmbedImages(ctx context.Context, images []Image) ([][]float32, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("empty input array")
	}
	inputs := make([]string, len(images))
	for i, img := range images {
		if len(img.Bytes) == 0 {
			return nil, fmt.Errorf("image %d is empty", i)
		}
		inputs[i] = DataURI(img)
	}
	return c.embed(ctx, inputs, ModalityImage)
}

// DataURI encodes an image as a data URI. The content type is sniffed when unset.
func DataURI(img Image) string {
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Bytes)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img.Bytes)
}

func (c *Client) embed(ctx context.Context, inputs []string, modality string) ([][]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	url := fmt.Sprintf("%s/v1/embeddings", c.BaseURL)

	payload := EmbeddingsRequest{
		Model:    c.Model,
		Input:    inputs,
		Modality: modality,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embeddingsResp EmbeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embeddingsResp.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(embeddingsResp.Data))
	}

	// Convert []float64 to []float32 and validate size
	result := make([][]float32, len(embeddingsResp.Data))
	for i, data := range embeddingsResp.Data {
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.ExpectedSize)
		}

		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, nil
}
