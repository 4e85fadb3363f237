package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"vectorvision/internal/contextutil"
)

// ErrModelLoadTimeout is returned when the server accepts a load request but
// the model never shows up in its cache.
var ErrModelLoadTimeout = errors.New("model did not load within timeout period")

// ModelLoader asks a model-routing embedding server (llama.cpp router mode)
// to load the embedding model before the first request hits it.
type ModelLoader struct {
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
	maxPolls     int
}

// NewModelLoader creates a new model loader.
func NewModelLoader(baseURL string) *ModelLoader {
	return &ModelLoader{
		baseURL:      baseURL,
		client:       http.DefaultClient,
		pollInterval: time.Second,
		maxPolls:     30,
	}
}

type loadModelRequest struct {
	Model string `json:"model"`
}

type loadModelResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type modelStatus struct {
	ID      string `json:"id"`
	InCache bool   `json:"in_cache"`
	Status  struct {
		Failed   *bool `json:"failed,omitempty"`
		ExitCode *int  `json:"exit_code,omitempty"`
	} `json:"status"`
}

type modelsResponse struct {
	Data []modelStatus `json:"data"`
}

// IsLoaded reports whether model is in the server's cache.
func (l *ModelLoader) IsLoaded(ctx context.Context, model string) (bool, error) {
	status, err := l.status(ctx, model)
	if err != nil {
		return false, err
	}
	return status != nil && status.InCache, nil
}

// Load loads model unless it is already cached, then polls until the server
// reports it in cache, reports a failure, or the poll budget runs out.
func (l *ModelLoader) Load(ctx context.Context, model string) error {
	logger := contextutil.LoggerFromContext(ctx).With("model", model)

	loaded, err := l.IsLoaded(ctx, model)
	if err != nil {
		logger.WarnContext(ctx, "model status check failed, attempting load", "error", err)
	} else if loaded {
		return nil
	}

	body, err := json.Marshal(loadModelRequest{Model: model})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/models/load", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}
	var loadResp loadModelResponse
	if err := json.NewDecoder(resp.Body).Decode(&loadResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !loadResp.Success {
		return fmt.Errorf("model load failed: %s", loadResp.Error)
	}

	logger.InfoContext(ctx, "waiting for model to load")
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()
	for range l.maxPolls {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		status, err := l.status(ctx, model)
		if err != nil || status == nil {
			continue
		}
		if status.InCache {
			logger.InfoContext(ctx, "model loaded")
			return nil
		}
		if status.Status.Failed != nil && *status.Status.Failed {
			exitCode := 0
			if status.Status.ExitCode != nil {
				exitCode = *status.Status.ExitCode
			}
			return fmt.Errorf("model load failed with exit code %d", exitCode)
		}
	}
	return ErrModelLoadTimeout
}

// status returns the server's entry for model, or nil when it is not listed.
func (l *ModelLoader) status(ctx context.Context, model string) (*modelStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check model status: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}
	var models modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}
	for i := range models.Data {
		if models.Data[i].ID == model {
			return &models.Data[i], nil
		}
	}
	return nil, nil
}
