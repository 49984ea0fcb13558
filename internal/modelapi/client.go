package modelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is the disease-prediction payload returned by the model service.
// Low-confidence answers come back with IsUnclear set instead of a transport
// error, so callers can surface them as regular responses.
type Result struct {
	Disease        string   `json:"disease"`
	Confidence     float64  `json:"confidence"`
	Precautions    []string `json:"precautions"`
	Lang           string   `json:"lang"`
	PredictionID   string   `json:"prediction_id,omitempty"`
	TranslatedText []string `json:"translated_text,omitempty"`
	Error          string   `json:"error,omitempty"`
	IsUnclear      bool     `json:"is_unclear,omitempty"`
}

// Health is the upstream probe result. CheckHealth never returns a Go error;
// unreachable upstreams produce Status "error" so monitoring callers need no
// exception handling.
type Health struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	ModelLoaded bool   `json:"model_loaded,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Predict forwards the symptom text to the model service. userID is optional;
// when empty the upstream treats the request as anonymous.
func (c *Client) Predict(ctx context.Context, symptoms, userID string) (*Result, error) {
	reqBody := map[string]interface{}{
		"symptoms": symptoms,
	}
	if userID != "" {
		reqBody["user_id"] = userID
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal predict request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build predict request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read predict response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("predict response status %d: %s", resp.StatusCode, string(raw))
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse predict json failed: %w", err)
	}
	return &result, nil
}

func (c *Client) CheckHealth(ctx context.Context) *Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &Health{Status: "error", Message: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Health{Status: "error", Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Health{Status: "error", Message: err.Error()}
	}
	if resp.StatusCode >= 300 {
		return &Health{Status: "error", Message: fmt.Sprintf("health response status %d: %s", resp.StatusCode, string(raw))}
	}

	var health Health
	if err := json.Unmarshal(raw, &health); err != nil {
		return &Health{Status: "error", Message: err.Error()}
	}
	return &health
}
