// Package ollama talks to a local Ollama-compatible generate endpoint.
// Every call is one synchronous HTTP round-trip; the model's output is
// free text and is never trusted to be pure JSON.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultEndpoint is the standard local Ollama generate API.
const DefaultEndpoint = "http://localhost:11434/api/generate"

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Client issues blocking generate requests to one model endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for the given endpoint. Timeouts are supplied
// per call through the context, since the cheap pre-filter and the main
// extractor use very different budgets.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

// Generate sends one prompt to the named model and returns the raw
// generated text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model endpoint returned HTTP %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Response, nil
}

// ExtractObject locates the first '{' and the last '}' in raw model output
// and returns the span between them. Models wrap JSON in prose and code
// fences often enough that a strict parse of the whole response would
// reject most valid answers.
func ExtractObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object found in model response")
	}
	return raw[start : end+1], nil
}

// UnmarshalObject extracts the first object span from raw output, checks
// that every required key is present, then unmarshals into v.
func UnmarshalObject(raw string, required []string, v any) error {
	span, err := ExtractObject(raw)
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return fmt.Errorf("parse model JSON: %w", err)
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("model response missing field %q", key)
		}
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}
