package moderation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteGate delegates moderation to a hosted classifier over HTTP. The wire
// contract mirrors the Gate interface: POST {text, roastLevel} to /text and
// {image (base64), mimeType} to /image, both answered with
// {accepted, score, reason}. Callers should wrap it in Guarded so a slow or
// failing classifier degrades to rejection, not acceptance.
type RemoteGate struct {
	baseURL string
	client  *http.Client
}

// NewRemoteGate returns a Gate backed by the classifier at baseURL.
func NewRemoteGate(baseURL string, timeout time.Duration) *RemoteGate {
	return &RemoteGate{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *RemoteGate) EvaluateText(ctx context.Context, text, roastLevel string) (TextResult, error) {
	payload := map[string]string{
		"text":       text,
		"roastLevel": roastLevel,
	}
	var result TextResult
	if err := g.post(ctx, "/text", payload, &result); err != nil {
		return TextResult{}, err
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return result, nil
}

func (g *RemoteGate) EvaluateImage(ctx context.Context, data []byte, mimeType string) (ImageResult, error) {
	payload := map[string]string{
		"image":    base64.StdEncoding.EncodeToString(data),
		"mimeType": mimeType,
	}
	var result ImageResult
	if err := g.post(ctx, "/image", payload, &result); err != nil {
		return ImageResult{}, err
	}
	return result, nil
}

func (g *RemoteGate) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("moderation call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("moderation classifier returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode moderation response: %w", err)
	}
	return nil
}
