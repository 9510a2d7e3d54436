package dictionary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ProxyError is the error envelope a translation proxy returns on failure.
type ProxyError struct {
	Message   string `json:"error"`
	ErrorCode string `json:"errorCode,omitempty"`
	Debug     string `json:"debug,omitempty"`
}

func (e *ProxyError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("proxy: %s (code %s)", e.Message, e.ErrorCode)
	}
	return "proxy: " + e.Message
}

// ProxyClient posts lookups as JSON to a translation proxy endpoint such as
// the one served by `glossa serve`.
type ProxyClient struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProxyClient creates a client for the given translate endpoint
func NewProxyClient(url string, timeout time.Duration, logger *slog.Logger) *ProxyClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProxyClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "proxy"),
	}
}

// Lookup implements Dictionary.
func (p *ProxyClient) Lookup(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("proxy: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("proxy: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("proxy: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("proxy: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope ProxyError
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			return nil, &envelope
		}
		return nil, fmt.Errorf("proxy: unexpected status %d", resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	p.log.DebugContext(ctx, "proxy response", slog.String("text", req.Text), slog.String("error_code", out.ErrorCode))
	return &out, nil
}
