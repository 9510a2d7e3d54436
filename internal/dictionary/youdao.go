package dictionary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultYoudaoURL = "https://openapi.youdao.com/api"

// YoudaoConfig holds the Youdao open API settings
type YoudaoConfig struct {
	AppKey    string
	AppSecret string
	Endpoint  string        // defaults to the public API
	Timeout   time.Duration // defaults to 10s
}

// Youdao calls the Youdao open API with v3 request signing.
type Youdao struct {
	config     YoudaoConfig
	httpClient *http.Client
	log        *slog.Logger
	now        func() time.Time
}

// NewYoudao creates a Youdao adapter
func NewYoudao(config YoudaoConfig, logger *slog.Logger) *Youdao {
	if config.Endpoint == "" {
		config.Endpoint = defaultYoudaoURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Youdao{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        logger.With("adapter", "youdao"),
		now:        time.Now,
	}
}

// Lookup implements Dictionary.
func (y *Youdao) Lookup(ctx context.Context, req Request) (*Response, error) {
	body, err := y.LookupRaw(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	y.log.DebugContext(ctx, "youdao response",
		slog.String("text", req.Text),
		slog.String("error_code", resp.ErrorCode),
		slog.Int("translations", len(resp.Translation)),
	)

	return &resp, nil
}

// LookupRaw sends the signed request and returns the provider body unchanged.
func (y *Youdao) LookupRaw(ctx context.Context, req Request) ([]byte, error) {
	if y.config.AppKey == "" || y.config.AppSecret == "" {
		return nil, ErrMissingCredentials
	}

	now := y.now()
	salt := strconv.FormatInt(now.UnixMilli(), 10)
	curtime := strconv.FormatInt(int64(math.Round(float64(now.UnixMilli())/1000)), 10)

	params := url.Values{}
	params.Set("q", req.Text)
	params.Set("appKey", y.config.AppKey)
	params.Set("salt", salt)
	params.Set("from", req.From)
	params.Set("to", TargetCode(req.From))
	params.Set("sign", Sign(y.config.AppKey, req.Text, salt, curtime, y.config.AppSecret))
	params.Set("signType", "v3")
	params.Set("curtime", curtime)

	y.log.DebugContext(ctx, "youdao request", slog.String("text", req.Text), slog.String("from", req.From))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, y.config.Endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("youdao: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := y.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("youdao: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youdao: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("youdao: read body: %w", err)
	}
	return body, nil
}

// TargetCode returns the translation target for a source code: English
// sources go to simplified Chinese, everything else to English.
func TargetCode(from string) string {
	if from == "en" {
		return "zh-CHS"
	}
	return "en"
}

// Sign computes the v3 request signature.
func Sign(appKey, q, salt, curtime, appSecret string) string {
	sum := sha256.Sum256([]byte(appKey + Truncate(q) + salt + curtime + appSecret))
	return hex.EncodeToString(sum[:])
}

// Truncate keeps q verbatim up to 20 characters; longer input becomes the
// first 10 characters, the length and the last 10 characters.
func Truncate(q string) string {
	runes := []rune(q)
	n := len(runes)
	if n <= 20 {
		return q
	}
	return string(runes[:10]) + strconv.Itoa(n) + string(runes[n-10:])
}
