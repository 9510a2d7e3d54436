package dictionary

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SuccessCode is the provider error code that signals a successful lookup.
const SuccessCode = "0"

var (
	// ErrMissingCredentials is returned when the provider app key or secret is not configured.
	ErrMissingCredentials = errors.New("dictionary: API credentials are required")

	// ErrMalformed is returned when a provider payload cannot be decoded.
	ErrMalformed = errors.New("dictionary: malformed response")
)

// Request asks the provider about one text span.
type Request struct {
	Text string `json:"text"`
	From string `json:"from"` // provider source language code, zh-CHS or en
}

// Response is the provider payload.
type Response struct {
	ErrorCode   string     `json:"errorCode"`
	Translation []string   `json:"translation,omitempty"`
	Basic       *Basic     `json:"basic,omitempty"`
	Web         []WebEntry `json:"web,omitempty"`
}

// Basic carries the phonetic and short explanations of a dictionary word.
type Basic struct {
	Phonetic string   `json:"phonetic,omitempty"`
	Explains []string `json:"explains,omitempty"`
}

// WebEntry is a web-sourced phrase translation.
type WebEntry struct {
	Key   string   `json:"key"`
	Value []string `json:"value"`
}

// Dictionary looks up a text span.
type Dictionary interface {
	Lookup(ctx context.Context, req Request) (*Response, error)
}

// ProviderError is a non-zero provider error code.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("dictionary: provider error code %s", e.Code)
}

// Err returns a ProviderError when the response does not carry the success code.
func (r *Response) Err() error {
	if r == nil {
		return ErrMalformed
	}
	if r.ErrorCode != SuccessCode {
		return &ProviderError{Code: r.ErrorCode}
	}
	return nil
}

// Phonetic returns the basic phonetic or an empty string.
func (r *Response) Phonetic() string {
	if r == nil || r.Basic == nil {
		return ""
	}
	return r.Basic.Phonetic
}

// Meaning picks the first translation, then the joined basic explanations.
// It returns false when the response has neither.
func (r *Response) Meaning() (string, bool) {
	if r == nil {
		return "", false
	}
	if len(r.Translation) > 0 && r.Translation[0] != "" {
		return r.Translation[0], true
	}
	if r.Basic != nil {
		if joined := strings.Join(r.Basic.Explains, "\n"); joined != "" {
			return joined, true
		}
	}
	return "", false
}
