package dictionary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDictionary struct {
	calls int
	resp  *Response
	err   error
}

func (c *countingDictionary) Lookup(context.Context, Request) (*Response, error) {
	c.calls++
	return c.resp, c.err
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingDictionary{err: errors.New("connection refused")}
	b := NewBreaker(next, BreakerConfig{ConsecutiveFailures: 3, OpenTimeout: time.Minute}, discardLogger())

	for i := 0; i < 3; i++ {
		_, err := b.Lookup(context.Background(), Request{Text: "x"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Lookup(context.Background(), Request{Text: "x"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls)
}

func TestBreaker_ProviderCodesDoNotTrip(t *testing.T) {
	next := &countingDictionary{resp: &Response{ErrorCode: "302"}}
	b := NewBreaker(next, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, discardLogger())

	for i := 0; i < 5; i++ {
		resp, err := b.Lookup(context.Background(), Request{Text: "x"})
		require.NoError(t, err)
		assert.Equal(t, "302", resp.ErrorCode)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
