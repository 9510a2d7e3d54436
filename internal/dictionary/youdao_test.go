package dictionary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"short", "hello", "hello"},
		{"exactly twenty", "abcdefghijklmnopqrst", "abcdefghijklmnopqrst"},
		{"long", "abcdefghijklmnopqrstuvwxyz", "abcdefghij26qrstuvwxyz"},
		{"long chinese", "一二三四五六七八九十甲乙丙丁戊己庚辛壬癸子", "一二三四五六七八九十21乙丙丁戊己庚辛壬癸子"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in))
		})
	}
}

func TestSign(t *testing.T) {
	assert.Equal(t,
		"e4eeb14ddf0a732daa2265b1d6349c075feda1fae66d5e157b9b810bb5f9e46c",
		Sign("key", "hello", "123", "0", "secret"))
	assert.Equal(t,
		"40cddcf4758b90449e9ef2b38049bd59d6a68ad432a9b94780c1eaf1970eb1f1",
		Sign("k", "abcdefghijklmnopqrstuvwxyz", "1", "2", "s"))
}

func TestTargetCode(t *testing.T) {
	assert.Equal(t, "zh-CHS", TargetCode("en"))
	assert.Equal(t, "en", TargetCode("zh-CHS"))
}

func TestYoudao_LookupSendsSignedForm(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		_, _ = io.WriteString(w, `{"errorCode":"0","translation":["世界"],"basic":{"phonetic":"wɜːld","explains":["n. 世界"]}}`)
	}))
	defer server.Close()

	y := NewYoudao(YoudaoConfig{AppKey: "key", AppSecret: "secret", Endpoint: server.URL}, discardLogger())
	y.now = func() time.Time { return time.UnixMilli(1700000000600) }

	resp, err := y.Lookup(context.Background(), Request{Text: "world", From: "en"})
	require.NoError(t, err)
	require.NoError(t, resp.Err())
	assert.Equal(t, "wɜːld", resp.Phonetic())

	meaning, ok := resp.Meaning()
	assert.True(t, ok)
	assert.Equal(t, "世界", meaning)

	assert.Equal(t, "world", got.Get("q"))
	assert.Equal(t, "key", got.Get("appKey"))
	assert.Equal(t, "1700000000600", got.Get("salt"))
	assert.Equal(t, "1700000001", got.Get("curtime"))
	assert.Equal(t, "en", got.Get("from"))
	assert.Equal(t, "zh-CHS", got.Get("to"))
	assert.Equal(t, "v3", got.Get("signType"))
	assert.Equal(t, Sign("key", "world", "1700000000600", "1700000001", "secret"), got.Get("sign"))
}

func TestYoudao_MissingCredentials(t *testing.T) {
	y := NewYoudao(YoudaoConfig{AppKey: "key"}, discardLogger())

	_, err := y.Lookup(context.Background(), Request{Text: "world", From: "en"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestYoudao_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer server.Close()

	y := NewYoudao(YoudaoConfig{AppKey: "key", AppSecret: "secret", Endpoint: server.URL}, discardLogger())
	_, err := y.Lookup(context.Background(), Request{Text: "world", From: "en"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestYoudao_HTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	y := NewYoudao(YoudaoConfig{AppKey: "key", AppSecret: "secret", Endpoint: server.URL}, discardLogger())
	_, err := y.Lookup(context.Background(), Request{Text: "world", From: "en"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestResponse_Meaning(t *testing.T) {
	tests := []struct {
		name   string
		resp   *Response
		want   string
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"translation", &Response{ErrorCode: "0", Translation: []string{"你好", "hi"}}, "你好", true},
		{"empty translation falls back", &Response{ErrorCode: "0", Translation: []string{""}, Basic: &Basic{Explains: []string{"a", "b"}}}, "a\nb", true},
		{"explains only", &Response{ErrorCode: "0", Basic: &Basic{Explains: []string{"int. 喂"}}}, "int. 喂", true},
		{"nothing", &Response{ErrorCode: "0"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.resp.Meaning()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponse_Err(t *testing.T) {
	assert.NoError(t, (&Response{ErrorCode: "0"}).Err())

	err := (&Response{ErrorCode: "108"}).Err()
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "108", perr.Code)

	assert.ErrorIs(t, (*Response)(nil).Err(), ErrMalformed)
}
