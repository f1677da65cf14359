package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/pkg/providers"
)

// newMockServer 构造返回固定响应的模拟 chat completions 服务
func newMockServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func newTestProvider(serverURL string) *Provider {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.APIEndpoint = serverURL + "/v1"
	return New(cfg, zap.NewNop())
}

func chatCompletionBody(content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`, content)
}

func TestProviderTranslate(t *testing.T) {
	server := newMockServer(http.StatusOK, chatCompletionBody("Texto traducido."))
	defer server.Close()

	p := newTestProvider(server.URL)
	resp, err := p.Translate(context.Background(), &providers.Request{
		Text:           "Translated text.",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	require.NoError(t, err)
	assert.Equal(t, "Texto traducido.", resp.Text)
	assert.Equal(t, 10, resp.TokensIn)
	assert.Equal(t, 5, resp.TokensOut)
	assert.Equal(t, "openai", p.GetName())
}

func TestProviderRateLimited(t *testing.T) {
	server := newMockServer(http.StatusTooManyRequests,
		`{"error": {"message": "Rate limit reached", "type": "requests"}}`)
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.Translate(context.Background(), &providers.Request{Text: "hola"})
	assert.ErrorIs(t, err, providers.ErrRateLimited)
}

func TestProviderServerError(t *testing.T) {
	server := newMockServer(http.StatusInternalServerError,
		`{"error": {"message": "internal error", "type": "server_error"}}`)
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.Translate(context.Background(), &providers.Request{Text: "hola"})
	require.Error(t, err)

	var provErr *providers.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusInternalServerError, provErr.Status)
	assert.True(t, provErr.IsRetryable())
}

func TestProviderEmptyResponse(t *testing.T) {
	server := newMockServer(http.StatusOK, chatCompletionBody("   "))
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.Translate(context.Background(), &providers.Request{Text: "hola"})
	assert.ErrorIs(t, err, providers.ErrEmptyResponse)
}
