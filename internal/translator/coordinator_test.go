package translator

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/internal/config"
	"github.com/nerdneilsfield/trados-translator/internal/store"
	"github.com/nerdneilsfield/trados-translator/pkg/providers"
	"github.com/nerdneilsfield/trados-translator/pkg/segment"
)

// mockProvider 可编程的模拟提供商
type mockProvider struct {
	translate func(ctx context.Context, req *providers.Request) (*providers.Response, error)
}

func (m *mockProvider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	return m.translate(ctx, req)
}

func (m *mockProvider) GetName() string { return "mock" }

type testEnv struct {
	cfg    *config.Config
	memory *store.MemoryStore
	terms  *store.TerminologyStore
	rules  *store.RuleStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()

	memory, err := store.NewMemoryStore(filepath.Join(dir, "memory.json"), logger)
	require.NoError(t, err)
	terms, err := store.NewTerminologyStore(filepath.Join(dir, "terms.json"), logger)
	require.NoError(t, err)
	rules, err := store.NewRuleStore(filepath.Join(dir, "rules.json"), logger)
	require.NoError(t, err)

	return &testEnv{
		cfg: &config.Config{
			SourceLang:       "en",
			TargetLang:       "es",
			APIKey:           "test-key",
			MaxCharsPerChunk: 4000,
			Concurrency:      3,
			MaxAttempts:      3,
			ExemplarLimit:    5,
			TermLimit:        50,
		},
		memory: memory,
		terms:  terms,
		rules:  rules,
	}
}

func newTestCoordinator(env *testEnv, provider providers.Provider) *Coordinator {
	d := NewDispatcher(DispatcherConfig{
		Concurrency:    3,
		MaxAttempts:    3,
		RetryDelay:     time.Millisecond,
		RateLimitDelay: 2 * time.Millisecond,
	}, zap.NewNop())
	return NewCoordinator(env.cfg, provider, d, env.memory, env.terms, env.rules, zap.NewNop())
}

func echoProvider() providers.Provider {
	return &mockProvider{translate: func(ctx context.Context, req *providers.Request) (*providers.Response, error) {
		return &providers.Response{Text: req.Text}, nil
	}}
}

func TestCoordinatorPreconditions(t *testing.T) {
	env := newTestEnv(t)
	c := newTestCoordinator(env, echoProvider())

	t.Run("EmptyText", func(t *testing.T) {
		_, err := c.Translate(context.Background(), JobRequest{Text: "   \n  "})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		env2 := newTestEnv(t)
		env2.cfg.APIKey = ""
		c2 := newTestCoordinator(env2, echoProvider())
		_, err := c2.Translate(context.Background(), JobRequest{Text: "hello"})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("NoProvider", func(t *testing.T) {
		c3 := newTestCoordinator(newTestEnv(t), nil)
		_, err := c3.Translate(context.Background(), JobRequest{Text: "hello"})
		assert.ErrorIs(t, err, ErrNoProvider)
	})
}

func TestCoordinatorEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	provider := &mockProvider{translate: func(ctx context.Context, req *providers.Request) (*providers.Response, error) {
		// 提示词必须携带结构约定
		assert.Contains(t, req.SystemPrompt, "blank line")
		assert.Contains(t, req.SystemPrompt, "tab character")
		return &providers.Response{Text: "Título\nSubtítulo\n(1) Primer punto.\n(2) Segundo punto."}, nil
	}}
	c := newTestCoordinator(env, provider)

	result, err := c.Translate(context.Background(), JobRequest{
		Text: "Title\nSubtitle\n(1) First point.\n(2) Second point.",
	})
	require.NoError(t, err)
	assert.Zero(t, result.FailedChunks)

	require.Len(t, result.Lines, 4)
	assert.Equal(t, segment.RoleDocumentTitle, result.Lines[0].Role)
	assert.Equal(t, "Título", result.Lines[0].Text)
	assert.Equal(t, segment.RoleDocumentSubtitle, result.Lines[1].Role)
	assert.Equal(t, segment.RolePreamblePoint, result.Lines[2].Role)
	// 默认规则集启用标记后制表符
	assert.Equal(t, "(1)\tPrimer punto.", result.Lines[2].Text)
	assert.Equal(t, segment.RolePreamblePoint, result.Lines[3].Role)

	// 目标语言命中内置默认语言：合并语言覆盖
	assert.Equal(t, "justify", result.RuleSet.Alignment)
	assert.Equal(t, 2.54, result.RuleSet.Margins.Top)
	assert.Equal(t, 3.17, result.RuleSet.Margins.Left)

	t.Run("MemoryAppendedOncePerJob", func(t *testing.T) {
		assert.Equal(t, 1, env.memory.Count())
	})
}

func TestCoordinatorChunkFailureDoesNotAbortJob(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.MaxCharsPerChunk = 40 // 强制多块

	provider := &mockProvider{translate: func(ctx context.Context, req *providers.Request) (*providers.Response, error) {
		if strings.Contains(req.Text, "poison") {
			return nil, &providers.ProviderError{Status: 503, Body: "unavailable"}
		}
		return &providers.Response{Text: "T:" + req.Text}, nil
	}}
	c := newTestCoordinator(env, provider)

	text := "First paragraph content here.\n\npoison paragraph that always fails.\n\nThird paragraph content here."
	result, err := c.Translate(context.Background(), JobRequest{Text: text})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FailedChunks)
	// 失败块以占位形式内联出现在重组输出中，原文不丢失
	assert.Contains(t, result.TranslatedText, "UNTRANSLATED CHUNK")
	assert.Contains(t, result.TranslatedText, "poison paragraph that always fails.")
	assert.Contains(t, result.TranslatedText, "T:First paragraph content here.")

	// 含失败块的作业不写入翻译记忆
	assert.Equal(t, 0, env.memory.Count())
}

func TestCoordinatorUsesStoredContext(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.terms.Upsert([]store.TerminologyEntry{{
		Term: "judgment", Translation: "sentencia",
		SourceLang: "en", TargetLang: "es",
	}})
	require.NoError(t, err)

	var gotPrompt string
	provider := &mockProvider{translate: func(ctx context.Context, req *providers.Request) (*providers.Response, error) {
		gotPrompt = req.SystemPrompt
		return &providers.Response{Text: "Texto."}, nil
	}}
	c := newTestCoordinator(env, provider)

	_, err = c.Translate(context.Background(), JobRequest{Text: "The judgment is final."})
	require.NoError(t, err)
	assert.Contains(t, gotPrompt, `"judgment" => "sentencia"`)
}
