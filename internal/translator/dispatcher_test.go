package translator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/pkg/providers"
	"github.com/nerdneilsfield/trados-translator/pkg/segment"
)

// makeChunks 构造 n 个测试块
func makeChunks(n int) []segment.Chunk {
	chunks := make([]segment.Chunk, n)
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("chunk-%d", i)
		chunks[i] = segment.Chunk{Index: i, Text: text, Length: len(text)}
	}
	return chunks
}

func fastConfig() DispatcherConfig {
	return DispatcherConfig{
		Concurrency:    3,
		MaxAttempts:    3,
		RetryDelay:     time.Millisecond,
		RateLimitDelay: 2 * time.Millisecond,
	}
}

func TestDispatcherIndexFidelity(t *testing.T) {
	d := NewDispatcher(fastConfig(), zap.NewNop())
	chunks := makeChunks(10)

	// 第 3 块的所有尝试都失败
	translateOne := func(ctx context.Context, text string) (string, error) {
		if text == "chunk-3" {
			return "", &providers.ProviderError{Status: 500, Body: "boom"}
		}
		return "T:" + text, nil
	}

	results := d.TranslateAll(context.Background(), chunks, translateOne)
	require.Len(t, results, 10)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		if i == 3 {
			assert.True(t, r.Failed)
			assert.Equal(t, 3, r.Attempts)
			// 占位内嵌块索引与原文，内容不静默丢失
			assert.Contains(t, r.Text, "UNTRANSLATED CHUNK 3")
			assert.Contains(t, r.Text, "chunk-3")
		} else {
			assert.False(t, r.Failed)
			assert.Equal(t, "T:chunk-"+fmt.Sprint(i), r.Text)
			assert.Equal(t, 1, r.Attempts)
		}
	}
}

func TestDispatcherReorderingIndependence(t *testing.T) {
	d := NewDispatcher(fastConfig(), zap.NewNop())
	chunks := makeChunks(12)

	// 人为随机化完成延迟
	translateOne := func(ctx context.Context, text string) (string, error) {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		return "T:" + text, nil
	}

	results := d.TranslateAll(context.Background(), chunks, translateOne)
	require.Len(t, results, 12)

	var parts []string
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		parts = append(parts, r.Text)
	}
	joined := strings.Join(parts, "\n\n")
	for i := 0; i < 11; i++ {
		// 索引顺序，与完成顺序无关
		assert.Less(t,
			strings.Index(joined, fmt.Sprintf("T:chunk-%d", i)),
			strings.Index(joined, fmt.Sprintf("T:chunk-%d", i+1)))
	}
}

func TestDispatcherConcurrencyBound(t *testing.T) {
	cfg := fastConfig()
	cfg.Concurrency = 3
	d := NewDispatcher(cfg, zap.NewNop())
	chunks := makeChunks(20)

	var inFlight, maxInFlight int64
	translateOne := func(ctx context.Context, text string) (string, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			m := atomic.LoadInt64(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt64(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return text, nil
	}

	d.TranslateAll(context.Background(), chunks, translateOne)
	assert.LessOrEqual(t, atomic.LoadInt64(&maxInFlight), int64(3))
}

func TestDispatcherRetrySucceedsAfterFailures(t *testing.T) {
	d := NewDispatcher(fastConfig(), zap.NewNop())
	chunks := makeChunks(1)

	var calls int32
	translateOne := func(ctx context.Context, text string) (string, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return "", providers.ErrEmptyResponse
		}
		return "ok", nil
	}

	results := d.TranslateAll(context.Background(), chunks, translateOne)
	require.Len(t, results, 1)
	assert.False(t, results[0].Failed)
	assert.Equal(t, "ok", results[0].Text)
	assert.Equal(t, 3, results[0].Attempts)
}

func TestDispatcherRateLimitBackoffIsLonger(t *testing.T) {
	cfg := DispatcherConfig{
		Concurrency:    1,
		MaxAttempts:    3,
		RetryDelay:     time.Millisecond,
		RateLimitDelay: 15 * time.Millisecond,
	}
	d := NewDispatcher(cfg, zap.NewNop())
	chunks := makeChunks(1)

	translateOne := func(ctx context.Context, text string) (string, error) {
		return "", providers.ErrRateLimited
	}

	start := time.Now()
	results := d.TranslateAll(context.Background(), chunks, translateOne)
	elapsed := time.Since(start)

	require.True(t, results[0].Failed)
	// 两次速率限制退避：15ms*1 + 15ms*2 = 45ms 下界
	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond)
}

func TestDispatcherProgressCallback(t *testing.T) {
	d := NewDispatcher(fastConfig(), zap.NewNop())
	chunks := makeChunks(5)

	var mu sync.Mutex
	var seen []int
	d.OnChunkDone(func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 5, total)
		seen = append(seen, done)
	})

	d.TranslateAll(context.Background(), chunks, func(ctx context.Context, text string) (string, error) {
		return text, nil
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 5)
	assert.Contains(t, seen, 5)
}
