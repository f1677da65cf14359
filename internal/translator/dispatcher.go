package translator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/nerdneilsfield/trados-translator/pkg/providers"
	"github.com/nerdneilsfield/trados-translator/pkg/segment"
)

// TranslateFunc 外部提供商调用：翻译一个块的文本
type TranslateFunc func(ctx context.Context, text string) (string, error)

// ChunkResult 一个块的翻译结果。
// 每个提交的块恰好产生一个结果，位于其原始索引：不丢失、不重复。
type ChunkResult struct {
	// Index 与源块一致的索引
	Index int
	// Text 译文，或重试耗尽后的失败占位文本
	Text string
	// Attempts 实际尝试次数
	Attempts int
	// Failed 所有尝试均失败
	Failed bool
}

// DispatcherConfig 派发器配置
type DispatcherConfig struct {
	// Concurrency 同时在途的块数上限
	Concurrency int
	// MaxAttempts 每块最大尝试次数
	MaxAttempts int
	// RetryDelay 普通可重试失败的退避基准，按尝试次数指数增长
	RetryDelay time.Duration
	// RateLimitDelay 速率限制的退避基准，线性按尝试次数放大且高于普通退避
	RateLimitDelay time.Duration
}

// DefaultDispatcherConfig 返回默认派发器配置
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Concurrency:    3,
		MaxAttempts:    3,
		RetryDelay:     time.Second,
		RateLimitDelay: 5 * time.Second,
	}
}

// Dispatcher 有界并发的块派发器。
// 一个块完成后立即派发下一个排队的块（信号量模式，不是固定批次栅栏）。
type Dispatcher struct {
	config DispatcherConfig
	logger *zap.Logger

	// onChunkDone 每个块完成时的进度回调（可选），在工作协程中调用
	onChunkDone func(done, total int)
}

// NewDispatcher 创建派发器
func NewDispatcher(config DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	return &Dispatcher{config: config, logger: logger}
}

// OnChunkDone 注册进度回调
func (d *Dispatcher) OnChunkDone(fn func(done, total int)) {
	d.onChunkDone = fn
}

// FailurePlaceholder 重试耗尽后的占位文本，内嵌块索引与原文，保证内容不静默丢失
func FailurePlaceholder(index int, original string) string {
	return fmt.Sprintf("[UNTRANSLATED CHUNK %d]\n%s", index, original)
}

// TranslateAll 并发翻译所有块，按块索引重组结果。
// 调度并发，但最终顺序始终按索引而非完成顺序。
// 单个块的失败不会取消其余块；作业总是为每个块产出一个结果。
func (d *Dispatcher) TranslateAll(ctx context.Context, chunks []segment.Chunk, translateOne TranslateFunc) []ChunkResult {
	results := make([]ChunkResult, len(chunks))
	if len(chunks) == 0 {
		return results
	}

	d.logger.Info("dispatching chunks",
		zap.Int("totalChunks", len(chunks)),
		zap.Int("concurrency", d.config.Concurrency))

	sem := semaphore.NewWeighted(int64(d.config.Concurrency))
	var wg sync.WaitGroup
	var done int
	var doneMu sync.Mutex

	for _, chunk := range chunks {
		if err := sem.Acquire(ctx, 1); err != nil {
			// 上下文取消：剩余块全部记为失败占位
			results[chunk.Index] = ChunkResult{
				Index:  chunk.Index,
				Text:   FailurePlaceholder(chunk.Index, chunk.Text),
				Failed: true,
			}
			continue
		}

		wg.Add(1)
		go func(c segment.Chunk) {
			defer wg.Done()
			defer sem.Release(1)

			results[c.Index] = d.translateChunk(ctx, c, translateOne)

			if d.onChunkDone != nil {
				doneMu.Lock()
				done++
				n := done
				doneMu.Unlock()
				d.onChunkDone(n, len(chunks))
			}
		}(chunk)
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Failed {
			failed++
		}
	}
	d.logger.Info("dispatch completed",
		zap.Int("totalChunks", len(chunks)),
		zap.Int("failedChunks", failed))
	return results
}

// translateChunk 翻译一个块，带退避重试；耗尽后降级为占位结果
func (d *Dispatcher) translateChunk(ctx context.Context, chunk segment.Chunk, translateOne TranslateFunc) ChunkResult {
	var lastErr error

	for attempt := 1; attempt <= d.config.MaxAttempts; attempt++ {
		text, err := translateOne(ctx, chunk.Text)
		if err == nil {
			return ChunkResult{Index: chunk.Index, Text: text, Attempts: attempt}
		}
		lastErr = err

		d.logger.Warn("chunk translation attempt failed",
			zap.Int("chunkIndex", chunk.Index),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == d.config.MaxAttempts {
			break
		}
		if !d.waitBackoff(ctx, err, attempt) {
			break
		}
	}

	d.logger.Error("chunk translation exhausted retries",
		zap.Int("chunkIndex", chunk.Index),
		zap.Error(lastErr))

	return ChunkResult{
		Index:    chunk.Index,
		Text:     FailurePlaceholder(chunk.Index, chunk.Text),
		Attempts: d.config.MaxAttempts,
		Failed:   true,
	}
}

// waitBackoff 按错误类型等待退避；上下文取消时返回 false
func (d *Dispatcher) waitBackoff(ctx context.Context, err error, attempt int) bool {
	var delay time.Duration
	if errors.Is(err, providers.ErrRateLimited) {
		// 速率限制：更长的基准，按尝试次数线性放大
		delay = d.config.RateLimitDelay * time.Duration(attempt)
	} else {
		// 其余失败：指数退避
		delay = d.config.RetryDelay * time.Duration(1<<(attempt-1))
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}
