package translator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/internal/config"
	"github.com/nerdneilsfield/trados-translator/internal/extractor"
	"github.com/nerdneilsfield/trados-translator/internal/store"
	"github.com/nerdneilsfield/trados-translator/pkg/providers"
	"github.com/nerdneilsfield/trados-translator/pkg/segment"
)

// JobRequest 一次翻译作业的输入
type JobRequest struct {
	Text       string
	SourceLang string
	TargetLang string
}

// JobResult 一次翻译作业的输出
type JobResult struct {
	// SourceText 规范化后的源文本
	SourceText string
	// TranslatedText 按块索引重组的译文
	TranslatedText string
	// Lines 结构分类结果
	Lines []segment.ClassifiedLine
	// Results 每个块的结果
	Results []ChunkResult
	// FailedChunks 重试耗尽的块数
	FailedChunks int
	// TermsLearned 自动学习并入库的新术语数
	TermsLearned int
	// RuleSet 本次作业生效的格式规则集（含语言覆盖）
	RuleSet store.RuleSet
}

// Coordinator 作业编排器：分块 → 派发 → 重组 → 入库 → 分类
type Coordinator struct {
	cfg        *config.Config
	provider   providers.Provider
	chunker    *segment.Chunker
	dispatcher *Dispatcher
	memory     *store.MemoryStore
	terms      *store.TerminologyStore
	rules      *store.RuleStore
	extractor  *extractor.Extractor
	logger     *zap.Logger
}

// NewCoordinator 创建作业编排器
func NewCoordinator(
	cfg *config.Config,
	provider providers.Provider,
	dispatcher *Dispatcher,
	memory *store.MemoryStore,
	terms *store.TerminologyStore,
	rules *store.RuleStore,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		cfg:        cfg,
		provider:   provider,
		chunker:    segment.NewChunker(cfg.MaxCharsPerChunk),
		dispatcher: dispatcher,
		memory:     memory,
		terms:      terms,
		rules:      rules,
		extractor:  extractor.New(logger),
		logger:     logger,
	}
}

// Dispatcher 返回内部派发器（供进度回调注册）
func (c *Coordinator) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// ActiveRuleSet 本次作业生效的规则集：当前默认规则集，
// 目标语言为内置默认语言时叠加固定的语言覆盖。
func (c *Coordinator) ActiveRuleSet(targetLang string) store.RuleSet {
	active := c.rules.GetDefault()
	if targetLang == store.DefaultLocale {
		active = store.MergeOverride(active, store.LocaleOverride())
	}
	return active
}

// Translate 执行一次完整的翻译作业。
// 前置条件失败（空输入、缺少凭证）同步返回错误；
// 块级失败在作业内部恢复为占位结果，绝不越过作业边界向上传播。
func (c *Coordinator) Translate(ctx context.Context, req JobRequest) (*JobResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if c.provider == nil {
		return nil, ErrNoProvider
	}
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = c.cfg.SourceLang
	}
	targetLang := req.TargetLang
	if targetLang == "" {
		targetLang = c.cfg.TargetLang
	}

	// 作业上下文：按语言对从存储构建一次，作业期间不可变
	tctx := c.buildContext(text, sourceLang, targetLang)
	systemPrompt := BuildSystemPrompt(sourceLang, targetLang, tctx)

	chunks := c.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}
	c.logger.Info("starting translation job",
		zap.String("sourceLang", sourceLang),
		zap.String("targetLang", targetLang),
		zap.Int("chunks", len(chunks)),
		zap.Int("terms", len(tctx.Terms)),
		zap.Int("exemplars", len(tctx.Exemplars)))

	translateOne := func(ctx context.Context, chunkText string) (string, error) {
		resp, err := c.provider.Translate(ctx, &providers.Request{
			Text:           chunkText,
			SourceLanguage: sourceLang,
			TargetLanguage: targetLang,
			SystemPrompt:   systemPrompt,
		})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}

	results := c.dispatcher.TranslateAll(ctx, chunks, translateOne)

	// 重组：始终按块索引，与完成顺序无关
	parts := make([]string, len(results))
	failed := 0
	for i, r := range results {
		parts[i] = r.Text
		if r.Failed {
			failed++
		}
	}
	translated := strings.Join(parts, segment.ParagraphJoiner)

	learned := 0
	if failed == 0 {
		// 整个作业成功：记忆追加一对（源文本，译文），每作业一条而非每块一条
		if _, err := c.memory.Insert(store.MemoryEntry{
			Source:     text,
			Target:     translated,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		}); err != nil {
			c.logger.Warn("failed to append translation memory", zap.Error(err))
		}

		// 自动学习与渲染相互独立，先后顺序不影响正确性
		candidates := c.extractor.Extract(text, translated, sourceLang, targetLang)
		if len(candidates) > 0 {
			n, err := c.terms.Upsert(candidates)
			if err != nil {
				c.logger.Warn("failed to upsert auto-learned terms", zap.Error(err))
			} else {
				learned = n
			}
		}
	}

	ruleSet := c.ActiveRuleSet(targetLang)
	classifier := segment.NewClassifier(segment.ClassifyOptions{
		TabAfterMarker: ruleSet.TabAfterMarker,
		Clean: segment.CleanOptions{
			CollapseSpaces:      ruleSet.CollapseSpaces,
			StripSoftHyphens:    ruleSet.StripSoftHyphens,
			NormalizeLineBreaks: ruleSet.NormalizeLineBreaks,
		},
	})
	lines := classifier.Classify(translated)

	c.logger.Info("translation job completed",
		zap.Int("chunks", len(chunks)),
		zap.Int("failedChunks", failed),
		zap.Int("classifiedLines", len(lines)),
		zap.Int("termsLearned", learned))

	return &JobResult{
		SourceText:     text,
		TranslatedText: translated,
		Lines:          lines,
		Results:        results,
		FailedChunks:   failed,
		TermsLearned:   learned,
		RuleSet:        ruleSet,
	}, nil
}

// buildContext 构建作业的只读翻译上下文
func (c *Coordinator) buildContext(text, sourceLang, targetLang string) TranslationContext {
	terms := c.terms.SelectAll(store.Filter{Equals: map[string]string{
		"source_lang": sourceLang,
		"target_lang": targetLang,
	}})
	if len(terms) > c.cfg.TermLimit && c.cfg.TermLimit > 0 {
		terms = terms[:c.cfg.TermLimit]
	}

	return TranslationContext{
		Terms:            terms,
		Exemplars:        c.memory.FindSimilar(text, sourceLang, targetLang, c.cfg.ExemplarLimit),
		LinguisticRules:  c.cfg.LinguisticRules,
		PunctuationRules: c.cfg.PunctuationRules,
	}
}
