// Package cli 实现命令行入口：翻译主命令与数据管理子命令。
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/internal/config"
	"github.com/nerdneilsfield/trados-translator/internal/document"
	"github.com/nerdneilsfield/trados-translator/internal/logger"
	"github.com/nerdneilsfield/trados-translator/internal/store"
	"github.com/nerdneilsfield/trados-translator/internal/translator"
	"github.com/nerdneilsfield/trados-translator/pkg/providers"
	"github.com/nerdneilsfield/trados-translator/pkg/providers/openai"
)

var (
	// 命令行标志变量
	cfgFile    string
	sourceLang string
	targetLang string
	debugMode  bool
	noProgress bool // 关闭进度条（脚本环境）
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trados-translator [flags] input_file output_file",
		Short: "Assisted legal translation with terminology and formatting control",
		Long: `trados-translator 是面向法律文件的辅助翻译工具：
把输入文档切分为块并发送至翻译提供商，重组后按结构角色分类，
套用命名格式规则集渲染为可直接交付的 HTML 或 DOCX 文档。

翻译过程中查询术语表与翻译记忆注入提示词，成功的作业
自动写回记忆并学习新术语。

支持的输入格式: .txt .md .docx
支持的输出格式: .html .docx`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(args[0], args[1])
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.trados-translator.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&sourceLang, "source", "", "source language code (overrides config)")
	rootCmd.Flags().StringVar(&targetLang, "target", "", "target language code (overrides config)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")

	rootCmd.AddCommand(NewTermsCommand())
	rootCmd.AddCommand(NewRulesCommand())
	rootCmd.AddCommand(NewMemoryCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// runTranslate 执行一次完整的翻译作业：读入 → 翻译 → 渲染 → 写出
func runTranslate(inputPath, outputPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sourceLang != "" {
		cfg.SourceLang = sourceLang
	}
	if targetLang != "" {
		cfg.TargetLang = targetLang
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	text, err := readInput(inputPath)
	if err != nil {
		return err
	}

	memory, terms, rules, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	provider := openai.New(openai.Config{
		BaseConfig: providers.BaseConfig{
			APIKey:      cfg.APIKey,
			APIEndpoint: cfg.APIEndpoint,
			Timeout:     5 * time.Minute,
		},
		Model:       cfg.Model,
		Temperature: float32(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
	}, log)

	dispatcher := translator.NewDispatcher(translator.DispatcherConfig{
		Concurrency:    cfg.Concurrency,
		MaxAttempts:    cfg.MaxAttempts,
		RetryDelay:     time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		RateLimitDelay: time.Duration(cfg.RateLimitDelayMs) * time.Millisecond,
	}, log)

	coordinator := translator.NewCoordinator(cfg, provider, dispatcher, memory, terms, rules, log)

	// 进度条由派发器的块完成回调驱动；回调来自工作协程，需要加锁
	var bar *pterm.ProgressbarPrinter
	var barMu sync.Mutex
	if !noProgress {
		dispatcher.OnChunkDone(func(done, total int) {
			barMu.Lock()
			defer barMu.Unlock()
			if bar == nil {
				bar, _ = pterm.DefaultProgressbar.
					WithTotal(total).
					WithTitle("Translating").
					Start()
			}
			bar.Increment()
		})
	}

	// Ctrl-C 取消：在途块收尾为占位结果后正常返回
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := coordinator.Translate(ctx, translator.JobRequest{
		Text:       text,
		SourceLang: cfg.SourceLang,
		TargetLang: cfg.TargetLang,
	})
	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		return err
	}

	output, err := renderOutput(outputPath, result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info("output written",
		zap.String("path", outputPath),
		zap.Int("lines", len(result.Lines)),
		zap.Int("failedChunks", result.FailedChunks),
		zap.Int("termsLearned", result.TermsLearned))

	if result.FailedChunks > 0 {
		pterm.Warning.Printfln("%d chunk(s) failed after retries and were kept untranslated in the output", result.FailedChunks)
	} else {
		pterm.Success.Printfln("Translated %s -> %s (%d paragraphs, %d new terms learned)",
			inputPath, outputPath, len(result.Lines), result.TermsLearned)
	}
	return nil
}

// readInput 读取输入文件；DOCX 走文本提取，其余按纯文本读入
func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		text, err := document.ExtractDOCXText(data)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
		}
		return text, nil
	}
	return string(data), nil
}

// renderOutput 按输出扩展名选择渲染器
func renderOutput(path string, result *translator.JobResult) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return document.RenderDOCX(result.Lines, result.RuleSet)
	case ".html", ".htm":
		return document.RenderHTML(result.Lines, result.RuleSet)
	default:
		return nil, fmt.Errorf("unsupported output format %q (use .html or .docx)", filepath.Ext(path))
	}
}

// loadConfig 加载配置（--config 指定路径优先）
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(cfgFile)
}

// openStores 打开三个 JSON 文件存储，数据目录不存在时创建
func openStores(cfg *config.Config, log *zap.Logger) (*store.MemoryStore, *store.TerminologyStore, *store.RuleStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	memory, err := store.NewMemoryStore(cfg.MemoryPath(), log)
	if err != nil {
		return nil, nil, nil, err
	}
	terms, err := store.NewTerminologyStore(cfg.TerminologyPath(), log)
	if err != nil {
		return nil, nil, nil, err
	}
	rules, err := store.NewRuleStore(cfg.RulesPath(), log)
	if err != nil {
		return nil, nil, nil, err
	}
	return memory, terms, rules, nil
}
