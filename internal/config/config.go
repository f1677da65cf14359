// Package config 负责加载与校验翻译器配置。
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config 保存翻译器的所有配置
type Config struct {
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`

	// 提供商
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	APIEndpoint string  `mapstructure:"api_endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// 分块与并发
	MaxCharsPerChunk int `mapstructure:"max_chars_per_chunk"` // 每块最大字符数
	Concurrency      int `mapstructure:"concurrency"`         // 并行翻译请求数
	MaxAttempts      int `mapstructure:"max_attempts"`        // 每块最大尝试次数
	RetryDelayMs     int `mapstructure:"retry_delay_ms"`      // 普通失败的退避基准（毫秒）
	RateLimitDelayMs int `mapstructure:"rate_limit_delay_ms"` // 速率限制的退避基准（毫秒）

	// 上下文
	ExemplarLimit    int    `mapstructure:"exemplar_limit"`    // 记忆示例数量上限
	TermLimit        int    `mapstructure:"term_limit"`        // 提示词术语数量上限
	LinguisticRules  string `mapstructure:"linguistic_rules"`  // 语言规则自由文本
	PunctuationRules string `mapstructure:"punctuation_rules"` // 标点规则自由文本

	// 存储
	DataDir string `mapstructure:"data_dir"`

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`
}

// setDefaults 写入默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("source_lang", "en")
	v.SetDefault("target_lang", "es")
	v.SetDefault("provider", "openai")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("temperature", 0.3)
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("max_chars_per_chunk", 4000)
	v.SetDefault("concurrency", 3)
	v.SetDefault("max_attempts", 3)
	v.SetDefault("retry_delay_ms", 1000)
	v.SetDefault("rate_limit_delay_ms", 5000)
	v.SetDefault("exemplar_limit", 5)
	v.SetDefault("term_limit", 50)
}

// LoadConfig 加载配置文件。
// 指定路径优先；否则搜索 $HOME 与当前目录下的 .trados-translator.yaml。
// 无配置文件时返回默认配置。
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".trados-translator")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = filepath.Join(home, ".trados-translator")
	}

	// 配置文件没有密钥时查询钥匙串与环境变量
	if cfg.APIKey == "" {
		cfg.APIKey = LookupAPIKey()
	}

	return &cfg, nil
}

// Validate 校验语言代码与数值范围
func (c *Config) Validate() error {
	if _, err := language.Parse(c.SourceLang); err != nil {
		return fmt.Errorf("invalid source language %q: %w", c.SourceLang, err)
	}
	if _, err := language.Parse(c.TargetLang); err != nil {
		return fmt.Errorf("invalid target language %q: %w", c.TargetLang, err)
	}
	if c.SourceLang == c.TargetLang {
		return fmt.Errorf("source and target language must differ")
	}
	if c.MaxCharsPerChunk <= 0 {
		return fmt.Errorf("max_chars_per_chunk must be positive")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	return nil
}

// MemoryPath 翻译记忆文件路径
func (c *Config) MemoryPath() string {
	return filepath.Join(c.DataDir, "memory.json")
}

// TerminologyPath 术语表文件路径
func (c *Config) TerminologyPath() string {
	return filepath.Join(c.DataDir, "terminology.json")
}

// RulesPath 规则集文件路径
func (c *Config) RulesPath() string {
	return filepath.Join(c.DataDir, "rules.json")
}
