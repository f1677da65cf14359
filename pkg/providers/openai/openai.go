// Package openai 基于 chat completions API 的翻译提供商实现。
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/pkg/providers"
)

// Config OpenAI配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   4096,
	}
}

// Provider OpenAI提供商
type Provider struct {
	config Config
	client *openai.Client
	logger *zap.Logger
}

// New 创建新的OpenAI提供商
func New(config Config, logger *zap.Logger) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.APIEndpoint != "" {
		// go-openai 的 API 后缀以斜杠开头，去掉尾部斜杠避免双斜杠
		clientConfig.BaseURL = strings.TrimSuffix(config.APIEndpoint, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "openai"
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = fmt.Sprintf(
			"You are a professional legal translator. Translate from %s to %s, preserving the original meaning and structure.",
			req.SourceLanguage, req.TargetLanguage)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}

	p.logger.Debug("sending provider request",
		zap.String("model", p.config.Model),
		zap.Int("textLength", len(req.Text)))

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classifyAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, providers.ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, providers.ErrEmptyResponse
	}

	return &providers.Response{
		Text:      text,
		TokensIn:  resp.Usage.PromptTokens,
		TokensOut: resp.Usage.CompletionTokens,
		Model:     resp.Model,
	}, nil
}

// classifyAPIError 将 go-openai 的错误映射到提供商错误分类
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return providers.ErrRateLimited
		}
		return &providers.ProviderError{
			Status: apiErr.HTTPStatusCode,
			Body:   apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return providers.ErrRateLimited
		}
		return &providers.ProviderError{
			Status: reqErr.HTTPStatusCode,
			Body:   reqErr.Error(),
		}
	}

	return err
}
