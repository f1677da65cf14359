// Package providers 定义外部翻译提供商的接口与错误分类。
package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// 预定义错误
var (
	// ErrRateLimited 提供商返回速率限制（HTTP 429）
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyResponse 提供商未返回任何文本
	ErrEmptyResponse = errors.New("empty response from provider")
)

// ProviderError 提供商返回的非速率限制错误状态
type ProviderError struct {
	Status int    // HTTP 状态码
	Body   string // 错误响应内容
}

// Error 实现 error 接口
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: status %d: %s", e.Status, e.Body)
}

// IsRetryable 5xx 与速率限制可重试，其余客户端错误不可重试
func (e *ProviderError) IsRetryable() bool {
	return e.Status >= 500 || e.Status == 429
}

// BaseConfig 提供商基础配置
type BaseConfig struct {
	APIKey      string        `json:"api_key,omitempty"`
	APIEndpoint string        `json:"api_endpoint,omitempty"`
	Timeout     time.Duration `json:"timeout"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout: 5 * time.Minute, // 支持长时间的LLM请求
	}
}

// Request 提供商请求
type Request struct {
	// Text 待翻译文本（单个块）
	Text string `json:"text"`
	// SourceLanguage 源语言代码
	SourceLanguage string `json:"source_language,omitempty"`
	// TargetLanguage 目标语言代码
	TargetLanguage string `json:"target_language,omitempty"`
	// SystemPrompt 预构建的系统提示词（含术语表、记忆示例与规则文本）
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// Response 提供商响应
type Response struct {
	Text      string `json:"text"`
	TokensIn  int    `json:"tokens_in,omitempty"`
	TokensOut int    `json:"tokens_out,omitempty"`
	Model     string `json:"model,omitempty"`
}

// Provider 翻译提供商接口
type Provider interface {
	// Translate 执行翻译，失败时返回 ErrRateLimited、ErrEmptyResponse 或 *ProviderError
	Translate(ctx context.Context, req *Request) (*Response, error)

	// GetName 获取提供商名称
	GetName() string
}
