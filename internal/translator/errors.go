package translator

import "errors"

// 整个作业级别的前置条件错误：在任何块派发之前同步返回
var (
	// ErrEmptyText 输入文本为空
	ErrEmptyText = errors.New("empty text provided")

	// ErrMissingAPIKey 缺少 API 凭证
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrNoProvider 未配置翻译提供商
	ErrNoProvider = errors.New("translation provider not configured")
)
