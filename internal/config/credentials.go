package config

import (
	"os"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "trados-translator"
	keyringUser    = "api-key"

	// EnvAPIKey 环境变量回退
	EnvAPIKey = "TRADOS_TRANSLATOR_API_KEY"
)

// LookupAPIKey 查找 API 凭证：先查系统钥匙串，再查环境变量。
// 找不到返回空字符串，由调用方决定是否报错。
func LookupAPIKey() string {
	if key, err := keyring.Get(keyringService, keyringUser); err == nil && key != "" {
		return key
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}

// StoreAPIKey 将 API 凭证写入系统钥匙串
func StoreAPIKey(key string) error {
	return keyring.Set(keyringService, keyringUser, key)
}

// DeleteAPIKey 从系统钥匙串删除 API 凭证
func DeleteAPIKey() error {
	return keyring.Delete(keyringService, keyringUser)
}
