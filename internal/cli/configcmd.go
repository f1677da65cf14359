package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/trados-translator/internal/config"
)

// NewConfigCommand 创建 config 命令组：凭证与配置管理
func NewConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage credentials and configuration",
		Long: `管理凭证：API 密钥存入系统钥匙串，不落盘到配置文件。

Examples:
  # Store the provider API key in the OS keyring
  trados-translator config set-key sk-...

  # Remove the stored key
  trados-translator config delete-key

  # Show the effective configuration
  trados-translator config show`,
	}

	setKeyCmd := &cobra.Command{
		Use:   "set-key api_key",
		Short: "Store the provider API key in the OS keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.StoreAPIKey(args[0]); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}
			fmt.Println("API key stored in the system keyring")
			return nil
		},
	}

	deleteKeyCmd := &cobra.Command{
		Use:   "delete-key",
		Short: "Remove the provider API key from the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DeleteAPIKey(); err != nil {
				return fmt.Errorf("failed to delete API key: %w", err)
			}
			fmt.Println("API key removed from the system keyring")
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("source_lang:          %s\n", cfg.SourceLang)
			fmt.Printf("target_lang:          %s\n", cfg.TargetLang)
			fmt.Printf("provider:             %s\n", cfg.Provider)
			fmt.Printf("model:                %s\n", cfg.Model)
			fmt.Printf("api_endpoint:         %s\n", cfg.APIEndpoint)
			fmt.Printf("api_key:              %s\n", maskKey(cfg.APIKey))
			fmt.Printf("max_chars_per_chunk:  %d\n", cfg.MaxCharsPerChunk)
			fmt.Printf("concurrency:          %d\n", cfg.Concurrency)
			fmt.Printf("max_attempts:         %d\n", cfg.MaxAttempts)
			fmt.Printf("data_dir:             %s\n", cfg.DataDir)
			return nil
		},
	}

	configCmd.AddCommand(setKeyCmd, deleteKeyCmd, showCmd)
	return configCmd
}

// maskKey 密钥只显示尾部四位
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
