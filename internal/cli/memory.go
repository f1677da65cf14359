package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/trados-translator/internal/logger"
	"github.com/nerdneilsfield/trados-translator/internal/store"
)

var (
	// memory 命令的标志
	memoryFilterLang string
	memorySearch     string
)

// NewMemoryCommand 创建 memory 命令组：翻译记忆管理
func NewMemoryCommand() *cobra.Command {
	memoryCmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage the translation memory",
		Long: `管理翻译记忆：列出与删除。

Examples:
  # List stored memory entries (newest first)
  trados-translator memory list

  # Search entries by source text substring
  trados-translator memory list --search contrato

  # Delete an entry by id
  trados-translator memory delete <id>`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List translation memory entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemoryList()
		},
	}
	listCmd.Flags().StringVar(&memoryFilterLang, "lang", "", "filter by target language")
	listCmd.Flags().StringVar(&memorySearch, "search", "", "filter by source text substring")

	deleteCmd := &cobra.Command{
		Use:   "delete id",
		Short: "Delete a memory entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemoryDelete(args[0])
		},
	}

	memoryCmd.AddCommand(listCmd, deleteCmd)
	return memoryCmd
}

func runMemoryList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	memory, _, _, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	f := store.Filter{Equals: map[string]string{}, Substring: map[string]string{}}
	if memoryFilterLang != "" {
		f.Equals["target_lang"] = memoryFilterLang
	}
	if memorySearch != "" {
		f.Substring["source"] = memorySearch
	}

	entries := memory.SelectAll(f)
	if len(entries) == 0 {
		fmt.Println("no memory entries found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Pair", "Source", "Target", "Created"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 48, WidthMaxEnforcer: text.WrapSoft},
		{Number: 4, WidthMax: 48, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID,
			fmt.Sprintf("%s->%s", e.SourceLang, e.TargetLang),
			e.Source, e.Target,
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Printf("%d entries\n", len(entries))
	return nil
}

func runMemoryDelete(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	memory, _, _, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	if err := memory.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted memory entry %s\n", id)
	return nil
}
