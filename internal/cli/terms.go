package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/trados-translator/internal/interchange"
	"github.com/nerdneilsfield/trados-translator/internal/logger"
	"github.com/nerdneilsfield/trados-translator/internal/store"
)

var (
	// terms 命令的标志
	termFilterLang     string
	termFilterCategory string
	termSearch         string
)

// NewTermsCommand 创建 terms 命令组：术语表管理
func NewTermsCommand() *cobra.Command {
	termsCmd := &cobra.Command{
		Use:   "terms",
		Short: "Manage the terminology store",
		Long: `管理术语表：列出、导出与导入。

Examples:
  # List all stored terms
  trados-translator terms list

  # List terms for one language pair
  trados-translator terms list --lang es

  # Search terms by substring
  trados-translator terms list --search contrato

  # Export the terminology store to CSV
  trados-translator terms export glossary.csv

  # Import a TRADOS/TMX translation memory file
  trados-translator terms import-tmx memory.tmx`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored terminology entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTermsList()
		},
	}
	listCmd.Flags().StringVar(&termFilterLang, "lang", "", "filter by target language")
	listCmd.Flags().StringVar(&termFilterCategory, "category", "", "filter by category")
	listCmd.Flags().StringVar(&termSearch, "search", "", "filter by term substring")

	exportCmd := &cobra.Command{
		Use:   "export output.csv",
		Short: "Export the terminology store to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTermsExport(args[0])
		},
	}

	importCmd := &cobra.Command{
		Use:   "import-tmx input.tmx",
		Short: "Import a TMX translation memory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTermsImportTMX(args[0])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete id",
		Short: "Delete a terminology entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTermsDelete(args[0])
		},
	}

	termsCmd.AddCommand(listCmd, exportCmd, importCmd, deleteCmd)
	return termsCmd
}

// termsFilter 从标志构建查询过滤条件
func termsFilter() store.Filter {
	f := store.Filter{Equals: map[string]string{}, Substring: map[string]string{}}
	if termFilterLang != "" {
		f.Equals["target_lang"] = termFilterLang
	}
	if termFilterCategory != "" {
		f.Equals["category"] = termFilterCategory
	}
	if termSearch != "" {
		f.Substring["term"] = termSearch
	}
	return f
}

func runTermsList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, terms, _, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	entries := terms.SelectAll(termsFilter())
	if len(entries) == 0 {
		fmt.Println("no terminology entries found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Term", "Translation", "Pair", "Category", "Origin"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID, e.Term, e.Translation,
			fmt.Sprintf("%s->%s", e.SourceLang, e.TargetLang),
			e.Category, e.Origin,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Printf("%d entries\n", len(entries))
	return nil
}

func runTermsExport(outputPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, terms, _, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	entries := terms.SelectAll(store.Filter{})
	if err := interchange.ExportTerminologyCSV(f, entries); err != nil {
		return err
	}
	fmt.Printf("exported %d entries to %s\n", len(entries), outputPath)
	return nil
}

func runTermsImportTMX(inputPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	memory, terms, _, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open TMX file: %w", err)
	}
	defer f.Close()

	importer := interchange.NewTMXImporter(terms, memory, log)
	result, err := importer.Import(f, filepath.Base(inputPath), cfg.SourceLang, cfg.TargetLang)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d terms and %d memory entries (%d units skipped)\n",
		result.TermsImported, result.MemoryImported, result.UnitsSkipped)
	return nil
}

func runTermsDelete(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, terms, _, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	if err := terms.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted terminology entry %s\n", id)
	return nil
}
