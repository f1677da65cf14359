package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/trados-translator/internal/interchange"
	"github.com/nerdneilsfield/trados-translator/internal/logger"
)

// NewRulesCommand 创建 rules 命令组：格式规则集管理
func NewRulesCommand() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage formatting rule sets",
		Long: `管理格式规则集：列出、切换默认、导入与导出。

Examples:
  # List all rule sets
  trados-translator rules list

  # Make a rule set the default
  trados-translator rules set-default <id>

  # Export a rule set as a JSON interchange file
  trados-translator rules export <id> house-style.json

  # Import a rule set from a JSON interchange file
  trados-translator rules import house-style.json`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored rule sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesList()
		},
	}

	setDefaultCmd := &cobra.Command{
		Use:   "set-default id",
		Short: "Make a rule set the default for new jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesSetDefault(args[0])
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export id output.json",
		Short: "Export a rule set to a JSON interchange file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesExport(args[0], args[1])
		},
	}

	importCmd := &cobra.Command{
		Use:   "import input.json",
		Short: "Import a rule set from a JSON interchange file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesImport(args[0])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete id",
		Short: "Delete a rule set by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesDelete(args[0])
		},
	}

	rulesCmd.AddCommand(listCmd, setDefaultCmd, exportCmd, importCmd, deleteCmd)
	return rulesCmd
}

func runRulesList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, _, rules, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Version", "Default", "Font", "Margins (cm)", "Alignment"})
	for _, r := range rules.List() {
		def := ""
		if r.IsDefault {
			def = "*"
		}
		t.AppendRow(table.Row{
			r.ID, r.Name, r.Version, def,
			fmt.Sprintf("%s %.0fpt", r.FontFamily, r.FontSize),
			fmt.Sprintf("%.2f/%.2f/%.2f/%.2f", r.Margins.Top, r.Margins.Bottom, r.Margins.Left, r.Margins.Right),
			r.Alignment,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func runRulesSetDefault(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, _, rules, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	if err := rules.SetDefault(id); err != nil {
		return err
	}
	fmt.Printf("rule set %s is now the default\n", id)
	return nil
}

func runRulesExport(id, outputPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, _, rules, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	rule, err := rules.Get(id)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := interchange.ExportRuleSet(f, rule); err != nil {
		return err
	}
	fmt.Printf("exported rule set %q to %s\n", rule.Name, outputPath)
	return nil
}

func runRulesImport(inputPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, _, rules, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	rule, err := interchange.ImportRuleSet(f)
	if err != nil {
		return err
	}
	saved, err := rules.Insert(rule)
	if err != nil {
		return err
	}
	fmt.Printf("imported rule set %q as %s\n", saved.Name, saved.ID)
	return nil
}

func runRulesDelete(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	_, _, rules, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	if err := rules.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted rule set %s\n", id)
	return nil
}
