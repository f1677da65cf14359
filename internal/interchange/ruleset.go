package interchange

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nerdneilsfield/trados-translator/internal/store"
)

// ruleSetDocument 规则集交换文件：带格式标识与版本的包装
type ruleSetDocument struct {
	Format  string        `json:"format"`
	Version int           `json:"version"`
	Rule    store.RuleSet `json:"rule_set"`
}

const (
	ruleSetFormat        = "trados-translator/rule-set"
	ruleSetFormatVersion = 1
)

// ExportRuleSet 把一个规则集写成 JSON 交换文件
func ExportRuleSet(w io.Writer, rule store.RuleSet) error {
	doc := ruleSetDocument{
		Format:  ruleSetFormat,
		Version: ruleSetFormatVersion,
		Rule:    rule,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode rule set: %w", err)
	}
	return nil
}

// ImportRuleSet 从 JSON 交换文件读入一个规则集并校验必填字段。
// 导入的规则集丢弃原 ID 与默认标志，由存储层重新分配。
func ImportRuleSet(r io.Reader) (store.RuleSet, error) {
	var doc ruleSetDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return store.RuleSet{}, &ImportFormatError{Format: "rule set", Reason: "malformed JSON", Cause: err}
	}
	if doc.Format != ruleSetFormat {
		return store.RuleSet{}, &ImportFormatError{
			Format: "rule set",
			Reason: fmt.Sprintf("unexpected format identifier %q", doc.Format),
		}
	}
	if err := validateRuleSet(doc.Rule); err != nil {
		return store.RuleSet{}, err
	}

	rule := doc.Rule
	rule.ID = ""
	rule.IsDefault = false
	return rule, nil
}

// validateRuleSet 必填字段与取值范围校验
func validateRuleSet(rule store.RuleSet) error {
	if rule.Name == "" {
		return &ImportFormatError{Format: "rule set", Reason: "missing name"}
	}
	if rule.FontFamily == "" {
		return &ImportFormatError{Format: "rule set", Reason: "missing font_family"}
	}
	if rule.FontSize <= 0 {
		return &ImportFormatError{Format: "rule set", Reason: "font_size must be positive"}
	}
	switch rule.Alignment {
	case "left", "center", "right", "justify":
	default:
		return &ImportFormatError{
			Format: "rule set",
			Reason: fmt.Sprintf("unknown alignment %q", rule.Alignment),
		}
	}
	switch rule.LineSpacing {
	case "", "single", "one-half", "double":
	default:
		return &ImportFormatError{
			Format: "rule set",
			Reason: fmt.Sprintf("unknown line_spacing %q", rule.LineSpacing),
		}
	}
	if rule.Margins.Top < 0 || rule.Margins.Bottom < 0 || rule.Margins.Left < 0 || rule.Margins.Right < 0 {
		return &ImportFormatError{Format: "rule set", Reason: "margins must not be negative"}
	}
	return nil
}
