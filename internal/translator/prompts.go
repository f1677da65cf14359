package translator

import (
	"fmt"
	"strings"

	"github.com/nerdneilsfield/trados-translator/internal/store"
)

// TranslationContext 一次翻译作业的只读输入包。
// 作业开始时从持久化存储按语言对构建一次，作业期间不可变。
type TranslationContext struct {
	// Terms 术语对
	Terms []store.TerminologyEntry
	// Exemplars 有界的翻译记忆示例
	Exemplars []store.MemoryEntry
	// LinguisticRules 语言规则自由文本（可选）
	LinguisticRules string
	// PunctuationRules 标点规则自由文本（可选）
	PunctuationRules string
}

// BuildSystemPrompt 构建系统提示词。
// 结构约定是分类器的依赖：要求提供商保持空行分节结构，
// 并在每个结构标记后输出恰好一个制表符。
func BuildSystemPrompt(sourceLang, targetLang string, tctx TranslationContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a professional legal translator. Translate the following text from %s to %s.

Formatting rules (mandatory):
1. Keep each section separated by exactly one blank line, mirroring the source structure.
2. After every structural marker ("1.", "(1)", "(a)", "—") emit exactly one tab character before the text that follows it.
3. Do not add, remove, or reorder sections.
4. Output only the translated text, with no commentary.`, sourceLang, targetLang)

	if len(tctx.Terms) > 0 {
		b.WriteString("\n\nUse this terminology consistently:")
		for _, term := range tctx.Terms {
			fmt.Fprintf(&b, "\n- %q => %q", term.Term, term.Translation)
			if term.Definition != "" {
				fmt.Fprintf(&b, " (%s)", term.Definition)
			}
		}
	}

	if len(tctx.Exemplars) > 0 {
		b.WriteString("\n\nReference translations from memory:")
		for _, ex := range tctx.Exemplars {
			fmt.Fprintf(&b, "\n- Source: %s\n  Target: %s", truncate(ex.Source, 300), truncate(ex.Target, 300))
			if ex.Context != "" {
				fmt.Fprintf(&b, "\n  Context: %s", ex.Context)
			}
		}
	}

	if tctx.LinguisticRules != "" {
		b.WriteString("\n\nLinguistic rules:\n")
		b.WriteString(tctx.LinguisticRules)
	}
	if tctx.PunctuationRules != "" {
		b.WriteString("\n\nPunctuation rules:\n")
		b.WriteString(tctx.PunctuationRules)
	}

	return b.String()
}

// truncate 截断过长的示例文本，避免提示词膨胀
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
