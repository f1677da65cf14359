// Package extractor 从对齐的源/译句对中提取候选术语（自动学习）。
//
// 按位置对齐短语表只是启发式近似，不是语义对齐：语序差异大的语言对
// 会静默配错术语。保持该行为以兼容既有数据，不作为正确性保证。
package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/internal/store"
)

// AutoLearnedCategory 自动学习条目的分类标签
const AutoLearnedCategory = "Auto-Learned"

// Extractor 术语自动提取器
type Extractor struct {
	logger *zap.Logger
}

// New 创建术语提取器
func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract 从一对（源文本，译文）中提取候选术语条目。
// 两侧句子数不一致时无法假设对齐，整体跳过（记录日志，不是错误）。
func (x *Extractor) Extract(sourceText, translatedText, sourceLang, targetLang string) []store.TerminologyEntry {
	sourceSentences := splitSentences(sourceText)
	targetSentences := splitSentences(translatedText)

	if len(sourceSentences) != len(targetSentences) {
		x.logger.Debug("sentence count mismatch, skipping term extraction",
			zap.Int("sourceSentences", len(sourceSentences)),
			zap.Int("targetSentences", len(targetSentences)))
		return nil
	}

	var entries []store.TerminologyEntry
	for i := range sourceSentences {
		sourcePhrases := extractPhrases(sourceSentences[i])
		targetPhrases := extractPhrases(targetSentences[i])

		// 按位置配对，截止到较短一侧
		n := len(sourcePhrases)
		if len(targetPhrases) < n {
			n = len(targetPhrases)
		}
		for j := 0; j < n; j++ {
			term, translation := sourcePhrases[j], targetPhrases[j]
			if discardCandidate(term) || discardCandidate(translation) {
				continue
			}
			entries = append(entries, store.TerminologyEntry{
				Term:        term,
				Translation: translation,
				SourceLang:  sourceLang,
				TargetLang:  targetLang,
				Category:    AutoLearnedCategory,
			})
		}
	}

	if len(entries) > 0 {
		x.logger.Debug("terms extracted",
			zap.Int("candidates", len(entries)),
			zap.Int("sentencePairs", len(sourceSentences)))
	}
	return entries
}

// splitSentences 按终结标点（. ! ?）+ 空白切分句子
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				s := strings.TrimSpace(current.String())
				if s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// extractPhrases 从一个句子提取候选短语。
// 合格的相邻词合并为双词短语，句内重复短语去重。
func extractPhrases(sentence string) []string {
	tokens := strings.Fields(sentence)

	var phrases []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := strings.ToLower(p)
		if !seen[key] {
			seen[key] = true
			phrases = append(phrases, p)
		}
	}

	for i := 0; i < len(tokens); {
		tok := stripLightPunct(tokens[i])
		if !qualifies(tok) {
			i++
			continue
		}
		if i+1 < len(tokens) {
			next := stripLightPunct(tokens[i+1])
			if qualifies(next) {
				add(tok + " " + next)
				i += 2
				continue
			}
		}
		add(tok)
		i++
	}
	return phrases
}

// stripLightPunct 去掉词首尾的轻量标点
func stripLightPunct(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		switch r {
		case '.', ',', ';', ':', '(', ')', '"', '\'', '«', '»', '¿', '¡', '?', '!', '—':
			return true
		}
		return false
	})
}

// qualifies 词语是否值得作为短语成分：长度大于2、含字母、不是虚词
func qualifies(token string) bool {
	if utf8.RuneCountInString(token) <= 2 {
		return false
	}
	hasLetter := false
	for _, r := range token {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	return !stopWords[strings.ToLower(token)]
}

// discardCandidate 纯数字或过短的候选被丢弃
func discardCandidate(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return true
	}
	numeric := true
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.IsPunct(r) && !unicode.IsSpace(r) {
			numeric = false
			break
		}
	}
	return numeric
}
