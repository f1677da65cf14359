// Package interchange 实现与外部工具的数据交换：TMX 导入、
// 规则集 JSON 导入导出、术语表 CSV 导出。
package interchange

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/internal/store"
)

// ImportFormatError 导入文件格式错误：说明原因，导入不产生任何部分写入
type ImportFormatError struct {
	Format string
	Reason string
	Cause  error
}

func (e *ImportFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s file: %s: %v", e.Format, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid %s file: %s", e.Format, e.Reason)
}

func (e *ImportFormatError) Unwrap() error {
	return e.Cause
}

// TMX 文档结构（TMX 1.4 子集）
type tmxFile struct {
	XMLName xml.Name  `xml:"tmx"`
	Body    tmxBody   `xml:"body"`
	Header  tmxHeader `xml:"header"`
}

type tmxHeader struct {
	SrcLang string `xml:"srclang,attr"`
}

type tmxBody struct {
	Units []tmxUnit `xml:"tu"`
}

type tmxUnit struct {
	Note     string       `xml:"note"`
	Variants []tmxVariant `xml:"tuv"`
}

type tmxVariant struct {
	// Lang xml:lang 属性；部分工具写作裸 lang
	Lang     string `xml:"lang,attr"`
	Segments []string `xml:"seg"`
}

// TMXPair 一个对齐的翻译单元
type TMXPair struct {
	Source string
	Target string
	Note   string
}

// ParseTMX 解析 TMX 流，提取给定语言对的翻译单元。
// 缺少任一语言变体的单元跳过；文件格式错误返回 ImportFormatError。
func ParseTMX(r io.Reader, sourceLang, targetLang string) ([]TMXPair, error) {
	var file tmxFile
	if err := xml.NewDecoder(r).Decode(&file); err != nil {
		return nil, &ImportFormatError{Format: "TMX", Reason: "malformed XML", Cause: err}
	}
	if len(file.Body.Units) == 0 {
		return nil, &ImportFormatError{Format: "TMX", Reason: "no translation units"}
	}

	var pairs []TMXPair
	for _, tu := range file.Body.Units {
		src := variantText(tu, sourceLang)
		tgt := variantText(tu, targetLang)
		if src == "" || tgt == "" {
			continue
		}
		pairs = append(pairs, TMXPair{Source: src, Target: tgt, Note: strings.TrimSpace(tu.Note)})
	}
	return pairs, nil
}

// variantText 取指定语言的段文本；语言标签按前缀匹配（en 匹配 en-US）
func variantText(tu tmxUnit, lang string) string {
	lang = strings.ToLower(lang)
	for _, tuv := range tu.Variants {
		tag := strings.ToLower(tuv.Lang)
		if tag == lang || strings.HasPrefix(tag, lang+"-") {
			if len(tuv.Segments) > 0 {
				return strings.TrimSpace(tuv.Segments[0])
			}
		}
	}
	return ""
}

// TMXImporter 把 TMX 翻译单元写入术语表与翻译记忆
type TMXImporter struct {
	terms  *store.TerminologyStore
	memory *store.MemoryStore
	logger *zap.Logger
}

func NewTMXImporter(terms *store.TerminologyStore, memory *store.MemoryStore, logger *zap.Logger) *TMXImporter {
	return &TMXImporter{terms: terms, memory: memory, logger: logger}
}

// ImportResult TMX 导入统计
type ImportResult struct {
	// TermsImported 新增术语条目数（upsert 去重后）
	TermsImported int
	// MemoryImported 新增记忆条目数
	MemoryImported int
	// UnitsSkipped 缺少语言变体而跳过的单元数
	UnitsSkipped int
}

// Import 解析并提交一个 TMX 文件。
// 语义：先完整解析，后一次性提交；解析失败时存储不发生任何写入。
// 短单元（无句末标点的词或短语）进术语表，长单元进翻译记忆。
func (im *TMXImporter) Import(r io.Reader, origin, sourceLang, targetLang string) (ImportResult, error) {
	var result ImportResult

	var file tmxFile
	if err := xml.NewDecoder(r).Decode(&file); err != nil {
		return result, &ImportFormatError{Format: "TMX", Reason: "malformed XML", Cause: err}
	}
	if len(file.Body.Units) == 0 {
		return result, &ImportFormatError{Format: "TMX", Reason: "no translation units"}
	}

	now := time.Now()
	var termEntries []store.TerminologyEntry
	var memoryEntries []store.MemoryEntry
	for _, tu := range file.Body.Units {
		src := variantText(tu, sourceLang)
		tgt := variantText(tu, targetLang)
		if src == "" || tgt == "" {
			result.UnitsSkipped++
			continue
		}
		if isTermLike(src) {
			termEntries = append(termEntries, store.TerminologyEntry{
				Term:        src,
				Translation: tgt,
				SourceLang:  sourceLang,
				TargetLang:  targetLang,
				Definition:  strings.TrimSpace(tu.Note),
				Category:    "TMX Import",
				Origin:      origin,
				ImportedAt:  now,
			})
		} else {
			memoryEntries = append(memoryEntries, store.MemoryEntry{
				Source:     src,
				Target:     tgt,
				SourceLang: sourceLang,
				TargetLang: targetLang,
				Context:    strings.TrimSpace(tu.Note),
			})
		}
	}

	if len(termEntries) > 0 {
		inserted, err := im.terms.Upsert(termEntries)
		if err != nil {
			return result, fmt.Errorf("failed to store imported terms: %w", err)
		}
		result.TermsImported = inserted
	}
	for _, entry := range memoryEntries {
		if _, err := im.memory.Insert(entry); err != nil {
			return result, fmt.Errorf("failed to store imported memory entry: %w", err)
		}
		result.MemoryImported++
	}

	im.logger.Info("TMX import completed",
		zap.String("origin", origin),
		zap.Int("terms", result.TermsImported),
		zap.Int("memory", result.MemoryImported),
		zap.Int("skipped", result.UnitsSkipped))
	return result, nil
}

// isTermLike 判断单元是否按术语处理：短（≤5 词）且不以句末标点结尾
func isTermLike(text string) bool {
	if strings.ContainsAny(text, ".?!;") {
		return false
	}
	return len(strings.Fields(text)) <= 5
}
