// Package store 实现翻译记忆、术语表与格式规则集的持久化存储。
// 每个存储是一个带读写锁的 JSON 文件数据库，提供面向记录的查询接口。
package store

import "time"

// MemoryEntry 翻译记忆条目：一对（源文本，译文）
type MemoryEntry struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	// Context 可选的上下文备注
	Context   string    `json:"context,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TerminologyEntry 术语条目。
// (term, translation, source_lang, target_lang) 唯一标识一个条目，
// 重复插入按 upsert 语义静默合并。
type TerminologyEntry struct {
	ID          string `json:"id"`
	Term        string `json:"term"`
	Translation string `json:"translation"`
	SourceLang  string `json:"source_lang"`
	TargetLang  string `json:"target_lang"`
	// Definition 可选定义
	Definition string `json:"definition,omitempty"`
	// Category 自由文本分类，如 "Auto-Learned"、"TMX Import"
	Category string `json:"category,omitempty"`
	// Origin 导入来源（文件名等），手工录入为空
	Origin string `json:"origin,omitempty"`
	// ImportedAt 导入时间，手工录入为零值
	ImportedAt time.Time `json:"imported_at,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Margins 页边距（厘米）
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// RuleSet 格式规则集：控制渲染的命名配置
type RuleSet struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version int    `json:"version"`
	// IsDefault 任一时刻最多一个规则集为默认
	IsDefault bool `json:"is_default"`

	// 字体
	FontFamily       string  `json:"font_family"`
	FontSize         float64 `json:"font_size"`          // 正文字号（磅）
	FootnoteFontSize float64 `json:"footnote_font_size"` // 脚注字号（磅）

	// 页面与段落
	Margins       Margins `json:"margins"`        // 页边距（厘米）
	SpacingBefore float64 `json:"spacing_before"` // 段前间距（磅）
	SpacingAfter  float64 `json:"spacing_after"`  // 段后间距（磅）
	LineSpacing   string  `json:"line_spacing"`   // single | one-half | double
	Alignment     string  `json:"alignment"`      // left | center | right | justify
	LeftIndent    float64 `json:"left_indent"`    // 左缩进（厘米）
	HangingIndent float64 `json:"hanging_indent"` // 悬挂缩进（厘米）

	// 文本清理开关
	CollapseSpaces      bool `json:"collapse_spaces"`
	StripSoftHyphens    bool `json:"strip_soft_hyphens"`
	NormalizeLineBreaks bool `json:"normalize_line_breaks"`

	// 结构标记
	// NumberingStyles 每种标记类型的编号样式，键为标记类型（numbered/preamble/lettered/bullet）
	NumberingStyles map[string]string `json:"numbering_styles,omitempty"`
	// TabAfterMarker 标记后插入制表符
	TabAfterMarker bool `json:"tab_after_marker"`
	// PageBreakBeforeAnnex 附件/表格小节前分页
	PageBreakBeforeAnnex bool `json:"page_break_before_annex"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter 面向记录的查询过滤条件
type Filter struct {
	// Equals 字段→值 的等值过滤
	Equals map[string]string
	// Substring 字段→子串 的包含过滤（不区分大小写）
	Substring map[string]string
}
