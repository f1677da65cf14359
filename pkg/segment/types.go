// Package segment 实现文档分段流水线：分块、文本清理和结构分类。
package segment

// Chunk 一个有序的源文本块，作为单次翻译请求提交
type Chunk struct {
	// Index 0起始的位置索引，决定重组顺序
	Index int
	// Text 块的文本内容
	Text string
	// Length 字符数（按 rune 计数）
	Length int
}

// Role 输出行的结构角色（封闭集合）
type Role string

const (
	// RoleDocumentTitle 文档标题（第一行）
	RoleDocumentTitle Role = "document-title"
	// RoleDocumentSubtitle 文档副标题（第二行）
	RoleDocumentSubtitle Role = "document-subtitle"
	// RoleNumberedPoint 编号条款，如 "1." "12."
	RoleNumberedPoint Role = "numbered-point"
	// RolePreamblePoint 序言条款，如 "(1)"
	RolePreamblePoint Role = "preamble-point"
	// RoleLetteredPoint 字母条款，如 "(a)"
	RoleLetteredPoint Role = "lettered-point"
	// RoleBulletPoint 破折号列表项，以 "—" 开头
	RoleBulletPoint Role = "bullet-point"
	// RoleSectionHeader 小节标题，以冒号结尾
	RoleSectionHeader Role = "section-header"
	// RoleArticleTitle 条文标题，如 "Artículo 5"
	RoleArticleTitle Role = "article-title"
	// RoleBody 正文（默认角色）
	RoleBody Role = "body"
)

// ClassifiedLine 带结构角色标记的一行输出文本
type ClassifiedLine struct {
	// Role 结构角色
	Role Role
	// Text 该行原始文本（含标记）
	Text string
	// Marker 识别出的标记子串，如 "(1)"、"1."、"(a)"、"—"；无标记角色为空
	Marker string
}
