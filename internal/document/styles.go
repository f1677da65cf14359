// Package document 把结构分类结果加上格式规则集渲染为输出文档（HTML 与 DOCX）。
package document

import (
	"strings"

	"github.com/nerdneilsfield/trados-translator/internal/store"
	"github.com/nerdneilsfield/trados-translator/pkg/segment"
)

// 厘米/磅到 DOCX 单位的换算
const (
	twipsPerCm    = 567 // 1cm = 567 twips
	twipsPerPoint = 20  // 段落间距以 1/20 磅计
)

// ParagraphStyle 一个角色在具体规则集下的派生样式
type ParagraphStyle struct {
	// Alignment left | center | right | justify
	Alignment string
	Bold      bool
	// LeftIndentCm 左缩进（厘米）
	LeftIndentCm float64
	// HangingCm 悬挂缩进（厘米），首行向左突出
	HangingCm float64
	// SpacingBeforePt / SpacingAfterPt 段前/段后间距（磅）
	SpacingBeforePt float64
	SpacingAfterPt  float64
	// FontSizePt 字号（磅）
	FontSizePt float64
	// PageBreakBefore 在该段落前分页
	PageBreakBefore bool
}

// styleClass 角色对应的样式类名；未知角色回退为正文样式
func styleClass(role segment.Role) string {
	switch role {
	case segment.RoleDocumentTitle, segment.RoleDocumentSubtitle,
		segment.RoleNumberedPoint, segment.RolePreamblePoint,
		segment.RoleLetteredPoint, segment.RoleBulletPoint,
		segment.RoleSectionHeader, segment.RoleArticleTitle,
		segment.RoleBody:
		return string(role)
	default:
		return string(segment.RoleBody)
	}
}

// paragraphStyle 从规则集派生一个角色的段落样式。
// 标题/副标题始终居中加粗，覆盖规则集的通用对齐设置（表示层固定行为）。
func paragraphStyle(line segment.ClassifiedLine, rs store.RuleSet) ParagraphStyle {
	st := ParagraphStyle{
		Alignment:       rs.Alignment,
		SpacingBeforePt: rs.SpacingBefore,
		SpacingAfterPt:  rs.SpacingAfter,
		FontSizePt:      rs.FontSize,
	}
	if st.Alignment == "" {
		st.Alignment = "justify"
	}

	switch line.Role {
	case segment.RoleDocumentTitle:
		st.Alignment = "center"
		st.Bold = true
	case segment.RoleDocumentSubtitle:
		st.Alignment = "center"
		st.Bold = true
	case segment.RoleNumberedPoint, segment.RolePreamblePoint:
		st.LeftIndentCm = rs.LeftIndent
		st.HangingCm = rs.HangingIndent
	case segment.RoleLetteredPoint:
		st.LeftIndentCm = rs.LeftIndent + 0.5
		st.HangingCm = rs.HangingIndent
	case segment.RoleBulletPoint:
		st.LeftIndentCm = rs.LeftIndent + 1.0
		st.HangingCm = 0.5
	case segment.RoleSectionHeader:
		st.Bold = true
	case segment.RoleArticleTitle:
		st.Bold = true
	}

	if rs.PageBreakBeforeAnnex && isAnnexHeading(line) {
		st.PageBreakBefore = true
	}
	return st
}

// isAnnexHeading 附件/表格小节的起始行
func isAnnexHeading(line segment.ClassifiedLine) bool {
	if line.Role != segment.RoleSectionHeader && line.Role != segment.RoleArticleTitle {
		return false
	}
	lower := strings.ToLower(line.Text)
	return strings.HasPrefix(lower, "anexo") ||
		strings.HasPrefix(lower, "annex") ||
		strings.HasPrefix(lower, "tabla") ||
		strings.HasPrefix(lower, "table")
}

// lineSpacingFactor 行距模式到倍数
func lineSpacingFactor(mode string) float64 {
	switch mode {
	case "one-half":
		return 1.5
	case "double":
		return 2.0
	default:
		return 1.0
	}
}
