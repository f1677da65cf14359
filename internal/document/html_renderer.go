package document

import (
	"fmt"
	"html"
	"strings"

	"github.com/nerdneilsfield/trados-translator/internal/store"
	"github.com/nerdneilsfield/trados-translator/pkg/segment"
)

// RenderHTML 渲染自包含的 HTML 文档：样式内嵌，可直接在常见文字处理器中打开。
// 角色集合封闭（见 segment 包），未知角色回退为正文样式，渲染绝不因角色失败。
func RenderHTML(lines []segment.ClassifiedLine, rs store.RuleSet) ([]byte, error) {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<style>\n")
	writeStyleRules(&b, rs)
	b.WriteString("</style>\n</head>\n<body>\n")

	for _, line := range lines {
		class := styleClass(line.Role)
		st := paragraphStyle(line, rs)
		if st.PageBreakBefore {
			fmt.Fprintf(&b, "<p class=%q style=\"page-break-before: always\">%s</p>\n",
				class, escapeText(line.Text))
		} else {
			fmt.Fprintf(&b, "<p class=%q>%s</p>\n", class, escapeText(line.Text))
		}
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String()), nil
}

// writeStyleRules 从规则集生成内嵌样式表
func writeStyleRules(b *strings.Builder, rs store.RuleSet) {
	fontFamily := rs.FontFamily
	if fontFamily == "" {
		fontFamily = "Times New Roman"
	}
	fontSize := rs.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}

	// 页边距：厘米直接映射
	fmt.Fprintf(b, "@page { margin: %.2fcm %.2fcm %.2fcm %.2fcm; }\n",
		rs.Margins.Top, rs.Margins.Right, rs.Margins.Bottom, rs.Margins.Left)
	fmt.Fprintf(b, "body { font-family: %q; font-size: %.1fpt; margin: %.2fcm %.2fcm %.2fcm %.2fcm; line-height: %.2f; }\n",
		fontFamily, fontSize,
		rs.Margins.Top, rs.Margins.Right, rs.Margins.Bottom, rs.Margins.Left,
		lineSpacingFactor(rs.LineSpacing))
	// 制表符参与排版（标记与正文的分隔）
	fmt.Fprintf(b, "p { white-space: pre-wrap; margin-top: %.1fpt; margin-bottom: %.1fpt; }\n",
		rs.SpacingBefore, rs.SpacingAfter)

	for _, role := range []segment.Role{
		segment.RoleDocumentTitle, segment.RoleDocumentSubtitle,
		segment.RoleNumberedPoint, segment.RolePreamblePoint,
		segment.RoleLetteredPoint, segment.RoleBulletPoint,
		segment.RoleSectionHeader, segment.RoleArticleTitle,
		segment.RoleBody,
	} {
		st := paragraphStyle(segment.ClassifiedLine{Role: role}, rs)
		fmt.Fprintf(b, "p.%s { text-align: %s;", string(role), st.Alignment)
		if st.Bold {
			b.WriteString(" font-weight: bold;")
		}
		if st.LeftIndentCm != 0 {
			fmt.Fprintf(b, " margin-left: %.2fcm;", st.LeftIndentCm)
		}
		if st.HangingCm != 0 {
			// 悬挂缩进：首行向左突出
			fmt.Fprintf(b, " text-indent: -%.2fcm;", st.HangingCm)
		}
		b.WriteString(" }\n")
	}
}

// escapeText 转义文本内容，保留制表符
func escapeText(s string) string {
	return html.EscapeString(s)
}
