package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nerdneilsfield/trados-translator/internal/store"
	"github.com/nerdneilsfield/trados-translator/pkg/segment"
)

// cmToTwips 厘米到 twips（四舍五入）
func cmToTwips(cm float64) int {
	return int(math.Round(cm * twipsPerCm))
}

// ptToTwentieths 磅到 1/20 磅
func ptToTwentieths(pt float64) int {
	return int(math.Round(pt * twipsPerPoint))
}

// RenderDOCX 渲染原生文字处理文档：段落带绝对单位的间距与缩进。
// 输出是一个最小但完整的 OOXML 包。
func RenderDOCX(lines []segment.ClassifiedLine, rs store.RuleSet) ([]byte, error) {
	doc := buildDocument(lines, rs)

	docXML, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document.xml: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", xml.Header + string(docXML)},
		{"word/styles.xml", stylesXML(rs)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx package: %w", err)
	}
	return buf.Bytes(), nil
}

// buildDocument 把分类行映射为段落序列
func buildDocument(lines []segment.ClassifiedLine, rs store.RuleSet) docxDocument {
	fontSize := rs.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}

	paragraphs := make([]docxParagraph, 0, len(lines))
	for _, line := range lines {
		st := paragraphStyle(line, rs)

		ppr := &docxPPr{
			Style: &docxVal{Val: styleID(line.Role)},
			Jc:    &docxVal{Val: docxAlignment(st.Alignment)},
			Spacing: &docxSpacing{
				Before:   strconv.Itoa(ptToTwentieths(st.SpacingBeforePt)),
				After:    strconv.Itoa(ptToTwentieths(st.SpacingAfterPt)),
				Line:     strconv.Itoa(int(math.Round(240 * lineSpacingFactor(rs.LineSpacing)))),
				LineRule: "auto",
			},
		}
		if st.PageBreakBefore {
			ppr.PageBreak = &docxEmpty{}
		}
		if st.LeftIndentCm != 0 || st.HangingCm != 0 {
			ppr.Ind = &docxInd{}
			if st.LeftIndentCm != 0 {
				ppr.Ind.Left = strconv.Itoa(cmToTwips(st.LeftIndentCm))
			}
			if st.HangingCm != 0 {
				ppr.Ind.Hanging = strconv.Itoa(cmToTwips(st.HangingCm))
			}
		}

		paragraphs = append(paragraphs, docxParagraph{
			Props: ppr,
			Runs:  runsForText(line.Text, st, fontSize, rs.FontFamily),
		})
	}

	return docxDocument{
		XmlnsW: wordMLNamespace,
		XmlnsR: relationshipNamespace,
		Body: docxBody{
			Paragraphs: paragraphs,
			SectPr: &docxSectPr{
				PgSz: docxPgSz{W: "11906", H: "16838"}, // A4
				PgMar: docxPgMar{
					Top:    strconv.Itoa(cmToTwips(rs.Margins.Top)),
					Right:  strconv.Itoa(cmToTwips(rs.Margins.Right)),
					Bottom: strconv.Itoa(cmToTwips(rs.Margins.Bottom)),
					Left:   strconv.Itoa(cmToTwips(rs.Margins.Left)),
				},
			},
		},
	}
}

// runsForText 把一行文本切成运行序列。
// 制表符（标记与正文的分隔）映射为独立的 w:tab 运行，保持标记可分离。
func runsForText(text string, st ParagraphStyle, fontSize float64, fontFamily string) []docxRun {
	if fontFamily == "" {
		fontFamily = "Times New Roman"
	}
	rpr := &docxRPr{
		Fonts: &docxFonts{ASCII: fontFamily, HAnsi: fontFamily},
		Sz:    &docxVal{Val: strconv.Itoa(int(math.Round(fontSize * 2)))}, // 半磅
	}
	if st.Bold {
		rpr.Bold = &docxEmpty{}
	}

	var runs []docxRun
	for i, part := range strings.Split(text, "\t") {
		if i > 0 {
			runs = append(runs, docxRun{Props: rpr, Tab: &docxEmpty{}})
		}
		if part != "" {
			runs = append(runs, docxRun{
				Props: rpr,
				Text:  &docxText{Space: "preserve", Value: part},
			})
		}
	}
	if len(runs) == 0 {
		runs = append(runs, docxRun{Props: rpr, Text: &docxText{Value: ""}})
	}
	return runs
}

// styleID 角色到样式标识；未知角色回退为正文样式
func styleID(role segment.Role) string {
	return strings.ReplaceAll(styleClass(role), "-", "")
}

// docxAlignment CSS 对齐值到 w:jc
func docxAlignment(alignment string) string {
	switch alignment {
	case "center":
		return "center"
	case "right":
		return "right"
	case "left":
		return "left"
	default:
		return "both" // justify
	}
}

// stylesXML 生成 word/styles.xml：文档默认字体/字号加每个角色一个命名样式
func stylesXML(rs store.RuleSet) string {
	fontFamily := rs.FontFamily
	if fontFamily == "" {
		fontFamily = "Times New Roman"
	}
	fontSize := rs.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}
	halfPoints := int(math.Round(fontSize * 2))

	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<w:styles xmlns:w=%q>`, wordMLNamespace)
	fmt.Fprintf(&b,
		`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii=%q w:hAnsi=%q/><w:sz w:val="%d"/></w:rPr></w:rPrDefault></w:docDefaults>`,
		fontFamily, fontFamily, halfPoints)

	for _, role := range []segment.Role{
		segment.RoleDocumentTitle, segment.RoleDocumentSubtitle,
		segment.RoleNumberedPoint, segment.RolePreamblePoint,
		segment.RoleLetteredPoint, segment.RoleBulletPoint,
		segment.RoleSectionHeader, segment.RoleArticleTitle,
		segment.RoleBody,
	} {
		fmt.Fprintf(&b,
			`<w:style w:type="paragraph" w:styleId=%q><w:name w:val=%q/></w:style>`,
			styleID(role), string(role))
	}
	b.WriteString(`</w:styles>`)
	return b.String()
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`
