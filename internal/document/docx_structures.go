package document

import "encoding/xml"

// WordprocessingML 命名空间
const (
	wordMLNamespace       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relationshipNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// docxDocument word/document.xml 根元素
type docxDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	Body    docxBody `xml:"w:body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"w:p"`
	SectPr     *docxSectPr     `xml:"w:sectPr"`
}

type docxParagraph struct {
	Props *docxPPr  `xml:"w:pPr"`
	Runs  []docxRun `xml:"w:r"`
}

// docxPPr 段落属性；字段顺序遵循 OOXML 模式
type docxPPr struct {
	Style     *docxVal     `xml:"w:pStyle"`
	PageBreak *docxEmpty   `xml:"w:pageBreakBefore"`
	Spacing   *docxSpacing `xml:"w:spacing"`
	Ind       *docxInd     `xml:"w:ind"`
	Jc        *docxVal     `xml:"w:jc"`
	RunProps  *docxRPr     `xml:"w:rPr"`
}

type docxSpacing struct {
	Before   string `xml:"w:before,attr,omitempty"`
	After    string `xml:"w:after,attr,omitempty"`
	Line     string `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

// docxInd 缩进（twips）：w:left 左缩进，w:hanging 悬挂缩进
type docxInd struct {
	Left    string `xml:"w:left,attr,omitempty"`
	Hanging string `xml:"w:hanging,attr,omitempty"`
}

type docxRun struct {
	Props *docxRPr   `xml:"w:rPr"`
	Tab   *docxEmpty `xml:"w:tab"`
	Text  *docxText  `xml:"w:t"`
}

// docxRPr 文本属性；字段顺序遵循 OOXML 模式
type docxRPr struct {
	Fonts *docxFonts `xml:"w:rFonts"`
	Bold  *docxEmpty `xml:"w:b"`
	Sz    *docxVal   `xml:"w:sz"`
}

type docxFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
}

type docxText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type docxVal struct {
	Val string `xml:"w:val,attr"`
}

type docxEmpty struct{}

// docxSectPr 节属性：页面尺寸与页边距
type docxSectPr struct {
	PgSz  docxPgSz  `xml:"w:pgSz"`
	PgMar docxPgMar `xml:"w:pgMar"`
}

// docxPgSz A4 页面（twips）
type docxPgSz struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

// docxPgMar 页边距（twips）
type docxPgMar struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
}
