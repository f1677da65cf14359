package segment

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// ClassifyOptions 分类选项，取自激活的格式规则集
type ClassifyOptions struct {
	// TabAfterMarker 在识别出的结构标记后插入一个制表符
	TabAfterMarker bool
	// Clean 分类前的文本清理开关
	Clean CleanOptions
}

// lineRule 分类规则表的一项：按优先级顺序求值，首个匹配生效
type lineRule struct {
	role Role
	// marked 标记型规则（编号/序言/字母/破折号条款），支持标记后插入制表符
	marked bool
	match  func(line string) (marker string, ok bool)
}

// markerMatcher 用前缀正则构造标记提取函数，捕获组 1 为标记子串
func markerMatcher(pattern string) func(string) (string, bool) {
	re := regexp2.MustCompile(pattern, regexp2.None)
	return func(line string) (string, bool) {
		m, err := re.FindStringMatch(line)
		if err != nil || m == nil {
			return "", false
		}
		return m.GroupByNumber(1).String(), true
	}
}

// articleTitleRe 条文标题："一个或多个单词 + 末尾数字"，如 "Artículo 5"、"Article 12"
var articleTitleRe = regexp2.MustCompile(`^\p{L}[\p{L} ]*? \d+$`, regexp2.None)

// classifierRules 正文行分类规则表，按声明顺序求值
var classifierRules = []lineRule{
	{role: RoleNumberedPoint, marked: true, match: markerMatcher(`^(\d+\.)`)},
	{role: RolePreamblePoint, marked: true, match: markerMatcher(`^(\(\d+\))`)},
	{role: RoleLetteredPoint, marked: true, match: markerMatcher(`^(\(\p{L}\))`)},
	{role: RoleBulletPoint, marked: true, match: markerMatcher(`^(—)`)},
	{role: RoleSectionHeader, match: func(line string) (string, bool) {
		return "", strings.HasSuffix(line, ":")
	}},
	{role: RoleArticleTitle, match: func(line string) (string, bool) {
		ok, err := articleTitleRe.MatchString(line)
		return "", err == nil && ok
	}},
}

// Classifier 结构分类器。确定性：同一文本两次分类产生相同的角色序列。
type Classifier struct {
	opts ClassifyOptions
}

// NewClassifier 创建结构分类器
func NewClassifier(opts ClassifyOptions) *Classifier {
	return &Classifier{opts: opts}
}

// Classify 将文本按行分类为结构角色序列。
// 第一行视为文档标题，第二行（如存在）视为副标题，其余为正文候选行。
// 该启发式假设常规的文档版式，对无标题文档可通过规则集覆盖。
func (c *Classifier) Classify(text string) []ClassifiedLine {
	text = Clean(text, c.opts.Clean)

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := normalizeLineSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}

	result := make([]ClassifiedLine, 0, len(lines))
	for i, line := range lines {
		switch i {
		case 0:
			result = append(result, ClassifiedLine{Role: RoleDocumentTitle, Text: line})
		case 1:
			result = append(result, ClassifiedLine{Role: RoleDocumentSubtitle, Text: line})
		default:
			result = append(result, c.classifyBodyLine(line))
		}
	}
	return result
}

// classifyBodyLine 按规则表对一个正文行求值，首个匹配生效
func (c *Classifier) classifyBodyLine(line string) ClassifiedLine {
	for _, rule := range classifierRules {
		marker, ok := rule.match(line)
		if !ok {
			continue
		}
		text := line
		if rule.marked && c.opts.TabAfterMarker {
			text = insertTabAfterMarker(line, marker)
		}
		return ClassifiedLine{Role: rule.role, Text: text, Marker: marker}
	}
	return ClassifiedLine{Role: RoleBody, Text: line}
}

// insertTabAfterMarker 在标记后插入一个制表符，标记与正文保持可分离
func insertTabAfterMarker(line, marker string) string {
	rest := strings.TrimLeft(line[len(marker):], " \t")
	if rest == "" {
		return marker
	}
	return marker + "\t" + rest
}

// normalizeLineSpace 将行内连续空白压缩为单个空格
func normalizeLineSpace(line string) string {
	return strings.Join(strings.Fields(line), " ")
}
