package segment

import "strings"

// softHyphen 软连字符 U+00AD，常见于 PDF 提取出的断词文本
const softHyphen = '­'

// CleanOptions 文本清理开关，取自激活的格式规则集
type CleanOptions struct {
	// CollapseSpaces 将 2-5 个连续空格压缩为一个
	CollapseSpaces bool
	// StripSoftHyphens 删除软连字符（U+00AD）
	StripSoftHyphens bool
	// NormalizeLineBreaks 将 \r\n 和 \r 统一为 \n
	NormalizeLineBreaks bool
}

// Clean 按选项清理文本。幂等：清理两次与清理一次结果相同。
func Clean(text string, opts CleanOptions) string {
	if opts.NormalizeLineBreaks {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	if opts.StripSoftHyphens {
		text = strings.ReplaceAll(text, string(softHyphen), "")
	}
	if opts.CollapseSpaces {
		text = collapseSpaceRuns(text)
	}
	return text
}

// collapseSpaceRuns 压缩 2-5 个连续空格为一个空格。
// 更长的空格串原样保留，保证幂等（否则 7 个空格第一次会缩成 3 个，第二次缩成 1 个）。
func collapseSpaceRuns(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	run := 0
	flushRun := func() {
		if run == 0 {
			return
		}
		if run >= 2 && run <= 5 {
			b.WriteByte(' ')
		} else {
			b.WriteString(strings.Repeat(" ", run))
		}
		run = 0
	}

	for _, r := range text {
		if r == ' ' {
			run++
			continue
		}
		flushRun()
		b.WriteRune(r)
	}
	flushRun()

	return b.String()
}
