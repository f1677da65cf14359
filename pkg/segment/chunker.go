package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParagraphJoiner 块之间以及块内段落之间的连接符
const ParagraphJoiner = "\n\n"

// Chunker 文本分块器，在段落/句子边界上将长文本切分为大小受限的块
type Chunker struct {
	maxChars int
}

// NewChunker 创建分块器
func NewChunker(maxChars int) *Chunker {
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &Chunker{maxChars: maxChars}
}

// MaxChars 返回块大小上限
func (c *Chunker) MaxChars() int {
	return c.maxChars
}

// Chunk 将文本分块。纯函数：相同输入总是产生相同的块序列。
// 单个句子超出上限时保持完整（不可再分的情况），绝不丢弃或截断。
func (c *Chunker) Chunk(text string) []Chunk {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var texts []string
	var current strings.Builder
	currentSize := 0

	flush := func() {
		if current.Len() > 0 {
			texts = append(texts, strings.TrimSpace(current.String()))
			current.Reset()
			currentSize = 0
		}
	}

	for _, para := range paragraphs {
		paraSize := utf8.RuneCountInString(para)

		// 超大段落按句子边界再切分
		if paraSize > c.maxChars {
			flush()
			texts = append(texts, c.packSentences(splitSentences(para))...)
			continue
		}

		if currentSize > 0 && currentSize+len(ParagraphJoiner)+paraSize > c.maxChars {
			flush()
		}

		if current.Len() > 0 {
			current.WriteString(ParagraphJoiner)
			currentSize += len(ParagraphJoiner)
		}
		current.WriteString(para)
		currentSize += paraSize
	}
	flush()

	chunks := make([]Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, Chunk{
			Index:  i,
			Text:   t,
			Length: utf8.RuneCountInString(t),
		})
	}
	return chunks
}

// packSentences 将句子装入同一大小预算下的子块
func (c *Chunker) packSentences(sentences []string) []string {
	var chunks []string
	var current strings.Builder
	currentSize := 0

	for _, sentence := range sentences {
		sentenceSize := utf8.RuneCountInString(sentence)

		// 单个句子超出上限：独立成块
		if sentenceSize > c.maxChars {
			if current.Len() > 0 {
				chunks = append(chunks, strings.TrimSpace(current.String()))
				current.Reset()
				currentSize = 0
			}
			chunks = append(chunks, sentence)
			continue
		}

		if currentSize > 0 && currentSize+1+sentenceSize > c.maxChars {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentSize = 0
		}

		if current.Len() > 0 {
			current.WriteString(" ")
			currentSize++
		}
		current.WriteString(sentence)
		currentSize += sentenceSize
	}

	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// splitParagraphs 按空行（两个以上连续换行）分割文本，保持顺序，跳过空段落
func splitParagraphs(text string) []string {
	// 标准化换行符
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	parts := strings.Split(text, "\n\n")

	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// splitSentences 按句子边界分割，终结标点（. ? ! ;）保留在句子内
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if isSentenceEnd(r) {
			// 终结标点后面是空白或文本结束才算句子边界
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				sentence := strings.TrimSpace(current.String())
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
	}
	return sentences
}

// isSentenceEnd 判断是否是句子终结标点
func isSentenceEnd(r rune) bool {
	return r == '.' || r == '?' || r == '!' || r == ';'
}
