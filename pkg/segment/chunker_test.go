package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalizeWhitespace 把所有空白压成单个空格，用于"忽略空白差异"的内容比较
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestChunkerBasic(t *testing.T) {
	chunker := NewChunker(100)

	t.Run("EmptyInput", func(t *testing.T) {
		assert.Nil(t, chunker.Chunk(""))
		assert.Nil(t, chunker.Chunk("   \n\n  \n"))
	})

	t.Run("SingleSmallParagraph", func(t *testing.T) {
		chunks := chunker.Chunk("Hello world.")
		require.Len(t, chunks, 1)
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, "Hello world.", chunks[0].Text)
		assert.Equal(t, 12, chunks[0].Length)
	})

	t.Run("ParagraphsPackedUnderBudget", func(t *testing.T) {
		text := "Primer párrafo corto.\n\nSegundo párrafo corto.\n\nTercer párrafo corto."
		chunks := chunker.Chunk(text)
		// 三个短段落装进两个块（100 字符预算）
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.LessOrEqual(t, c.Length, 100)
		}
	})

	t.Run("IndicesAreSequential", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 20; i++ {
			fmt.Fprintf(&sb, "Paragraph number %d with some padding text to fill space.\n\n", i)
		}
		chunks := chunker.Chunk(sb.String())
		require.Greater(t, len(chunks), 1)
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
		}
	})
}

func TestChunkerReconstruction(t *testing.T) {
	// 块重组不变量：用段落连接符拼回的文本在空白标准化意义下等于原文
	texts := []string{
		"Title\n\nFirst paragraph here.\n\nSecond paragraph here.",
		"One long single paragraph. It has several sentences. Each one is short. They should be packed together. And none lost.",
		"A\n\n\nB\n\n\n\nC",
		"Línea única sin saltos de párrafo pero con contenido razonable.",
	}

	for _, maxChars := range []int{30, 50, 200} {
		chunker := NewChunker(maxChars)
		for _, text := range texts {
			chunks := chunker.Chunk(text)
			var parts []string
			for _, c := range chunks {
				parts = append(parts, c.Text)
			}
			rejoined := strings.Join(parts, ParagraphJoiner)
			assert.Equal(t, normalizeWhitespace(text), normalizeWhitespace(rejoined),
				"maxChars=%d text=%q", maxChars, text)
		}
	}
}

func TestChunkerOversizedParagraph(t *testing.T) {
	chunker := NewChunker(60)

	t.Run("SentenceFallback", func(t *testing.T) {
		// 单段落超出预算：按句子边界切分，终结标点保留在句子内
		text := "This is the first sentence. This is the second sentence! Is this the third sentence? The fourth has a semicolon; and continues."
		chunks := chunker.Chunk(text)
		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, c.Length, 60)
			assert.NotEmpty(t, strings.TrimSpace(c.Text))
		}
	})

	t.Run("IrreducibleSentence", func(t *testing.T) {
		// 单个句子超出预算：独立成块，不截断
		long := strings.Repeat("palabra ", 20) + "final."
		chunks := chunker.Chunk("Short intro.\n\n" + long)
		require.NotEmpty(t, chunks)
		found := false
		for _, c := range chunks {
			if strings.Contains(c.Text, "final.") && c.Length > 60 {
				found = true
			}
		}
		assert.True(t, found, "oversized sentence must survive intact")
	})

	t.Run("NoBlankLinesFallsToSentences", func(t *testing.T) {
		// 无空行的文本视为单一段落，超出预算时进入句子级回退
		text := "Uno dos tres cuatro cinco. Seis siete ocho nueve diez. Once doce trece catorce quince."
		chunks := chunker.Chunk(text)
		require.Greater(t, len(chunks), 1)
	})
}

func TestChunkerDeterminism(t *testing.T) {
	chunker := NewChunker(80)
	text := "Alpha beta gamma.\n\nDelta epsilon zeta eta theta iota kappa lambda. Mu nu xi omicron pi rho sigma tau. Upsilon phi chi psi omega.\n\nFinal short paragraph."

	first := chunker.Chunk(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, chunker.Chunk(text))
	}
}
