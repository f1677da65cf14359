package interchange

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/trados-translator/internal/store"
)

const sampleTMX = `<?xml version="1.0" encoding="UTF-8"?>
<tmx version="1.4">
<header srclang="en"/>
<body>
<tu>
<tuv xml:lang="en"><seg>governing law</seg></tuv>
<tuv xml:lang="es"><seg>ley aplicable</seg></tuv>
</tu>
<tu>
<note>contract boilerplate</note>
<tuv xml:lang="en-US"><seg>This Agreement shall be governed by Spanish law.</seg></tuv>
<tuv xml:lang="es-ES"><seg>El presente Contrato se regirá por la legislación española.</seg></tuv>
</tu>
<tu>
<tuv xml:lang="en"><seg>orphan segment</seg></tuv>
</tu>
</body>
</tmx>`

func TestParseTMX(t *testing.T) {
	pairs, err := ParseTMX(strings.NewReader(sampleTMX), "en", "es")
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, "governing law", pairs[0].Source)
	assert.Equal(t, "ley aplicable", pairs[0].Target)

	// 语言标签按前缀匹配：en 命中 en-US
	assert.Equal(t, "This Agreement shall be governed by Spanish law.", pairs[1].Source)
	assert.Equal(t, "contract boilerplate", pairs[1].Note)
}

func TestParseTMXMalformed(t *testing.T) {
	_, err := ParseTMX(strings.NewReader("<tmx><body><tu>"), "en", "es")
	var formatErr *ImportFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "TMX", formatErr.Format)
}

func TestParseTMXEmpty(t *testing.T) {
	_, err := ParseTMX(strings.NewReader(`<tmx version="1.4"><body></body></tmx>`), "en", "es")
	var formatErr *ImportFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Reason, "no translation units")
}

func newImportEnv(t *testing.T) (*TMXImporter, *store.TerminologyStore, *store.MemoryStore) {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()

	terms, err := store.NewTerminologyStore(filepath.Join(dir, "terminology.json"), logger)
	require.NoError(t, err)
	memory, err := store.NewMemoryStore(filepath.Join(dir, "memory.json"), logger)
	require.NoError(t, err)

	return NewTMXImporter(terms, memory, logger), terms, memory
}

func TestTMXImporter(t *testing.T) {
	importer, terms, memory := newImportEnv(t)

	result, err := importer.Import(strings.NewReader(sampleTMX), "sample.tmx", "en", "es")
	require.NoError(t, err)

	// 短单元进术语表，整句进翻译记忆，缺变体的单元跳过
	assert.Equal(t, 1, result.TermsImported)
	assert.Equal(t, 1, result.MemoryImported)
	assert.Equal(t, 1, result.UnitsSkipped)

	entries := terms.SelectAll(store.Filter{})
	require.Len(t, entries, 1)
	assert.Equal(t, "governing law", entries[0].Term)
	assert.Equal(t, "TMX Import", entries[0].Category)
	assert.Equal(t, "sample.tmx", entries[0].Origin)
	assert.False(t, entries[0].ImportedAt.IsZero())

	assert.Equal(t, 1, memory.Count())
}

func TestTMXImporterNoPartialCommit(t *testing.T) {
	importer, terms, memory := newImportEnv(t)

	_, err := importer.Import(strings.NewReader("<tmx><body><tu><tuv>"), "broken.tmx", "en", "es")
	var formatErr *ImportFormatError
	require.ErrorAs(t, err, &formatErr)

	// 解析失败：存储保持不变
	assert.Equal(t, 0, terms.Count())
	assert.Equal(t, 0, memory.Count())
}

func TestTMXImporterDeduplicates(t *testing.T) {
	importer, terms, _ := newImportEnv(t)

	_, err := importer.Import(strings.NewReader(sampleTMX), "sample.tmx", "en", "es")
	require.NoError(t, err)
	result, err := importer.Import(strings.NewReader(sampleTMX), "sample.tmx", "en", "es")
	require.NoError(t, err)

	// 重复导入按 upsert 语义合并
	assert.Equal(t, 0, result.TermsImported)
	assert.Equal(t, 1, terms.Count())
}

func TestRuleSetRoundTrip(t *testing.T) {
	rule := store.BuiltinRuleSet()
	rule.Name = "Client X House Style"
	rule.ID = "some-id"
	rule.IsDefault = true

	var buf bytes.Buffer
	require.NoError(t, ExportRuleSet(&buf, rule))

	imported, err := ImportRuleSet(&buf)
	require.NoError(t, err)

	// 导入重置 ID 与默认标志，其余字段保留
	assert.Empty(t, imported.ID)
	assert.False(t, imported.IsDefault)
	assert.Equal(t, "Client X House Style", imported.Name)
	assert.Equal(t, rule.Margins, imported.Margins)
	assert.Equal(t, rule.HangingIndent, imported.HangingIndent)
}

func TestImportRuleSetValidation(t *testing.T) {
	exportModified := func(mutate func(*store.RuleSet)) *bytes.Buffer {
		rule := store.BuiltinRuleSet()
		rule.Name = "candidate"
		mutate(&rule)
		var buf bytes.Buffer
		require.NoError(t, ExportRuleSet(&buf, rule))
		return &buf
	}

	tests := []struct {
		name   string
		mutate func(*store.RuleSet)
		reason string
	}{
		{"MissingName", func(r *store.RuleSet) { r.Name = "" }, "missing name"},
		{"MissingFont", func(r *store.RuleSet) { r.FontFamily = "" }, "missing font_family"},
		{"BadFontSize", func(r *store.RuleSet) { r.FontSize = 0 }, "font_size"},
		{"BadAlignment", func(r *store.RuleSet) { r.Alignment = "wide" }, "alignment"},
		{"BadLineSpacing", func(r *store.RuleSet) { r.LineSpacing = "triple" }, "line_spacing"},
		{"NegativeMargin", func(r *store.RuleSet) { r.Margins.Top = -1 }, "margins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportRuleSet(exportModified(tt.mutate))
			var formatErr *ImportFormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Contains(t, formatErr.Reason, tt.reason)
		})
	}
}

func TestImportRuleSetWrongFormat(t *testing.T) {
	_, err := ImportRuleSet(strings.NewReader(`{"format":"something-else","rule_set":{}}`))
	var formatErr *ImportFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Reason, "format identifier")
}

func TestImportRuleSetMalformedJSON(t *testing.T) {
	_, err := ImportRuleSet(strings.NewReader("{not json"))
	var formatErr *ImportFormatError
	require.True(t, errors.As(err, &formatErr))
}

func TestExportTerminologyCSV(t *testing.T) {
	entries := []store.TerminologyEntry{
		{Term: "governing law", Translation: "ley aplicable", SourceLang: "en", TargetLang: "es", Category: "Auto-Learned"},
		{Term: "notice, period", Translation: "plazo de \"preaviso\"", SourceLang: "en", TargetLang: "es"},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportTerminologyCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "governing law", records[1][0])
	assert.Equal(t, "Auto-Learned", records[1][5])
	// 含逗号与引号的字段经往返保持原样
	assert.Equal(t, "notice, period", records[2][0])
	assert.Equal(t, `plazo de "preaviso"`, records[2][1])
}
