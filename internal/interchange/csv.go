package interchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/nerdneilsfield/trados-translator/internal/store"
)

// csvHeader 术语表 CSV 列
var csvHeader = []string{
	"term", "translation", "source_lang", "target_lang",
	"definition", "category", "origin", "imported_at",
}

// ExportTerminologyCSV 导出术语表：一个条目一行，首行为列名
func ExportTerminologyCSV(w io.Writer, entries []store.TerminologyEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		importedAt := ""
		if !e.ImportedAt.IsZero() {
			importedAt = e.ImportedAt.Format(time.RFC3339)
		}
		record := []string{
			e.Term, e.Translation, e.SourceLang, e.TargetLang,
			e.Definition, e.Category, e.Origin, importedAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv output: %w", err)
	}
	return nil
}
