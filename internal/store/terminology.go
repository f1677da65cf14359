package store

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TerminologyStore 术语表存储
type TerminologyStore struct {
	filePath string
	entries  []TerminologyEntry
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewTerminologyStore 打开或创建术语表存储
func NewTerminologyStore(filePath string, logger *zap.Logger) (*TerminologyStore, error) {
	s := &TerminologyStore{
		filePath: filePath,
		logger:   logger,
	}
	if err := loadJSON(filePath, &s.entries); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load terminology store: %w", err)
		}
		s.entries = make([]TerminologyEntry, 0)
	}
	logger.Debug("terminology store opened",
		zap.String("path", filePath),
		zap.Int("entries", len(s.entries)))
	return s, nil
}

func (e *TerminologyEntry) fields() map[string]string {
	return map[string]string{
		"id":          e.ID,
		"term":        e.Term,
		"translation": e.Translation,
		"source_lang": e.SourceLang,
		"target_lang": e.TargetLang,
		"definition":  e.Definition,
		"category":    e.Category,
		"origin":      e.Origin,
	}
}

// conflictKey 唯一键 (term, translation, source_lang, target_lang)，不区分大小写
func conflictKey(e TerminologyEntry) string {
	return strings.ToLower(strings.Join([]string{
		e.Term, e.Translation, e.SourceLang, e.TargetLang,
	}, "\x00"))
}

// SelectAll 按过滤条件返回条目，按术语排序
func (s *TerminologyStore) SelectAll(f Filter) []TerminologyEntry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []TerminologyEntry
	for _, e := range s.entries {
		if matchFilter(e.fields(), f) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Term) < strings.ToLower(result[j].Term)
	})
	return result
}

// Upsert 批量写入术语。
// 与已有条目冲突（唯一键相同）时静默视为已知，不报错、不产生第二行。
// 返回实际新增的条目数。
func (s *TerminologyStore) Upsert(entries []TerminologyEntry) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	known := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		known[conflictKey(e)] = true
	}

	inserted := 0
	for _, e := range entries {
		key := conflictKey(e)
		if known[key] {
			continue
		}
		known[key] = true
		e.ID = uuid.NewString()
		e.CreatedAt = time.Now()
		s.entries = append(s.entries, e)
		inserted++
	}

	if inserted > 0 {
		if err := saveJSON(s.filePath, s.entries); err != nil {
			return 0, err
		}
	}
	s.logger.Debug("terminology upsert",
		zap.Int("offered", len(entries)),
		zap.Int("inserted", inserted))
	return inserted, nil
}

// Update 按 ID 更新可编辑字段
func (s *TerminologyStore) Update(id string, definition, category string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Definition = definition
			s.entries[i].Category = category
			return saveJSON(s.filePath, s.entries)
		}
	}
	return fmt.Errorf("terminology entry not found: %s", id)
}

// Delete 按 ID 删除条目
func (s *TerminologyStore) Delete(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return saveJSON(s.filePath, s.entries)
		}
	}
	return fmt.Errorf("terminology entry not found: %s", id)
}

// Count 条目总数
func (s *TerminologyStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}
