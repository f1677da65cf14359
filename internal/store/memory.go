package store

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
)

// MemoryStore 翻译记忆存储
type MemoryStore struct {
	filePath string
	entries  []MemoryEntry
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewMemoryStore 打开或创建翻译记忆存储
func NewMemoryStore(filePath string, logger *zap.Logger) (*MemoryStore, error) {
	s := &MemoryStore{
		filePath: filePath,
		logger:   logger,
	}
	if err := loadJSON(filePath, &s.entries); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load translation memory: %w", err)
		}
		s.entries = make([]MemoryEntry, 0)
	}
	logger.Debug("translation memory opened",
		zap.String("path", filePath),
		zap.Int("entries", len(s.entries)))
	return s, nil
}

// fields 记录的字段视图，用于通用过滤
func (e *MemoryEntry) fields() map[string]string {
	return map[string]string{
		"id":          e.ID,
		"source":      e.Source,
		"target":      e.Target,
		"source_lang": e.SourceLang,
		"target_lang": e.TargetLang,
		"context":     e.Context,
	}
}

// SelectAll 按过滤条件返回条目，最新的在前
func (s *MemoryStore) SelectAll(f Filter) []MemoryEntry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []MemoryEntry
	for _, e := range s.entries {
		if matchFilter(e.fields(), f) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Insert 插入一条翻译记忆，返回带 ID 的条目
func (s *MemoryStore) Insert(entry MemoryEntry) (MemoryEntry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, entry)

	if err := saveJSON(s.filePath, s.entries); err != nil {
		return MemoryEntry{}, err
	}
	s.logger.Debug("memory entry inserted", zap.String("id", entry.ID))
	return entry, nil
}

// Update 按 ID 更新可编辑字段（译文与上下文备注）
func (s *MemoryStore) Update(id string, target, context string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Target = target
			s.entries[i].Context = context
			return saveJSON(s.filePath, s.entries)
		}
	}
	return fmt.Errorf("memory entry not found: %s", id)
}

// Delete 按 ID 删除条目
func (s *MemoryStore) Delete(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return saveJSON(s.filePath, s.entries)
		}
	}
	return fmt.Errorf("memory entry not found: %s", id)
}

// FindSimilar 为翻译上下文挑选与源文本相近的记忆示例。
// 模糊匹配排序取前 limit 条；无匹配时回退到该语言对最新的条目。
func (s *MemoryStore) FindSimilar(text, sourceLang, targetLang string, limit int) []MemoryEntry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var candidates []MemoryEntry
	var sources []string
	for _, e := range s.entries {
		if e.SourceLang == sourceLang && e.TargetLang == targetLang {
			candidates = append(candidates, e)
			sources = append(sources, e.Source)
		}
	}
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(text, sources)
	sort.Sort(ranks)

	seen := make(map[int]bool)
	var result []MemoryEntry
	for _, r := range ranks {
		if len(result) >= limit {
			return result
		}
		if !seen[r.OriginalIndex] {
			seen[r.OriginalIndex] = true
			result = append(result, candidates[r.OriginalIndex])
		}
	}

	// 回退：按时间取最新条目补足
	recent := make([]MemoryEntry, len(candidates))
	copy(recent, candidates)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	for _, e := range recent {
		if len(result) >= limit {
			break
		}
		dup := false
		for _, have := range result {
			if have.ID == e.ID {
				dup = true
				break
			}
		}
		if !dup {
			result = append(result, e)
		}
	}
	return result
}

// Count 条目总数
func (s *MemoryStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}
