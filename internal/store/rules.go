package store

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLocale 系统内置的默认目标语言；渲染该语言时合并内置规则覆盖
const DefaultLocale = "es"

// RuleStore 格式规则集存储
type RuleStore struct {
	filePath string
	rules    []RuleSet
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewRuleStore 打开或创建规则集存储。
// 空存储会预置一个标准的法律文书规则集并标记为默认。
func NewRuleStore(filePath string, logger *zap.Logger) (*RuleStore, error) {
	s := &RuleStore{
		filePath: filePath,
		logger:   logger,
	}
	if err := loadJSON(filePath, &s.rules); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load rule store: %w", err)
		}
		seed := BuiltinRuleSet()
		seed.ID = uuid.NewString()
		seed.IsDefault = true
		seed.CreatedAt = time.Now()
		seed.UpdatedAt = seed.CreatedAt
		s.rules = []RuleSet{seed}
		if err := saveJSON(filePath, s.rules); err != nil {
			return nil, err
		}
	}
	logger.Debug("rule store opened",
		zap.String("path", filePath),
		zap.Int("ruleSets", len(s.rules)))
	return s, nil
}

// BuiltinRuleSet 标准法律文书排版规则（TRADOS 约定）
func BuiltinRuleSet() RuleSet {
	return RuleSet{
		Name:             "TRADOS Standard",
		Version:          1,
		FontFamily:       "Times New Roman",
		FontSize:         12,
		FootnoteFontSize: 10,
		Margins:          Margins{Top: 2.54, Bottom: 2.54, Left: 3.17, Right: 3.17},
		SpacingBefore:    0,
		SpacingAfter:     6,
		LineSpacing:      "single",
		Alignment:        "justify",
		LeftIndent:       1.0,
		HangingIndent:    1.0,
		CollapseSpaces:   true,
		StripSoftHyphens: true,
		NumberingStyles: map[string]string{
			"numbered": "decimal-dot",
			"preamble": "decimal-paren",
			"lettered": "letter-paren",
			"bullet":   "em-dash",
		},
		TabAfterMarker:       true,
		PageBreakBeforeAnnex: true,
	}
}

// LocaleOverride 目标语言等于内置默认语言时叠加的固定规则覆盖。
// 仅覆盖其定义的键，其余沿用所选规则集。
func LocaleOverride() RuleSet {
	return RuleSet{
		FontFamily:  "Times New Roman",
		FontSize:    12,
		Alignment:   "justify",
		LineSpacing: "single",
		Margins:     Margins{Top: 2.54, Bottom: 2.54, Left: 3.17, Right: 3.17},
	}
}

// MergeOverride 将覆盖规则合并到基础规则之上，覆盖定义的键优先
func MergeOverride(base, override RuleSet) RuleSet {
	merged := base
	if override.FontFamily != "" {
		merged.FontFamily = override.FontFamily
	}
	if override.FontSize > 0 {
		merged.FontSize = override.FontSize
	}
	if override.FootnoteFontSize > 0 {
		merged.FootnoteFontSize = override.FootnoteFontSize
	}
	if override.Alignment != "" {
		merged.Alignment = override.Alignment
	}
	if override.LineSpacing != "" {
		merged.LineSpacing = override.LineSpacing
	}
	if override.Margins != (Margins{}) {
		merged.Margins = override.Margins
	}
	if override.LeftIndent > 0 {
		merged.LeftIndent = override.LeftIndent
	}
	if override.HangingIndent > 0 {
		merged.HangingIndent = override.HangingIndent
	}
	return merged
}

// List 返回全部规则集，默认的在前，其余按名称排序
func (s *RuleStore) List() []RuleSet {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]RuleSet, len(s.rules))
	copy(result, s.rules)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsDefault != result[j].IsDefault {
			return result[i].IsDefault
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Get 按 ID 获取规则集
func (s *RuleStore) Get(id string) (RuleSet, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, r := range s.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return RuleSet{}, fmt.Errorf("rule set not found: %s", id)
}

// GetDefault 返回当前默认规则集；无默认时回退到内置规则
func (s *RuleStore) GetDefault() RuleSet {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, r := range s.rules {
		if r.IsDefault {
			return r
		}
	}
	return BuiltinRuleSet()
}

// Insert 新增规则集
func (s *RuleStore) Insert(rule RuleSet) (RuleSet, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rule.ID = uuid.NewString()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	rule.IsDefault = false
	s.rules = append(s.rules, rule)

	if err := saveJSON(s.filePath, s.rules); err != nil {
		return RuleSet{}, err
	}
	s.logger.Info("rule set created",
		zap.String("id", rule.ID),
		zap.String("name", rule.Name))
	return rule, nil
}

// Update 按 ID 整体替换规则集内容（保留 ID、默认标记与创建时间）
func (s *RuleStore) Update(id string, rule RuleSet) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == id {
			rule.ID = id
			rule.IsDefault = s.rules[i].IsDefault
			rule.CreatedAt = s.rules[i].CreatedAt
			rule.UpdatedAt = time.Now()
			rule.Version = s.rules[i].Version + 1
			s.rules[i] = rule
			return saveJSON(s.filePath, s.rules)
		}
	}
	return fmt.Errorf("rule set not found: %s", id)
}

// Delete 按 ID 删除规则集
func (s *RuleStore) Delete(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, r := range s.rules {
		if r.ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return saveJSON(s.filePath, s.rules)
		}
	}
	return fmt.Errorf("rule set not found: %s", id)
}

// SetDefault 将指定规则集设为默认。
// 先清除旧默认再设置新默认，两次顺序写，不是原子事务：
// 期间可能短暂出现零个默认，消费端一次只读一个规则集，可以接受。
func (s *RuleStore) SetDefault(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	target := -1
	for i := range s.rules {
		if s.rules[i].ID == id {
			target = i
			break
		}
	}
	if target < 0 {
		return fmt.Errorf("rule set not found: %s", id)
	}

	for i := range s.rules {
		if s.rules[i].IsDefault {
			s.rules[i].IsDefault = false
		}
	}
	s.rules[target].IsDefault = true
	s.rules[target].UpdatedAt = time.Now()

	if err := saveJSON(s.filePath, s.rules); err != nil {
		return err
	}
	s.logger.Info("default rule set changed",
		zap.String("id", id),
		zap.String("name", s.rules[target].Name))
	return nil
}
