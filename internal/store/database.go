package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadJSON 读取 JSON 文件到 v；文件不存在时返回 os.ErrNotExist
func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	return nil
}

// saveJSON 原子写入：先写临时文件再重命名
func saveJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store data: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp store file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// matchFilter 按等值与子串条件匹配一条记录的字段视图
func matchFilter(fields map[string]string, f Filter) bool {
	for name, want := range f.Equals {
		if fields[name] != want {
			return false
		}
	}
	for name, sub := range f.Substring {
		if !strings.Contains(strings.ToLower(fields[name]), strings.ToLower(sub)) {
			return false
		}
	}
	return true
}
