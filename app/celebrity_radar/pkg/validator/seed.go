package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

type seedFile struct {
	Celebrities []model.Entity `json:"celebrities"`
}

// LoadSeedList 读取 {"celebrities": [...]}，条目可以是名字或 {"name": ...}
func LoadSeedList(path string) ([]model.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed list: %w", err)
	}

	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed list %s: %w", path, err)
	}
	if f.Celebrities == nil {
		f.Celebrities = []model.Entity{}
	}
	return f.Celebrities, nil
}

// SaveSeedList 以缩进格式写回名单，中文不转义
func SaveSeedList(path string, entities []model.Entity) error {
	if entities == nil {
		entities = []model.Entity{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(seedFile{Celebrities: entities}); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write seed list: %w", err)
	}
	logger.Log.Infof("已保存 %d 位名人到 %s", len(entities), path)
	return nil
}
