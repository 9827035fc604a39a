package resume

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidRecord 表示输入不符合简历结构，例如技能分组缺少名称。
var ErrInvalidRecord = errors.New("invalid resume record")

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Load 读取并解析 JSON 简历文件。
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取简历文件 %s 失败: %w", path, err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Parse 校验并解析 JSON 简历。未知字段会被忽略；返回的记录已完成描述归一化。
func Parse(data []byte) (*Record, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	rec.Normalize()
	return &rec, nil
}

// Validate 用内置 JSON Schema 校验已解码的文档。
func Validate(doc map[string]any) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("resume: schema 校验出错: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}
