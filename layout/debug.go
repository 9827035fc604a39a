package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DebugJSON 把布局结果编码为缩进 JSON：每页的文本框、分隔线、项目符号以及已注册字体。
func DebugJSON(res *Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("布局结果为空")
	}
	return json.MarshalIndent(res, "", "  ")
}

// WriteDebugJSON 将布局结果写入 path，便于调试分页与坐标。目录不存在时自动创建。
func WriteDebugJSON(res *Result, path string) error {
	data, err := DebugJSON(res)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
