// Package output 把生成的 PDF 写入输出目录。写入先落到同目录临时文件，再原子重命名为目标文件，
// 失败时不会留下半成品。
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// ErrTargetLocked 表示目标文件被占用或不可写，例如正被 PDF 阅读器打开。
// 调用方应提示用户关闭占用程序，内存中的结果仍然有效。
var ErrTargetLocked = errors.New("output target locked")

// Write 把 data 写入 dir/name 并返回最终路径。dir 不存在时自动创建。
func Write(dir, name string, data []byte) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("output: 文件名无效 %q", name)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output: 创建目录失败: %w", classify(err))
	}
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("output: 创建临时文件失败: %w", classify(err))
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("output: 写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("output: 关闭临时文件失败: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("output: 设置权限失败: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return "", fmt.Errorf("output: 写入 %s 失败: %w", target, classify(err))
	}
	return target, nil
}

// classify 把权限不足与文件占用类错误归并为 ErrTargetLocked，原始错误保留在链上。
func classify(err error) error {
	if isLocked(err) {
		return errors.Join(ErrTargetLocked, err)
	}
	return err
}

func isLocked(err error) bool {
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETXTBSY)
}
