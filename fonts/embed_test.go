package fonts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/vita/layout"
)

func TestVariantsResolveThroughLoad(t *testing.T) {
	for _, name := range Names() {
		variants, err := Variants(name)
		if err != nil {
			t.Fatalf("Variants(%s) 失败: %v", name, err)
		}
		if err := variants.Validate(name); err != nil {
			t.Fatalf("内置字体 %s 应包含常规体: %v", name, err)
		}
		for style, src := range variants {
			data, err := Load(src)
			if err != nil {
				t.Fatalf("Load(%s) 失败: %v", src, err)
			}
			if len(data) == 0 {
				t.Fatalf("%s 的 %q 变体为空", name, style)
			}
		}
	}
}

func TestDefaultIsBuiltin(t *testing.T) {
	v, err := Variants(Default)
	if err != nil {
		t.Fatalf("默认字体应为内置字体: %v", err)
	}
	if v["B"] != "embed:Go:B" || v[layout.StyleRegular] != "embed:Go" {
		t.Fatalf("来源命名不符: %#v", v)
	}
}

func TestUnknownFont(t *testing.T) {
	if _, err := Variants("Comic"); !errors.Is(err, ErrUnknownFont) {
		t.Fatalf("期望 ErrUnknownFont，实际 %v", err)
	}
	if _, err := Load("embed:Comic"); !errors.Is(err, ErrUnknownFont) {
		t.Fatalf("期望 ErrUnknownFont，实际 %v", err)
	}
	if _, err := Load("embed:Go:U"); !errors.Is(err, ErrUnknownFont) {
		t.Fatalf("下划线不是字体变体，期望 ErrUnknownFont，实际 %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	want := []byte("not-really-a-font")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("读取文件字体失败: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("读取内容不一致")
	}
}
