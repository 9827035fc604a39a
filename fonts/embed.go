package fonts

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/vita/layout"
)

// Default 是未指定字体时使用的内置字体。
const Default = "Go"

const embedPrefix = "embed:"

// ErrUnknownFont 表示请求的字体既不是内置字体，也没有对应的文件。
var ErrUnknownFont = errors.New("unknown font")

var builtin = map[string]map[layout.Style][]byte{
	"Go": {
		layout.StyleRegular: goregular.TTF,
		"B":                 gobold.TTF,
		"I":                 goitalic.TTF,
		"BI":                gobolditalic.TTF,
	},
	"LatinModern": {
		layout.StyleRegular: lmroman10regular.TTF,
		"B":                 lmroman10bold.TTF,
		"I":                 lmroman10italic.TTF,
		"BI":                lmroman10bolditalic.TTF,
	},
}

// Names 返回全部内置字体名，按字母序。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Variants 返回内置字体各变体的来源，形如 "embed:Go"、"embed:Go:B"。
func Variants(name string) (layout.FontVariants, error) {
	family, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFont, name)
	}
	out := layout.FontVariants{}
	for style := range family {
		out[style] = embedPrefix + layout.FontKey(name, style)
	}
	return out, nil
}

// Load 返回字体字节数据。src 可以是 "embed:Go:B" 这样的内置名称，也可以是文件路径。
func Load(src string) ([]byte, error) {
	if !strings.HasPrefix(src, embedPrefix) {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("读取字体文件 %s 失败: %w", src, err)
		}
		return data, nil
	}
	key := strings.TrimPrefix(src, embedPrefix)
	name, style, _ := strings.Cut(key, ":")
	family, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFont, src)
	}
	data, ok := family[layout.Style(style)]
	if !ok {
		return nil, fmt.Errorf("%w: %s 没有 %q 变体", ErrUnknownFont, name, style)
	}
	return data, nil
}
