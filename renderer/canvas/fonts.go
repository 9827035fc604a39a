package canvasrenderer

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/vita/fonts"
	"github.com/ByLCY/vita/layout"
)

// fontCache 为每个字体族维护一个 canvas.FontFamily，各变体在首次使用时加载。
type fontCache struct {
	baseDir string

	mu       sync.Mutex
	families map[string]*loadedFamily
	fallback *canvas.FontFamily
}

type loadedFamily struct {
	family *canvas.FontFamily
	loaded map[canvas.FontStyle]bool
	failed map[canvas.FontStyle]error
}

func newFontCache(baseDir string) *fontCache {
	return &fontCache{baseDir: baseDir, families: map[string]*loadedFamily{}}
}

// face 返回 res 的字体面，size 单位为 pt。变体加载失败时退回内置 Go 常规体。
func (c *fontCache) face(res layout.FontResource, size float64, col color.Color) (*canvas.FontFace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	style := canvasStyle(res.Style)
	family, err := c.variant(res, style)
	if err != nil {
		fb, fbErr := c.fallbackFamily()
		if fbErr != nil {
			return nil, err
		}
		return fb.Face(size, col, canvas.FontRegular, canvas.FontNormal), nil
	}
	return family.Face(size, col, style, canvas.FontNormal), nil
}

func (c *fontCache) variant(res layout.FontResource, style canvas.FontStyle) (*canvas.FontFamily, error) {
	name := familyName(res)
	lf, ok := c.families[name]
	if !ok {
		lf = &loadedFamily{
			family: canvas.NewFontFamily(name),
			loaded: map[canvas.FontStyle]bool{},
			failed: map[canvas.FontStyle]error{},
		}
		c.families[name] = lf
	}
	if lf.loaded[style] {
		return lf.family, nil
	}
	if err := lf.failed[style]; err != nil {
		return nil, err
	}
	data, err := c.read(res)
	if err == nil {
		err = lf.family.LoadFont(data, 0, style)
	}
	if err != nil {
		err = fmt.Errorf("canvas: 加载字体 %s 失败: %w", name, err)
		lf.failed[style] = err
		return nil, err
	}
	lf.loaded[style] = true
	return lf.family, nil
}

// read 读取字体数据；相对路径相对 baseDir 解析，embed: 前缀交给 fonts.Load。
func (c *fontCache) read(res layout.FontResource) ([]byte, error) {
	src := res.Src
	if src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", res.Name)
	}
	if !strings.HasPrefix(src, "embed:") && !filepath.IsAbs(src) && c.baseDir != "" {
		src = filepath.Join(c.baseDir, src)
	}
	return fonts.Load(src)
}

func (c *fontCache) fallbackFamily() (*canvas.FontFamily, error) {
	if c.fallback != nil {
		return c.fallback, nil
	}
	data, err := fonts.Load("embed:" + fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("vita-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	c.fallback = family
	return family, nil
}

func familyName(res layout.FontResource) string {
	switch {
	case res.Family != "":
		return res.Family
	case res.Name != "":
		return res.Name
	default:
		return fonts.Default
	}
}

func canvasStyle(style layout.Style) canvas.FontStyle {
	out := canvas.FontRegular
	if style.Bold() {
		out = canvas.FontBold
	}
	if style.Italic() {
		out |= canvas.FontItalic
	}
	return out
}

// pickFont 在已注册字体中找 family 的 style 变体，缺失时退回常规体；都没有时由 fontCache 使用内置字体。
func pickFont(family string, style layout.Style, registered map[string]layout.FontResource) layout.FontResource {
	if res, ok := registered[layout.FontKey(family, style)]; ok {
		return res
	}
	if res, ok := registered[layout.FontKey(family, layout.StyleRegular)]; ok {
		return res
	}
	return layout.FontResource{Name: family, Family: family}
}
