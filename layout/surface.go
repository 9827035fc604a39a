package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFontUnavailable 表示所选字体尚未注册。调用方可注册后重试。
var ErrFontUnavailable = errors.New("font unavailable")

// Surface 是排版引擎需要的最小绘制接口：光标、页面尺寸、分页预测与绘制原语。
// 一个 Surface 只服务一份文档，不可并发使用。
//
// 绘制方法不返回错误；首个错误会被记录下来并使后续绘制失效，由 Err 取回。
type Surface interface {
	Cursor() (x, y float64)
	SetCursor(x, y float64)

	PageWidth() float64
	PageHeight() float64
	LeftMargin() float64
	RightMargin() float64
	TopMargin() float64

	// WouldOverflow 判断从当前光标再向下占用 height 是否会越过当前页的可用区域。
	WouldOverflow(height float64) bool
	// BreakPage 前进到下一页，光标回到左上边距。当前已是最后一页时新建一页。
	BreakPage()
	// PageNo 返回当前页码，从 1 开始。
	PageNo() int
	// SetPage 切换到已存在的第 n 页，光标不变。页码越界记为错误。
	SetPage(n int)

	// DrawTextCell 绘制单行文本单元格，并按 Cell.Advance 移动光标。
	DrawTextCell(text string, cell Cell)
	// DrawMultilineText 按宽度折行绘制文本，光标下移实际占用的行数。
	DrawMultilineText(text string, cell Cell)
	// DrawRule 在当前光标高度画一条横跨可打印宽度的分隔线。
	DrawRule()
	// DrawBulletGlyph 在 (x, y) 画一个实心小圆点。
	DrawBulletGlyph(x, y float64)

	// SelectFont 选择字体，size 单位为 pt。字体未注册时返回 ErrFontUnavailable。
	SelectFont(name string, size float64, style Style) error
	// RegisterFont 注册字体及其样式变体；重复注册同名字体不产生副作用。
	RegisterFont(name string, variants FontVariants) error

	Err() error
}

// Align 为单元格内的水平对齐方式，取值与 fpdf 一致。
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Advance 决定绘制单元格后光标的去向。
type Advance int

const (
	// AdvanceNextLine 光标回到左边距并下移一个单元格高度。
	AdvanceNextLine Advance = iota
	// AdvanceRight 光标移到单元格右侧，纵向不变。
	AdvanceRight
	// AdvanceBelow 光标横向不变，下移一个单元格高度。
	AdvanceBelow
)

// Cell 描述一次文本绘制的约定。Width 为 0 时延伸到右边距；
// 多行文本中 Height 为每行行高。
type Cell struct {
	Width   float64
	Height  float64
	Style   Style
	Align   Align
	Advance Advance
	Markup  bool
}

// Style 使用 fpdf 的样式字母：B 粗体、I 斜体、U 下划线。
type Style string

const StyleRegular Style = ""

// MakeStyle 按固定顺序 (B, I, U) 组合样式。
func MakeStyle(bold, italic, underline bool) Style {
	var b strings.Builder
	if bold {
		b.WriteByte('B')
	}
	if italic {
		b.WriteByte('I')
	}
	if underline {
		b.WriteByte('U')
	}
	return Style(b.String())
}

func (s Style) Bold() bool      { return strings.ContainsAny(string(s), "Bb") }
func (s Style) Italic() bool    { return strings.ContainsAny(string(s), "Ii") }
func (s Style) Underline() bool { return strings.ContainsAny(string(s), "Uu") }

// Merge 返回两种样式的并集。
func (s Style) Merge(o Style) Style {
	return MakeStyle(s.Bold() || o.Bold(), s.Italic() || o.Italic(), s.Underline() || o.Underline())
}

// Variant 返回字体文件层面的变体（去掉下划线）："", "B", "I", "BI"。
func (s Style) Variant() Style {
	return MakeStyle(s.Bold(), s.Italic(), false)
}

// FontVariants 把字体变体映射到字体来源（文件路径或 embed:* 名称）。
type FontVariants map[Style]string

// Validate 检查变体集合至少包含常规体。
func (v FontVariants) Validate(name string) error {
	if len(v) == 0 {
		return fmt.Errorf("字体 %s 没有可用的变体", name)
	}
	if v[StyleRegular] == "" {
		return fmt.Errorf("字体 %s 缺少常规体", name)
	}
	return nil
}

// FontKey 生成字体资源在 ResourceSet 中的键。
func FontKey(name string, style Style) string {
	v := style.Variant()
	if v == StyleRegular {
		return name
	}
	return name + ":" + string(v)
}
