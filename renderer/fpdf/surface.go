// Package fpdfrenderer 直接在 fpdf 文档上实现 layout.Surface，适合不需要中间布局结果的场景。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/vita/fonts"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/markup"
	"github.com/ByLCY/vita/renderer"
)

const ruleWidth = 0.1

// fpdf 内置、无需注册即可使用的核心字体。
var coreFonts = map[string]bool{
	"courier":      true,
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

// Surface 把绘制调用直接写入 fpdf 文档。分页由本类型按下边距自行处理，fpdf 自带的自动分页保持关闭。
type Surface struct {
	pdf       *fpdf.Fpdf
	autoBreak bool

	family   string
	style    layout.Style
	variants map[string]map[layout.Style]bool
	err      error
}

var (
	_ layout.Surface   = (*Surface)(nil)
	_ renderer.Backend = (*Surface)(nil)
)

// New 按 opts 的纸张尺寸与边距创建只有一页的文档。opts.Typesetter 不使用，宽度由 fpdf 自行测量。
func New(opts layout.Options) (*Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("fpdf: 页面尺寸无效 %gx%g", opts.Width, opts.Height)
	}
	m := opts.Margin
	if m.Left+m.Right >= opts.Width || m.Top+m.Bottom >= opts.Height {
		return nil, fmt.Errorf("fpdf: 边距超出页面范围")
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: opts.Width, Ht: opts.Height},
	})
	pdf.SetMargins(m.Left, m.Top, m.Right)
	pdf.SetAutoPageBreak(false, m.Bottom)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(30, 30, 30)
	pdf.AddPage()
	if pdf.Err() {
		return nil, fmt.Errorf("fpdf: 初始化文档失败: %w", pdf.Error())
	}
	return &Surface{
		pdf:       pdf,
		autoBreak: !opts.DisableAutoPageBreak,
		variants:  map[string]map[layout.Style]bool{},
	}, nil
}

func (s *Surface) Surface() layout.Surface { return s }

// Finish 写入元信息并输出 PDF 字节。
func (s *Surface) Finish(meta layout.DocumentMeta) ([]byte, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	s.pdf.SetTitle(meta.Title, true)
	s.pdf.SetAuthor(meta.Author, true)
	s.pdf.SetSubject(meta.Subject, true)
	s.pdf.SetCreator(meta.Creator, true)
	s.pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	var buf bytes.Buffer
	if err := s.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("fpdf: 输出 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Surface) Cursor() (float64, float64) { return s.pdf.GetXY() }
func (s *Surface) SetCursor(x, y float64)       { s.pdf.SetXY(x, y) }

func (s *Surface) PageWidth() float64 {
	w, _ := s.pdf.GetPageSize()
	return w
}

func (s *Surface) PageHeight() float64 {
	_, h := s.pdf.GetPageSize()
	return h
}

func (s *Surface) LeftMargin() float64 {
	left, _, _, _ := s.pdf.GetMargins()
	return left
}

func (s *Surface) RightMargin() float64 {
	_, _, right, _ := s.pdf.GetMargins()
	return right
}

func (s *Surface) TopMargin() float64 {
	_, top, _, _ := s.pdf.GetMargins()
	return top
}

func (s *Surface) bottomLimit() float64 {
	_, _, _, bottom := s.pdf.GetMargins()
	return s.PageHeight() - bottom
}

// PageCount 返回当前页数。
func (s *Surface) PageCount() int { return s.pdf.PageCount() }

func (s *Surface) WouldOverflow(height float64) bool {
	return s.pdf.GetY()+height > s.bottomLimit()
}

// BreakPage 前进到下一页；已是最后一页时由 AddPage 新建，二者都把光标放到左上边距。
func (s *Surface) BreakPage() {
	if next := s.pdf.PageNo() + 1; next <= s.pdf.PageCount() {
		s.SetPage(next)
		s.pdf.SetXY(s.LeftMargin(), s.TopMargin())
		return
	}
	s.pdf.AddPage()
}

func (s *Surface) PageNo() int { return s.pdf.PageNo() }

// SetPage 切回已存在的页面。fpdf 只在字体变化时写入字体指令，切页后需为该页重新写入当前字号。
func (s *Surface) SetPage(n int) {
	if n < 1 || n > s.pdf.PageCount() {
		s.fail(fmt.Errorf("fpdf: 页码 %d 超出范围 [1, %d]", n, s.pdf.PageCount()))
		return
	}
	if n == s.pdf.PageNo() {
		return
	}
	s.pdf.SetPage(n)
	if s.family != "" {
		size, _ := s.pdf.GetFontSize()
		s.pdf.SetFontSize(size)
	}
}

func (s *Surface) Err() error {
	if s.err != nil {
		return s.err
	}
	if s.pdf.Err() {
		return s.pdf.Error()
	}
	return nil
}

// ready 报告能否继续绘制：已有错误或尚未选择字体时返回 false。
func (s *Surface) ready() bool {
	if s.Err() != nil {
		return false
	}
	if s.family == "" {
		s.fail(fmt.Errorf("fpdf: 绘制前未选择字体"))
		return false
	}
	return true
}

func (s *Surface) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// SelectFont 选择字体；既非核心字体又未注册时返回 ErrFontUnavailable，不污染文档错误状态。
func (s *Surface) SelectFont(name string, size float64, style layout.Style) error {
	if _, ok := s.variants[name]; !ok && !coreFonts[strings.ToLower(name)] {
		return fmt.Errorf("%w: %s", layout.ErrFontUnavailable, name)
	}
	if size <= 0 {
		return fmt.Errorf("fpdf: 字号无效 %g", size)
	}
	s.family, s.style = name, style
	s.pdf.SetFont(name, s.fpdfStyle(style), size)
	if s.pdf.Err() {
		err := s.pdf.Error()
		s.pdf.ClearError()
		return fmt.Errorf("%w: %s: %v", layout.ErrFontUnavailable, name, err)
	}
	return nil
}

// RegisterFont 从 fonts.Load 读取各变体并嵌入文档；同名字体只注册一次。
func (s *Surface) RegisterFont(name string, variants layout.FontVariants) error {
	if _, ok := s.variants[name]; ok {
		return nil
	}
	if err := variants.Validate(name); err != nil {
		return err
	}
	loaded := map[layout.Style]bool{}
	for style, src := range variants {
		data, err := fonts.Load(src)
		if err != nil {
			return err
		}
		s.pdf.AddUTF8FontFromBytes(name, string(style.Variant()), data)
		if s.pdf.Err() {
			err := s.pdf.Error()
			s.pdf.ClearError()
			return fmt.Errorf("fpdf: 注册字体 %s 失败: %w", name, err)
		}
		loaded[style.Variant()] = true
	}
	s.variants[name] = loaded
	return nil
}

// fpdfStyle 把样式映射到已注册的字体变体，缺失的粗体/斜体退回常规体，下划线由 fpdf 自行绘制。
func (s *Surface) fpdfStyle(style layout.Style) string {
	v := style.Variant()
	if loaded, ok := s.variants[s.family]; ok && !loaded[v] {
		v = layout.StyleRegular
	}
	if style.Underline() {
		return string(v) + "U"
	}
	return string(v)
}

func (s *Surface) measure(text string, style layout.Style) (float64, error) {
	s.pdf.SetFontStyle(s.fpdfStyle(style))
	w := s.pdf.GetStringWidth(text)
	s.pdf.SetFontStyle(s.fpdfStyle(s.style))
	if s.pdf.Err() {
		return 0, s.pdf.Error()
	}
	return w, nil
}

func (s *Surface) spans(text string, useMarkup bool) ([]markup.Span, error) {
	if useMarkup {
		return markup.Spans(text)
	}
	return markup.Plain(text), nil
}

func (s *Surface) cellWidth(w float64) float64 {
	if w > 0 {
		return w
	}
	return s.PageWidth() - s.RightMargin() - s.pdf.GetX()
}

func (s *Surface) needsAutoBreak(h float64) bool {
	return s.autoBreak && s.WouldOverflow(h) && s.pdf.GetY() > s.TopMargin()
}

func (s *Surface) drawLine(line layout.TextLine, x, y, h float64) {
	for _, sp := range line.Spans {
		if sp.Text == "" {
			continue
		}
		s.pdf.SetFontStyle(s.fpdfStyle(sp.Style))
		s.pdf.SetXY(x+sp.X, y)
		s.pdf.CellFormat(sp.Width, h, sp.Text, "", 0, "L", false, 0, sp.Link)
	}
	s.pdf.SetFontStyle(s.fpdfStyle(s.style))
}

func (s *Surface) DrawTextCell(text string, cell layout.Cell) {
	if !s.ready() {
		return
	}
	spans, err := s.spans(strings.ReplaceAll(text, "\n", " "), cell.Markup)
	if err != nil {
		s.fail(err)
		return
	}
	x, y := s.pdf.GetXY()
	width := s.cellWidth(cell.Width)
	lines, err := layout.WrapSpans(spans, s.style.Merge(cell.Style), 0, s.measure)
	if err != nil {
		s.fail(err)
		return
	}
	if s.needsAutoBreak(cell.Height) {
		s.BreakPage()
		y = s.TopMargin()
	}
	line := lines[0]
	layout.AlignLine(&line, width, cell.Align)
	s.drawLine(line, x, y, cell.Height)

	switch cell.Advance {
	case layout.AdvanceRight:
		s.pdf.SetXY(x+width, y)
	case layout.AdvanceBelow:
		s.pdf.SetXY(x, y+cell.Height)
	default:
		s.pdf.SetXY(s.LeftMargin(), y+cell.Height)
	}
}

func (s *Surface) DrawMultilineText(text string, cell layout.Cell) {
	if !s.ready() {
		return
	}
	spans, err := s.spans(text, cell.Markup)
	if err != nil {
		s.fail(err)
		return
	}
	x0, y0 := s.pdf.GetXY()
	width := s.cellWidth(cell.Width)
	lines, err := layout.WrapSpans(spans, s.style.Merge(cell.Style), width, s.measure)
	if err != nil {
		s.fail(err)
		return
	}
	y := y0
	for _, line := range lines {
		s.pdf.SetXY(x0, y)
		if s.needsAutoBreak(cell.Height) {
			s.BreakPage()
			y = s.TopMargin()
		}
		layout.AlignLine(&line, width, cell.Align)
		s.drawLine(line, x0, y, cell.Height)
		y += cell.Height
	}

	switch cell.Advance {
	case layout.AdvanceRight:
		s.pdf.SetXY(x0+width, y0)
	case layout.AdvanceBelow:
		s.pdf.SetXY(x0, y)
	default:
		s.pdf.SetXY(s.LeftMargin(), y)
	}
}

func (s *Surface) DrawRule() {
	if s.Err() != nil {
		return
	}
	y := s.pdf.GetY()
	s.pdf.SetLineWidth(ruleWidth)
	s.pdf.Line(s.LeftMargin(), y, s.PageWidth()-s.RightMargin(), y)
}

func (s *Surface) DrawBulletGlyph(x, y float64) {
	if s.Err() != nil {
		return
	}
	s.pdf.SetLineWidth(ruleWidth)
	s.pdf.Circle(x, y, layout.GlyphRadius, "DF")
}
