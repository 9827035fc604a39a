package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vita/markup"
)

const (
	// GlyphRadius 为项目符号圆点半径（mm）。
	GlyphRadius = 0.5
	ruleWidth   = 0.1
)

var defaultTextColor = Color{R: 30, G: 30, B: 30}

type pageAccumulator struct {
	texts   []TextBox
	lines   []Line
	circles []Circle
}

type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	accs    []*pageAccumulator
	current int
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	pc := &pageCollector{
		width:  width,
		height: height,
		margin: margin,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

// next 前进到下一页；当前已是最后一页时追加新页。
func (pc *pageCollector) next() *pageAccumulator {
	if pc.current < len(pc.accs)-1 {
		pc.current++
		return pc.accs[pc.current]
	}
	return pc.newPage()
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) contentTop() float64 { return pc.margin.Top }

// contentBottom 为自动分页触发线：页面高度减去下边距。
func (pc *pageCollector) contentBottom() float64 { return pc.height - pc.margin.Bottom }

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:   pc.width,
			Height:  pc.height,
			Margin:  pc.margin,
			Texts:   acc.texts,
			Lines:   acc.lines,
			Circles: acc.circles,
		}
	}
	return out
}

type currentFont struct {
	name  string
	size  float64 // pt
	style Style
}

// PageSurface 是 Surface 的内存实现：把绘制调用收集为逐页的 TextBox/Line/Circle，
// 交由 renderer 输出。
type PageSurface struct {
	collector  *pageCollector
	typesetter Typesetter
	autoBreak  bool

	x, y float64
	font currentFont

	fonts    map[string]FontResource
	families map[string]bool
	err      error
}

var _ Surface = (*PageSurface)(nil)

// NewPageSurface 创建只有一页空白页的 PageSurface，光标位于左上边距。
func NewPageSurface(opts Options) (*PageSurface, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("layout: 页面尺寸无效 %gx%g", opts.Width, opts.Height)
	}
	m := opts.Margin
	if m.Left+m.Right >= opts.Width || m.Top+m.Bottom >= opts.Height {
		return nil, fmt.Errorf("layout: 边距超出页面范围")
	}
	s := &PageSurface{
		collector:  newPageCollector(opts.Width, opts.Height, m),
		typesetter: opts.Typesetter,
		autoBreak:  !opts.DisableAutoPageBreak,
		fonts:      map[string]FontResource{},
		families:   map[string]bool{},
	}
	s.x, s.y = m.Left, m.Top
	return s, nil
}

func (s *PageSurface) Cursor() (float64, float64) { return s.x, s.y }
func (s *PageSurface) SetCursor(x, y float64)       { s.x, s.y = x, y }

func (s *PageSurface) PageWidth() float64   { return s.collector.width }
func (s *PageSurface) PageHeight() float64  { return s.collector.height }
func (s *PageSurface) LeftMargin() float64  { return s.collector.margin.Left }
func (s *PageSurface) RightMargin() float64 { return s.collector.margin.Right }
func (s *PageSurface) TopMargin() float64   { return s.collector.margin.Top }

// PageCount 返回当前已有的页数。
func (s *PageSurface) PageCount() int { return len(s.collector.accs) }

func (s *PageSurface) PageNo() int { return s.collector.current + 1 }

func (s *PageSurface) SetPage(n int) {
	if n < 1 || n > len(s.collector.accs) {
		s.fail(fmt.Errorf("layout: 页码 %d 超出范围 [1, %d]", n, len(s.collector.accs)))
		return
	}
	s.collector.current = n - 1
}

func (s *PageSurface) Err() error { return s.err }

func (s *PageSurface) WouldOverflow(height float64) bool {
	return s.y+height > s.collector.contentBottom()
}

func (s *PageSurface) BreakPage() {
	s.collector.next()
	s.x = s.collector.margin.Left
	s.y = s.collector.contentTop()
}

// SelectFont 切换当前字体；未注册的字体返回 ErrFontUnavailable。
func (s *PageSurface) SelectFont(name string, size float64, style Style) error {
	if !s.families[name] {
		return fmt.Errorf("%w: %s", ErrFontUnavailable, name)
	}
	if size <= 0 {
		return fmt.Errorf("layout: 字号无效 %g", size)
	}
	s.font = currentFont{name: name, size: size, style: style}
	return nil
}

// RegisterFont 记录字体各变体的来源；同名字体已注册时直接返回。
func (s *PageSurface) RegisterFont(name string, variants FontVariants) error {
	if s.families[name] {
		return nil
	}
	if err := variants.Validate(name); err != nil {
		return err
	}
	for style, src := range variants {
		key := FontKey(name, style)
		s.fonts[key] = FontResource{Name: key, Src: src, Style: style.Variant(), Family: name}
	}
	s.families[name] = true
	return nil
}

func (s *PageSurface) DrawTextCell(text string, cell Cell) {
	if !s.ready() {
		return
	}
	width := s.cellWidth(cell.Width)
	style := s.font.style.Merge(cell.Style)
	spans := []markup.Span{{Text: strings.ReplaceAll(text, "\n", " ")}}
	if cell.Markup {
		parsed, err := markup.Spans(strings.ReplaceAll(text, "\n", " "))
		if err != nil {
			s.fail(err)
			return
		}
		spans = parsed
	}
	lines, err := WrapSpans(spans, style, 0, s.measure)
	if err != nil {
		s.fail(err)
		return
	}
	s.autoBreakFor(cell.Height)
	line := lines[0]
	AlignLine(&line, width, cell.Align)
	line.Height = cell.Height
	s.appendText(TextBox{
		Content:    line.Content,
		X:          s.x,
		Y:          s.y,
		Width:      width,
		LineHeight: cell.Height,
		Font:       s.font.name,
		FontSize:   s.font.size * PtToMm,
		Color:      defaultTextColor,
		Lines:      []TextLine{line},
		Height:     cell.Height,
		Align:      cell.Align,
	})
	switch cell.Advance {
	case AdvanceRight:
		s.x += width
	case AdvanceBelow:
		s.y += cell.Height
	default:
		s.x = s.collector.margin.Left
		s.y += cell.Height
	}
}

func (s *PageSurface) DrawMultilineText(text string, cell Cell) {
	if !s.ready() {
		return
	}
	width := s.cellWidth(cell.Width)
	style := s.font.style.Merge(cell.Style)
	spans := markup.Plain(text)
	if cell.Markup {
		parsed, err := markup.Spans(text)
		if err != nil {
			s.fail(err)
			return
		}
		spans = parsed
	}
	lines, err := WrapSpans(spans, style, width, s.measure)
	if err != nil {
		s.fail(err)
		return
	}

	x0, y0 := s.x, s.y
	newBox := func() TextBox {
		return TextBox{
			X:          x0,
			Y:          s.y,
			Width:      width,
			LineHeight: cell.Height,
			Font:       s.font.name,
			FontSize:   s.font.size * PtToMm,
			Color:      defaultTextColor,
			Align:      cell.Align,
		}
	}
	box := newBox()
	flush := func() {
		if len(box.Lines) == 0 {
			return
		}
		contents := make([]string, len(box.Lines))
		for i, ln := range box.Lines {
			contents[i] = ln.Content
		}
		box.Content = strings.Join(contents, "\n")
		s.appendText(box)
	}
	for _, ln := range lines {
		if s.needsAutoBreak(cell.Height) {
			// 估算不足时的兜底：行越过下边距则续到新页，横向位置保持不变
			flush()
			s.BreakPage()
			s.x = x0
			box = newBox()
		}
		AlignLine(&ln, width, cell.Align)
		ln.Height = cell.Height
		box.Lines = append(box.Lines, ln)
		box.Height += cell.Height
		s.y += cell.Height
	}
	flush()

	switch cell.Advance {
	case AdvanceRight:
		s.x, s.y = x0+width, y0
	case AdvanceBelow:
		s.x = x0
	default:
		s.x = s.collector.margin.Left
	}
}

func (s *PageSurface) DrawRule() {
	if s.err != nil {
		return
	}
	m := s.collector.margin
	acc := s.collector.curr()
	acc.lines = append(acc.lines, Line{
		X1:    m.Left,
		Y1:    s.y,
		X2:    s.collector.width - m.Right,
		Y2:    s.y,
		Color: defaultTextColor,
		Width: ruleWidth,
	})
}

func (s *PageSurface) DrawBulletGlyph(x, y float64) {
	if s.err != nil {
		return
	}
	fill := defaultTextColor
	acc := s.collector.curr()
	acc.circles = append(acc.circles, Circle{
		CX:          x,
		CY:          y,
		R:           GlyphRadius,
		StrokeColor: defaultTextColor,
		StrokeWidth: ruleWidth,
		FillColor:   &fill,
	})
}

// Result 返回收集到的全部页面与注册过的字体资源。
func (s *PageSurface) Result(meta DocumentMeta) *Result {
	fonts := make(map[string]FontResource, len(s.fonts))
	for k, v := range s.fonts {
		fonts[k] = v
	}
	return &Result{
		Pages:     s.collector.pages(),
		Resources: ResourceSet{Fonts: fonts},
		Meta:      meta,
	}
}

func (s *PageSurface) ready() bool {
	if s.err != nil {
		return false
	}
	if s.font.name == "" {
		s.fail(fmt.Errorf("layout: 绘制前未选择字体"))
		return false
	}
	return true
}

func (s *PageSurface) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *PageSurface) cellWidth(w float64) float64 {
	if w > 0 {
		return w
	}
	return s.collector.width - s.collector.margin.Right - s.x
}

func (s *PageSurface) needsAutoBreak(h float64) bool {
	return s.autoBreak && s.WouldOverflow(h) && s.y > s.collector.contentTop()
}

func (s *PageSurface) autoBreakFor(h float64) {
	if s.needsAutoBreak(h) {
		x := s.x
		s.BreakPage()
		s.x = x
	}
}

func (s *PageSurface) appendText(tb TextBox) {
	acc := s.collector.curr()
	acc.texts = append(acc.texts, tb)
}

func (s *PageSurface) resolveFont(style Style) FontResource {
	if f, ok := s.fonts[FontKey(s.font.name, style)]; ok {
		return f
	}
	return s.fonts[FontKey(s.font.name, StyleRegular)]
}

func (s *PageSurface) measure(text string, style Style) (float64, error) {
	return s.typesetter.TextWidth(text, s.resolveFont(style), s.font.size*PtToMm)
}
