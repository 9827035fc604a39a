package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer 用 tdewolff/canvas 把 layout.Result 输出为 PDF，同时为 PageSurface 提供文本测量。
type Renderer struct {
	fonts *fontCache
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer 创建渲染器；baseDir 用于解析相对路径的字体文件。
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{fonts: newFontCache(baseDir)}
}

// TextWidth 实现 layout.Typesetter。fontSize 与返回值均为 mm。
func (r *Renderer) TextWidth(content string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.fonts.face(font, toPt(fontSize), color.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(content), nil
}

// Render 逐页绘制并写出 PDF。每页先画分隔线与项目符号，再画文本。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, first.Width, first.Height, nil)
	meta := result.Meta
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)

	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		p := &painter{ctx: canvas.NewContext(c), fonts: r.fonts, registered: result.Resources.Fonts}
		// 布局坐标以左上角为原点
		p.ctx.SetCoordSystem(canvas.CartesianIV)
		if err := p.paint(page); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// painter 在单页画布上绘制布局元素。
type painter struct {
	ctx        *canvas.Context
	fonts      *fontCache
	registered map[string]layout.FontResource
}

func (p *painter) paint(page layout.Page) error {
	for _, ln := range page.Lines {
		p.rule(ln)
	}
	for _, c := range page.Circles {
		p.glyph(c)
	}
	for _, tb := range page.Texts {
		if err := p.text(tb); err != nil {
			return err
		}
	}
	return nil
}

func (p *painter) rule(ln layout.Line) {
	p.ctx.SetStrokeColor(rgb(ln.Color))
	p.ctx.SetStrokeWidth(strokeWidth(ln.Width))
	p.ctx.DrawPath(ln.X1, ln.Y1, segment(ln.X2-ln.X1, ln.Y2-ln.Y1))
}

func (p *painter) glyph(c layout.Circle) {
	fill := color.Color(color.Transparent)
	if c.FillColor != nil {
		fill = rgb(*c.FillColor)
	}
	p.ctx.SetFillColor(fill)
	p.ctx.SetStrokeColor(rgb(c.StrokeColor))
	p.ctx.SetStrokeWidth(strokeWidth(c.StrokeWidth))
	p.ctx.DrawPath(c.CX, c.CY, canvas.Circle(c.R))
}

// text 按 span 绘制文本框；基线位于行高中线下方 0.3 个字号处，与 fpdf 的单元格一致。
func (p *painter) text(tb layout.TextBox) error {
	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Spans: []layout.Span{{Text: tb.Content}}}}
	}
	sizePt := toPt(tb.FontSize)
	col := rgb(tb.Color)
	y := tb.Y
	for _, line := range lines {
		h := line.Height
		if h <= 0 {
			h = tb.LineHeight
		}
		baseline := y + h/2 + 0.3*tb.FontSize
		for _, sp := range line.Spans {
			if sp.Text == "" {
				continue
			}
			face, err := p.fonts.face(pickFont(tb.Font, sp.Style, p.registered), sizePt, col)
			if err != nil {
				return err
			}
			x := tb.X + sp.X
			p.ctx.DrawText(x, baseline, canvas.NewTextLine(face, sp.Text, canvas.Left))
			if sp.Style.Underline() {
				p.ctx.SetStrokeColor(col)
				p.ctx.SetStrokeWidth(tb.FontSize * 0.05)
				p.ctx.DrawPath(x, baseline+0.1*tb.FontSize, segment(sp.Width, 0))
			}
		}
		y += h
	}
	return nil
}

func segment(dx, dy float64) *canvas.Path {
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo(dx, dy)
	return path
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return defaultStrokeWidth
	}
	return w
}

func rgb(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
