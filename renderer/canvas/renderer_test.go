package canvasrenderer

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/vita/fonts"
	"github.com/ByLCY/vita/layout"
)

func goFont() layout.FontResource {
	return layout.FontResource{Name: "Go", Src: "embed:Go", Family: "Go"}
}

func newBackend(t *testing.T, r *Renderer) *Backend {
	t.Helper()
	b, err := NewBackend(layout.Options{Width: 210, Height: 297, Margin: layout.DefaultMargin}, r)
	if err != nil {
		t.Fatalf("创建后端失败: %v", err)
	}
	variants, err := fonts.Variants("Go")
	if err != nil {
		t.Fatalf("获取字体失败: %v", err)
	}
	s := b.Surface()
	if err := s.RegisterFont("Go", variants); err != nil {
		t.Fatalf("注册字体失败: %v", err)
	}
	if err := s.SelectFont("Go", 12, layout.StyleRegular); err != nil {
		t.Fatalf("选择字体失败: %v", err)
	}
	return b
}

func TestTextWidthGrowsWithContent(t *testing.T) {
	r := NewRenderer("")
	size := 12 * layout.PtToMm
	short, err := r.TextWidth("hello", goFont(), size)
	if err != nil {
		t.Fatalf("测量失败: %v", err)
	}
	long, err := r.TextWidth("hello world", goFont(), size)
	if err != nil {
		t.Fatalf("测量失败: %v", err)
	}
	if short <= 0 || long <= short {
		t.Fatalf("宽度应随内容增长: %g vs %g", short, long)
	}
	double, _ := r.TextWidth("hello", goFont(), 2*size)
	if double <= short {
		t.Fatalf("字号加倍后宽度应变大: %g vs %g", double, short)
	}
}

func TestTextWidthFallsBackForMissingFont(t *testing.T) {
	r := NewRenderer("")
	w, err := r.TextWidth("hello", layout.FontResource{Name: "Missing", Src: "/nonexistent/font.ttf"}, 4)
	if err != nil {
		t.Fatalf("加载失败时应回退到内置字体: %v", err)
	}
	if w <= 0 {
		t.Fatalf("回退字体宽度应为正数: %g", w)
	}
}

func TestSurfaceWrapsWithCanvasMetrics(t *testing.T) {
	b := newBackend(t, nil)
	b.Surface().DrawMultilineText("hello world again", layout.Cell{Width: 10, Height: 5})
	tb := b.Result(layout.DocumentMeta{}).Pages[0].Texts[0]
	if len(tb.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(tb.Lines))
	}
}

// TestWrapWidthLimit 验证每行宽度不超过限制（mm）。
func TestWrapWidthLimit(t *testing.T) {
	b := newBackend(t, nil)
	limit := 30.0
	b.Surface().DrawMultilineText("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", layout.Cell{Width: limit, Height: 5})
	tb := b.Result(layout.DocumentMeta{}).Pages[0].Texts[0]
	if len(tb.Lines) < 2 {
		t.Fatalf("expected the long word to be split, got %d lines", len(tb.Lines))
	}
	for i, ln := range tb.Lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer("")
	b := newBackend(t, r)
	first := "SAMPLE-A"
	limit, err := r.TextWidth(first, goFont(), 12*layout.PtToMm)
	if err != nil || limit <= 0 {
		t.Fatalf("invalid measured width: %g (%v)", limit, err)
	}
	b.Surface().DrawMultilineText(first+"\n"+"SAMPLE-B", layout.Cell{Width: limit, Height: 5})
	lines := b.Result(layout.DocumentMeta{}).Pages[0].Texts[0].Lines
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Content != first || lines[1].Content != "SAMPLE-B" {
		t.Fatalf("line mismatch: %q / %q", lines[0].Content, lines[1].Content)
	}
}

func TestFinishProducesPDF(t *testing.T) {
	b := newBackend(t, nil)
	s := b.Surface()
	s.DrawTextCell("**Bold** and [link](https://example.com)", layout.Cell{Height: 6, Markup: true})
	s.DrawRule()
	s.DrawBulletGlyph(15, 30)
	s.BreakPage()
	s.DrawMultilineText("__second page__", layout.Cell{Height: 6, Markup: true})
	data, err := b.Finish(layout.DocumentMeta{Title: "Test", Creator: "vita"})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil 结果应报错")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("没有页面时应报错")
	}
}

func TestFontCacheLoadsVariantsPerFamily(t *testing.T) {
	c := newFontCache("")
	regular := goFont()
	bold := layout.FontResource{Name: "Go:B", Src: "embed:Go:B", Style: "B", Family: "Go"}
	for _, res := range []layout.FontResource{regular, bold, bold} {
		if _, err := c.face(res, 11, color.Black); err != nil {
			t.Fatalf("加载 %s 失败: %v", res.Name, err)
		}
	}
	lf := c.families["Go"]
	if lf == nil || len(lf.loaded) != 2 || !lf.loaded[canvas.FontBold] {
		t.Fatalf("Go 字体族应加载常规与粗体两个变体: %+v", lf)
	}

	missing := layout.FontResource{Name: "Missing", Src: "/nonexistent/font.ttf"}
	if _, err := c.face(missing, 11, color.Black); err != nil {
		t.Fatalf("应回退到内置字体: %v", err)
	}
	if c.families["Missing"].failed[canvas.FontRegular] == nil {
		t.Fatalf("加载失败应被记录，避免重复读取")
	}
}

func TestPickFont(t *testing.T) {
	registered := map[string]layout.FontResource{"Go": goFont()}
	if got := pickFont("Go", "BI", registered); got != goFont() {
		t.Fatalf("缺少粗斜体时应退回常规体，实际 %+v", got)
	}
	if got := pickFont("Other", layout.StyleRegular, registered); got.Src != "" || got.Family != "Other" {
		t.Fatalf("未注册字体应交给内置回退，实际 %+v", got)
	}
}
