package fpdfrenderer

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/ByLCY/vita/cv"
	"github.com/ByLCY/vita/fonts"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/resume"
)

func newSurface(t *testing.T) *Surface {
	t.Helper()
	s, err := New(layout.Options{Width: 210, Height: 297, Margin: layout.DefaultMargin})
	if err != nil {
		t.Fatalf("创建 fpdf Surface 失败: %v", err)
	}
	return s
}

func plainText(t *testing.T, data []byte) (string, int) {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("读取 PDF 失败: %v", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		t.Fatalf("提取文本失败: %v", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		t.Fatalf("读取文本失败: %v", err)
	}
	return buf.String(), r.NumPage()
}

func TestRenderResumeReadBack(t *testing.T) {
	statement := "Delivering **anything** anywhere."
	rec := &resume.Record{
		PersonalDetails: &resume.PersonalDetails{
			Name:            "philip fry",
			CurrentPosition: "Delivery Boy",
			Email:           "fry@planetexpress.com",
			WebSites:        []resume.WebSite{{Name: "planetexpress", Link: "https://planetexpress.com"}},
		},
		PersonalStatement: &statement,
		Skills:            []resume.SkillGroup{{Name: "Piloting", List: []string{"ships", "cars", "tanks"}}},
	}
	s := newSurface(t)
	out, err := cv.Render(rec, s, cv.Options{Font: "Helvetica", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if out.ArtifactName() != "Philip Fry.pdf" {
		t.Fatalf("文件名错误: %q", out.ArtifactName())
	}
	data, err := s.Finish(layout.DocumentMeta{Title: "Philip Fry", Creator: "vita"})
	if err != nil {
		t.Fatalf("输出失败: %v", err)
	}
	text, pages := plainText(t, data)
	if pages != 1 {
		t.Fatalf("期望 1 页，实际 %d", pages)
	}
	compact := strings.Join(strings.Fields(text), "")
	for _, want := range []string{"PHILIPFRY", "SKILLS", "Piloting", "tanks"} {
		if !strings.Contains(compact, want) {
			t.Fatalf("PDF 文本缺少 %q: %q", want, compact)
		}
	}
}

func TestSelectFontRequiresRegistration(t *testing.T) {
	s := newSurface(t)
	err := s.SelectFont("Go", 11, layout.StyleRegular)
	if !errors.Is(err, layout.ErrFontUnavailable) {
		t.Fatalf("期望 ErrFontUnavailable，实际 %v", err)
	}
	if s.Err() != nil {
		t.Fatalf("字体不可用不应污染文档错误状态: %v", s.Err())
	}
	variants, err := fonts.Variants("Go")
	if err != nil {
		t.Fatalf("获取字体失败: %v", err)
	}
	if err := s.RegisterFont("Go", variants); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if err := s.RegisterFont("Go", variants); err != nil {
		t.Fatalf("重复注册应无副作用: %v", err)
	}
	if err := s.SelectFont("Go", 11, "BI"); err != nil {
		t.Fatalf("注册后选择字体失败: %v", err)
	}
	s.DrawMultilineText("**Grüße** aus __New New York__", layout.Cell{Height: 5, Markup: true})
	data, err := s.Finish(layout.DocumentMeta{})
	if err != nil {
		t.Fatalf("输出失败: %v", err)
	}
	if _, pages := plainText(t, data); pages != 1 {
		t.Fatalf("期望 1 页，实际 %d", pages)
	}
}

func TestCursorAdvance(t *testing.T) {
	s := newSurface(t)
	if err := s.SelectFont("Helvetica", 11, layout.StyleRegular); err != nil {
		t.Fatalf("选择核心字体失败: %v", err)
	}
	s.DrawTextCell("abc", layout.Cell{Width: 50, Height: 6, Advance: layout.AdvanceRight})
	if x, y := s.Cursor(); x != 60 || y != 10 {
		t.Fatalf("AdvanceRight 后光标应为 (60,10)，实际 (%g,%g)", x, y)
	}
	s.DrawTextCell("abc", layout.Cell{Width: 50, Height: 6})
	if x, y := s.Cursor(); x != 10 || y != 16 {
		t.Fatalf("AdvanceNextLine 后光标应为 (10,16)，实际 (%g,%g)", x, y)
	}
	s.DrawMultilineText("one\ntwo", layout.Cell{Height: 5, Advance: layout.AdvanceBelow})
	if _, y := s.Cursor(); y != 26 {
		t.Fatalf("两行后 y 应为 26，实际 %g", y)
	}
}

func TestAutoPageBreak(t *testing.T) {
	s := newSurface(t)
	if err := s.SelectFont("Helvetica", 11, layout.StyleRegular); err != nil {
		t.Fatalf("选择核心字体失败: %v", err)
	}
	s.SetCursor(10, 270)
	s.DrawMultilineText("one\ntwo\nthree", layout.Cell{Width: 100, Height: 5})
	if s.PageCount() != 2 {
		t.Fatalf("越过下边距应续到第 2 页，实际 %d 页", s.PageCount())
	}
	if s.WouldOverflow(200) {
		t.Fatalf("新页顶部附近不应判定溢出 200mm")
	}
	s.BreakPage()
	if x, y := s.Cursor(); x != 10 || y != 10 || s.PageCount() != 3 {
		t.Fatalf("BreakPage 后光标应在左上边距: (%g,%g) 页数 %d", x, y, s.PageCount())
	}
}

func TestSetPageDrawsOnEarlierPage(t *testing.T) {
	s := newSurface(t)
	if err := s.SelectFont("Helvetica", 11, layout.StyleRegular); err != nil {
		t.Fatalf("选择核心字体失败: %v", err)
	}
	s.DrawTextCell("alpha", layout.Cell{Width: 50, Height: 6})
	s.BreakPage()
	s.DrawTextCell("beta", layout.Cell{Width: 50, Height: 6})
	if s.PageNo() != 2 {
		t.Fatalf("期望位于第 2 页，实际 %d", s.PageNo())
	}
	s.SetPage(1)
	s.SetCursor(10, 100)
	s.DrawTextCell("gamma", layout.Cell{Width: 50, Height: 6})
	s.BreakPage()
	if s.PageNo() != 2 || s.PageCount() != 2 {
		t.Fatalf("BreakPage 应前进到已有的第 2 页: %d/%d", s.PageNo(), s.PageCount())
	}
	if x, y := s.Cursor(); x != 10 || y != 10 {
		t.Fatalf("前进后光标应在左上边距，实际 (%g,%g)", x, y)
	}

	data, err := s.Finish(layout.DocumentMeta{})
	if err != nil {
		t.Fatalf("输出失败: %v", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("读取 PDF 失败: %v", err)
	}
	if r.NumPage() != 2 {
		t.Fatalf("期望 2 页，实际 %d", r.NumPage())
	}
	first, err := r.Page(1).GetPlainText(nil)
	if err != nil {
		t.Fatalf("提取第 1 页文本失败: %v", err)
	}
	if !strings.Contains(first, "alpha") || !strings.Contains(first, "gamma") || strings.Contains(first, "beta") {
		t.Fatalf("第 1 页文本不符: %q", first)
	}
}

func TestSetPageOutOfRange(t *testing.T) {
	s := newSurface(t)
	s.SetPage(2)
	if s.Err() == nil {
		t.Fatalf("越界页码应记录错误")
	}
}

func TestDrawWithoutFontFails(t *testing.T) {
	s := newSurface(t)
	s.DrawTextCell("x", layout.Cell{Height: 5})
	if s.Err() == nil {
		t.Fatalf("未选择字体时绘制应记录错误")
	}
	if _, err := s.Finish(layout.DocumentMeta{}); err == nil {
		t.Fatalf("存在错误时 Finish 应失败")
	}
}
