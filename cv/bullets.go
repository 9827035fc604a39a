package cv

import (
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/normalize"
)

// renderBulletList 从 (x, y) 开始逐条绘制项目符号列表，返回列表底部的 y（位于返回时的当前页）。
// 圆点画在 x 处、文字基线略下方，文字缩进 BulletIndent。
// 条目首行放不下时先换页，圆点与文字留在同一页。
func renderBulletList(s layout.Surface, x, y float64, items []string, cell layout.Cell) float64 {
	end := y
	s.SetCursor(x+BulletIndent, y)
	for _, item := range items {
		_, cy := s.Cursor()
		if s.WouldOverflow(cell.Height) && cy > s.TopMargin() {
			s.BreakPage()
			cy = s.TopMargin()
		}
		s.DrawBulletGlyph(x, cy+GlyphDrop)
		s.SetCursor(x+BulletIndent, cy)
		s.DrawMultilineText(normalize.Whitespace(item), cell)
		_, end = s.Cursor()
	}
	return end
}
