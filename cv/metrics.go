package cv

import "github.com/ByLCY/vita/layout"

// 字号单位为 pt，其余长度单位为 mm。
const (
	BodyFontSize         = 11.0
	SectionTitleFontSize = 12.0
	NameFontSize         = 26.0
	PositionFontSize     = 12.0

	ParaMargin   = 6.0
	LineMargin   = 1.5
	BulletMargin = 5.0
	BulletIndent = 3.0
	GlyphDrop    = 1.9
)

var (
	// LineHeight 为正文行高。
	LineHeight = BodyFontSize*layout.PtToMm + LineMargin
	// SectionTitleHeight 为分节标题（及职位行）单元格高度。
	SectionTitleHeight = SectionTitleFontSize*layout.PtToMm + ParaMargin
	nameHeight         = NameFontSize * layout.PtToMm
)

// estimateHeight 是所有分节共用的分页预估：
// 逻辑行数加上 条目数/栏数（向下取整），再乘以正文行高。
// 只统计逻辑字段，不计算折行后的实际行数。
func estimateHeight(lines, bullets, columns int) float64 {
	if columns < 1 {
		columns = 1
	}
	return float64(lines+bullets/columns) * LineHeight
}
