package layout

import (
	"fmt"
	"strings"
)

var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// DefaultMargin 与 fpdf 默认值一致：左/上/右 10mm，底部分页边距 20mm。
var DefaultMargin = Margin{Top: 10, Right: 10, Bottom: 20, Left: 10}

// PageSize 返回纸张宽高（mm）。
func PageSize(name string, landscape bool) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	width, height := base[0], base[1]
	if landscape {
		width, height = height, width
	}
	return width, height, nil
}

// ParseMargin 按 CSS 语义解析 1~4 个长度值：
// 1 个值四边相同；2 个值为 上下/左右；3 个值为 上/左右/下；4 个值为 上/右/下/左。
func ParseMargin(value string) (Margin, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("边距需要 1~4 个长度值：%q", value)
	}
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		l, err := ParseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("无法解析边距 %q: %w", f, err)
		}
		vals = append(vals, l.ToMM())
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return Margin{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	default:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
}
