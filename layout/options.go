package layout

// Options 配置 PageSurface 的纸张、边距与排版后端。
type Options struct {
	Width      float64 // mm
	Height     float64 // mm
	Margin     Margin
	Typesetter Typesetter
	// DisableAutoPageBreak 关闭逐行自动分页，仅依赖调用方的 BreakPage。
	DisableAutoPageBreak bool
}

// Typesetter 负责测量文本宽度。fontSize 与返回值单位均为 mm。
type Typesetter interface {
	TextWidth(content string, font FontResource, fontSize float64) (float64, error)
}
