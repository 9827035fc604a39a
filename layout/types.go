package layout

// 该文件定义布局结果与资源描述，供 PageSurface、渲染器与调试 JSON 共用。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录绘制过程中注册过的字体。键为 FontKey(name, style)。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述一个字体变体，src 可以是文件路径或内置 embed:* 形式。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  Style  `json:"style"`
	Family string `json:"family"` // 渲染器使用的 Family 名称
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素，坐标单位均为 mm。
type Page struct {
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Margin  Margin    `json:"margin"`
	Texts   []TextBox `json:"texts"`
	Lines   []Line    `json:"lines,omitempty"`
	Circles []Circle  `json:"circles,omitempty"`
}

// Margin 以毫米为单位。Bottom 同时是自动分页的触发边距。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的文本块。
// Content 为去除标记后的纯文本，便于调试与测试检索。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"` // mm
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      Align      `json:"align,omitempty"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Spans   []Span  `json:"spans,omitempty"`
}

// Span 是行内样式一致的一段文本，X 为相对 TextBox.X 的偏移（已计入对齐）。
type Span struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	Style Style   `json:"style,omitempty"`
	Link  string  `json:"link,omitempty"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Circle 表示一个圆，CX/CY 为圆心。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"` // mm
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
