package resume

import "github.com/ByLCY/vita/normalize"

// Description 是工作经历描述的两种形态：
// Combined 为旧格式的单个字符串（以 <*> 分隔条目），Structured 为摘要加显式条目列表。
// Parse 之后的记录只包含 Structured 形态。
type Description struct {
	structured bool
	text       string
	summary    string
	bullets    []string
}

// Combined 构造旧格式描述。
func Combined(text string) Description {
	return Description{text: text}
}

// Structured 构造摘要加条目的描述。
func Structured(summary string, bullets []string) Description {
	if bullets == nil {
		bullets = []string{}
	}
	return Description{structured: true, summary: summary, bullets: bullets}
}

func (d Description) IsStructured() bool { return d.structured }

// Normalize 把 Combined 拆分为 Structured；已是 Structured 时原样返回。
func (d Description) Normalize() Description {
	if d.structured {
		return d
	}
	return Structured(normalize.SplitLegacyDescription(d.text))
}

func (d Description) Summary() string { return d.Normalize().summary }

func (d Description) Bullets() []string { return d.Normalize().bullets }
