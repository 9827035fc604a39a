package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BulletSentinel 是旧版单字符串描述中标记项目符号起点的保留记号。
const BulletSentinel = "<*>"

// Whitespace 将连续两个及以上的空白字符折叠为一个空格，单个空白（包括换行）保持不变。
// 空白按 unicode.IsSpace 判定，包含 \v、不换行空格与全角空格。多次调用结果相同。
func Whitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	start, run := 0, 0
	flush := func(end int) {
		switch {
		case run >= 2:
			b.WriteByte(' ')
		case run == 1:
			b.WriteString(text[start:end])
		}
		run = 0
	}
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if run == 0 {
				start = i
			}
			run++
		} else {
			flush(i)
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	flush(len(text))
	return b.String()
}

// Lines 对每一行分别做 Whitespace，保留行结构。
func Lines(text string) string {
	parts := strings.Split(text, "\n")
	for i, p := range parts {
		parts[i] = Whitespace(p)
	}
	return strings.Join(parts, "\n")
}

// SplitLegacyDescription 把 "摘要<*> 条目 <*> 条目" 形式的描述拆成摘要与条目列表。
// 不含分隔记号时返回原文与空列表。
func SplitLegacyDescription(text string) (string, []string) {
	idx := strings.Index(text, BulletSentinel)
	if idx == -1 {
		return text, []string{}
	}
	summary := text[:idx]
	items := []string{}
	for _, frag := range strings.Split(text[idx:], BulletSentinel) {
		if frag = strings.TrimSpace(frag); frag != "" {
			items = append(items, frag)
		}
	}
	return summary, items
}
