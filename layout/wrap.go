package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/ByLCY/vita/markup"
)

// MeasureFunc 返回以 style 绘制 text 的宽度（mm）。
type MeasureFunc func(text string, style Style) (float64, error)

// WrapSpans 使用贪心算法把带样式的片段折成多行：优先在空白处断行，单词超过行宽时在词内拆分。
// base 会与每个片段自身的样式合并；链接片段附加下划线。width<=0 表示不限宽。
// 返回的 Span.X 为相对行首的偏移，尚未计入对齐。
func WrapSpans(spans []markup.Span, base Style, width float64, measure MeasureFunc) ([]TextLine, error) {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var (
		lines []TextLine
		cur   TextLine
	)
	emit := func() {
		trimTrailingSpace(&cur, measure)
		lines = append(lines, cur)
		cur = TextLine{}
	}
	add := func(text string, style Style, link string, w float64) {
		if n := len(cur.Spans); n > 0 && cur.Spans[n-1].Style == style && cur.Spans[n-1].Link == link {
			cur.Spans[n-1].Text += text
			cur.Spans[n-1].Width += w
		} else {
			cur.Spans = append(cur.Spans, Span{Text: text, X: cur.Width, Width: w, Style: style, Link: link})
		}
		cur.Width += w
		cur.Content += text
	}
	place := func(piece string, style Style, link string, w float64) {
		space := isSpaceToken(piece)
		if cur.Width > 0 && cur.Width+w > limit {
			emit()
			if space {
				// 折行处的空白不带到下一行行首
				return
			}
		}
		add(piece, style, link, w)
	}

	for _, sp := range spans {
		if sp.Break {
			emit()
			continue
		}
		style := base.Merge(MakeStyle(sp.Bold, sp.Italic, sp.Link != ""))
		for _, token := range tokenizeContent(sp.Text) {
			w, err := measure(token, style)
			if err != nil {
				return nil, err
			}
			if w <= limit || isSpaceToken(token) {
				place(token, style, sp.Link, w)
				continue
			}
			chunks, err := splitTokenByWidth(token, limit, style, measure)
			if err != nil {
				return nil, err
			}
			for _, chunk := range chunks {
				cw, err := measure(chunk, style)
				if err != nil {
					return nil, err
				}
				place(chunk, style, sp.Link, cw)
			}
		}
	}
	emit()
	return lines, nil
}

// AlignLine 按对齐方式平移行内片段，width 为容器宽度。
func AlignLine(line *TextLine, width float64, align Align) {
	var offset float64
	switch align {
	case AlignRight:
		offset = width - line.Width
	case AlignCenter:
		offset = (width - line.Width) / 2
	}
	if offset <= 0 {
		return
	}
	for i := range line.Spans {
		line.Spans[i].X += offset
	}
}

func trimTrailingSpace(line *TextLine, measure MeasureFunc) {
	for len(line.Spans) > 0 {
		last := &line.Spans[len(line.Spans)-1]
		trimmed := strings.TrimRightFunc(last.Text, unicode.IsSpace)
		if trimmed == last.Text {
			break
		}
		if trimmed == "" {
			line.Width -= last.Width
			line.Spans = line.Spans[:len(line.Spans)-1]
			continue
		}
		if w, err := measure(trimmed, last.Style); err == nil {
			line.Width -= last.Width - w
			last.Width = w
		}
		last.Text = trimmed
		break
	}
	line.Content = strings.TrimRightFunc(line.Content, unicode.IsSpace)
	if line.Width < 0 {
		line.Width = 0
	}
}

func isSpaceToken(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}

// tokenizeContent 把文本切成交替的空白段与非空白段。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}
	for _, r := range s {
		if r == '\r' || r == '\n' {
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, style Style, measure MeasureFunc) ([]string, error) {
	var parts []string
	var runes []rune
	for _, r := range token {
		runes = append(runes, r)
		w, err := measure(string(runes), style)
		if err != nil {
			return nil, err
		}
		if w > limit && len(runes) > 1 {
			parts = append(parts, string(runes[:len(runes)-1]))
			runes = []rune{r}
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts, nil
}
