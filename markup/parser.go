package markup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Bold", Pattern: `\*\*`},
		{Name: "Italic", Pattern: `__`},
		{Name: "Link", Pattern: `\[[^\]\n]*\]\([^)\s]*\)`},
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "Text", Pattern: `[^*_\[\r\n]+|[*_\[\r]`},
	})

	textParser = participle.MustBuild[Text](
		participle.Lexer(markupLexer),
	)

	linkPattern = regexp.MustCompile(`^\[([^\]\n]*)\]\(([^)\s]*)\)$`)
)

// Text is the root AST node of a marked-up string.
type Text struct {
	Tokens []*Token `parser:"@@*"`
}

// Token is one lexical element: a style toggle, a link, a line break or plain text.
type Token struct {
	Bold    bool    `parser:"  @Bold"`
	Italic  bool    `parser:"| @Italic"`
	Link    *Link   `parser:"| @@"`
	Newline bool    `parser:"| @Newline"`
	Plain   *string `parser:"| @Text"`
}

// Link wraps a captured link token.
type Link struct {
	Ref LinkRef `parser:"@Link"`
}

// LinkRef captures `[label](url)`.
type LinkRef struct {
	Label string
	URL   string
}

// Capture implements participle.Capture.
func (l *LinkRef) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("link capture requires value")
	}
	m := linkPattern.FindStringSubmatch(values[0])
	if m == nil {
		return fmt.Errorf("malformed link %q", values[0])
	}
	l.Label, l.URL = m[1], m[2]
	return nil
}

// Span 是一段样式一致的文本。Break 为 true 时表示显式换行，Text 为空。
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Link   string
	Break  bool
}

// ParseString 解析标记文本：**粗体**、__斜体__、[文字](链接) 与换行。
func ParseString(input string) (*Text, error) {
	return textParser.ParseString("", input)
}

// Spans 解析并折叠为样式片段。未闭合的标记一直作用到文本末尾。
func Spans(input string) ([]Span, error) {
	if input == "" {
		return nil, nil
	}
	doc, err := ParseString(input)
	if err != nil {
		return nil, fmt.Errorf("markup: 解析失败: %w", err)
	}
	return doc.Spans(), nil
}

// Plain 将不带标记的文本按换行切成片段。
func Plain(input string) []Span {
	var out []Span
	for i, line := range strings.Split(input, "\n") {
		if i > 0 {
			out = append(out, Span{Break: true})
		}
		if line != "" {
			out = append(out, Span{Text: line})
		}
	}
	return out
}

// Spans 按顺序应用样式开关，相邻同样式文本合并为一个片段。
func (t *Text) Spans() []Span {
	var (
		out    []Span
		bold   bool
		italic bool
	)
	push := func(s Span) {
		if n := len(out); n > 0 && !s.Break && !out[n-1].Break &&
			out[n-1].Bold == s.Bold && out[n-1].Italic == s.Italic && out[n-1].Link == s.Link {
			out[n-1].Text += s.Text
			return
		}
		out = append(out, s)
	}
	for _, tok := range t.Tokens {
		switch {
		case tok.Bold:
			bold = !bold
		case tok.Italic:
			italic = !italic
		case tok.Newline:
			out = append(out, Span{Break: true})
		case tok.Link != nil:
			push(Span{Text: tok.Link.Ref.Label, Bold: bold, Italic: italic, Link: tok.Link.Ref.URL})
		case tok.Plain != nil:
			text := strings.TrimSuffix(*tok.Plain, "\r")
			if text != "" {
				push(Span{Text: text, Bold: bold, Italic: italic})
			}
		}
	}
	return out
}

// Strip 返回去除标记后的纯文本。
func Strip(input string) string {
	spans, err := Spans(input)
	if err != nil {
		return input
	}
	var b strings.Builder
	for _, s := range spans {
		if s.Break {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
