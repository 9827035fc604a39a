// Package cv 把简历记录排版到 layout.Surface 上：分节渲染、项目符号列表、分页预估与文档编排。
package cv

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ByLCY/vita/binding"
	"github.com/ByLCY/vita/fonts"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/resume"
)

// FallbackArtifactName 在记录没有姓名时作为输出文件名。
const FallbackArtifactName = "CV.pdf"

// ErrMissingSection 表示记录缺少某个分节；该分节被跳过，其余分节照常渲染。
var ErrMissingSection = errors.New("missing section")

// DefaultContactTemplate 每行一个联系方式，任一字段为空时整行省略。
const DefaultContactTemplate = "**Email:** ${Email}\n**Tel:** ${Telephone}\n**Address:** ${Address}"

// Options 控制字体与联系方式格式。
type Options struct {
	// Font 为正文字体名，默认 fonts.Default。
	Font string
	// FontSource 在字体未注册时提供其变体，默认 fonts.Variants。
	FontSource func(name string) (layout.FontVariants, error)
	// ContactTemplate 使用 ${Field} 引用 PersonalDetails 的字段。
	ContactTemplate string
	Logger          *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Font == "" {
		o.Font = fonts.Default
	}
	if o.FontSource == nil {
		o.FontSource = fonts.Variants
	}
	if o.ContactTemplate == "" {
		o.ContactTemplate = DefaultContactTemplate
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Outcome 汇总一次渲染：绘制了哪些分节、跳过了哪些，以及标题化后的姓名。
type Outcome struct {
	Name     string
	Rendered []string
	Skipped  []string
}

// ArtifactName 返回 "{姓名}.pdf"，没有姓名时返回 FallbackArtifactName。
func (o *Outcome) ArtifactName() string {
	if o == nil || strings.TrimSpace(o.Name) == "" {
		return FallbackArtifactName
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, o.Name)
	return name + ".pdf"
}

type section struct {
	name string
	draw func() error
}

// Render 按固定顺序把各分节绘制到 s 上。缺失的分节记录日志后跳过；
// 其他错误（字体注册失败、分节内数据不完整、绘制错误）直接返回。
func Render(rec *resume.Record, s layout.Surface, opts Options) (*Outcome, error) {
	if rec == nil {
		rec = &resume.Record{}
	}
	r := &renderer{rec: rec, s: s, opts: opts.withDefaults()}
	contact, err := compileContact(r.opts.ContactTemplate)
	if err != nil {
		return nil, fmt.Errorf("cv: 联系方式模板无效: %w", err)
	}
	r.contact = contact
	if err := r.useFont(BodyFontSize, layout.StyleRegular); err != nil {
		return nil, err
	}

	out := &Outcome{}
	sections := []section{
		{"PersonalDetails", r.personalDetails},
		{"PersonalStatement", r.personalStatement},
		{"WorkExperience", r.workExperience},
		{"Education", r.education},
		{"Skills", r.skills},
	}
	for _, sec := range sections {
		err := sec.draw()
		switch {
		case errors.Is(err, ErrMissingSection):
			r.opts.Logger.Info("跳过缺失的分节", "section", sec.name)
			out.Skipped = append(out.Skipped, sec.name)
			continue
		case err != nil:
			return nil, fmt.Errorf("cv: 渲染 %s 失败: %w", sec.name, err)
		}
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("cv: 绘制 %s 失败: %w", sec.name, err)
		}
		out.Rendered = append(out.Rendered, sec.name)
	}
	out.Name = r.name
	return out, nil
}

type renderer struct {
	rec  *resume.Record
	s    layout.Surface
	opts Options

	contact    []*binding.Template
	registered bool
	name       string
}

// useFont 选择正文字体；字体未注册时注册一次后重试。
func (r *renderer) useFont(size float64, style layout.Style) error {
	err := r.s.SelectFont(r.opts.Font, size, style)
	if err == nil || !errors.Is(err, layout.ErrFontUnavailable) || r.registered {
		return err
	}
	variants, err := r.opts.FontSource(r.opts.Font)
	if err != nil {
		return fmt.Errorf("cv: 获取字体 %s 失败: %w", r.opts.Font, err)
	}
	if err := r.s.RegisterFont(r.opts.Font, variants); err != nil {
		return fmt.Errorf("cv: 注册字体 %s 失败: %w", r.opts.Font, err)
	}
	r.registered = true
	r.opts.Logger.Debug("字体未注册，已回退注册", "font", r.opts.Font)
	return r.s.SelectFont(r.opts.Font, size, style)
}

func titleCase(name string) string {
	return cases.Title(language.English).String(name)
}
