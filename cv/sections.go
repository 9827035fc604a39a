package cv

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vita/binding"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/normalize"
	"github.com/ByLCY/vita/resume"
)

// 教育经历每条占用的逻辑行数：学位、学校、时间、备注。
const educationLines = 4

func clean(text string) string {
	return strings.TrimSpace(normalize.Whitespace(text))
}

func (r *renderer) bodyCell() layout.Cell {
	return layout.Cell{Height: LineHeight, Markup: true, Advance: layout.AdvanceBelow}
}

// breakIfNeeded 在剩余空间不足 height 时换页。光标已在页首时不换，超过一页高的内容交给逐行自动分页。
func (r *renderer) breakIfNeeded(height float64) {
	if r.s.WouldOverflow(height) && r.cursorY() > r.s.TopMargin() {
		r.s.BreakPage()
	}
}

func (r *renderer) sectionTitle(title string) error {
	if err := r.useFont(SectionTitleFontSize, "B"); err != nil {
		return err
	}
	r.s.SetCursor(r.s.LeftMargin(), r.cursorY())
	r.s.DrawTextCell(strings.ToUpper(title), layout.Cell{Height: SectionTitleHeight, Advance: layout.AdvanceNextLine})
	return r.useFont(BodyFontSize, layout.StyleRegular)
}

// closeSection 留出半个段距后画分隔线。
func (r *renderer) closeSection() {
	r.s.SetCursor(r.s.LeftMargin(), r.cursorY()+ParaMargin/2)
	r.s.DrawRule()
}

func (r *renderer) cursorY() float64 {
	_, y := r.s.Cursor()
	return y
}

// columnEnd 记录一栏结束时所在的页码与纵坐标。
type columnEnd struct {
	page int
	y    float64
}

func (e columnEnd) after(o columnEnd) bool {
	return e.page > o.page || (e.page == o.page && e.y > o.y)
}

// columns 从同一页的同一高度 top 起依次绘制各栏，每栏都先切回起始页，
// 前一栏的自动分页不影响后一栏的位置。draw 返回栏尾的 y。
// 结束后停在最靠后的栏尾所在页，光标回到左边距。
func (r *renderer) columns(top float64, draws ...func(top float64) float64) {
	start := r.s.PageNo()
	end := columnEnd{page: start, y: top}
	for _, draw := range draws {
		r.s.SetPage(start)
		y := draw(top)
		if e := (columnEnd{page: r.s.PageNo(), y: y}); e.after(end) {
			end = e
		}
	}
	r.s.SetPage(end.page)
	r.s.SetCursor(r.s.LeftMargin(), end.y)
}

func (r *renderer) personalDetails() error {
	pd := r.rec.PersonalDetails
	if pd == nil {
		return ErrMissingSection
	}
	x0, y0 := r.s.Cursor()
	half := r.s.PageWidth() / 2
	name := clean(pd.Name)

	var fontErr error
	r.columns(y0,
		func(top float64) float64 {
			r.s.SetCursor(x0, top)
			if fontErr = r.useFont(NameFontSize, "B"); fontErr != nil {
				return top
			}
			r.s.DrawTextCell(strings.ToUpper(name), layout.Cell{Width: half, Height: nameHeight, Advance: layout.AdvanceNextLine})
			if fontErr = r.useFont(PositionFontSize, "B"); fontErr != nil {
				return top
			}
			r.s.DrawTextCell(clean(pd.CurrentPosition), layout.Cell{Width: half, Height: SectionTitleHeight, Advance: layout.AdvanceBelow})
			return r.cursorY()
		},
		func(top float64) float64 {
			if fontErr != nil {
				return top
			}
			if fontErr = r.useFont(BodyFontSize, layout.StyleRegular); fontErr != nil {
				return top
			}
			r.s.SetCursor(x0+half, top)
			cell := r.bodyCell()
			cell.Align = layout.AlignRight
			r.s.DrawMultilineText(r.contactBlock(pd), cell)
			return r.cursorY()
		},
	)
	if fontErr != nil {
		return fontErr
	}
	r.name = titleCase(name)
	return nil
}

// contactBlock 按模板逐行生成联系方式，每个网站追加一行 [名称](链接)。
func (r *renderer) contactBlock(pd *resume.PersonalDetails) string {
	data := resume.PersonalDetails{
		Name:            clean(pd.Name),
		CurrentPosition: clean(pd.CurrentPosition),
		Email:           clean(pd.Email),
		Telephone:       clean(pd.Telephone),
		Address:         clean(pd.Address),
	}
	var lines []string
	for _, tpl := range r.contact {
		if filled, ok := tpl.Execute(data); ok {
			lines = append(lines, filled)
		}
	}
	for _, site := range pd.WebSites {
		lines = append(lines, fmt.Sprintf("[%s](%s)", clean(site.Name), strings.TrimSpace(site.Link)))
	}
	return strings.Join(lines, "\n")
}

// compileContact 把联系方式模板按行编译，空行忽略。
func compileContact(text string) ([]*binding.Template, error) {
	var out []*binding.Template
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tpl, err := binding.Compile(line)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, nil
}

func (r *renderer) personalStatement() error {
	if r.rec.PersonalStatement == nil {
		return ErrMissingSection
	}
	summary, bullets := normalize.SplitLegacyDescription(*r.rec.PersonalStatement)
	left := r.s.LeftMargin()
	r.s.SetCursor(left, r.cursorY())
	if text := clean(summary); text != "" {
		r.s.DrawMultilineText(text, r.bodyCell())
	}
	if len(bullets) > 0 {
		end := renderBulletList(r.s, left+BulletMargin, r.cursorY(), bullets, r.bodyCell())
		r.s.SetCursor(left, end)
	}
	r.closeSection()
	return nil
}

func (r *renderer) education() error {
	entries := r.rec.Education
	if len(entries) == 0 {
		return ErrMissingSection
	}
	for i, e := range entries {
		if clean(e.Degree) == "" {
			return fmt.Errorf("%w: 第 %d 条教育经历缺少 Degree", resume.ErrInvalidRecord, i+1)
		}
	}
	rows := (len(entries) + 1) / 2
	r.breakIfNeeded(estimateHeight(rows*educationLines, 0, 1) + SectionTitleHeight)
	if err := r.sectionTitle("Education"); err != nil {
		return err
	}

	left := r.s.LeftMargin()
	mid := r.s.PageWidth() / 2
	// 每两项为一行，左右两栏共用同一起始页与高度
	for i := 0; i < len(entries); i += 2 {
		row := []func(float64) float64{r.educationColumn(entries[i], left, mid-left)}
		if i+1 < len(entries) {
			row = append(row, r.educationColumn(entries[i+1], mid, 0))
		}
		r.columns(r.cursorY(), row...)
	}
	r.closeSection()
	return nil
}

func (r *renderer) educationColumn(e resume.Education, x, width float64) func(float64) float64 {
	return func(top float64) float64 {
		cell := r.bodyCell()
		cell.Width = width
		r.s.SetCursor(x, top)
		r.s.DrawMultilineText(educationText(e), cell)
		return r.cursorY()
	}
}

func educationText(e resume.Education) string {
	lines := []string{"**" + clean(e.Degree) + "**"}
	if v := clean(e.University); v != "" {
		lines = append(lines, v)
	}
	if v := clean(e.Dates); v != "" {
		lines = append(lines, v)
	}
	if v := clean(e.Comments); v != "" {
		lines = append(lines, "__"+v+"__")
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) workExperience() error {
	jobs := r.rec.WorkExperience
	if len(jobs) == 0 {
		return ErrMissingSection
	}
	left := r.s.LeftMargin()
	for i := range jobs {
		job := &jobs[i]
		if clean(job.Title) == "" {
			return fmt.Errorf("%w: 第 %d 条工作经历缺少 Name", resume.ErrInvalidRecord, i+1)
		}
		header := workHeader(job)
		bullets := job.Bullets()

		need := estimateHeight(len(header), len(bullets), 1)
		if i == 0 {
			need += SectionTitleHeight
		}
		r.breakIfNeeded(need)
		if i == 0 {
			if err := r.sectionTitle("Work Experience"); err != nil {
				return err
			}
		}

		r.s.SetCursor(left, r.cursorY())
		r.s.DrawMultilineText(strings.Join(header, "\n"), r.bodyCell())
		end := renderBulletList(r.s, left+BulletMargin, r.cursorY(), bullets, r.bodyCell())
		r.s.SetCursor(left, end+ParaMargin/2)
	}
	r.s.DrawRule()
	return nil
}

// workHeader 返回标题块的各行；空的组织、时间与摘要整行省略。
func workHeader(job *resume.WorkExperience) []string {
	lines := []string{"**" + clean(job.Title) + "**"}
	if v := clean(job.Organisation); v != "" {
		lines = append(lines, "__"+v+"__")
	}
	if v := clean(job.Dates); v != "" {
		lines = append(lines, v)
	}
	if v := clean(job.Summary()); v != "" {
		lines = append(lines, v)
	}
	return lines
}

func (r *renderer) skills() error {
	groups := r.rec.Skills
	if len(groups) == 0 {
		return ErrMissingSection
	}
	total := 0
	for i, g := range groups {
		if clean(g.Name) == "" {
			return fmt.Errorf("%w: 第 %d 个技能分组缺少 Name", resume.ErrInvalidRecord, i+1)
		}
		total += len(g.List)
	}
	r.breakIfNeeded(estimateHeight(len(groups), total, 2) + SectionTitleHeight)
	if err := r.sectionTitle("Skills"); err != nil {
		return err
	}

	left := r.s.LeftMargin()
	mid := r.s.PageWidth() / 2
	leftX, rightX := left+BulletMargin, mid+BulletMargin
	for _, g := range groups {
		r.s.SetCursor(left, r.cursorY())
		r.s.DrawTextCell(clean(g.Name), layout.Cell{Height: LineHeight, Style: "B", Advance: layout.AdvanceNextLine})

		split := (len(g.List) + 1) / 2
		leftCell := r.bodyCell()
		leftCell.Width = mid - (leftX + BulletIndent)
		r.columns(r.cursorY(),
			func(top float64) float64 { return renderBulletList(r.s, leftX, top, g.List[:split], leftCell) },
			func(top float64) float64 { return renderBulletList(r.s, rightX, top, g.List[split:], r.bodyCell()) },
		)
		r.s.SetCursor(left, r.cursorY()+LineMargin)
	}
	return nil
}
