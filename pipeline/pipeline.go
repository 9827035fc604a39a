// Package pipeline 串联简历记录、绘制后端与 PDF 输出，供命令行与 HTTP 服务共用。
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/ByLCY/vita/config"
	"github.com/ByLCY/vita/cv"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/renderer"
	canvasrenderer "github.com/ByLCY/vita/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/vita/renderer/fpdf"
	"github.com/ByLCY/vita/resume"
)

const creator = "vita"

// Options 选择后端与排版参数。Page 为零值时使用 A4 与默认边距。
type Options struct {
	Backend         string
	Font            string
	Page            layout.Options
	ContactTemplate string
	// FontDir 用于解析 canvas 后端中相对路径的字体文件。
	FontDir string
	Logger  *slog.Logger
}

// Document 是一次渲染的产物。Result 仅在后端能给出中间布局结果时非空。
type Document struct {
	Name    string
	PDF     []byte
	Result  *layout.Result
	Outcome *cv.Outcome
}

// Run 渲染 rec 并返回内存中的 PDF。写盘由调用方决定，写入失败不影响返回的结果。
func Run(rec *resume.Record, opts Options) (*Document, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	page, err := pageOptions(opts.Page)
	if err != nil {
		return nil, err
	}
	backend, err := newBackend(opts.Backend, page, opts.FontDir)
	if err != nil {
		return nil, err
	}

	out, err := cv.Render(rec, backend.Surface(), cv.Options{
		Font:            opts.Font,
		ContactTemplate: opts.ContactTemplate,
		Logger:          opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	meta := layout.DocumentMeta{
		Title:   out.Name,
		Author:  out.Name,
		Subject: "CV",
		Creator: creator,
	}
	doc := &Document{Name: out.ArtifactName(), Outcome: out}
	if rp, ok := backend.(renderer.ResultProvider); ok {
		doc.Result = rp.Result(meta)
	}
	if doc.PDF, err = backend.Finish(meta); err != nil {
		return nil, fmt.Errorf("pipeline: 输出 PDF 失败: %w", err)
	}
	opts.Logger.Info("简历已渲染",
		"name", doc.Name,
		"backend", opts.Backend,
		"rendered", out.Rendered,
		"skipped", out.Skipped,
		"bytes", len(doc.PDF),
	)
	return doc, nil
}

func pageOptions(page layout.Options) (layout.Options, error) {
	if page.Width == 0 && page.Height == 0 {
		w, h, err := layout.PageSize("A4", false)
		if err != nil {
			return page, err
		}
		page.Width, page.Height = w, h
	}
	if page.Margin == (layout.Margin{}) {
		page.Margin = layout.DefaultMargin
	}
	return page, nil
}

func newBackend(name string, page layout.Options, fontDir string) (renderer.Backend, error) {
	switch name {
	case "", config.BackendCanvas:
		return canvasrenderer.NewBackend(page, canvasrenderer.NewRenderer(fontDir))
	case config.BackendFPDF:
		return fpdfrenderer.New(page)
	default:
		return nil, fmt.Errorf("pipeline: 未知后端 %q", name)
	}
}
