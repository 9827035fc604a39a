package canvasrenderer

import (
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/renderer"
)

// Backend 组合 layout.PageSurface 与 canvas 渲染器：绘制调用先收集为布局结果，Finish 时输出 PDF。
type Backend struct {
	surface  *layout.PageSurface
	renderer *Renderer
}

var (
	_ renderer.Backend        = (*Backend)(nil)
	_ renderer.ResultProvider = (*Backend)(nil)
)

// NewBackend 以 opts 描述的纸张创建后端；opts.Typesetter 会被替换为 canvas 渲染器。
func NewBackend(opts layout.Options, r *Renderer) (*Backend, error) {
	if r == nil {
		r = NewRenderer("")
	}
	opts.Typesetter = r
	surface, err := layout.NewPageSurface(opts)
	if err != nil {
		return nil, err
	}
	return &Backend{surface: surface, renderer: r}, nil
}

func (b *Backend) Surface() layout.Surface { return b.surface }

func (b *Backend) Result(meta layout.DocumentMeta) *layout.Result {
	return b.surface.Result(meta)
}

func (b *Backend) Finish(meta layout.DocumentMeta) ([]byte, error) {
	if err := b.surface.Err(); err != nil {
		return nil, err
	}
	return b.renderer.Render(b.surface.Result(meta))
}
