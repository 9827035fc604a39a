package renderer

import "github.com/ByLCY/vita/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 为一份文档提供绘制表面，绘制完成后由 Finish 输出 PDF。
// 每个 Backend 只能使用一次。
type Backend interface {
	Surface() layout.Surface
	Finish(meta layout.DocumentMeta) ([]byte, error)
}

// ResultProvider 由能给出中间布局结果的 Backend 实现，用于输出调试 JSON。
type ResultProvider interface {
	Result(meta layout.DocumentMeta) *layout.Result
}
