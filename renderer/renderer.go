package renderer

import (
	"context"

	"github.com/ByLCY/folio/layout"
)

// Renderer 将文档输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(ctx context.Context, doc *layout.Document) ([]byte, error)
}
