package layout

import "context"

// 该文件定义布局核心与外部协作方之间的边界：画布、字体度量与文档容器。
// 所有坐标与尺寸均以 pt 为单位，画布坐标原点位于页面左下角，Y 轴向上。

// Canvas 是单个页面的绘制面。
type Canvas interface {
	Width() float64
	Height() float64
	SetSize(width, height float64)
	// FillRect 以左下角 (x, y) 填充矩形；fill 为 nil 时不绘制任何内容。
	FillRect(x, y, width, height float64, fill *RGB) error
	// DrawText 在基线 (x, y) 处绘制一行文本。
	DrawText(text string, font Font, size, x, y float64, color RGB) error
	// DefaultFont 返回画布的默认字体，没有时返回 nil。
	DefaultFont() Font
}

// Font 提供字体度量。
type Font interface {
	WidthOfTextAtSize(text string, size float64) float64
	HeightAtSize(size float64) float64
}

// Container 是文档容器，负责字体嵌入、页面集合与最终序列化。
// EmbedFont 会被并发调用，实现需要保证并发安全。
type Container interface {
	EmbedFont(ctx context.Context, src FontSource) (Font, error)
	SetInfo(meta DocumentMeta)
	AddScript(name, code string)
	AddPage() Canvas
	Save() ([]byte, error)
}
