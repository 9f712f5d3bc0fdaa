package layout

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/kjk/flex"
)

const (
	// DefaultFontSize 是文本未设置字号时使用的大小（pt）。
	DefaultFontSize = 16.0
	// DefaultLineHeight 是行高相对字号的默认倍数。
	DefaultLineHeight = 1.2
)

// Options 配置文档组装阶段的依赖。
type Options struct {
	// PointScaleFactor 传给求解器用于像素取整，0 表示不取整，默认 1。
	PointScaleFactor float64
	Logger           *log.Logger
	// Debug 为 true 时在渲染后保留每页几何信息，供 Document.Snapshot 使用。
	Debug bool
}

// DefaultOptions 返回取整到整 pt、不输出日志的配置。
func DefaultOptions() Options {
	return Options{PointScaleFactor: 1}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

func (o Options) flexConfig() *flex.Config {
	cfg := flex.NewConfig()
	cfg.SetPointScaleFactor(float32(o.PointScaleFactor))
	return cfg
}

// NewFrame 组装单页绘制所需的上下文，主要供测试与自定义渲染流程使用。
func (o Options) NewFrame(canvas Canvas, fonts FontResolution) *Frame {
	return &Frame{
		Canvas: canvas,
		Fonts:  fonts,
		Flex:   o.flexConfig(),
		Logger: o.logger(),
	}
}
