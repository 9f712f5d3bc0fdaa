package canvasrenderer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// Renderer draws documents via github.com/tdewolff/canvas and writes PDF.
type Renderer struct {
	baseDir  string
	compress bool
	logger   *log.Logger
	layout   layout.Options

	// injected resources
	fontBlobs map[string][]byte // by unique name
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir  string
	Compress bool
	Fonts    map[string]Resource // extra fonts accessible via builtin:<name>
	Logger   *log.Logger
	Layout   layout.Options
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer {
	return NewRendererWithOptions(Options{BaseDir: baseDir, Compress: true, Layout: layout.DefaultOptions()})
}

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	lopts := opts.Layout
	if lopts.Logger == nil {
		lopts.Logger = logger
	}
	r := &Renderer{
		baseDir:   opts.BaseDir,
		compress:  opts.Compress,
		logger:    logger,
		layout:    lopts,
		fontBlobs: map[string][]byte{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				logger.Warn("读取注入字体失败", "name", name, "path", res.Path, "err", err)
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Render assembles the document into a PDF byte slice.
func (r *Renderer) Render(ctx context.Context, doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if len(doc.Pages()) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	return doc.Assemble(ctx, r.NewContainer(), r.layout)
}

// NewContainer 返回一个空的 PDF 文档容器。
func (r *Renderer) NewContainer() *Container {
	return &Container{r: r}
}

// Container 实现 layout.Container，页面内容先绘制到 canvas，Save 时统一写出 PDF。
type Container struct {
	r *Renderer

	meta    layout.DocumentMeta
	scripts []layout.Script
	pages   []*Page

	defaultOnce sync.Once
	defaultFont *Font
}

var _ layout.Container = (*Container)(nil)

// EmbedFont 解析字体来源并加载到独立的字体族，可并发调用。
func (c *Container) EmbedFont(ctx context.Context, src layout.FontSource) (layout.Font, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := c.r.loadFontBytes(src)
	if err != nil {
		return nil, err
	}
	return newFont(src, data)
}

func (c *Container) SetInfo(meta layout.DocumentMeta) { c.meta = meta }

// AddScript 记录文档脚本。PDF 写出器不支持 JavaScript，脚本不会写入文件。
func (c *Container) AddScript(name, code string) {
	c.scripts = append(c.scripts, layout.Script{Name: name, Code: code})
	c.r.logger.Warn("PDF 输出不支持文档脚本，已忽略", "script", name, "bytes", len(code))
}

// Scripts 返回已记录的脚本。
func (c *Container) Scripts() []layout.Script { return c.scripts }

func (c *Container) AddPage() layout.Canvas {
	p := newPage(c)
	c.pages = append(c.pages, p)
	return p
}

// Save 将全部页面写入 PDF。
func (c *Container) Save() ([]byte, error) {
	if len(c.pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	var buf bytes.Buffer
	opts := pdf.DefaultOptions
	opts.Compress = c.r.compress
	first := c.pages[0]
	writer := pdf.New(&buf, toMm(first.w), toMm(first.h), &opts)
	c.applyMeta(writer)
	for i, page := range c.pages {
		if i > 0 {
			writer.NewPage(toMm(page.w), toMm(page.h))
		}
		page.cv.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	c.r.logger.Debug("PDF 写出完成", "pages", len(c.pages), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (c *Container) applyMeta(writer *pdf.PDF) {
	keywords := strings.Join(c.meta.Keywords, ", ")
	writer.SetInfo(c.meta.Title, c.meta.Subject, keywords, c.meta.Author, c.meta.Creator)
}

// defaultFace 懒加载 Go Regular 作为画布默认字体，加载失败时返回 nil。
func (c *Container) defaultFace() *Font {
	c.defaultOnce.Do(func() {
		data, err := fonts.Load(fonts.Default)
		if err != nil {
			c.r.logger.Error("加载默认字体失败", "err", err)
			return
		}
		font, err := newFont(layout.FontSource{Name: fonts.Default, Src: "builtin:" + fonts.Default}, data)
		if err != nil {
			c.r.logger.Error("加载默认字体失败", "err", err)
			return
		}
		c.defaultFont = font
	})
	return c.defaultFont
}
