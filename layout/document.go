package layout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// FontSource 描述字体的来源。Bytes 非空时直接使用，否则按 Src 解析：
// "builtin:<name>"、"system:<family>" 或文件路径。
type FontSource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Bytes []byte `json:"-"`
	Style string `json:"style,omitempty"`
}

// FontRef 是文档内的字体句柄，按指针身份比较，可以作为 map 键。
type FontRef struct {
	id     int
	source FontSource
}

// ID 返回句柄在所属文档内的序号，从 1 开始递增。
func (r *FontRef) ID() int { return r.id }

// Source 返回注册时的字体来源。
func (r *FontRef) Source() FontSource { return r.source }

func (r *FontRef) String() string {
	if r == nil {
		return "<nil>"
	}
	name := r.source.Name
	if name == "" {
		name = r.source.Src
	}
	return fmt.Sprintf("#%d(%s)", r.id, name)
}

// DocumentMeta 是文档元信息。
type DocumentMeta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Script 是文档级脚本。
type Script struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Document 持有页面、字体与元信息，负责组装最终文档。
type Document struct {
	meta    DocumentMeta
	scripts []Script
	pages   []*Page
	fonts   []*FontRef
	debug   bool
}

func NewDocument() *Document { return &Document{} }

func (d *Document) Author(v string) *Document  { d.meta.Author = v; return d }
func (d *Document) Title(v string) *Document   { d.meta.Title = v; return d }
func (d *Document) Subject(v string) *Document { d.meta.Subject = v; return d }
func (d *Document) Creator(v string) *Document { d.meta.Creator = v; return d }
func (d *Document) Keywords(v ...string) *Document {
	d.meta.Keywords = append(d.meta.Keywords, v...)
	return d
}

// Script 追加一段文档级脚本，按追加顺序写入容器。
func (d *Document) Script(name, code string) *Document {
	d.scripts = append(d.scripts, Script{Name: name, Code: code})
	return d
}

func (d *Document) Child(pages ...*Page) *Document {
	d.pages = append(d.pages, pages...)
	return d
}

// Font 注册字体并返回句柄。同一来源注册两次得到两个不同的句柄。
func (d *Document) Font(src FontSource) *FontRef {
	ref := &FontRef{id: len(d.fonts) + 1, source: src}
	d.fonts = append(d.fonts, ref)
	return ref
}

func (d *Document) Meta() DocumentMeta { return d.meta }
func (d *Document) Pages() []*Page     { return d.pages }
func (d *Document) Fonts() []*FontRef  { return d.fonts }
func (d *Document) Scripts() []Script  { return d.scripts }

// Assemble 先并发解析全部字体，再写入元信息与脚本，逐页求解绘制，最后序列化。
// 任一字体解析失败时返回 *FontEmbeddingError，不产生部分结果。
func (d *Document) Assemble(ctx context.Context, c Container, opts Options) ([]byte, error) {
	logger := opts.logger()
	fonts, err := d.embedFonts(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.Debug("字体解析完成", "fonts", len(fonts))

	c.SetInfo(d.meta)
	for _, s := range d.scripts {
		c.AddScript(s.Name, s.Code)
	}

	cfg := opts.flexConfig()
	for i, page := range d.pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := &Frame{Canvas: c.AddPage(), Fonts: fonts, Flex: cfg, Logger: logger}
		if err := page.Render(frame); err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, err)
		}
	}
	d.debug = opts.Debug
	return c.Save()
}

// embedFonts 为每个句柄启动一个任务，任务只写自己的槽位，全部完成后再汇总成映射。
func (d *Document) embedFonts(ctx context.Context, c Container) (FontResolution, error) {
	realized := make([]Font, len(d.fonts))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range d.fonts {
		g.Go(func() error {
			font, err := c.EmbedFont(gctx, ref.source)
			if err != nil {
				return &FontEmbeddingError{Font: ref, Err: err}
			}
			realized[i] = font
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	fonts := make(FontResolution, len(d.fonts))
	for i, ref := range d.fonts {
		fonts[ref] = realized[i]
	}
	return fonts, nil
}
