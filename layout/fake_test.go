package layout

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"
)

// monoFont 是等宽测试字体：每个字符宽 advance*size，高度为 height*size。
type monoFont struct {
	advance float64
	height  float64
}

func (m monoFont) WidthOfTextAtSize(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * m.advance * size
}

func (m monoFont) HeightAtSize(size float64) float64 { return m.height * size }

var testFont = monoFont{advance: 0.5, height: 1}

type fillCall struct {
	X, Y, W, H float64
	Fill       *RGB
}

type textCall struct {
	Text       string
	Font       Font
	Size, X, Y float64
	Color      RGB
}

// fakeCanvas 记录所有绘制调用。
type fakeCanvas struct {
	w, h  float64
	font  Font
	fills []fillCall
	texts []textCall
}

func newFakeCanvas() *fakeCanvas { return &fakeCanvas{font: testFont} }

func (c *fakeCanvas) Width() float64       { return c.w }
func (c *fakeCanvas) Height() float64      { return c.h }
func (c *fakeCanvas) SetSize(w, h float64) { c.w, c.h = w, h }
func (c *fakeCanvas) DefaultFont() Font    { return c.font }

func (c *fakeCanvas) FillRect(x, y, w, h float64, fill *RGB) error {
	c.fills = append(c.fills, fillCall{X: x, Y: y, W: w, H: h, Fill: fill})
	return nil
}

func (c *fakeCanvas) DrawText(text string, font Font, size, x, y float64, color RGB) error {
	c.texts = append(c.texts, textCall{Text: text, Font: font, Size: size, X: x, Y: y, Color: color})
	return nil
}

// fakeContainer 按调用顺序记录事件，EmbedFont 可并发调用。
type fakeContainer struct {
	mu      sync.Mutex
	fonts   map[string]Font
	fail    map[string]error
	events  []string
	meta    DocumentMeta
	pages   []*fakeCanvas
	embeds  int
	noFonts bool
}

var errBadFont = errors.New("字体文件损坏")

func newFakeContainer() *fakeContainer {
	return &fakeContainer{fonts: map[string]Font{}, fail: map[string]error{}}
}

func (c *fakeContainer) EmbedFont(ctx context.Context, src FontSource) (Font, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeds++
	if err, ok := c.fail[src.Src]; ok {
		return nil, err
	}
	if f, ok := c.fonts[src.Src]; ok {
		return f, nil
	}
	return testFont, nil
}

func (c *fakeContainer) SetInfo(meta DocumentMeta) {
	c.meta = meta
	c.events = append(c.events, "info")
}

func (c *fakeContainer) AddScript(name, code string) {
	c.events = append(c.events, "script:"+name)
}

func (c *fakeContainer) AddPage() Canvas {
	page := newFakeCanvas()
	if c.noFonts {
		page.font = nil
	}
	c.pages = append(c.pages, page)
	c.events = append(c.events, "page")
	return page
}

func (c *fakeContainer) Save() ([]byte, error) {
	c.events = append(c.events, "save")
	return []byte("%FAKE"), nil
}

// renderPage 在假画布上渲染单页，返回画布与帧。
func renderPage(p *Page, fonts FontResolution) (*fakeCanvas, *Frame, error) {
	canvas := newFakeCanvas()
	f := DefaultOptions().NewFrame(canvas, fonts)
	return canvas, f, p.Render(f)
}
