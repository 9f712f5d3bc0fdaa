package canvasrenderer

import (
	"fmt"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/folio/layout"
)

// Page 实现 layout.Canvas。对外坐标为 pt、原点在左下角，绘制到 canvas 时换算为 mm。
type Page struct {
	c    *Container
	w, h float64
	cv   *canvas.Canvas
	ctx  *canvas.Context
}

var _ layout.Canvas = (*Page)(nil)

func newPage(c *Container) *Page {
	p := &Page{c: c}
	p.SetSize(layout.A4.W, layout.A4.H)
	return p
}

func (p *Page) Width() float64  { return p.w }
func (p *Page) Height() float64 { return p.h }

// SetSize 重新创建底层画布，之前绘制的内容会被丢弃。
func (p *Page) SetSize(w, h float64) {
	p.w, p.h = w, h
	p.cv = canvas.New(toMm(w), toMm(h))
	p.ctx = canvas.NewContext(p.cv)
	p.ctx.SetCoordSystem(canvas.CartesianI)
}

func (p *Page) DefaultFont() layout.Font {
	if f := p.c.defaultFace(); f != nil {
		return f
	}
	return nil
}

func (p *Page) FillRect(x, y, w, h float64, fill *layout.RGB) error {
	if fill == nil || w <= 0 || h <= 0 {
		return nil
	}
	p.ctx.SetFillColor(colorFromLayout(*fill))
	p.ctx.SetStrokeColor(canvas.Transparent)
	p.ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(w), toMm(h)))
	return nil
}

func (p *Page) DrawText(text string, font layout.Font, size, x, y float64, col layout.RGB) error {
	f, ok := font.(*Font)
	if !ok {
		return fmt.Errorf("不支持的字体类型 %T", font)
	}
	if text == "" {
		return nil
	}
	face := f.face(size, colorFromLayout(col))
	p.ctx.DrawText(toMm(x), toMm(y), canvas.NewTextLine(face, text, canvas.Left))
	return nil
}
