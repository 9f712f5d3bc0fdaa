package layout

import (
	"strings"

	"github.com/kjk/flex"
)

// PageSize 以 pt 表示纸张宽高。
type PageSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

var (
	A3     = PageSize{W: 841.8898, H: 1190.5512}
	A4     = PageSize{W: 595.2756, H: 841.8898}
	A5     = PageSize{W: 419.5276, H: 595.2756}
	Letter = PageSize{W: 612, H: 792}
	Legal  = PageSize{W: 612, H: 1008}
)

// LookupPageSize 按名称（不区分大小写）查找预置纸张。
func LookupPageSize(name string) (PageSize, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a3":
		return A3, true
	case "a4":
		return A4, true
	case "a5":
		return A5, true
	case "letter":
		return Letter, true
	case "legal":
		return Legal, true
	}
	return PageSize{}, false
}

// Landscape 返回横向的纸张尺寸。
func (s PageSize) Landscape() PageSize {
	if s.W < s.H {
		return PageSize{W: s.H, H: s.W}
	}
	return s
}

// Page 持有一页的顶层元素，负责整页求解与绘制。
type Page struct {
	size     PageSize
	children []Element
}

// NewPage 创建 A4 纵向页面。
func NewPage() *Page {
	return &Page{size: A4}
}

func (p *Page) W(v float64) *Page        { p.size.W = v; return p }
func (p *Page) H(v float64) *Page        { p.size.H = v; return p }
func (p *Page) Size(s PageSize) *Page    { p.size = s; return p }
func (p *Page) Landscape() *Page         { p.size = p.size.Landscape(); return p }
func (p *Page) Child(e ...Element) *Page { p.children = append(p.children, e...); return p }

// Dimensions 返回页面宽高（pt）。
func (p *Page) Dimensions() PageSize { return p.size }

// Children 返回顶层元素。
func (p *Page) Children() []Element { return p.children }

// Render 在新的根节点下挂入全部顶层元素，整页求解一次后按插入顺序绘制。
// 元素的布局节点只属于一棵布局树，重复渲染同一元素返回 ErrElementReused。
func (p *Page) Render(f *Frame) error {
	if err := nonNegative("page.width", p.size.W); err != nil {
		return err
	}
	if err := nonNegative("page.height", p.size.H); err != nil {
		return err
	}
	f.Canvas.SetSize(p.size.W, p.size.H)

	root := flex.NewNodeWithConfig(f.Flex)
	if err := attachChildren(f, root, p.children); err != nil {
		return err
	}
	if err := solve(root, p.size); err != nil {
		return err
	}
	if f.Logger != nil {
		f.Logger.Debug("页面求解完成", "width", p.size.W, "height", p.size.H, "elements", len(p.children))
	}

	for _, el := range p.children {
		if err := el.Paint(f); err != nil {
			return err
		}
	}
	return nil
}

func solve(root *flex.Node, size PageSize) (err error) {
	defer recoverGeometry(&err)
	flex.CalculateLayout(root, float32(size.W), float32(size.H), flex.DirectionLTR)
	return nil
}
