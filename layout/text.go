package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/folio/linebreak"
	"github.com/kjk/flex"
)

// TextStyle 是文本冻结前的样式。
type TextStyle struct {
	Content string
	Font    *FontRef
	Size    float64
	Leading float64
	Align   Align
	Width   Dimension
	Color   RGB
	Break   linebreak.Rule
}

// Text 是内容固定的文本段，尺寸未指定时由内容决定。
type Text struct {
	phase phase[TextStyle]
}

// NewText 创建字号 16、行高 1.2 倍的黑色文本。
func NewText(content string) *Text {
	return &Text{phase: phase[TextStyle]{spec: TextStyle{
		Content: content,
		Size:    DefaultFontSize,
		Leading: DefaultLineHeight,
		Color:   Black,
	}}}
}

func (t *Text) set(fn func(*TextStyle)) *Text {
	t.phase.update(fn)
	return t
}

// Font 指定文档中注册的字体，未指定时使用画布默认字体。
func (t *Text) Font(ref *FontRef) *Text  { return t.set(func(s *TextStyle) { s.Font = ref }) }
func (t *Text) Size(v float64) *Text     { return t.set(func(s *TextStyle) { s.Size = v }) }
func (t *Text) Leading(v float64) *Text  { return t.set(func(s *TextStyle) { s.Leading = v }) }
func (t *Text) LeadingNone() *Text       { return t.Leading(1) }
func (t *Text) Align(a Align) *Text      { return t.set(func(s *TextStyle) { s.Align = a }) }
func (t *Text) TextLeft() *Text          { return t.Align(AlignLeft) }
func (t *Text) TextCenter() *Text        { return t.Align(AlignCenter) }
func (t *Text) TextRight() *Text         { return t.Align(AlignRight) }
func (t *Text) W(v float64) *Text        { return t.Width(Points(v)) }
func (t *Text) WPercent(p float64) *Text { return t.Width(Percent(p)) }
func (t *Text) WFull() *Text             { return t.WPercent(100) }
func (t *Text) Width(v Dimension) *Text  { return t.set(func(s *TextStyle) { s.Width = v }) }
func (t *Text) Color(hex uint32) *Text   { return t.ColorRGB(Hex(hex)) }
func (t *Text) ColorRGB(c RGB) *Text     { return t.set(func(s *TextStyle) { s.Color = c }) }

// Break 设置折行规则，默认只在空白处折行。
func (t *Text) Break(r linebreak.Rule) *Text { return t.set(func(s *TextStyle) { s.Break = r }) }

func (t *Text) Kind() Kind   { return KindText }
func (t *Text) Frozen() bool { return t.phase.isFrozen() }
func (t *Text) sealed()      {}

// Style 返回生效中的样式。
func (t *Text) Style() TextStyle {
	if t.phase.frozen != nil {
		return *t.phase.frozen
	}
	return t.phase.spec
}

// LayoutNode 冻结样式并构建带测量回调的叶子节点。
// 没有显式字体且画布没有默认字体时返回 *MissingFontError。
func (t *Text) LayoutNode(f *Frame) (*flex.Node, error) {
	if t.phase.node != nil {
		return t.phase.node, nil
	}
	style := t.phase.freeze()
	font := f.Fonts.resolve(style.Font, f.Canvas)
	if font == nil {
		return nil, &MissingFontError{Text: excerpt(style.Content)}
	}
	if err := style.validate(); err != nil {
		return nil, err
	}
	node := flex.NewNodeWithConfig(f.Flex)
	style.Width.applyWidth(node)
	if err := setMeasure(node, style.measure(font)); err != nil {
		return nil, err
	}
	t.phase.node = node
	if f.Logger != nil {
		f.Logger.Debug("构建文本节点", "text", excerpt(style.Content), "size", style.Size)
	}
	return node, nil
}

// measure 返回求解器的测量回调：
// Exactly 按可用宽度折行并报告该宽度；Undefined 不限宽折行并报告最长行；
// 其余模式报告 min(最长行, 可用宽度)。
func (s *TextStyle) measure(font Font) flex.MeasureFunc {
	content, rule, size, factor := s.Content, s.Break, s.Size, s.Leading
	return func(node *flex.Node, width float32, widthMode flex.MeasureMode, height float32, heightMode flex.MeasureMode) flex.Size {
		avail := float64(width)
		wrapAt := avail
		if widthMode == flex.MeasureModeUndefined || math.IsNaN(avail) {
			wrapAt = math.Inf(1)
		}
		lines := wrapText(content, rule, wrapAt, font, size)
		longest := longestLine(lines)

		var w float64
		switch widthMode {
		case flex.MeasureModeExactly:
			w = avail
		case flex.MeasureModeUndefined:
			w = longest
		default:
			w = math.Min(longest, avail)
		}
		return flex.Size{
			Width:  float32(w),
			Height: float32(blockHeight(len(lines), size, factor, font)),
		}
	}
}

func setMeasure(node *flex.Node, fn flex.MeasureFunc) (err error) {
	defer recoverGeometry(&err)
	node.SetMeasureFunc(fn)
	return nil
}

// Paint 在求解后的宽度上重新折行，每行绘制一次。
func (t *Text) Paint(f *Frame) error {
	node := t.phase.node
	if node == nil {
		return ErrNotLaidOut
	}
	t.phase.warnLate(f, KindText)
	style := t.phase.frozen
	font := f.Fonts.resolve(style.Font, f.Canvas)
	if font == nil {
		return &MissingFontError{Text: excerpt(style.Content)}
	}
	box := geometry(node)
	lines := wrapText(style.Content, style.Break, box.Width, font, style.Size)
	for _, line := range placeLines(lines, box, f.Canvas.Height(), style.Size, style.Leading, font, style.Align) {
		if err := f.Canvas.DrawText(line.Text, font, style.Size, line.X, line.Y, style.Color); err != nil {
			return fmt.Errorf("绘制文本失败: %w", err)
		}
	}
	return nil
}

func (s *TextStyle) validate() error {
	if math.IsNaN(s.Size) || math.IsInf(s.Size, 0) || s.Size <= 0 {
		return &InvalidGeometryError{Field: "size", Value: s.Size, Reason: "字号必须为正数"}
	}
	if math.IsNaN(s.Leading) || math.IsInf(s.Leading, 0) || s.Leading <= 0 {
		return &InvalidGeometryError{Field: "leading", Value: s.Leading, Reason: "行高倍数必须为正数"}
	}
	return s.Width.validate("width")
}
