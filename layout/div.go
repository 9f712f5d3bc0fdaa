package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/kjk/flex"
)

// ErrNotLaidOut 表示在所属页面求解之前调用了 Paint。
var ErrNotLaidOut = errors.New("layout: 元素尚未参与布局求解")

// FlexDirection 对应求解器的主轴方向。
type FlexDirection int

const (
	Row FlexDirection = iota
	RowReverse
	Column
	ColumnReverse
)

// ItemsAlign 是交叉轴对齐方式，零值表示沿用求解器默认（stretch）。
type ItemsAlign int

const (
	ItemsDefault ItemsAlign = iota
	ItemsStart
	ItemsCenter
	ItemsEnd
	ItemsStretch
)

// Justify 是主轴分布方式，零值表示沿用求解器默认（flex-start）。
type Justify int

const (
	JustifyDefault Justify = iota
	JustifyStart
	JustifyCenter
	JustifyEnd
	JustifyBetween
	JustifyAround
)

// PositionMode 区分文档流内定位与相对父节点的偏移定位。
type PositionMode int

const (
	PositionDefault PositionMode = iota
	PositionRelative
	PositionAbsolute
)

// Insets 是偏移定位使用的四边距离，nil 表示未设置。
type Insets struct {
	Left, Top, Right, Bottom *float64
}

// DivStyle 是容器冻结前的样式。
type DivStyle struct {
	Width, Height Dimension
	Flex          bool
	Direction     FlexDirection
	Grow          *float64
	Shrink        float64
	Items         ItemsAlign
	Justify       Justify
	Position      PositionMode
	Insets        Insets
	Padding       *float64
	Overflow      bool
	Fill          *RGB
	Children      []Element
}

// Div 是可以包含子元素、带背景填充与 flex 样式的容器。
type Div struct {
	phase phase[DivStyle]
}

// NewDiv 创建一个主轴为横向、允许收缩的容器。
func NewDiv() *Div {
	return &Div{phase: phase[DivStyle]{spec: DivStyle{Direction: Row, Shrink: 1}}}
}

func (d *Div) set(fn func(*DivStyle)) *Div {
	d.phase.update(fn)
	return d
}

func (d *Div) W(v float64) *Div        { return d.set(func(s *DivStyle) { s.Width = Points(v) }) }
func (d *Div) WPercent(p float64) *Div { return d.set(func(s *DivStyle) { s.Width = Percent(p) }) }
func (d *Div) WFull() *Div             { return d.WPercent(100) }
func (d *Div) WAuto() *Div             { return d.set(func(s *DivStyle) { s.Width = Auto() }) }
func (d *Div) H(v float64) *Div        { return d.set(func(s *DivStyle) { s.Height = Points(v) }) }
func (d *Div) HPercent(p float64) *Div { return d.set(func(s *DivStyle) { s.Height = Percent(p) }) }
func (d *Div) HFull() *Div             { return d.HPercent(100) }
func (d *Div) HAuto() *Div             { return d.set(func(s *DivStyle) { s.Height = Auto() }) }

// Width 与 Height 直接设置尺寸，供解析器等批量构建场景使用。
func (d *Div) Width(v Dimension) *Div  { return d.set(func(s *DivStyle) { s.Width = v }) }
func (d *Div) Height(v Dimension) *Div { return d.set(func(s *DivStyle) { s.Height = v }) }

func (d *Div) Flex() *Div { return d.set(func(s *DivStyle) { s.Flex = true }) }
func (d *Div) Direction(v FlexDirection) *Div {
	return d.set(func(s *DivStyle) { s.Direction = v })
}
func (d *Div) FlexRow() *Div        { return d.Direction(Row) }
func (d *Div) FlexRowReverse() *Div { return d.Direction(RowReverse) }
func (d *Div) FlexCol() *Div        { return d.Direction(Column) }
func (d *Div) FlexColReverse() *Div { return d.Direction(ColumnReverse) }

func (d *Div) Grow(v float64) *Div   { return d.set(func(s *DivStyle) { s.Grow = &v }) }
func (d *Div) Grow1() *Div           { return d.Grow(1) }
func (d *Div) Shrink(v float64) *Div { return d.set(func(s *DivStyle) { s.Shrink = v }) }
func (d *Div) Shrink0() *Div         { return d.Shrink(0) }
func (d *Div) Shrink1() *Div         { return d.Shrink(1) }

func (d *Div) Items(v ItemsAlign) *Div { return d.set(func(s *DivStyle) { s.Items = v }) }
func (d *Div) ItemsStart() *Div        { return d.Items(ItemsStart) }
func (d *Div) ItemsCenter() *Div       { return d.Items(ItemsCenter) }
func (d *Div) ItemsEnd() *Div          { return d.Items(ItemsEnd) }
func (d *Div) ItemsStretch() *Div      { return d.Items(ItemsStretch) }

func (d *Div) Justify(v Justify) *Div { return d.set(func(s *DivStyle) { s.Justify = v }) }
func (d *Div) JustifyStart() *Div     { return d.Justify(JustifyStart) }
func (d *Div) JustifyCenter() *Div    { return d.Justify(JustifyCenter) }
func (d *Div) JustifyEnd() *Div       { return d.Justify(JustifyEnd) }
func (d *Div) JustifyBetween() *Div   { return d.Justify(JustifyBetween) }
func (d *Div) JustifyAround() *Div    { return d.Justify(JustifyAround) }

func (d *Div) Relative() *Div { return d.set(func(s *DivStyle) { s.Position = PositionRelative }) }
func (d *Div) Absolute() *Div { return d.set(func(s *DivStyle) { s.Position = PositionAbsolute }) }

func (d *Div) Left(v float64) *Div   { return d.set(func(s *DivStyle) { s.Insets.Left = &v }) }
func (d *Div) Top(v float64) *Div    { return d.set(func(s *DivStyle) { s.Insets.Top = &v }) }
func (d *Div) Right(v float64) *Div  { return d.set(func(s *DivStyle) { s.Insets.Right = &v }) }
func (d *Div) Bottom(v float64) *Div { return d.set(func(s *DivStyle) { s.Insets.Bottom = &v }) }

func (d *Div) Padding(v float64) *Div { return d.set(func(s *DivStyle) { s.Padding = &v }) }
func (d *Div) OverflowHidden() *Div   { return d.set(func(s *DivStyle) { s.Overflow = true }) }

// Bg 以 0xRRGGBB 设置背景色。
func (d *Div) Bg(hex uint32) *Div { return d.BgRGB(Hex(hex)) }
func (d *Div) BgRGB(c RGB) *Div   { return d.set(func(s *DivStyle) { s.Fill = &c }) }

// Child 追加子元素。
func (d *Div) Child(children ...Element) *Div {
	return d.set(func(s *DivStyle) { s.Children = append(s.Children, children...) })
}

func (d *Div) Kind() Kind   { return KindDiv }
func (d *Div) Frozen() bool { return d.phase.isFrozen() }
func (d *Div) sealed()      {}

// Style 返回生效中的样式：冻结后为快照，冻结前为当前构建状态。
func (d *Div) Style() DivStyle {
	if d.phase.frozen != nil {
		return *d.phase.frozen
	}
	return d.phase.spec
}

// Children 返回生效中的子元素。
func (d *Div) Children() []Element { return d.Style().Children }

// LayoutNode 冻结样式并构建求解器节点，子元素的节点按插入顺序挂入。
func (d *Div) LayoutNode(f *Frame) (*flex.Node, error) {
	if d.phase.node != nil {
		return d.phase.node, nil
	}
	style := d.phase.freeze()
	if err := style.validate(); err != nil {
		return nil, err
	}
	node := flex.NewNodeWithConfig(f.Flex)
	style.apply(node)
	if err := attachChildren(f, node, style.Children); err != nil {
		return nil, err
	}
	d.phase.node = node
	if f.Logger != nil {
		f.Logger.Debug("构建容器节点", "children", len(style.Children), "flex", style.Flex)
	}
	return node, nil
}

// Paint 以一次填充绘制自身，随后按顺序绘制子元素。
func (d *Div) Paint(f *Frame) error {
	node := d.phase.node
	if node == nil {
		return ErrNotLaidOut
	}
	d.phase.warnLate(f, KindDiv)
	style := d.phase.frozen
	box := geometry(node)
	y := canvasRectY(f.Canvas.Height(), box.Top, box.Height)
	if err := f.Canvas.FillRect(box.Left, y, box.Width, box.Height, style.Fill); err != nil {
		return fmt.Errorf("绘制容器背景失败: %w", err)
	}
	for _, child := range style.Children {
		if err := child.Paint(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *DivStyle) validate() error {
	if err := s.Width.validate("width"); err != nil {
		return err
	}
	if err := s.Height.validate("height"); err != nil {
		return err
	}
	if s.Grow != nil {
		if err := nonNegative("grow", *s.Grow); err != nil {
			return err
		}
	}
	if err := nonNegative("shrink", s.Shrink); err != nil {
		return err
	}
	if s.Padding != nil {
		if err := nonNegative("padding", *s.Padding); err != nil {
			return err
		}
	}
	for _, inset := range s.Insets.edges() {
		if inset.v != nil && (math.IsNaN(*inset.v) || math.IsInf(*inset.v, 0)) {
			return &InvalidGeometryError{Field: inset.name, Value: *inset.v, Reason: "不是有限数值"}
		}
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidGeometryError{Field: field, Value: v, Reason: "不是有限数值"}
	}
	if v < 0 {
		return &InvalidGeometryError{Field: field, Value: v, Reason: "不能为负数"}
	}
	return nil
}

// apply 将样式写入求解器节点。shrink 总是写入，grow 只在设置过时写入。
func (s *DivStyle) apply(node *flex.Node) {
	s.Width.applyWidth(node)
	s.Height.applyHeight(node)
	if s.Flex {
		node.StyleSetDisplay(flex.DisplayFlex)
	}
	node.StyleSetFlexDirection(s.Direction.flex())
	if s.Grow != nil {
		node.StyleSetFlexGrow(float32(*s.Grow))
	}
	node.StyleSetFlexShrink(float32(s.Shrink))
	if s.Items != ItemsDefault {
		node.StyleSetAlignItems(s.Items.flex())
	}
	if s.Justify != JustifyDefault {
		node.StyleSetJustifyContent(s.Justify.flex())
	}
	switch s.Position {
	case PositionRelative:
		node.StyleSetPositionType(flex.PositionTypeRelative)
	case PositionAbsolute:
		node.StyleSetPositionType(flex.PositionTypeAbsolute)
	}
	for _, inset := range s.Insets.edges() {
		if inset.v != nil {
			node.StyleSetPosition(inset.edge, float32(*inset.v))
		}
	}
	if s.Padding != nil {
		node.StyleSetPadding(flex.EdgeAll, float32(*s.Padding))
	}
	if s.Overflow {
		node.StyleSetOverflow(flex.OverflowHidden)
	}
}

type inset struct {
	name string
	edge flex.Edge
	v    *float64
}

func (in Insets) edges() []inset {
	return []inset{
		{"left", flex.EdgeLeft, in.Left},
		{"top", flex.EdgeTop, in.Top},
		{"right", flex.EdgeRight, in.Right},
		{"bottom", flex.EdgeBottom, in.Bottom},
	}
}

func (d FlexDirection) flex() flex.FlexDirection {
	switch d {
	case RowReverse:
		return flex.FlexDirectionRowReverse
	case Column:
		return flex.FlexDirectionColumn
	case ColumnReverse:
		return flex.FlexDirectionColumnReverse
	default:
		return flex.FlexDirectionRow
	}
}

func (a ItemsAlign) flex() flex.Align {
	switch a {
	case ItemsCenter:
		return flex.AlignCenter
	case ItemsEnd:
		return flex.AlignFlexEnd
	case ItemsStretch:
		return flex.AlignStretch
	default:
		return flex.AlignFlexStart
	}
}

func (j Justify) flex() flex.Justify {
	switch j {
	case JustifyCenter:
		return flex.JustifyCenter
	case JustifyEnd:
		return flex.JustifyFlexEnd
	case JustifyBetween:
		return flex.JustifySpaceBetween
	case JustifyAround:
		return flex.JustifySpaceAround
	default:
		return flex.JustifyFlexStart
	}
}
