package layout

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/kjk/flex"
)

// Kind 标识元素的具体种类。元素集合是封闭的，只有 *Div 与 *Text。
type Kind int

const (
	KindDiv Kind = iota + 1
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindDiv:
		return "div"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Element 是布局树中的节点。
//
// LayoutNode 第一次调用时冻结当前样式并构建求解器节点，之后每次返回同一个节点；
// 冻结之后的样式设置不再生效。Paint 必须在所在页面求解完成后调用，
// 先绘制自身再按插入顺序绘制子元素。
type Element interface {
	Kind() Kind
	LayoutNode(f *Frame) (*flex.Node, error)
	Paint(f *Frame) error
	// Frozen 报告样式是否已经冻结。
	Frozen() bool

	sealed()
}

// Frame 是单页构建与绘制共用的上下文。
type Frame struct {
	Canvas Canvas
	Fonts  FontResolution
	Flex   *flex.Config
	Logger *log.Logger
}

// FontResolution 是文档级别的字体映射，组装开始前一次性构建，之后只读。
type FontResolution map[*FontRef]Font

// resolve 返回显式字体，未指定时退回画布默认字体；两者都没有返回 nil。
func (r FontResolution) resolve(ref *FontRef, canvas Canvas) Font {
	if ref != nil {
		if font, ok := r[ref]; ok && font != nil {
			return font
		}
		return nil
	}
	if canvas == nil {
		return nil
	}
	return canvas.DefaultFont()
}

// phase 记录构建阶段：冻结前的可变样式，冻结后的快照以及被忽略的设置次数。
type phase[S any] struct {
	spec   S
	frozen *S
	node   *flex.Node
	late   int
	warned bool
}

// update 在冻结前修改样式，冻结后只计数。
func (p *phase[S]) update(fn func(*S)) {
	if p.frozen != nil {
		p.late++
		return
	}
	fn(&p.spec)
}

func (p *phase[S]) freeze() *S {
	if p.frozen == nil {
		snapshot := p.spec
		p.frozen = &snapshot
	}
	return p.frozen
}

func (p *phase[S]) isFrozen() bool { return p.frozen != nil }

// warnLate 在绘制时把冻结后被忽略的设置报告一次。
func (p *phase[S]) warnLate(f *Frame, kind Kind) {
	if p.late == 0 || p.warned || f.Logger == nil {
		return
	}
	p.warned = true
	f.Logger.Warn("布局节点构建后的样式设置已被忽略", "element", kind, "ignored", p.late)
}

// IgnoredSettings 返回元素冻结后被忽略的设置次数。
func IgnoredSettings(e Element) int {
	switch v := e.(type) {
	case *Div:
		return v.phase.late
	case *Text:
		return v.phase.late
	default:
		return 0
	}
}

// insertChild 把子节点挂到父节点下，求解器的断言 panic 转换为错误。
func insertChild(parent, child *flex.Node) (err error) {
	if child.Parent != nil {
		return ErrElementReused
	}
	defer recoverGeometry(&err)
	parent.InsertChild(child, len(parent.Children))
	return nil
}

// attachChildren 先构建全部子节点，全部成功后才挂入 parent。
// 挂载中途失败时摘下本次已挂入的节点，出错后再次布局仍报告原始错误。
func attachChildren(f *Frame, parent *flex.Node, children []Element) error {
	nodes := make([]*flex.Node, len(children))
	for i, child := range children {
		node, err := child.LayoutNode(f)
		if err != nil {
			return err
		}
		nodes[i] = node
	}
	for i, node := range nodes {
		if err := insertChild(parent, node); err != nil {
			for _, done := range nodes[:i] {
				parent.RemoveChild(done)
			}
			return fmt.Errorf("挂载第 %d 个子元素失败: %w", i+1, err)
		}
	}
	return nil
}
