package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kjk/flex"
)

// Snapshot 记录文档渲染后每个元素的页面绝对几何信息。
type Snapshot struct {
	Meta  DocumentMeta   `json:"meta"`
	Pages []PageSnapshot `json:"pages"`
}

type PageSnapshot struct {
	Size     PageSize       `json:"size"`
	Elements []NodeSnapshot `json:"elements"`
}

type NodeSnapshot struct {
	Kind     string         `json:"kind"`
	Box      Box            `json:"box"`
	Fill     *RGB           `json:"fill,omitempty"`
	Text     string         `json:"text,omitempty"`
	Size     float64        `json:"size,omitempty"`
	Align    string         `json:"align,omitempty"`
	Ignored  int            `json:"ignoredSettings,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

var errNoSnapshot = errors.New("layout: 文档尚未以 Debug 模式组装")

// Snapshot 导出最近一次组装的几何信息，要求 Assemble 时 Options.Debug 为 true。
func (d *Document) Snapshot() (*Snapshot, error) {
	if !d.debug {
		return nil, errNoSnapshot
	}
	snap := &Snapshot{Meta: d.meta}
	for _, p := range d.pages {
		ps := PageSnapshot{Size: p.size}
		for _, el := range p.children {
			ns, err := snapshotElement(el)
			if err != nil {
				return nil, err
			}
			ps.Elements = append(ps.Elements, ns)
		}
		snap.Pages = append(snap.Pages, ps)
	}
	return snap, nil
}

func snapshotElement(el Element) (NodeSnapshot, error) {
	switch v := el.(type) {
	case *Div:
		style := v.Style()
		ns := NodeSnapshot{Kind: KindDiv.String(), Box: boxOf(v.phase.node), Fill: style.Fill, Ignored: v.phase.late}
		for _, child := range style.Children {
			cs, err := snapshotElement(child)
			if err != nil {
				return NodeSnapshot{}, err
			}
			ns.Children = append(ns.Children, cs)
		}
		return ns, nil
	case *Text:
		style := v.Style()
		return NodeSnapshot{
			Kind:    KindText.String(),
			Box:     boxOf(v.phase.node),
			Text:    style.Content,
			Size:    style.Size,
			Align:   style.Align.String(),
			Ignored: v.phase.late,
		}, nil
	default:
		return NodeSnapshot{}, fmt.Errorf("layout: 未知的元素类型 %T", el)
	}
}

func boxOf(node *flex.Node) Box {
	if node == nil {
		return Box{}
	}
	return geometry(node)
}

// WriteDebugJSON 将几何快照输出为 JSON，便于调试或可视化。
func WriteDebugJSON(snap *Snapshot, path string) error {
	if snap == nil {
		return nil
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
