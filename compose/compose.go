// Package compose 把 DSL 语法树转换为 layout 元素树。
package compose

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/linebreak"
)

// Options 控制转换过程。
type Options struct {
	// Data 用于文本中的 ${path} 插值。
	Data   any
	Logger *log.Logger
}

// errUnsupported 表示元素不接受该属性；text 是叶子节点，不参与伸缩与定位。
var errUnsupported = errors.New("不支持该属性")

type builder struct {
	res    *resourceSet
	data   any
	logger *log.Logger
}

// Build 根据 DSL 文档生成 layout.Document：资源、元信息、脚本与全部页面。
func Build(doc *dsl.Document, opts Options) (*layout.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	out := layout.NewDocument()
	res, err := collectResources(doc, out)
	if err != nil {
		return nil, err
	}
	applyMeta(doc, out, opts.Data)

	b := &builder{res: res, data: opts.Data, logger: logger}
	for _, section := range doc.Sections {
		switch {
		case section.Script != nil:
			out.Script(section.Script.Name, string(section.Script.Code))
		case section.Page != nil:
			page, err := b.page(section.Page)
			if err != nil {
				return nil, err
			}
			out.Child(page)
		}
	}
	if len(out.Pages()) == 0 {
		return nil, fmt.Errorf("文档中缺少 page 段落")
	}
	logger.Debug("DSL 转换完成", "doc", doc.Name, "pages", len(out.Pages()), "fonts", len(out.Fonts()))
	return out, nil
}

func (b *builder) page(section *dsl.PageSection) (*layout.Page, error) {
	size, err := resolvePageSize(section.Params)
	if err != nil {
		return nil, fmt.Errorf("第 %d 行: %w", section.Pos.Line, err)
	}
	page := layout.NewPage().Size(size)
	for _, item := range section.Body.Items {
		if item.Property != nil {
			return nil, fmt.Errorf("第 %d 行: page 不支持属性 %s", item.Property.Pos.Line, item.Property.Key)
		}
	}
	children, err := b.children(section.Body)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("转换页面", "line", section.Pos.Line, "size", size, "elements", len(children))
	return page.Child(children...), nil
}

// resolvePageSize 解析 `page A4 landscape` 或 `page w 500pt h 700pt` 形式的参数。
func resolvePageSize(params []string) (layout.PageSize, error) {
	size := layout.A4
	landscape := false
	for i := 0; i < len(params); i++ {
		tok := params[i]
		switch strings.ToLower(tok) {
		case "landscape":
			landscape = true
		case "portrait":
			landscape = false
		case "w", "h":
			if i+1 >= len(params) {
				return layout.PageSize{}, fmt.Errorf("页面参数 %s 缺少取值", tok)
			}
			v, err := parsePoints(params[i+1])
			if err != nil {
				return layout.PageSize{}, fmt.Errorf("页面参数 %s: %w", tok, err)
			}
			if tok == "w" {
				size.W = v
			} else {
				size.H = v
			}
			i++
		default:
			preset, ok := layout.LookupPageSize(tok)
			if !ok {
				return layout.PageSize{}, fmt.Errorf("暂不支持的纸张尺寸：%s", tok)
			}
			size = preset
		}
	}
	if landscape {
		size = size.Landscape()
	}
	return size, nil
}

// children 将元素体内的子元素与字符串依次转换为元素，赋值由所属元素处理。
func (b *builder) children(body *dsl.Body) ([]layout.Element, error) {
	if body == nil {
		return nil, nil
	}
	var out []layout.Element
	for _, item := range body.Items {
		switch {
		case item.Element != nil:
			el, err := b.element(item.Element)
			if err != nil {
				return nil, err
			}
			out = append(out, el)
		case item.Literal != nil:
			out = append(out, layout.NewText(binding.Interpolate(string(*item.Literal), b.data)))
		}
	}
	return out, nil
}

func (b *builder) element(el *dsl.Element) (layout.Element, error) {
	if el.Kind == "text" {
		return b.text(el)
	}
	return b.div(el)
}

func (b *builder) attrs(el *dsl.Element) (attrs, string, error) {
	styleName, inline, content, err := parseArgs(el.Args, b.res.styles)
	if err != nil {
		return nil, "", err
	}
	return mergeAttrs(styleName, b.res.styles, inline, bodyProperties(el.Body)), content, nil
}

func (b *builder) div(el *dsl.Element) (*layout.Div, error) {
	a, content, err := b.attrs(el)
	if err != nil {
		return nil, err
	}
	if content != "" {
		return nil, fmt.Errorf("第 %d 行: div 不能直接包含文字，请使用 text", el.Pos.Line)
	}
	div := layout.NewDiv()
	for _, key := range a.sortedKeys() {
		if err := b.applyDiv(div, key, a[key]); err != nil {
			return nil, fmt.Errorf("第 %d 行: div 属性 %s: %w", el.Pos.Line, key, err)
		}
	}
	children, err := b.children(el.Body)
	if err != nil {
		return nil, err
	}
	return div.Child(children...), nil
}

func (b *builder) applyDiv(div *layout.Div, key, value string) error {
	switch key {
	case "w", "h":
		d, err := parseDimension(value)
		if err != nil {
			return err
		}
		if key == "w" {
			div.Width(d)
		} else {
			div.Height(d)
		}
	case "grow", "shrink":
		v, err := parseNumber(value)
		if err != nil {
			return err
		}
		if key == "grow" {
			div.Grow(v)
		} else {
			div.Shrink(v)
		}
	case "flex":
		on, err := parseBool(value)
		if err != nil {
			return err
		}
		if on {
			div.Flex()
		}
	case "direction":
		dir, err := parseDirection(value)
		if err != nil {
			return err
		}
		div.Direction(dir)
	case "items":
		items, err := parseItems(value)
		if err != nil {
			return err
		}
		div.Items(items)
	case "justify":
		j, err := parseJustify(value)
		if err != nil {
			return err
		}
		div.Justify(j)
	case "position":
		switch value {
		case "absolute":
			div.Absolute()
		case "relative":
			div.Relative()
		default:
			return fmt.Errorf("未知的定位方式 %q", value)
		}
	case "left", "top", "right", "bottom", "padding":
		v, err := parsePoints(value)
		if err != nil {
			return err
		}
		switch key {
		case "left":
			div.Left(v)
		case "top":
			div.Top(v)
		case "right":
			div.Right(v)
		case "bottom":
			div.Bottom(v)
		default:
			div.Padding(v)
		}
	case "overflow":
		switch value {
		case "hidden":
			div.OverflowHidden()
		case "visible":
		default:
			return fmt.Errorf("未知的 overflow 取值 %q", value)
		}
	case "bg":
		c, err := b.res.resolveColor(value)
		if err != nil {
			return err
		}
		div.BgRGB(c)
	default:
		return errUnsupported
	}
	return nil
}

func (b *builder) text(el *dsl.Element) (*layout.Text, error) {
	a, content, err := b.attrs(el)
	if err != nil {
		return nil, err
	}
	body, err := extractText(el.Body)
	if err != nil {
		return nil, fmt.Errorf("第 %d 行: %w", el.Pos.Line, err)
	}
	text := layout.NewText(binding.Interpolate(content+body, b.data))

	// 行高倍数依赖字号，先确定字号。
	size := layout.DefaultFontSize
	if v, ok := a["size"]; ok {
		pt, err := parsePoints(v)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: text 属性 size: %w", el.Pos.Line, err)
		}
		size = pt
		text.Size(pt)
	}
	for _, key := range a.sortedKeys() {
		if key == "size" {
			continue
		}
		if err := b.applyText(text, key, a[key], size); err != nil {
			return nil, fmt.Errorf("第 %d 行: text 属性 %s: %w", el.Pos.Line, key, err)
		}
	}
	return text, nil
}

func (b *builder) applyText(text *layout.Text, key, value string, size float64) error {
	switch key {
	case "font":
		ref, ok := b.res.fonts[value]
		if !ok {
			return fmt.Errorf("font %s 未定义", value)
		}
		text.Font(ref)
	case "leading":
		if value == "none" {
			text.LeadingNone()
			return nil
		}
		spec, err := layout.ParseLineHeight(value)
		if err != nil {
			return err
		}
		text.Leading(spec.Multiplier(size))
	case "color":
		c, err := b.res.resolveColor(value)
		if err != nil {
			return err
		}
		text.ColorRGB(c)
	case "align":
		a := layout.ParseAlign(strings.ToLower(value))
		if a == layout.AlignUnset {
			return fmt.Errorf("未知的对齐方式 %q", value)
		}
		text.Align(a)
	case "w":
		d, err := parseDimension(value)
		if err != nil {
			return err
		}
		text.Width(d)
	case "break":
		text.Break(linebreak.ParseRule(value))
	default:
		return errUnsupported
	}
	return nil
}

// extractText 拼接元素体内的字符串字面量，多段之间以换行分隔。
// text 是叶子节点，体内出现子元素时报错。
func extractText(body *dsl.Body) (string, error) {
	if body == nil {
		return "", nil
	}
	var parts []string
	for _, item := range body.Items {
		switch {
		case item.Literal != nil:
			parts = append(parts, string(*item.Literal))
		case item.Element != nil:
			return "", fmt.Errorf("text 不能包含子元素 %s", item.Element.Kind)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func parseDirection(v string) (layout.FlexDirection, error) {
	switch strings.ToLower(v) {
	case "row":
		return layout.Row, nil
	case "row-reverse":
		return layout.RowReverse, nil
	case "col", "column":
		return layout.Column, nil
	case "col-reverse", "column-reverse":
		return layout.ColumnReverse, nil
	}
	return layout.Row, fmt.Errorf("未知的方向 %q", v)
}

func parseItems(v string) (layout.ItemsAlign, error) {
	switch strings.ToLower(v) {
	case "start", "flex-start":
		return layout.ItemsStart, nil
	case "center":
		return layout.ItemsCenter, nil
	case "end", "flex-end":
		return layout.ItemsEnd, nil
	case "stretch":
		return layout.ItemsStretch, nil
	}
	return layout.ItemsDefault, fmt.Errorf("未知的 items 取值 %q", v)
}

func parseJustify(v string) (layout.Justify, error) {
	switch strings.ToLower(v) {
	case "start", "flex-start":
		return layout.JustifyStart, nil
	case "center":
		return layout.JustifyCenter, nil
	case "end", "flex-end":
		return layout.JustifyEnd, nil
	case "between", "space-between":
		return layout.JustifyBetween, nil
	case "around", "space-around":
		return layout.JustifyAround, nil
	}
	return layout.JustifyDefault, fmt.Errorf("未知的 justify 取值 %q", v)
}
