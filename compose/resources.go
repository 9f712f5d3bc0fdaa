package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
)

// style 是 resources 中声明的具名样式，Props 为 key -> 原始取值。
type style struct {
	Name    string
	Extends string
	Props   map[string]string
}

// resourceSet 汇总文档声明的字体、颜色与样式。
type resourceSet struct {
	fonts  map[string]*layout.FontRef
	colors map[string]layout.RGB
	styles map[string]style
}

// collectResources 读取全部 resources 段落，字体注册到 out 上。
func collectResources(doc *dsl.Document, out *layout.Document) (*resourceSet, error) {
	res := &resourceSet{
		fonts:  map[string]*layout.FontRef{},
		colors: map[string]layout.RGB{},
		styles: map[string]style{},
	}
	rawStyles := map[string]style{}

	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, decl := range section.Resources.Decls {
			switch {
			case decl.Font != nil:
				src, err := parseFontResource(decl.Font)
				if err != nil {
					return nil, err
				}
				if _, dup := res.fonts[src.Name]; dup {
					return nil, fmt.Errorf("第 %d 行: font %s 重复定义", decl.Font.Pos.Line, src.Name)
				}
				res.fonts[src.Name] = out.Font(src)
			case decl.Color != nil:
				c, err := layout.ParseColor(decl.Color.Value)
				if err != nil {
					return nil, fmt.Errorf("第 %d 行: color %s: %w", decl.Color.Pos.Line, decl.Color.Name, err)
				}
				res.colors[decl.Color.Name] = c
			case decl.Style != nil:
				if _, dup := rawStyles[decl.Style.Name]; dup {
					return nil, fmt.Errorf("第 %d 行: style %s 重复定义", decl.Style.Pos.Line, decl.Style.Name)
				}
				rawStyles[decl.Style.Name] = parseStyleResource(decl.Style)
			}
		}
	}

	resolved, err := resolveStyles(rawStyles)
	if err != nil {
		return nil, err
	}
	res.styles = resolved
	return res, nil
}

// parseFontResource 支持两种写法：
//
//	font Body "builtin:go-regular"
//	font Body { src: "fonts/Body.ttf"; style: "bold" }
func parseFontResource(decl *dsl.FontDecl) (layout.FontSource, error) {
	src := layout.FontSource{Name: decl.Name}
	if decl.Src != nil {
		src.Src = string(*decl.Src)
	}
	for _, prop := range decl.Props {
		switch prop.Key {
		case "src":
			src.Src = valueToString(prop.Value)
		case "style":
			src.Style = valueToString(prop.Value)
		default:
			return layout.FontSource{}, fmt.Errorf("第 %d 行: font 不支持属性 %s", prop.Pos.Line, prop.Key)
		}
	}
	if src.Src == "" {
		return layout.FontSource{}, fmt.Errorf("第 %d 行: font %s 缺少 src", decl.Pos.Line, src.Name)
	}
	return src, nil
}

func parseStyleResource(decl *dsl.StyleDecl) style {
	s := style{
		Name:    decl.Name,
		Extends: decl.Extends,
		Props:   map[string]string{},
	}
	for _, prop := range decl.Props {
		if val := valueToString(prop.Value); val != "" {
			s.Props[prop.Key] = val
		}
	}
	return s
}

// resolveStyles 展开 extends 链，子样式覆盖父样式，检测循环继承。
func resolveStyles(styles map[string]style) (map[string]style, error) {
	resolved := map[string]style{}
	visiting := map[string]bool{}

	var dfs func(name string) (style, error)
	dfs = func(name string) (style, error) {
		if s, ok := resolved[name]; ok {
			return s, nil
		}
		s, ok := styles[name]
		if !ok {
			return style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if s.Extends != "" {
			parent, err := dfs(s.Extends)
			if err != nil {
				return style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range s.Props {
			props[k] = v
		}
		s.Props = props
		resolved[name] = s
		delete(visiting, name)
		return s, nil
	}

	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// resolveColor 先查具名颜色，再按十六进制解析。
func (r *resourceSet) resolveColor(value string) (layout.RGB, error) {
	if c, ok := r.colors[value]; ok {
		return c, nil
	}
	return layout.ParseColor(value)
}

// applyMeta 读取 meta 段落，字符串取值支持数据插值。
func applyMeta(doc *dsl.Document, out *layout.Document, data any) {
	out.Creator("folio")
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for _, entry := range section.Meta.Entries {
			val := entry.Value
			switch strings.ToLower(entry.Key) {
			case "title":
				out.Title(binding.Interpolate(valueToString(val), data))
			case "author":
				out.Author(binding.Interpolate(valueToString(val), data))
			case "subject":
				out.Subject(binding.Interpolate(valueToString(val), data))
			case "creator":
				out.Creator(valueToString(val))
			case "keywords":
				out.Keywords(valueToStringSlice(val)...)
			}
		}
	}
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Word != nil:
		return *val.Word
	case val.List != nil:
		return strings.Join(valueToStringSlice(val), ", ")
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.List != nil {
		out := make([]string, 0, len(val.List.Items))
		for _, item := range val.List.Items {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
