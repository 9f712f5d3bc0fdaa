package compose

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
)

// attrs 是命令参数、块内赋值与样式合并后的属性表。
type attrs map[string]string

// flagAttrs 把单独出现的关键字映射为属性，例如 `div row` 等价于 `direction: row`。
var flagAttrs = map[string][2]string{
	"row":            {"direction", "row"},
	"row-reverse":    {"direction", "row-reverse"},
	"col":            {"direction", "column"},
	"column":         {"direction", "column"},
	"col-reverse":    {"direction", "column-reverse"},
	"column-reverse": {"direction", "column-reverse"},
	"flex":           {"flex", "true"},
	"absolute":       {"position", "absolute"},
	"relative":       {"position", "relative"},
	"hidden":         {"overflow", "hidden"},
	"full":           {"w", "100%"},
}

// parseArgs 解析元素头部参数：可选的样式名、关键字以及 key value 对。
// 字符串参数按出现顺序拼接为正文。
func parseArgs(args []*dsl.Arg, styles map[string]style) (string, attrs, string, error) {
	out := attrs{}
	if len(args) == 0 {
		return "", out, "", nil
	}

	cursor := 0
	var styleName string
	if args[0].IsWord() {
		if _, ok := styles[args[0].Value()]; ok {
			styleName = args[0].Value()
			cursor = 1
		}
	}

	var content strings.Builder
	for cursor < len(args) {
		tok := args[cursor]
		if tok.IsString() {
			content.WriteString(tok.Value())
			cursor++
			continue
		}
		if !tok.IsWord() {
			return "", nil, "", fmt.Errorf("第 %d 行: 无法识别的参数 %q", tok.Pos.Line, tok.Value())
		}
		if flag, ok := flagAttrs[tok.Value()]; ok {
			out[flag[0]] = flag[1]
			cursor++
			continue
		}
		if cursor+1 >= len(args) || args[cursor+1].IsString() {
			return "", nil, "", fmt.Errorf("第 %d 行: 参数 %s 缺少取值", tok.Pos.Line, tok.Value())
		}
		out[tok.Value()] = args[cursor+1].Value()
		cursor += 2
	}
	return styleName, out, content.String(), nil
}

// bodyProperties 收集元素体内的 key: value 赋值。
func bodyProperties(body *dsl.Body) attrs {
	out := attrs{}
	if body == nil {
		return out
	}
	for _, item := range body.Items {
		if item.Property != nil {
			out[item.Property.Key] = valueToString(item.Property.Value)
		}
	}
	return out
}

// mergeAttrs 依次合并样式、头部参数与块内赋值，后者覆盖前者。
func mergeAttrs(styleName string, styles map[string]style, layers ...attrs) attrs {
	out := attrs{}
	if styleName != "" {
		if s, ok := styles[styleName]; ok {
			for k, v := range s.Props {
				out[normalizeKey(k)] = v
			}
		}
	}
	for _, layer := range layers {
		for k, v := range layer {
			out[normalizeKey(k)] = v
		}
	}
	return out
}

var keyAliases = map[string]string{
	"width":       "w",
	"height":      "h",
	"background":  "bg",
	"line-height": "leading",
	"wrap":        "break",
	"font-size":   "size",
	"text-align":  "align",
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

// sortedKeys 保证错误信息与日志的输出顺序稳定。
func (a attrs) sortedKeys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseDimension(value string) (layout.Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "auto":
		return layout.Auto(), nil
	case "full":
		return layout.Percent(100), nil
	}
	l, err := layout.ParseLength(value)
	if err != nil {
		return layout.Dimension{}, err
	}
	return l.Dimension(), nil
}

// parsePoints 解析绝对长度，不接受百分比。
func parsePoints(value string) (float64, error) {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, err
	}
	if l.Unit == layout.UnitPercent {
		return 0, fmt.Errorf("此处不支持百分比：%s", value)
	}
	return l.ToPT(), nil
}

func parseNumber(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数值 %q", value)
	}
	return f, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("无法解析布尔值 %q", value)
}
