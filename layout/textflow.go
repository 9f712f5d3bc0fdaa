package layout

import (
	"math"

	"github.com/ByLCY/folio/linebreak"
)

// Align 表示文本行在盒子内的水平对齐方式，未设置时等同左对齐。
type Align int

const (
	AlignUnset Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ParseAlign 解析 left/center/right，其他值返回 AlignUnset。
func ParseAlign(v string) Align {
	switch v {
	case "left", "start":
		return AlignLeft
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignUnset
	}
}

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// baselineRatio 近似字体高度中基线以上的比例。
const baselineRatio = 0.75

// wrapTolerance 吸收求解器 float32 宽度带来的舍入误差，避免重绘时多折一行。
const wrapTolerance = 1e-3

// Box 是页面绝对坐标下的盒子（布局空间，Y 轴向下）。
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WrappedLine 是折行后的一行及其测得宽度。
type WrappedLine struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// LinePlacement 是一行文本在画布空间中的基线起点。
type LinePlacement struct {
	Text string
	X, Y float64
}

// wrapText 在给定宽度下折行，结果不做缓存，每次测量与绘制都重新计算。
func wrapText(content string, rule linebreak.Rule, width float64, font Font, size float64) []WrappedLine {
	measure := func(s string) float64 { return font.WidthOfTextAtSize(s, size) }
	limit := width
	if !math.IsInf(limit, 0) && !math.IsNaN(limit) && limit > 0 {
		limit += wrapTolerance
	}
	raw := linebreak.Wrap(content, rule, limit, measure)
	lines := make([]WrappedLine, len(raw))
	for i, s := range raw {
		lines[i] = WrappedLine{Text: s, Width: measure(s)}
	}
	return lines
}

func longestLine(lines []WrappedLine) float64 {
	var w float64
	for _, l := range lines {
		w = math.Max(w, l.Width)
	}
	return w
}

// blockHeight = (n-1)*行高 + 字体高度。
func blockHeight(n int, size, factor float64, font Font) float64 {
	if n < 1 {
		n = 1
	}
	return float64(n-1)*size*factor + font.HeightAtSize(size)
}

func alignOffset(align Align, boxWidth, lineWidth float64) float64 {
	switch align {
	case AlignCenter:
		return (boxWidth - lineWidth) / 2
	case AlignRight:
		return boxWidth - lineWidth
	default:
		return 0
	}
}

// placeLines 把文本块在盒子内垂直居中，并逐行按对齐方式计算基线起点。
func placeLines(lines []WrappedLine, box Box, pageHeight, size, factor float64, font Font, align Align) []LinePlacement {
	lineHeight := size * factor
	fontHeight := font.HeightAtSize(size)
	total := blockHeight(len(lines), size, factor, font)

	centerY := canvasTopY(pageHeight, box.Top) - box.Height/2
	firstY := centerY + total/2 - fontHeight*baselineRatio

	out := make([]LinePlacement, len(lines))
	for i, l := range lines {
		out[i] = LinePlacement{
			Text: l.Text,
			X:    box.Left + alignOffset(align, box.Width, l.Width),
			Y:    firstY - float64(i)*lineHeight,
		}
	}
	return out
}
