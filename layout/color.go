package layout

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB 的每个通道都位于 [0, 1] 区间。
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Black 是文本的默认颜色。
var Black = RGB{}

// Hex 将 0xRRGGBB 形式的整数转换为 RGB，例如 Hex(0xFFFFFF) == RGB{1, 1, 1}。
func Hex(hex uint32) RGB {
	r := (hex >> 16) & 0xff
	g := (hex >> 8) & 0xff
	b := hex & 0xff
	return RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// ParseColor 解析 "#rgb"、"#rrggbb" 或 "#rrggbbaa"（忽略 alpha）形式的颜色。
func ParseColor(value string) (RGB, error) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	if len(v) == 9 {
		v = v[:7]
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return RGB{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	r, g, b := c.RGB255()
	return Hex(uint32(r)<<16 | uint32(g)<<8 | uint32(b)), nil
}

// Colorful 返回可直接用于 image/color 的颜色值。
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func (c RGB) String() string { return c.Colorful().Hex() }
