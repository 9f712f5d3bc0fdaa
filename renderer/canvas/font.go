package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
)

// Font 实现 layout.Font。度量以 pt 为单位，内部在 canvas 的 mm 单位之间换算。
type Font struct {
	name   string
	family *canvas.FontFamily
	style  canvas.FontStyle
}

var _ layout.Font = (*Font)(nil)

func newFont(src layout.FontSource, data []byte) (*Font, error) {
	name := src.Name
	if name == "" {
		name = src.Src
	}
	if name == "" {
		name = "Body"
	}
	style := parseFontStyle(src.Style)
	family := canvas.NewFontFamily(name)
	if strings.HasPrefix(src.Src, "system:") && len(data) == 0 {
		if err := family.LoadSystemFont(strings.TrimPrefix(src.Src, "system:"), style); err != nil {
			return nil, fmt.Errorf("加载系统字体 %s 失败: %w", src.Src, err)
		}
	} else if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	return &Font{name: name, family: family, style: style}, nil
}

func (f *Font) face(size float64, col color.Color) *canvas.FontFace {
	return f.family.Face(size, col, f.style, canvas.FontNormal)
}

// WidthOfTextAtSize 返回文本在 size（pt）下的宽度（pt）。
func (f *Font) WidthOfTextAtSize(text string, size float64) float64 {
	if text == "" {
		return 0
	}
	return toPt(f.face(size, canvas.Black).TextWidth(text))
}

// HeightAtSize 返回 size（pt）下上升部与下降部之和（pt）。
func (f *Font) HeightAtSize(size float64) float64 {
	m := f.face(size, canvas.Black).Metrics()
	return toPt(math.Abs(m.Ascent) + math.Abs(m.Descent))
}

func (f *Font) String() string { return f.name }

// loadFontBytes 按来源读取字体数据。system: 来源返回 nil，由 newFont 交给系统字体加载。
func (r *Renderer) loadFontBytes(font layout.FontSource) ([]byte, error) {
	if len(font.Bytes) > 0 {
		return font.Bytes, nil
	}
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	switch {
	case strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:"):
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return fonts.Load(name)
	case strings.HasPrefix(src, "system:"):
		return nil, nil
	}
	// Path based
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin: 或 system:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件失败: %w", err)
	}
	return data, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") || strings.Contains(style, "I") {
		result |= canvas.FontItalic
	}
	if strings.Contains(style, "B") && !strings.Contains(s, "bold") && !strings.Contains(s, "black") {
		result = canvas.FontBold | (result & canvas.FontItalic)
	}
	return result
}

func colorFromLayout(c layout.RGB) color.Color {
	return canvas.RGBA(c.R, c.G, c.B, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
