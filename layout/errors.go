package layout

import (
	"errors"
	"fmt"
)

// ErrElementReused 表示同一个元素被挂到了第二棵布局树上。
var ErrElementReused = errors.New("layout: 元素的布局节点已属于另一棵布局树，不支持重复渲染")

// MissingFontError 表示文本既没有显式字体，画布也没有可用的默认字体。
type MissingFontError struct {
	Text string // 出错文本的前若干字符，便于定位
}

func (e *MissingFontError) Error() string {
	return fmt.Sprintf("layout: 文本 %q 缺少可用字体（未指定字体且画布没有默认字体）", e.Text)
}

// FontEmbeddingError 表示某个字体在文档组装阶段解析失败，整个文档随之放弃。
type FontEmbeddingError struct {
	Font *FontRef
	Err  error
}

func (e *FontEmbeddingError) Error() string {
	return fmt.Sprintf("layout: 嵌入字体 %s 失败: %v", e.Font, e.Err)
}

func (e *FontEmbeddingError) Unwrap() error { return e.Err }

// InvalidGeometryError 表示样式输入无法被布局求解器接受，例如负数尺寸。
type InvalidGeometryError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("layout: 布局求解失败: %s", e.Reason)
	}
	return fmt.Sprintf("layout: 样式 %s=%g 非法: %s", e.Field, e.Value, e.Reason)
}

// recoverGeometry 将求解器断言产生的 panic 转换为 InvalidGeometryError。
func recoverGeometry(err *error) {
	if r := recover(); r != nil {
		*err = &InvalidGeometryError{Reason: fmt.Sprint(r)}
	}
}

func excerpt(s string) string {
	const excerptRunes = 24
	runes := []rune(s)
	if len(runes) <= excerptRunes {
		return s
	}
	return string(runes[:excerptRunes]) + "…"
}
