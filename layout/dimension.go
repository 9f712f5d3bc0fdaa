package layout

import (
	"math"

	"github.com/kjk/flex"
)

// DimKind 区分尺寸的三种取值方式。
type DimKind int

const (
	DimUnset DimKind = iota
	DimPoints
	DimPercent
	DimAuto
)

// Dimension 是宽高样式：绝对值（pt）、百分比或 auto。零值表示未设置。
type Dimension struct {
	Kind  DimKind `json:"kind"`
	Value float64 `json:"value,omitempty"`
}

func Points(v float64) Dimension  { return Dimension{Kind: DimPoints, Value: v} }
func Percent(p float64) Dimension { return Dimension{Kind: DimPercent, Value: p} }
func Auto() Dimension             { return Dimension{Kind: DimAuto} }

// IsSet 报告该尺寸是否被显式设置过。
func (d Dimension) IsSet() bool { return d.Kind != DimUnset }

func (d Dimension) validate(field string) error {
	switch d.Kind {
	case DimPoints, DimPercent:
		if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
			return &InvalidGeometryError{Field: field, Value: d.Value, Reason: "不是有限数值"}
		}
		if d.Value < 0 {
			return &InvalidGeometryError{Field: field, Value: d.Value, Reason: "不能为负数"}
		}
	}
	return nil
}

func (d Dimension) applyWidth(node *flex.Node) {
	switch d.Kind {
	case DimPoints:
		node.StyleSetWidth(float32(d.Value))
	case DimPercent:
		node.StyleSetWidthPercent(float32(d.Value))
	case DimAuto:
		node.StyleSetWidthAuto()
	}
}

func (d Dimension) applyHeight(node *flex.Node) {
	switch d.Kind {
	case DimPoints:
		node.StyleSetHeight(float32(d.Value))
	case DimPercent:
		node.StyleSetHeightPercent(float32(d.Value))
	case DimAuto:
		node.StyleSetHeightAuto()
	}
}
