package layout

import "github.com/kjk/flex"

// 求解器只给出相对父节点的偏移，绘制前需要沿父链累加成页面绝对坐标。
// 两个函数都必须在整页求解完成之后调用。

// AbsoluteLeft 返回节点相对页面根节点的左偏移，根节点本身不计入。
func AbsoluteLeft(node *flex.Node) float64 {
	var x float64
	for n := node; n != nil && n.Parent != nil; n = n.Parent {
		x += float64(n.LayoutGetLeft())
	}
	return x
}

// AbsoluteTop 返回节点相对页面根节点的上偏移，根节点本身不计入。
func AbsoluteTop(node *flex.Node) float64 {
	var y float64
	for n := node; n != nil && n.Parent != nil; n = n.Parent {
		y += float64(n.LayoutGetTop())
	}
	return y
}

// canvasRectY 将布局空间中的矩形上边转换为画布空间中的矩形下边。
func canvasRectY(pageHeight, layoutTop, height float64) float64 {
	return pageHeight - layoutTop - height
}

// canvasTopY 返回布局上边在画布空间中的 Y 值，文本基线从这里推算。
func canvasTopY(pageHeight, layoutTop float64) float64 {
	return pageHeight - layoutTop
}

// geometry 读取节点求解后的盒子，坐标已换算为页面绝对值。
func geometry(node *flex.Node) Box {
	return Box{
		Left:   AbsoluteLeft(node),
		Top:    AbsoluteTop(node),
		Width:  float64(node.LayoutGetWidth()),
		Height: float64(node.LayoutGetHeight()),
	}
}
