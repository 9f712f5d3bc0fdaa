package compose

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/linebreak"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
)

const invoiceDSL = `doc Invoice v1 {
  meta {
    title: "账单 ${client.name}"
    author: "folio"
    keywords: ["a", "b"]
  }
  resources {
    font Body "builtin:go-regular"
    font Heading {
      src: "builtin:go-bold"
    }
    color Accent = #0F62FE
    style Base {
      font: Body
      size: 10pt
    }
    style Title extends Base {
      font: Heading
      size: 18pt
      color: Accent
    }
  }
  script print "this.print()"
  page w 500pt h 700pt {
    div h 100 row bg Accent {
      div w 20 shrink 0
      div grow 1 col items center justify between padding 4pt {
        text Title align center { "Hello, ${client.name}!" }
        text Base w 50% break anywhere leading 1.5x "${client.city|未知}"
      }
    }
    div absolute left -5 top 10 w 40 h 40 hidden
  }
}
`

var invoiceData = map[string]any{
	"client": map[string]any{"name": "ACME"},
}

// buildDSL 是测试辅助：解析 DSL 并转换为 layout.Document。
func buildDSL(t *testing.T, src string, data any) *layout.Document {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	out, err := Build(doc, Options{Data: data})
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	return out
}

func TestBuildResourcesAndMeta(t *testing.T) {
	doc := buildDSL(t, invoiceDSL, invoiceData)

	fonts := doc.Fonts()
	if len(fonts) != 2 {
		t.Fatalf("期望注册 2 个字体，实际 %d", len(fonts))
	}
	if src := fonts[0].Source(); src.Name != "Body" || src.Src != "builtin:go-regular" {
		t.Fatalf("Body 字体来源不符: %#v", src)
	}
	if src := fonts[1].Source(); src.Name != "Heading" || src.Src != "builtin:go-bold" {
		t.Fatalf("Heading 字体来源不符: %#v", src)
	}

	meta := doc.Meta()
	if meta.Title != "账单 ACME" || meta.Author != "folio" || meta.Creator != "folio" {
		t.Fatalf("元信息不符: %#v", meta)
	}
	if !reflect.DeepEqual(meta.Keywords, []string{"a", "b"}) {
		t.Fatalf("关键词不符: %v", meta.Keywords)
	}
	if got := doc.Scripts(); len(got) != 1 || got[0].Name != "print" || got[0].Code != "this.print()" {
		t.Fatalf("脚本不符: %#v", got)
	}
	pages := doc.Pages()
	if len(pages) != 1 || pages[0].Dimensions() != (layout.PageSize{W: 500, H: 700}) {
		t.Fatalf("页面尺寸不符: %#v", pages)
	}
}

func TestBuildElementTree(t *testing.T) {
	doc := buildDSL(t, invoiceDSL, invoiceData)
	fonts := doc.Fonts()
	accent := layout.Hex(0x0F62FE)

	top := doc.Pages()[0].Children()
	if len(top) != 2 {
		t.Fatalf("期望 2 个顶层元素，实际 %d", len(top))
	}
	row := top[0].(*layout.Div).Style()
	if row.Height != layout.Points(100) || row.Direction != layout.Row {
		t.Fatalf("外层容器样式不符: %#v", row)
	}
	if row.Fill == nil || *row.Fill != accent {
		t.Fatalf("背景应引用具名颜色: %v", row.Fill)
	}
	if len(row.Children) != 2 {
		t.Fatalf("期望 2 个子元素，实际 %d", len(row.Children))
	}

	fixed := row.Children[0].(*layout.Div).Style()
	if fixed.Width != layout.Points(20) || fixed.Shrink != 0 {
		t.Fatalf("固定列样式不符: %#v", fixed)
	}

	col := row.Children[1].(*layout.Div).Style()
	if col.Grow == nil || *col.Grow != 1 || col.Direction != layout.Column {
		t.Fatalf("伸展列样式不符: %#v", col)
	}
	if col.Items != layout.ItemsCenter || col.Justify != layout.JustifyBetween {
		t.Fatalf("对齐方式不符: %#v", col)
	}
	if col.Padding == nil || *col.Padding != 4 {
		t.Fatalf("内边距不符: %v", col.Padding)
	}

	title := col.Children[0].(*layout.Text).Style()
	if title.Content != "Hello, ACME!" {
		t.Fatalf("正文插值不符: %q", title.Content)
	}
	if title.Font != fonts[1] || title.Size != 18 || title.Color != accent || title.Align != layout.AlignCenter {
		t.Fatalf("继承样式应被子样式覆盖: %#v", title)
	}

	body := col.Children[1].(*layout.Text).Style()
	if body.Content != "未知" {
		t.Fatalf("缺失数据应使用 fallback: %q", body.Content)
	}
	if body.Font != fonts[0] || body.Size != 10 || body.Width != layout.Percent(50) {
		t.Fatalf("Base 样式不符: %#v", body)
	}
	if body.Break != linebreak.Anywhere || body.Leading != 1.5 {
		t.Fatalf("折行或行高不符: %#v", body)
	}

	badge := top[1].(*layout.Div).Style()
	if badge.Position != layout.PositionAbsolute || !badge.Overflow {
		t.Fatalf("绝对定位样式不符: %#v", badge)
	}
	if badge.Insets.Left == nil || *badge.Insets.Left != -5 || badge.Insets.Top == nil || *badge.Insets.Top != 10 {
		t.Fatalf("偏移不符: %#v", badge.Insets)
	}
}

func TestLeadingFromAbsoluteLength(t *testing.T) {
	src := `doc T v1 {
  page A5 {
    text size 10pt leading 15pt { "x" }
  }
}
`
	doc := buildDSL(t, src, nil)
	text := doc.Pages()[0].Children()[0].(*layout.Text).Style()
	if text.Leading != 1.5 {
		t.Fatalf("15pt 行高对应 10pt 字号应为 1.5 倍，实际 %g", text.Leading)
	}
	if doc.Pages()[0].Dimensions() != layout.A5 {
		t.Fatalf("应使用 A5 纸张")
	}
}

func TestResolvePageSize(t *testing.T) {
	cases := []struct {
		name    string
		params  []string
		want    layout.PageSize
		wantErr bool
	}{
		{"default", nil, layout.A4, false},
		{"letter landscape", []string{"letter", "landscape"}, layout.Letter.Landscape(), false},
		{"explicit", []string{"w", "500pt", "h", "10in"}, layout.PageSize{W: 500, H: 720}, false},
		{"unknown preset", []string{"B7"}, layout.PageSize{}, true},
		{"missing value", []string{"w"}, layout.PageSize{}, true},
		{"percent", []string{"w", "50%"}, layout.PageSize{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := resolvePageSize(c.params)
			if c.wantErr {
				if err == nil {
					t.Fatalf("期望错误，实际 %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("期望 %v，实际 %v", c.want, got)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			"style cycle",
			"doc T v1 {\n  resources {\n    style A extends B {\n      size: 1pt\n    }\n    style B extends A {\n      size: 2pt\n    }\n  }\n  page {\n  }\n}\n",
			"循环",
		},
		{
			"undefined font",
			"doc T v1 {\n  page {\n    text font Nope \"x\"\n  }\n}\n",
			"font Nope 未定义",
		},
		{
			"flex item on text",
			"doc T v1 {\n  page {\n    text grow 1 \"x\"\n  }\n}\n",
			"text 属性 grow",
		},
		{
			"unknown div attribute",
			"doc T v1 {\n  page {\n    div w 10 {\n      colour: red\n    }\n  }\n}\n",
			"div 属性 colour",
		},
		{
			"element inside text",
			"doc T v1 {\n  page {\n    text {\n      div w 10\n    }\n  }\n}\n",
			"text 不能包含子元素",
		},
		{
			"duplicate style",
			"doc T v1 {\n  resources {\n    style A { size: 1pt }\n    style A { size: 2pt }\n  }\n  page {\n  }\n}\n",
			"style A 重复定义",
		},
		{
			"page property",
			"doc T v1 {\n  page {\n    padding: 4pt\n  }\n}\n",
			"page 不支持属性",
		},
		{
			"missing page",
			"doc T v1 {\n  meta {\n    title: \"x\"\n  }\n}\n",
			"缺少 page",
		},
		{
			"bad color",
			"doc T v1 {\n  page {\n    div bg Nope\n  }\n}\n",
			"bg",
		},
		{
			"dangling key",
			"doc T v1 {\n  page {\n    div w\n  }\n}\n",
			"缺少取值",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := dsl.ParseString(c.src)
			if err != nil {
				t.Fatalf("解析 DSL 失败: %v", err)
			}
			_, err = Build(doc, Options{})
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("期望包含 %q 的错误，实际 %v", c.want, err)
			}
		})
	}
}

func TestBuildRendersPDF(t *testing.T) {
	doc := buildDSL(t, invoiceDSL, invoiceData)
	out, err := canvasrenderer.NewRenderer("").Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}
