package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/folio/dsl"
)

const sampleDSL = `
doc Invoice v1 {
  meta {
    title: "Invoice"
    keywords: [
      "finance"
      "internal"
    ]
  }

  resources {
    font Body {
      src: "builtin:go-regular"
    }
    font Mono "builtin:go-mono"

    color Accent = #0F62FE
    color Shade #0F62FE80
    style Title extends Base { font: Body; size: 18pt; color: Accent }
  }

  script print "this.print({bUI: false})"

  page A4 landscape {
    div h 100 row bg Accent {
      div w 20 shrink 0 left -5
      text Title align center { "Hello, ${user.name}!" }
      padding: 4pt
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Invoice" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}
	kinds := []string{"meta", "resources", "script", "page"}
	if len(doc.Sections) != len(kinds) {
		t.Fatalf("expected %d sections, got %d", len(kinds), len(doc.Sections))
	}
	for i, want := range kinds {
		if got := doc.Sections[i].Kind(); got != want {
			t.Fatalf("section %d: expected %s, got %s", i, want, got)
		}
	}

	meta := doc.Sections[0].Meta
	if len(meta.Entries) != 2 {
		t.Fatalf("expected 2 meta entries, got %d", len(meta.Entries))
	}
	if title := meta.Entries[0]; title.Key != "title" || string(*title.Value.String) != "Invoice" {
		t.Fatalf("unexpected title entry: %+v", title)
	}
	keywords := meta.Entries[1].Value.List
	if keywords == nil || len(keywords.Items) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", meta.Entries[1].Value)
	}

	decls := doc.Sections[1].Resources.Decls
	if len(decls) != 5 {
		t.Fatalf("expected 5 resource declarations, got %d", len(decls))
	}
	body := decls[0].Font
	if body == nil || body.Name != "Body" || body.Src != nil || len(body.Props) != 1 {
		t.Fatalf("unexpected block font: %+v", decls[0])
	}
	mono := decls[1].Font
	if mono == nil || mono.Src == nil || string(*mono.Src) != "builtin:go-mono" {
		t.Fatalf("unexpected inline font: %+v", decls[1])
	}
	if c := decls[2].Color; c == nil || c.Name != "Accent" || c.Value != "#0F62FE" {
		t.Fatalf("unexpected color: %+v", decls[2])
	}
	if c := decls[3].Color; c == nil || c.Name != "Shade" || c.Value != "#0F62FE80" {
		t.Fatalf("color without '=' should parse: %+v", decls[3])
	}
	style := decls[4].Style
	if style == nil || style.Name != "Title" || style.Extends != "Base" || len(style.Props) != 3 {
		t.Fatalf("inline style should hold 3 properties: %+v", decls[4])
	}
	if size := style.Props[1]; size.Key != "size" || *size.Value.Number != "18pt" {
		t.Fatalf("unexpected style property: %+v", size)
	}

	script := doc.Sections[2].Script
	if script.Name != "print" || !strings.Contains(string(script.Code), "this.print") {
		t.Fatalf("unexpected script: %+v", script)
	}

	page := doc.Sections[3].Page
	if got := strings.Join(page.Params, " "); got != "A4 landscape" {
		t.Fatalf("unexpected page params: %s", got)
	}
	div := page.Body.Items[0].Element
	if div == nil || div.Kind != "div" {
		t.Fatalf("expected div element, got %+v", page.Body.Items[0])
	}
	if got := argsToString(div.Args); got != "h 100 row bg Accent" {
		t.Fatalf("unexpected div args: %s", got)
	}
	if len(div.Body.Items) != 3 {
		t.Fatalf("div body should hold 3 items, got %d", len(div.Body.Items))
	}
	inner := div.Body.Items[0].Element
	if got := argsToString(inner.Args); got != "w 20 shrink 0 left -5" || inner.Body != nil {
		t.Fatalf("unexpected nested div: %s", got)
	}
	text := div.Body.Items[1].Element
	if text == nil || text.Kind != "text" || text.Body == nil {
		t.Fatalf("expected text element with body, got %+v", div.Body.Items[1])
	}
	if lit := text.Body.Items[0].Literal; lit == nil || !strings.Contains(string(*lit), "${user.name}") {
		t.Fatalf("expected interpolation in text literal")
	}
	if prop := div.Body.Items[2].Property; prop == nil || prop.Key != "padding" {
		t.Fatalf("expected padding property, got %+v", div.Body.Items[2])
	}
}

func TestParseArgKinds(t *testing.T) {
	doc, err := dsl.ParseString(`doc T v1 { page { text Base bg #abc size 9pt "x" } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	args := doc.Sections[0].Page.Body.Items[0].Element.Args
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
	if !args[0].IsWord() || args[2].Color == nil || args[4].Number == nil || !args[5].IsString() {
		t.Fatalf("unexpected arg kinds: %s", argsToString(args))
	}
}

func TestParseCustomPageSize(t *testing.T) {
	doc, err := dsl.ParseString(`doc T v1 { page w 500pt h 700pt { } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	page := doc.Sections[0].Page
	if got := strings.Join(page.Params, " "); got != "w 500pt h 700pt" {
		t.Fatalf("unexpected page params: %s", got)
	}
	if len(page.Body.Items) != 0 {
		t.Fatalf("expected empty page body")
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unterminated block": `doc T v1 { page A4 { div { } `,
		"unknown element":    "doc T v1 {\n  page {\n    image logo\n  }\n}\n",
		"unknown resource":   "doc T v1 {\n  resources {\n    icon Logo \"x.svg\"\n  }\n}\n",
		"color needs hex":    "doc T v1 {\n  resources {\n    color Accent = blue\n  }\n}\n",
	}
	for name, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func argsToString(args []*dsl.Arg) string {
	values := make([]string, 0, len(args))
	for _, a := range args {
		values = append(values, a.Value())
	}
	return strings.Join(values, " ")
}
