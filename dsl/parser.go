// Package dsl 定义 folio 布局描述语言的语法树与解析器。
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		// 较长的分支必须在前，否则 #0F62FE 会被截成 #0F6。
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][{},=;:]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document 是一个 .folio 文件：`doc Name version { sections }`。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是顶层段落之一。
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Script    *ScriptSection    `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
}

// Kind 返回段落类型名。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Script != nil:
		return "script"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection 是文档信息：title、author、subject、creator、keywords。
type MetaSection struct {
	Entries []*Property `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ResourcesSection 声明字体、颜色与样式。
type ResourcesSection struct {
	Decls []*Resource `parser:"'resources' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Resource 是一条资源声明。
type Resource struct {
	Font  *FontDecl  `parser:"  @@"`
	Color *ColorDecl `parser:"| @@"`
	Style *StyleDecl `parser:"| @@"`
}

// FontDecl 支持 `font Body "builtin:go-regular"` 与 `font Body { src: "..."; style: "bold" }`。
type FontDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'font' @Ident"`
	Src   *StringLiteral `parser:"@String?"`
	Props []*Property    `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// ColorDecl 为十六进制颜色命名：`color Accent = #0F62FE`，等号可省略。
type ColorDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'color' @Ident"`
	Value string         `parser:"'='? @Color"`
}

// StyleDecl 是可被元素引用的具名样式，可继承另一个样式。
type StyleDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'style' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Props   []*Property    `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ScriptSection 附加一段具名的文档级脚本。
type ScriptSection struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"'script' @Ident"`
	Code StringLiteral  `parser:"Newline* @String"`
}

// PageSection 是一页：`page A4 landscape { ... }` 或 `page w 500pt h 700pt { ... }`。
type PageSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []string       `parser:"'page' ( @Ident | @Number )*"`
	Body   *Body          `parser:"@@"`
}

// Body 是花括号内的子元素、字符串与属性赋值。
type Body struct {
	Items []*Item `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Item 是 Body 中的一项。
type Item struct {
	Element  *Element       `parser:"  @@"`
	Literal  *StringLiteral `parser:"| @String"`
	Property *Property      `parser:"| @@"`
}

// Element 是 div 或 text 元素：头部参数之后可跟一个 Body。
type Element struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Kind string         `parser:"@( 'div' | 'text' )"`
	Args []*Arg         `parser:"@@*"`
	Body *Body          `parser:"@@?"`
}

// Arg 是元素头部的一个参数：样式名、关键字、键、取值或正文字符串。
type Arg struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Word   *string        `parser:"  @Ident"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	String *StringLiteral `parser:"| @String"`
}

// Value 返回参数的文本形式。
func (a *Arg) Value() string {
	switch {
	case a.Word != nil:
		return *a.Word
	case a.Number != nil:
		return *a.Number
	case a.Color != nil:
		return *a.Color
	case a.String != nil:
		return string(*a.String)
	}
	return ""
}

// IsWord 报告参数是否为标识符。
func (a *Arg) IsWord() bool { return a.Word != nil }

// IsString 报告参数是否为字符串字面量。
func (a *Arg) IsString() bool { return a.String != nil }

// Property 是 `key: value` 赋值。
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value 是属性取值。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Word   *string        `parser:"| @Ident"`
	List   *List          `parser:"| @@"`
}

// List 是 `[ ... ]` 列表，元素之间以逗号或换行分隔。
type List struct {
	Items []*Value `parser:"'[' Newline* ( @@ ( ',' | Newline )* )* ']'"`
}

// StringLiteral 在捕获时按 Go 语法去掉引号与转义。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量缺少取值")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 io.Reader 解析 DSL。
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString 解析 DSL 字符串。
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
