// Package linebreak 将一段文本按宽度约束拆分为多行。
// 宽度的计量由调用方提供的 MeasureFunc 决定，本包不关心字体与单位。
package linebreak

import (
	"math"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Rule 表示折行策略。
type Rule int

const (
	// Normal 只在空白处折行；超出宽度的单词独占一行，不做拆分。
	Normal Rule = iota
	// Anywhere 优先在空白处折行，单词本身超宽时按字符拆分。
	Anywhere
	// BreakAll 纯按字符宽度切分，不偏好空白。
	BreakAll
	// NoWrap 只按显式换行划分。
	NoWrap
	// Unicode 使用 UAX #14 的断行机会。
	Unicode
)

// MeasureFunc 返回一段文本的宽度。
type MeasureFunc func(text string) float64

// ParseRule 将 DSL 中的书写形式规范化为 Rule，无法识别时返回 Normal。
func ParseRule(v string) Rule {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "anywhere", "overflow-wrap:anywhere", "overflow-anywhere":
		return Anywhere
	case "break-all", "break-word", "word-break:break-word":
		return BreakAll
	case "nowrap", "no-wrap":
		return NoWrap
	case "unicode", "uax14":
		return Unicode
	default:
		return Normal
	}
}

func (r Rule) String() string {
	switch r {
	case Anywhere:
		return "anywhere"
	case BreakAll:
		return "break-all"
	case NoWrap:
		return "nowrap"
	case Unicode:
		return "unicode"
	default:
		return "normal"
	}
}

// Wrap 按 rule 将 content 拆分为宽度不超过 width 的若干行。
// width <= 0、NaN 或 +Inf 表示不限宽，此时只有显式换行会产生新行。
// 返回值至少包含一行（可能为空字符串）。
func Wrap(content string, rule Rule, width float64, measure MeasureFunc) []string {
	limit := width
	if limit <= 0 || math.IsNaN(limit) {
		limit = math.Inf(1)
	}

	var lines []string
	switch rule {
	case NoWrap:
		lines = wrapExplicit(content)
	case BreakAll:
		lines = wrapRunes(content, limit, measure)
	case Unicode:
		lines = wrapSegments(content, limit, measure)
	default:
		lines = wrapTokens(content, limit, measure, rule == Anywhere)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func wrapExplicit(content string) []string {
	content = strings.ReplaceAll(content, "\r", "")
	return strings.Split(content, "\n")
}

// builder 累积当前行，pending 保存单词之后尚未确定是否保留的空白。
type builder struct {
	measure MeasureFunc
	limit   float64

	lines   []string
	line    strings.Builder
	width   float64
	pending string
	pendW   float64
	// soft 为 true 表示当前行由自动折行开启，行首空白需丢弃。
	soft bool
}

func (b *builder) emit(force bool) {
	if b.line.Len() == 0 && !force {
		return
	}
	b.lines = append(b.lines, b.line.String())
	b.line.Reset()
	b.width = 0
	b.pending = ""
	b.pendW = 0
}

func (b *builder) hardBreak() {
	b.emit(true)
	b.soft = false
}

func (b *builder) softBreak() {
	b.emit(false)
	b.soft = true
}

func (b *builder) space(s string) {
	b.pending += s
	b.pendW += b.measure(s)
}

func (b *builder) flushPending() {
	if b.pending == "" {
		return
	}
	if b.line.Len() > 0 || !b.soft {
		b.line.WriteString(b.pending)
		b.width += b.pendW
	}
	b.pending = ""
	b.pendW = 0
}

// word 放置一个不可拆分的片段。
func (b *builder) word(w string, ww float64) {
	if b.line.Len() > 0 && b.width+b.pendW+ww > b.limit {
		b.softBreak()
	}
	b.flushPending()
	b.line.WriteString(w)
	b.width += ww
}

func wrapTokens(content string, limit float64, measure MeasureFunc, splitLong bool) []string {
	b := &builder{measure: measure, limit: limit}
	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			b.hardBreak()
			continue
		}
		if isSpaceToken(token) {
			b.space(token)
			continue
		}
		tw := measure(token)
		if !splitLong || tw <= limit {
			b.word(token, tw)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			b.word(chunk, measure(chunk))
		}
	}
	b.emit(true)
	return b.lines
}

func wrapRunes(content string, limit float64, measure MeasureFunc) []string {
	b := &builder{measure: measure, limit: limit}
	for _, r := range content {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			b.hardBreak()
			continue
		}
		s := string(r)
		cw := measure(s)
		if b.line.Len() > 0 && b.width+cw > limit {
			b.softBreak()
		}
		b.line.WriteString(s)
		b.width += cw
	}
	b.emit(true)
	return b.lines
}

func wrapSegments(content string, limit float64, measure MeasureFunc) []string {
	b := &builder{measure: measure, limit: limit}
	state := -1
	rest := content
	for len(rest) > 0 {
		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)
		word := strings.TrimRightFunc(segment, unicode.IsSpace)
		spaces := segment[len(word):]
		if word != "" {
			b.word(word, measure(word))
		}
		if mustBreak && strings.ContainsAny(spaces, "\n\v\f\r\u0085\u2028\u2029") {
			b.hardBreak()
			continue
		}
		if spaces != "" {
			b.space(spaces)
		}
	}
	b.emit(true)
	return b.lines
}

func isSpaceToken(token string) bool {
	for _, r := range token {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return token != ""
}

// tokenizeContent 将文本切分为单词、空白串与独立的 "\n"。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, measure MeasureFunc) []string {
	if limit <= 0 || math.IsInf(limit, 1) {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && measure(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = current[len(current)-1:]
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
