package linebreak

import (
	"math"
	"testing"
	"unicode/utf8"
)

// monospace 每个字符宽度为 1。
func monospace(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrapOneWordPerLine(t *testing.T) {
	// 每个单词宽 5，两个单词加空格宽 11，限宽 8：每行只能容纳一个单词。
	lines := Wrap("alpha bravo delta gamma", Normal, 8, monospace)
	want := []string{"alpha", "bravo", "delta", "gamma"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got=%q want=%q", i, lines[i], want[i])
		}
	}
}

func TestWrapOverlongWordStaysWhole(t *testing.T) {
	lines := Wrap("supercalifragilistic", Normal, 5, monospace)
	if len(lines) != 1 {
		t.Fatalf("超宽单词应独占一行，实际 %d 行: %q", len(lines), lines)
	}
	if lines[0] != "supercalifragilistic" {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestWrapAnywhereSplitsOverlongWord(t *testing.T) {
	lines := Wrap("aaaaaaaaaaaa", Anywhere, 5, monospace)
	if len(lines) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(lines), lines)
	}
	for i, ln := range lines {
		if w := monospace(ln); w > 5 {
			t.Fatalf("line %d width exceeds limit: %g", i, w)
		}
	}
}

func TestWrapHonorsNewlines(t *testing.T) {
	lines := Wrap("foo\n\nbar", Normal, 100, monospace)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1] != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1])
	}
}

// 当第一行宽度与限宽恰好相等且后面紧跟显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	lines := Wrap("SAMPLE-A\nSAMPLE-B", Normal, monospace("SAMPLE-A"), monospace)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines without blank, got %d: %q", len(lines), lines)
	}
}

func TestWrapEmptyStringYieldsOneLine(t *testing.T) {
	for _, rule := range []Rule{Normal, Anywhere, BreakAll, NoWrap, Unicode} {
		lines := Wrap("", rule, 10, monospace)
		if len(lines) != 1 || lines[0] != "" {
			t.Fatalf("%s: expected a single empty line, got %q", rule, lines)
		}
	}
}

func TestWrapUnconstrainedWidth(t *testing.T) {
	for _, width := range []float64{0, -1, math.Inf(1), math.NaN()} {
		lines := Wrap("one two three\nfour", Normal, width, monospace)
		if len(lines) != 2 {
			t.Fatalf("width=%g: expected 2 lines, got %q", width, lines)
		}
		if lines[0] != "one two three" {
			t.Fatalf("width=%g: unexpected first line %q", width, lines[0])
		}
	}
}

func TestWrapDropsWhitespaceAtSoftBreak(t *testing.T) {
	lines := Wrap("ab   cd", Normal, 3, monospace)
	if len(lines) != 2 || lines[0] != "ab" || lines[1] != "cd" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestWrapBreakAll(t *testing.T) {
	lines := Wrap("ab cdef", BreakAll, 3, monospace)
	want := []string{"ab ", "cde", "f"}
	if len(lines) != len(want) {
		t.Fatalf("expected %q, got %q", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got=%q want=%q", i, lines[i], want[i])
		}
	}
}

func TestWrapNoWrapIgnoresWidth(t *testing.T) {
	lines := Wrap("a very long line\r\nnext", NoWrap, 2, monospace)
	if len(lines) != 2 || lines[0] != "a very long line" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestWrapUnicodeRule(t *testing.T) {
	lines := Wrap("alpha bravo delta", Unicode, 8, monospace)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	lines = Wrap("alpha\nbravo", Unicode, 100, monospace)
	if len(lines) != 2 || lines[0] != "alpha" || lines[1] != "bravo" {
		t.Fatalf("mandatory break not honored: %q", lines)
	}
}

func TestParseRule(t *testing.T) {
	cases := map[string]Rule{
		"":           Normal,
		"normal":     Normal,
		"anywhere":   Anywhere,
		"Break-Word": BreakAll,
		"break-all":  BreakAll,
		"nowrap":     NoWrap,
		"no-wrap":    NoWrap,
		"unicode":    Unicode,
		"bogus":      Normal,
	}
	for in, want := range cases {
		if got := ParseRule(in); got != want {
			t.Fatalf("ParseRule(%q) = %s, want %s", in, got, want)
		}
	}
}
