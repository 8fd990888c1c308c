// File: scanner.go
// Title: ArcaneQuest Lexical Analyzer
// Description: Converts ArcaneQuest source text into a flat token stream.
//              Tracks indentation with a width stack and synthesizes
//              INDENT/DEDENT tokens, merges multi-line triple-quoted strings
//              and reports lexical problems as UNKNOWN tokens instead of
//              failing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial scanner implementation

package scanner

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// IndentMode controls how indentation increases are validated
type IndentMode int

const (
	// IndentMultiple accepts any multiple of the indent unit
	IndentMultiple IndentMode = iota
	// IndentExact accepts exactly one indent unit per level
	IndentExact
)

// String returns the configuration name of the mode
func (m IndentMode) String() string {
	if m == IndentExact {
		return "exact"
	}
	return "multiple"
}

// ParseIndentMode converts a configuration value into an IndentMode
func ParseIndentMode(s string) (IndentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multiple":
		return IndentMultiple, nil
	case "exact":
		return IndentExact, nil
	}
	return IndentMultiple, fmt.Errorf("unknown indent mode %q", s)
}

// Options configures the scanner
type Options struct {
	TabWidth   int        // Columns counted for a leading tab
	IndentMode IndentMode // Validation of indentation increases
}

// DefaultOptions returns the default scanner configuration
func DefaultOptions() Options {
	return Options{
		TabWidth:   4,
		IndentMode: IndentMultiple,
	}
}

// Scanner tokenizes ArcaneQuest source. A Scanner is not safe for
// concurrent use; create one per goroutine.
type Scanner struct {
	opts    Options
	tokens  []Token
	indents []int
	unit    int
}

// New creates a scanner with the given options
func New(opts Options) *Scanner {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultOptions().TabWidth
	}
	return &Scanner{opts: opts}
}

// Tokenize scans source with the default options
func Tokenize(source string) []Token {
	return New(DefaultOptions()).Tokenize(source)
}

// Tokenize converts source into tokens. It never fails: malformed input is
// reported through UNKNOWN tokens and the stream always ends with EOF.
func (s *Scanner) Tokenize(source string) []Token {
	s.tokens = make([]Token, 0, len(source)/3+4)
	s.indents = []int{0}
	s.unit = 0

	last := 0
	for _, ln := range splitLogicalLines(source) {
		s.scanLine(ln)
		last = ln.end
	}

	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(DEDENT, "", last+1, 0)
	}
	s.emit(EOF, "", last+1, 0)

	return s.tokens
}

// logicalLine is one or more physical lines joined by an open triple string
type logicalLine struct {
	text  string
	start int // first physical line (1-based)
	end   int // last physical line
}

func splitLogicalLines(source string) []logicalLine {
	if source == "" {
		return nil
	}
	physical := strings.Split(source, "\n")
	if len(physical) > 1 && physical[len(physical)-1] == "" {
		physical = physical[:len(physical)-1]
	}
	for i := range physical {
		physical[i] = strings.TrimSuffix(physical[i], "\r")
	}

	lines := make([]logicalLine, 0, len(physical))
	for i := 0; i < len(physical); i++ {
		ln := logicalLine{text: physical[i], start: i + 1, end: i + 1}
		for hasOpenTripleString(ln.text) && i+1 < len(physical) {
			i++
			ln.text += "\n" + physical[i]
			ln.end = i + 1
		}
		lines = append(lines, ln)
	}
	return lines
}

// hasOpenTripleString reports whether text opens a triple-quoted string
// that it does not close.
func hasOpenTripleString(text string) bool {
	_, _, open := splitComment(text)
	return open
}

// splitComment separates code from a trailing comment. The marker is only
// recognised outside string literals. open is set when a triple-quoted
// string runs past the end of text.
func splitComment(text string) (code string, commentAt int, open bool) {
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], `"""`) || strings.HasPrefix(text[i:], `'''`):
			delim := text[i : i+3]
			end := strings.Index(text[i+3:], delim)
			if end < 0 {
				return text, -1, true
			}
			i += 3 + end + 3
		case text[i] == '"' || text[i] == '\'':
			i, _ = skipQuoted(text, i)
		case strings.HasPrefix(text[i:], CommentMarker):
			return text[:i], i, false
		default:
			i++
		}
	}
	return text, -1, false
}

// skipQuoted returns the index just past the string starting at i, or the
// end of the physical line when the string is not closed.
func skipQuoted(text string, i int) (int, bool) {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '\n':
			return j, false
		case quote:
			return j + 1, true
		}
	}
	return len(text), false
}

func (s *Scanner) scanLine(ln logicalLine) {
	text := ln.text
	loc := newLocator(ln)

	if strings.TrimSpace(text) == "" {
		s.emit(NEWLINE, "", ln.start, 0)
		return
	}

	code, commentAt, _ := splitComment(text)
	if strings.TrimSpace(code) == "" {
		line, col := loc.at(commentAt)
		s.emit(COMMENT, strings.TrimSpace(text[commentAt+len(CommentMarker):]), line, col)
		s.emit(NEWLINE, "", ln.end, len(code))
		return
	}

	width, pos := s.leadingWidth(code)
	s.indent(width, ln.start)
	s.scanCode(code, pos, loc)

	if commentAt >= 0 {
		line, col := loc.at(commentAt)
		s.emit(COMMENT, strings.TrimSpace(text[commentAt+len(CommentMarker):]), line, col)
	}
	_, col := loc.at(len(text))
	s.emit(NEWLINE, "", ln.end, col)
}

// leadingWidth measures indentation with tabs expanded
func (s *Scanner) leadingWidth(code string) (width, pos int) {
	for pos < len(code) {
		switch code[pos] {
		case ' ':
			width++
		case '\t':
			width += s.opts.TabWidth
		default:
			return width, pos
		}
		pos++
	}
	return width, pos
}

func (s *Scanner) indent(width, line int) {
	top := s.indents[len(s.indents)-1]

	switch {
	case width > top:
		increase := width - top
		if s.unit == 0 {
			s.unit = increase
		} else if !s.consistentIncrease(increase) {
			s.emit(UNKNOWN, s.inconsistentIndentMessage(), line, 0)
		}
		s.indents = append(s.indents, width)
		s.emit(INDENT, "", line, width)

	case width < top:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(DEDENT, "", line, width)
		}
		if s.indents[len(s.indents)-1] != width {
			s.emit(UNKNOWN, "IndentationError: unindent does not match any outer indentation level", line, 0)
		}
	}
}

func (s *Scanner) consistentIncrease(increase int) bool {
	if s.opts.IndentMode == IndentExact {
		return increase == s.unit
	}
	return increase%s.unit == 0
}

func (s *Scanner) inconsistentIndentMessage() string {
	if s.opts.IndentMode == IndentExact {
		return fmt.Sprintf("IndentationError: inconsistent indent (expected exactly %d spaces)", s.unit)
	}
	return fmt.Sprintf("IndentationError: inconsistent indent (expected multiple of %d spaces)", s.unit)
}

func (s *Scanner) scanCode(code string, pos int, loc locator) {
	for pos < len(code) {
		c := code[pos]
		line, col := loc.at(pos)

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\n':
			pos++

		case strings.HasPrefix(code[pos:], `"""`) || strings.HasPrefix(code[pos:], `'''`):
			delim := code[pos : pos+3]
			end := strings.Index(code[pos+3:], delim)
			if end < 0 {
				s.emit(UNKNOWN, "unterminated triple-quoted string", line, col)
				return
			}
			next := pos + 3 + end + 3
			s.emit(STRING, code[pos:next], line, col)
			pos = next

		case c == '"' || c == '\'':
			next, closed := skipQuoted(code, pos)
			if !closed {
				s.emit(UNKNOWN, "unterminated string literal", line, col)
				pos = next
				continue
			}
			s.emit(STRING, code[pos:next], line, col)
			pos = next

		case c >= '0' && c <= '9':
			next := scanNumber(code, pos)
			s.emit(NUMBER, code[pos:next], line, col)
			pos = next

		case isLetter(c):
			next := pos + 1
			for next < len(code) && (isLetter(code[next]) || (code[next] >= '0' && code[next] <= '9')) {
				next++
			}
			word := code[pos:next]
			s.emit(classifyWord(word), word, line, col)
			pos = next

		default:
			if op := matchMultiCharOp(code[pos:]); op != "" {
				s.emit(OPERATOR, op, line, col)
				pos += len(op)
				continue
			}
			if strings.IndexByte(singleCharPunct, c) >= 0 {
				s.emitPunct(string(c), line, col)
				pos++
				continue
			}
			r, size := utf8.DecodeRuneInString(code[pos:])
			s.emit(UNKNOWN, fmt.Sprintf("unrecognized character '%c'", r), line, col)
			pos += size
		}
	}
}

func scanNumber(code string, pos int) int {
	next := pos
	for next < len(code) && code[next] >= '0' && code[next] <= '9' {
		next++
	}
	if next+1 < len(code) && code[next] == '.' && code[next+1] >= '0' && code[next+1] <= '9' {
		next++
		for next < len(code) && code[next] >= '0' && code[next] <= '9' {
			next++
		}
	}
	return next
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func classifyWord(word string) Kind {
	switch {
	case IsKeyword(word):
		return KEYWORD
	case IsDatatype(word):
		return DATATYPE
	}
	if _, ok := Literals[word]; ok {
		return LITERAL
	}
	if WordOperators[word] {
		return OPERATOR
	}
	return IDENTIFIER
}

func matchMultiCharOp(rest string) string {
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

// emitPunct classifies single-character punctuation. The candidates
// + - ! ~ are unary in prefix position and become operators.
func (s *Scanner) emitPunct(p string, line, col int) {
	if !strings.Contains(unaryCandidates, p) {
		s.emit(PUNCT, p, line, col)
		return
	}
	if s.prefixPosition() {
		s.tokens = append(s.tokens, Token{Kind: OPERATOR, Lexeme: p, Line: line, Column: col, Unary: true})
		return
	}
	if p == "+" || p == "-" {
		s.emit(OPERATOR, p, line, col)
		return
	}
	s.emit(PUNCT, p, line, col)
}

func (s *Scanner) prefixPosition() bool {
	if len(s.tokens) == 0 {
		return true
	}
	prev := s.tokens[len(s.tokens)-1]
	switch prev.Kind {
	case OPERATOR, NEWLINE, INDENT:
		return true
	}
	return unaryAfter[prev.Lexeme]
}

func (s *Scanner) emit(kind Kind, lexeme string, line, col int) {
	s.tokens = append(s.tokens, Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col})
}

// locator maps byte offsets of a logical line to physical positions
type locator struct {
	start    int
	newlines []int
}

func newLocator(ln logicalLine) locator {
	l := locator{start: ln.start}
	for i := 0; i < len(ln.text); i++ {
		if ln.text[i] == '\n' {
			l.newlines = append(l.newlines, i)
		}
	}
	return l
}

func (l locator) at(offset int) (line, col int) {
	n := sort.SearchInts(l.newlines, offset)
	if n == 0 {
		return l.start, offset
	}
	return l.start + n, offset - l.newlines[n-1] - 1
}
