package main

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexical token.
// TokenKind определяет вид лексического токена.
type TokenKind int

const (
	TokEndMarker TokenKind = iota
	TokName
	TokNumber
	TokString
	TokNewline
	TokIndent
	TokDedent
	TokOp
	TokComment
	TokNL
	TokError
)

var tokenKindNames = [...]string{
	TokEndMarker: "ENDMARKER",
	TokName:      "NAME",
	TokNumber:    "NUMBER",
	TokString:    "STRING",
	TokNewline:   "NEWLINE",
	TokIndent:    "INDENT",
	TokDedent:    "DEDENT",
	TokOp:        "OP",
	TokComment:   "COMMENT",
	TokNL:        "NL",
	TokError:     "ERRORTOKEN",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Position addresses a location in the buffer: Line is 1-based,
// Col is 0-based and counted in runes.
// Position адресует место в буфере: строка с 1, колонка с 0 (в рунах).
type Position struct {
	Line int
	Col  int
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

func (p Position) String() string {
	return fmt.Sprintf("%d.%d", p.Line, p.Col)
}

// Token is one lexical element of the source text.
// Token: один лексический элемент исходного текста.
type Token struct {
	Kind  TokenKind
	Text  string
	Start Position
	End   Position
	// Line is the physical source line holding Start.
	Line string
}

// TokenError describes the lexical error that stopped tokenization.
type TokenError struct {
	Msg string
	Pos Position
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("tokenize: %s at line %d, column %d", e.Msg, e.Pos.Line, e.Pos.Col)
}

// TokenizeResult holds every token produced before the end of input or
// before the first lexical error.
type TokenizeResult struct {
	Tokens           []Token
	TruncatedAtError bool
	Err              error
}

// Tokenize runs a Tokenizer over src and collects its tokens.
// Tokenize прогоняет Tokenizer по src и собирает токены.
func Tokenize(src string) TokenizeResult {
	t := NewTokenizer(src)
	var res TokenizeResult
	for {
		tok, ok := t.Next()
		if !ok {
			break
		}
		res.Tokens = append(res.Tokens, tok)
	}
	if err := t.Err(); err != nil {
		res.TruncatedAtError = true
		res.Err = err
	}
	return res
}

// Result state of a string literal scan.
const (
	strClosed = iota
	strOpen
	strBroken
)

// openString is a string literal that continues past the end of its line.
type openString struct {
	start Position
	line  string
	delim string
	text  strings.Builder
}

// Tokenizer lexes Python source lazily, one physical line at a time.
// Tokenizer лениво разбирает исходный код Python построчно.
type Tokenizer struct {
	lines     []string
	lnum      int
	line      string
	pos       int
	scanning  bool
	parenlev  int
	continued bool
	indents   []int
	queue     []Token
	str       *openString
	lastKind  TokenKind
	emitted   bool
	done      bool
	err       error
}

// NewTokenizer returns a Tokenizer over src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{
		lines:   splitLines(src),
		indents: []int{0},
	}
}

// Next returns the next token, or false once the input is exhausted or a
// lexical error was hit. Err tells the two apart.
func (t *Tokenizer) Next() (Token, bool) {
	for len(t.queue) == 0 {
		if t.done {
			return Token{}, false
		}
		if t.scanning {
			t.scanToken()
		} else {
			t.nextLine()
		}
	}
	tok := t.queue[0]
	t.queue = t.queue[1:]
	return tok, true
}

// Err returns the lexical error that stopped the tokenizer, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

func splitLines(src string) []string {
	var lines []string
	for len(src) > 0 {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			lines = append(lines, src)
			break
		}
		lines = append(lines, src[:i+1])
		src = src[i+1:]
	}
	return lines
}

func (t *Tokenizer) at(pos int) Position {
	return Position{Line: t.lnum, Col: utf8.RuneCountInString(t.line[:pos])}
}

func (t *Tokenizer) emit(kind TokenKind, text string, start, end Position, line string) {
	t.queue = append(t.queue, Token{Kind: kind, Text: text, Start: start, End: end, Line: line})
	t.lastKind = kind
	t.emitted = true
}

func (t *Tokenizer) fail(msg string, pos Position) {
	t.err = &TokenError{Msg: msg, Pos: pos}
	t.done = true
}

func (t *Tokenizer) nextLine() {
	if t.lnum >= len(t.lines) {
		t.finish()
		return
	}
	t.line = t.lines[t.lnum]
	t.lnum++
	t.pos = 0

	switch {
	case t.str != nil:
		t.continueString()
	case t.parenlev == 0 && !t.continued:
		t.indentation()
	default:
		t.continued = false
		t.scanning = true
	}
}

func (t *Tokenizer) indentation() {
	line := t.line
	column, pos := 0, 0
loop:
	for pos < len(line) {
		switch line[pos] {
		case ' ':
			column++
		case '\t':
			column = (column/8 + 1) * 8
		case '\f':
			column = 0
		default:
			break loop
		}
		pos++
	}
	t.pos = pos
	if pos == len(line) {
		return
	}

	if c := line[pos]; c == '#' || c == '\n' || c == '\r' {
		if c == '#' {
			end := commentEnd(line, pos)
			t.emit(TokComment, line[pos:end], t.at(pos), t.at(end), line)
			pos = end
		}
		t.emit(TokNL, line[pos:], t.at(pos), t.at(len(line)), line)
		return
	}

	if top := t.indents[len(t.indents)-1]; column > top {
		t.indents = append(t.indents, column)
		t.emit(TokIndent, line[:pos], Position{Line: t.lnum}, t.at(pos), line)
	}
	for column < t.indents[len(t.indents)-1] {
		if !containsInt(t.indents, column) {
			t.fail("unindent does not match any outer indentation level", t.at(pos))
			return
		}
		t.indents = t.indents[:len(t.indents)-1]
		t.emit(TokDedent, "", t.at(pos), t.at(pos), line)
	}
	t.scanning = true
}

func (t *Tokenizer) scanToken() {
	line := t.line
	pos := t.pos
	for pos < len(line) {
		c := line[pos]
		if c == ' ' || c == '\t' || c == '\f' || (c == '\r' && pos+1 < len(line) && line[pos+1] != '\n') {
			pos++
			continue
		}
		break
	}
	if pos >= len(line) {
		t.scanning = false
		return
	}

	start := pos
	c := line[pos]
	switch {
	case c == '\n' || c == '\r':
		kind := TokNewline
		if t.parenlev > 0 {
			kind = TokNL
		}
		t.emit(kind, line[pos:], t.at(pos), t.at(len(line)), line)
		t.scanning = false
		return
	case c == '#':
		pos = commentEnd(line, pos)
		t.emit(TokComment, line[start:pos], t.at(start), t.at(pos), line)
	case isDigit(c) || (c == '.' && pos+1 < len(line) && isDigit(line[pos+1])):
		pos = scanNumber(line, pos)
		t.emit(TokNumber, line[start:pos], t.at(start), t.at(pos), line)
	case c == '\'' || c == '"':
		t.scanString(start, pos)
		return
	case c == '\\':
		if rest := line[pos+1:]; rest == "" || rest == "\n" || rest == "\r\n" {
			t.continued = true
			t.scanning = false
			return
		}
		pos++
		t.emit(TokError, line[start:pos], t.at(start), t.at(pos), line)
	default:
		r, size := utf8.DecodeRuneInString(line[pos:])
		if isIdentStart(r) {
			pos += size
			for pos < len(line) {
				r, size = utf8.DecodeRuneInString(line[pos:])
				if !isIdentPart(r) {
					break
				}
				pos += size
			}
			if pos < len(line) && (line[pos] == '\'' || line[pos] == '"') && isStringPrefix(line[start:pos]) {
				t.scanString(start, pos)
				return
			}
			t.emit(TokName, line[start:pos], t.at(start), t.at(pos), line)
			break
		}
		if op := matchOperator(line[pos:]); op != "" {
			switch op {
			case "(", "[", "{":
				t.parenlev++
			case ")", "]", "}":
				if t.parenlev > 0 {
					t.parenlev--
				}
			}
			pos += len(op)
			t.emit(TokOp, op, t.at(start), t.at(pos), line)
			break
		}
		pos += size
		t.emit(TokError, line[start:pos], t.at(start), t.at(pos), line)
	}
	t.pos = pos
}

// scanString lexes a string literal whose optional prefix starts at start
// and whose opening quote sits at quote.
func (t *Tokenizer) scanString(start, quote int) {
	line := t.line
	delim := line[quote : quote+1]
	if triple := strings.Repeat(delim, 3); strings.HasPrefix(line[quote:], triple) {
		delim = triple
	}
	end, state := findStringEnd(line, quote+len(delim), delim)
	switch state {
	case strClosed:
		t.emit(TokString, line[start:end], t.at(start), t.at(end), line)
		t.pos = end
	case strOpen:
		s := &openString{start: t.at(start), line: line, delim: delim}
		s.text.WriteString(line[start:])
		t.str = s
		t.scanning = false
	default:
		t.fail("unterminated string literal", t.at(start))
	}
}

func (t *Tokenizer) continueString() {
	s := t.str
	end, state := findStringEnd(t.line, 0, s.delim)
	switch state {
	case strClosed:
		s.text.WriteString(t.line[:end])
		t.emit(TokString, s.text.String(), s.start, t.at(end), s.line)
		t.str = nil
		t.pos = end
		t.scanning = true
	case strOpen:
		s.text.WriteString(t.line)
	default:
		t.fail("unterminated string literal", s.start)
	}
}

func (t *Tokenizer) finish() {
	t.done = true
	if t.str != nil {
		t.fail("EOF in multi-line string", t.str.start)
		return
	}
	eof := Position{Line: len(t.lines) + 1}
	if t.parenlev > 0 || t.continued {
		t.fail("EOF in multi-line statement", eof)
		return
	}

	if n := len(t.lines); n > 0 {
		last := t.lines[n-1]
		if !strings.HasSuffix(last, "\n") && t.emitted && t.lastKind != TokNewline && t.lastKind != TokNL {
			end := t.endPosition()
			t.emit(TokNewline, "", end, Position{Line: end.Line, Col: end.Col + 1}, last)
		}
	}
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.emit(TokDedent, "", eof, eof, "")
	}
	t.emit(TokEndMarker, "", eof, eof, "")
}

func (t *Tokenizer) endPosition() Position {
	n := len(t.lines)
	if n == 0 {
		return Position{Line: 1}
	}
	return Position{Line: n, Col: utf8.RuneCountInString(t.lines[n-1])}
}

// findStringEnd looks for delim in line starting at i. A single-quoted
// literal may only continue to the next line through a trailing backslash.
func findStringEnd(line string, i int, delim string) (int, int) {
	for i < len(line) {
		c := line[i]
		if c == '\\' {
			if rest := line[i+1:]; rest == "\n" || rest == "\r\n" {
				return len(line), strOpen
			}
			i += 2
			continue
		}
		if strings.HasPrefix(line[i:], delim) {
			return i + len(delim), strClosed
		}
		if c == '\n' && len(delim) == 1 {
			return i, strBroken
		}
		i++
	}
	if len(delim) == 3 {
		return len(line), strOpen
	}
	return len(line), strBroken
}

func commentEnd(line string, pos int) int {
	if i := strings.IndexAny(line[pos:], "\r\n"); i >= 0 {
		return pos + i
	}
	return len(line)
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "f", "b", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

// scanNumber returns the end of the numeric literal starting at line[i].
func scanNumber(line string, i int) int {
	n := len(line)
	digits := func(i int, ok func(byte) bool) int {
		for i < n && (ok(line[i]) || line[i] == '_') {
			i++
		}
		return i
	}

	if line[i] == '0' && i+1 < n {
		switch line[i+1] {
		case 'x', 'X':
			return digits(i+2, isHexDigit)
		case 'o', 'O':
			return digits(i+2, func(c byte) bool { return c >= '0' && c <= '7' })
		case 'b', 'B':
			return digits(i+2, func(c byte) bool { return c == '0' || c == '1' })
		}
	}

	i = digits(i, isDigit)
	if i < n && line[i] == '.' {
		i = digits(i+1, isDigit)
	}
	if i < n && (line[i] == 'e' || line[i] == 'E') {
		j := i + 1
		if j < n && (line[j] == '+' || line[j] == '-') {
			j++
		}
		if j < n && isDigit(line[j]) {
			i = digits(j, isDigit)
		}
	}
	if i < n && (line[i] == 'j' || line[i] == 'J') {
		i++
	}
	return i
}

var (
	threeCharOps = map[string]bool{"**=": true, "//=": true, ">>=": true, "<<=": true, "...": true}
	twoCharOps   = map[string]bool{
		"**": true, "//": true, ">>": true, "<<": true, "<=": true, ">=": true,
		"==": true, "!=": true, "->": true, "+=": true, "-=": true, "*=": true,
		"/=": true, "%=": true, "&=": true, "|=": true, "^=": true, "@=": true,
		":=": true,
	}
)

const oneCharOps = "+-*/%&|^~<>()[]{},:;.=@"

func matchOperator(s string) string {
	if len(s) >= 3 && threeCharOps[s[:3]] {
		return s[:3]
	}
	if len(s) >= 2 && twoCharOps[s[:2]] {
		return s[:2]
	}
	if strings.IndexByte(oneCharOps, s[0]) >= 0 {
		return s[:1]
	}
	return ""
}

var (
	defLinePattern   = regexp.MustCompile(`^\s*def\s+([\p{L}_][\p{L}\p{N}_]*)\s*\(([^)]*)\)\s*(?:->\s*([^:]+))?:`)
	classLinePattern = regexp.MustCompile(`^\s*class\s+([\p{L}_][\p{L}\p{N}_]*)\s*(\([a-zA-Z_]+\))?:`)
)

// IsDefinitionName reports whether tok is the name being defined by a
// `def name(args) [-> ret]:` or `class Name[(Base)]:` header on sourceLine.
// IsDefinitionName сообщает, является ли tok именем, определяемым в строке.
func IsDefinitionName(tok Token, sourceLine string) bool {
	if tok.Kind != TokName {
		return false
	}
	for _, re := range []*regexp.Regexp{defLinePattern, classLinePattern} {
		if m := re.FindStringSubmatch(sourceLine); m != nil && m[1] == tok.Text {
			return true
		}
	}
	return false
}
