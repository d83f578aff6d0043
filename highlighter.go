package main

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TagAssignment records one span the highlighter tagged.
// TagAssignment: один помеченный подсветкой диапазон.
type TagAssignment struct {
	Tag   string
	Start Position
	End   Position
}

// HighlightResult describes a finished highlight pass.
type HighlightResult struct {
	Assignments []TagAssignment
	// Tokens is the number of tokens produced before the end of input or
	// the first lexical error.
	Tokens int
	// Keywords and Builtins count the NAME tokens whose text is a keyword
	// or a builtin, keyword first.
	Keywords         int
	Builtins         int
	TruncatedAtError bool
	TokenErr         error
}

// SyntaxEngine colors Python source held in a TextBuffer according to its
// ColorScheme. Every pass recomputes all tags from scratch.
// SyntaxEngine подсвечивает код Python в TextBuffer по цветовой схеме.
type SyntaxEngine struct {
	scheme   *ColorScheme
	keywords []string
	builtins []string
}

// NewSyntaxEngine returns an engine bound to scheme. Names that are both
// keywords and builtins (True, False, None) are treated as keywords only.
func NewSyntaxEngine(scheme *ColorScheme) *SyntaxEngine {
	s := &SyntaxEngine{
		scheme:   scheme,
		keywords: append([]string(nil), pythonKeywords...),
	}
	for _, name := range pythonBuiltins {
		if !IsKeyword(name) {
			s.builtins = append(s.builtins, name)
		}
	}
	return s
}

// Scheme returns the engine's color scheme.
func (s *SyntaxEngine) Scheme() *ColorScheme { return s.scheme }

// Highlight retags the whole buffer. A lexical error only truncates the
// token-driven part of the pass and is reported in the result; the
// returned error is reserved for a broken color scheme or a buffer that
// rejects a color.
// Highlight заново расставляет теги во всём буфере.
func (s *SyntaxEngine) Highlight(buf TextBuffer) (HighlightResult, error) {
	var res HighlightResult
	if s.scheme == nil {
		return res, &ConfigurationError{Msg: "no color scheme"}
	}
	if err := s.scheme.Validate(); err != nil {
		return res, err
	}

	for _, tag := range requiredCategories {
		buf.RemoveTag(tag, StartOfText, EndOfText)
	}

	res.Assignments = s.tagWords(buf, CategoryKeyword, s.keywords, res.Assignments)
	res.Assignments = s.tagWords(buf, CategoryBuiltin, s.builtins, res.Assignments)

	tr := Tokenize(buf.Text())
	for _, tok := range tr.Tokens {
		if tok.Kind == TokName {
			switch WordCategory(tok.Text) {
			case CategoryKeyword:
				res.Keywords++
			case CategoryBuiltin:
				res.Builtins++
			}
		}
		tag := tokenTag(tok)
		if tag == "" {
			continue
		}
		buf.AddTag(tag, tok.Start, tok.End)
		res.Assignments = append(res.Assignments, TagAssignment{Tag: tag, Start: tok.Start, End: tok.End})
	}
	res.Tokens = len(tr.Tokens)
	res.TruncatedAtError = tr.TruncatedAtError
	res.TokenErr = tr.Err
	if tr.Err != nil {
		logDebug(catSyntax, "tokenizer stopped early", "tokens", len(tr.Tokens), "err", tr.Err)
	}

	for _, cat := range requiredCategories {
		color, err := s.scheme.Color(cat)
		if err != nil {
			return res, err
		}
		if err := buf.ConfigureTagColor(cat, color); err != nil {
			return res, fmt.Errorf("configure %s: %w", cat, err)
		}
	}
	logDebug(catSyntax, "highlight done", "tags", len(res.Assignments), "tokens", res.Tokens, "keywords", res.Keywords, "builtins", res.Builtins, "truncated", res.TruncatedAtError)
	return res, nil
}

// tagWords tags every whole-word occurrence of each name with tag. A hit
// counts only when no identifier character touches it on either side, so
// names inside longer Unicode identifiers stay untagged.
// tagWords помечает вхождения имён целыми словами.
func (s *SyntaxEngine) tagWords(buf TextBuffer, tag string, names []string, out []TagAssignment) []TagAssignment {
	lines := strings.Split(buf.Text(), "\n")
	for _, name := range names {
		width := utf8.RuneCountInString(name)
		from := StartOfText
		for {
			start, ok := buf.Search(name, from, EndOfText, false)
			if !ok {
				break
			}
			end := Position{Line: start.Line, Col: start.Col + width}
			from = end
			if !wholeWord(lines, start, end) {
				continue
			}
			buf.AddTag(tag, start, end)
			out = append(out, TagAssignment{Tag: tag, Start: start, End: end})
		}
	}
	return out
}

// wholeWord reports whether [start, end) on one line has no identifier
// characters right before or after it.
func wholeWord(lines []string, start, end Position) bool {
	if start.Line < 1 || start.Line > len(lines) {
		return false
	}
	line := []rune(lines[start.Line-1])
	if start.Col > 0 && start.Col <= len(line) && isIdentPart(line[start.Col-1]) {
		return false
	}
	if end.Col < len(line) && isIdentPart(line[end.Col]) {
		return false
	}
	return true
}

func tokenTag(tok Token) string {
	switch tok.Kind {
	case TokString:
		return CategoryString
	case TokNumber:
		return CategoryNumber
	case TokComment:
		return CategoryComment
	case TokName:
		if IsDefinitionName(tok, tok.Line) {
			return CategoryDefinition
		}
	}
	return ""
}
