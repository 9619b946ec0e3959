package syntax

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"kiln/internal/source"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokHash
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokEq
	tokSemi
	tokColonColon
	tokInvalid
)

var tokenNames = [...]string{
	tokEOF:        "end of file",
	tokIdent:      "identifier",
	tokString:     "string literal",
	tokHash:       "'#'",
	tokLBracket:   "'['",
	tokRBracket:   "']'",
	tokLParen:     "'('",
	tokRParen:     "')'",
	tokLBrace:     "'{'",
	tokRBrace:     "'}'",
	tokEq:         "'='",
	tokSemi:       "';'",
	tokColonColon: "'::'",
	tokInvalid:    "invalid character",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("token(%d)", k)
}

var punctuation = map[byte]tokenKind{
	'#': tokHash, '[': tokLBracket, ']': tokRBracket,
	'(': tokLParen, ')': tokRParen, '{': tokLBrace, '}': tokRBrace,
	'=': tokEq, ';': tokSemi,
}

type token struct {
	Kind tokenKind
	Text string // identifier (NFC) or unquoted string
	Span source.Span
}

func (t token) describe() string {
	switch t.Kind {
	case tokIdent:
		return fmt.Sprintf("identifier %q", t.Text)
	case tokString:
		return fmt.Sprintf("string %q", t.Text)
	}
	return t.Kind.String()
}

type lexer struct {
	file   source.FileID
	src    []byte
	off    int
	peeked *token
}

func newLexer(file *source.File) *lexer {
	return &lexer{file: file.ID, src: file.Content}
}

func (lx *lexer) span(start, end int) source.Span {
	return source.Span{File: lx.file, Start: uint32(start), End: uint32(end)} // #nosec G115 -- FileSet caps file size at uint32
}

func (lx *lexer) peek() token {
	if lx.peeked == nil {
		t := lx.scan()
		lx.peeked = &t
	}
	return *lx.peeked
}

func (lx *lexer) next() token {
	t := lx.peek()
	lx.peeked = nil
	return t
}

func (lx *lexer) skipTrivia() {
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.off++
		case c == '/' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '/':
			for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
				lx.off++
			}
		default:
			return
		}
	}
}

func (lx *lexer) scan() token {
	lx.skipTrivia()
	start := lx.off
	if lx.off >= len(lx.src) {
		return token{Kind: tokEOF, Span: lx.span(start, start)}
	}

	c := lx.src[lx.off]
	if k, ok := punctuation[c]; ok {
		lx.off++
		return token{Kind: k, Span: lx.span(start, lx.off)}
	}
	if c == ':' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == ':' {
		lx.off += 2
		return token{Kind: tokColonColon, Span: lx.span(start, lx.off)}
	}
	if c == '"' {
		return lx.scanString()
	}

	r, size := utf8.DecodeRune(lx.src[lx.off:])
	if r == '_' || unicode.IsLetter(r) {
		lx.off += size
		for lx.off < len(lx.src) {
			r, size = utf8.DecodeRune(lx.src[lx.off:])
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) {
				break
			}
			lx.off += size
		}
		text := norm.NFC.String(string(lx.src[start:lx.off]))
		return token{Kind: tokIdent, Text: text, Span: lx.span(start, lx.off)}
	}

	lx.off += size
	return token{Kind: tokInvalid, Text: string(r), Span: lx.span(start, lx.off)}
}

func (lx *lexer) scanString() token {
	start := lx.off
	lx.off++ // opening quote
	for lx.off < len(lx.src) {
		switch lx.src[lx.off] {
		case '"':
			lx.off++
			return token{Kind: tokString, Text: string(lx.src[start+1 : lx.off-1]), Span: lx.span(start, lx.off)}
		case '\n':
			return token{Kind: tokInvalid, Text: "unterminated string", Span: lx.span(start, lx.off)}
		}
		lx.off++
	}
	return token{Kind: tokInvalid, Text: "unterminated string", Span: lx.span(start, lx.off)}
}
