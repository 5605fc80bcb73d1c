// Package lexer maps Scheme source text to a stream of tokens, tracking
// source positions as it goes.
//
// # Unicode
//
// Column positions count runes, not bytes or display cells: a multi-byte
// character advances column by exactly one. Identifier case-folding goes
// through golang.org/x/text/cases rather than strings.ToLower, but
// identifiers themselves are ASCII-only (see isLetter): a non-ASCII
// character outside a string or character literal is a lex error.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jdmichaud/go-jlisp/internal/errors"
	"github.com/jdmichaud/go-jlisp/internal/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCase = cases.Lower(language.Und)

// newError builds the single error type the lexer returns. The whole
// Tokenize call fails: there is no partial token list once an error is
// produced.
func (l *Lexer) newError(message string, pos token.Position) error {
	return &errors.SyntaxError{Stage: "lex", Message: message, File: l.filename, Pos: pos}
}

// Option configures a Lexer via a functional-options constructor.
type Option func(*Lexer)

// WithFilename attaches a filename to the lexer purely so CLI callers can
// thread it through into errors.SyntaxError; it has no effect on
// tokenization itself.
func WithFilename(name string) Option {
	return func(l *Lexer) { l.filename = name }
}

// Lexer scans Scheme source text into tokens one at a time.
type Lexer struct {
	src      []rune
	pos      int // index into src of the next unread rune
	line     int // 0-based
	col      int // 0-based
	filename string
}

// New creates a Lexer over source, converting it to a rune slice once up
// front.
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{src: []rune(source), line: 0, col: 0}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Filename returns the filename attached via WithFilename, or "".
func (l *Lexer) Filename() string { return l.filename }

// Tokenize scans the entire source and returns the resulting token slice,
// or the first lexing error encountered.
func Tokenize(source string, opts ...Option) ([]token.Token, error) {
	l := New(source, opts...)
	var tokens []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// ---------------------------------------------------------------------
// Character-level primitives
// ---------------------------------------------------------------------

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	idx := l.pos + offset
	if idx < 0 || idx >= len(l.src) {
		return 0
	}
	return l.src[idx]
}

// advance consumes and returns the current rune, updating line/col.
func (l *Lexer) advance() rune {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col}
}

// isDelimiter reports whether ch ends a token: whitespace, '(', ')', '"',
// ';', or EOF (represented here by the NUL sentinel peek() returns).
func isDelimiter(ch rune) bool {
	return ch == 0 || isWhitespace(ch) || ch == '(' || ch == ')' || ch == '"' || ch == ';'
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

// specialInitial is the set of non-alphabetic characters legal as the
// first character of an identifier.
func isSpecialInitial(ch rune) bool {
	switch ch {
	case '!', '$', '%', '&', '*', '/', ':', '<', '=', '>', '?', '^', '_', '~':
		return true
	}
	return false
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentStart(ch rune) bool {
	return isLetter(ch) || isSpecialInitial(ch)
}

// isIdentSubsequent extends identifier characters beyond the start to
// include digits and '+ - . @'.
func isIdentSubsequent(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '+' || ch == '-' || ch == '.' || ch == '@'
}

// ---------------------------------------------------------------------
// Atmosphere
// ---------------------------------------------------------------------

func (l *Lexer) skipAtmosphere() {
	for !l.atEnd() {
		ch := l.peek()
		if isWhitespace(ch) {
			l.advance()
			continue
		}
		if ch == ';' {
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

// ---------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------

// next scans and returns exactly one token.
func (l *Lexer) next() (token.Token, error) {
	l.skipAtmosphere()
	pos := l.position()

	if l.atEnd() {
		return token.Token{Kind: token.EOF, Position: pos, EndIndex: l.pos}, nil
	}

	ch := l.peek()

	switch {
	case ch == '(' || ch == ')' || ch == '\'' || ch == '`':
		l.advance()
		return l.punct(string(ch), pos), nil

	case ch == ',':
		l.advance()
		if l.peek() == '@' {
			l.advance()
			return l.punct(token.UnquoteSplice, pos), nil
		}
		return l.punct(token.Unquote, pos), nil

	case ch == '#':
		return l.lexHash(pos)

	case ch == '"':
		return l.lexString(pos)

	case ch == '.':
		if isDelimiter(l.peekAt(1)) {
			l.advance()
			return l.punct(token.Dot, pos), nil
		}
		return l.lexNumberOrIdentifier(pos)

	case ch == '+' || ch == '-':
		next := l.peekAt(1)
		if isDigit(next) || next == '.' {
			return l.lexNumberOrIdentifier(pos)
		}
		if isDelimiter(next) {
			l.advance()
			return l.ident(string(ch), pos), nil
		}
		return token.Token{}, l.newError(fmt.Sprintf("Bad identifier observed: %c", ch), pos)

	case isDigit(ch):
		return l.lexNumberOrIdentifier(pos)

	case isIdentStart(ch):
		return l.lexIdentifierOrPeculiar(pos)

	default:
		l.advance()
		return token.Token{}, l.newError(fmt.Sprintf("Unexpected character: %c", ch), pos)
	}
}

func (l *Lexer) punct(value string, pos token.Position) token.Token {
	return token.Token{Kind: token.PUNCTUATOR, Value: value, Position: pos, EndIndex: l.pos}
}

func (l *Lexer) ident(value string, pos token.Position) token.Token {
	return token.Token{Kind: token.IDENTIFIER, Value: foldCase.String(value), Position: pos, EndIndex: l.pos}
}

// ---------------------------------------------------------------------
// '#'-prefixed forms: #( booleans, characters
// ---------------------------------------------------------------------

func (l *Lexer) lexHash(pos token.Position) (token.Token, error) {
	l.advance() // consume '#'

	switch l.peek() {
	case '(':
		l.advance()
		return token.Token{Kind: token.PUNCTUATOR, Value: token.VecOpen, Position: pos, EndIndex: l.pos}, nil

	case 't':
		l.advance()
		return token.Token{Kind: token.BOOLEAN, Value: true, Position: pos, EndIndex: l.pos}, nil

	case 'f':
		l.advance()
		return token.Token{Kind: token.BOOLEAN, Value: false, Position: pos, EndIndex: l.pos}, nil

	case '\\':
		l.advance()
		return l.lexCharacter(pos)

	default:
		return token.Token{}, l.newError(fmt.Sprintf("Unexpected character: #%c", l.peek()), pos)
	}
}

func (l *Lexer) lexCharacter(pos token.Position) (token.Token, error) {
	const named = "Bad character constant"

	if l.startsWithWordBoundary("space") {
		l.advanceN(5)
		return token.Token{Kind: token.CHARACTER, Value: `#\space`, Position: pos, EndIndex: l.pos}, nil
	}
	if l.startsWithWordBoundary("newline") {
		l.advanceN(7)
		return token.Token{Kind: token.CHARACTER, Value: `#\newline`, Position: pos, EndIndex: l.pos}, nil
	}

	if l.atEnd() {
		return token.Token{}, l.newError(named, pos)
	}

	ch := l.advance()
	var value string
	if ch == '\n' {
		value = `#\newline`
	} else {
		value = `#\` + string(ch)
	}

	if !isDelimiter(l.peek()) {
		return token.Token{}, l.newError(named, pos)
	}
	return token.Token{Kind: token.CHARACTER, Value: value, Position: pos, EndIndex: l.pos}, nil
}

// startsWithWordBoundary reports whether the remaining input starts with
// word (case-sensitive, matching the literal spellings "space"/"newline")
// followed by a delimiter.
func (l *Lexer) startsWithWordBoundary(word string) bool {
	for i, want := range word {
		if l.peekAt(i) != want {
			return false
		}
	}
	return isDelimiter(l.peekAt(len(word)))
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// ---------------------------------------------------------------------
// Strings
// ---------------------------------------------------------------------

func (l *Lexer) lexString(pos token.Position) (token.Token, error) {
	l.advance() // consume opening '"'
	var sb strings.Builder

	for {
		if l.atEnd() {
			return token.Token{}, l.newError("Unexpected end of input", token.Position{Line: l.line, Column: l.col})
		}
		ch := l.peek()
		if ch == '"' {
			l.advance()
			return token.Token{Kind: token.STRING, Value: sb.String(), Position: pos, EndIndex: l.pos}, nil
		}
		if ch == '\\' {
			l.advance()
			if l.atEnd() {
				return token.Token{}, l.newError("Unexpected end of input", token.Position{Line: l.line, Column: l.col})
			}
			esc := l.advance()
			switch esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return token.Token{}, l.newError(fmt.Sprintf("Unexpected escape sequence: \\%c", esc), pos)
			}
			continue
		}
		if ch == '\n' {
			// Newlines inside a string are preserved verbatim in the source
			// but re-escaped to the literal two characters "\n" in the
			// token value. Every embedded newline is escaped this way, not
			// just the first.
			l.advance()
			sb.WriteString(`\n`)
			continue
		}
		sb.WriteRune(l.advance())
	}
}

// ---------------------------------------------------------------------
// Numbers and identifiers (the delicate '+'/'-'/'.' dispatch)
// ---------------------------------------------------------------------

// lexNumberOrIdentifier handles every case that may begin a number:
// digit, a leading '.', or a leading sign. It speculatively scans a
// number and backs off to an identifier/peculiar-identifier scan if the
// number grammar doesn't match (the only two speculation points are '.'
// not followed by a digit and '+'/'-' not followed by a number — both
// are handled by the caller before this function is reached for the
// identifier fallback; here we additionally handle the "..." peculiar
// identifier and the general identifier scan that share the same first
// characters).
func (l *Lexer) lexNumberOrIdentifier(pos token.Position) (token.Token, error) {
	start := l.pos

	if l.peek() == '.' && l.peekAt(1) == '.' && l.peekAt(2) == '.' && isDelimiter(l.peekAt(3)) {
		l.advanceN(3)
		return l.ident("...", pos), nil
	}

	if ok, tok := l.tryNumber(pos, start); ok {
		return tok, nil
	}
	l.pos = start

	if isIdentStart(l.peek()) || l.peek() == '+' || l.peek() == '-' {
		return l.lexIdentifierOrPeculiar(pos)
	}

	return token.Token{}, l.newError("Bad number observed", pos)
}

// tryNumber attempts to scan sign? (digits ('.' digits?)? | '.' digits)
// followed by a delimiter. On success it leaves the cursor just past the
// number and returns (true, token). On failure the cursor position is
// unspecified; callers must restore l.pos = start themselves.
func (l *Lexer) tryNumber(pos token.Position, start int) (bool, token.Token) {
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}

	sawDigitsBefore := false
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
		sawDigitsBefore = true
	}

	sawDigitsAfter := false
	if l.peek() == '.' {
		l.advance()
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
			sawDigitsAfter = true
		}
	}

	if !sawDigitsBefore && !sawDigitsAfter {
		return false, token.Token{}
	}
	if !isDelimiter(l.peek()) {
		return false, token.Token{}
	}

	text := string(l.src[start:l.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return false, token.Token{}
	}
	return true, token.Token{Kind: token.NUMBER, Value: f, Position: pos, EndIndex: l.pos}
}

func (l *Lexer) lexIdentifierOrPeculiar(pos token.Position) (token.Token, error) {
	start := l.pos

	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
		if !isDelimiter(l.peek()) {
			return token.Token{}, l.newError("Bad identifier observed", pos)
		}
		return l.ident(string(l.src[start:l.pos]), pos), nil
	}

	if !isIdentStart(l.peek()) {
		return token.Token{}, l.newError("Bad identifier observed", pos)
	}
	l.advance()
	for !l.atEnd() && isIdentSubsequent(l.peek()) {
		l.advance()
	}
	if !isDelimiter(l.peek()) {
		return token.Token{}, l.newError("Bad identifier observed", pos)
	}
	return l.ident(string(l.src[start:l.pos]), pos), nil
}
