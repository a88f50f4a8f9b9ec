package roboql

import "strings"

// TokenKind identifies the type of lexical token.
type TokenKind int

const (
	TokEOF     TokenKind = iota
	TokIdent             // bareword: field name or true/false literal
	TokString            // quoted string (quotes stripped, escapes processed)
	TokNumber            // numeric literal (raw text)
	TokCompare           // = != > >= < <= CONTAINS NOT_CONTAINS
	TokAnd               // AND (case-insensitive)
	TokOr                // OR (case-insensitive)
	TokNot               // NOT (case-insensitive)
	TokDot               // .
	TokBracket           // [...] (brackets stripped, content raw)
	TokLParen            // (
	TokRParen            // )
	TokStar              // *
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "IDENT"
	case TokString:
		return "STRING"
	case TokNumber:
		return "NUMBER"
	case TokCompare:
		return "COMPARATOR"
	case TokAnd:
		return "AND"
	case TokOr:
		return "OR"
	case TokNot:
		return "NOT"
	case TokDot:
		return "."
	case TokBracket:
		return "BRACKET"
	case TokLParen:
		return "("
	case TokRParen:
		return ")"
	case TokStar:
		return "*"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Kind TokenKind
	Lit  string // for quoted strings: unescaped content without quotes
	Pos  int    // byte offset in input for error reporting
}

// Lexer tokenizes a query string.
type Lexer struct {
	input string
	pos   int // current position in input
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: l.pos}, nil
	}

	startPos := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Lit: "(", Pos: startPos}, nil
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Lit: ")", Pos: startPos}, nil
	case '.':
		l.pos++
		return Token{Kind: TokDot, Lit: ".", Pos: startPos}, nil
	case '*':
		l.pos++
		return Token{Kind: TokStar, Lit: "*", Pos: startPos}, nil
	case '[':
		return l.scanBracket()
	case ']':
		return Token{}, newParseError(startPos, ErrUnmatchedBracket, "unmatched ']'")
	case '=':
		l.pos++
		return Token{Kind: TokCompare, Lit: "=", Pos: startPos}, nil
	case '!':
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
			l.pos += 2
			return Token{Kind: TokCompare, Lit: "!=", Pos: startPos}, nil
		}
		return Token{}, newParseError(startPos, ErrUnknownOperator, "unknown operator %q", string(ch))
	case '>', '<':
		op := string(ch)
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			op += "="
			l.pos++
		}
		return Token{Kind: TokCompare, Lit: op, Pos: startPos}, nil
	case '"', '\'':
		return l.scanQuotedString(ch)
	}

	if isDigit(ch) || (ch == '-' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])) {
		return l.scanNumber()
	}
	if isBarewordChar(ch) {
		return l.scanBareword()
	}
	return Token{}, newParseError(startPos, ErrUnknownOperator, "unexpected character %q", string(ch))
}

// skipWhitespace advances past whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			l.pos++
		} else {
			break
		}
	}
}

// scanBracket scans a bracketed access like [0] or [/vehicle/speed.data].
// The content is returned raw with surrounding whitespace trimmed; a
// quoted key has its quotes stripped.
func (l *Lexer) scanBracket() (Token, error) {
	startPos := l.pos
	l.pos++ // consume '['
	contentStart := l.pos
	for l.pos < len(l.input) {
		if l.input[l.pos] == ']' {
			content := strings.TrimSpace(l.input[contentStart:l.pos])
			l.pos++ // consume ']'
			content = stripQuotes(content)
			return Token{Kind: TokBracket, Lit: content, Pos: startPos}, nil
		}
		l.pos++
	}
	return Token{}, newParseError(startPos, ErrUnmatchedBracket, "unmatched '['")
}

// scanQuotedString scans a single- or double-quoted string with backslash
// escapes.
func (l *Lexer) scanQuotedString(quote byte) (Token, error) {
	startPos := l.pos
	l.pos++ // consume opening quote

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case quote:
			l.pos++
			return Token{Kind: TokString, Lit: sb.String(), Pos: startPos}, nil
		case '\\':
			if l.pos+1 >= len(l.input) {
				return Token{}, newParseError(l.pos, ErrInvalidEscape, "dangling escape at end of input")
			}
			l.pos++
			esc := l.input[l.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteByte(esc)
			default:
				return Token{}, newParseError(l.pos, ErrInvalidEscape, "invalid escape sequence \\%s", string(esc))
			}
			l.pos++
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return Token{}, newParseError(startPos, ErrUnterminatedString, "unterminated string")
}

// scanNumber scans an integer, decimal, or scientific-notation literal.
func (l *Lexer) scanNumber() (Token, error) {
	startPos := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}
	l.scanDigits()
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		if l.pos >= len(l.input) || !isDigit(l.input[l.pos]) {
			return Token{}, newParseError(startPos, ErrInvalidNumber, "malformed number %q", l.input[startPos:l.pos])
		}
		l.scanDigits()
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos >= len(l.input) || !isDigit(l.input[l.pos]) {
			return Token{}, newParseError(startPos, ErrInvalidNumber, "malformed number %q", l.input[startPos:l.pos])
		}
		l.scanDigits()
	}
	return Token{Kind: TokNumber, Lit: l.input[startPos:l.pos], Pos: startPos}, nil
}

func (l *Lexer) scanDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
}

// scanBareword scans an identifier and maps keyword spellings to their
// token kinds. Keywords are case-insensitive; field names preserve case.
func (l *Lexer) scanBareword() (Token, error) {
	startPos := l.pos
	for l.pos < len(l.input) && isBarewordChar(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[startPos:l.pos]

	switch strings.ToUpper(word) {
	case "AND":
		return Token{Kind: TokAnd, Lit: word, Pos: startPos}, nil
	case "OR":
		return Token{Kind: TokOr, Lit: word, Pos: startPos}, nil
	case "NOT":
		return Token{Kind: TokNot, Lit: word, Pos: startPos}, nil
	case "CONTAINS":
		return Token{Kind: TokCompare, Lit: "CONTAINS", Pos: startPos}, nil
	case "NOT_CONTAINS":
		return Token{Kind: TokCompare, Lit: "NOT_CONTAINS", Pos: startPos}, nil
	}
	return Token{Kind: TokIdent, Lit: word, Pos: startPos}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isBarewordChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || isDigit(ch) || ch == '_'
}

func stripQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
