package roboql

import (
	"errors"
	"fmt"
	"strings"

	"roboql/internal/schema"
	"roboql/internal/wire"
)

// Lexer errors.
var (
	ErrUnterminatedString = errors.New("unterminated string")
	ErrInvalidEscape      = errors.New("invalid escape sequence")
	ErrInvalidNumber      = errors.New("malformed number")
	ErrUnknownOperator    = errors.New("unknown operator")
)

// Parser errors.
var (
	ErrEmptyQuery       = errors.New("empty query")
	ErrUnmatchedParen   = errors.New("unmatched parenthesis")
	ErrUnmatchedBracket = errors.New("unmatched bracket")
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrUnexpectedEOF    = errors.New("unexpected end of query")
)

// ParseError reports malformed query text, carrying the byte offset of
// the offending token and a description of what was expected there.
type ParseError struct {
	Pos      int    // byte offset in input
	Message  string // human-readable error message
	Expected string // description of the expected token, if known
	Err      error  // underlying sentinel error (for errors.Is)
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Message)
	if e.Expected != "" {
		msg += fmt.Sprintf(" (expected %s)", e.Expected)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError creates a ParseError with the given position and sentinel error.
func newParseError(pos int, err error, msgFmt string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(msgFmt, args...),
		Err:     err,
	}
}

// expectError creates a ParseError that names the expected token.
func expectError(tok Token, expected string) *ParseError {
	err := ErrUnexpectedToken
	if tok.Kind == TokEOF {
		err = ErrUnexpectedEOF
	}
	return &ParseError{
		Pos:      tok.Pos,
		Message:  fmt.Sprintf("unexpected %s", describeToken(tok)),
		Expected: expected,
		Err:      err,
	}
}

func describeToken(tok Token) string {
	if tok.Kind == TokEOF {
		return "end of query"
	}
	if tok.Lit != "" {
		return fmt.Sprintf("%q", tok.Lit)
	}
	return tok.Kind.String()
}

// ValidationError reports an operator or literal that is incompatible
// with the resolved type of a field. It names the field path, the type
// that was found, and the operators that type allows.
type ValidationError struct {
	Path    string
	Kind    schema.ValueKind
	Op      wire.Comparator
	Reason  string
	Allowed []wire.Comparator
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid comparison on %s: %s", e.Path, e.Reason)
	if len(e.Allowed) > 0 {
		ops := make([]string, len(e.Allowed))
		for i, op := range e.Allowed {
			ops[i] = op.Compact()
		}
		msg += fmt.Sprintf(" (%s field allows %s)", e.Kind, strings.Join(ops, " "))
	}
	return msg
}
