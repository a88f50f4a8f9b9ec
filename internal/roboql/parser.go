package roboql

import (
	"strconv"
	"strings"

	"roboql/internal/schema"
	"roboql/internal/wire"
)

// Parser parses a RoboQL query string into an AST.
//
// Grammar (EBNF):
//
//	query      = "*" EOF | or_expr EOF
//	or_expr    = and_expr ( "OR" and_expr )*
//	and_expr   = unary_expr ( "AND" unary_expr )*
//	unary_expr = "NOT" unary_expr | primary
//	primary    = "(" or_expr ")" | comparison
//	comparison = field_path comparator literal
//	field_path = segment ( "." segment )*
//	segment    = IDENT [ "[" index-or-key "]" ]
//	literal    = STRING | NUMBER | "true" | "false"
//
// Precedence (highest to lowest):
//  1. Parentheses
//  2. NOT (prefix, right-associative)
//  3. Comparison
//  4. AND (left-associative, binary)
//  5. OR (left-associative, binary)
//
// Repeated AND/OR folds into a left-leaning chain of binary nodes, never
// an N-ary node, matching first-match-wins short-circuiting during
// backend evaluation.
type parser struct {
	lex *Lexer
	cur Token
}

// Parse parses a query string into an AST. The bare query "*" yields a
// *MatchAll node without touching the grammar.
func Parse(input string) (Expr, error) {
	if strings.TrimSpace(input) == "*" {
		return &MatchAll{}, nil
	}

	p := &parser{lex: NewLexer(input)}

	// Prime the parser with the first token.
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind == TokEOF {
		return nil, newParseError(0, ErrEmptyQuery, "empty query")
	}

	expr, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}

	// Ensure we consumed all input.
	if p.cur.Kind != TokEOF {
		if p.cur.Kind == TokRParen {
			return nil, newParseError(p.cur.Pos, ErrUnmatchedParen, "unmatched ')'")
		}
		return nil, expectError(p.cur, "AND, OR, or end of query")
	}

	return expr, nil
}

// advance moves to the next token.
func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// parseOrExpr parses: or_expr = and_expr ( "OR" and_expr )*
func (p *parser) parseOrExpr() (Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == TokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: wire.OperatorOr, Left: left, Right: right}
	}

	return left, nil
}

// parseAndExpr parses: and_expr = unary_expr ( "AND" unary_expr )*
func (p *parser) parseAndExpr() (Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == TokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: wire.OperatorAnd, Left: left, Right: right}
	}

	return left, nil
}

// parseUnaryExpr parses: unary_expr = "NOT" unary_expr | primary
func (p *parser) parseUnaryExpr() (Expr, error) {
	if p.cur.Kind == TokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		term, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Term: term}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses: primary = "(" or_expr ")" | comparison
func (p *parser) parsePrimary() (Expr, error) {
	if p.cur.Kind == TokLParen {
		openPos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != TokRParen {
			return nil, &ParseError{
				Pos:      openPos,
				Message:  "unmatched '('",
				Expected: "')'",
				Err:      ErrUnmatchedParen,
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parseComparison()
}

// parseComparison parses: comparison = field_path comparator literal
func (p *parser) parseComparison() (Expr, error) {
	path, err := p.parseFieldPath()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind != TokCompare {
		return nil, expectError(p.cur, "a comparator (=, !=, >, >=, <, <=, CONTAINS, NOT_CONTAINS)")
	}
	op, err := wire.ParseComparator(p.cur.Lit)
	if err != nil {
		return nil, newParseError(p.cur.Pos, ErrUnknownOperator, "%v", err)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	value, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}

	return &Comparison{Path: path, Op: op, Value: value}, nil
}

// parseFieldPath parses: field_path = segment ( "." segment )*
func (p *parser) parseFieldPath() (FieldPath, error) {
	var path FieldPath
	for {
		if p.cur.Kind != TokIdent {
			return nil, expectError(p.cur, "a field name")
		}
		seg := schema.Segment{Name: p.cur.Lit}
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.cur.Kind == TokBracket {
			if p.cur.Lit == "" {
				return nil, newParseError(p.cur.Pos, ErrUnexpectedToken, "empty brackets").withExpected("an index or key")
			}
			if idx, err := strconv.Atoi(p.cur.Lit); err == nil && idx >= 0 {
				seg.Index = idx
				seg.HasIndex = true
			} else {
				seg.Key = p.cur.Lit
				seg.HasKey = true
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		path = append(path, seg)

		if p.cur.Kind != TokDot {
			return path, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseLiteral parses: literal = STRING | NUMBER | "true" | "false"
func (p *parser) parseLiteral() (Literal, error) {
	tok := p.cur
	switch tok.Kind {
	case TokString:
		if err := p.advance(); err != nil {
			return Literal{}, err
		}
		return Literal{Kind: LitString, Str: tok.Lit}, nil
	case TokNumber:
		num, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			return Literal{}, newParseError(tok.Pos, ErrInvalidNumber, "malformed number %q", tok.Lit)
		}
		if err := p.advance(); err != nil {
			return Literal{}, err
		}
		return Literal{Kind: LitNumber, Num: num, Raw: tok.Lit}, nil
	case TokIdent:
		switch strings.ToLower(tok.Lit) {
		case "true", "false":
			if err := p.advance(); err != nil {
				return Literal{}, err
			}
			return Literal{Kind: LitBool, Bool: tok.Lit[0] == 't' || tok.Lit[0] == 'T'}, nil
		}
	}
	return Literal{}, expectError(tok, "a literal value (string, number, or boolean)")
}

func (e *ParseError) withExpected(expected string) *ParseError {
	e.Expected = expected
	return e
}
