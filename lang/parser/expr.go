package parser

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// binopPriority gives the left/right binding power of each binary operator,
// implementing precedence climbing. Both sides are equal for left-
// associative operators; assignment is handled separately by
// parseAssignment, below every entry here.
var binopPriority = map[token.Token]struct{ left, right int }{
	token.OROR:    {1, 1},
	token.ANDAND:  {2, 2},
	token.EQEQ:    {3, 3},
	token.BANGEQ:  {3, 3},
	token.LT:      {4, 4},
	token.LE:      {4, 4},
	token.GT:      {4, 4},
	token.GE:      {4, 4},
	token.PLUS:    {5, 5},
	token.MINUS:   {5, 5},
	token.STAR:    {6, 6},
	token.SLASH:   {6, 6},
	token.PERCENT: {6, 6},
}

const unopPriority = 7

// parseAssignment parses the lowest-precedence level: plain expressions, or
// an assignment if the parsed left-hand side is immediately followed by `=`
// or a compound-assignment operator. Assignment is right-associative.
// Compound assignment is desugared here to `LHS = LHS op RHS`.
func (p *parser) parseAssignment() ast.Expr {
	left := p.parseSubExpr(0)

	op := p.cur()
	if op.Kind != token.EQ && !op.Kind.IsCompoundAssign() {
		return left
	}
	if !ast.IsAssignable(left) {
		p.errorf(op.Start, "invalid assignment target")
	}
	p.advance()

	value := p.parseAssignment()
	if op.Kind.IsCompoundAssign() {
		value = &ast.BinaryExpr{Left: left, Op: op.Kind.BinaryOp(), OpPos: op.Start, Right: value}
	}

	switch l := left.(type) {
	case *ast.IdentExpr:
		return &ast.AssignExpr{Left: l, Value: value}
	case *ast.IndexExpr:
		return &ast.IndexAssignExpr{Left: l.Left, Index: l.Index, Value: value}
	case *ast.FieldExpr:
		return &ast.FieldAssignExpr{Left: l.Left, Field: l.Field, Value: value}
	default:
		p.errorf(op.Start, "invalid assignment target")
		panic("unreachable")
	}
}

// parseSubExpr parses a binary expression chain where operators bind more
// tightly than priority, recursing into unary and postfix parsing for
// operands.
func (p *parser) parseSubExpr(priority int) ast.Expr {
	var left ast.Expr

	if p.at(token.BANG) || p.at(token.MINUS) {
		op := p.advance()
		right := p.parseSubExpr(unopPriority)
		left = &ast.UnaryExpr{Op: op.Kind, OpPos: op.Start, Right: right}
	} else {
		left = p.parsePostfix()
	}

	for {
		pri, ok := binopPriority[p.cur().Kind]
		if !ok || pri.left <= priority {
			break
		}
		op := p.advance()
		right := p.parseSubExpr(pri.right)
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, OpPos: op.Start, Right: right}
	}
	return left
}

// parsePostfix parses a primary expression followed by any chain of calls,
// indexing, field access and method calls.
func (p *parser) parsePostfix() ast.Expr {
	left := p.parsePrimary()
	for {
		switch {
		case p.at(token.LPAREN):
			args, rparen := p.parseArgs()
			left = &ast.CallExpr{Fn: left, Args: args, Rparen: rparen}
		case p.at(token.LBRACK):
			p.advance()
			idx := p.parseAssignment()
			rbrack := p.expect(token.RBRACK)
			left = &ast.IndexExpr{Left: left, Index: idx, Rbrack: rbrack.End}
		case p.at(token.DOT):
			p.advance()
			name := p.expectIdent()
			if p.at(token.LPAREN) {
				args, rparen := p.parseArgs()
				left = &ast.MethodCallExpr{Recv: left, Method: name, Args: args, Rparen: rparen}
			} else {
				left = &ast.FieldExpr{Left: left, Field: name, End_: p.prevEnd()}
			}
		default:
			return left
		}
	}
}

// prevEnd returns the end position of the token just consumed; used where a
// node's span ends at the token immediately before the current cursor.
func (p *parser) prevEnd() token.Position {
	i := p.pos - 1
	if i < 0 {
		i = 0
	}
	return p.toks[i].End
}

func (p *parser) parseArgs() ([]ast.Expr, token.Position) {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for !p.at(token.RPAREN) {
		args = append(args, p.parseAssignment())
		if !p.accept(token.COMMA) {
			break
		}
	}
	rparen := p.expect(token.RPAREN)
	return args, rparen.End
}

// parsePrimary parses literals, identifiers, paths, array literals, struct
// literals and parenthesized expressions.
func (p *parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.INT, token.FLOAT, token.STRING, token.CHAR:
		p.advance()
		return literalFromTok(t)
	case token.TRUE:
		p.advance()
		return &ast.LiteralExpr{Kind: t.Kind, Start: t.Start, End_: t.End, Raw: "true", Value: true}
	case token.FALSE:
		p.advance()
		return &ast.LiteralExpr{Kind: t.Kind, Start: t.Start, End_: t.End, Raw: "false", Value: false}
	case token.KWNULL:
		p.advance()
		return &ast.LiteralExpr{Kind: t.Kind, Start: t.Start, End_: t.End, Raw: "null", Value: nil}
	case token.IDENT:
		return p.parseIdentOrPathOrStruct()
	case token.LBRACK:
		return p.parseArrayLiteral()
	case token.LPAREN:
		p.advance()
		e := p.parseAssignment()
		p.expect(token.RPAREN)
		return e
	default:
		p.errorf(t.Start, "invalid expression, found %s", describeTok(t))
		panic("unreachable")
	}
}

func literalFromTok(t token.Tok) *ast.LiteralExpr {
	lit := &ast.LiteralExpr{Kind: t.Kind, Start: t.Start, End_: t.End, Raw: t.Lexeme}
	switch t.Kind {
	case token.INT:
		lit.Value = t.Int
	case token.FLOAT:
		lit.Value = t.Float
	case token.STRING, token.CHAR:
		lit.Value = t.Str
	}
	return lit
}

func (p *parser) parseIdentOrPathOrStruct() ast.Expr {
	t := p.advance()
	if p.at(token.COLONCOLON) {
		segs := []string{t.Lexeme}
		for p.accept(token.COLONCOLON) {
			segs = append(segs, p.expectIdent())
		}
		return &ast.PathExpr{Segments: segs, Start: t.Start, End_: p.prevEnd()}
	}
	if !p.noStructLiteral && p.at(token.LBRACE) {
		return p.parseStructLiteral(t.Lexeme, t.Start)
	}
	return &ast.IdentExpr{Start: t.Start, Name: t.Lexeme}
}

func (p *parser) parseStructLiteral(name string, start token.Position) ast.Expr {
	p.expect(token.LBRACE)
	var fields []ast.StructFieldInit
	for !p.at(token.RBRACE) {
		fname := p.expectIdent()
		p.expect(token.COLON)
		val := p.parseAssignment()
		fields = append(fields, ast.StructFieldInit{Name: fname, Value: val})
		if !p.accept(token.COMMA) {
			break
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.StructLiteralExpr{TypeName: name, Start: start, Fields: fields, Rbrace: rbrace.End}
}

func (p *parser) parseArrayLiteral() ast.Expr {
	lbrack := p.expect(token.LBRACK).Start
	var items []ast.Expr
	for !p.at(token.RBRACK) {
		items = append(items, p.parseAssignment())
		if !p.accept(token.COMMA) {
			break
		}
	}
	rbrack := p.expect(token.RBRACK).End
	return &ast.ArrayLiteralExpr{Lbrack: lbrack, Items: items, Rbrack: rbrack}
}
