// Package parser implements the recursive-descent parser that turns a Zero
// token stream into an abstract syntax tree.
package parser

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/scanner"
	"github.com/mna/zero/lang/token"
)

// ParseFile lexes and parses a single source file, returning its AST. The
// returned error, if non-nil, is either a scanner.ErrorList (lex errors) or
// a *scanner.Error (the first parse error encountered).
func ParseFile(filename string, src []byte) (*ast.Chunk, error) {
	toks, err := scanner.ScanAll(filename, src)
	if err != nil {
		return nil, err
	}
	return Parse(filename, toks)
}

// Parse builds an AST from an already-tokenized source. Parsing stops at the
// first error, per the pipeline's no-recovery policy.
func Parse(filename string, toks []token.Tok) (ch *ast.Chunk, err error) {
	p := &parser{filename: filename, toks: toks}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			err = &scanner.Error{Pos: pe.pos, Msg: pe.msg}
		}
	}()
	ch = p.parseChunk()
	return ch, nil
}

// parser consumes a flat token slice (already preprocessed by the scanner)
// and builds an AST, one file at a time.
type parser struct {
	filename string
	toks     []token.Tok
	pos      int

	// noStructLiteral suppresses struct-literal recognition while parsing an
	// `if`/`while`/`for` header, since `if x { … }` must not be read as the
	// struct literal `x{}`.
	noStructLiteral bool
}

// parseError is the sentinel panic value used to unwind to Parse on the
// first error; the pipeline never attempts multi-error recovery.
type parseError struct {
	pos token.Position
	msg string
}

func (p *parser) cur() token.Tok { return p.toks[p.pos] }

func (p *parser) at(k token.Token) bool { return p.cur().Kind == k }

func (p *parser) advance() token.Tok {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) accept(k token.Token) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it has kind k, otherwise panics with
// a parseError describing the mismatch.
func (p *parser) expect(k token.Token) token.Tok {
	if !p.at(k) {
		p.errorExpected(k)
	}
	return p.advance()
}

func (p *parser) expectIdent() string {
	return p.expect(token.IDENT).Lexeme
}

func (p *parser) errorf(pos token.Position, format string, args ...any) {
	panic(parseError{pos: pos, msg: fmt.Sprintf(format, args...)})
}

func (p *parser) errorExpected(want token.Token) {
	cur := p.cur()
	if cur.Kind == token.EOF {
		p.errorf(cur.Start, "unexpected EOF, expected %s", want.GoString())
		return
	}
	p.errorf(cur.Start, "unexpected token, expected %s, found %s", want.GoString(), describeTok(cur))
}

func describeTok(t token.Tok) string {
	if t.Kind == token.EOF {
		return "EOF"
	}
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return t.Kind.GoString()
}

// parseChunk parses an entire file: a sequence of top-level statements until
// EOF.
func (p *parser) parseChunk() *ast.Chunk {
	start := p.cur().Start
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	eof := p.cur().Start
	return &ast.Chunk{
		Name:  p.filename,
		Block: &ast.Block{Start: start, End: eof, Stmts: stmts},
		EOF:   eof,
	}
}

// parseStmt dispatches on the leading token to parse any declaration or
// statement form.
func (p *parser) parseStmt() ast.Stmt {
	if p.at(token.PUB) {
		pos := p.cur().Start
		p.advance()
		switch {
		case p.at(token.LET), p.at(token.VAR):
			return p.parseVarDecl(ast.Public)
		case p.at(token.FN):
			return p.parseFuncDecl(ast.Public)
		case p.at(token.STRUCT):
			return p.parseStructDecl(ast.Public)
		case p.at(token.TYPE):
			return p.parseTypeAlias(ast.Public)
		case p.at(token.MOD):
			return p.parseModule(ast.Public)
		default:
			p.errorf(pos, "expected a declaration after 'pub', found %s", describeTok(p.cur()))
			panic("unreachable")
		}
	}

	switch {
	case p.at(token.LET), p.at(token.VAR):
		return p.parseVarDecl(ast.Private)
	case p.at(token.FN):
		return p.parseFuncDecl(ast.Private)
	case p.at(token.STRUCT):
		return p.parseStructDecl(ast.Private)
	case p.at(token.TYPE):
		return p.parseTypeAlias(ast.Private)
	case p.at(token.IMPL):
		return p.parseImplDecl()
	case p.at(token.MOD):
		return p.parseModule(ast.Private)
	case p.at(token.USE):
		return p.parseUse()
	case p.at(token.RETURN):
		return p.parseReturn()
	case p.at(token.IF):
		return p.parseIf()
	case p.at(token.WHILE):
		return p.parseWhile()
	case p.at(token.FOR):
		return p.parseForRange()
	case p.at(token.PRINT):
		return p.parsePrint()
	case p.at(token.BREAK):
		return p.parseBreak()
	case p.at(token.CONTINUE):
		return p.parseContinue()
	case p.at(token.LBRACE):
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

// parseBlock parses a brace-delimited sequence of statements. *ast.Block
// implements ast.Stmt directly so it can be used both as a function/control
// body and as a bare block statement.
func (p *parser) parseBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE).Start
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	rbrace := p.expect(token.RBRACE).End
	return &ast.Block{Start: lbrace, End: rbrace, Stmts: stmts}
}
