package parser

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

func (p *parser) parseVarDecl(vis ast.Visibility) ast.Stmt {
	start := p.cur().Start
	mutable := p.at(token.VAR)
	p.advance() // consume LET or VAR
	name := p.expectIdent()

	var typ ast.TypeExpr
	if p.accept(token.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.EQ)
	value := p.parseAssignment()
	p.expect(token.SEMI)

	return &ast.VarDeclStmt{
		Start: start, Name: name, Mutable: mutable, Type: typ, Value: value, Visibility: vis,
	}
}

func (p *parser) parseFuncDecl(vis ast.Visibility) *ast.FuncDeclStmt {
	start := p.expect(token.FN).Start
	name := p.expectIdent()
	params := p.parseParams()

	var ret ast.TypeExpr
	if p.accept(token.ARROW) {
		ret = p.parseTypeExpr()
	}
	body := p.parseBlock()

	return &ast.FuncDeclStmt{
		Start: start, Name: name, Params: params, Return: ret, Body: body, Visibility: vis,
	}
}

func (p *parser) parseParams() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) {
		name := p.expectIdent()
		var typ ast.TypeExpr
		if p.accept(token.COLON) {
			typ = p.parseTypeExpr()
		}
		params = append(params, ast.Param{Name: name, Type: typ})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *parser) parseStructDecl(vis ast.Visibility) *ast.StructDeclStmt {
	start := p.expect(token.STRUCT).Start
	name := p.expectIdent()
	p.expect(token.LBRACE)

	var fields []ast.StructFieldDecl
	for !p.at(token.RBRACE) {
		fname := p.expectIdent()
		p.expect(token.COLON)
		ftyp := p.parseTypeExpr()
		fields = append(fields, ast.StructFieldDecl{Name: fname, Type: ftyp})
		if !p.accept(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RBRACE).End
	p.accept(token.SEMI)

	return &ast.StructDeclStmt{Start: start, Name: name, Fields: fields, End_: end, Visibility: vis}
}

func (p *parser) parseTypeAlias(vis ast.Visibility) *ast.TypeAliasStmt {
	start := p.expect(token.TYPE).Start
	name := p.expectIdent()
	p.expect(token.EQ)
	target := p.parseTypeExpr()
	p.expect(token.SEMI)
	return &ast.TypeAliasStmt{Start: start, Name: name, Target: target, Visibility: vis}
}

func (p *parser) parseImplDecl() *ast.ImplDeclStmt {
	start := p.expect(token.IMPL).Start
	typeName := p.expectIdent()
	p.expect(token.LBRACE)

	var methods []*ast.FuncDeclStmt
	for !p.at(token.RBRACE) {
		vis := ast.Private
		if p.accept(token.PUB) {
			vis = ast.Public
		}
		methods = append(methods, p.parseFuncDecl(vis))
	}
	end := p.expect(token.RBRACE).End
	p.accept(token.SEMI)

	return &ast.ImplDeclStmt{Start: start, TypeName: typeName, Methods: methods, End_: end}
}

func (p *parser) parseModule(vis ast.Visibility) ast.Stmt {
	start := p.expect(token.MOD).Start
	name := p.expectIdent()

	if p.at(token.SEMI) {
		end := p.advance().End
		return &ast.ModuleRefStmt{Start: start, Name: name, End_: end, Visibility: vis}
	}

	body := p.parseBlock()
	return &ast.ModuleDeclStmt{Start: start, Name: name, Body: body, End_: body.End, Visibility: vis}
}

func (p *parser) parseUse() *ast.UseStmt {
	start := p.expect(token.USE).Start
	path := []string{p.expectIdent()}

	for p.accept(token.COLONCOLON) {
		switch {
		case p.at(token.STAR):
			p.advance()
			end := p.prevEnd()
			p.expect(token.SEMI)
			return &ast.UseStmt{Start: start, Path: path, Kind: ast.UseAll, End_: end}

		case p.at(token.LBRACE):
			p.advance()
			var items []string
			for !p.at(token.RBRACE) {
				items = append(items, p.expectIdent())
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RBRACE)
			end := p.prevEnd()
			p.expect(token.SEMI)
			return &ast.UseStmt{Start: start, Path: path, Kind: ast.UseGroup, Items: items, End_: end}

		default:
			path = append(path, p.expectIdent())
		}
	}

	item := path[len(path)-1]
	path = path[:len(path)-1]

	if p.accept(token.AS) {
		alias := p.expectIdent()
		end := p.prevEnd()
		p.expect(token.SEMI)
		return &ast.UseStmt{Start: start, Path: path, Kind: ast.UseAliased, Item: item, Alias: alias, End_: end}
	}

	end := p.prevEnd()
	p.expect(token.SEMI)
	return &ast.UseStmt{Start: start, Path: path, Kind: ast.UseSingle, Item: item, End_: end}
}

func (p *parser) parseTypeExpr() ast.TypeExpr {
	t := p.cur()
	switch t.Kind {
	case token.KWINT, token.KWINT64, token.KWFLOAT, token.KWSTRING, token.KWBOOL, token.KWVOID, token.KWNULL:
		p.advance()
		return &ast.PrimitiveType{Start: t.Start, Kind: t.Kind}
	case token.IDENT:
		p.advance()
		return &ast.NamedType{Start: t.Start, Name: t.Lexeme}
	case token.LBRACK:
		lbrack := p.advance().Start
		elem := p.parseTypeExpr()
		rbrack := p.expect(token.RBRACK).End
		return &ast.ArrayTypeExpr{Lbrack: lbrack, Elem: elem, Rbrack: rbrack}
	default:
		p.errorf(t.Start, "expected a type, found %s", describeTok(t))
		panic("unreachable")
	}
}
