package grammar

import (
	"strconv"

	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
)

func (p *parser) createStmt() ast.Node {
	p.expect(token.CREATE)
	persistence := "p"
	switch {
	case p.accept(token.TEMP), p.accept(token.TEMPORARY):
		persistence = "t"
	case p.is(token.GLOBAL), p.is(token.LOCAL):
		p.pos++
		if !p.accept(token.TEMP) && !p.accept(token.TEMPORARY) {
			p.syntaxError()
		}
		persistence = "t"
	case p.accept(token.UNLOGGED):
		persistence = "u"
	}
	p.expect(token.TABLE)
	c := &ast.CreateStmt{}
	if p.is(token.IF) {
		p.pos++
		p.expect(token.NOT)
		p.expect(token.EXISTS)
		c.IfNotExists = true
	}
	c.Relation = p.qualifiedName()
	c.Relation.Relpersistence = persistence
	p.expectByte('(')
	if !p.at(')') {
		for {
			c.TableElts = append(c.TableElts, p.tableElement())
			if !p.acceptByte(',') {
				break
			}
		}
	}
	p.expectByte(')')
	return c
}

func (p *parser) tableElement() ast.Node {
	switch p.cur().Type {
	case token.CONSTRAINT, token.PRIMARY, token.UNIQUE, token.FOREIGN, token.CHECK:
		return p.tableConstraint()
	}
	return p.columnDef()
}

func (p *parser) columnDef() ast.Node {
	tok := p.cur()
	col := &ast.ColumnDef{Colname: p.colid(), Location: tok.Start}
	col.TypeName = p.typeName()
	p.columnConstraints(col)
	return col
}

// columnConstraints parses the qualifier list after a column's type.
// DEFERRABLE and INITIALLY attach to the constraint just parsed; with no
// constraint to attach to they are misplaced.
func (p *parser) columnConstraints(col *ast.ColumnDef) {
	var last *ast.Constraint
	for {
		tok := p.cur()
		var conname string
		if p.is(token.CONSTRAINT) {
			p.pos++
			conname = p.colid()
		}
		switch p.cur().Type {
		case token.NOT:
			if p.peek(1).Type == token.DEFERRABLE {
				p.pos += 2
				if last == nil {
					pgerr.ReportAt(int(tok.Start), "misplaced NOT DEFERRABLE clause")
				}
				last.Deferrable = false
				continue
			}
			p.pos++
			p.expect(token.NULL)
			last = &ast.Constraint{Contype: ast.ConstrNotNull, Conname: conname, Location: tok.Start}
		case token.NULL:
			p.pos++
			last = &ast.Constraint{Contype: ast.ConstrNull, Conname: conname, Location: tok.Start}
		case token.DEFAULT:
			p.pos++
			last = &ast.Constraint{Contype: ast.ConstrDefault, Conname: conname, Location: tok.Start, RawExpr: p.exprCmp()}
		case token.PRIMARY:
			p.pos++
			p.expect(token.KEY)
			last = &ast.Constraint{Contype: ast.ConstrPrimary, Conname: conname, Location: tok.Start}
		case token.UNIQUE:
			p.pos++
			last = &ast.Constraint{Contype: ast.ConstrUnique, Conname: conname, Location: tok.Start}
		case token.CHECK:
			p.pos++
			p.expectByte('(')
			ex := p.expr()
			p.expectByte(')')
			last = &ast.Constraint{Contype: ast.ConstrCheck, Conname: conname, Location: tok.Start, RawExpr: ex}
		case token.REFERENCES:
			p.pos++
			con := &ast.Constraint{Contype: ast.ConstrForeign, Conname: conname, Location: tok.Start}
			con.Pktable = p.qualifiedName()
			if p.at('(') {
				p.pos++
				con.PkAttrs = p.nameList()
				p.expectByte(')')
			}
			last = con
		case token.DEFERRABLE:
			p.pos++
			if last == nil {
				pgerr.ReportAt(int(tok.Start), "misplaced DEFERRABLE clause")
			}
			last.Deferrable = true
			continue
		case token.INITIALLY:
			p.pos++
			if p.accept(token.DEFERRED) {
				if last == nil {
					pgerr.ReportAt(int(tok.Start), "misplaced INITIALLY DEFERRED clause")
				}
				last.Initdeferred = true
			} else {
				p.expect(token.IMMEDIATE)
				if last == nil {
					pgerr.ReportAt(int(tok.Start), "misplaced INITIALLY IMMEDIATE clause")
				}
			}
			continue
		default:
			if conname != "" {
				p.syntaxError()
			}
			return
		}
		col.Constraints = append(col.Constraints, last)
	}
}

func (p *parser) tableConstraint() ast.Node {
	tok := p.cur()
	var conname string
	if p.accept(token.CONSTRAINT) {
		conname = p.colid()
	}
	con := &ast.Constraint{Conname: conname, Location: tok.Start}
	switch p.cur().Type {
	case token.PRIMARY:
		p.pos++
		p.expect(token.KEY)
		con.Contype = ast.ConstrPrimary
		p.expectByte('(')
		con.Keys = p.nameList()
		p.expectByte(')')
	case token.UNIQUE:
		p.pos++
		con.Contype = ast.ConstrUnique
		p.expectByte('(')
		con.Keys = p.nameList()
		p.expectByte(')')
	case token.CHECK:
		p.pos++
		con.Contype = ast.ConstrCheck
		p.expectByte('(')
		con.RawExpr = p.expr()
		p.expectByte(')')
	case token.FOREIGN:
		p.pos++
		p.expect(token.KEY)
		con.Contype = ast.ConstrForeign
		p.expectByte('(')
		con.FkAttrs = p.nameList()
		p.expectByte(')')
		p.expect(token.REFERENCES)
		con.Pktable = p.qualifiedName()
		if p.at('(') {
			p.pos++
			con.PkAttrs = p.nameList()
			p.expectByte(')')
		}
	default:
		p.syntaxError()
	}
	p.constraintAttrs(con)
	return con
}

func (p *parser) constraintAttrs(con *ast.Constraint) {
	for {
		switch {
		case p.is(token.NOT) && p.peek(1).Type == token.DEFERRABLE:
			p.pos += 2
			con.Deferrable = false
		case p.accept(token.DEFERRABLE):
			con.Deferrable = true
		case p.accept(token.INITIALLY):
			if p.accept(token.DEFERRED) {
				con.Initdeferred = true
			} else {
				p.expect(token.IMMEDIATE)
			}
		default:
			return
		}
	}
}

func (p *parser) dropStmt() ast.Node {
	p.expect(token.DROP)
	d := &ast.DropStmt{RemoveType: ast.ObjectTable, Behavior: ast.DropRestrict}
	switch {
	case p.accept(token.TABLE):
	case p.accept(token.VIEW):
		d.RemoveType = ast.ObjectView
	case p.accept(token.INDEX):
		d.RemoveType = ast.ObjectIndex
	default:
		p.syntaxError()
	}
	if p.is(token.IF) {
		p.pos++
		p.expect(token.EXISTS)
		d.MissingOk = true
	}
	for {
		d.Objects = append(d.Objects, &ast.List{Items: p.dottedName()})
		if !p.acceptByte(',') {
			break
		}
	}
	switch {
	case p.accept(token.CASCADE):
		d.Behavior = ast.DropCascade
	case p.accept(token.RESTRICT):
	}
	return d
}

// dottedName parses a possibly-qualified object name as its String parts.
func (p *parser) dottedName() []ast.Node {
	parts := []ast.Node{&ast.String{Sval: p.colid()}}
	for p.at('.') {
		p.pos++
		parts = append(parts, &ast.String{Sval: p.colLabel()})
	}
	return parts
}

// typeKeyword reports whether t begins a built-in type name, which in an
// expression must be followed by a string constant.
func typeKeyword(t token.Type) bool {
	switch t {
	case token.SMALLINT, token.INT, token.INTEGER, token.BIGINT,
		token.REAL, token.FLOAT, token.DECIMAL, token.DEC, token.NUMERIC,
		token.BOOLEAN, token.BIT, token.CHAR, token.CHARACTER,
		token.VARCHAR, token.TIME, token.TIMESTAMP, token.INTERVAL:
		return true
	}
	return false
}

// constTypeCast parses "typename 'literal'" for built-in type keywords.
func (p *parser) constTypeCast() ast.Node {
	tn := p.simpleTypeName()
	strTok := p.expect(token.SConst)
	return &ast.TypeCast{
		Arg:      &ast.A_Const{Val: &ast.String{Sval: strTok.Value}, Location: strTok.Start},
		TypeName: tn,
		Location: -1,
	}
}

// typeName parses a full type: a simple name plus any array bounds.
func (p *parser) typeName() *ast.TypeName {
	tn := p.simpleTypeName()
	for p.at('[') {
		p.pos++
		bound := int32(-1)
		if p.is(token.IConst) {
			v, err := strconv.ParseInt(p.cur().Value, 10, 32)
			if err != nil {
				p.syntaxError()
			}
			bound = int32(v)
			p.pos++
		}
		p.expectByte(']')
		tn.ArrayBounds = append(tn.ArrayBounds, &ast.Integer{Ival: bound})
	}
	return tn
}

// simpleTypeName resolves SQL type spellings to their catalog names
// (INT to pg_catalog.int4 and so on); anything else is a general
// possibly-qualified name.
func (p *parser) simpleTypeName() *ast.TypeName {
	tok := p.cur()
	start := tok.Start
	switch tok.Type {
	case token.SMALLINT:
		p.pos++
		return systemType("int2", start)
	case token.INT, token.INTEGER:
		p.pos++
		return systemType("int4", start)
	case token.BIGINT:
		p.pos++
		return systemType("int8", start)
	case token.REAL:
		p.pos++
		return systemType("float4", start)
	case token.FLOAT:
		p.pos++
		return p.floatType(start)
	case token.DOUBLE:
		if p.peek(1).Type == token.PRECISION {
			p.pos += 2
			return systemType("float8", start)
		}
	case token.DECIMAL, token.DEC, token.NUMERIC:
		p.pos++
		tn := systemType("numeric", start)
		tn.Typmods = p.typeModifiers()
		return tn
	case token.BOOLEAN:
		p.pos++
		return systemType("bool", start)
	case token.BIT:
		p.pos++
		name := "bit"
		if p.accept(token.VARYING) {
			name = "varbit"
		}
		tn := systemType(name, start)
		tn.Typmods = p.typeModifiers()
		return tn
	case token.CHAR, token.CHARACTER:
		p.pos++
		name := "bpchar"
		if p.accept(token.VARYING) {
			name = "varchar"
		}
		tn := systemType(name, start)
		tn.Typmods = p.typeModifiers()
		return tn
	case token.VARCHAR:
		p.pos++
		tn := systemType("varchar", start)
		tn.Typmods = p.typeModifiers()
		return tn
	case token.TIME:
		p.pos++
		typmods := p.typeModifiers()
		name := "time"
		if p.timeZoneSuffix() {
			name = "timetz"
		}
		tn := systemType(name, start)
		tn.Typmods = typmods
		return tn
	case token.TIMESTAMP:
		p.pos++
		typmods := p.typeModifiers()
		name := "timestamp"
		if p.timeZoneSuffix() {
			name = "timestamptz"
		}
		tn := systemType(name, start)
		tn.Typmods = typmods
		return tn
	case token.INTERVAL:
		p.pos++
		return systemType("interval", start)
	}

	parts := []ast.Node{&ast.String{Sval: p.typeFuncName()}}
	for p.at('.') {
		p.pos++
		parts = append(parts, &ast.String{Sval: p.colLabel()})
	}
	tn := &ast.TypeName{Names: parts, Location: start}
	tn.Typmods = p.typeModifiers()
	return tn
}

func (p *parser) floatType(start int32) *ast.TypeName {
	if !p.at('(') {
		return systemType("float8", start)
	}
	p.pos++
	precTok := p.expect(token.IConst)
	prec, err := strconv.ParseInt(precTok.Value, 10, 64)
	p.expectByte(')')
	switch {
	case err == nil && prec < 1:
		pgerr.ReportAt(int(precTok.Start), "precision for type float must be at least 1 bit")
	case err != nil || prec > 53:
		pgerr.ReportAt(int(precTok.Start), "precision for type float must be less than 54 bits")
	case prec <= 24:
		return systemType("float4", start)
	}
	return systemType("float8", start)
}

// timeZoneSuffix consumes WITH or WITHOUT TIME ZONE, looking one token
// ahead so a bare WITH or WITHOUT is left for the surrounding clause.
func (p *parser) timeZoneSuffix() bool {
	if p.is(token.WITH) && p.peek(1).Type == token.TIME {
		p.pos += 2
		p.expect(token.ZONE)
		return true
	}
	if p.is(token.WITHOUT) && p.peek(1).Type == token.TIME {
		p.pos += 2
		p.expect(token.ZONE)
	}
	return false
}

func (p *parser) typeModifiers() []ast.Node {
	if !p.at('(') {
		return nil
	}
	p.pos++
	mods := p.exprList()
	p.expectByte(')')
	return mods
}

// typeFuncName accepts the identifiers and keyword classes valid as a
// type or function name.
func (p *parser) typeFuncName() string {
	tok := p.cur()
	switch {
	case tok.Type == token.Ident,
		token.KeywordOf(tok.Type) == token.UnreservedKeyword,
		token.KeywordOf(tok.Type) == token.TypeFuncNameKeyword:
		p.pos++
		return tok.Value
	}
	p.syntaxError()
	return ""
}

func systemType(name string, loc int32) *ast.TypeName {
	return &ast.TypeName{Names: sysName(name), Location: loc}
}
