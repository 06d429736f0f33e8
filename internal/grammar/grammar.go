// Package grammar implements the syntactic half of the parsing engine: a
// recursive descent parser over the scan token stream that builds the ast
// node tree, following the server grammar's shapes and precedence.
//
// Syntax errors are fatal conditions raised through pgerr with the byte
// offset of the offending token; the boundary's recovery region turns them
// into error values. Comment tokens are dropped before parsing.
package grammar

import (
	"io"
	"strings"

	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/internal/scan"
	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
)

// Parse scans and parses src into a tree. Non-fatal scanner diagnostics go
// to diag, which may be nil. Fatal conditions are raised through pgerr.
func Parse(src string, diag io.Writer) *ast.Tree {
	all := scan.New(src, diag).All()
	toks := make([]token.Token, 0, len(all))
	for _, t := range all {
		if t.Type == token.SQLComment || t.Type == token.CComment {
			continue
		}
		toks = append(toks, t)
	}
	p := &parser{src: src, toks: toks}
	return p.parseTree()
}

type parser struct {
	src  string
	toks []token.Token
	pos  int
}

func (p *parser) cur() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	n := int32(len(p.src))
	return token.Token{Type: token.EOF, Start: n, End: n}
}

func (p *parser) peek(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	l := int32(len(p.src))
	return token.Token{Type: token.EOF, Start: l, End: l}
}

func (p *parser) is(t token.Type) bool { return p.cur().Type == t }

// at reports whether the current token is the single-character token c.
func (p *parser) at(c byte) bool { return p.cur().Type == token.Type(c) }

func (p *parser) accept(t token.Type) bool {
	if p.cur().Type == t {
		p.pos++
		return true
	}
	return false
}

func (p *parser) acceptByte(c byte) bool { return p.accept(token.Type(c)) }

func (p *parser) expect(t token.Type) token.Token {
	tok := p.cur()
	if tok.Type != t {
		p.syntaxError()
	}
	p.pos++
	return tok
}

func (p *parser) expectByte(c byte) token.Token { return p.expect(token.Type(c)) }

// text returns the raw source spelling of tok, which is what error
// messages quote.
func (p *parser) text(tok token.Token) string {
	return p.src[tok.Start:tok.End]
}

func (p *parser) syntaxError() {
	tok := p.cur()
	if tok.Type == token.EOF {
		pgerr.ReportAt(len(p.src), "syntax error at end of input")
	}
	pgerr.ReportAt(int(tok.Start), "syntax error at or near %q", p.text(tok))
}

// Name productions. The keyword class decides where a keyword can stand in
// for a plain identifier.

// colid accepts an identifier, an unreserved keyword, or a column-name
// keyword.
func (p *parser) colid() string {
	tok := p.cur()
	switch {
	case tok.Type == token.Ident:
	case token.KeywordOf(tok.Type) == token.UnreservedKeyword:
	case token.KeywordOf(tok.Type) == token.ColNameKeyword:
	default:
		p.syntaxError()
	}
	p.pos++
	return tok.Value
}

func (p *parser) colidNext() bool {
	switch k := token.KeywordOf(p.cur().Type); {
	case p.cur().Type == token.Ident:
		return true
	case k == token.UnreservedKeyword, k == token.ColNameKeyword:
		return true
	}
	return false
}

// colLabel accepts any identifier or keyword, as after AS.
func (p *parser) colLabel() string {
	tok := p.cur()
	if tok.Type != token.Ident && token.KeywordOf(tok.Type) == token.NoKeyword {
		p.syntaxError()
	}
	p.pos++
	return tok.Value
}

func (p *parser) parseTree() *ast.Tree {
	t := &ast.Tree{Version: ast.Version}
	loc := int32(0)
	for {
		for p.at(';') {
			end := p.cur().End
			p.pos++
			loc = end
		}
		if p.is(token.EOF) {
			return t
		}
		raw := &ast.RawStmt{StmtLocation: loc}
		raw.Stmt = p.parseStmt()
		if p.at(';') {
			raw.StmtLen = p.cur().Start - loc
			loc = p.cur().End
			p.pos++
		} else if !p.is(token.EOF) {
			p.syntaxError()
		}
		t.Stmts = append(t.Stmts, raw)
	}
}

func (p *parser) parseStmt() ast.Node {
	switch p.cur().Type {
	case token.SELECT, token.VALUES, token.Type('('):
		return p.selectRest()
	case token.WITH:
		with := p.withClause()
		switch p.cur().Type {
		case token.INSERT:
			n := p.insertStmt()
			n.WithClause = with
			return n
		case token.UPDATE:
			n := p.updateStmt()
			n.WithClause = with
			return n
		case token.DELETE:
			n := p.deleteStmt()
			n.WithClause = with
			return n
		case token.SELECT, token.VALUES, token.Type('('):
			s := p.selectRest()
			s.WithClause = with
			return s
		default:
			p.syntaxError()
			return nil
		}
	case token.INSERT:
		return p.insertStmt()
	case token.UPDATE:
		return p.updateStmt()
	case token.DELETE:
		return p.deleteStmt()
	case token.CREATE:
		return p.createStmt()
	case token.DROP:
		return p.dropStmt()
	case token.BEGIN, token.START, token.COMMIT, token.END, token.ROLLBACK, token.ABORT:
		return p.transactionStmt()
	default:
		p.syntaxError()
		return nil
	}
}

// preparableStmt is the statement set allowed inside WITH: data statements
// only, no DDL or transaction control.
func (p *parser) preparableStmt() ast.Node {
	switch p.cur().Type {
	case token.SELECT, token.VALUES, token.Type('('):
		return p.selectRest()
	case token.WITH, token.INSERT, token.UPDATE, token.DELETE:
		return p.parseStmt()
	default:
		p.syntaxError()
		return nil
	}
}

func (p *parser) transactionStmt() ast.Node {
	n := &ast.TransactionStmt{}
	switch p.cur().Type {
	case token.BEGIN:
		p.pos++
		n.Kind = ast.TransStmtBegin
		p.acceptTransactionWords()
	case token.START:
		p.pos++
		p.expect(token.TRANSACTION)
		n.Kind = ast.TransStmtStart
	case token.COMMIT, token.END:
		p.pos++
		n.Kind = ast.TransStmtCommit
		p.acceptTransactionWords()
	case token.ROLLBACK, token.ABORT:
		p.pos++
		n.Kind = ast.TransStmtRollback
		p.acceptTransactionWords()
	}
	return n
}

func (p *parser) acceptTransactionWords() {
	if !p.accept(token.WORK) {
		p.accept(token.TRANSACTION)
	}
}

// qualifiedName parses a possibly dotted relation name.
func (p *parser) qualifiedName() *ast.RangeVar {
	start := p.cur().Start
	rv := &ast.RangeVar{Inh: true, Relpersistence: "p", Location: start}
	parts := []string{p.colid()}
	for p.at('.') {
		p.pos++
		parts = append(parts, p.colLabel())
	}
	switch len(parts) {
	case 1:
		rv.Relname = parts[0]
	case 2:
		rv.Schemaname = parts[0]
		rv.Relname = parts[1]
	case 3:
		rv.Catalogname = parts[0]
		rv.Schemaname = parts[1]
		rv.Relname = parts[2]
	default:
		pgerr.ReportAt(int(start), "improper qualified name (too many dotted names): %s",
			strings.Join(parts, "."))
	}
	return rv
}

// nameList parses a comma-separated list of plain names as String nodes.
func (p *parser) nameList() []ast.Node {
	var out []ast.Node
	for {
		out = append(out, &ast.String{Sval: p.colid()})
		if !p.acceptByte(',') {
			return out
		}
	}
}
