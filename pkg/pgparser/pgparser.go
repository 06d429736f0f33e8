// Package pgparser is the public boundary around the SQL engine. It turns
// source text into parse trees, trees back into SQL, and token streams
// with byte positions, in both a text encoding (JSON) and a binary one.
//
// The engine underneath reports failures by unwinding; every operation
// here runs inside a recovery region that stops the unwind, copies the
// report into an *ErrorInfo, and releases the call's allocations. A nil
// error therefore always comes with a fully owned result: no returned
// value references engine memory, and the only resource a caller manages
// is the TreeBuffer handed out by ParseToBuffer and TextToBinary, which
// must be released exactly once.
package pgparser

import (
	"github.com/supabase-community/pg-parser/internal/grammar"
	"github.com/supabase-community/pg-parser/internal/render"
	"github.com/supabase-community/pg-parser/internal/scan"
	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
	"github.com/supabase-community/pg-parser/pkg/wire"
)

// ParseResult is a successful Parse. Tree holds the parse tree in the
// text encoding; Stderr holds the diagnostic bytes the engine wrote while
// parsing (nil when it wrote none).
type ParseResult struct {
	Tree   string
	Stderr []byte
}

// ScanToken is one lexed token. Start and End are byte offsets into the
// scanned source, with End pointing one past the token's last byte.
type ScanToken struct {
	Start   int32
	End     int32
	Type    token.Type
	Keyword token.KeywordKind
}

// Name reports the token type's name, "SELECT" or "ICONST".
func (t ScanToken) Name() string {
	return t.Type.String()
}

// ScanResult is a successful Scan.
type ScanResult struct {
	Tokens []ScanToken
}

// Parse parses sql and returns its tree in the text encoding. A rejected
// source yields an *ErrorInfo of KindSyntax carrying the engine's message,
// cursor position, and any diagnostics written before the failure.
func Parse(sql string) (*ParseResult, error) {
	var res *ParseResult
	err := run(KindSyntax, sql, func(c *callCtx) error {
		tree := grammar.Parse(sql, c.diag)
		text, err := ast.MarshalTree(tree)
		if err != nil {
			return &ErrorInfo{Kind: KindInternal, Message: err.Error()}
		}
		res = &ParseResult{Tree: string(text), Stderr: c.diag.Copy()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ParseToBuffer parses sql and returns its tree in the binary encoding.
// The caller owns the returned buffer and must release it exactly once.
func ParseToBuffer(sql string) (*TreeBuffer, error) {
	var res *TreeBuffer
	err := run(KindSyntax, sql, func(c *callCtx) error {
		tree := grammar.Parse(sql, c.diag)
		enc, err := wire.EncodeTree(tree)
		if err != nil {
			return &ErrorInfo{Kind: KindInternal, Message: err.Error()}
		}
		res = newTreeBuffer(c, enc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deparse renders a tree in the text encoding back to SQL. Statements are
// joined with "; ". A tree the encoding cannot reconstruct yields
// KindCodec; a tree the engine cannot render yields KindDeparse.
func Deparse(tree string) (string, error) {
	var sql string
	err := run(KindDeparse, "", func(c *callCtx) error {
		t, err := ast.UnmarshalTree([]byte(tree))
		if err != nil {
			return &ErrorInfo{Kind: KindCodec, Message: err.Error()}
		}
		sql = render.Tree(t)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sql, nil
}

// DeparseNode renders a single node from the binary encoding back to SQL.
// A buffer whose envelope cannot be opened yields KindUnpack; a sound
// envelope with content the encoding cannot reconstruct, or holding the
// wrong payload kind, yields KindCodec; a node the engine cannot render
// yields KindDeparse.
func DeparseNode(buf []byte) (string, error) {
	var sql string
	err := run(KindDeparse, "", func(c *callCtx) error {
		n, err := wire.DecodeNode(buf)
		if err != nil {
			return wireError(err)
		}
		sql = render.Node(n)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sql, nil
}

// Scan lexes sql into tokens with byte positions and keyword classes.
// Comments are included; no end-of-input token is appended. A source the
// scanner rejects yields KindSyntax.
func Scan(sql string) (*ScanResult, error) {
	var res *ScanResult
	err := run(KindSyntax, sql, func(c *callCtx) error {
		toks := scan.New(sql, c.diag).All()
		wts := make([]wire.Token, len(toks))
		for i, tk := range toks {
			wts[i] = wire.Token{
				Start:   tk.Start,
				End:     tk.End,
				Type:    tk.Type,
				Keyword: tk.Keyword(),
			}
		}
		dec, err := wire.DecodeTokens(wire.EncodeTokens(wts))
		if err != nil {
			return wireError(err)
		}
		out := make([]ScanToken, len(dec))
		for i, tk := range dec {
			out[i] = ScanToken(tk)
		}
		res = &ScanResult{Tokens: out}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// BinaryToText re-encodes a binary tree buffer into the text encoding.
func BinaryToText(buf []byte) (string, error) {
	var out string
	err := run(KindInternal, "", func(c *callCtx) error {
		t, err := wire.DecodeTree(buf)
		if err != nil {
			return wireError(err)
		}
		text, err := ast.MarshalTree(t)
		if err != nil {
			return &ErrorInfo{Kind: KindInternal, Message: err.Error()}
		}
		out = string(text)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// TextToBinary re-encodes a tree from the text encoding into a binary
// buffer. The caller owns the returned buffer and must release it exactly
// once.
func TextToBinary(tree string) (*TreeBuffer, error) {
	var res *TreeBuffer
	err := run(KindCodec, "", func(c *callCtx) error {
		t, err := ast.UnmarshalTree([]byte(tree))
		if err != nil {
			return &ErrorInfo{Kind: KindCodec, Message: err.Error()}
		}
		enc, err := wire.EncodeTree(t)
		if err != nil {
			return wireError(err)
		}
		res = newTreeBuffer(c, enc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
