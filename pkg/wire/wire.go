// Package wire implements the binary tree encoding: a length-prefixed,
// CRC-checked envelope around a field-tagged serialization of the ast node
// schema, plus a compact form for scanned token streams.
//
// The envelope is
//
//	magic "PGQT" | u8 payload kind | u32 LE schema version | u32 LE payload
//	length | payload | u32 LE CRC-32 (IEEE) of the payload
//
// with payload kinds for a whole tree, a single node, and a token stream.
// A tree payload holds a varint statement count followed by each statement's
// zigzag-varint location, varint length, and node. A node is its varint kind
// tag (0 for a nil node), a varint field count, and the fields, each a
// varint field id, a wire-type byte, and the value. Field ids follow the
// structured text encoding's field order per kind and are append-only.
// Zero-valued fields are omitted, so decode reproduces the encoder's input
// node for node equality, and encoding is deterministic: the same tree
// always yields the same bytes.
//
// Failures split two ways, matching how callers present them. Damage to the
// envelope itself (a short buffer, wrong magic, an unrecognized payload
// kind, a length that disagrees with the buffer, a CRC mismatch) is an
// unpack failure and always reports ErrUnpack. Content the codec cannot
// handle inside an intact envelope (the wrong payload kind for the call, a
// version mismatch, unknown kind tags or field ids, malformed values) is a
// *CodecError carrying a specific message.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
)

// Payload kinds, stored in the envelope's kind byte.
const (
	PayloadTree   byte = 1
	PayloadNode   byte = 2
	PayloadTokens byte = 3
)

// Wire types of field values. A varint scalar is zigzag-encoded. wtFloat is
// reserved for floating-point fields; no field of the current schema uses
// it.
const (
	wtVarint  byte = 0
	wtBytes   byte = 1
	wtNode    byte = 2
	wtList    byte = 3
	wtBool    byte = 4
	wtFloat   byte = 5
	wtStrings byte = 6
)

const (
	magic      = "PGQT"
	headerLen  = len(magic) + 1 + 4 + 4
	trailerLen = 4
)

// ErrUnpack reports a buffer whose envelope cannot be opened at all. The
// message is deliberately fixed: a damaged envelope carries no trustworthy
// detail to report.
var ErrUnpack = errors.New("failed to unpack binary buffer")

// CodecError reports content the codec cannot represent or reconstruct
// inside a structurally sound envelope.
type CodecError struct {
	Msg string
}

func (e *CodecError) Error() string { return e.Msg }

func codecErrf(format string, args ...any) error {
	return &CodecError{Msg: fmt.Sprintf(format, args...)}
}

// Token is the wire form of one scanned token: its half-open byte span, its
// type code, and the type's keyword reservation class.
type Token struct {
	Start   int32
	End     int32
	Type    token.Type
	Keyword token.KeywordKind
}

// EncodeTree serializes a tree into a fresh buffer. The tree's own version
// is embedded; decoders reject versions other than the library's.
func EncodeTree(t *ast.Tree) ([]byte, error) {
	if t == nil {
		return nil, codecErrf("encode of nil tree")
	}
	e := &encoder{}
	e.header(PayloadTree, t.Version)
	e.uvarint(uint64(len(t.Stmts)))
	for i, rs := range t.Stmts {
		if rs == nil {
			return nil, codecErrf("statement %d is nil", i)
		}
		e.svarint(int64(rs.StmtLocation))
		e.uvarint(uint64(uint32(rs.StmtLen)))
		e.node(rs.Stmt)
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.seal(), nil
}

// DecodeTree deserializes a tree buffer produced by EncodeTree.
func DecodeTree(buf []byte) (*ast.Tree, error) {
	payload, version, err := openEnvelope(buf, PayloadTree)
	if err != nil {
		return nil, err
	}
	d := &decoder{buf: payload}
	n := d.listLen()
	t := &ast.Tree{Version: version}
	for i := uint64(0); i < n && d.err == nil; i++ {
		rs := &ast.RawStmt{}
		rs.StmtLocation = d.toI32(d.svarint())
		rs.StmtLen = d.u32()
		rs.Stmt = d.node()
		t.Stmts = append(t.Stmts, rs)
	}
	d.finish()
	if d.err != nil {
		return nil, d.err
	}
	return t, nil
}

// EncodeNode serializes one node into a single-node buffer, the input form
// of the single-node deparse operation. A nil node encodes as the nil kind
// tag.
func EncodeNode(n ast.Node) ([]byte, error) {
	e := &encoder{}
	e.header(PayloadNode, ast.Version)
	e.node(n)
	if e.err != nil {
		return nil, e.err
	}
	return e.seal(), nil
}

// DecodeNode deserializes a single-node buffer. A buffer holding the nil
// kind tag yields a nil node and no error.
func DecodeNode(buf []byte) (ast.Node, error) {
	payload, _, err := openEnvelope(buf, PayloadNode)
	if err != nil {
		return nil, err
	}
	d := &decoder{buf: payload}
	n := d.node()
	d.finish()
	if d.err != nil {
		return nil, d.err
	}
	return n, nil
}

// EncodeTokens serializes a scanned token stream.
func EncodeTokens(toks []Token) []byte {
	e := &encoder{}
	e.header(PayloadTokens, ast.Version)
	e.uvarint(uint64(len(toks)))
	for _, t := range toks {
		e.uvarint(uint64(uint32(t.Start)))
		e.uvarint(uint64(uint32(t.End)))
		e.uvarint(uint64(uint32(t.Type)))
		e.uvarint(uint64(uint32(t.Keyword)))
	}
	return e.seal()
}

// DecodeTokens deserializes a token stream buffer.
func DecodeTokens(buf []byte) ([]Token, error) {
	payload, _, err := openEnvelope(buf, PayloadTokens)
	if err != nil {
		return nil, err
	}
	d := &decoder{buf: payload}
	n := d.listLen()
	toks := make([]Token, 0, n)
	for i := uint64(0); i < n && d.err == nil; i++ {
		toks = append(toks, Token{
			Start:   d.u32(),
			End:     d.u32(),
			Type:    token.Type(d.u32()),
			Keyword: token.KeywordKind(d.u32()),
		})
	}
	d.finish()
	if d.err != nil {
		return nil, d.err
	}
	return toks, nil
}

// openEnvelope validates the framing of buf and returns its payload and
// embedded version. Framing damage is ErrUnpack; a wrong payload kind or an
// unsupported version inside sound framing is a codec error.
func openEnvelope(buf []byte, want byte) ([]byte, int32, error) {
	if len(buf) < headerLen+trailerLen {
		return nil, 0, ErrUnpack
	}
	if string(buf[:len(magic)]) != magic {
		return nil, 0, ErrUnpack
	}
	kind := buf[len(magic)]
	if kind != PayloadTree && kind != PayloadNode && kind != PayloadTokens {
		return nil, 0, ErrUnpack
	}
	version := int32(binary.LittleEndian.Uint32(buf[len(magic)+1:]))
	plen := int(binary.LittleEndian.Uint32(buf[len(magic)+5:]))
	if plen < 0 || len(buf) != headerLen+plen+trailerLen {
		return nil, 0, ErrUnpack
	}
	payload := buf[headerLen : headerLen+plen]
	sum := binary.LittleEndian.Uint32(buf[headerLen+plen:])
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, 0, ErrUnpack
	}
	if kind != want {
		return nil, 0, codecErrf("buffer holds a %s payload where a %s payload was expected",
			payloadName(kind), payloadName(want))
	}
	if version != ast.Version {
		return nil, 0, codecErrf("schema version %d is not supported (want %d)", version, ast.Version)
	}
	return payload, version, nil
}

func payloadName(kind byte) string {
	switch kind {
	case PayloadTree:
		return "tree"
	case PayloadNode:
		return "node"
	case PayloadTokens:
		return "token stream"
	}
	return "unknown"
}
