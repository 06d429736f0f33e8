package pgparser

import (
	"errors"
	"unicode/utf8"

	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/wire"
)

// ErrorKind classifies a failed operation by which layer rejected it.
type ErrorKind int

const (
	// KindInternal reports an invariant violation inside the boundary
	// itself. Callers should treat it as a bug in this library.
	KindInternal ErrorKind = iota
	// KindSyntax reports the engine rejecting the SQL source text.
	KindSyntax
	// KindDeparse reports the engine rejecting a tree or node while
	// rendering it back to SQL.
	KindDeparse
	// KindCodec reports content an encoding cannot represent or
	// reconstruct: unknown kinds or fields, version mismatches, malformed
	// values inside a sound envelope.
	KindCodec
	// KindUnpack reports a binary buffer whose envelope cannot be opened
	// at all.
	KindUnpack
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindDeparse:
		return "deparse"
	case KindCodec:
		return "codec"
	case KindUnpack:
		return "unpack"
	}
	return "internal"
}

// ErrorInfo is the failure side of an operation's envelope. Every field is
// a copy made before the call's allocation region closed; the value never
// references engine memory.
//
// CursorPos is a 1-based character position into the operation's source
// text, 0 when the failure has no position. File, Func, and Line identify
// the engine's report site for engine failures; codec and unpack failures
// leave them empty. Stderr carries the diagnostics the engine wrote before
// failing, when the operation has a diagnostic channel.
type ErrorInfo struct {
	Kind      ErrorKind
	Message   string
	File      string
	Func      string
	Line      int
	CursorPos int
	Context   string
	Stderr    []byte
}

func (e *ErrorInfo) Error() string {
	return e.Message
}

// engineError copies one engine report into a caller-visible ErrorInfo.
func engineError(kind ErrorKind, src string, pe *pgerr.Error, stderr []byte) *ErrorInfo {
	return &ErrorInfo{
		Kind:      kind,
		Message:   pe.Message,
		File:      pe.File,
		Func:      pe.Func,
		Line:      pe.Line,
		CursorPos: cursorPos(src, pe.Location),
		Context:   pe.Context,
		Stderr:    stderr,
	}
}

// wireError classifies a binary codec failure: framing damage keeps the
// codec's fixed unpack message and carries no site information, while
// content errors keep their specific message.
func wireError(err error) *ErrorInfo {
	var cerr *wire.CodecError
	if errors.As(err, &cerr) {
		return &ErrorInfo{Kind: KindCodec, Message: cerr.Msg}
	}
	if errors.Is(err, wire.ErrUnpack) {
		return &ErrorInfo{Kind: KindUnpack, Message: err.Error()}
	}
	return &ErrorInfo{Kind: KindInternal, Message: err.Error()}
}

// cursorPos converts a byte offset in src into the 1-based character
// position the envelope reports, counting multi-byte characters as one.
func cursorPos(src string, loc int) int {
	if loc < 0 {
		return 0
	}
	if loc > len(src) {
		loc = len(src)
	}
	return utf8.RuneCountInString(src[:loc]) + 1
}
