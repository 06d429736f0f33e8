package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

type parseRequest struct {
	SQL string `json:"sql"`
}

type parseResponse struct {
	Tree   json.RawMessage `json:"tree"`
	Stderr string          `json:"stderr,omitempty"`
}

type deparseRequest struct {
	Tree json.RawMessage `json:"tree"`
}

type deparseResponse struct {
	SQL string `json:"sql"`
}

type scanRequest struct {
	SQL string `json:"sql"`
}

type scanResponse struct {
	Tokens []tokenJSON `json:"tokens"`
}

type tokenJSON struct {
	Start   int32  `json:"start"`
	End     int32  `json:"end"`
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
}

// convertRequest carries a tree in exactly one encoding; the direction of
// conversion is inferred from which field is present.
type convertRequest struct {
	Tree   json.RawMessage `json:"tree,omitempty"`
	Buffer string          `json:"buffer,omitempty"`
}

type convertResponse struct {
	Tree   json.RawMessage `json:"tree,omitempty"`
	Buffer string          `json:"buffer,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type errorBody struct {
	Error errorInfoJSON `json:"error"`
}

type errorInfoJSON struct {
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	CursorPos int    `json:"cursorPos"`
	File      string `json:"file,omitempty"`
	Func      string `json:"func,omitempty"`
	Line      int    `json:"line,omitempty"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// writeError maps a parser error to the error envelope with status 422;
// anything else becomes a bare 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var info *pgparser.ErrorInfo
	if !errors.As(err, &info) {
		s.writeJSON(w, http.StatusInternalServerError, errorBody{
			Error: errorInfoJSON{Message: err.Error(), Kind: "internal"},
		})
		return
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{
		Error: errorInfoJSON{
			Message:   info.Message,
			Kind:      info.Kind.String(),
			CursorPos: info.CursorPos,
			File:      info.File,
			Func:      info.Func,
			Line:      info.Line,
		},
	})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorBody{
		Error: errorInfoJSON{Message: msg, Kind: "request"},
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	res, err := pgparser.Parse(req.SQL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, parseResponse{
		Tree:   json.RawMessage(res.Tree),
		Stderr: string(res.Stderr),
	})
}

func (s *Server) handleDeparse(w http.ResponseWriter, r *http.Request) {
	var req deparseRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if len(req.Tree) == 0 {
		s.badRequest(w, "missing tree")
		return
	}

	sql, err := pgparser.Deparse(string(req.Tree))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deparseResponse{SQL: sql})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	res, err := pgparser.Scan(req.SQL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	tokens := make([]tokenJSON, len(res.Tokens))
	for i, tk := range res.Tokens {
		tokens[i] = tokenJSON{
			Start:   tk.Start,
			End:     tk.End,
			Name:    tk.Name(),
			Keyword: tk.Keyword.String(),
		}
	}
	s.writeJSON(w, http.StatusOK, scanResponse{Tokens: tokens})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	switch {
	case len(req.Tree) > 0 && req.Buffer != "":
		s.badRequest(w, "provide either tree or buffer, not both")

	case len(req.Tree) > 0:
		buf, err := pgparser.TextToBinary(string(req.Tree))
		if err != nil {
			s.writeError(w, err)
			return
		}
		defer buf.Release()
		s.writeJSON(w, http.StatusOK, convertResponse{
			Buffer: base64.StdEncoding.EncodeToString(buf.Bytes()),
		})

	case req.Buffer != "":
		raw, err := base64.StdEncoding.DecodeString(req.Buffer)
		if err != nil {
			s.badRequest(w, "invalid base64 buffer: "+err.Error())
			return
		}
		text, err := pgparser.BinaryToText(raw)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, convertResponse{Tree: json.RawMessage(text)})

	default:
		s.badRequest(w, "missing tree or buffer")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.version})
}
