package service_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supabase-community/pg-parser/internal/service"
	"github.com/supabase-community/pg-parser/internal/testutil"
	"github.com/supabase-community/pg-parser/pkg/ast"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	srv := service.NewServer(service.Config{
		Addr:    "127.0.0.1:0",
		Logger:  testutil.NewTestLogger(t),
		Version: "test",
	})
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Kind      string `json:"kind"`
		CursorPos int    `json:"cursorPos"`
		File      string `json:"file"`
		Func      string `json:"func"`
		Line      int    `json:"line"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestParseEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/parse", `{"sql":"SELECT 1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res struct {
		Tree   json.RawMessage `json:"tree"`
		Stderr string          `json:"stderr"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Tree)
	assert.Empty(t, res.Stderr)

	var tree struct {
		Version int32 `json:"version"`
	}
	require.NoError(t, json.Unmarshal(res.Tree, &tree))
	assert.Equal(t, int32(ast.Version), tree.Version)
}

func TestParseEndpointSyntaxError(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/parse", `{"sql":"SELECT a FRM t"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	e := decodeError(t, rec)
	assert.Equal(t, "syntax", e.Error.Kind)
	assert.Equal(t, `syntax error at or near "t"`, e.Error.Message)
	assert.Equal(t, 14, e.Error.CursorPos)
	assert.NotEmpty(t, e.Error.File)
	assert.NotEmpty(t, e.Error.Func)
	assert.NotZero(t, e.Error.Line)
}

func TestParseEndpointMalformedBody(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/parse", `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	e := decodeError(t, rec)
	assert.Equal(t, "request", e.Error.Kind)
	assert.Contains(t, e.Error.Message, "invalid request body")
}

func TestDeparseEndpoint(t *testing.T) {
	h := newTestHandler(t)

	parsed := doJSON(t, h, http.MethodPost, "/v1/parse", `{"sql":"select a, b from t where a > 1"}`)
	require.Equal(t, http.StatusOK, parsed.Code)

	var parseRes struct {
		Tree json.RawMessage `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(parsed.Body.Bytes(), &parseRes))

	rec := doJSON(t, h, http.MethodPost, "/v1/deparse", `{"tree":`+string(parseRes.Tree)+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		SQL string `json:"sql"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "SELECT a, b FROM t WHERE a > 1", res.SQL)
}

func TestDeparseEndpointErrors(t *testing.T) {
	h := newTestHandler(t)

	t.Run("missing tree", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/deparse", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "missing tree", decodeError(t, rec).Error.Message)
	})

	t.Run("unsupported version", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/deparse", `{"tree":{"version":1,"stmts":[]}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		e := decodeError(t, rec)
		assert.Equal(t, "codec", e.Error.Kind)
		assert.Contains(t, e.Error.Message, "unsupported tree version")
	})
}

func TestScanEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/scan", `{"sql":"SELECT 1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Tokens []struct {
			Start   int32  `json:"start"`
			End     int32  `json:"end"`
			Name    string `json:"name"`
			Keyword string `json:"keyword"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Tokens, 2)

	assert.Equal(t, int32(0), res.Tokens[0].Start)
	assert.Equal(t, int32(6), res.Tokens[0].End)
	assert.Equal(t, "SELECT", res.Tokens[0].Name)
	assert.Equal(t, "RESERVED_KEYWORD", res.Tokens[0].Keyword)

	assert.Equal(t, "ICONST", res.Tokens[1].Name)
	assert.Equal(t, "NO_KEYWORD", res.Tokens[1].Keyword)
}

func TestScanEndpointError(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/scan", `{"sql":"select 'abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	e := decodeError(t, rec)
	assert.Equal(t, "syntax", e.Error.Kind)
	assert.Equal(t, "unterminated quoted string", e.Error.Message)
	assert.Equal(t, 8, e.Error.CursorPos)
}

func TestConvertEndpointRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	parsed := doJSON(t, h, http.MethodPost, "/v1/parse", `{"sql":"select a from t group by a"}`)
	require.Equal(t, http.StatusOK, parsed.Code)

	var parseRes struct {
		Tree json.RawMessage `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(parsed.Body.Bytes(), &parseRes))

	// Text to binary.
	rec := doJSON(t, h, http.MethodPost, "/v1/convert", `{"tree":`+string(parseRes.Tree)+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var toBinary struct {
		Buffer string `json:"buffer"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toBinary))
	require.NotEmpty(t, toBinary.Buffer)
	_, err := base64.StdEncoding.DecodeString(toBinary.Buffer)
	require.NoError(t, err)

	// And back to text.
	body, err := json.Marshal(map[string]string{"buffer": toBinary.Buffer})
	require.NoError(t, err)
	rec = doJSON(t, h, http.MethodPost, "/v1/convert", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var toText struct {
		Tree json.RawMessage `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toText))
	assert.JSONEq(t, string(parseRes.Tree), string(toText.Tree))
}

func TestConvertEndpointErrors(t *testing.T) {
	h := newTestHandler(t)

	t.Run("neither field", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/convert", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "missing tree or buffer", decodeError(t, rec).Error.Message)
	})

	t.Run("both fields", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/convert", `{"tree":{},"buffer":"AAAA"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Message, "not both")
	})

	t.Run("bad base64", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/convert", `{"buffer":"not base64!"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Message, "invalid base64 buffer")
	})

	t.Run("damaged buffer", func(t *testing.T) {
		junk := base64.StdEncoding.EncodeToString([]byte{0, 1, 2, 3})
		rec := doJSON(t, h, http.MethodPost, "/v1/convert", `{"buffer":"`+junk+`"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "unpack", decodeError(t, rec).Error.Kind)
	})
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "test", res.Version)
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestHandler(t)

	first := doJSON(t, h, http.MethodGet, "/healthz", "")
	second := doJSON(t, h, http.MethodGet, "/healthz", "")

	id1 := first.Header().Get("X-Request-Id")
	id2 := second.Header().Get("X-Request-Id")
	require.NotEmpty(t, id1)
	_, err := uuid.Parse(id1)
	assert.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := service.NewServer(service.Config{
		Addr:    "127.0.0.1:0",
		Logger:  testutil.NewTestLogger(t),
		Version: "test",
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}
}
