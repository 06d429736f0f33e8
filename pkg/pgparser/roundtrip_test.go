package pgparser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

type corpusFile struct {
	Statements []string `yaml:"statements"`
	Scripts    []string `yaml:"scripts"`
}

func loadCorpus(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "corpus.yaml"))
	require.NoError(t, err)
	var c corpusFile
	require.NoError(t, yaml.Unmarshal(data, &c))
	require.NotEmpty(t, c.Statements)
	require.NotEmpty(t, c.Scripts)
	return append(c.Statements, c.Scripts...)
}

// One parse and deparse reaches the canonical spelling: deparsing again
// changes nothing, and the reparsed tree is a fixed point of the cycle.
func TestCorpusStability(t *testing.T) {
	for _, sql := range loadCorpus(t) {
		res, err := pgparser.Parse(sql)
		require.NoError(t, err, "parse of %q", sql)
		sql1, err := pgparser.Deparse(res.Tree)
		require.NoError(t, err, "deparse of %q", sql)

		res2, err := pgparser.Parse(sql1)
		require.NoError(t, err, "reparse of %q (from %q)", sql1, sql)
		sql2, err := pgparser.Deparse(res2.Tree)
		require.NoError(t, err, "second deparse of %q", sql)
		require.Equal(t, sql1, sql2, "deparse of %q is not stable", sql)

		res3, err := pgparser.Parse(sql2)
		require.NoError(t, err)
		require.Equal(t, res2.Tree, res3.Tree, "tree of %q is not stable", sql)
	}
}

// Both encodings carry every corpus tree: the binary buffer converts to
// the exact text document, and that document back to the exact bytes.
func TestCorpusFormatBridge(t *testing.T) {
	for _, sql := range loadCorpus(t) {
		buf, err := pgparser.ParseToBuffer(sql)
		require.NoError(t, err, "parse of %q", sql)

		text, err := pgparser.BinaryToText(buf.Bytes())
		require.NoError(t, err, "binary to text of %q", sql)

		res, err := pgparser.Parse(sql)
		require.NoError(t, err)
		require.Equal(t, res.Tree, text, "encodings of %q diverge", sql)

		back, err := pgparser.TextToBinary(text)
		require.NoError(t, err, "text to binary of %q", sql)
		require.Equal(t, buf.Bytes(), back.Bytes(), "binary encoding of %q is not stable", sql)

		back.Release()
		buf.Release()
	}
}
