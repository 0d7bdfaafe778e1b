package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/refpipe/config"
	"github.com/npillmayer/schuko/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, backend.Generic, c.Mode)
	assert.Equal(t, "", c.Language)
	assert.Equal(t, tracing.LevelError, c.TraceLevel())
	assert.NoError(t, c.Validate())
	assert.Equal(t, "Figure ", c.PrefixTable().Default["figure"])
}

func TestParseOverlaysDefaults(t *testing.T) {
	c, err := config.Parse([]byte(`
mode: latex
prefixes:
  languages:
    DE:
      figure: "Abbildung "
`))
	require.NoError(t, err)
	assert.Equal(t, backend.Typesetting, c.Mode)
	assert.Equal(t, "error", c.Trace, "missing keys keep their defaults")
	table := c.PrefixTable()
	assert.Equal(t, "Abbildung ", table.Languages["de"]["figure"])
	assert.Equal(t, "Table ", table.Default["table"])
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{
		"mode: postscript",
		"trace: verbose",
		"prefixes: [1, 2]",
		"prefixes:\n  languages:\n    \" \":\n      figure: x\n",
	} {
		_, err := config.Parse([]byte(in))
		assert.Error(t, err, in)
	}
	_, err := config.Parse([]byte("trace: loud"))
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestLoad(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, backend.Generic, c.Mode)
	//
	dir := t.TempDir()
	c, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err, "missing file yields defaults")
	assert.Equal(t, backend.Generic, c.Mode)
	//
	path := filepath.Join(dir, "refpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: docx\nlanguage: ja\ntrace: debug\n"), 0o644))
	c, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, backend.WordProcessor, c.Mode)
	assert.Equal(t, "ja", c.Language)
	assert.Equal(t, tracing.LevelDebug, c.TraceLevel())
	//
	require.NoError(t, os.WriteFile(path, []byte("mode: [\n"), 0o644))
	_, err = config.Load(path)
	assert.Error(t, err)
}

func TestPipeline(t *testing.T) {
	c, err := config.Parse([]byte(`
mode: typesetting
language: de
prefixes:
  languages:
    de:
      figure: "Abbildung "
`))
	require.NoError(t, err)
	p := c.Pipeline()
	assert.Equal(t, backend.Typesetting, p.Mode())
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.RawBlock{Format: ast.FormatHTML, Text: "<!-- figure: f | f.png | Aufbau -->"},
	}}
	result, err := p.Render(doc)
	require.NoError(t, err)
	img := result.Document.Blocks[0].(*ast.Para).Inlines[0].(*ast.Image)
	assert.Equal(t, "Abbildung 1: Aufbau", ast.Stringify(img.Caption))
}
