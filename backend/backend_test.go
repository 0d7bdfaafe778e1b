package backend

import (
	"errors"
	"testing"

	"github.com/npillmayer/refpipe/ast"
	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"typesetting":      Typesetting,
		"LaTeX":            Typesetting,
		"pdf":              Typesetting,
		"docx":             WordProcessor,
		" word-processor ": WordProcessor,
		"":                 Generic,
		"html":             Generic,
	} {
		m, err := ParseMode(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, m, in)
	}
	if _, err := ParseMode("troff"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestModeText(t *testing.T) {
	var m Mode
	assert.NoError(t, m.UnmarshalText([]byte("openxml")))
	assert.Equal(t, WordProcessor, m)
	b, _ := m.MarshalText()
	assert.Equal(t, "word-processor", string(b))
	assert.Error(t, m.UnmarshalText([]byte("rtf")))
}

func TestCapabilities(t *testing.T) {
	assert.True(t, Typesetting.SwitchesFonts())
	assert.True(t, Typesetting.TagsMath())
	assert.False(t, Typesetting.AcceptsRawDocx())
	assert.True(t, WordProcessor.AcceptsRawDocx())
	assert.True(t, WordProcessor.AppliesStyles())
	assert.False(t, Generic.SwitchesFonts())
	assert.Nil(t, Generic.InlinePageBreak())
	assert.Equal(t, ast.FormatLaTeX, Typesetting.RawFormat())
}

func TestRegions(t *testing.T) {
	r := WrapFigure("left", `0.3\textwidth`)
	assert.Equal(t, `\begin{wrapfigure}{l}{0.3\textwidth}`, r.Begin)
	blocks := MultiColumns(2).Wrap([]ast.Block{&ast.Para{}})
	assert.Len(t, blocks, 3)
	assert.Equal(t, `\end{multicols}`, blocks[2].(*ast.RawBlock).Text)
	assert.Equal(t, `x \tag{3}`, TagMath("x", 3))
}

func TestFontSwitch(t *testing.T) {
	ins := FontSwitch("漢字")
	assert.Len(t, ins, 3)
	assert.True(t, IsFontSwitch(ins[0], true))
	assert.False(t, IsFontSwitch(ins[0], false))
	assert.True(t, IsFontSwitch(ins[2], false))
	assert.False(t, IsFontSwitch(ins[1], true))
}
