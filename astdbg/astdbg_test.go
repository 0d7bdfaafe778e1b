package astdbg_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/astdbg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTree(t *testing.T) {
	doc := &ast.Document{
		Meta: ast.Meta{
			"lang":   ast.MetaString("en"),
			"author": ast.MetaList{ast.MetaString("A")},
		},
		Blocks: []ast.Block{
			&ast.Div{
				Attr: ast.NewAttr("tbl:x", "table-caption"),
				Blocks: []ast.Block{&ast.Para{Inlines: []ast.Inline{
					&ast.Emph{Inlines: ast.Words("Table 1")},
					&ast.Math{Display: true, Text: "x"},
				}}},
			},
			&ast.RawBlock{Format: "latex", Text: `\newpage`},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, astdbg.Print(&buf, doc))
	out := buf.String()
	t.Log("\n" + out)
	assert.True(t, strings.HasPrefix(out, "Document\n"))
	for _, want := range []string{
		"Meta",
		`lang: "en"`,
		"author: MetaList",
		`[0]: "A"`,
		"Div{#tbl:x .table-caption}",
		"Emph",
		`Str "Table"`,
		`Math(display) "x"`,
		`RawBlock(latex)["\\newpage"]`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "author"), strings.Index(out, "lang"), "meta keys are sorted")
}

func TestEmptyDocument(t *testing.T) {
	assert.Equal(t, "Document\n", astdbg.String(nil))
}

func TestPrintContainers(t *testing.T) {
	cell := ast.Cell{RowSpan: 1, ColSpan: 2, Blocks: []ast.Block{
		&ast.Plain{Inlines: ast.Words("cell")},
	}}
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.Para{Inlines: []ast.Inline{
			&ast.Link{Inlines: ast.Words("home"), Target: "https://example.org"},
			&ast.Note{Blocks: []ast.Block{&ast.Para{Inlines: ast.Words("noted")}}},
			&ast.Quoted{Double: true, Inlines: ast.Words("q")},
			&ast.Styled{Style: ast.SmallCapsTag, Inlines: ast.Words("sc")},
		}},
		&ast.FigureBlock{
			Attr: ast.NewAttr("fig:a"),
			Caption: ast.Caption{
				Short:  ast.Words("brief"),
				Blocks: []ast.Block{&ast.Plain{Inlines: ast.Words("Overview")}},
			},
			Blocks: []ast.Block{&ast.Plain{Inlines: []ast.Inline{&ast.Image{Target: "a.png"}}}},
		},
		&ast.TableBlock{
			Attr:   ast.NewAttr("tbl:t"),
			Bodies: []ast.TableBody{{Rows: []ast.Row{{Cells: []ast.Cell{cell}}}}},
		},
	}}
	out := astdbg.String(doc)
	t.Log("\n" + out)
	for _, want := range []string{
		`Link "https://example.org"`,
		`Str "home"`,
		"Note",
		`Str "noted"`,
		"Quoted(double)",
		"SmallCaps",
		"Figure{#fig:a}",
		"Caption",
		"Short",
		`Str "brief"`,
		`Str "Overview"`,
		`Image "a.png"`,
		"Table{#tbl:t}",
		"Cell 1x2",
		`Str "cell"`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "Caption"), "empty table caption is omitted")
}
