package directive

import (
	"testing"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	d, ok := Parse("<!-- figure: intro | img/a.png | Overview | 80% -->")
	require.True(t, ok)
	assert.Equal(t, Figure, d.Name)
	assert.Equal(t, SelfClosing, d.Marker)
	assert.Equal(t, []string{"intro", "img/a.png", "Overview", "80%"}, d.Args)
	//
	d, ok = Parse("  <!--PageBreak-->\n")
	require.True(t, ok)
	assert.Equal(t, PageBreak, d.Name)
	assert.Empty(t, d.Args)
	//
	d, ok = Parse("<!-- /table -->")
	require.True(t, ok)
	assert.Equal(t, Table, d.Name)
	assert.Equal(t, Close, d.Marker)
	//
	d, ok = Parse("<!-- Table : -->")
	require.True(t, ok)
	assert.Equal(t, Open, d.Marker)
	assert.Empty(t, d.Args, "empty argument string yields no arguments")
}

func TestParseRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	for _, raw := range []string{
		"<!-- just a remark -->",
		"<!-- -->",
		"<!-- figures: a | b -->",
		"<!-- /figure -->",
		"<!-- 3d: x -->",
		"<div><!-- ref: x --></div>",
		"<!-- ref: a --><!-- ref: b -->",
		"<p>pagebreak</p>",
	} {
		if d, ok := Parse(raw); ok {
			t.Errorf("expected %q not to be a directive, got %v", raw, d)
		}
	}
}

func TestArgumentsKeepInnerPunctuation(t *testing.T) {
	d, ok := Parse(`<!-- equation: euler | e^{i\pi} + 1 = 0 -->`)
	if !ok {
		t.Fatal("expected equation directive to parse")
	}
	if d.Arg(1) != `e^{i\pi} + 1 = 0` {
		t.Errorf("unexpected latex argument %q", d.Arg(1))
	}
	if d.Arg(5) != "" {
		t.Errorf("expected missing argument to be empty, is %q", d.Arg(5))
	}
}

func rawHTML(s string) *ast.RawBlock {
	return &ast.RawBlock{Format: ast.FormatHTML, Text: s}
}

func htmlInline(s string) *ast.RawInline {
	return &ast.RawInline{Format: ast.FormatHTML, Text: s}
}

func compile(mode backend.Mode, blocks ...ast.Block) []ast.Block {
	doc := &ast.Document{Blocks: blocks}
	return Pass(doc, mode).Blocks
}

func TestFigureDirective(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	blocks := compile(backend.Typesetting, rawHTML("<!-- figure: intro | img/a.png | Overview | 80% -->"))
	require.Len(t, blocks, 1)
	para, ok := blocks[0].(*ast.Para)
	require.True(t, ok, "expected a paragraph, got %s", ast.BlockString(blocks[0]))
	require.Len(t, para.Inlines, 1)
	img, ok := para.Inlines[0].(*ast.Image)
	require.True(t, ok)
	assert.Equal(t, "fig:intro", img.Attr.ID)
	assert.Equal(t, "img/a.png", img.Target)
	w, _ := img.Attr.Get(WidthAttr)
	assert.Equal(t, "80%", w)
	assert.Equal(t, "Overview", ast.Stringify(img.Caption))
}

func TestFigureWithoutOptionalArgs(t *testing.T) {
	blocks := compile(backend.Generic, rawHTML("<!-- figure: | b.png -->"))
	img := blocks[0].(*ast.Para).Inlines[0].(*ast.Image)
	if img.Attr.ID != "fig:" {
		t.Errorf("expected bare figure prefix as identifier, is %q", img.Attr.ID)
	}
	if len(img.Caption) != 0 {
		t.Errorf("expected empty caption, is %q", ast.Stringify(img.Caption))
	}
	if _, ok := img.Attr.Get(WidthAttr); ok {
		t.Errorf("expected no width attribute")
	}
}

func TestEquationDirective(t *testing.T) {
	blocks := compile(backend.Typesetting, rawHTML("<!-- equation: euler | e^{i\\pi}+1=0 -->"))
	require.Len(t, blocks, 1)
	ins := blocks[0].(*ast.Para).Inlines
	require.Len(t, ins, 3)
	m, ok := ins[0].(*ast.Math)
	require.True(t, ok)
	assert.True(t, m.Display)
	assert.Equal(t, `e^{i\pi}+1=0`, m.Text)
	assert.Equal(t, "{#eq:euler}", ins[2].(*ast.Str).Text)
}

func TestRefDirective(t *testing.T) {
	para := &ast.Para{Inlines: []ast.Inline{
		ast.Text("see"), &ast.Space{}, htmlInline("<!-- ref: fig:intro -->"),
	}}
	blocks := compile(backend.Generic, para)
	assert.Equal(t, "see @fig:intro", ast.Stringify(blocks[0].(*ast.Para).Inlines))
}

func TestPageBreakPerMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	blocks := compile(backend.Typesetting, rawHTML("<!-- pagebreak -->"))
	raw, ok := blocks[0].(*ast.RawBlock)
	require.True(t, ok)
	assert.Equal(t, ast.FormatLaTeX, raw.Format)
	//
	blocks = compile(backend.WordProcessor, rawHTML("<!-- pagebreak -->"))
	raw, ok = blocks[0].(*ast.RawBlock)
	require.True(t, ok)
	assert.Equal(t, ast.FormatOpenXML, raw.Format)
	assert.Contains(t, raw.Text, `w:type="page"`)
	//
	blocks = compile(backend.Generic, rawHTML("<!-- pagebreak -->"))
	div, ok := blocks[0].(*ast.Div)
	require.True(t, ok)
	assert.Empty(t, div.Blocks)
	//
	para := &ast.Para{Inlines: []ast.Inline{ast.Text("a"), htmlInline("<!-- pagebreak -->")}}
	blocks = compile(backend.Generic, para)
	assert.Len(t, blocks[0].(*ast.Para).Inlines, 1, "inline break dropped in generic mode")
}

func TestTableAndAlgorithmHolders(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	native := &ast.Opaque{Type: "Table", Raw: []byte(`{"t":"Table"}`)}
	blocks := compile(backend.Generic,
		rawHTML("<!-- table: results | Measured values -->"),
		native,
		rawHTML("<!-- /table -->"),
		rawHTML("<!-- algorithm: sort | Quicksort -->"),
		rawHTML("<!-- /algorithm -->"),
	)
	require.Len(t, blocks, 3)
	tbl := blocks[0].(*ast.Div)
	assert.Equal(t, "tbl:results", tbl.Attr.ID)
	assert.True(t, tbl.Attr.HasClass(TableCaptionClass))
	require.Len(t, tbl.Blocks, 1)
	assert.Equal(t, "Measured values", ast.Stringify(tbl.Blocks[0].(*ast.Para).Inlines))
	assert.Same(t, native, blocks[1])
	alg := blocks[2].(*ast.Div)
	assert.Equal(t, "alg:sort", alg.Attr.ID)
	assert.True(t, alg.Attr.HasClass(AlgorithmCaptionClass))
	emph, ok := alg.Blocks[0].(*ast.Para).Inlines[0].(*ast.Emph)
	require.True(t, ok)
	assert.Equal(t, "Algorithm: Quicksort", ast.Stringify(emph.Inlines))
}

func TestEmptyOpenersAreDropped(t *testing.T) {
	blocks := compile(backend.Typesetting,
		rawHTML("<!-- table -->"),
		rawHTML("<!-- algorithm: | -->"),
		rawHTML("<!-- /table -->"),
	)
	if len(blocks) != 0 {
		t.Errorf("expected all directives to be dropped, have %d blocks", len(blocks))
	}
}

func TestRawDocxPerMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	payload := `<w:p xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:r><w:t>x</w:t></w:r></w:p>`
	open := rawHTML("<!-- raw-docx: " + payload + " -->")
	broken := rawHTML(`<!-- raw-docx: <w:p><w:r> -->`)
	closing := rawHTML(`<!-- /raw-docx -->`)
	blocks := compile(backend.Typesetting, open, broken, closing)
	assert.Empty(t, blocks)
	//
	blocks = compile(backend.WordProcessor, open, broken, closing)
	require.Len(t, blocks, 3)
	raw := blocks[0].(*ast.RawBlock)
	assert.Equal(t, ast.FormatOpenXML, raw.Format)
	assert.Equal(t, payload, raw.Text)
	assert.Same(t, broken, blocks[1], "malformed payload passes verbatim")
	assert.Same(t, closing, blocks[2])
}

func TestStyleDirective(t *testing.T) {
	src := rawHTML("<!-- style: Quote | To be or not -->")
	blocks := compile(backend.Typesetting, src)
	assert.Empty(t, blocks)
	//
	blocks = compile(backend.WordProcessor, rawHTML("<!-- style: Quote | To be or not -->"))
	require.Len(t, blocks, 1)
	div := blocks[0].(*ast.Div)
	style, _ := div.Attr.Get(CustomStyleAttr)
	assert.Equal(t, "Quote", style)
	assert.Equal(t, "To be or not", ast.Stringify(div.Blocks[0].(*ast.Para).Inlines))
}

func TestNonDirectivesPassThrough(t *testing.T) {
	comment := rawHTML("<!-- TODO rewrite this section -->")
	unknown := rawHTML("<!-- sidebar: x -->")
	latex := &ast.RawBlock{Format: ast.FormatLaTeX, Text: "<!-- figure: a | b -->"}
	blocks := compile(backend.Typesetting, comment, unknown, latex)
	require.Len(t, blocks, 3)
	assert.Same(t, comment, blocks[0])
	assert.Same(t, unknown, blocks[1])
	assert.Same(t, latex, blocks[2])
}

func TestNestedDirectives(t *testing.T) {
	quote := &ast.BlockQuote{Blocks: []ast.Block{rawHTML("<!-- ref: tbl:x -->")}}
	blocks := compile(backend.Generic, quote)
	inner := blocks[0].(*ast.BlockQuote).Blocks[0]
	plain, ok := inner.(*ast.Plain)
	if !ok {
		t.Fatalf("expected nested directive to compile, is %s", ast.BlockString(inner))
	}
	if s := ast.Stringify(plain.Inlines); s != "@tbl:x" {
		t.Errorf("expected reference token, is %q", s)
	}
}

func TestNativeFigureDirective(t *testing.T) {
	doc := &ast.Document{
		APIVersion: []int{1, 23, 1},
		Blocks:     []ast.Block{rawHTML("<!-- figure: intro | img/a.png | Overview | 80% -->")},
	}
	blocks := Pass(doc, backend.Typesetting).Blocks
	require.Len(t, blocks, 1)
	fig, ok := blocks[0].(*ast.FigureBlock)
	require.True(t, ok, "expected a figure block, got %s", ast.BlockString(blocks[0]))
	assert.Equal(t, "fig:intro", fig.Attr.ID)
	assert.Equal(t, "Overview", fig.Caption.Text())
	img := fig.Blocks[0].(*ast.Plain).Inlines[0].(*ast.Image)
	assert.Equal(t, "", img.Attr.ID, "identifier moves to the figure")
	assert.Equal(t, "", img.Title)
	w, _ := img.Attr.Get(WidthAttr)
	assert.Equal(t, "80%", w)
	//
	doc = &ast.Document{
		APIVersion: []int{1, 23, 1},
		Blocks:     []ast.Block{rawHTML("<!-- figure: x | x.png -->")},
	}
	fig = Pass(doc, backend.Generic).Blocks[0].(*ast.FigureBlock)
	assert.Empty(t, fig.Caption.Blocks)
	//
	doc = &ast.Document{
		APIVersion: []int{1, 22, 2, 1},
		Blocks:     []ast.Block{rawHTML("<!-- figure: x | x.png -->")},
	}
	_, ok = Pass(doc, backend.Generic).Blocks[0].(*ast.Para)
	assert.True(t, ok, "older hosts get images in paragraphs")
}

func rawDocxRegion() []ast.Block {
	return []ast.Block{
		&ast.Para{Inlines: ast.Words("before")},
		rawHTML("<!-- raw-docx -->"),
		rawHTML("<w:p><w:r><w:t>Hidden</w:t></w:r></w:p>"),
		&ast.Para{Inlines: []ast.Inline{
			htmlInline("<w:p>"), htmlInline("<w:r>"), htmlInline("<w:t>"),
			ast.Text("Also"), &ast.Space{}, ast.Text("hidden"),
			htmlInline("</w:t>"), htmlInline("</w:r>"), htmlInline("</w:p>"),
		}},
		rawHTML("<!-- /raw-docx -->"),
		&ast.Para{Inlines: ast.Words("after")},
	}
}

func TestRawDocxRegion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	blocks := compile(backend.WordProcessor, rawDocxRegion()...)
	require.Len(t, blocks, 3)
	raw, ok := blocks[1].(*ast.RawBlock)
	require.True(t, ok)
	assert.Equal(t, ast.FormatOpenXML, raw.Format)
	assert.Equal(t, "<w:p><w:r><w:t>Hidden</w:t></w:r></w:p>\n<w:p><w:r><w:t>Also hidden</w:t></w:r></w:p>", raw.Text)
	assert.Equal(t, "after", ast.Stringify(blocks[2].(*ast.Para).Inlines))
	//
	for _, mode := range []backend.Mode{backend.Typesetting, backend.Generic} {
		blocks = compile(mode, rawDocxRegion()...)
		require.Len(t, blocks, 2, "mode %s", mode)
		assert.Equal(t, "before", ast.Stringify(blocks[0].(*ast.Para).Inlines))
		assert.Equal(t, "after", ast.Stringify(blocks[1].(*ast.Para).Inlines))
	}
}

func TestRawDocxRegionEdgeCases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "refpipe.directive")
	defer teardown()
	//
	blocks := compile(backend.WordProcessor,
		rawHTML("<!-- raw-docx -->"),
		rawHTML("<w:p><w:r>"),
		rawHTML("<!-- /raw-docx -->"),
	)
	assert.Empty(t, blocks, "malformed region is dropped")
	//
	open := rawHTML("<!-- raw-docx -->")
	blocks = compile(backend.WordProcessor, open, &ast.Para{Inlines: ast.Words("text")})
	require.Len(t, blocks, 2, "opener without closer is left alone")
	assert.Same(t, open, blocks[0])
	//
	quote := &ast.BlockQuote{Blocks: []ast.Block{
		rawHTML("<!-- raw-docx -->"),
		rawHTML("<w:br/>"),
		rawHTML("<!-- /raw-docx -->"),
	}}
	blocks = compile(backend.WordProcessor, quote)
	inner := blocks[0].(*ast.BlockQuote).Blocks
	require.Len(t, inner, 1, "regions are folded in nested sequences")
	assert.Equal(t, "<w:br/>", inner[0].(*ast.RawBlock).Text)
}

func TestFigureCaptionSegmented(t *testing.T) {
	blocks := compile(backend.Typesetting, rawHTML("<!-- figure: a | a.png | 概要 -->"))
	caption := blocks[0].(*ast.Para).Inlines[0].(*ast.Image).Caption
	require.Len(t, caption, 3)
	assert.True(t, backend.IsFontSwitch(caption[0], true))
	assert.Equal(t, "概要", caption[1].(*ast.Str).Text)
	//
	blocks = compile(backend.WordProcessor, rawHTML("<!-- figure: a | a.png | 概要 -->"))
	caption = blocks[0].(*ast.Para).Inlines[0].(*ast.Image).Caption
	assert.Len(t, caption, 1)
}
