package directive

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/refpipe/script"
)

// Classes and attributes of the nodes a directive compiles to. The
// numbering pass looks for these.
const (
	TableCaptionClass     = "table-caption"
	AlgorithmCaptionClass = "algorithm-caption"
	CaptionAttr           = "caption"
	WidthAttr             = "width"
	CustomStyleAttr       = "custom-style"
)

// FigureTitle marks an image as a figure, the way pandoc does for
// implicit figures.
const FigureTitle = "fig:"

// AlgorithmLead is the text leading an algorithm caption before numbering.
const AlgorithmLead = "Algorithm:"

// Compiler compiles directives for one backend mode.
type Compiler struct {
	mode backend.Mode
	// NativeFigures makes block-level figure directives compile to figure
	// blocks instead of images in paragraphs.
	NativeFigures bool
}

// NewCompiler creates a compiler for mode.
func NewCompiler(mode backend.Mode) *Compiler {
	return &Compiler{mode: mode}
}

// Mode returns the backend mode the compiler targets.
func (c *Compiler) Mode() backend.Mode {
	return c.mode
}

// Block compiles a directive found in block context. src is the raw block
// carrying the directive; it is returned for directives which are kept
// verbatim. An empty result drops the directive.
func (c *Compiler) Block(d Directive, src ast.Block) []ast.Block {
	switch d.Name {
	case Figure:
		if c.NativeFigures {
			return []ast.Block{c.figureBlock(d)}
		}
		return []ast.Block{&ast.Para{Inlines: []ast.Inline{c.figureImage(d)}}}
	case Equation:
		return []ast.Block{&ast.Para{Inlines: equation(d)}}
	case Ref:
		return []ast.Block{&ast.Plain{Inlines: []ast.Inline{reference(d)}}}
	case PageBreak:
		return []ast.Block{c.mode.PageBreak()}
	case Table, Algorithm:
		if d.Marker == Close {
			return nil
		}
		if holder := captionHolder(d); holder != nil {
			return []ast.Block{holder}
		}
		tracer().Debugf("dropping empty %s directive", d.Name)
		return nil
	case RawDocx:
		if !c.mode.AcceptsRawDocx() {
			return nil
		}
		if payload, ok := rawDocxPayload(d); ok {
			return []ast.Block{&ast.RawBlock{Format: ast.FormatOpenXML, Text: payload}}
		}
		return []ast.Block{src}
	case Style:
		if !c.mode.AppliesStyles() {
			return nil
		}
		return []ast.Block{&ast.Div{
			Attr:   ast.Attr{}.WithKV(CustomStyleAttr, d.Arg(0)),
			Blocks: []ast.Block{&ast.Para{Inlines: ast.Words(d.Arg(1))}},
		}}
	}
	return []ast.Block{src}
}

// Inline compiles a directive found in inline context. Container openers
// need block context and are returned unchanged.
func (c *Compiler) Inline(d Directive, src ast.Inline) []ast.Inline {
	switch d.Name {
	case Figure:
		return []ast.Inline{c.figureImage(d)}
	case Equation:
		return equation(d)
	case Ref:
		return []ast.Inline{reference(d)}
	case PageBreak:
		if br := c.mode.InlinePageBreak(); br != nil {
			return []ast.Inline{br}
		}
		return nil
	case Table, Algorithm:
		if d.Marker == Close {
			return nil
		}
	case RawDocx:
		if !c.mode.AcceptsRawDocx() {
			return nil
		}
		if payload, ok := rawDocxPayload(d); ok {
			return []ast.Inline{&ast.RawInline{Format: ast.FormatOpenXML, Text: payload}}
		}
	case Style:
		if !c.mode.AppliesStyles() {
			return nil
		}
		return []ast.Inline{&ast.Span{
			Attr:    ast.Attr{}.WithKV(CustomStyleAttr, d.Arg(0)),
			Inlines: ast.Words(d.Arg(1)),
		}}
	}
	return []ast.Inline{src}
}

// figure: label | path | caption? | width?
func (c *Compiler) figureImage(d Directive) *ast.Image {
	attr := ast.NewAttr(ast.Figure.Identifier(d.Arg(0)))
	if w := d.Arg(3); w != "" {
		attr = attr.WithKV(WidthAttr, w)
	}
	var caption []ast.Inline
	if text := d.Arg(2); text != "" {
		caption = c.words(text)
	}
	return &ast.Image{
		Attr:    attr,
		Caption: caption,
		Target:  d.Arg(1),
		Title:   FigureTitle,
	}
}

// figureBlock is the figure directive for hosts with native figures. The
// identifier moves from the image to the figure.
func (c *Compiler) figureBlock(d Directive) *ast.FigureBlock {
	img := c.figureImage(d)
	fig := &ast.FigureBlock{Attr: ast.NewAttr(img.Attr.ID)}
	img.Attr.ID, img.Title = "", ""
	if text := d.Arg(2); text != "" {
		fig.Caption.Blocks = []ast.Block{&ast.Plain{Inlines: c.words(text)}}
	}
	fig.Blocks = []ast.Block{&ast.Plain{Inlines: []ast.Inline{img}}}
	return fig
}

// words splits caption text into words. The script pass runs before
// directives are compiled, so the words are segmented here.
func (c *Compiler) words(s string) []ast.Inline {
	ins := ast.Words(s)
	if c.mode.SwitchesFonts() {
		ins = script.Inlines(ins)
	}
	return ins
}

// EquationMarker returns the text marking a display equation as numbered
// entity with identifier id.
func EquationMarker(id string) string {
	return "{#" + id + "}"
}

// equation: label | latex
func equation(d Directive) []ast.Inline {
	return []ast.Inline{
		&ast.Math{Display: true, Text: d.Arg(1)},
		&ast.Space{},
		ast.Text(EquationMarker(ast.Equation.Identifier(d.Arg(0)))),
	}
}

func reference(d Directive) ast.Inline {
	return ast.Text("@" + d.Arg(0))
}

// captionHolder creates the container for a table or algorithm opener, or
// nil if neither label nor caption is given.
func captionHolder(d Directive) *ast.Div {
	label, caption := d.Arg(0), d.Arg(1)
	if label == "" && caption == "" {
		return nil
	}
	var (
		kind  ast.EntityKind
		class string
		text  []ast.Inline
	)
	if d.Name == Table {
		kind, class = ast.Table, TableCaptionClass
		text = ast.Words(caption)
	} else {
		kind, class = ast.Algorithm, AlgorithmCaptionClass
		lead := strings.TrimSpace(AlgorithmLead + " " + caption)
		text = []ast.Inline{&ast.Emph{Inlines: ast.Words(lead)}}
	}
	attr := ast.NewAttr(kind.Identifier(label), class).WithKV(CaptionAttr, caption)
	return &ast.Div{
		Attr:   attr,
		Blocks: []ast.Block{&ast.Para{Inlines: text}},
	}
}

// rawDocxPayload returns the argument of an opening raw-docx directive if
// it is well-formed XML.
func rawDocxPayload(d Directive) (string, bool) {
	if d.Marker != Open || d.RawArgs == "" {
		return "", false
	}
	if err := wellFormed(d.RawArgs); err != nil {
		tracer().Infof("raw-docx payload is not well-formed XML, keeping directive: %v", err)
		return "", false
	}
	return d.RawArgs, true
}

// WordprocessingML is the namespace of the "w:" prefix, which raw-docx
// markup may use without declaring it.
const WordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// wellFormed checks if s is a well-formed XML fragment. s may consist of
// several elements.
func wellFormed(s string) error {
	wrapped := `<raw-docx xmlns:w="` + WordprocessingML + `">` + s + `</raw-docx>`
	_, err := xmlquery.Parse(strings.NewReader(wrapped))
	return err
}
