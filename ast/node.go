package ast

import (
	"fmt"
	"strings"
)

// Tag discriminates the node variants of a tree.
type Tag string

func (t Tag) String() string { return string(t) }

// Block tags.
const (
	PlainTag      Tag = "Plain"
	ParaTag       Tag = "Para"
	HeaderTag     Tag = "Header"
	DivTag        Tag = "Div"
	BlockQuoteTag Tag = "BlockQuote"
	BulletListTag Tag = "BulletList"
	OrdListTag    Tag = "OrderedList"
	RawBlockTag   Tag = "RawBlock"
	FigureTag     Tag = "Figure"
	TableTag      Tag = "Table"
)

// Inline tags.
const (
	StrTag       Tag = "Str"
	SpaceTag     Tag = "Space"
	SoftBreakTag Tag = "SoftBreak"
	LineBreakTag Tag = "LineBreak"
	EmphTag      Tag = "Emph"
	StrongTag    Tag = "Strong"
	SpanTag      Tag = "Span"
	MathTag      Tag = "Math"
	RawInlineTag Tag = "RawInline"
	ImageTag     Tag = "Image"
	CiteTag      Tag = "Cite"
	LinkTag      Tag = "Link"
	NoteTag      Tag = "Note"
	QuotedTag    Tag = "Quoted"

	UnderlineTag   Tag = "Underline"
	StrikeoutTag   Tag = "Strikeout"
	SuperscriptTag Tag = "Superscript"
	SubscriptTag   Tag = "Subscript"
	SmallCapsTag   Tag = "SmallCaps"
)

// Raw formats understood by the passes.
const (
	FormatHTML    = "html"
	FormatLaTeX   = "latex"
	FormatOpenXML = "openxml"
)

// Block is a block-level node.
type Block interface {
	Tag() Tag
	block()
}

// Inline is an inline-level node.
type Inline interface {
	Tag() Tag
	inline()
}

// Document is the root of a tree.
type Document struct {
	APIVersion []int
	Meta       Meta
	Blocks     []Block
}

// NativeFigures is true if the host encoding of the document has figure
// blocks, which is the case from pandoc API version 1.23 on. Documents
// without an API version use images in paragraphs for figures.
func (d *Document) NativeFigures() bool {
	v := d.APIVersion
	if len(v) < 2 {
		return false
	}
	return v[0] > 1 || (v[0] == 1 && v[1] >= 23)
}

// --- Blocks ----------------------------------------------------------------

// Plain is a run of inlines not wrapped as a paragraph.
type Plain struct {
	Inlines []Inline
}

// Para is a paragraph.
type Para struct {
	Inlines []Inline
}

// Header is a section heading.
type Header struct {
	Level   int
	Attr    Attr
	Inlines []Inline
}

// Div is a generic container. Layout classes and caption holders are
// expressed as Divs.
type Div struct {
	Attr   Attr
	Blocks []Block
}

// BlockQuote is a quotation block.
type BlockQuote struct {
	Blocks []Block
}

// List is a bullet list or an ordered list. Start, Style and Delim are
// meaningful for ordered lists only.
type List struct {
	Ordered bool
	Start   int
	Style   string
	Delim   string
	Items   [][]Block
}

// RawBlock injects backend markup verbatim.
type RawBlock struct {
	Format string
	Text   string
}

// Opaque is a block the pipeline does not inspect. Raw holds the host
// encoding of the node.
type Opaque struct {
	Type string
	Raw  []byte
}

func (*Plain) Tag() Tag      { return PlainTag }
func (*Para) Tag() Tag       { return ParaTag }
func (*Header) Tag() Tag     { return HeaderTag }
func (*Div) Tag() Tag        { return DivTag }
func (*BlockQuote) Tag() Tag { return BlockQuoteTag }
func (*RawBlock) Tag() Tag   { return RawBlockTag }
func (o *Opaque) Tag() Tag   { return Tag(o.Type) }

func (l *List) Tag() Tag {
	if l.Ordered {
		return OrdListTag
	}
	return BulletListTag
}

func (*Plain) block()      {}
func (*Para) block()       {}
func (*Header) block()     {}
func (*Div) block()        {}
func (*BlockQuote) block() {}
func (*List) block()       {}
func (*RawBlock) block()   {}
func (*Opaque) block()     {}

// --- Inlines ---------------------------------------------------------------

// Str is a text run.
type Str struct {
	Text string
}

// Space is an inter-word space.
type Space struct{}

// SoftBreak is a source line break.
type SoftBreak struct{}

// LineBreak is a hard line break.
type LineBreak struct{}

// Emph is emphasized text.
type Emph struct {
	Inlines []Inline
}

// Strong is strongly emphasized text.
type Strong struct {
	Inlines []Inline
}

// Span is a generic inline container.
type Span struct {
	Attr    Attr
	Inlines []Inline
}

// Math is a TeX formula, either inline or display.
type Math struct {
	Display bool
	Text    string
}

// RawInline injects backend markup verbatim.
type RawInline struct {
	Format string
	Text   string
}

// Image references an image file.
type Image struct {
	Attr    Attr
	Caption []Inline
	Target  string
	Title   string
}

// Citation is a single entry of a Cite. Raw keeps the host encoding.
type Citation struct {
	ID  string
	Raw []byte
}

// Cite is a citation group as produced by the host parser for '@key' text.
type Cite struct {
	Citations []Citation
	Inlines   []Inline
}

// OpaqueInline is an inline the pipeline does not inspect.
type OpaqueInline struct {
	Type string
	Raw  []byte
}

func (*Str) Tag() Tag            { return StrTag }
func (*Space) Tag() Tag          { return SpaceTag }
func (*SoftBreak) Tag() Tag      { return SoftBreakTag }
func (*LineBreak) Tag() Tag      { return LineBreakTag }
func (*Emph) Tag() Tag           { return EmphTag }
func (*Strong) Tag() Tag         { return StrongTag }
func (*Span) Tag() Tag           { return SpanTag }
func (*Math) Tag() Tag           { return MathTag }
func (*RawInline) Tag() Tag      { return RawInlineTag }
func (*Image) Tag() Tag          { return ImageTag }
func (*Cite) Tag() Tag           { return CiteTag }
func (o *OpaqueInline) Tag() Tag { return Tag(o.Type) }

func (*Str) inline()          {}
func (*Space) inline()        {}
func (*SoftBreak) inline()    {}
func (*LineBreak) inline()    {}
func (*Emph) inline()         {}
func (*Strong) inline()       {}
func (*Span) inline()         {}
func (*Math) inline()         {}
func (*RawInline) inline()    {}
func (*Image) inline()        {}
func (*Cite) inline()         {}
func (*OpaqueInline) inline() {}

// --- Helpers ---------------------------------------------------------------

// Text creates a Str.
func Text(s string) *Str {
	return &Str{Text: s}
}

// Words splits s at spaces into Str and Space inlines, the way a host
// parser would tokenize prose.
func Words(s string) []Inline {
	var ins []Inline
	for i, w := range strings.Split(s, " ") {
		if i > 0 {
			ins = append(ins, &Space{})
		}
		if w != "" {
			ins = append(ins, &Str{Text: w})
		}
	}
	return ins
}

// Stringify concatenates the visible text of a sequence of inlines.
// Raw inlines are omitted.
func Stringify(ins []Inline) string {
	var sb strings.Builder
	stringify(&sb, ins)
	return sb.String()
}

func stringify(sb *strings.Builder, ins []Inline) {
	for _, in := range ins {
		switch n := in.(type) {
		case *Str:
			sb.WriteString(n.Text)
		case *Space, *SoftBreak:
			sb.WriteByte(' ')
		case *LineBreak:
			sb.WriteByte('\n')
		case *Emph:
			stringify(sb, n.Inlines)
		case *Strong:
			stringify(sb, n.Inlines)
		case *Span:
			stringify(sb, n.Inlines)
		case *Math:
			sb.WriteString(n.Text)
		case *Image:
			stringify(sb, n.Caption)
		case *Cite:
			stringify(sb, n.Inlines)
		case *Link:
			stringify(sb, n.Inlines)
		case *Quoted:
			lq, rq := "‘", "’"
			if n.Double {
				lq, rq = "“", "”"
			}
			sb.WriteString(lq)
			stringify(sb, n.Inlines)
			sb.WriteString(rq)
		case *Styled:
			stringify(sb, n.Inlines)
		}
	}
}

// BlockString returns a short description of a block, for tracing.
func BlockString(b Block) string {
	switch n := b.(type) {
	case *Para:
		return fmt.Sprintf("Para[%q]", Stringify(n.Inlines))
	case *Plain:
		return fmt.Sprintf("Plain[%q]", Stringify(n.Inlines))
	case *Header:
		return fmt.Sprintf("Header%d%s[%q]", n.Level, n.Attr, Stringify(n.Inlines))
	case *Div:
		return fmt.Sprintf("Div%s #ch=%d", n.Attr, len(n.Blocks))
	case *RawBlock:
		return fmt.Sprintf("RawBlock(%s)[%q]", n.Format, n.Text)
	case *FigureBlock:
		return fmt.Sprintf("Figure%s[%q]", n.Attr, n.Caption.Text())
	case *TableBlock:
		return fmt.Sprintf("Table%s[%q]", n.Attr, n.Caption.Text())
	case nil:
		return "<nil>"
	}
	return b.Tag().String()
}
