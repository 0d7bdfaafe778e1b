package ast

// --- Inline containers -----------------------------------------------------

// Link is a hyperlink.
type Link struct {
	Attr    Attr
	Inlines []Inline
	Target  string
	Title   string
}

// Note is a footnote. Its content is block-level.
type Note struct {
	Blocks []Block
}

// Quoted is text in single or double quotes.
type Quoted struct {
	Double  bool
	Inlines []Inline
}

// Styled holds inlines set in a character style without attributes.
// Style is one of UnderlineTag, StrikeoutTag, SuperscriptTag, SubscriptTag
// or SmallCapsTag.
type Styled struct {
	Style   Tag
	Inlines []Inline
}

// IsStyle is true for the tags of the character styles represented by
// Styled.
func IsStyle(t Tag) bool {
	switch t {
	case UnderlineTag, StrikeoutTag, SuperscriptTag, SubscriptTag, SmallCapsTag:
		return true
	}
	return false
}

func (*Link) Tag() Tag     { return LinkTag }
func (*Note) Tag() Tag     { return NoteTag }
func (*Quoted) Tag() Tag   { return QuotedTag }
func (s *Styled) Tag() Tag { return s.Style }

func (*Link) inline()   {}
func (*Note) inline()   {}
func (*Quoted) inline() {}
func (*Styled) inline() {}

// --- Figures and tables ----------------------------------------------------

// Caption is the caption of a figure or table. Short is the optional short
// caption; nil means there is none.
type Caption struct {
	Short  []Inline
	Blocks []Block
}

// Text is the visible text of the caption's paragraphs.
func (c Caption) Text() string {
	for _, b := range c.Blocks {
		switch p := b.(type) {
		case *Plain:
			return Stringify(p.Inlines)
		case *Para:
			return Stringify(p.Inlines)
		}
	}
	return ""
}

// FigureBlock is a figure with its caption, as produced by hosts with
// native figures.
type FigureBlock struct {
	Attr    Attr
	Caption Caption
	Blocks  []Block
}

// TableBlock is a table. Column specifications are not interpreted and
// are kept in the host encoding.
type TableBlock struct {
	Attr     Attr
	Caption  Caption
	ColSpecs []byte
	Head     TableSection
	Bodies   []TableBody
	Foot     TableSection
}

// TableSection is the head or the foot of a table.
type TableSection struct {
	Attr Attr
	Rows []Row
}

// TableBody is a body of a table, with an optional intermediate head.
type TableBody struct {
	Attr           Attr
	RowHeadColumns int
	Head           []Row
	Rows           []Row
}

// Row is a table row.
type Row struct {
	Attr  Attr
	Cells []Cell
}

// Cell is a table cell.
type Cell struct {
	Attr    Attr
	Align   string // host alignment tag, e.g. "AlignDefault"
	RowSpan int
	ColSpan int
	Blocks  []Block
}

// EachCell calls f for every cell of the table, in document order: head,
// bodies, foot.
func (t *TableBlock) EachCell(f func(c *Cell)) {
	rows := func(rs []Row) {
		for i := range rs {
			for j := range rs[i].Cells {
				f(&rs[i].Cells[j])
			}
		}
	}
	rows(t.Head.Rows)
	for i := range t.Bodies {
		rows(t.Bodies[i].Head)
		rows(t.Bodies[i].Rows)
	}
	rows(t.Foot.Rows)
}

func (*FigureBlock) Tag() Tag { return FigureTag }
func (*TableBlock) Tag() Tag  { return TableTag }

func (*FigureBlock) block() {}
func (*TableBlock) block()  {}
