package ast

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// BlockAction is a function type to operate on blocks. It returns the
// replacement list for b: nil drops the block, []Block{b} keeps it.
type BlockAction func(b Block) []Block

// InlineAction is a function type to operate on single inlines, returning
// the replacement list for in.
type InlineAction func(in Inline) []Inline

// SequenceAction operates on a complete sequence of sibling inlines. It is
// useful for rewrites which have to look at neighbours.
type SequenceAction func(ins []Inline) []Inline

// BlockSequenceAction operates on a complete sequence of sibling blocks.
type BlockSequenceAction func(blocks []Block) []Block

// Walker traverses a block tree synchronously and in document order,
// calling client actions on the nodes. Any of the actions may be nil.
//
// In top-down order (the default) an action is called for a node before
// its children are visited. The children visited are those of the
// replacement nodes; replacements themselves are never handed to the
// action a second time.
//
// In bottom-up order the children of a node are processed before the
// action is called for the node itself.
type Walker struct {
	Block         BlockAction
	Inline        InlineAction
	Sequence      SequenceAction      // called for every inline sequence before its elements
	BlockSequence BlockSequenceAction // called for every block sequence before its elements
	BottomUp      bool
}

// Document walks all blocks of a document. The document is modified in place
// and returned for convenience.
func (w Walker) Document(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	doc.Blocks = w.Blocks(doc.Blocks)
	return doc
}

// Blocks walks a sequence of blocks and returns the rewritten sequence.
func (w Walker) Blocks(blocks []Block) []Block {
	if len(blocks) == 0 {
		return blocks
	}
	if w.BlockSequence != nil && !w.BottomUp {
		blocks = w.BlockSequence(blocks)
	}
	result := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if w.BottomUp {
			w.descendBlock(b)
			result = append(result, w.applyBlock(b)...)
			continue
		}
		for _, r := range w.applyBlock(b) {
			w.descendBlock(r)
			result = append(result, r)
		}
	}
	if w.BlockSequence != nil && w.BottomUp {
		result = w.BlockSequence(result)
	}
	return result
}

// Inlines walks a sequence of inlines and returns the rewritten sequence.
func (w Walker) Inlines(ins []Inline) []Inline {
	if len(ins) == 0 {
		return ins
	}
	if w.Sequence != nil && !w.BottomUp {
		ins = w.Sequence(ins)
	}
	result := make([]Inline, 0, len(ins))
	for _, in := range ins {
		if in == nil {
			continue
		}
		if w.BottomUp {
			w.descendInline(in)
			result = append(result, w.applyInline(in)...)
			continue
		}
		for _, r := range w.applyInline(in) {
			w.descendInline(r)
			result = append(result, r)
		}
	}
	if w.Sequence != nil && w.BottomUp {
		result = w.Sequence(result)
	}
	return result
}

func (w Walker) applyBlock(b Block) []Block {
	if w.Block == nil {
		return []Block{b}
	}
	r := w.Block(b)
	if len(r) != 1 || r[0] != b {
		tracer().Debugf("walker replaced %s with %d block(s)", BlockString(b), len(r))
	}
	return r
}

func (w Walker) applyInline(in Inline) []Inline {
	if w.Inline == nil {
		return []Inline{in}
	}
	return w.Inline(in)
}

// descendBlock walks the children of a block.
func (w Walker) descendBlock(b Block) {
	switch n := b.(type) {
	case *Plain:
		n.Inlines = w.Inlines(n.Inlines)
	case *Para:
		n.Inlines = w.Inlines(n.Inlines)
	case *Header:
		n.Inlines = w.Inlines(n.Inlines)
	case *Div:
		n.Blocks = w.Blocks(n.Blocks)
	case *BlockQuote:
		n.Blocks = w.Blocks(n.Blocks)
	case *List:
		for i := range n.Items {
			n.Items[i] = w.Blocks(n.Items[i])
		}
	case *FigureBlock:
		w.caption(&n.Caption)
		n.Blocks = w.Blocks(n.Blocks)
	case *TableBlock:
		w.caption(&n.Caption)
		n.EachCell(func(c *Cell) {
			c.Blocks = w.Blocks(c.Blocks)
		})
	}
}

func (w Walker) caption(c *Caption) {
	c.Short = w.Inlines(c.Short)
	c.Blocks = w.Blocks(c.Blocks)
}

// descendInline walks the children of an inline.
func (w Walker) descendInline(in Inline) {
	switch n := in.(type) {
	case *Emph:
		n.Inlines = w.Inlines(n.Inlines)
	case *Strong:
		n.Inlines = w.Inlines(n.Inlines)
	case *Span:
		n.Inlines = w.Inlines(n.Inlines)
	case *Image:
		n.Caption = w.Inlines(n.Caption)
	case *Cite:
		n.Inlines = w.Inlines(n.Inlines)
	case *Link:
		n.Inlines = w.Inlines(n.Inlines)
	case *Quoted:
		n.Inlines = w.Inlines(n.Inlines)
	case *Styled:
		n.Inlines = w.Inlines(n.Inlines)
	case *Note:
		n.Blocks = w.Blocks(n.Blocks)
	}
}
