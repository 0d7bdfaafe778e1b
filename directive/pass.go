package directive

import (
	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
)

// Pass is the directive pass. It replaces every directive found in raw
// HTML blocks and inlines of doc by its compiled form. Raw-docx regions
// are folded before the directives of a block sequence are compiled.
func Pass(doc *ast.Document, mode backend.Mode) *ast.Document {
	if doc == nil {
		return nil
	}
	tracer().Debugf("directive pass for mode %s", mode)
	c := NewCompiler(mode)
	c.NativeFigures = doc.NativeFigures()
	w := ast.Walker{
		Block:         c.compileBlock,
		Inline:        c.compileInline,
		BlockSequence: c.Sequence,
	}
	return w.Document(doc)
}

func (c *Compiler) compileBlock(b ast.Block) []ast.Block {
	raw, ok := b.(*ast.RawBlock)
	if !ok || raw.Format != ast.FormatHTML {
		return []ast.Block{b}
	}
	d, ok := Parse(raw.Text)
	if !ok {
		return []ast.Block{b}
	}
	tracer().Debugf("block directive %s", d)
	return c.Block(d, b)
}

func (c *Compiler) compileInline(in ast.Inline) []ast.Inline {
	raw, ok := in.(*ast.RawInline)
	if !ok || raw.Format != ast.FormatHTML {
		return []ast.Inline{in}
	}
	d, ok := Parse(raw.Text)
	if !ok {
		return []ast.Inline{in}
	}
	tracer().Debugf("inline directive %s", d)
	return c.Inline(d, in)
}
