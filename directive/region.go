package directive

import (
	"strings"

	"github.com/npillmayer/refpipe/ast"
)

// Sequence folds raw-docx regions in a sequence of sibling blocks. A region
// is an opening raw-docx directive without payload, the blocks following
// it and the matching closing directive. Backends accepting raw
// word-processor markup get the region's text as a single raw block if it
// is well-formed XML; all other backends, and malformed regions, lose the
// region entirely. An opener without closer is left alone.
func (c *Compiler) Sequence(blocks []ast.Block) []ast.Block {
	var result []ast.Block
	changed := false
	for i := 0; i < len(blocks); i++ {
		end := -1
		if isRawDocxMarker(blocks[i], Open) {
			for j := i + 1; j < len(blocks); j++ {
				if isRawDocxMarker(blocks[j], Close) {
					end = j
					break
				}
			}
		}
		if end < 0 {
			if changed {
				result = append(result, blocks[i])
			}
			continue
		}
		if !changed {
			result = append(make([]ast.Block, 0, len(blocks)), blocks[:i]...)
			changed = true
		}
		result = append(result, c.RawDocxRegion(blocks[i+1:end])...)
		i = end
	}
	if !changed {
		return blocks
	}
	return result
}

// RawDocxRegion compiles the body of a raw-docx region.
func (c *Compiler) RawDocxRegion(body []ast.Block) []ast.Block {
	if !c.mode.AcceptsRawDocx() {
		tracer().Debugf("dropping raw-docx region of %d block(s)", len(body))
		return nil
	}
	text := strings.TrimSpace(markupText(body))
	if text == "" {
		return nil
	}
	if err := wellFormed(text); err != nil {
		tracer().Infof("raw-docx region is not well-formed XML, dropping it: %v", err)
		return nil
	}
	return []ast.Block{&ast.RawBlock{Format: ast.FormatOpenXML, Text: text}}
}

func isRawDocxMarker(b ast.Block, m Marker) bool {
	raw, ok := b.(*ast.RawBlock)
	if !ok || raw.Format != ast.FormatHTML {
		return false
	}
	d, ok := Parse(raw.Text)
	return ok && d.Name == RawDocx && d.Marker == m && d.RawArgs == ""
}

// markupText reassembles the source text of blocks holding markup. The
// host parser splits unknown markup into raw blocks, or into paragraphs
// of raw inlines and text.
func markupText(blocks []ast.Block) string {
	var parts []string
	for _, b := range blocks {
		switch n := b.(type) {
		case *ast.RawBlock:
			parts = append(parts, n.Text)
		case *ast.Para:
			parts = append(parts, inlineMarkup(n.Inlines))
		case *ast.Plain:
			parts = append(parts, inlineMarkup(n.Inlines))
		default:
			tracer().Infof("raw-docx region contains %s, ignored", ast.BlockString(b))
		}
	}
	return strings.Join(parts, "\n")
}

func inlineMarkup(ins []ast.Inline) string {
	var sb strings.Builder
	for _, in := range ins {
		switch n := in.(type) {
		case *ast.RawInline:
			sb.WriteString(n.Text)
		case *ast.Str:
			sb.WriteString(n.Text)
		case *ast.Space:
			sb.WriteByte(' ')
		case *ast.SoftBreak, *ast.LineBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
