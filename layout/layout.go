/*
Package layout rewrites containers carrying layout classes into backend
region markup.

A container is a Div. The first of the following classes found on it
decides the rewrite:

    pagebreak                 the container becomes a single page break
    two-column, three-column  multi-column region
    landscape                 landscape page region
    wrap-figure               side float; class "left" floats left
    here-figure               centered non-floating figure

The rewrite is purely structural; it runs after numbering and never
looks at labels or captions.
*/
package layout

import (
	"strconv"
	"strings"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'refpipe.layout'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.layout")
}

// Layout classes.
const (
	PageBreakClass   = "pagebreak"
	TwoColumnClass   = "two-column"
	ThreeColumnClass = "three-column"
	LandscapeClass   = "landscape"
	WrapFigureClass  = "wrap-figure"
	HereFigureClass  = "here-figure"
	LeftClass        = "left"
)

// WidthAttr is the container attribute holding the width of a side float.
const WidthAttr = "width"

// DefaultWrapWidth is the width of a side float without width attribute,
// as a fraction of the text width.
const DefaultWrapWidth = "0.4"

// TextWidth is the unit appended to widths given without a unit.
const TextWidth = `\textwidth`

// Pass is the layout pass. Containers are rewritten bottom-up, so nested
// layout containers end up nested in the output.
func Pass(doc *ast.Document, mode backend.Mode) *ast.Document {
	if doc == nil {
		return nil
	}
	tracer().Debugf("layout pass for mode %s", mode)
	w := ast.Walker{
		Block:    Rewriter(mode),
		BottomUp: true,
	}
	return w.Document(doc)
}

// Rewriter returns the block action rewriting layout containers for mode.
// Backends other than typesetting only honour page breaks; their layout
// containers are left to the backend.
func Rewriter(mode backend.Mode) ast.BlockAction {
	return func(b ast.Block) []ast.Block {
		div, ok := b.(*ast.Div)
		if !ok {
			return []ast.Block{b}
		}
		if div.Attr.HasClass(PageBreakClass) {
			tracer().Debugf("page break container with %d blocks", len(div.Blocks))
			return []ast.Block{mode.PageBreak()}
		}
		if mode != backend.Typesetting {
			return []ast.Block{b}
		}
		region, ok := RegionFor(div.Attr)
		if !ok {
			return []ast.Block{b}
		}
		return region.Wrap(div.Blocks)
	}
}

// RegionFor selects the region for a layout container from its
// attributes. Page breaks are not regions and yield false.
func RegionFor(attr ast.Attr) (backend.Region, bool) {
	switch {
	case attr.HasClass(TwoColumnClass):
		return backend.MultiColumns(2), true
	case attr.HasClass(ThreeColumnClass):
		return backend.MultiColumns(3), true
	case attr.HasClass(LandscapeClass):
		return backend.Landscape(), true
	case attr.HasClass(WrapFigureClass):
		side := "right"
		if attr.HasClass(LeftClass) {
			side = "left"
		}
		width, ok := attr.Get(WidthAttr)
		if !ok || strings.TrimSpace(width) == "" {
			width = DefaultWrapWidth
		}
		return backend.WrapFigure(side, Width(width)), true
	case attr.HasClass(HereFigureClass):
		return backend.HereFigure(), true
	}
	return backend.Region{}, false
}

// Width normalizes a float width. A plain number is taken as a fraction
// of the text width, a percentage is converted to such a fraction. Widths
// with a unit are returned as they are.
func Width(w string) string {
	w = strings.TrimSpace(w)
	if pct, ok := strings.CutSuffix(w, "%"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64); err == nil {
			return strconv.FormatFloat(f/100, 'f', -1, 64) + TextWidth
		}
		return w
	}
	if _, err := strconv.ParseFloat(w, 64); err == nil {
		return w + TextWidth
	}
	return w
}
