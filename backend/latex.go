package backend

import (
	"fmt"

	"github.com/npillmayer/refpipe/ast"
)

// FontSwitchOpen and FontSwitchClose enclose text which has to be set in
// the secondary-script font. The LaTeX templates define \cjktext.
const (
	FontSwitchOpen  = `\cjktext{`
	FontSwitchClose = `}`
)

// FontSwitch wraps a secondary-script run in font-switch markers.
func FontSwitch(run string) []ast.Inline {
	return []ast.Inline{
		&ast.RawInline{Format: ast.FormatLaTeX, Text: FontSwitchOpen},
		&ast.Str{Text: run},
		&ast.RawInline{Format: ast.FormatLaTeX, Text: FontSwitchClose},
	}
}

// IsFontSwitch reports whether in is the opening (open=true) or closing
// font-switch marker.
func IsFontSwitch(in ast.Inline, open bool) bool {
	raw, ok := in.(*ast.RawInline)
	if !ok || raw.Format != ast.FormatLaTeX {
		return false
	}
	if open {
		return raw.Text == FontSwitchOpen
	}
	return raw.Text == FontSwitchClose
}

// TagMath appends an equation number tag to a TeX formula.
func TagMath(tex string, n int) string {
	return fmt.Sprintf(`%s \tag{%d}`, tex, n)
}

// Region is a pair of raw blocks enclosing the content of a layout
// container.
type Region struct {
	Begin, End string
}

// Wrap returns begin marker, content and end marker as a block list.
func (r Region) Wrap(content []ast.Block) []ast.Block {
	blocks := make([]ast.Block, 0, len(content)+2)
	blocks = append(blocks, &ast.RawBlock{Format: ast.FormatLaTeX, Text: r.Begin})
	blocks = append(blocks, content...)
	blocks = append(blocks, &ast.RawBlock{Format: ast.FormatLaTeX, Text: r.End})
	return blocks
}

// MultiColumns is a multi-column region with n columns (package multicol).
func MultiColumns(n int) Region {
	return Region{
		Begin: fmt.Sprintf(`\begin{multicols}{%d}`, n),
		End:   `\end{multicols}`,
	}
}

// Landscape is a page-orientation region (package pdflscape).
func Landscape() Region {
	return Region{Begin: `\begin{landscape}`, End: `\end{landscape}`}
}

// WrapFigure is a side-floated region (package wrapfig). side is "left" or
// "right", width a complete LaTeX length.
func WrapFigure(side, width string) Region {
	placement := "r"
	if side == "left" {
		placement = "l"
	}
	return Region{
		Begin: fmt.Sprintf(`\begin{wrapfigure}{%s}{%s}`, placement, width),
		End:   `\end{wrapfigure}`,
	}
}

// HereFigure is a centered figure region placed exactly here (package float).
func HereFigure() Region {
	return Region{
		Begin: "\\begin{figure}[H]\n\\centering",
		End:   `\end{figure}`,
	}
}
