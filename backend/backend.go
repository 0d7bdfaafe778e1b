/*
Package backend describes the output dialects the pipeline compiles for.

The pipeline never sniffs an output format. Clients select a Mode, and
every pass asks the mode for the markup it needs: page breaks, font
switches, region wrappers for layout containers.
*/
package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/refpipe/ast"
)

// ErrUnknownMode is returned by ParseMode for an unsupported mode name.
var ErrUnknownMode = errors.New("unknown backend mode")

// Mode selects the output dialect.
type Mode uint8

const (
	// Generic is any backend without special support (HTML, plain text).
	Generic Mode = iota
	// Typesetting produces LaTeX raw markup (PDF builds).
	Typesetting
	// WordProcessor produces OpenXML raw markup (DOCX builds).
	WordProcessor
)

var modeNames = map[Mode]string{
	Generic:       "generic",
	Typesetting:   "typesetting",
	WordProcessor: "word-processor",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode converts a mode name into a Mode. Output format names are
// accepted as aliases: "latex"/"pdf" for typesetting, "docx"/"openxml"
// for word-processor.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "typesetting", "latex", "pdf":
		return Typesetting, nil
	case "word-processor", "wordprocessor", "docx", "openxml":
		return WordProcessor, nil
	case "generic", "html", "":
		return Generic, nil
	}
	return Generic, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// UnmarshalText lets a Mode be read from configuration files.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// RawFormat is the raw format of markup injected for this mode, or "" for
// the generic mode.
func (m Mode) RawFormat() string {
	switch m {
	case Typesetting:
		return ast.FormatLaTeX
	case WordProcessor:
		return ast.FormatOpenXML
	}
	return ""
}

// SwitchesFonts is true if the backend needs explicit font switches for
// secondary-script text.
func (m Mode) SwitchesFonts() bool {
	return m == Typesetting
}

// TagsMath is true if equation numbers go into the formula as a TeX tag.
// Other backends get the number as text after the formula.
func (m Mode) TagsMath() bool {
	return m == Typesetting
}

// AcceptsRawDocx is true if raw OpenXML directives are retained.
func (m Mode) AcceptsRawDocx() bool {
	return m == WordProcessor
}

// AppliesStyles is true if named style directives are retained.
func (m Mode) AppliesStyles() bool {
	return m == WordProcessor
}

// Markup for page breaks.
const (
	latexPageBreak         = `\newpage`
	openXMLPageBreakBlock  = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`
	openXMLPageBreakInline = `<w:r><w:br w:type="page"/></w:r>`
)

// PageBreak returns the block to emit for a hard page break. The generic
// mode gets an empty container.
func (m Mode) PageBreak() ast.Block {
	switch m {
	case Typesetting:
		return &ast.RawBlock{Format: ast.FormatLaTeX, Text: latexPageBreak}
	case WordProcessor:
		return &ast.RawBlock{Format: ast.FormatOpenXML, Text: openXMLPageBreakBlock}
	}
	return &ast.Div{}
}

// InlinePageBreak returns the inline to emit for a page break inside a
// paragraph, or nil if the mode has no such instruction.
func (m Mode) InlinePageBreak() ast.Inline {
	switch m {
	case Typesetting:
		return &ast.RawInline{Format: ast.FormatLaTeX, Text: latexPageBreak}
	case WordProcessor:
		return &ast.RawInline{Format: ast.FormatOpenXML, Text: openXMLPageBreakInline}
	}
	return nil
}
