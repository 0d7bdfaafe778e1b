/*
Package directive compiles comment directives into normalized tree nodes.

Authors annotate their text with HTML comments of the form

    <!-- figure: intro | img/a.png | Overview | 80% -->
    <!-- pagebreak -->
    <!-- table: results | Measured values -->  ...  <!-- /table -->

The host parser hands these over as raw HTML blocks or inlines. The
directive pass recognizes them, parses name and arguments, and replaces
each directive with the nodes it stands for: images, display equations,
caption holders, reference tokens or backend markup. Comments which are
not directives, and directives with unknown names, pass through unchanged.
Directives which make no sense for the selected backend are dropped.

This pass neither numbers entities nor resolves references; see package
xref for that.

Directive Surface

    figure     label | path | caption? | width?
    equation   label | latex
    ref        label
    pagebreak
    table      label? | caption?     ... /table
    algorithm  label? | caption?     ... /algorithm
    raw-docx   payload?              ... /raw-docx
    style      style-name | text

Names are case-insensitive, arguments are separated by '|' and trimmed.
*/
package directive

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'refpipe.directive'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.directive")
}
