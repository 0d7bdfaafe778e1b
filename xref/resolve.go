package xref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/refpipe/directive"
	"github.com/npillmayer/refpipe/locale"
	"github.com/npillmayer/refpipe/script"
)

// NumberAttr marks an entity as numbered. Its value is the number assigned.
const NumberAttr = "xref-number"

// referencePattern matches reference tokens like "@fig:intro" or
// "@eq:sec2.energy". Trailing punctuation is not part of a label.
var referencePattern = regexp.MustCompile(
	`@(fig|tbl|eq|alg):([\p{L}\p{N}_-]+(?:[.:/][\p{L}\p{N}_-]+)*)`)

// equationMarkerPattern matches the text marker following a numbered
// display equation.
var equationMarkerPattern = regexp.MustCompile(`^\{#(eq:[^}]*)\}$`)

// Result is what the numbering pass reports about a document.
type Result struct {
	Registry   *Registry
	Unresolved []string // identifiers of unresolved references, in document order
}

// Resolver numbers entities and resolves references for one render.
type Resolver struct {
	mode       backend.Mode
	locale     *locale.Context
	registry   *Registry
	unresolved []string
	seen       map[string]bool
}

// NewResolver creates a resolver with fresh counters. A nil locale context
// selects the default prefixes.
func NewResolver(mode backend.Mode, loc *locale.Context) *Resolver {
	if loc == nil {
		loc = locale.ForLanguage("", nil)
	}
	return &Resolver{
		mode:     mode,
		locale:   loc,
		registry: NewRegistry(),
		seen:     make(map[string]bool),
	}
}

// Pass is the numbering and cross-reference pass.
func Pass(doc *ast.Document, mode backend.Mode, loc *locale.Context) (*ast.Document, *Result) {
	r := NewResolver(mode, loc)
	doc = r.Document(doc)
	return doc, r.Result()
}

// Document walks doc once, in document order.
func (r *Resolver) Document(doc *ast.Document) *ast.Document {
	if doc == nil {
		return nil
	}
	r.blocks(doc.Blocks)
	for _, id := range r.unresolved {
		tracer().Infof("unresolved reference @%s", id)
	}
	return doc
}

// Result returns the registry and the unresolved references found so far.
func (r *Resolver) Result() *Result {
	return &Result{
		Registry:   r.registry,
		Unresolved: append([]string(nil), r.unresolved...),
	}
}

func (r *Resolver) blocks(blocks []ast.Block) {
	for _, b := range blocks {
		r.block(b)
	}
}

func (r *Resolver) block(b ast.Block) {
	switch n := b.(type) {
	case *ast.Plain:
		n.Inlines = r.inlines(n.Inlines)
	case *ast.Para:
		n.Inlines = r.inlines(n.Inlines)
	case *ast.Header:
		n.Inlines = r.inlines(n.Inlines)
	case *ast.Div:
		if kind, ok := captionHolderKind(n); ok {
			r.captionHolder(n, kind)
			return
		}
		r.blocks(n.Blocks)
	case *ast.BlockQuote:
		r.blocks(n.Blocks)
	case *ast.List:
		for _, item := range n.Items {
			r.blocks(item)
		}
	case *ast.FigureBlock:
		if strings.HasPrefix(n.Attr.ID, ast.Figure.IDPrefix()) {
			n.Attr = r.captioned(ast.Figure, n.Attr, &n.Caption)
		}
		r.captionContent(&n.Caption)
		r.blocks(n.Blocks)
	case *ast.TableBlock:
		if strings.HasPrefix(n.Attr.ID, ast.Table.IDPrefix()) {
			n.Attr = r.captioned(ast.Table, n.Attr, &n.Caption)
		}
		r.captionContent(&n.Caption)
		n.EachCell(func(c *ast.Cell) {
			r.blocks(c.Blocks)
		})
	}
}

func (r *Resolver) inlines(ins []ast.Inline) []ast.Inline {
	out := ins[:0:0]
	inside := false
	for i := 0; i < len(ins); i++ {
		switch {
		case backend.IsFontSwitch(ins[i], true):
			inside = true
		case backend.IsFontSwitch(ins[i], false):
			inside = false
		}
		switch n := ins[i].(type) {
		case *ast.Str:
			if text := r.resolveText(n.Text); text != n.Text {
				if seg, ok := r.segment(text, inside); ok {
					out = append(out, seg...)
					continue
				}
				n.Text = text
			}
		case *ast.Math:
			if id, at, ok := equationMarker(n, ins, i+1); ok {
				out = append(out, r.equation(n, id))
				i = at
				continue
			}
		case *ast.Image:
			if strings.HasPrefix(n.Attr.ID, ast.Figure.IDPrefix()) {
				r.figure(n)
			}
			n.Caption = r.inlines(n.Caption)
		case *ast.Span:
			if kind, label, ok := numbered(n.Attr); ok && kind == ast.Equation {
				r.recount(kind, label, n.Attr)
			} else {
				n.Inlines = r.inlines(n.Inlines)
			}
		case *ast.Cite:
			if name, ok := r.citation(n); ok {
				out = append(out, r.text(name, inside)...)
				continue
			}
		case *ast.Emph:
			n.Inlines = r.inlines(n.Inlines)
		case *ast.Strong:
			n.Inlines = r.inlines(n.Inlines)
		case *ast.Link:
			n.Inlines = r.inlines(n.Inlines)
		case *ast.Quoted:
			n.Inlines = r.inlines(n.Inlines)
		case *ast.Styled:
			n.Inlines = r.inlines(n.Inlines)
		case *ast.Note:
			r.blocks(n.Blocks)
		}
		out = append(out, ins[i])
	}
	return out
}

// --- Entities --------------------------------------------------------------

// number counts an entity of kind k and registers its label.
func (r *Resolver) number(k ast.EntityKind, label string) int {
	n := r.registry.Next(k)
	r.registry.Register(k, label, n)
	tracer().Debugf("%s #%d, label %q", k, n, label)
	return n
}

// recount counts an entity numbered by an earlier run of the pipeline,
// without rewriting it.
func (r *Resolver) recount(k ast.EntityKind, label string, attr ast.Attr) {
	n := r.number(k, label)
	if v, _ := attr.Get(NumberAttr); v != strconv.Itoa(n) {
		tracer().Infof("%s %q was numbered %s before, now counts as %d", k, label, v, n)
	}
}

// numbered returns kind and label of an entity carrying a number mark.
func numbered(attr ast.Attr) (ast.EntityKind, string, bool) {
	if _, ok := attr.Get(NumberAttr); !ok {
		return ast.KindCount, "", false
	}
	return ast.SplitIdentifier(attr.ID)
}

func (r *Resolver) figure(img *ast.Image) {
	_, label, _ := ast.SplitIdentifier(img.Attr.ID)
	if _, ok := img.Attr.Get(NumberAttr); ok {
		r.recount(ast.Figure, label, img.Attr)
		return
	}
	n := r.number(ast.Figure, label)
	img.Attr = img.Attr.WithKV(NumberAttr, strconv.Itoa(n))
	img.Caption = r.caption(ast.Figure, n, img.Caption)
}

// caption prefixes a caption with the entity's visible label.
func (r *Resolver) caption(k ast.EntityKind, n int, original []ast.Inline) []ast.Inline {
	name := r.locale.Label(k, n)
	if len(original) == 0 {
		return r.words(name)
	}
	caption := append(r.words(name+":"), &ast.Space{})
	return append(caption, original...)
}

// captioned numbers a figure or table block with identifier attr.ID and
// prefixes its caption. It returns the attributes carrying the number
// mark.
func (r *Resolver) captioned(k ast.EntityKind, attr ast.Attr, c *ast.Caption) ast.Attr {
	_, label, _ := ast.SplitIdentifier(attr.ID)
	if _, ok := attr.Get(NumberAttr); ok {
		r.recount(k, label, attr)
		return attr
	}
	n := r.number(k, label)
	for _, b := range c.Blocks {
		switch p := b.(type) {
		case *ast.Plain:
			p.Inlines = r.caption(k, n, p.Inlines)
			return attr.WithKV(NumberAttr, strconv.Itoa(n))
		case *ast.Para:
			p.Inlines = r.caption(k, n, p.Inlines)
			return attr.WithKV(NumberAttr, strconv.Itoa(n))
		}
	}
	prefix := &ast.Plain{Inlines: r.caption(k, n, nil)}
	c.Blocks = append([]ast.Block{prefix}, c.Blocks...)
	return attr.WithKV(NumberAttr, strconv.Itoa(n))
}

// captionContent resolves the references in both forms of a caption.
func (r *Resolver) captionContent(c *ast.Caption) {
	if c.Short != nil {
		c.Short = r.inlines(c.Short)
	}
	r.blocks(c.Blocks)
}

// equationMarker checks if a display equation at ins[i-1] is followed by
// an equation marker, optionally after a space. It returns the identifier
// from the marker and the marker's position.
func equationMarker(m *ast.Math, ins []ast.Inline, i int) (string, int, bool) {
	if !m.Display || i >= len(ins) {
		return "", 0, false
	}
	switch ins[i].(type) {
	case *ast.Space, *ast.SoftBreak:
		i++
	}
	if i >= len(ins) {
		return "", 0, false
	}
	str, ok := ins[i].(*ast.Str)
	if !ok {
		return "", 0, false
	}
	match := equationMarkerPattern.FindStringSubmatch(str.Text)
	if match == nil {
		return "", 0, false
	}
	return match[1], i, true
}

// equation numbers a display equation and wraps it into an anchor span
// carrying the identifier from its marker.
func (r *Resolver) equation(m *ast.Math, id string) ast.Inline {
	_, label, _ := ast.SplitIdentifier(id)
	n := r.number(ast.Equation, label)
	span := &ast.Span{
		Attr:    ast.NewAttr(id).WithKV(NumberAttr, strconv.Itoa(n)),
		Inlines: []ast.Inline{m},
	}
	if r.mode.TagsMath() {
		m.Text = backend.TagMath(m.Text, n)
	} else {
		span.Inlines = append(span.Inlines, &ast.Space{}, ast.Text("("+strconv.Itoa(n)+")"))
	}
	return span
}

// captionHolderKind checks if a container holds a table or algorithm
// caption.
func captionHolderKind(div *ast.Div) (ast.EntityKind, bool) {
	switch {
	case div.Attr.HasClass(directive.TableCaptionClass):
		return ast.Table, true
	case div.Attr.HasClass(directive.AlgorithmCaptionClass):
		return ast.Algorithm, true
	}
	return ast.KindCount, false
}

// captionHolder numbers a table or algorithm and replaces the content of
// its caption container by the numbered caption.
func (r *Resolver) captionHolder(div *ast.Div, k ast.EntityKind) {
	_, label, _ := ast.SplitIdentifier(div.Attr.ID)
	if _, ok := div.Attr.Get(NumberAttr); ok {
		r.recount(k, label, div.Attr)
		return
	}
	original, ok := div.Attr.Get(directive.CaptionAttr)
	if !ok {
		original = blocksText(div.Blocks)
	}
	n := r.number(k, label)
	text := r.locale.Label(k, n)
	if original = r.resolveText(original); original != "" {
		text += ": " + original
	}
	var caption []ast.Inline
	if k == ast.Algorithm {
		caption = []ast.Inline{&ast.Emph{Inlines: r.words(text)}}
	} else {
		caption = r.words(text)
	}
	div.Attr = div.Attr.WithKV(NumberAttr, strconv.Itoa(n))
	div.Blocks = []ast.Block{&ast.Para{Inlines: caption}}
}

// blocksText is the visible text of the paragraphs in blocks.
func blocksText(blocks []ast.Block) string {
	var parts []string
	for _, b := range blocks {
		switch n := b.(type) {
		case *ast.Para:
			parts = append(parts, ast.Stringify(n.Inlines))
		case *ast.Plain:
			parts = append(parts, ast.Stringify(n.Inlines))
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// --- References ------------------------------------------------------------

// resolveText replaces every resolvable reference token in s.
func (r *Resolver) resolveText(s string) string {
	if !strings.Contains(s, "@") {
		return s
	}
	return referencePattern.ReplaceAllStringFunc(s, func(token string) string {
		if name, ok := r.resolve(token[1:]); ok {
			return name
		}
		return token
	})
}

// citation resolves a citation group consisting of a single reference.
func (r *Resolver) citation(cite *ast.Cite) (string, bool) {
	if len(cite.Citations) != 1 {
		return "", false
	}
	return r.resolve(cite.Citations[0].ID)
}

// words splits s into words, segmented by script. The script pass has
// already run, so text inserted by this pass is segmented here.
func (r *Resolver) words(s string) []ast.Inline {
	ins := ast.Words(s)
	if r.mode.SwitchesFonts() {
		ins = script.Inlines(ins)
	}
	return ins
}

// segment segments a resolved text run outside of font-switch markers.
func (r *Resolver) segment(s string, inside bool) ([]ast.Inline, bool) {
	if inside || !r.mode.SwitchesFonts() {
		return nil, false
	}
	return script.Segment(s)
}

// text is a single text run, segmented by script.
func (r *Resolver) text(s string, inside bool) []ast.Inline {
	if seg, ok := r.segment(s, inside); ok {
		return seg
	}
	return []ast.Inline{ast.Text(s)}
}

// resolve looks up a kind-qualified identifier and returns the visible
// label of the entity. Identifiers of unknown kind are not references.
func (r *Resolver) resolve(id string) (string, bool) {
	kind, label, ok := ast.SplitIdentifier(id)
	if !ok || label == "" {
		return "", false
	}
	if n, ok := r.registry.Lookup(kind, label); ok {
		return r.locale.Label(kind, n), true
	}
	if !r.seen[id] {
		r.seen[id] = true
		r.unresolved = append(r.unresolved, id)
	}
	return "", false
}
