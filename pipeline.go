/*
Package refpipe turns a directive-annotated document tree into a numbered,
cross-referenced and locale-aware tree for a rendering backend.

Rendering chains five passes, each consuming the complete output of its
predecessor:

    locale     detect the document language, select caption prefixes
    script     wrap runs of CJK text in font switches (typesetting only)
    directive  compile comment directives into tree nodes
    xref       number entities and resolve references, in one forward walk
    layout     rewrite layout containers into backend regions

All state of a render lives in a render value created by Render. A
Pipeline itself is immutable and may be used for any number of documents,
also concurrently.

A reference appearing before its target does not resolve and stays in the
output as "@fig:label" text. Result.Unresolved lists these references.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package refpipe

import (
	"errors"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/refpipe/directive"
	"github.com/npillmayer/refpipe/layout"
	"github.com/npillmayer/refpipe/locale"
	"github.com/npillmayer/refpipe/script"
	"github.com/npillmayer/refpipe/xref"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'refpipe'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe")
}

// ErrEmptyDocument is returned if Render is called without a document.
var ErrEmptyDocument = errors.New("cannot render empty document")

// Pipeline renders documents for one backend mode.
type Pipeline struct {
	mode     backend.Mode
	prefixes *locale.Table
	language string // fallback document language
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMode selects the backend mode. The default is backend.Generic.
func WithMode(mode backend.Mode) Option {
	return func(p *Pipeline) {
		p.mode = mode
	}
}

// WithPrefixes layers a prefix table over the built-in one.
func WithPrefixes(table *locale.Table) Option {
	return func(p *Pipeline) {
		p.prefixes = locale.DefaultTable().Merge(table)
	}
}

// WithDefaultLanguage sets the language assumed for documents which do
// not declare one in their metadata.
func WithDefaultLanguage(lang string) Option {
	return func(p *Pipeline) {
		p.language = lang
	}
}

// New creates a pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.prefixes == nil {
		p.prefixes = locale.DefaultTable()
	}
	return p
}

// Mode returns the backend mode of the pipeline.
func (p *Pipeline) Mode() backend.Mode {
	return p.mode
}

// Result is the outcome of a render.
type Result struct {
	Document   *ast.Document
	Locale     *locale.Context
	Registry   *xref.Registry
	Unresolved []string // identifiers of unresolved references, e.g. "fig:later"
}

// render holds the state of a single render.
type render struct {
	mode   backend.Mode
	table  *locale.Table
	lang   string
	doc    *ast.Document
	locale *locale.Context
	xref   *xref.Result
}

// stage is a pass of the pipeline.
type stage struct {
	name string
	run  func(r *render)
}

// stages are executed in this order; later passes rely on the output of
// earlier ones.
var stages = []stage{
	{"locale", func(r *render) {
		r.locale = locale.DetectWithDefault(r.doc.Meta, r.lang, r.table)
	}},
	{"script", func(r *render) {
		r.doc = script.Pass(r.doc, r.mode)
	}},
	{"directive", func(r *render) {
		r.doc = directive.Pass(r.doc, r.mode)
	}},
	{"xref", func(r *render) {
		r.doc, r.xref = xref.Pass(r.doc, r.mode, r.locale)
	}},
	{"layout", func(r *render) {
		r.doc = layout.Pass(r.doc, r.mode)
	}},
}

// Render runs all passes over doc. doc is modified in place. Every call
// starts with fresh counters, labels and locale.
func (p *Pipeline) Render(doc *ast.Document) (*Result, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}
	r := &render{mode: p.mode, table: p.prefixes, lang: p.language, doc: doc}
	for _, s := range stages {
		tracer().Debugf("render: %s pass", s.name)
		s.run(r)
	}
	if n := len(r.xref.Unresolved); n > 0 {
		tracer().Infof("render: %d unresolved reference(s)", n)
	}
	return &Result{
		Document:   r.doc,
		Locale:     r.locale,
		Registry:   r.xref.Registry,
		Unresolved: r.xref.Unresolved,
	}, nil
}
