/*
Command refpipe numbers and cross-references a document tree.

refpipe reads a document in pandoc JSON format, compiles the comment
directives it contains, numbers figures, tables, equations and algorithms,
resolves references to them and writes the transformed document back as
pandoc JSON. It is meant to be used as a pandoc filter:

    pandoc -t json input.md | refpipe filter --mode latex | pandoc -f json -o out.pdf

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/npillmayer/refpipe"
	"github.com/npillmayer/refpipe/astdbg"
	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
	"github.com/npillmayer/refpipe/config"
	"github.com/npillmayer/refpipe/pandocjson"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

const version = "0.1.0"

// tracer traces with key 'refpipe.cmd'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.cmd")
}

// Globals are flags shared by all commands.
type Globals struct {
	Config string `short:"c" help:"Configuration file" type:"path"`
	Mode   string `short:"m" help:"Backend mode (generic, latex, docx); overrides the configuration"`
	Trace  string `short:"t" help:"Trace level (error, info, debug); overrides the configuration"`
}

type cli struct {
	Globals

	Filter  FilterCmd  `cmd:"" default:"1" help:"Transform a pandoc JSON document"`
	Dump    DumpCmd    `cmd:"" help:"Print the tree of a pandoc JSON document"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// streams are the standard streams of a command.
type streams struct {
	in       io.Reader
	out, err io.Writer
}

// FilterCmd renders a document.
type FilterCmd struct {
	In     string `short:"i" help:"Input file, '-' for stdin" default:"-"`
	Out    string `short:"o" help:"Output file, '-' for stdout" default:"-"`
	Strict bool   `help:"Fail if a reference does not resolve"`
}

// Run executes the filter command.
func (c *FilterCmd) Run(g *Globals, s *streams) error {
	p, err := g.pipeline(s)
	if err != nil {
		return err
	}
	doc, err := readDocument(c.In, s)
	if err != nil {
		return err
	}
	result, err := p.Render(doc)
	if err != nil {
		return err
	}
	for _, id := range result.Unresolved {
		tracer().Infof("unresolved reference @%s", id)
	}
	if c.Strict && len(result.Unresolved) > 0 {
		return fmt.Errorf("%d unresolved reference(s), first is @%s",
			len(result.Unresolved), result.Unresolved[0])
	}
	return writeDocument(c.Out, result.Document, s)
}

// DumpCmd prints the rendered tree of a document.
type DumpCmd struct {
	In  string `arg:"" optional:"" help:"Input file, '-' for stdin" default:"-"`
	Raw bool   `help:"Print the document as read, without rendering"`
}

// Run executes the dump command.
func (c *DumpCmd) Run(g *Globals, s *streams) error {
	p, err := g.pipeline(s)
	if err != nil {
		return err
	}
	doc, err := readDocument(c.In, s)
	if err != nil {
		return err
	}
	if !c.Raw {
		result, err := p.Render(doc)
		if err != nil {
			return err
		}
		doc = result.Document
	}
	return astdbg.Print(s.out, doc)
}

// VersionCmd prints the version.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run(s *streams) error {
	_, err := fmt.Fprintf(s.out, "refpipe version %s\n", version)
	return err
}

// pipeline loads the configuration, applies the command line overrides,
// sets up tracing and creates a pipeline.
func (g *Globals) pipeline(s *streams) (*refpipe.Pipeline, error) {
	conf, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Mode != "" {
		if conf.Mode, err = backend.ParseMode(g.Mode); err != nil {
			return nil, err
		}
	}
	if g.Trace != "" {
		conf.Trace = g.Trace
		if err = conf.Validate(); err != nil {
			return nil, err
		}
	}
	setupTracing(conf.TraceLevel(), s.err)
	tracer().Debugf("mode %s, language %q", conf.Mode, conf.Language)
	return conf.Pipeline(), nil
}

func setupTracing(level tracing.TraceLevel, w io.Writer) {
	t := gologadapter.New()
	t.SetOutput(w)
	t.SetTraceLevel(level)
	tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace {
		return t
	}))
}

func readDocument(path string, s *streams) (*ast.Document, error) {
	if path == "" || path == "-" {
		return pandocjson.Decode(s.in)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pandocjson.Decode(f)
}

func writeDocument(path string, doc *ast.Document, s *streams) error {
	if path == "" || path == "-" {
		return pandocjson.Encode(s.out, doc)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = pandocjson.Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newParser(c *cli, s *streams, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("refpipe"),
		kong.Description("Numbers and cross-references pandoc documents"),
		kong.UsageOnError(),
		kong.Writers(s.out, s.err),
		kong.Bind(s),
	}, options...)
	return kong.New(c, options...)
}

func main() {
	var c cli
	s := &streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	parser, err := newParser(&c, s)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run(&c.Globals)
	ctx.FatalIfErrorf(err)
}
