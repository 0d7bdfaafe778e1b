package pandocjson

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/npillmayer/refpipe/ast"
)

type element struct {
	T string `json:"t"`
	C any    `json:"c,omitempty"`
}

// Encode writes doc as pandoc JSON to w.
func Encode(w io.Writer, doc *ast.Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("pandocjson: write document: %w", err)
	}
	return nil
}

// Marshal encodes doc as pandoc JSON.
func Marshal(doc *ast.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrMalformed)
	}
	version := doc.APIVersion
	if len(version) == 0 {
		version = DefaultAPIVersion
	}
	meta := make(map[string]any, len(doc.Meta))
	for k, v := range doc.Meta {
		meta[k] = encodeMeta(v)
	}
	data, err := json.Marshal(struct {
		APIVersion []int          `json:"pandoc-api-version"`
		Meta       map[string]any `json:"meta"`
		Blocks     []any          `json:"blocks"`
	}{version, meta, encodeBlocks(doc.Blocks)})
	if err != nil {
		return nil, fmt.Errorf("pandocjson: encode document: %w", err)
	}
	return data, nil
}

func encodeBlocks(blocks []ast.Block) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, encodeBlock(b))
	}
	return out
}

func encodeBlock(b ast.Block) any {
	switch n := b.(type) {
	case *ast.Plain:
		return element{string(ast.PlainTag), encodeInlines(n.Inlines)}
	case *ast.Para:
		return element{string(ast.ParaTag), encodeInlines(n.Inlines)}
	case *ast.Header:
		return element{string(ast.HeaderTag), []any{n.Level, encodeAttr(n.Attr), encodeInlines(n.Inlines)}}
	case *ast.Div:
		return element{string(ast.DivTag), []any{encodeAttr(n.Attr), encodeBlocks(n.Blocks)}}
	case *ast.BlockQuote:
		return element{string(ast.BlockQuoteTag), encodeBlocks(n.Blocks)}
	case *ast.List:
		items := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			items = append(items, encodeBlocks(item))
		}
		if !n.Ordered {
			return element{string(ast.BulletListTag), items}
		}
		style, delim := n.Style, n.Delim
		if style == "" {
			style = "Decimal"
		}
		if delim == "" {
			delim = "Period"
		}
		attrs := []any{n.Start, element{T: style}, element{T: delim}}
		return element{string(ast.OrdListTag), []any{attrs, items}}
	case *ast.RawBlock:
		return element{string(ast.RawBlockTag), []string{n.Format, n.Text}}
	case *ast.FigureBlock:
		return element{string(ast.FigureTag), []any{
			encodeAttr(n.Attr), encodeCaption(n.Caption), encodeBlocks(n.Blocks),
		}}
	case *ast.TableBlock:
		return encodeTable(n)
	case *ast.Opaque:
		return json.RawMessage(n.Raw)
	}
	tracer().Errorf("cannot encode block %s", ast.BlockString(b))
	return element{string(ast.PlainTag), []any{}}
}

func encodeInlines(ins []ast.Inline) []any {
	out := make([]any, 0, len(ins))
	for _, in := range ins {
		out = append(out, encodeInline(in))
	}
	return out
}

func encodeInline(in ast.Inline) any {
	switch n := in.(type) {
	case *ast.Str:
		return element{string(ast.StrTag), n.Text}
	case *ast.Space, *ast.SoftBreak, *ast.LineBreak:
		return element{T: string(n.Tag())}
	case *ast.Emph:
		return element{string(ast.EmphTag), encodeInlines(n.Inlines)}
	case *ast.Strong:
		return element{string(ast.StrongTag), encodeInlines(n.Inlines)}
	case *ast.Span:
		return element{string(ast.SpanTag), []any{encodeAttr(n.Attr), encodeInlines(n.Inlines)}}
	case *ast.Math:
		mathType := inlineMath
		if n.Display {
			mathType = displayMath
		}
		return element{string(ast.MathTag), []any{element{T: mathType}, n.Text}}
	case *ast.RawInline:
		return element{string(ast.RawInlineTag), []string{n.Format, n.Text}}
	case *ast.Image:
		return element{string(ast.ImageTag), []any{
			encodeAttr(n.Attr), encodeInlines(n.Caption), []string{n.Target, n.Title},
		}}
	case *ast.Cite:
		citations := make([]any, 0, len(n.Citations))
		for _, c := range n.Citations {
			citations = append(citations, encodeCitation(c))
		}
		return element{string(ast.CiteTag), []any{citations, encodeInlines(n.Inlines)}}
	case *ast.Link:
		return element{string(ast.LinkTag), []any{
			encodeAttr(n.Attr), encodeInlines(n.Inlines), []string{n.Target, n.Title},
		}}
	case *ast.Note:
		return element{string(ast.NoteTag), encodeBlocks(n.Blocks)}
	case *ast.Quoted:
		quoteType := singleQuote
		if n.Double {
			quoteType = doubleQuote
		}
		return element{string(ast.QuotedTag), []any{element{T: quoteType}, encodeInlines(n.Inlines)}}
	case *ast.Styled:
		return element{string(n.Style), encodeInlines(n.Inlines)}
	case *ast.OpaqueInline:
		return json.RawMessage(n.Raw)
	}
	tracer().Errorf("cannot encode inline %v", in)
	return element{string(ast.StrTag), ""}
}

func encodeCitation(c ast.Citation) any {
	if len(c.Raw) > 0 {
		return json.RawMessage(c.Raw)
	}
	return map[string]any{
		"citationId":      c.ID,
		"citationPrefix":  []any{},
		"citationSuffix":  []any{},
		"citationMode":    element{T: "NormalCitation"},
		"citationNoteNum": 0,
		"citationHash":    0,
	}
}

func encodeAttr(a ast.Attr) []any {
	classes := a.Classes
	if classes == nil {
		classes = []string{}
	}
	kvs := make([][2]string, 0, len(a.KVs))
	for _, kv := range a.KVs {
		kvs = append(kvs, [2]string{kv.Key, kv.Value})
	}
	return []any{a.ID, classes, kvs}
}

func encodeMeta(v ast.MetaValue) any {
	switch m := v.(type) {
	case ast.MetaString:
		return element{metaStringTag, string(m)}
	case ast.MetaBool:
		return element{metaBoolTag, bool(m)}
	case ast.MetaInlines:
		return element{metaInlinesTag, encodeInlines(m)}
	case ast.MetaBlocks:
		return element{metaBlocksTag, encodeBlocks(m)}
	case ast.MetaList:
		list := make([]any, 0, len(m))
		for _, entry := range m {
			list = append(list, encodeMeta(entry))
		}
		return element{metaListTag, list}
	case ast.MetaMap:
		mm := make(map[string]any, len(m))
		for k, entry := range m {
			mm[k] = encodeMeta(entry)
		}
		return element{metaMapTag, mm}
	}
	return element{metaStringTag, ""}
}
