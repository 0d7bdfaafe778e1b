/*
Package pandocjson reads and writes the JSON serialization of the pandoc
document AST, the format pandoc hands to and expects from a JSON filter.

Node kinds the pipeline works on or has to look into (paragraphs,
containers, links, notes, figures, tables, ...) are decoded into package
ast types. Everything else (code blocks, definition lists, line blocks,
...) is kept as an opaque payload holding the original JSON, and is
written back unchanged.
*/
package pandocjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'refpipe.pandocjson'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.pandocjson")
}

// ErrMalformed is returned for JSON which is not a pandoc document.
var ErrMalformed = errors.New("malformed pandoc JSON")

// DefaultAPIVersion is written for documents without an API version.
var DefaultAPIVersion = []int{1, 23, 1}

// node is the generic {"t": ..., "c": ...} shape of a pandoc element.
type node struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c,omitempty"`
}

type document struct {
	APIVersion []int                      `json:"pandoc-api-version"`
	Meta       map[string]json.RawMessage `json:"meta"`
	Blocks     []json.RawMessage          `json:"blocks"`
}

// Decode reads a pandoc JSON document from r.
func Decode(r io.Reader) (*ast.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pandocjson: read document: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a pandoc JSON document.
func Unmarshal(data []byte) (*ast.Document, error) {
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d.APIVersion == nil {
		return nil, fmt.Errorf("%w: no pandoc-api-version", ErrMalformed)
	}
	doc := &ast.Document{APIVersion: d.APIVersion, Meta: ast.Meta{}}
	for key, raw := range d.Meta {
		v, err := decodeMeta(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: meta %q: %v", ErrMalformed, key, err)
		}
		doc.Meta[key] = v
	}
	blocks, err := decodeBlocks(d.Blocks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc.Blocks = blocks
	tracer().Debugf("decoded document with %d blocks, api %v", len(blocks), doc.APIVersion)
	return doc, nil
}

// --- Blocks ----------------------------------------------------------------

func decodeBlocks(raws []json.RawMessage) ([]ast.Block, error) {
	blocks := make([]ast.Block, 0, len(raws))
	for _, raw := range raws {
		b, err := decodeBlock(raw)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func decodeBlockList(raw json.RawMessage) ([]ast.Block, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	return decodeBlocks(raws)
}

func decodeBlock(raw json.RawMessage) (ast.Block, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	switch ast.Tag(n.T) {
	case ast.PlainTag, ast.ParaTag:
		ins, err := decodeInlineList(n.C)
		if err != nil {
			return nil, err
		}
		if n.T == string(ast.PlainTag) {
			return &ast.Plain{Inlines: ins}, nil
		}
		return &ast.Para{Inlines: ins}, nil
	case ast.HeaderTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 3); err != nil {
			return nil, err
		}
		h := &ast.Header{}
		if err := json.Unmarshal(c[0], &h.Level); err != nil {
			return nil, err
		}
		attr, err := decodeAttr(c[1])
		if err != nil {
			return nil, err
		}
		h.Attr = attr
		if h.Inlines, err = decodeInlineList(c[2]); err != nil {
			return nil, err
		}
		return h, nil
	case ast.DivTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 2); err != nil {
			return nil, err
		}
		attr, err := decodeAttr(c[0])
		if err != nil {
			return nil, err
		}
		blocks, err := decodeBlockList(c[1])
		if err != nil {
			return nil, err
		}
		return &ast.Div{Attr: attr, Blocks: blocks}, nil
	case ast.BlockQuoteTag:
		blocks, err := decodeBlockList(n.C)
		if err != nil {
			return nil, err
		}
		return &ast.BlockQuote{Blocks: blocks}, nil
	case ast.BulletListTag:
		items, err := decodeItems(n.C)
		if err != nil {
			return nil, err
		}
		return &ast.List{Items: items}, nil
	case ast.OrdListTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 2); err != nil {
			return nil, err
		}
		list := &ast.List{Ordered: true}
		if err := decodeListAttrs(c[0], list); err != nil {
			return nil, err
		}
		items, err := decodeItems(c[1])
		if err != nil {
			return nil, err
		}
		list.Items = items
		return list, nil
	case ast.RawBlockTag:
		format, text, err := decodeRaw(n.C)
		if err != nil {
			return nil, err
		}
		return &ast.RawBlock{Format: format, Text: text}, nil
	case ast.FigureTag:
		return decodeFigure(n.C)
	case ast.TableTag:
		return decodeTable(n.C)
	}
	return &ast.Opaque{Type: n.T, Raw: append([]byte(nil), raw...)}, nil
}

func decodeItems(raw json.RawMessage) ([][]ast.Block, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	items := make([][]ast.Block, 0, len(raws))
	for _, r := range raws {
		item, err := decodeBlockList(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeListAttrs reads [start, {"t": style}, {"t": delim}].
func decodeListAttrs(raw json.RawMessage, list *ast.List) error {
	var c []json.RawMessage
	if err := unmarshalN(raw, &c, 3); err != nil {
		return err
	}
	if err := json.Unmarshal(c[0], &list.Start); err != nil {
		return err
	}
	var style, delim node
	if err := json.Unmarshal(c[1], &style); err != nil {
		return err
	}
	if err := json.Unmarshal(c[2], &delim); err != nil {
		return err
	}
	list.Style, list.Delim = style.T, delim.T
	return nil
}

// --- Inlines ---------------------------------------------------------------

func decodeInlineList(raw json.RawMessage) ([]ast.Inline, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	ins := make([]ast.Inline, 0, len(raws))
	for _, r := range raws {
		in, err := decodeInline(r)
		if err != nil {
			return nil, err
		}
		ins = append(ins, in)
	}
	return ins, nil
}

func decodeInline(raw json.RawMessage) (ast.Inline, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	switch ast.Tag(n.T) {
	case ast.StrTag:
		s := &ast.Str{}
		return s, json.Unmarshal(n.C, &s.Text)
	case ast.SpaceTag:
		return &ast.Space{}, nil
	case ast.SoftBreakTag:
		return &ast.SoftBreak{}, nil
	case ast.LineBreakTag:
		return &ast.LineBreak{}, nil
	case ast.EmphTag:
		ins, err := decodeInlineList(n.C)
		return &ast.Emph{Inlines: ins}, err
	case ast.StrongTag:
		ins, err := decodeInlineList(n.C)
		return &ast.Strong{Inlines: ins}, err
	case ast.SpanTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 2); err != nil {
			return nil, err
		}
		attr, err := decodeAttr(c[0])
		if err != nil {
			return nil, err
		}
		ins, err := decodeInlineList(c[1])
		return &ast.Span{Attr: attr, Inlines: ins}, err
	case ast.MathTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 2); err != nil {
			return nil, err
		}
		var mathType node
		if err := json.Unmarshal(c[0], &mathType); err != nil {
			return nil, err
		}
		m := &ast.Math{Display: mathType.T == displayMath}
		return m, json.Unmarshal(c[1], &m.Text)
	case ast.RawInlineTag:
		format, text, err := decodeRaw(n.C)
		return &ast.RawInline{Format: format, Text: text}, err
	case ast.ImageTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 3); err != nil {
			return nil, err
		}
		img := &ast.Image{}
		var err error
		if img.Attr, err = decodeAttr(c[0]); err != nil {
			return nil, err
		}
		if img.Caption, err = decodeInlineList(c[1]); err != nil {
			return nil, err
		}
		var target [2]string
		if err = json.Unmarshal(c[2], &target); err != nil {
			return nil, err
		}
		img.Target, img.Title = target[0], target[1]
		return img, nil
	case ast.CiteTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 2); err != nil {
			return nil, err
		}
		var raws []json.RawMessage
		if err := json.Unmarshal(c[0], &raws); err != nil {
			return nil, err
		}
		cite := &ast.Cite{}
		for _, r := range raws {
			var id struct {
				ID string `json:"citationId"`
			}
			if err := json.Unmarshal(r, &id); err != nil {
				return nil, err
			}
			cite.Citations = append(cite.Citations, ast.Citation{ID: id.ID, Raw: append([]byte(nil), r...)})
		}
		ins, err := decodeInlineList(c[1])
		cite.Inlines = ins
		return cite, err
	case ast.LinkTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 3); err != nil {
			return nil, err
		}
		link := &ast.Link{}
		var err error
		if link.Attr, err = decodeAttr(c[0]); err != nil {
			return nil, err
		}
		if link.Inlines, err = decodeInlineList(c[1]); err != nil {
			return nil, err
		}
		var target [2]string
		if err = json.Unmarshal(c[2], &target); err != nil {
			return nil, err
		}
		link.Target, link.Title = target[0], target[1]
		return link, nil
	case ast.NoteTag:
		blocks, err := decodeBlockList(n.C)
		return &ast.Note{Blocks: blocks}, err
	case ast.QuotedTag:
		var c []json.RawMessage
		if err := unmarshalN(n.C, &c, 2); err != nil {
			return nil, err
		}
		var quoteType node
		if err := json.Unmarshal(c[0], &quoteType); err != nil {
			return nil, err
		}
		ins, err := decodeInlineList(c[1])
		return &ast.Quoted{Double: quoteType.T == doubleQuote, Inlines: ins}, err
	}
	if ast.IsStyle(ast.Tag(n.T)) {
		ins, err := decodeInlineList(n.C)
		return &ast.Styled{Style: ast.Tag(n.T), Inlines: ins}, err
	}
	return &ast.OpaqueInline{Type: n.T, Raw: append([]byte(nil), raw...)}, nil
}

// --- Attributes and helpers ------------------------------------------------

// decodeAttr reads [id, [classes], [[key, value], ...]].
func decodeAttr(raw json.RawMessage) (ast.Attr, error) {
	var c []json.RawMessage
	if err := unmarshalN(raw, &c, 3); err != nil {
		return ast.Attr{}, err
	}
	var attr ast.Attr
	if err := json.Unmarshal(c[0], &attr.ID); err != nil {
		return attr, err
	}
	if err := json.Unmarshal(c[1], &attr.Classes); err != nil {
		return attr, err
	}
	var kvs [][2]string
	if err := json.Unmarshal(c[2], &kvs); err != nil {
		return attr, err
	}
	for _, kv := range kvs {
		attr.KVs = append(attr.KVs, ast.KV{Key: kv[0], Value: kv[1]})
	}
	return attr, nil
}

func decodeRaw(raw json.RawMessage) (string, string, error) {
	var c [2]string
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", "", err
	}
	return c[0], c[1], nil
}

// unmarshalN decodes a JSON array which has to have exactly n elements.
func unmarshalN(raw json.RawMessage, c *[]json.RawMessage, n int) error {
	if err := json.Unmarshal(raw, c); err != nil {
		return err
	}
	if len(*c) != n {
		return fmt.Errorf("expected %d element(s) in node content, have %d", n, len(*c))
	}
	return nil
}

// --- Meta ------------------------------------------------------------------

const (
	metaMapTag     = "MetaMap"
	metaListTag    = "MetaList"
	metaBoolTag    = "MetaBool"
	metaStringTag  = "MetaString"
	metaInlinesTag = "MetaInlines"
	metaBlocksTag  = "MetaBlocks"
	displayMath    = "DisplayMath"
	inlineMath     = "InlineMath"
	doubleQuote    = "DoubleQuote"
	singleQuote    = "SingleQuote"
)

func decodeMeta(raw json.RawMessage) (ast.MetaValue, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	switch n.T {
	case metaStringTag:
		var s string
		err := json.Unmarshal(n.C, &s)
		return ast.MetaString(s), err
	case metaBoolTag:
		var b bool
		err := json.Unmarshal(n.C, &b)
		return ast.MetaBool(b), err
	case metaInlinesTag:
		ins, err := decodeInlineList(n.C)
		return ast.MetaInlines(ins), err
	case metaBlocksTag:
		blocks, err := decodeBlockList(n.C)
		return ast.MetaBlocks(blocks), err
	case metaListTag:
		var raws []json.RawMessage
		if err := json.Unmarshal(n.C, &raws); err != nil {
			return nil, err
		}
		list := make(ast.MetaList, 0, len(raws))
		for _, r := range raws {
			v, err := decodeMeta(r)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case metaMapTag:
		var raws map[string]json.RawMessage
		if err := json.Unmarshal(n.C, &raws); err != nil {
			return nil, err
		}
		m := make(ast.MetaMap, len(raws))
		for k, r := range raws {
			v, err := decodeMeta(r)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown meta value type %q", n.T)
}
