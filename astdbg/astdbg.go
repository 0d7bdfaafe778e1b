/*
Package astdbg implements helpers to debug a document tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package astdbg

import (
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/refpipe/ast"
	"github.com/xlab/treeprint"
)

// String renders doc as an indented tree, one node per line.
func String(doc *ast.Document) string {
	return Tree(doc).String()
}

// Print writes the tree of doc to w.
func Print(w io.Writer, doc *ast.Document) error {
	_, err := io.WriteString(w, String(doc))
	return err
}

// Tree converts doc into a printable tree.
func Tree(doc *ast.Document) treeprint.Tree {
	root := treeprint.NewWithRoot("Document")
	if doc == nil {
		return root
	}
	if len(doc.Meta) > 0 {
		meta := root.AddBranch("Meta")
		keys := make([]string, 0, len(doc.Meta))
		for k := range doc.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			metaNode(meta, k, doc.Meta[k])
		}
	}
	for _, b := range doc.Blocks {
		blockNode(root, b)
	}
	return root
}

func metaNode(p treeprint.Tree, key string, v ast.MetaValue) {
	switch m := v.(type) {
	case ast.MetaString:
		p.AddNode(fmt.Sprintf("%s: %q", key, string(m)))
	case ast.MetaBool:
		p.AddNode(fmt.Sprintf("%s: %t", key, bool(m)))
	case ast.MetaInlines:
		inlineNodes(p.AddBranch(key+": MetaInlines"), m)
	case ast.MetaBlocks:
		b := p.AddBranch(key + ": MetaBlocks")
		for _, blk := range m {
			blockNode(b, blk)
		}
	case ast.MetaList:
		b := p.AddBranch(key + ": MetaList")
		for i, entry := range m {
			metaNode(b, fmt.Sprintf("[%d]", i), entry)
		}
	case ast.MetaMap:
		b := p.AddBranch(key + ": MetaMap")
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			metaNode(b, k, m[k])
		}
	default:
		p.AddNode(key + ": <nil>")
	}
}

func blockNode(p treeprint.Tree, b ast.Block) {
	switch n := b.(type) {
	case *ast.Plain:
		inlineNodes(p.AddBranch("Plain"), n.Inlines)
	case *ast.Para:
		inlineNodes(p.AddBranch("Para"), n.Inlines)
	case *ast.Header:
		inlineNodes(p.AddBranch(fmt.Sprintf("Header%d%s", n.Level, n.Attr)), n.Inlines)
	case *ast.Div:
		branch := p.AddBranch("Div" + n.Attr.String())
		for _, ch := range n.Blocks {
			blockNode(branch, ch)
		}
	case *ast.BlockQuote:
		branch := p.AddBranch("BlockQuote")
		for _, ch := range n.Blocks {
			blockNode(branch, ch)
		}
	case *ast.List:
		branch := p.AddBranch(n.Tag().String())
		for i, item := range n.Items {
			ib := branch.AddBranch(fmt.Sprintf("item %d", i+1))
			for _, ch := range item {
				blockNode(ib, ch)
			}
		}
	case *ast.FigureBlock:
		branch := p.AddBranch("Figure" + n.Attr.String())
		captionNode(branch, n.Caption)
		blockNodes(branch, n.Blocks)
	case *ast.TableBlock:
		branch := p.AddBranch("Table" + n.Attr.String())
		captionNode(branch, n.Caption)
		n.EachCell(func(c *ast.Cell) {
			blockNodes(branch.AddBranch(fmt.Sprintf("Cell %dx%d", c.RowSpan, c.ColSpan)), c.Blocks)
		})
	default:
		p.AddNode(ast.BlockString(b))
	}
}

func blockNodes(p treeprint.Tree, blocks []ast.Block) {
	for _, b := range blocks {
		blockNode(p, b)
	}
}

// captionNode adds a caption branch unless the caption is empty.
func captionNode(p treeprint.Tree, c ast.Caption) {
	if c.Short == nil && len(c.Blocks) == 0 {
		return
	}
	branch := p.AddBranch("Caption")
	if c.Short != nil {
		inlineNodes(branch.AddBranch("Short"), c.Short)
	}
	blockNodes(branch, c.Blocks)
}

func inlineNodes(p treeprint.Tree, ins []ast.Inline) {
	for _, in := range ins {
		switch n := in.(type) {
		case *ast.Str:
			p.AddNode(fmt.Sprintf("Str %q", n.Text))
		case *ast.Emph:
			inlineNodes(p.AddBranch("Emph"), n.Inlines)
		case *ast.Strong:
			inlineNodes(p.AddBranch("Strong"), n.Inlines)
		case *ast.Span:
			inlineNodes(p.AddBranch("Span"+n.Attr.String()), n.Inlines)
		case *ast.Math:
			kind := "inline"
			if n.Display {
				kind = "display"
			}
			p.AddNode(fmt.Sprintf("Math(%s) %q", kind, n.Text))
		case *ast.RawInline:
			p.AddNode(fmt.Sprintf("RawInline(%s) %q", n.Format, n.Text))
		case *ast.Image:
			branch := p.AddBranch(fmt.Sprintf("Image%s %q", n.Attr, n.Target))
			inlineNodes(branch, n.Caption)
		case *ast.Cite:
			ids := make([]string, 0, len(n.Citations))
			for _, c := range n.Citations {
				ids = append(ids, c.ID)
			}
			inlineNodes(p.AddBranch(fmt.Sprintf("Cite%v", ids)), n.Inlines)
		case *ast.Link:
			inlineNodes(p.AddBranch(fmt.Sprintf("Link%s %q", n.Attr, n.Target)), n.Inlines)
		case *ast.Note:
			blockNodes(p.AddBranch("Note"), n.Blocks)
		case *ast.Quoted:
			kind := "single"
			if n.Double {
				kind = "double"
			}
			inlineNodes(p.AddBranch(fmt.Sprintf("Quoted(%s)", kind)), n.Inlines)
		case *ast.Styled:
			inlineNodes(p.AddBranch(n.Style.String()), n.Inlines)
		default:
			p.AddNode(in.Tag().String())
		}
	}
}
