package script

import (
	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/refpipe/backend"
)

// MetaFields are the metadata fields subject to segmentation.
var MetaFields = []string{"title", "subtitle", "author"}

// Segment splits a text run into script-homogeneous inlines, enclosing
// secondary-script runs in font-switch markers. If text does not contain
// any secondary-script code point, Segment returns nil and false and the
// run is to be kept as it is.
func Segment(text string) ([]ast.Inline, bool) {
	if !HasSecondary(text) {
		return nil, false
	}
	var ins []ast.Inline
	for _, run := range Split(text) {
		if run.Class == Secondary {
			ins = append(ins, backend.FontSwitch(run.Text)...)
		} else {
			ins = append(ins, &ast.Str{Text: run.Text})
		}
	}
	return ins, true
}

// Inlines segments the Str elements of a sequence of sibling inlines. Text
// already enclosed in font-switch markers is left alone. Nested inlines are
// not visited.
func Inlines(ins []ast.Inline) []ast.Inline {
	var result []ast.Inline
	changed, inside := false, false
	for i, in := range ins {
		switch {
		case inside:
			inside = !backend.IsFontSwitch(in, false)
		case backend.IsFontSwitch(in, true):
			inside = true
		default:
			if str, ok := in.(*ast.Str); ok {
				if seg, ok := Segment(str.Text); ok {
					if !changed {
						result = append(make([]ast.Inline, 0, len(ins)+4), ins[:i]...)
						changed = true
					}
					result = append(result, seg...)
					continue
				}
			}
		}
		if changed {
			result = append(result, in)
		}
	}
	if !changed {
		return ins
	}
	return result
}

// Pass is the script-segmentation pass. It segments all text runs of the
// document and the metadata fields listed in MetaFields. Backends which do
// not switch fonts leave the document unchanged.
func Pass(doc *ast.Document, mode backend.Mode) *ast.Document {
	if doc == nil || !mode.SwitchesFonts() {
		return doc
	}
	tracer().Debugf("script segmentation pass")
	w := ast.Walker{Sequence: Inlines}
	w.Document(doc)
	for _, field := range MetaFields {
		if v, ok := doc.Meta[field]; ok {
			doc.Meta[field] = segmentMeta(v, w)
		}
	}
	return doc
}

// segmentMeta segments a single metadata value. Lists are handled entry
// by entry.
func segmentMeta(v ast.MetaValue, w ast.Walker) ast.MetaValue {
	switch m := v.(type) {
	case ast.MetaInlines:
		return ast.MetaInlines(w.Inlines(m))
	case ast.MetaString:
		if seg, ok := Segment(string(m)); ok {
			return ast.MetaInlines(seg)
		}
	case ast.MetaList:
		list := make(ast.MetaList, len(m))
		for i, entry := range m {
			list[i] = segmentMeta(entry, w)
		}
		return list
	}
	return v
}
