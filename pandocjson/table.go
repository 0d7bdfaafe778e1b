package pandocjson

import (
	"encoding/json"

	"github.com/npillmayer/refpipe/ast"
)

// Figures and tables carry captions and cells the passes have to reach.
// Column specifications are passed through as they are.

// Figure: [attr, caption, [block]]
func decodeFigure(raw json.RawMessage) (ast.Block, error) {
	var c []json.RawMessage
	if err := unmarshalN(raw, &c, 3); err != nil {
		return nil, err
	}
	fig := &ast.FigureBlock{}
	var err error
	if fig.Attr, err = decodeAttr(c[0]); err != nil {
		return nil, err
	}
	if fig.Caption, err = decodeCaption(c[1]); err != nil {
		return nil, err
	}
	if fig.Blocks, err = decodeBlockList(c[2]); err != nil {
		return nil, err
	}
	return fig, nil
}

// Caption: [short caption or null, [block]]
func decodeCaption(raw json.RawMessage) (ast.Caption, error) {
	var c []json.RawMessage
	var caption ast.Caption
	if err := unmarshalN(raw, &c, 2); err != nil {
		return caption, err
	}
	var err error
	if string(c[0]) != "null" {
		if caption.Short, err = decodeInlineList(c[0]); err != nil {
			return caption, err
		}
	}
	caption.Blocks, err = decodeBlockList(c[1])
	return caption, err
}

// Table: [attr, caption, [colspec], head, [body], foot]
func decodeTable(raw json.RawMessage) (ast.Block, error) {
	var c []json.RawMessage
	if err := unmarshalN(raw, &c, 6); err != nil {
		return nil, err
	}
	t := &ast.TableBlock{ColSpecs: append([]byte(nil), c[2]...)}
	var err error
	if t.Attr, err = decodeAttr(c[0]); err != nil {
		return nil, err
	}
	if t.Caption, err = decodeCaption(c[1]); err != nil {
		return nil, err
	}
	if t.Head, err = decodeSection(c[3]); err != nil {
		return nil, err
	}
	var bodies []json.RawMessage
	if err = json.Unmarshal(c[4], &bodies); err != nil {
		return nil, err
	}
	for _, b := range bodies {
		body, err := decodeBody(b)
		if err != nil {
			return nil, err
		}
		t.Bodies = append(t.Bodies, body)
	}
	if t.Foot, err = decodeSection(c[5]); err != nil {
		return nil, err
	}
	return t, nil
}

// TableHead and TableFoot: [attr, [row]]
func decodeSection(raw json.RawMessage) (ast.TableSection, error) {
	var c []json.RawMessage
	var section ast.TableSection
	if err := unmarshalN(raw, &c, 2); err != nil {
		return section, err
	}
	var err error
	if section.Attr, err = decodeAttr(c[0]); err != nil {
		return section, err
	}
	section.Rows, err = decodeRows(c[1])
	return section, err
}

// TableBody: [attr, row head columns, [row], [row]]
func decodeBody(raw json.RawMessage) (ast.TableBody, error) {
	var c []json.RawMessage
	var body ast.TableBody
	if err := unmarshalN(raw, &c, 4); err != nil {
		return body, err
	}
	var err error
	if body.Attr, err = decodeAttr(c[0]); err != nil {
		return body, err
	}
	if err = json.Unmarshal(c[1], &body.RowHeadColumns); err != nil {
		return body, err
	}
	if body.Head, err = decodeRows(c[2]); err != nil {
		return body, err
	}
	body.Rows, err = decodeRows(c[3])
	return body, err
}

// Row: [attr, [cell]]
// Cell: [attr, alignment, row span, col span, [block]]
func decodeRows(raw json.RawMessage) ([]ast.Row, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	rows := make([]ast.Row, 0, len(raws))
	for _, r := range raws {
		var c []json.RawMessage
		if err := unmarshalN(r, &c, 2); err != nil {
			return nil, err
		}
		var row ast.Row
		var err error
		if row.Attr, err = decodeAttr(c[0]); err != nil {
			return nil, err
		}
		var cells []json.RawMessage
		if err = json.Unmarshal(c[1], &cells); err != nil {
			return nil, err
		}
		row.Cells = make([]ast.Cell, 0, len(cells))
		for _, cr := range cells {
			cell, err := decodeCell(cr)
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeCell(raw json.RawMessage) (ast.Cell, error) {
	var c []json.RawMessage
	var cell ast.Cell
	if err := unmarshalN(raw, &c, 5); err != nil {
		return cell, err
	}
	var err error
	if cell.Attr, err = decodeAttr(c[0]); err != nil {
		return cell, err
	}
	var align node
	if err = json.Unmarshal(c[1], &align); err != nil {
		return cell, err
	}
	cell.Align = align.T
	if err = json.Unmarshal(c[2], &cell.RowSpan); err != nil {
		return cell, err
	}
	if err = json.Unmarshal(c[3], &cell.ColSpan); err != nil {
		return cell, err
	}
	cell.Blocks, err = decodeBlockList(c[4])
	return cell, err
}

// --- Encoding --------------------------------------------------------------

func encodeCaption(c ast.Caption) []any {
	var short any
	if c.Short != nil {
		short = encodeInlines(c.Short)
	}
	return []any{short, encodeBlocks(c.Blocks)}
}

func encodeTable(t *ast.TableBlock) any {
	var colSpecs any = []any{}
	if len(t.ColSpecs) > 0 {
		colSpecs = json.RawMessage(t.ColSpecs)
	}
	bodies := make([]any, 0, len(t.Bodies))
	for _, b := range t.Bodies {
		bodies = append(bodies, []any{
			encodeAttr(b.Attr), b.RowHeadColumns, encodeRows(b.Head), encodeRows(b.Rows),
		})
	}
	return element{string(ast.TableTag), []any{
		encodeAttr(t.Attr),
		encodeCaption(t.Caption),
		colSpecs,
		encodeSection(t.Head),
		bodies,
		encodeSection(t.Foot),
	}}
}

func encodeSection(s ast.TableSection) []any {
	return []any{encodeAttr(s.Attr), encodeRows(s.Rows)}
}

func encodeRows(rows []ast.Row) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		cells := make([]any, 0, len(r.Cells))
		for _, c := range r.Cells {
			align := c.Align
			if align == "" {
				align = "AlignDefault"
			}
			cells = append(cells, []any{
				encodeAttr(c.Attr), element{T: align}, c.RowSpan, c.ColSpan, encodeBlocks(c.Blocks),
			})
		}
		out = append(out, []any{encodeAttr(r.Attr), cells})
	}
	return out
}
