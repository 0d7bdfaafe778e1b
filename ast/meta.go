package ast

// MetaValue is a value of the document metadata map.
type MetaValue interface {
	meta()
}

// Meta is the document metadata.
type Meta map[string]MetaValue

// MetaString is an uninterpreted string.
type MetaString string

// MetaBool is a flag.
type MetaBool bool

// MetaInlines is formatted inline text, e.g. a title.
type MetaInlines []Inline

// MetaBlocks is formatted block content, e.g. an abstract.
type MetaBlocks []Block

// MetaList is an ordered list of values, e.g. several authors.
type MetaList []MetaValue

// MetaMap is a nested map.
type MetaMap map[string]MetaValue

func (MetaString) meta()  {}
func (MetaBool) meta()    {}
func (MetaInlines) meta() {}
func (MetaBlocks) meta()  {}
func (MetaList) meta()    {}
func (MetaMap) meta()     {}

// MetaText returns the plain text of a metadata value. Lists and maps do not
// have a text form and yield "".
func MetaText(v MetaValue) string {
	switch m := v.(type) {
	case MetaString:
		return string(m)
	case MetaInlines:
		return Stringify(m)
	case MetaBlocks:
		for _, b := range m {
			switch p := b.(type) {
			case *Plain:
				return Stringify(p.Inlines)
			case *Para:
				return Stringify(p.Inlines)
			}
		}
	}
	return ""
}
