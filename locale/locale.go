/*
Package locale establishes the render-scoped locale context: the declared
document language and the caption/reference prefix for every entity kind.

Prefix sets are configured in YAML. The built-in table knows a Latin
default set and a Japanese set; clients may merge in further languages.
A document language selects the set whose key it starts with, so "ja" and
"ja-JP" both select the Japanese prefixes. Anything else, including an
absent or garbled language tag, selects the default set.
*/
package locale

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'refpipe.locale'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.locale")
}

// MetaLanguageKey is the metadata field holding the document language.
const MetaLanguageKey = "lang"

//go:embed prefixes.yaml
var defaultPrefixesYAML []byte

// ErrIncompleteDefaults is returned if a prefix table lacks a default
// prefix for an entity kind.
var ErrIncompleteDefaults = errors.New("default prefix set incomplete")

// PrefixSet maps entity kind names ("figure", "table", ...) to prefixes.
type PrefixSet map[string]string

// Table holds the default prefix set and the language-specific sets.
type Table struct {
	Default   PrefixSet            `yaml:"default"`
	Languages map[string]PrefixSet `yaml:"languages"`
}

// ParseTable reads a prefix table from YAML.
func ParseTable(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("locale: parse prefix table: %w", err)
	}
	return t, nil
}

// DefaultTable returns the built-in prefix table. Every call returns a
// fresh copy.
func DefaultTable() *Table {
	t, err := ParseTable(defaultPrefixesYAML)
	if err != nil {
		panic(err) // embedded table is part of the build
	}
	return t
}

// Merge returns a new table with the sets of other layered over t.
// other may be nil.
func (t *Table) Merge(other *Table) *Table {
	merged := &Table{
		Default:   PrefixSet{},
		Languages: map[string]PrefixSet{},
	}
	for _, src := range []*Table{t, other} {
		if src == nil {
			continue
		}
		for k, v := range src.Default {
			merged.Default[k] = v
		}
		for lang, set := range src.Languages {
			lang = strings.ToLower(lang)
			if merged.Languages[lang] == nil {
				merged.Languages[lang] = PrefixSet{}
			}
			for k, v := range set {
				merged.Languages[lang][k] = v
			}
		}
	}
	return merged
}

// Validate checks that the default set covers all entity kinds.
func (t *Table) Validate() error {
	for k := ast.Figure; k < ast.KindCount; k++ {
		if _, ok := t.Default[k.String()]; !ok {
			return fmt.Errorf("%w: no prefix for %s", ErrIncompleteDefaults, k)
		}
	}
	return nil
}

// --- Context ---------------------------------------------------------------

// Context is the locale state of a single render. It is established once,
// before any entity is numbered, and is read-only afterwards.
type Context struct {
	language string // declared language, as found in the metadata
	set      string // key of the selected prefix set, "" for default
	prefixes [ast.KindCount]string
}

// Detect reads the document language from the metadata and selects the
// prefix set from table. A nil table means DefaultTable().
func Detect(meta ast.Meta, table *Table) *Context {
	return DetectWithDefault(meta, "", table)
}

// DetectWithDefault is like Detect, but uses language fallback for
// documents which do not declare a language.
func DetectWithDefault(meta ast.Meta, fallback string, table *Table) *Context {
	if table == nil {
		table = DefaultTable()
	}
	lang := ast.MetaText(meta[MetaLanguageKey])
	if strings.TrimSpace(lang) == "" {
		lang = fallback
	}
	return ForLanguage(lang, table)
}

// ForLanguage creates a context for a language tag.
func ForLanguage(lang string, table *Table) *Context {
	if table == nil {
		table = DefaultTable()
	}
	ctx := &Context{language: strings.TrimSpace(lang)}
	norm := strings.ToLower(ctx.language)
	var selected PrefixSet
	if norm != "" {
		keys := make([]string, 0, len(table.Languages))
		for key := range table.Languages {
			keys = append(keys, key)
		}
		// longest key first, so "zh-hant" wins over "zh"
		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) > len(keys[j])
			}
			return keys[i] < keys[j]
		})
		for _, key := range keys {
			if key != "" && strings.HasPrefix(norm, strings.ToLower(key)) {
				ctx.set, selected = key, table.Languages[key]
				break
			}
		}
	}
	for k := ast.Figure; k < ast.KindCount; k++ {
		p, ok := selected[k.String()]
		if !ok {
			p = table.Default[k.String()]
		}
		ctx.prefixes[k] = p
	}
	tracer().Debugf("locale: language %q selects prefix set %q", ctx.language, ctx.set)
	return ctx
}

// Language returns the declared document language, possibly "".
func (ctx *Context) Language() string {
	return ctx.language
}

// PrefixSet returns the key of the selected language set, or "" if the
// default set is in use.
func (ctx *Context) PrefixSet() string {
	return ctx.set
}

// Prefix returns the caption/reference prefix for entities of kind k.
func (ctx *Context) Prefix(k ast.EntityKind) string {
	if k >= ast.KindCount {
		return ""
	}
	return ctx.prefixes[k]
}

// Label returns the visible label of entity number n of kind k,
// e.g. "Figure 3".
func (ctx *Context) Label(k ast.EntityKind, n int) string {
	return fmt.Sprintf("%s%d", ctx.Prefix(k), n)
}
