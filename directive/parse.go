package directive

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/net/html"
)

// Marker tells whether a directive opens, closes or stands alone.
type Marker uint8

const (
	SelfClosing Marker = iota
	Open
	Close
)

func (m Marker) String() string {
	switch m {
	case Open:
		return "open"
	case Close:
		return "close"
	}
	return "self-closing"
}

// Directive names.
const (
	Figure    = "figure"
	Equation  = "equation"
	Ref       = "ref"
	PageBreak = "pagebreak"
	Table     = "table"
	Algorithm = "algorithm"
	RawDocx   = "raw-docx"
	Style     = "style"
)

// names maps every known directive name to its opening marker. Names with
// marker Open have a closing counterpart "/name".
var names = map[string]Marker{
	Figure:    SelfClosing,
	Equation:  SelfClosing,
	Ref:       SelfClosing,
	PageBreak: SelfClosing,
	Style:     SelfClosing,
	Table:     Open,
	Algorithm: Open,
	RawDocx:   Open,
}

// Directive is a parsed comment directive.
type Directive struct {
	Name    string   // lower-case directive name, without '/'
	Marker  Marker   // open, close or self-closing
	Args    []string // trimmed arguments; empty if no argument string present
	RawArgs string   // argument string as written, trimmed
}

// Arg returns argument i, or "" if there are fewer arguments.
func (d Directive) Arg(i int) string {
	if i < 0 || i >= len(d.Args) {
		return ""
	}
	return d.Args[i]
}

func (d Directive) String() string {
	var sb strings.Builder
	if d.Marker == Close {
		sb.WriteByte('/')
	}
	sb.WriteString(d.Name)
	if len(d.Args) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(d.Args, " | "))
	}
	return sb.String()
}

// --- Grammar ---------------------------------------------------------------

// grammar is the participle grammar for the body of a directive comment.
// Examples: "pagebreak", "/table", "figure: a | b.png | Caption"
//
//nolint:govet // participle grammar tags are not standard struct tags
type grammar struct {
	Close bool    `parser:"@\"/\"?"`
	Name  string  `parser:"@Name"`
	Args  *string `parser:"( \":\" @Rest? )?"`
}

// directiveLexer switches into argument mode after the colon, where
// everything up to the end of the comment is a single token.
var directiveLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Slash", Pattern: `/`},
		{Name: "Name", Pattern: `[A-Za-z][A-Za-z-]*`},
		{Name: "Colon", Pattern: `:`, Action: lexer.Push("Arguments")},
	},
	"Arguments": {
		{Name: "Rest", Pattern: `[\s\S]+`},
	},
})

var directiveParser = participle.MustBuild[grammar](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
)

// Parse recognizes a directive in the raw HTML of a block or inline. raw
// has to consist of exactly one comment, optionally surrounded by
// whitespace. ok is false for anything else, including comments which are
// not well-formed directives and directives with unknown names.
func Parse(raw string) (d Directive, ok bool) {
	body, ok := commentBody(raw)
	if !ok {
		return d, false
	}
	return ParseBody(body)
}

// ParseBody parses the text between "<!--" and "-->".
func ParseBody(body string) (d Directive, ok bool) {
	g, err := directiveParser.ParseString("", body)
	if err != nil {
		tracer().Debugf("comment %q is not a directive: %v", body, err)
		return d, false
	}
	d.Name = strings.ToLower(g.Name)
	marker, known := names[d.Name]
	if !known {
		tracer().Debugf("unknown directive %q", d.Name)
		return Directive{}, false
	}
	if g.Close {
		if marker != Open {
			tracer().Debugf("directive %q cannot be closed", d.Name)
			return Directive{}, false
		}
		marker = Close
	}
	d.Marker = marker
	if g.Args != nil {
		d.RawArgs = strings.TrimSpace(*g.Args)
		d.Args = splitArgs(d.RawArgs)
	}
	return d, true
}

// splitArgs splits an argument string at '|' and trims every argument.
// An empty argument string yields no arguments at all.
func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	args := strings.Split(s, "|")
	for i, a := range args {
		args[i] = strings.TrimSpace(a)
	}
	return args
}

// commentBody extracts the text of the single HTML comment in raw.
func commentBody(raw string) (string, bool) {
	if !strings.Contains(raw, "<!--") {
		return "", false
	}
	z := html.NewTokenizer(strings.NewReader(raw))
	var body string
	found := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return body, found && z.Err() == io.EOF
		case html.CommentToken:
			if found {
				return "", false // more than one comment
			}
			body, found = string(z.Text()), true
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return "", false
			}
		default:
			return "", false
		}
	}
}
