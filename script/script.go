/*
Package script segments text runs by script, so that runs of CJK text can
be set in a dedicated font.

Every code point is classified as primary script (Latin and everything
else) or secondary script (CJK ideographs, kana and compatibility forms).
A run is split into maximal script-homogeneous sub-runs; secondary
sub-runs are enclosed in font-switch markers, primary ones are emitted
verbatim. Runs without any secondary code point are returned untouched.
*/
package script

import (
	"sort"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'refpipe.script'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.script")
}

// Class is the script class of a code point.
type Class uint8

const (
	Primary Class = iota
	Secondary
)

func (c Class) String() string {
	if c == Secondary {
		return "secondary"
	}
	return "primary"
}

type runeRange struct {
	lo, hi rune // inclusive
}

// secondaryRanges must be sorted and non-overlapping.
var secondaryRanges = []runeRange{
	{0x3000, 0x303f},   // CJK symbols and punctuation
	{0x3040, 0x309f},   // Hiragana
	{0x30a0, 0x30ff},   // Katakana
	{0x3400, 0x4dbf},   // CJK unified ideographs extension A
	{0x4e00, 0x9fff},   // CJK unified ideographs
	{0xf900, 0xfaff},   // CJK compatibility ideographs
	{0xff00, 0xffef},   // halfwidth and fullwidth forms
	{0x20000, 0x2fa1f}, // supplementary ideographic plane
}

// Classify returns the script class of r.
func Classify(r rune) Class {
	i := sort.Search(len(secondaryRanges), func(i int) bool {
		return secondaryRanges[i].hi >= r
	})
	if i < len(secondaryRanges) && secondaryRanges[i].lo <= r {
		return Secondary
	}
	return Primary
}

// HasSecondary is true if s contains at least one secondary-script code point.
func HasSecondary(s string) bool {
	for _, r := range s {
		if Classify(r) == Secondary {
			return true
		}
	}
	return false
}

// Run is a script-homogeneous part of a text.
type Run struct {
	Text  string
	Class Class
}

// Split splits s into maximal runs of constant script class. The
// concatenation of the run texts is s.
func Split(s string) []Run {
	var runs []Run
	start, cls := 0, Primary
	for i, r := range s {
		c := Classify(r)
		if i == 0 {
			cls = c
			continue
		}
		if c != cls {
			runs = append(runs, Run{Text: s[start:i], Class: cls})
			start, cls = i, c
		}
	}
	if start < len(s) {
		runs = append(runs, Run{Text: s[start:], Class: cls})
	}
	return runs
}
