// Package ustring implements Tang's Unicode string facility (§3.2).
//
// A String pairs a UTF-8 byte buffer with its length in grapheme clusters
// and a vector of (Tag, starting grapheme offset) pairs recording which
// regions of the buffer require which output encoding. Concatenating two
// tagged strings preserves both tag vectors, so a string built from, say,
// an HTML-escaped fragment and a JSON-escaped fragment still knows which
// bytes need which treatment when it's finally printed.
//
// Grapheme counting and indexing is delegated to github.com/rivo/uniseg,
// the pack's grapheme-cluster library, rather than hand-rolled — slicing
// by grapheme (not byte or rune) is the one genuinely Unicode-aware
// operation this package exists to provide.
package ustring

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

// Tag identifies the output encoding a segment of a String requires.
type Tag int

const (
	// Trusted marks a segment safe to emit verbatim.
	Trusted Tag = iota
	// Untrusted marks a segment that came from outside the program and has
	// not been escaped for any particular output context.
	Untrusted
	// Percent marks a segment that must be percent-encoded (URL components).
	Percent
	// Html marks a segment that must be HTML-escaped.
	Html
	// Json marks a segment that must be JSON-escaped.
	Json
)

// String is a grapheme-aware, taint-tagged Unicode string.
type String struct {
	bytes    string
	graphLen int
	segments []segment
}

// segment records that, starting at grapheme offset Start, the string's
// content is tagged Tag (until the next segment's Start, or the end of the
// string for the last segment).
type segment struct {
	Tag   Tag
	Start int
}

// empty is the singleton empty string (§3.2: "An empty-string singleton
// exists").
var empty = &String{bytes: "", graphLen: 0, segments: []segment{{Tag: Trusted, Start: 0}}}

// Empty returns the shared empty-string singleton.
func Empty() *String { return empty }

// New builds a String from raw UTF-8 bytes, entirely tagged with tag.
func New(s string, tag Tag) *String {
	if s == "" {
		return empty
	}
	return &String{
		bytes:    s,
		graphLen: graphemeCount(s),
		segments: []segment{{Tag: tag, Start: 0}},
	}
}

func graphemeCount(s string) int {
	n := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		n++
	}
	return n
}

// Bytes returns the underlying UTF-8 byte buffer.
func (s *String) Bytes() string { return s.bytes }

// Len returns the length of the string in grapheme clusters.
func (s *String) Len() int { return s.graphLen }

// DisplayWidth returns the monospace terminal-cell width of the string,
// accounting for East-Asian wide characters. Nothing in the module calls
// it.
func (s *String) DisplayWidth() int {
	w := 0
	for _, r := range s.bytes {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

// tagAt returns the tag in effect at grapheme offset g.
func (s *String) tagAt(g int) Tag {
	tag := Trusted
	for _, seg := range s.segments {
		if seg.Start > g {
			break
		}
		tag = seg.Tag
	}
	return tag
}

// Concat returns a new String holding the concatenation of s and other,
// preserving both strings' tag boundaries (§3.2).
func (s *String) Concat(other *String) *String {
	if s.graphLen == 0 {
		return other
	}
	if other.graphLen == 0 {
		return s
	}
	segs := make([]segment, len(s.segments), len(s.segments)+len(other.segments))
	copy(segs, s.segments)
	offset := s.graphLen
	for i, seg := range other.segments {
		start := seg.Start + offset
		if i == 0 && len(segs) > 0 && segs[len(segs)-1].Tag == seg.Tag {
			// adjacent segments with the same tag merge away
			continue
		}
		segs = append(segs, segment{Tag: seg.Tag, Start: start})
	}
	return &String{
		bytes:    s.bytes + other.bytes,
		graphLen: s.graphLen + other.graphLen,
		segments: segs,
	}
}

// Slice returns the grapheme-indexed half-open range [start, end) with a
// non-zero skip stride, mirroring the AST Slice node's start/end/skip
// triple (§3.3). A skip of 1 is a contiguous slice; other strides select
// every skip-th grapheme.
func (s *String) Slice(start, end, skip int) *String {
	if skip == 0 {
		skip = 1
	}
	if start < 0 {
		start = 0
	}
	if end > s.graphLen {
		end = s.graphLen
	}
	if start >= end {
		return empty
	}

	graphemes := s.splitGraphemes()
	var b strings.Builder
	for i := start; i < end; i += skip {
		b.WriteString(graphemes[i])
	}
	return New(b.String(), s.tagAt(start))
}

// splitGraphemes splits the buffer into its grapheme clusters.
func (s *String) splitGraphemes() []string {
	out := make([]string, 0, s.graphLen)
	g := uniseg.NewGraphemes(s.bytes)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Equal reports whether two strings have identical byte content (tags do
// not affect equality — they only affect how a string is eventually
// rendered to output).
func (s *String) Equal(other *String) bool { return s.bytes == other.bytes }
