package text

import "strings"

// Marker delimits emphasized text.
const Marker = "**"

// Segment is a run of text with uniform emphasis.
type Segment struct {
	Text       string
	Emphasized bool
}

// ParseSegments splits s into normal and emphasized runs. Empty emphasized
// spans are dropped and an unmatched opening marker is kept, together with
// everything after it, as normal text.
func ParseSegments(s string) []Segment {
	var out []Segment
	for rest := s; rest != ""; {
		start := strings.Index(rest, Marker)
		if start < 0 {
			out = append(out, Segment{Text: rest})
			break
		}
		if start > 0 {
			out = append(out, Segment{Text: rest[:start]})
		}

		end := strings.Index(rest[start+len(Marker):], Marker)
		if end < 0 {
			out = append(out, Segment{Text: rest[start:]})
			break
		}
		if inner := rest[start+len(Marker) : start+len(Marker)+end]; inner != "" {
			out = append(out, Segment{Text: inner, Emphasized: true})
		}
		rest = rest[start+2*len(Marker)+end:]
	}
	return out
}

// StripMarkers returns s with every matched marker pair removed.
func StripMarkers(s string) string {
	var b strings.Builder
	for _, seg := range ParseSegments(s) {
		b.WriteString(seg.Text)
	}
	return b.String()
}
