package text

import (
	"strings"
	"unicode/utf8"
)

const (
	// slashSplitMinLen is the length above which slash compounds such as
	// "Input/Output" are split into separately wrappable tokens.
	slashSplitMinLen = 6

	// forceBreakMinLen is the length above which a token too wide for an
	// empty line is broken apart.
	forceBreakMinLen = 12

	// chunkLen is the chunk size used when a token has no hyphens to break at.
	chunkLen = 8
)

// Measurer reports the rendered width of a string in pixels.
type Measurer interface {
	Measure(s string) float64
}

// Token is a whitespace-delimited word with its emphasis.
type Token struct {
	Text       string
	Emphasized bool
}

// Line is one wrapped line of tokens, drawn with single spaces between them.
type Line []Token

// String joins the tokens of l with single spaces.
func (l Line) String() string {
	words := make([]string, len(l))
	for i, t := range l {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}

// Metrics pairs the normal and emphasized measurers used for one wrap.
type Metrics struct {
	Normal Measurer
	Bold   Measurer
}

// Width returns the width of t in its own weight.
func (m Metrics) Width(t Token) float64 {
	if t.Emphasized && m.Bold != nil {
		return m.Bold.Measure(t.Text)
	}
	return m.Normal.Measure(t.Text)
}

// Space returns the width of the inter-token gap.
func (m Metrics) Space() float64 {
	return m.Normal.Measure(" ")
}

// LineWidth returns the drawn width of l: every token in its own weight
// plus one normal-weight space between neighbours.
func (m Metrics) LineWidth(l Line) float64 {
	var total float64
	for i, t := range l {
		if i > 0 {
			total += m.Space()
		}
		total += m.Width(t)
	}
	return total
}

// Wrap parses emphasis markers in s and wraps the result to maxWidth.
func Wrap(s string, normal, bold Measurer, maxWidth float64) []Line {
	return Metrics{Normal: normal, Bold: bold}.Wrap(ParseSegments(s), maxWidth)
}

// LineWidth is shorthand for Metrics{normal, bold}.LineWidth(l).
func LineWidth(l Line, normal, bold Measurer) float64 {
	return Metrics{Normal: normal, Bold: bold}.LineWidth(l)
}

// Wrap greedily fills lines with the tokens of segs. A token that overflows
// a non-empty line starts the next one. A token that does not fit even an
// empty line and is longer than 12 characters is force-broken.
func (m Metrics) Wrap(segs []Segment, maxWidth float64) []Line {
	w := wrapper{m: m, max: maxWidth}
	for _, tok := range Tokenize(segs) {
		w.add(tok)
	}
	return w.finish()
}

// Tokenize splits segments into whitespace-delimited tokens, giving long
// slash compounds a break opportunity after each slash.
func Tokenize(segs []Segment) []Token {
	var out []Token
	for _, seg := range segs {
		for _, word := range strings.Fields(seg.Text) {
			if strings.Contains(word, "/") && utf8.RuneCountInString(word) > slashSplitMinLen {
				for _, part := range splitAfter(word, "/") {
					out = append(out, Token{Text: part, Emphasized: seg.Emphasized})
				}
				continue
			}
			out = append(out, Token{Text: word, Emphasized: seg.Emphasized})
		}
	}
	return out
}

type wrapper struct {
	m     Metrics
	max   float64
	lines []Line
	cur   Line
	width float64
}

func (w *wrapper) add(tok Token) {
	if len(w.cur) > 0 {
		projected := w.width + w.m.Space() + w.m.Width(tok)
		if projected <= w.max {
			w.cur = append(w.cur, tok)
			w.width = projected
			return
		}
		w.lines = append(w.lines, w.cur)
		w.cur = nil
	}
	w.start(tok)
}

// start places tok on an empty line, force-breaking it if needed. All pieces
// but the last become lines of their own; the last opens the current line.
func (w *wrapper) start(tok Token) {
	pieces := w.breakToken(tok)
	for _, p := range pieces[:len(pieces)-1] {
		w.lines = append(w.lines, Line{p})
	}
	last := pieces[len(pieces)-1]
	w.cur = Line{last}
	w.width = w.m.Width(last)
}

func (w *wrapper) finish() []Line {
	if len(w.cur) > 0 {
		w.lines = append(w.lines, w.cur)
		w.cur = nil
	}
	return w.lines
}

// breakToken returns tok unchanged when it fits or is short, otherwise
// pieces split at hyphens, falling back to fixed-size chunks.
func (w *wrapper) breakToken(tok Token) []Token {
	if w.m.Width(tok) <= w.max || utf8.RuneCountInString(tok.Text) <= forceBreakMinLen {
		return []Token{tok}
	}

	if parts := splitAfter(tok.Text, "-"); len(parts) > 1 {
		var out []Token
		for _, p := range parts {
			out = append(out, w.breakToken(Token{Text: p, Emphasized: tok.Emphasized})...)
		}
		return out
	}

	chunks := chunk(tok.Text)
	out := make([]Token, len(chunks))
	for i, c := range chunks {
		out[i] = Token{Text: c, Emphasized: tok.Emphasized}
	}
	return out
}

// splitAfter splits s after each sep, dropping empty parts.
func splitAfter(s, sep string) []string {
	var out []string
	for _, p := range strings.SplitAfter(s, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// chunk cuts s into chunkLen-rune pieces joined by trailing hyphens. A
// trailing hyphen already on s stays on the final piece.
func chunk(s string) []string {
	body, suffix := s, ""
	if trimmed, ok := strings.CutSuffix(s, "-"); ok {
		body, suffix = trimmed, "-"
	}

	runes := []rune(body)
	var out []string
	for i := 0; i < len(runes); i += chunkLen {
		end := min(i+chunkLen, len(runes))
		piece := string(runes[i:end])
		if end < len(runes) {
			piece += "-"
		} else {
			piece += suffix
		}
		out = append(out, piece)
	}
	return out
}
