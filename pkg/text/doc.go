// Package text implements the text layout used to fit square text into card
// cells: parsing of **bold** emphasis markers and greedy word wrapping
// against measured pixel widths.
//
// # Emphasis
//
// [ParseSegments] splits a string into runs of normal and emphasized text.
// Markers come in pairs; an opening marker without a closing one is kept as
// literal text.
//
//	ParseSegments("Say **synergy** twice")
//	// [{"Say ", false} {"synergy", true} {" twice", false}]
//
// # Wrapping
//
// [Wrap] tokenizes the segments on whitespace and greedily fills lines up to
// a maximum width. Widths come from a [Measurer], normally a font face from
// package fonts, so the result is a pure function of the text and the font
// metrics. Long slash compounds get extra break points, and tokens too wide
// for any line are force-broken at hyphens or into fixed-size chunks.
package text
