/*
Package style defines the closed set of tile styles understood by the
renderer's autotiler.

Each style is a variant of a tile for one edge or corner configuration and is
identified by a short code. The codes are built from the side letters t, l, b,
r and m (middle), read as "from side to side", with an optional o (outer)
prefix and an s (start), e (end) or i (inner) suffix. The Go names spell the
same letters out.
*/
package style

import "errors"

// Style is one entry of the tile style taxonomy.
type Style int

// The declaration order below is the registry order; manifests are emitted in
// this order.
const (
	Top Style = iota + 1
	OuterTop
	Middle
	TopToLeftStart
	TopToLeft
	TopToLeftEnd
	OuterTopToLeftStart
	OuterTopToLeft
	Left
	LeftToTopStart
	LeftToTop
	LeftToTopEnd
	OuterLeftToTop
	OuterLeftToTopEnd
	LeftToBottomStart
	LeftToBottom
	LeftToBottomEnd
	LeftToBottomInner
	Bottom
	BottomInner
	BottomToLeftStart
	BottomToLeft
	BottomToLeftEnd
	BottomToLeftInner
	OuterBottomToLeft
	BottomToRightStart
	BottomToRight
	BottomToRightEnd
	BottomToRightInner
	Right
	RightToBottomStart
	RightToBottom
	RightToBottomEnd
	RightToBottomInner
	OuterRightToBottom
	RightToTopStart
	RightToTop
	RightToTopEnd
	OuterRightToTop
	OuterRightToTopEnd
	TopToRightStart
	TopToRight
	TopToRightEnd
	OuterTopToRight
	OuterTopToRightStart

	maxStyle
)

// ErrUnknown is returned by Parse for a code outside the taxonomy.
var ErrUnknown = errors.New("style: unknown style code")

var codes = [...]string{
	Top:                  "t",
	OuterTop:             "ot",
	Middle:               "m",
	TopToLeftStart:       "ttls",
	TopToLeft:            "ttl",
	TopToLeftEnd:         "ttle",
	OuterTopToLeftStart:  "ottls",
	OuterTopToLeft:       "ottl",
	Left:                 "l",
	LeftToTopStart:       "ltts",
	LeftToTop:            "ltt",
	LeftToTopEnd:         "ltte",
	OuterLeftToTop:       "oltt",
	OuterLeftToTopEnd:    "oltte",
	LeftToBottomStart:    "ltbs",
	LeftToBottom:         "ltb",
	LeftToBottomEnd:      "ltbe",
	LeftToBottomInner:    "ltbi",
	Bottom:               "b",
	BottomInner:          "bi",
	BottomToLeftStart:    "btls",
	BottomToLeft:         "btl",
	BottomToLeftEnd:      "btle",
	BottomToLeftInner:    "btli",
	OuterBottomToLeft:    "obtl",
	BottomToRightStart:   "btrs",
	BottomToRight:        "btr",
	BottomToRightEnd:     "btre",
	BottomToRightInner:   "btri",
	Right:                "r",
	RightToBottomStart:   "rtbs",
	RightToBottom:        "rtb",
	RightToBottomEnd:     "rtbe",
	RightToBottomInner:   "rtbi",
	OuterRightToBottom:   "ortb",
	RightToTopStart:      "rtts",
	RightToTop:           "rtt",
	RightToTopEnd:        "rtte",
	OuterRightToTop:      "ortt",
	OuterRightToTopEnd:   "ortte",
	TopToRightStart:      "ttrs",
	TopToRight:           "ttr",
	TopToRightEnd:        "ttre",
	OuterTopToRight:      "ottr",
	OuterTopToRightStart: "ottrs",
}

// Count is the number of styles in the taxonomy.
const Count = int(maxStyle - Top)

// Valid reports whether s is a member of the taxonomy.
func (s Style) Valid() bool {
	return s >= Top && s < maxStyle
}

// String returns the short code of s, which is also the suffix of its source
// image filename and its key in a manifest.
func (s Style) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return codes[s]
}

// All returns every style in registry order. The slice is a copy and may be
// modified by the caller.
func All() []Style {
	all := make([]Style, 0, Count)
	for s := Top; s < maxStyle; s++ {
		all = append(all, s)
	}
	return all
}

// Parse returns the style with the given code.
func Parse(code string) (Style, error) {
	for s := Top; s < maxStyle; s++ {
		if codes[s] == code {
			return s, nil
		}
	}
	return 0, ErrUnknown
}
