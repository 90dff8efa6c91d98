package rewrite

// Fixed invariant constants for the target animation library. These are baked
// into the pipeline deliberately: the renderer's frame geometry and the safe
// text area do not vary per run, and keeping them out of configuration is
// what makes repairs cacheable by input hash alone.
const (
	// FrameWidth and FrameHeight are the literal frame dimensions that
	// replace the deprecated frame constants.
	FrameWidth  = 14
	FrameHeight = 8

	// MaxFontSize is the ceiling applied to every font-size literal.
	MaxFontSize = 40

	// BaselineFontSize is assumed for text declared without an explicit
	// size, and replaces the deprecated default-size constant.
	BaselineFontSize = 24
)

// Safe viewport bounds. Objects positioned outside this range are clamped
// onto its edge; the mechanism handles asymmetric ranges even though the
// configured bounds happen to be symmetric.
const (
	MinX = -6.0
	MaxX = 6.0
	MinY = -3.5
	MaxY = 3.5
)

// MinVerticalSpacing is the minimum distance between the y-coordinates of
// two text objects before the later-declared one is displaced.
const MinVerticalSpacing = 0.8

// widthLookahead bounds the scan for an existing width-constraint call after
// a text declaration. Matches the generator's own placement convention.
const widthLookahead = 10

// IndentUnit is the number of spaces per indentation level, also used as the
// tab expansion width.
const IndentUnit = 4
