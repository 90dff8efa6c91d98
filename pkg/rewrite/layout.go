package rewrite

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DeclaredObject is the registry record for one text-bearing visual element
// found during the discovery scan. Identity is the source-level variable
// name; when the generator emits two declarations under the same name, the
// later one silently overwrites the earlier record, so spacing and width
// decisions for the earlier object run on stale data. Accepted limitation:
// rejecting duplicates would change observable output versus the generator's
// own convention.
type DeclaredObject struct {
	Name               string
	TextLength         int
	FontSize           int
	HasWidthConstraint bool
}

// positionLedger accumulates the y-coordinates already assigned to text
// objects, in declaration order. Append-only within one pass; each repair
// run owns its own ledger, so runs are independently reentrant.
type positionLedger []float64

// conflict returns the first already-placed y within the minimum-spacing
// distance of candidate, scanning in declaration order. Only the first
// conflicting neighbor is reported: the de-overlap step is a single-pass
// heuristic, not a constraint solver, and displacing past one neighbor does
// not re-check earlier placements. Matches the generator's behavior.
func (l positionLedger) conflict(candidate float64) (float64, bool) {
	for _, placed := range l {
		if math.Abs(candidate-placed) < MinVerticalSpacing {
			return placed, true
		}
	}
	return 0, false
}

// EnforceLayout upholds the text-layout invariants over the whole buffer in
// two sequential scans.
//
// # Scan 1 — object discovery and sizing
//
// Finds assignments of a text-bearing constructor to a name, recording the
// literal content length and the font size (baseline if absent). Font sizes
// above the ceiling are clamped on both the constructor-argument and the
// attribute-assignment form. Each discovered object is checked for a
// width-constraint call within a bounded lookahead window; when none exists
// one is synthesized immediately after the declaration, with the width
// picked from the tier table below.
//
// # Scan 2 — position clamping and de-overlap
//
// Finds positioning calls with explicit x/y coordinates and clamps both into
// the safe viewport. For objects registered in scan 1 the candidate y is
// additionally checked against the position ledger: a candidate within the
// minimum spacing of an already-placed y is displaced by exactly one spacing
// unit away from that neighbor, then re-clamped. The ledger records the
// final y before the next object is considered, so displacement decisions
// compound in declaration order.
func EnforceLayout(b *Buffer) *Buffer {
	sized, objects := discoverAndSize(b.Lines())
	placed := clampAndSpace(sized, objects)
	return fromLines(placed)
}

// =============================================================================
// Scan 1 — discovery, font clamping, width injection
// =============================================================================

// declMatch captures one text-object declaration.
type declMatch struct {
	indent      string
	name        string
	constructor string
	content     string
	fontSize    int
}

var (
	declPattern        = regexp.MustCompile(`^(\s*)(\w+)\s*=\s*(Text|MathTex)\(`)
	declContentPattern = regexp.MustCompile(`(?:Text|MathTex)\(\s*r?["']([^"']*)["']`)
	fontSizePattern    = regexp.MustCompile(`(font_size\s*=\s*)(\d+)`)
)

func matchDecl(line string) (declMatch, bool) {
	m := declPattern.FindStringSubmatch(line)
	if m == nil {
		return declMatch{}, false
	}
	d := declMatch{indent: m[1], name: m[2], constructor: m[3], fontSize: BaselineFontSize}
	if c := declContentPattern.FindStringSubmatch(line); c != nil {
		d.content = c[1]
	}
	if f := fontSizePattern.FindStringSubmatch(line); f != nil {
		if size, err := strconv.Atoi(f[2]); err == nil {
			d.fontSize = size
		}
	}
	return d, true
}

// clampFontSize caps any font-size literal on the line at the ceiling,
// preserving the original spelling around the number.
func clampFontSize(line string) string {
	return fontSizePattern.ReplaceAllStringFunc(line, func(s string) string {
		m := fontSizePattern.FindStringSubmatch(s)
		size, err := strconv.Atoi(m[2])
		if err != nil || size <= MaxFontSize {
			return s
		}
		return m[1] + strconv.Itoa(MaxFontSize)
	})
}

// widthForTier picks the width constraint from the length/size tier table.
// Overflow risk scales with glyph count times font size, not either alone,
// so when the two thresholds disagree the narrower tier wins. The narrowest
// tier corresponds to content that also wants a smaller font; the width
// alone is injected here since font choice belongs to the generator.
func widthForTier(textLength, fontSize int) int {
	switch {
	case textLength > 60 || fontSize > 32:
		return 9
	case textLength > 40 || fontSize > 28:
		return 10
	case textLength > 20:
		return 11
	default:
		return 12
	}
}

func discoverAndSize(lines []string) ([]string, map[string]*DeclaredObject) {
	objects := make(map[string]*DeclaredObject)
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := clampFontSize(lines[i])

		d, ok := matchDecl(line)
		if !ok {
			out = append(out, line)
			continue
		}

		obj := &DeclaredObject{Name: d.name, TextLength: len(d.content), FontSize: d.fontSize}
		objects[d.name] = obj
		out = append(out, line)

		constraint := d.name + ".set_max_width"
		for j := i + 1; j < len(lines) && j <= i+widthLookahead; j++ {
			if strings.Contains(lines[j], constraint) {
				obj.HasWidthConstraint = true
				break
			}
		}
		if !obj.HasWidthConstraint && obj.TextLength > 0 {
			width := widthForTier(obj.TextLength, obj.FontSize)
			out = append(out, fmt.Sprintf("%s%s.set_max_width(%d)", d.indent, d.name, width))
			obj.HasWidthConstraint = true
		}
	}
	return out, objects
}

// =============================================================================
// Scan 2 — viewport clamping and vertical de-overlap
// =============================================================================

// moveToMatch captures a positioning call with explicit coordinates.
type moveToMatch struct {
	name string
	x, y float64
	// start/end delimit the "[x, y" coordinate text inside the line.
	start, end int
}

var moveToPattern = regexp.MustCompile(`(\w+)\.move_to\(\[\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)`)

func matchMoveTo(line string) (moveToMatch, bool) {
	loc := moveToPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return moveToMatch{}, false
	}
	name := line[loc[2]:loc[3]]
	x, errX := strconv.ParseFloat(line[loc[4]:loc[5]], 64)
	y, errY := strconv.ParseFloat(line[loc[6]:loc[7]], 64)
	if errX != nil || errY != nil {
		return moveToMatch{}, false
	}
	// The coordinate text starts at the '[' and ends after the y literal.
	bracket := strings.Index(line[loc[2]:loc[1]], "[")
	return moveToMatch{name: name, x: x, y: y, start: loc[2] + bracket, end: loc[7]}, true
}

// rewriteCoords splices the final coordinates back into the line.
func (m moveToMatch) rewriteCoords(line string, x, y float64) string {
	return line[:m.start] + fmt.Sprintf("[%.2f, %.2f", x, y) + line[m.end:]
}

func clampAndSpace(lines []string, objects map[string]*DeclaredObject) []string {
	var ledger positionLedger
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		m, ok := matchMoveTo(line)
		if !ok {
			out = append(out, line)
			continue
		}

		x := clamp(m.x, MinX, MaxX)
		y := clamp(m.y, MinY, MaxY)

		if _, isText := objects[m.name]; isText {
			if neighbor, hit := ledger.conflict(y); hit {
				if y > neighbor {
					y = neighbor + MinVerticalSpacing
				} else {
					y = neighbor - MinVerticalSpacing
				}
				y = clamp(y, MinY, MaxY)
			}
			ledger = append(ledger, y)
			out = append(out, m.rewriteCoords(line, x, y))
			continue
		}

		// Non-text positioning calls are clamped in place but take no part
		// in the spacing ledger.
		if x != m.x || y != m.y {
			out = append(out, m.rewriteCoords(line, x, y))
		} else {
			out = append(out, line)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
