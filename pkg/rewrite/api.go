package rewrite

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MigrateAPI rewrites deprecated library usages to their modern equivalents.
// Each rule is a pure line-level transform; rules run in table order and a
// rewritten line never re-matches its own deprecated pattern, which is what
// makes the stage idempotent. The stage runs twice in the pipeline because
// the layout stage can inject text that needs the same fixups.
func MigrateAPI(b *Buffer) *Buffer {
	out := make([]string, 0, b.Len())
	for _, line := range b.Lines() {
		for _, rule := range apiRules {
			line = rule.rewrite(line)
		}
		out = append(out, line)
	}
	return fromLines(out)
}

// apiRule pairs a deprecated pattern with its rewriter. Rewriters receive
// the whole line and operate on typed captures extracted by their matcher.
type apiRule struct {
	name    string
	rewrite func(line string) string
}

var apiRules = []apiRule{
	{name: "set-font-size-call", rewrite: rewriteSetFontSize},
	{name: "scaled-default-font", rewrite: rewriteScaledDefaultFont},
	{name: "bare-default-font", rewrite: rewriteBareDefaultFont},
	{name: "frame-width", rewrite: rewriteFrameWidth},
	{name: "frame-height", rewrite: rewriteFrameHeight},
	{name: "float-identity-compare", rewrite: rewriteFloatIdentity},
	{name: "legacy-creation-alias", rewrite: rewriteLegacyCreation},
}

// setFontSizeMatch captures a deprecated per-object sizing call.
type setFontSizeMatch struct {
	object string
	expr   string
}

var setFontSizePattern = regexp.MustCompile(`(\w+)\.set_font_size\(([^)]+)\)`)

// rewriteSetFontSize converts obj.set_font_size(expr) into the attribute
// assignment form, replacing the whole statement line.
func rewriteSetFontSize(line string) string {
	m := setFontSizePattern.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	match := setFontSizeMatch{object: m[1], expr: m[2]}
	return fmt.Sprintf("%s%s.font_size = %s", indentOf(line), match.object, match.expr)
}

var scaledDefaultFontPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\*\s*DEFAULT_FONT_SIZE`)

// rewriteScaledDefaultFont resolves "N * DEFAULT_FONT_SIZE" arithmetically to
// the literal product, so no reference to the deprecated name survives.
func rewriteScaledDefaultFont(line string) string {
	return scaledDefaultFontPattern.ReplaceAllStringFunc(line, func(s string) string {
		m := scaledDefaultFontPattern.FindStringSubmatch(s)
		factor, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return s
		}
		return formatNumber(factor * BaselineFontSize)
	})
}

func rewriteBareDefaultFont(line string) string {
	return strings.ReplaceAll(line, "DEFAULT_FONT_SIZE", strconv.Itoa(BaselineFontSize))
}

var (
	frameWidthMinusPattern  = regexp.MustCompile(`FRAME_WIDTH\s*-\s*(\d+)`)
	frameHeightMinusPattern = regexp.MustCompile(`FRAME_HEIGHT\s*-\s*(\d+)`)
)

// rewriteFrameWidth replaces the deprecated frame-width constant, resolving
// compound "FRAME_WIDTH - N" forms arithmetically at rewrite time.
func rewriteFrameWidth(line string) string {
	line = frameWidthMinusPattern.ReplaceAllStringFunc(line, func(s string) string {
		m := frameWidthMinusPattern.FindStringSubmatch(s)
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return s
		}
		return strconv.Itoa(FrameWidth - n)
	})
	return strings.ReplaceAll(line, "FRAME_WIDTH", strconv.Itoa(FrameWidth))
}

func rewriteFrameHeight(line string) string {
	line = frameHeightMinusPattern.ReplaceAllStringFunc(line, func(s string) string {
		m := frameHeightMinusPattern.FindStringSubmatch(s)
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return s
		}
		return strconv.Itoa(FrameHeight - n)
	})
	return strings.ReplaceAll(line, "FRAME_HEIGHT", strconv.Itoa(FrameHeight))
}

var floatIdentityPattern = regexp.MustCompile(`(\d+\.\d*)\s+is\s+not\s+None`)

// rewriteFloatIdentity turns "1.2 is not None" into "1.2 != None". Identity
// comparison against a float literal is deprecated syntax and always true,
// so the generator's intent must have been value comparison.
func rewriteFloatIdentity(line string) string {
	return floatIdentityPattern.ReplaceAllString(line, "$1 != None")
}

func rewriteLegacyCreation(line string) string {
	return strings.ReplaceAll(line, "ShowCreation(", "Create(")
}

// formatNumber renders a computed size with the shortest decimal
// representation. Products of decimal literals pick up binary float noise
// (1.2 * 24 is 28.799999999999997 in float64), so the value is rounded to
// six decimal places before formatting; emitted sizes are exact to far
// fewer digits than that.
func formatNumber(v float64) string {
	v = math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(v, 'f', -1, 64)
}
