package rewrite

import (
	"regexp"
	"strings"
)

var inlineDoubleGuardPattern = regexp.MustCompile(`if\s+(.+?):\s*if\s+(.+?):`)

// dualGuardMatch captures the single-line "if C: if C:" mis-generation.
type dualGuardMatch struct {
	first  string
	second string
	span   []int // match indices into the line
}

func matchInlineDoubleGuard(line string) (dualGuardMatch, bool) {
	loc := inlineDoubleGuardPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return dualGuardMatch{}, false
	}
	return dualGuardMatch{
		first:  strings.TrimSpace(line[loc[2]:loc[3]]),
		second: strings.TrimSpace(line[loc[4]:loc[5]]),
		span:   loc,
	}, true
}

// DeduplicateConditionals collapses duplicate conditional guards that the
// generator (or an earlier pass) introduced.
//
// Two forms are recognized: a line and its immediate successor being the
// same if-guard, and the compound single-line "if C: if C:" form. In both
// cases the first occurrence wins, keeping its original indentation. Only
// exact condition equality triggers a collapse; textually similar but
// differing conditions are never merged, because semantic equivalence under
// reordering or whitespace changes cannot be inferred from text alone.
func DeduplicateConditionals(b *Buffer) *Buffer {
	lines := b.Lines()
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := collapseInlineGuards(lines[i])
		if isGuard(line) {
			// Drop every immediately following identical guard, not just
			// one: a run of three duplicates must collapse in a single
			// pass for the pipeline to be idempotent.
			for i+1 < len(lines) {
				next := collapseInlineGuards(lines[i+1])
				if strings.TrimSpace(line) != strings.TrimSpace(next) {
					break
				}
				i++
			}
		}
		out = append(out, line)
	}
	return fromLines(out)
}

func isGuard(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "if ") && strings.HasSuffix(t, ":")
}

// collapseInlineGuards removes the redundant inner guard from "if C: if C:"
// constructs, repeating until no duplicate pair remains.
func collapseInlineGuards(line string) string {
	for {
		m, ok := matchInlineDoubleGuard(line)
		if !ok || m.first != m.second {
			return line
		}
		// Keep everything up to the end of the first guard, skip the second.
		line = line[:m.span[3]+1] + line[m.span[1]:]
	}
}
