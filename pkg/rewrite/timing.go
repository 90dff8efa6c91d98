package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// waitMatch captures a raw "wait for (target − running total)" expression.
// The running-total identifier's value is only known at execution time, so
// the repair defers the non-negativity check to a runtime guard instead of
// attempting static evaluation.
type waitMatch struct {
	indent  string
	literal string // the target-time literal, e.g. "5.0"
	counter string // the running-total identifier, e.g. "current_time"
}

var waitPattern = regexp.MustCompile(`^(\s*)self\.wait\(\s*(\d+(?:\.\d+)?)\s*-\s*([A-Za-z_]\w*)\s*\)\s*(?:#.*)?$`)

func matchWait(line string) (waitMatch, bool) {
	m := waitPattern.FindStringSubmatch(line)
	if m == nil {
		return waitMatch{}, false
	}
	return waitMatch{indent: m[1], literal: m[2], counter: m[3]}, true
}

// guard returns the conditional that must precede the wait.
func (m waitMatch) guard() string {
	return fmt.Sprintf("%sif %s > %s:", m.indent, m.literal, m.counter)
}

// call returns the wait statement re-indented one level under its guard.
func (m waitMatch) call() string {
	return fmt.Sprintf("%s%sself.wait(%s - %s)", m.indent, strings.Repeat(" ", IndentUnit), m.literal, m.counter)
}

// RepairTiming rewrites every wait whose duration is "literal − identifier"
// into a guarded conditional wait:
//
//	if 5.0 > current_time:
//	    self.wait(5.0 - current_time)
//
// The generator's timeline bookkeeping drifts, so the subtraction frequently
// comes out zero or negative; an unguarded wait would then fail at render
// time. Both mid-buffer delays and the trailing final-wait form produce the
// same guarded shape. A wait already preceded by its exact guard is left
// alone, which keeps the stage idempotent. Waits that do not match the
// subtraction shape are untouched.
func RepairTiming(b *Buffer) *Buffer {
	lines := b.Lines()
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		m, ok := matchWait(line)
		if !ok {
			out = append(out, line)
			continue
		}
		if i > 0 && isGuardFor(lines[i-1], m) {
			out = append(out, line)
			continue
		}
		out = append(out, m.guard(), m.call())
	}
	return fromLines(out)
}

// isGuardFor reports whether prev is already the conditional protecting m,
// ignoring indentation.
func isGuardFor(prev string, m waitMatch) bool {
	return strings.TrimSpace(prev) == fmt.Sprintf("if %s > %s:", m.literal, m.counter)
}
