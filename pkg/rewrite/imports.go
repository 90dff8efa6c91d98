package rewrite

import (
	"regexp"
	"strings"
)

// baseImport is the wildcard import every generated script needs. The
// renderer's symbols (Scene, Text, colors, …) all come from it.
const baseImport = "from manim import *"

// concatImportPattern matches the known generator failure mode where a
// wildcard import and the next import statement land on one physical line:
//
//	from manim import *import numpy as np
type concatImportMatch struct {
	wildcard string // the wildcard import, up to and including '*'
	trailing string // the follow-on import statement
}

var concatImportPattern = regexp.MustCompile(`^(\s*from\s+\S+\s+import\s+\*)\s*(import\s+.+)$`)

func matchConcatImport(line string) (concatImportMatch, bool) {
	m := concatImportPattern.FindStringSubmatch(line)
	if m == nil {
		return concatImportMatch{}, false
	}
	return concatImportMatch{wildcard: m[1], trailing: m[2]}, true
}

// NormalizeImports makes each import statement occupy its own line and
// guarantees the base import exists somewhere in the buffer. It also strips
// the markdown code fences chat models like to wrap their output in, since
// everything downstream assumes bare source text. Lines it cannot classify
// pass through unchanged; on a buffer with no recognizable import at all the
// base import is prepended.
func NormalizeImports(b *Buffer) *Buffer {
	lines := stripFences(b.Lines())

	out := make([]string, 0, len(lines))
	hasBase := false
	for _, line := range lines {
		if m, ok := matchConcatImport(line); ok {
			out = append(out, m.wildcard, m.trailing)
		} else {
			out = append(out, line)
		}
		if strings.Contains(line, "from manim import") || strings.Contains(line, "import manim") {
			hasBase = true
		}
	}

	if !hasBase {
		out = append([]string{baseImport, ""}, out...)
	}
	return fromLines(out)
}

// stripFences removes a leading ``` or ```python fence line and a trailing
// ``` fence line, together with any blank lines outside them.
func stripFences(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start < end && strings.HasPrefix(strings.TrimSpace(lines[start]), "```") {
		start++
	}
	if start < end && strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
