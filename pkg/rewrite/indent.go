package rewrite

import "strings"

// NormalizeIndentation re-expands tabs and snaps each line's leading
// whitespace to the nearest multiple of the indentation unit. The repair
// stages splice lines in and out without an indentation-aware printer, so a
// final renormalization keeps minor drift from accumulating into structural
// breakage. Blank and whitespace-only lines come out empty.
func NormalizeIndentation(b *Buffer) *Buffer {
	out := make([]string, 0, b.Len())
	for _, line := range b.Lines() {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		line = expandTabs(line, IndentUnit)
		body := strings.TrimLeft(line, " ")
		width := len(line) - len(body)
		level := (width + IndentUnit/2) / IndentUnit // round to nearest level
		out = append(out, strings.Repeat(" ", level*IndentUnit)+body)
	}
	return fromLines(out)
}

// expandTabs replaces each tab with spaces up to the next tab stop.
func expandTabs(line string, tabWidth int) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var sb strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			pad := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}
