package rewrite

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Validate attempts to parse the buffer as Python and reports the verdict.
//
// On a clean parse the buffer is returned unchanged with [StatusValid]. On a
// failure one narrow repair is attempted: definition lines (function or
// class headers) inside the failure region are forced to the indentation
// level implied by the immediately preceding line — one level deeper when
// that line opens a block, top level when it does not. This targets the one
// structural failure mode the splice-heavy earlier stages are known to
// produce. The repaired buffer is returned with [StatusRepaired] and is
// deliberately not re-parsed; this stage is best-effort, not a general
// syntax fixer.
//
// Failures come from two sources: error nodes in the parse tree, and a
// structural pre-scan for definitions that dangle below a block-opening
// header without indenting under it. The grammar tolerates the dangling
// shape as an empty block followed by a fresh definition, so the parse tree
// alone reports it valid even though the interpreter rejects it with an
// IndentationError.
//
// On any other failure the buffer is returned exactly as received with
// [StatusPassedThrough]. Validate never fails and never corrupts the buffer
// further.
func Validate(b *Buffer) (*Buffer, Status) {
	source := []byte(b.String())

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return b, StatusPassedThrough
	}
	defer tree.Close()

	lines := b.Lines()
	rows := danglingDefinitionRows(lines)

	root := tree.RootNode()
	if !root.HasError() && len(rows) == 0 {
		return b, StatusValid
	}
	for r := range errorRows(root) {
		rows[r] = true
	}

	repaired, changed := repairDefinitionIndent(lines, rows)
	if !changed {
		return b, StatusPassedThrough
	}
	return fromLines(repaired), StatusRepaired
}

// danglingDefinitionRows flags definition headers whose nearest preceding
// code line opens a block yet whose own indentation does not go under it.
// The interpreter rejects that shape (the opened block is empty) regardless
// of what the parser makes of it.
func danglingDefinitionRows(lines []string) map[int]bool {
	rows := make(map[int]bool)
	for i, line := range lines {
		if !isDefinition(line) {
			continue
		}
		prev, ok := precedingCode(lines, i)
		if !ok || !strings.HasSuffix(strings.TrimSpace(prev), ":") {
			continue
		}
		if len(indentOf(line)) <= len(indentOf(prev)) {
			rows[i] = true
		}
	}
	return rows
}

// errorRows collects the line ranges covered by error or missing nodes,
// widened by one line in each direction so a definition header adjacent to
// the reported region is still considered.
func errorRows(root *sitter.Node) map[int]bool {
	rows := make(map[int]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if !n.HasError() {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			start := int(n.StartPoint().Row) - 1
			end := int(n.EndPoint().Row) + 1
			for r := start; r <= end; r++ {
				if r >= 0 {
					rows[r] = true
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return rows
}

// repairDefinitionIndent forces def/class headers inside the error region to
// the indentation their context implies.
func repairDefinitionIndent(lines []string, rows map[int]bool) ([]string, bool) {
	out := make([]string, len(lines))
	copy(out, lines)
	changed := false

	for i, line := range out {
		if !rows[i] || !isDefinition(line) {
			continue
		}
		prev, ok := precedingCode(out, i)
		want := 0
		if ok && strings.HasSuffix(strings.TrimSpace(prev), ":") {
			want = len(indentOf(prev)) + IndentUnit
		}
		body := strings.TrimLeft(line, " \t")
		fixed := strings.Repeat(" ", want) + body
		if fixed != line {
			out[i] = fixed
			changed = true
		}
	}
	return out, changed
}

func isDefinition(line string) bool {
	t := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(t, "def ") || strings.HasPrefix(t, "class ")
}

// precedingCode returns the nearest non-blank line above index i.
func precedingCode(lines []string, i int) (string, bool) {
	for j := i - 1; j >= 0; j-- {
		if strings.TrimSpace(lines[j]) != "" {
			return lines[j], true
		}
	}
	return "", false
}
