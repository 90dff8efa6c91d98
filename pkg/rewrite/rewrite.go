// Package rewrite implements the generated-code repair pipeline for Scenemend.
//
// Large-language-model output is adversarially unreliable: deprecated API
// usage, overflowing text, overlapping layout, negative wait durations,
// duplicated conditionals, and broken indentation all show up routinely in
// generated animation scripts. This package takes that raw source text and
// rewrites it into text that satisfies a fixed set of structural, numeric,
// and layout invariants before it is handed to the renderer.
//
// # Architecture
//
// The pipeline is a fixed sequence of deterministic stages, each consuming
// and producing a full [Buffer]:
//
//  1. imports: split concatenated import statements, ensure the base import
//  2. api:     rewrite deprecated constants, calls, and comparisons
//  3. timing:  guard wait expressions that could run with non-positive durations
//  4. dedup:   collapse duplicated identical conditional guards
//  5. layout:  inject width constraints, clamp fonts and coordinates, de-overlap
//  6. api:     re-applied, since layout injection can reintroduce old patterns
//  7. indent:  expand tabs and snap indentation to the four-space unit
//  8. syntax:  parse; apply a narrow indent heuristic on failure (see Validate)
//
// Every stage is a pure function from buffer to buffer. A stage that cannot
// classify a line leaves it untouched; no stage ever fails, so the pipeline
// always terminates and always returns text. Running the pipeline twice
// yields the same output as running it once.
//
// # Concurrency
//
// Stages share no mutable state. All scratch registries (the object table and
// position ledger inside the layout stage) are local to a single pass, so any
// number of repairs may run concurrently as long as each gets its own buffer.
package rewrite

import "strings"

// Version identifies the rule set. It participates in cache keys so that a
// rule change invalidates previously cached repairs.
const Version = "v1"

// Status reports what the terminal syntax stage concluded about the output.
type Status int

const (
	// StatusValid means the buffer parsed cleanly.
	StatusValid Status = iota

	// StatusRepaired means parsing failed and the indent heuristic changed
	// the buffer. The result is not re-validated; it is best effort.
	StatusRepaired

	// StatusPassedThrough means parsing failed and the heuristic did not
	// apply; the buffer is returned exactly as the syntax stage received it.
	StatusPassedThrough
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusRepaired:
		return "repaired"
	default:
		return "passed-through"
	}
}

// Stage is one rewriting pass with a single responsibility.
type Stage struct {
	Name    string
	Rewrite func(*Buffer) *Buffer
}

// Stages returns the ordered rewrite passes, excluding the terminal syntax
// validation (which has a distinct signature; see [Validate]). Callers that
// just want repaired text should use [Repair]; callers that need per-stage
// instrumentation iterate this slice themselves.
func Stages() []Stage {
	return []Stage{
		{Name: "imports", Rewrite: NormalizeImports},
		{Name: "api", Rewrite: MigrateAPI},
		{Name: "timing", Rewrite: RepairTiming},
		{Name: "dedup", Rewrite: DeduplicateConditionals},
		{Name: "layout", Rewrite: EnforceLayout},
		{Name: "api", Rewrite: MigrateAPI},
		{Name: "indent", Rewrite: NormalizeIndentation},
	}
}

// Outcome is the result of a full repair run.
type Outcome struct {
	Text   string
	Status Status
}

// Repair runs the complete pipeline over source and returns the rewritten
// text together with the syntax verdict. It never fails: on irreparable
// input the text is returned as the last stage received it.
func Repair(source string) Outcome {
	buf := NewBuffer(source)
	for _, s := range Stages() {
		buf = s.Rewrite(buf)
	}
	buf, status := Validate(buf)
	return Outcome{Text: buf.String(), Status: status}
}

// indentOf returns the leading-whitespace prefix of line.
func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
