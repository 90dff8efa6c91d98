package rewrite

import (
	"strings"
	"testing"
)

func TestEnforceLayoutInjectsWidthConstraint(t *testing.T) {
	content := strings.Repeat("x", 75)
	in := NewBuffer("        label = Text(\"" + content + "\", font_size=36)")
	out := EnforceLayout(in)

	if out.Len() != 2 {
		t.Fatalf("got %d lines, want declaration plus constraint:\n%s", out.Len(), out.String())
	}
	if got := out.Line(1); got != "        label.set_max_width(9)" {
		t.Errorf("constraint line = %q", got)
	}
}

func TestEnforceLayoutWidthTiers(t *testing.T) {
	cases := []struct {
		length, fontSize, want int
	}{
		{75, 24, 9},
		{10, 36, 9},
		{45, 24, 10},
		{10, 30, 10},
		{25, 24, 11},
		{10, 24, 12},
	}
	for _, tc := range cases {
		if got := widthForTier(tc.length, tc.fontSize); got != tc.want {
			t.Errorf("widthForTier(%d, %d) = %d, want %d", tc.length, tc.fontSize, got, tc.want)
		}
	}
}

func TestEnforceLayoutRespectsExistingConstraint(t *testing.T) {
	src := "t = Text(\"some moderately long content here\")\nt.set_max_width(8)"
	out := EnforceLayout(NewBuffer(src))
	if out.String() != src {
		t.Errorf("constraint injected despite existing one:\n%s", out.String())
	}
}

func TestEnforceLayoutConstraintLookaheadIsBounded(t *testing.T) {
	lines := []string{"t = Text(\"some moderately long content here\")"}
	for i := 0; i < widthLookahead; i++ {
		lines = append(lines, "self.wait(1)")
	}
	// Beyond the lookahead window, so it must not count.
	lines = append(lines, "t.set_max_width(8)")

	out := EnforceLayout(NewBuffer(strings.Join(lines, "\n")))
	if !strings.Contains(out.Line(1), "t.set_max_width(") {
		t.Errorf("expected injected constraint right after declaration:\n%s", out.String())
	}
}

func TestEnforceLayoutClampsFontSize(t *testing.T) {
	out := EnforceLayout(NewBuffer("t = Text(\"hi\", font_size=64)"))
	if !strings.Contains(out.Line(0), "font_size=40") {
		t.Errorf("font size not clamped: %q", out.Line(0))
	}
}

func TestEnforceLayoutClampsFontSizeAssignment(t *testing.T) {
	out := EnforceLayout(NewBuffer("        title.font_size = 64"))
	if got := out.Line(0); got != "        title.font_size = 40" {
		t.Errorf("attribute assignment not clamped: %q", got)
	}

	// At or under the ceiling, the line is untouched.
	same := "title.font_size = 40"
	if got := EnforceLayout(NewBuffer(same)).Line(0); got != same {
		t.Errorf("in-range assignment rewritten: %q", got)
	}
}

func TestEnforceLayoutClampsViewport(t *testing.T) {
	out := EnforceLayout(NewBuffer("box.move_to([10, -5])"))
	if got := out.Line(0); got != "box.move_to([6.00, -3.50])" {
		t.Errorf("got %q", got)
	}
}

func TestEnforceLayoutDisplacesOverlappingText(t *testing.T) {
	src := strings.Join([]string{
		"a = Text(\"hi\")",
		"a.move_to([0, 1])",
		"b = Text(\"yo\")",
		"b.move_to([0, 1.2])",
	}, "\n")
	out := EnforceLayout(NewBuffer(src))

	var aLine, bLine string
	for _, line := range out.Lines() {
		if strings.HasPrefix(line, "a.move_to") {
			aLine = line
		}
		if strings.HasPrefix(line, "b.move_to") {
			bLine = line
		}
	}
	if !strings.Contains(aLine, "[0.00, 1.00") {
		t.Errorf("first placement = %q", aLine)
	}
	if !strings.Contains(bLine, "[0.00, 1.80") {
		t.Errorf("overlapping placement = %q, want displacement by one spacing unit", bLine)
	}
}

func TestEnforceLayoutIdempotent(t *testing.T) {
	src := strings.Join([]string{
		"a = Text(\"a moderately long piece of content\", font_size=48)",
		"a.move_to([0, 1])",
		"b = Text(\"more content that needs placing\")",
		"b.move_to([0, 1.2])",
		"box.move_to([10, -5])",
	}, "\n")
	once := EnforceLayout(NewBuffer(src))
	twice := EnforceLayout(once)
	if once.String() != twice.String() {
		t.Errorf("not idempotent:\nonce:\n%s\ntwice:\n%s", once.String(), twice.String())
	}
}
