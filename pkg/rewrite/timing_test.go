package rewrite

import "testing"

func TestRepairTimingWrapsSubtractionWait(t *testing.T) {
	in := NewBuffer("        self.wait(5.0 - current_time)")
	out := RepairTiming(in)

	want := []string{
		"        if 5.0 > current_time:",
		"            self.wait(5.0 - current_time)",
	}
	if out.Len() != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", out.Len(), len(want), out.String())
	}
	for i, w := range want {
		if out.Line(i) != w {
			t.Errorf("line %d = %q, want %q", i, out.Line(i), w)
		}
	}
}

func TestRepairTimingSkipsAlreadyGuardedWait(t *testing.T) {
	src := "    if 3 > elapsed:\n        self.wait(3 - elapsed)"
	out := RepairTiming(NewBuffer(src))
	if out.String() != src {
		t.Errorf("guarded wait rewrapped:\n%s", out.String())
	}
}

func TestRepairTimingLeavesPlainWaitsAlone(t *testing.T) {
	cases := []string{
		"self.wait(2)",
		"self.wait(duration)",
		"self.wait(total - 1)",
		"self.wait(a - b)",
	}
	for _, src := range cases {
		if got := RepairTiming(NewBuffer(src)).String(); got != src {
			t.Errorf("RepairTiming(%q) = %q, want unchanged", src, got)
		}
	}
}

func TestRepairTimingIdempotent(t *testing.T) {
	in := NewBuffer("self.play(Write(t))\nself.wait(10.5 - clock)\nself.wait(2)")
	once := RepairTiming(in)
	twice := RepairTiming(once)
	if once.String() != twice.String() {
		t.Errorf("not idempotent:\n%s\nvs\n%s", once.String(), twice.String())
	}
}
