package rewrite

import "testing"

func TestNormalizeIndentationSnapsToUnit(t *testing.T) {
	cases := map[string]string{
		"   x = 1":      "    x = 1",
		"     x = 1":    "    x = 1",
		"      x = 1":   "        x = 1",
		"x = 1":         "x = 1",
		"        x = 1": "        x = 1",
	}
	for in, want := range cases {
		if got := NormalizeIndentation(NewBuffer(in)).Line(0); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIndentationExpandsTabs(t *testing.T) {
	got := NormalizeIndentation(NewBuffer("\tx = 1\n\t\ty = 2")).Lines()
	if got[0] != "    x = 1" {
		t.Errorf("line 0 = %q", got[0])
	}
	if got[1] != "        y = 2" {
		t.Errorf("line 1 = %q", got[1])
	}
}

func TestNormalizeIndentationBlanksWhitespaceLines(t *testing.T) {
	got := NormalizeIndentation(NewBuffer("x = 1\n   \t \ny = 2")).Line(1)
	if got != "" {
		t.Errorf("whitespace-only line = %q, want empty", got)
	}
}
