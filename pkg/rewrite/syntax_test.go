package rewrite

import (
	"strings"
	"testing"
)

func TestValidateCleanSource(t *testing.T) {
	src := strings.Join([]string{
		"from manim import *",
		"",
		"class GeneratedScene(Scene):",
		"    def construct(self):",
		"        self.wait(1)",
	}, "\n")
	out, status := Validate(NewBuffer(src))
	if status != StatusValid {
		t.Fatalf("status = %v, want StatusValid", status)
	}
	if out.String() != src {
		t.Errorf("buffer changed on valid input:\n%s", out.String())
	}
}

func TestValidateRepairsDanglingDefinition(t *testing.T) {
	src := strings.Join([]string{
		"class GeneratedScene(Scene):",
		"def construct(self):",
		"    self.wait(1)",
	}, "\n")
	out, status := Validate(NewBuffer(src))
	if status != StatusRepaired {
		t.Fatalf("status = %v, want StatusRepaired:\n%s", status, out.String())
	}
	if got := out.Line(1); got != "    def construct(self):" {
		t.Errorf("definition line = %q, want re-indented under class header", got)
	}
}

func TestValidatePassesThroughUnrepairableSource(t *testing.T) {
	src := "def broken(:\n    x = ("
	out, status := Validate(NewBuffer(src))
	if status != StatusPassedThrough {
		t.Fatalf("status = %v, want StatusPassedThrough", status)
	}
	if out.String() != src {
		t.Errorf("unrepairable source mutated:\n%s", out.String())
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusValid:         "valid",
		StatusRepaired:      "repaired",
		StatusPassedThrough: "passed-through",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
