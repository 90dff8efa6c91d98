package rewrite

import (
	"strings"
	"testing"
)

func TestNormalizeImportsSplitsConcatenated(t *testing.T) {
	in := NewBuffer("from manim import *import numpy as np\n\nclass S(Scene):\n    pass")
	out := NormalizeImports(in)

	lines := out.Lines()
	if lines[0] != "from manim import *" {
		t.Errorf("first line = %q, want wildcard import on its own line", lines[0])
	}
	if lines[1] != "import numpy as np" {
		t.Errorf("second line = %q, want trailing import split out", lines[1])
	}
}

func TestNormalizeImportsPrependsBaseImport(t *testing.T) {
	in := NewBuffer("class S(Scene):\n    pass")
	out := NormalizeImports(in)

	if out.Line(0) != "from manim import *" {
		t.Errorf("missing base import, first line = %q", out.Line(0))
	}
}

func TestNormalizeImportsLeavesExistingImportAlone(t *testing.T) {
	src := "import manim\n\nclass S(Scene):\n    pass"
	out := NormalizeImports(NewBuffer(src))
	if out.String() != src {
		t.Errorf("buffer changed:\n%s", out.String())
	}
}

func TestNormalizeImportsStripsMarkdownFences(t *testing.T) {
	in := NewBuffer("```python\nfrom manim import *\n\nclass S(Scene):\n    pass\n```")
	out := NormalizeImports(in)

	if strings.Contains(out.String(), "```") {
		t.Errorf("fences survived:\n%s", out.String())
	}
	if out.Line(0) != "from manim import *" {
		t.Errorf("first line = %q", out.Line(0))
	}
}

func TestNormalizeImportsIdempotent(t *testing.T) {
	in := NewBuffer("```\nfrom manim import *import os\nclass S(Scene):\n    pass\n```")
	once := NormalizeImports(in)
	twice := NormalizeImports(once)
	if once.String() != twice.String() {
		t.Errorf("not idempotent:\nonce:\n%s\ntwice:\n%s", once.String(), twice.String())
	}
}
