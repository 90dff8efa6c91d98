package rewrite

import (
	"strings"
	"testing"
)

func migrateLine(t *testing.T, line string) string {
	t.Helper()
	return MigrateAPI(NewBuffer(line)).Line(0)
}

func TestMigrateAPIScaledDefaultFont(t *testing.T) {
	got := migrateLine(t, "title = Text(\"Hi\", font_size=1.2 * DEFAULT_FONT_SIZE)")
	if !strings.Contains(got, "font_size=28.8") {
		t.Errorf("got %q, want literal product 28.8", got)
	}
	if strings.Contains(got, "DEFAULT_FONT_SIZE") {
		t.Errorf("deprecated name survived: %q", got)
	}
}

func TestMigrateAPIBareDefaultFont(t *testing.T) {
	got := migrateLine(t, "size = DEFAULT_FONT_SIZE")
	if got != "size = 24" {
		t.Errorf("got %q", got)
	}
}

func TestMigrateAPIFrameConstants(t *testing.T) {
	cases := map[string]string{
		"w = FRAME_WIDTH":      "w = 14",
		"w = FRAME_WIDTH - 1":  "w = 13",
		"w = FRAME_WIDTH - 2":  "w = 12",
		"w = FRAME_WIDTH - 5":  "w = 9",
		"h = FRAME_HEIGHT":     "h = 8",
		"h = FRAME_HEIGHT - 1": "h = 7",
	}
	for in, want := range cases {
		if got := migrateLine(t, in); got != want {
			t.Errorf("migrate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMigrateAPISetFontSizeCall(t *testing.T) {
	got := migrateLine(t, "    title.set_font_size(1.2 * DEFAULT_FONT_SIZE)")
	if got != "    title.font_size = 28.8" {
		t.Errorf("got %q", got)
	}
}

func TestMigrateAPIFloatIdentityCompare(t *testing.T) {
	got := migrateLine(t, "if 1.2 is not None:")
	if got != "if 1.2 != None:" {
		t.Errorf("got %q", got)
	}
	// Non-literal identity comparisons are someone else's business.
	same := "if font_size is not None:"
	if got := migrateLine(t, same); got != same {
		t.Errorf("variable comparison rewritten: %q", got)
	}
}

func TestMigrateAPILegacyCreationAlias(t *testing.T) {
	got := migrateLine(t, "self.play(ShowCreation(circle))")
	if got != "self.play(Create(circle))" {
		t.Errorf("got %q", got)
	}
}

func TestMigrateAPIIdempotent(t *testing.T) {
	src := strings.Join([]string{
		"title.set_font_size(2 * DEFAULT_FONT_SIZE)",
		"w = FRAME_WIDTH - 1",
		"self.play(ShowCreation(sq))",
		"if 0.5 is not None:",
	}, "\n")
	once := MigrateAPI(NewBuffer(src))
	twice := MigrateAPI(once)
	if once.String() != twice.String() {
		t.Errorf("not idempotent:\n%s\nvs\n%s", once.String(), twice.String())
	}
}
