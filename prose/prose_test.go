package prose

import (
	"reflect"
	"testing"
)

func TestParagraphsSplitsOnBlankLines(t *testing.T) {
	got := Paragraphs("First paragraph.\n\nSecond paragraph.\n\nThird.")
	want := []string{"First paragraph.", "Second paragraph.", "Third."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paragraphs = %v, want %v", got, want)
	}
}

func TestParagraphsJoinsSoftWrappedLines(t *testing.T) {
	got := Paragraphs("A line\nwrapped softly.\n\nNext.")
	if len(got) != 2 {
		t.Fatalf("Paragraphs = %v, want 2 entries", got)
	}
	if got[0] != "A line wrapped softly." {
		t.Errorf("soft wrap joined to %q", got[0])
	}
}

func TestParagraphsEmptyBody(t *testing.T) {
	if got := Paragraphs("   \n\n  "); got != nil {
		t.Fatalf("Paragraphs on blank body = %v, want nil", got)
	}
}

func TestParagraphsSingleParagraph(t *testing.T) {
	got := Paragraphs("Just one.")
	if len(got) != 1 || got[0] != "Just one." {
		t.Fatalf("Paragraphs = %v", got)
	}
}
