package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"author": map[string]any{"name": "J. Writer"},
		"tags":   []any{"first", "second"},
		"year":   2026,
	}

	cases := []struct {
		in   string
		want string
	}{
		{"by ${author.name}", "by J. Writer"},
		{"tag: ${tags[1]}", "tag: second"},
		{"(c) ${year}", "(c) 2026"},
		{"missing ${author.email} stays", "missing ${author.email} stays"},
		{"no placeholders", "no placeholders"},
		{"bad index ${tags[9]}", "bad index ${tags[9]}"},
		{"empty ${}", "empty ${}"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Errorf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("keep ${x}", nil); got != "keep ${x}" {
		t.Fatalf("Interpolate with nil data = %q", got)
	}
}
