package libdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []Line
	}{
		{"same", "a\nb\n", "a\nb\n", []Line{{Equal, "a"}, {Equal, "b"}}},
		{"insert", "a\nc\n", "a\nb\nc\n", []Line{{Equal, "a"}, {Insert, "b"}, {Equal, "c"}}},
		{"delete", "a\nb\n", "b\n", []Line{{Delete, "a"}, {Equal, "b"}}},
		{"replace", "p cnf 1 1\n1 0\n", "p cnf 1 1\n-1 0\n",
			[]Line{{Equal, "p cnf 1 1"}, {Delete, "1 0"}, {Insert, "-1 0"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Lines(tc.from, tc.to)); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	from := "1\n2\n3\n4\n5\n6\n"
	to := "1\n2\n3\n4\n5\nsix\n"
	got := Format(Lines(from, to), 1, nil)
	want := "  5\n- 6\n+ six\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
	got = Format(Lines("x\na\ny\nz\nw\nb\n", "x\nA\ny\nz\nw\nB\n"), 0, nil)
	want = "- a\n+ A\n...\n- b\n+ B\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if Diff("same\n", "same\n") != "" {
		t.Error("diff of equal texts")
	}
}
