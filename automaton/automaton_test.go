package automaton

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAbsoluteIndexBijection(t *testing.T) {
	tests := []struct{ length, in, out int }{
		{1, 1, 1},
		{2, 1, 1},
		{3, 2, 1},
		{4, 1, 3},
		{5, 3, 3},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("L%d_I%d_O%d", tc.length, tc.in, tc.out), func(t *testing.T) {
			a := New(tc.length, tc.in, tc.out)
			seen := map[int]*State{}
			for _, s := range a.States() {
				if prev, ok := seen[s.Absolute()]; ok {
					t.Fatalf("%s and %s share absolute index %d", prev, s, s.Absolute())
				}
				seen[s.Absolute()] = s
			}
			want := tc.length + (tc.length+1)*(tc.in+tc.out)
			if len(seen) != want {
				t.Errorf("got %d states, want %d", len(seen), want)
			}
			// indices are dense: every gap would mean a lost slot
			for i := 0; i < want; i++ {
				if seen[i] == nil {
					t.Errorf("absolute index %d unused", i)
				}
			}
		})
	}
}

func TestStateFormulas(t *testing.T) {
	a := New(2, 2, 3)
	mem := a.Types().MemoryBlock(1).State(2)
	if mem.TypeRelative() != 1*3+2+1 {
		t.Errorf("memory relative %d", mem.TypeRelative())
	}
	if mem.Absolute() != 1*5+1+2 {
		t.Errorf("memory absolute %d", mem.Absolute())
	}
	used := a.Types().UsedBlock(2).State(1)
	if used.TypeRelative() != 2*2+1 {
		t.Errorf("used relative %d", used.TypeRelative())
	}
	if used.Absolute() != 2*5+2+3+1 {
		t.Errorf("used absolute %d", used.Absolute())
	}
	op := a.Modules().State(1)
	if op.Name() != "M2" || op.TypeRelative() != 1 {
		t.Errorf("op %s relative %d", op, op.TypeRelative())
	}
}

func TestNullState(t *testing.T) {
	a := New(0, 1, 1)
	if a.Length() != 1 {
		t.Fatalf("length %d not clamped", a.Length())
	}
	null := a.Types().Null()
	if null.Absolute() != -1 || null.TypeRelative() != -1 || !null.IsNull() {
		t.Errorf("bad null state %+v", null)
	}
	if got := a.Types().MemoryByRelative(0); got != null {
		t.Errorf("relative 0 gave %s", got)
	}
	if got := a.Types().MemoryByRelative(99); got != null {
		t.Errorf("out of range gave %s", got)
	}
	if got := a.Types().UsedByRelative(-3); got != null {
		t.Errorf("negative gave %s", got)
	}
	if got := a.Types().MemoryByRelative(1); got.Name() != "MemT0.0" {
		t.Errorf("relative 1 gave %s", got)
	}
	if !a.Contains(null) {
		t.Errorf("null not contained")
	}
	if a.Contains(New(1, 1, 1).Types().Null()) {
		t.Errorf("foreign null contained")
	}
}

func TestBlocks(t *testing.T) {
	a := New(3, 2, 1)
	if n := len(a.Types().MemoryBlocks()); n != 4 {
		t.Errorf("%d memory blocks", n)
	}
	if n := len(a.Types().UsedBlocks()); n != 4 {
		t.Errorf("%d used blocks", n)
	}
	if n := a.Types().MemoryBlock(0).Len(); n != 1 {
		t.Errorf("memory capacity %d", n)
	}
	if n := a.Types().UsedBlock(0).Len(); n != 2 {
		t.Errorf("used capacity %d", n)
	}
	if a.Modules().State(3) != nil || a.Types().MemoryBlock(4) != nil {
		t.Errorf("out of range lookups must be nil")
	}
	var names []string
	for _, s := range a.Types().MemoryUntil(1) {
		names = append(names, s.Name())
	}
	if diff := cmp.Diff([]string{"MemT0.0", "MemT1.0"}, names); diff != "" {
		t.Errorf("MemoryUntil (-want +got):\n%s", diff)
	}
}

func TestOrdering(t *testing.T) {
	a := New(2, 1, 1)
	var names []string
	for _, s := range a.States() {
		names = append(names, s.Name())
	}
	want := []string{"MemT0.0", "UsedT0.0", "M1", "MemT1.0", "UsedT1.0", "M2", "MemT2.0", "UsedT2.0"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if Compare(a.Modules().State(0), a.Modules().State(1)) >= 0 {
		t.Errorf("M1 must sort before M2")
	}
}
