package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range append(SolutionFormats(), DIMACSFormat, SMTFormat) {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var g Format
		if err := g.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if g != f {
			t.Errorf("%s: got %s", f, g)
		}
		if f.Suffix() == "" {
			t.Errorf("%s has no suffix", f)
		}
	}
	if _, err := ParseFormat("png"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v", err)
	}
	if !SMTFormat.IsEncoding() || DotFormat.IsEncoding() {
		t.Error("IsEncoding")
	}
}
