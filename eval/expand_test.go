package eval

import (
	"testing"
)

func TestExpandString(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"abc", "abc"},
		{"$[", "$["},
		{"$[tool]", "Convert"},
		{" $[tool]", " Convert"},
		{"$[tool", "$[tool"},
		{"convert $[inputs[0]] > $[outputs[0]]", "convert a.png > step1_out0.txt"},
		{"$[ inputs[0] ] trailing", "a.png trailing"},
		{"$[step + 1]", "2"},
		{"cat $[inputs]", "cat a.png b.png"},
		{"$[upper(tool)]", "CONVERT"},
		{`$["a\]"]`, "a]"},
		{"$abc", "$abc"},
		{"$[len(outputs) > 0]", "true"},
		{"$[inputs[len(inputs)-1]]", "b.png"},
		{"$[[1, 2][1]] x", "2 x"},
		{`$["]" + tool]`, "]Convert"},
		{"$[`[` + tool]", "[Convert"},
		{"$[inputs[0]", "$[inputs[0]"},
	}
	env := Env{
		"tool":    "Convert",
		"step":    1,
		"inputs":  []string{"a.png", "b.png"},
		"outputs": []string{"step1_out0.txt"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ExpandString(tc.in, env)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.out {
				t.Errorf("got %q want %q", got, tc.out)
			}
		})
	}
	if _, err := ExpandString("$[nope(]", env); err == nil {
		t.Error("bad expression was expanded")
	}
}
