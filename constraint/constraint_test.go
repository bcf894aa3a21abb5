package constraint

import (
	"errors"
	"testing"

	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/taxonomy"
)

const ontology = `
roots:
- id: Tool
  children:
  - id: Conversion
- id: Type
  children: [{id: PNG}, {id: Text}]
- id: Format
  children: [{id: Binary}, {id: Plain}]
`

const annotations = `
functions:
- id: Convert
  taxonomyOperations: [Conversion]
  inputs: [{Type: [PNG]}]
  outputs: [{Type: [Text]}]
- id: Render
  inputs: [{Type: [Text]}]
  outputs: [{Type: [PNG], Format: [Binary]}]
`

func testDomain(t *testing.T) *domain.Domain {
	t.Helper()
	ont, err := domain.ParseOntology([]byte(ontology))
	if err != nil {
		t.Fatal(err)
	}
	d, err := domain.New(ont, domain.Options{ToolRoot: "Tool", TypeRoots: []string{"Type", "Format"}})
	if err != nil {
		t.Fatal(err)
	}
	ann, err := domain.ParseAnnotations([]byte(annotations))
	if err != nil {
		t.Fatal(err)
	}
	d.AddAnnotations(ann)
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestTemplates(t *testing.T) {
	seen := map[string]bool{}
	for _, tpl := range Templates() {
		if seen[tpl.ID] {
			t.Errorf("duplicate template %s", tpl.ID)
		}
		seen[tpl.ID] = true
		if tpl.Description == "" {
			t.Errorf("%s has no description", tpl.ID)
		}
	}
	if len(seen) != 22 {
		t.Errorf("got %d templates", len(seen))
	}
	if _, ok := Lookup("use_m"); !ok {
		t.Error("use_m missing")
	}
}

func TestResolveEntry(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{ID: "use_m", Parameters: [][]string{{"Convert"}}}, "F module('Convert')"},
		{Entry{ID: "use_m", Parameters: [][]string{{"Render", "Convert"}}}, "F module('(Convert|Render)')"},
		{Entry{ID: "nuse_t", Parameters: [][]string{{"PNG", "Binary"}}}, "G !use('(Binary&PNG)')"},
		{Entry{ID: "gen_t", Parameters: [][]string{{"PNG", "Text"}}}, "F gen('(PNG|Text)')"},
		{Entry{ID: "next_m", Parameters: [][]string{{"Convert"}, {"Render"}}}, "G (module('Convert') -> X module('Render'))"},
		{Entry{ID: "connected_op", Parameters: [][]string{{"Convert"}, {"Render"}}}, "F connected('Convert','Render')"},
		{Entry{ID: "operation_output", Parameters: [][]string{{"Render"}, {"Binary"}}}, "F (module('Render') & gen('Binary'))"},
		{Entry{ID: "not_repeat_op", Parameters: [][]string{{"Conversion"}}}, "G (module('Convert') -> X G !module('Convert'))"},
		{Entry{ID: "last_m", Parameters: [][]string{{"Render"}}}, "F (module('Render') & !X true)"},
		{Entry{ID: SLTLxID, Formula: "Exists ?x <'Convert'(?x;)> 'PNG'(?x)"}, "Exists ?x <'Convert'(?x;)> 'PNG'(?x)"},
	}
	d := testDomain(t)
	for _, tc := range tests {
		t.Run(tc.entry.String(), func(t *testing.T) {
			c, err := ResolveEntry(d, &tc.entry)
			if err != nil {
				t.Fatal(err)
			}
			if got := c.Formula.String(); got != tc.want {
				t.Errorf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		entry Entry
		want  error
	}{
		{Entry{ID: "nope"}, ErrUnknownTemplate},
		{Entry{ID: "use_m"}, ErrArity},
		{Entry{ID: "use_m", Parameters: [][]string{{"Nope"}}}, taxonomy.ErrUnknown},
		{Entry{ID: "use_m", Parameters: [][]string{{"PNG"}}}, taxonomy.ErrInconsistent},
		{Entry{ID: "use_t", Parameters: [][]string{{"Convert"}}}, taxonomy.ErrInconsistent},
		{Entry{ID: SLTLxID, Formula: "F 'Nope'"}, taxonomy.ErrUnknown},
	}
	d := testDomain(t)
	for _, tc := range tests {
		if _, err := ResolveEntry(d, &tc.entry); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v want %v", &tc.entry, err, tc.want)
		}
	}
}

func TestFileResolve(t *testing.T) {
	f, err := ParseFile([]byte(`
constraints:
- constraintid: use_m
  parameters: [[Render]]
- constraintid: unheard_of
  parameters: [[Render]]
- constraintid: ite_m
  parameters: [[Convert], [Render]]
`))
	if err != nil {
		t.Fatal(err)
	}
	d := testDomain(t)
	cs, errs := f.Resolve(d)
	if len(cs) != 2 || len(errs) != 1 {
		t.Fatalf("got %d constraints, %d errors", len(cs), len(errs))
	}
	if !errors.Is(errs[0], ErrUnknownTemplate) {
		t.Errorf("got %v", errs[0])
	}
	want := "If operation Convert is used, then operation Render must be used subsequently."
	if cs[1].Description != want {
		t.Errorf("got %q", cs[1].Description)
	}
}
