package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/wfsynth/domain"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const yamlConfig = `
ontology_path: ontology.yaml
tool_annotations_path: tools.json
toolsTaxonomyRoot: Tool
dataDimensionsTaxonomyRoots: [Type, Format]
solution_length: {min: 2, max: 4}
inputs:
- {Type: [Image], Format: [PNG]}
outputs:
- {Type: [Text]}
`

const tomlConfig = `
ontology_path = "ontology.yaml"
tool_annotations_path = "tools.json"
toolsTaxonomyRoot = "Tool"
dataDimensionsTaxonomyRoots = ["Type"]
solutions = 3
solver = "gophersat"

[solution_length]
min = 1
max = 2

[[inputs]]
Type = ["Image"]
`

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ontology.yaml": "roots: []",
		"tools.json":    `{"functions": []}`,
		"a.yaml":        yamlConfig,
		"b.toml":        tomlConfig,
	})
	c, err := Load(filepath.Join(dir, "a.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.OntologyPath != filepath.Join(dir, "ontology.yaml") {
		t.Errorf("ontology path %q", c.OntologyPath)
	}
	if diff := cmp.Diff(Length{Min: 2, Max: 4}, c.SolutionLength); diff != "" {
		t.Error(diff)
	}
	if c.Solutions != 10 || c.Solver != "gini" || !c.ToolSeqRepeat || c.UseWorkflowInput != "ALL" {
		t.Errorf("defaults not applied: %+v", c)
	}
	wantIn := []domain.DataInstance{{"Type": {"Image"}, "Format": {"PNG"}}}
	if diff := cmp.Diff(wantIn, c.Inputs); diff != "" {
		t.Error(diff)
	}
	opts := c.DomainOptions()
	if diff := cmp.Diff([]string{"Type", "Format"}, opts.TypeRoots); diff != "" || opts.ToolRoot != "Tool" || opts.Strict {
		t.Errorf("domain options %+v", opts)
	}

	c, err = Load(filepath.Join(dir, "b.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Solutions != 3 || c.Solver != "gophersat" || c.SolutionLength.Max != 2 {
		t.Errorf("got %+v", c)
	}
	if diff := cmp.Diff([]domain.DataInstance{{"Type": {"Image"}}}, c.Inputs); diff != "" {
		t.Error(diff)
	}
}

func TestPatch(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ontology.yaml": "roots: []",
		"tools.json":    `{"functions": []}`,
		"wfsynth.yaml":  yamlConfig,
	})
	p, err := Find(dir)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Load(p, []byte(`{"solutions": 2, "solution_length": {"max": 3}}`), []byte("solver: gophersat\ninputs: null\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Solutions != 2 || c.SolutionLength != (Length{Min: 2, Max: 3}) || c.Solver != "gophersat" {
		t.Errorf("got %+v", c)
	}
	if c.Inputs != nil {
		t.Errorf("inputs %v", c.Inputs)
	}
	if _, err := Load(p, []byte(`{"no_such_key": 1}`)); err == nil {
		t.Error("patch with an unknown key was applied")
	}
	if _, err := Find(t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v", err)
	}
}

func fieldErrors(err error) map[string]string {
	res := map[string]string{}
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else if err != nil {
		errs = []error{err}
	}
	for _, e := range errs {
		var fe *FieldError
		if errors.As(e, &fe) {
			res[fe.Tag] = fe.Rule
		}
	}
	return res
}

func TestValidate(t *testing.T) {
	dir := writeFiles(t, map[string]string{"ontology.yaml": "", "tools.json": ""})
	valid := func() *Config {
		c := Default()
		c.OntologyPath = "ontology.yaml"
		c.ToolAnnotationsPath = "tools.json"
		c.ToolsTaxonomyRoot = "Tool"
		c.DataDimensionsRoots = []string{"Type"}
		c.Resolve(dir)
		return c
	}
	tests := []struct {
		name string
		edit func(*Config)
		want map[string]string
	}{
		{"valid", func(*Config) {}, map[string]string{}},
		{"solutions", func(c *Config) { c.Solutions = -1 }, map[string]string{"solutions": "must be >= 1"}},
		{"length", func(c *Config) { c.SolutionLength = Length{Min: 3, Max: 2} }, map[string]string{"solution_length.max": "must be >= min"}},
		{"usage", func(c *Config) { c.UseWorkflowInput = "SOME" }, map[string]string{"use_workflow_input": "must be one of ALL ONE NONE"}},
		{"solver path", func(c *Config) { c.Solver = "external" }, map[string]string{"solver_path": "is required when solver is external"}},
		{"roots", func(c *Config) { c.DataDimensionsRoots = nil; c.ToolsTaxonomyRoot = "" }, map[string]string{
			"dataDimensionsTaxonomyRoots": "is required",
			"toolsTaxonomyRoot":           "is required",
		}},
		{"empty root", func(c *Config) { c.DataDimensionsRoots = []string{""} }, map[string]string{"dataDimensionsTaxonomyRoots[0]": "is required"}},
		{"missing file", func(c *Config) { c.OntologyPath = filepath.Join(dir, "nope.yaml") }, map[string]string{
			"ontology_path": `must name an existing file ("` + filepath.Join(dir, "nope.yaml") + `")`,
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.edit(c)
			err := c.Validate()
			if diff := cmp.Diff(tc.want, fieldErrors(err)); diff != "" {
				t.Error(diff)
			}
			if len(tc.want) > 0 && !errors.Is(err, ErrInvalid) {
				t.Errorf("%v is not ErrInvalid", err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := Parse([]byte("{}"), ".ini"); !errors.Is(err, ErrFormat) {
		t.Errorf("got %v", err)
	}
	c, err := Parse([]byte(`{"solutions": 4}`), ".json")
	if err != nil {
		t.Fatal(err)
	}
	if c.Solutions != 4 || c.AuxReserve != 100000 {
		t.Errorf("got %+v", c)
	}
}
