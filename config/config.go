// Package config loads and validates the configuration of a synthesis run.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"
	"github.com/signadot/wfsynth/domain"
)

var (
	ErrFormat   = errors.New("unsupported configuration format")
	ErrNotFound = errors.New("no configuration file")
)

// Length bounds the workflow length.
type Length struct {
	Min int `json:"min" toml:"min" validate:"gte=0"`
	Max int `json:"max" toml:"max" validate:"gte=1,gtefield=Min"`
}

// Config is the configuration of a synthesis run. Keys follow the APE
// configuration file.
type Config struct {
	// Dir is the directory relative paths are resolved against.
	Dir string `json:"-" toml:"-"`

	OntologyPath        string `json:"ontology_path" toml:"ontology_path" validate:"required,file"`
	ToolAnnotationsPath string `json:"tool_annotations_path" toml:"tool_annotations_path" validate:"required,file"`
	ConstraintsPath     string `json:"constraints_path,omitempty" toml:"constraints_path" validate:"omitempty,file"`
	SolutionsDir        string `json:"solutions_dir_path,omitempty" toml:"solutions_dir_path"`

	ToolsTaxonomyRoot    string   `json:"toolsTaxonomyRoot" toml:"toolsTaxonomyRoot" validate:"required"`
	DataDimensionsRoots  []string `json:"dataDimensionsTaxonomyRoots" toml:"dataDimensionsTaxonomyRoots" validate:"required,min=1,dive,required"`
	StrictToolAnnotation bool     `json:"strict_tool_annotations" toml:"strict_tool_annotations"`

	SolutionLength   Length `json:"solution_length" toml:"solution_length"`
	Solutions        int    `json:"solutions" toml:"solutions" validate:"gte=1"`
	TimeoutSec       int    `json:"timeout_sec" toml:"timeout_sec" validate:"gte=0"`
	ExecutionScripts int    `json:"number_of_execution_scripts" toml:"number_of_execution_scripts" validate:"gte=0"`
	GeneratedGraphs  int    `json:"number_of_generated_graphs" toml:"number_of_generated_graphs" validate:"gte=0"`

	Inputs  []domain.DataInstance `json:"inputs,omitempty" toml:"inputs"`
	Outputs []domain.DataInstance `json:"outputs,omitempty" toml:"outputs"`

	ToolSeqRepeat       bool   `json:"tool_seq_repeat" toml:"tool_seq_repeat"`
	UseWorkflowInput    string `json:"use_workflow_input" toml:"use_workflow_input" validate:"oneof=ALL ONE NONE"`
	UseAllGeneratedData string `json:"use_all_generated_data" toml:"use_all_generated_data" validate:"oneof=ALL ONE NONE"`
	MaxToolInputs       int    `json:"max_tool_inputs,omitempty" toml:"max_tool_inputs" validate:"gte=0"`
	MaxToolOutputs      int    `json:"max_tool_outputs,omitempty" toml:"max_tool_outputs" validate:"gte=0"`

	Solver     string   `json:"solver" toml:"solver" validate:"oneof=gini gophersat external"`
	SolverPath string   `json:"solver_path,omitempty" toml:"solver_path" validate:"required_if=Solver external"`
	SolverArgs []string `json:"solver_args,omitempty" toml:"solver_args"`
	AuxReserve int      `json:"aux_reserve" toml:"aux_reserve" validate:"gte=1"`
	Parallel   int      `json:"parallel,omitempty" toml:"parallel" validate:"gte=0"`
	DebugMode  bool     `json:"debug_mode,omitempty" toml:"debug_mode"`
}

// Default returns the configuration values used for keys a file leaves
// out.
func Default() *Config {
	return &Config{
		SolutionLength:      Length{Min: 1, Max: 5},
		Solutions:           10,
		TimeoutSec:          300,
		UseWorkflowInput:    "ALL",
		UseAllGeneratedData: "ALL",
		ToolSeqRepeat:       true,
		Solver:              "gini",
		AuxReserve:          100000,
	}
}

// Parse decodes d over the defaults. ext selects the format: .json, .yaml,
// .yml or .toml.
func Parse(d []byte, ext string) (*Config, error) {
	c := Default()
	switch strings.ToLower(ext) {
	case ".json", ".yaml", ".yml":
		if err := yaml.Unmarshal(d, c); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(d, c); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	return c, nil
}

// Load reads the configuration file at path, applies the merge patches in
// order, resolves relative paths against the file's directory and
// validates the result.
func Load(path string, patches ...[]byte) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(d, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	for _, p := range patches {
		if err := c.ApplyPatch(p); err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	c.Resolve(filepath.Dir(abs))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Names are the configuration file names Find looks for, in order.
var Names = []string{"wfsynth.json", "wfsynth.yaml", "wfsynth.yml", "wfsynth.toml"}

// Find returns the path of the first configuration file of Names in dir.
func Find(dir string) (string, error) {
	for _, name := range Names {
		p := filepath.Join(dir, name)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("could not read %q: %w", p, err)
		}
	}
	return "", fmt.Errorf("%w: %s in %q", ErrNotFound, strings.Join(Names, ", "), dir)
}

// ApplyPatch applies an RFC 7386 merge patch, given as JSON or YAML, to c.
func (c *Config) ApplyPatch(patch []byte) error {
	pj, err := yaml.YAMLToJSON(patch)
	if err != nil {
		return fmt.Errorf("could not decode patch: %w", err)
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return err
	}
	res, err := jsonpatch.MergePatch(doc, pj)
	if err != nil {
		return fmt.Errorf("could not apply patch: %w", err)
	}
	next := &Config{Dir: c.Dir}
	dec := json.NewDecoder(bytes.NewReader(res))
	dec.DisallowUnknownFields()
	if err := dec.Decode(next); err != nil {
		return fmt.Errorf("patched configuration: %w", err)
	}
	*c = *next
	return nil
}

// Resolve makes the relative paths of c relative to dir.
func (c *Config) Resolve(dir string) {
	c.Dir = dir
	for _, p := range []*string{&c.OntologyPath, &c.ToolAnnotationsPath, &c.ConstraintsPath, &c.SolutionsDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// DomainOptions are the taxonomy options of c.
func (c *Config) DomainOptions() domain.Options {
	return domain.Options{
		ToolRoot:  c.ToolsTaxonomyRoot,
		TypeRoots: c.DataDimensionsRoots,
		Strict:    c.StrictToolAnnotation,
	}
}
