package domain

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Ontology is the class hierarchy file. Children nest; Parents add extra
// edges so the hierarchy may be a DAG.
type Ontology struct {
	Roots []Term `json:"roots"`
}

type Term struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Children []Term   `json:"children,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

// Annotations is the tool annotation file.
type Annotations struct {
	Functions []Function `json:"functions"`
}

type Function struct {
	ID                 string          `json:"id"`
	Label              string          `json:"label,omitempty"`
	TaxonomyOperations []string        `json:"taxonomyOperations,omitempty"`
	Inputs             []DataInstance  `json:"inputs,omitempty"`
	Outputs            []DataInstance  `json:"outputs,omitempty"`
	Implementation     *Implementation `json:"implementation,omitempty"`
}

type Implementation struct {
	Code string `json:"code"`
}

// DataInstance maps dimension root ids to type ids. Ids of one dimension
// are alternatives.
type DataInstance map[string][]string

// ParseOntology decodes an ontology in YAML or JSON.
func ParseOntology(d []byte) (*Ontology, error) {
	res := &Ontology{}
	if err := yaml.Unmarshal(d, res); err != nil {
		return nil, fmt.Errorf("could not decode ontology: %w", err)
	}
	return res, nil
}

// ParseAnnotations decodes tool annotations in YAML or JSON.
func ParseAnnotations(d []byte) (*Annotations, error) {
	res := &Annotations{}
	if err := yaml.Unmarshal(d, res); err != nil {
		return nil, fmt.Errorf("could not decode tool annotations: %w", err)
	}
	return res, nil
}

// Load reads the ontology and annotation files and builds the domain.
func Load(ontologyPath, annotationsPath string, opts Options) (*Domain, error) {
	d, err := os.ReadFile(ontologyPath)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", ontologyPath, err)
	}
	ont, err := ParseOntology(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ontologyPath, err)
	}
	dom, err := New(ont, opts)
	if err != nil {
		return nil, err
	}
	if annotationsPath == "" {
		return dom, nil
	}
	d, err = os.ReadFile(annotationsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", annotationsPath, err)
	}
	ann, err := ParseAnnotations(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", annotationsPath, err)
	}
	dom.AddAnnotations(ann)
	return dom, nil
}
