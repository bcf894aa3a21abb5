package constraint

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// File is a constraint file.
type File struct {
	Constraints []Entry `json:"constraints"`
}

// Entry instantiates a template. Each parameter is a list of ids; module
// ids are alternatives, type ids are alternatives within a dimension and
// conjoined across dimensions.
type Entry struct {
	ID         string     `json:"constraintid"`
	Parameters [][]string `json:"parameters,omitempty"`
	// Formula is the text of SLTLx entries.
	Formula string `json:"formula,omitempty"`
}

func (e *Entry) String() string {
	if e.ID == SLTLxID {
		return fmt.Sprintf("%s(%q)", e.ID, e.Formula)
	}
	return fmt.Sprintf("%s%v", e.ID, e.Parameters)
}

// ParseFile decodes a constraint file in YAML or JSON.
func ParseFile(d []byte) (*File, error) {
	res := &File{}
	if err := yaml.Unmarshal(d, res); err != nil {
		return nil, fmt.Errorf("could not decode constraints: %w", err)
	}
	return res, nil
}

func Load(path string) (*File, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	f, err := ParseFile(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
