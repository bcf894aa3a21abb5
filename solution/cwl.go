package solution

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

const cwlVersion = "v1.2"

// source is how CWL refers to the data of n.
func source(n *TypeNode) string {
	if n.Producer == nil {
		return n.Name()
	}
	return n.Producer.Name() + "/" + n.Name()
}

func writeCWL(w io.Writer, wf *Workflow, rs *renderState) error {
	inputs := yaml.MapSlice{}
	for _, n := range wf.Inputs {
		inputs = append(inputs, yaml.MapItem{Key: n.Name(), Value: yaml.MapSlice{
			{Key: "type", Value: "File"},
			{Key: "format", Value: n.TypeString()},
		}})
	}
	outputs := yaml.MapSlice{}
	for i, n := range wf.Outputs {
		outputs = append(outputs, yaml.MapItem{Key: fmt.Sprintf("output%d", i+1), Value: yaml.MapSlice{
			{Key: "type", Value: "File"},
			{Key: "format", Value: n.TypeString()},
			{Key: "outputSource", Value: source(n)},
		}})
	}
	steps := yaml.MapSlice{}
	for _, m := range wf.Modules {
		in := yaml.MapSlice{}
		for i, n := range m.Inputs {
			in = append(in, yaml.MapItem{Key: fmt.Sprintf("in%d", i+1), Value: source(n)})
		}
		out := make([]string, len(m.Outputs))
		for i, n := range m.Outputs {
			out[i] = n.Name()
		}
		steps = append(steps, yaml.MapItem{Key: m.Name(), Value: yaml.MapSlice{
			{Key: "run", Value: m.ToolID() + ".cwl"},
			{Key: "in", Value: in},
			{Key: "out", Value: out},
		}})
	}
	doc := yaml.MapSlice{
		{Key: "cwlVersion", Value: cwlVersion},
		{Key: "class", Value: "Workflow"},
		{Key: "label", Value: rs.name},
		{Key: "inputs", Value: inputs},
		{Key: "outputs", Value: outputs},
		{Key: "steps", Value: steps},
	}
	d, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
