package solution

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonData struct {
	Name         string   `json:"name"`
	Types        []string `json:"types"`
	Descriptions []string `json:"descriptions,omitempty"`
}

type jsonStep struct {
	Step         int        `json:"step"`
	Tool         string     `json:"tool"`
	Descriptions []string   `json:"descriptions,omitempty"`
	Inputs       []string   `json:"inputs"`
	Outputs      []jsonData `json:"outputs"`
}

type jsonWorkflow struct {
	Name    string     `json:"name"`
	Length  int        `json:"length"`
	Inputs  []jsonData `json:"inputs"`
	Steps   []jsonStep `json:"steps"`
	Outputs []string   `json:"outputs"`
}

func toJSONData(n *TypeNode) jsonData {
	d := jsonData{Name: n.Name(), Types: []string{}}
	for _, p := range n.Types {
		d.Types = append(d.Types, p.ID)
	}
	for _, p := range n.Descriptions {
		d.Descriptions = append(d.Descriptions, p.ID)
	}
	return d
}

func toJSONWorkflow(wf *Workflow, name string) jsonWorkflow {
	doc := jsonWorkflow{
		Name:    name,
		Length:  wf.Length,
		Inputs:  []jsonData{},
		Steps:   []jsonStep{},
		Outputs: []string{},
	}
	for _, n := range wf.Inputs {
		doc.Inputs = append(doc.Inputs, toJSONData(n))
	}
	for _, m := range wf.Modules {
		st := jsonStep{Step: m.Step, Tool: m.ToolID(), Inputs: []string{}, Outputs: []jsonData{}}
		for _, p := range m.Descriptions {
			st.Descriptions = append(st.Descriptions, p.ID)
		}
		for _, n := range m.Inputs {
			st.Inputs = append(st.Inputs, n.Name())
		}
		for _, n := range m.Outputs {
			st.Outputs = append(st.Outputs, toJSONData(n))
		}
		doc.Steps = append(doc.Steps, st)
	}
	for _, n := range wf.Outputs {
		doc.Outputs = append(doc.Outputs, n.Name())
	}
	return doc
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSON(w io.Writer, wf *Workflow, rs *renderState) error {
	return encodeJSON(w, toJSONWorkflow(wf, rs.name))
}

// RenderJSONList writes wfs to w as one JSON array, naming each workflow
// "solution<index>".
func RenderJSONList(w io.Writer, wfs []*Workflow) error {
	docs := make([]jsonWorkflow, len(wfs))
	for i, wf := range wfs {
		docs[i] = toJSONWorkflow(wf, fmt.Sprintf("solution%d", wf.Index))
	}
	return encodeJSON(w, docs)
}
