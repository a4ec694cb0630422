// Package pipeline compiles a resolved configuration record into the
// SageMaker pipeline definition document: an ordered graph of typed steps
// whose arguments may reference pipeline parameters or the outputs of
// earlier steps.
package pipeline

import "encoding/json"

// SchemaVersion is the pipeline definition schema accepted by SageMaker.
const SchemaVersion = "2020-12-01"

// Reference is a placeholder resolved by SageMaker at execution time,
// either to a parameter value ("Parameters.<name>") or to an attribute of
// a prior step's output ("Steps.<name>.<attribute>").
type Reference struct {
	Get string `json:"Get"`
}

func ParamRef(name string) Reference {
	return Reference{Get: "Parameters." + name}
}

func StepRef(step, attribute string) Reference {
	return Reference{Get: "Steps." + step + "." + attribute}
}

type Parameter struct {
	Name         string `json:"Name"`
	Type         string `json:"Type"`
	DefaultValue string `json:"DefaultValue"`
}

type ExperimentConfig struct {
	ExperimentName string `json:"ExperimentName"`
	TrialName      string `json:"TrialName"`
}

// Step is the closed set of pipeline step variants. The unexported
// arguments method keeps the set closed to this package.
type Step interface {
	Name() string
	Type() string
	arguments() any
}

// Graph is a compiled pipeline definition. Step order is significant:
// steps execute in declared order, with data dependencies expressed as
// references inside step arguments.
type Graph struct {
	Version          string
	Parameters       []Parameter
	ExperimentConfig ExperimentConfig
	Steps            []Step
}

type wireStep struct {
	Name      string `json:"Name"`
	Type      string `json:"Type"`
	Arguments any    `json:"Arguments"`
}

func (g Graph) MarshalJSON() ([]byte, error) {
	steps := make([]wireStep, len(g.Steps))
	for i, step := range g.Steps {
		steps[i] = wireStep{Name: step.Name(), Type: step.Type(), Arguments: step.arguments()}
	}

	return json.Marshal(struct {
		Version                  string           `json:"Version"`
		Parameters               []Parameter      `json:"Parameters"`
		PipelineExperimentConfig ExperimentConfig `json:"PipelineExperimentConfig"`
		Steps                    []wireStep       `json:"Steps"`
	}{
		Version:                  g.Version,
		Parameters:               g.Parameters,
		PipelineExperimentConfig: g.ExperimentConfig,
		Steps:                    steps,
	})
}
