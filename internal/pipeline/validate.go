package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDefinition tags every definition validation failure so that
// callers can distinguish a malformed graph from an external-service error.
var ErrInvalidDefinition = errors.New("invalid pipeline definition")

// Validate checks the structural invariants of the graph: step names are
// unique, every "Parameters.<name>" reference names a declared parameter,
// and every "Steps.<name>.<attribute>" reference names a step declared
// earlier in the graph.
func (g Graph) Validate() error {
	params := make(map[string]bool, len(g.Parameters))
	for _, p := range g.Parameters {
		if params[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidDefinition, p.Name)
		}
		params[p.Name] = true
	}

	seen := make(map[string]bool, len(g.Steps))
	for _, step := range g.Steps {
		if seen[step.Name()] {
			return fmt.Errorf("%w: duplicate step %q", ErrInvalidDefinition, step.Name())
		}

		refs, err := collectReferences(step.arguments())
		if err != nil {
			return fmt.Errorf("%w: step %q: %v", ErrInvalidDefinition, step.Name(), err)
		}
		for _, ref := range refs {
			if err := checkReference(ref, params, seen); err != nil {
				return fmt.Errorf("%w: step %q: %v", ErrInvalidDefinition, step.Name(), err)
			}
		}

		seen[step.Name()] = true
	}

	return nil
}

func checkReference(ref string, params, earlierSteps map[string]bool) error {
	switch {
	case strings.HasPrefix(ref, "Parameters."):
		name := strings.TrimPrefix(ref, "Parameters.")
		if !params[name] {
			return fmt.Errorf("reference %q names an undeclared parameter", ref)
		}
	case strings.HasPrefix(ref, "Steps."):
		name, _, ok := strings.Cut(strings.TrimPrefix(ref, "Steps."), ".")
		if !ok {
			return fmt.Errorf("reference %q has no step attribute", ref)
		}
		if !earlierSteps[name] {
			return fmt.Errorf("reference %q does not name an earlier step", ref)
		}
	default:
		return fmt.Errorf("reference %q has an unknown target", ref)
	}
	return nil
}

// collectReferences walks the JSON rendering of a step's arguments and
// gathers the target of every {"Get": ...} object.
func collectReferences(arguments any) ([]string, error) {
	raw, err := json.Marshal(arguments)
	if err != nil {
		return nil, fmt.Errorf("arguments are not serializable: %v", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	var refs []string
	walkReferences(doc, &refs)
	return refs, nil
}

func walkReferences(node any, refs *[]string) {
	switch v := node.(type) {
	case map[string]any:
		if len(v) == 1 {
			if target, ok := v["Get"].(string); ok {
				*refs = append(*refs, target)
				return
			}
		}
		for _, child := range v {
			walkReferences(child, refs)
		}
	case []any:
		for _, child := range v {
			walkReferences(child, refs)
		}
	}
}
