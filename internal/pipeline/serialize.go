package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"sagemaker-pipeline-backend/internal/config"
)

// Definition is the canonical textual form of a graph plus its content
// hash. Identical graphs always serialize to byte-identical bodies, so the
// hash doubles as a cheap change detector and audit marker.
type Definition struct {
	Body string
	Hash string
}

// Serialize renders the graph as canonical JSON: lexicographically sorted
// keys, compact separators, no HTML escaping. The hash is the lowercase
// hex sha256 of the body.
func Serialize(g Graph) (Definition, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to marshal pipeline graph: %w", err)
	}

	// Round-tripping through generic maps sorts every object's keys.
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Definition{}, fmt.Errorf("failed to canonicalize pipeline graph: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return Definition{}, fmt.Errorf("failed to encode pipeline graph: %w", err)
	}

	body := strings.TrimSuffix(buf.String(), "\n")
	sum := sha256.Sum256([]byte(body))

	return Definition{Body: body, Hash: hex.EncodeToString(sum[:])}, nil
}

// Compile builds, validates, and serializes the definition for cfg.
func Compile(cfg config.Record) (Definition, error) {
	graph := Build(cfg)
	if err := graph.Validate(); err != nil {
		return Definition{}, err
	}
	return Serialize(graph)
}
