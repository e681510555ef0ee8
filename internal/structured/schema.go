package structured

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled output contract for one use case. Field presence,
// element types and array cardinality (minItems/maxItems) are expressed as a
// JSON Schema document. Compiled once, safe for concurrent use.
type Schema struct {
	name     string
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

// CompileSchema compiles a JSON Schema document given as a Go map.
func CompileSchema(name string, doc map[string]any) (*Schema, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schema %s: %w", name, err)
	}

	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	return &Schema{name: name, raw: raw, compiled: compiled}, nil
}

// MustCompileSchema is CompileSchema for package-level schema definitions.
func MustCompileSchema(name string, doc map[string]any) *Schema {
	s, err := CompileSchema(name, doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Raw returns the serialized schema document.
func (s *Schema) Raw() json.RawMessage { return s.raw }

// Validate checks a decoded JSON document against the schema. The document is
// not modified. On failure the returned error is a *ValidationError naming the
// first violated field.
func (s *Schema) Validate(doc any) error {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ValidationError{Expectation: err.Error()}
	}
	return firstViolation(verr)
}

var missingPropertyPattern = regexp.MustCompile(`'([^']+)'`)

// firstViolation picks the leaf error with the lowest instance location so the
// reported field does not depend on keyword evaluation order.
func firstViolation(root *jsonschema.ValidationError) *ValidationError {
	leaves := collectLeaves(root, nil)
	sort.SliceStable(leaves, func(i, j int) bool {
		if leaves[i].InstanceLocation != leaves[j].InstanceLocation {
			return leaves[i].InstanceLocation < leaves[j].InstanceLocation
		}
		return leaves[i].KeywordLocation < leaves[j].KeywordLocation
	})

	leaf := leaves[0]
	field := leaf.InstanceLocation
	if strings.HasSuffix(leaf.KeywordLocation, "/required") {
		if m := missingPropertyPattern.FindStringSubmatch(leaf.Message); m != nil {
			field = field + "/" + m[1]
		}
	}
	return &ValidationError{Field: field, Expectation: leaf.Message}
}

func collectLeaves(e *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return append(out, e)
	}
	for _, c := range e.Causes {
		out = collectLeaves(c, out)
	}
	return out
}

// Validate is the free-function form of Schema.Validate.
func Validate(doc any, schema *Schema) error {
	return schema.Validate(doc)
}

// ValidateValue checks a typed value by round-tripping it through JSON.
func ValidateValue(v any, schema *Schema) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	return schema.Validate(doc)
}

// Decode validates doc and converts it into T.
func Decode[T any](doc any, schema *Schema) (T, error) {
	var out T
	if err := schema.Validate(doc); err != nil {
		return out, err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("failed to re-encode document: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to decode document: %w", err)
	}
	return out, nil
}
