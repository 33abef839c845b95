// Package schema checks JSON documents against named JSON Schema
// definitions. A definition is compiled on first use and cached by name.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	// ErrMalformed reports input that is not JSON at all.
	ErrMalformed = errors.New("malformed JSON")
	// ErrMismatch reports JSON that does not satisfy the definition.
	ErrMismatch = errors.New("schema mismatch")
)

// Definition is a JSON Schema document held as Go values.
type Definition struct {
	// Name keys the compile cache, so it must be unique per definition.
	Name string
	Body map[string]any
}

var compiled sync.Map // name -> *jsonschema.Schema

// Check decodes data and validates it against d. On success it returns the
// decoded document, with numbers as json.Number.
func (d Definition) Check(data []byte) (any, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	s, err := d.compile()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMismatch, err)
	}
	return doc, nil
}

func (d Definition) compile() (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(d.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// The compiler takes decoded JSON, not arbitrary Go literals, so the
	// body goes through a JSON round trip first.
	raw, err := json.Marshal(d.Body)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}
	body, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + d.Name + ".json"
	if err := c.AddResource(url, body); err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}

	actual, _ := compiled.LoadOrStore(d.Name, s)
	return actual.(*jsonschema.Schema), nil
}
