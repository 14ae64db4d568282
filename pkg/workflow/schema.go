package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema gates a checkpoint: a resume value must pass Validate before the
// computation may advance.
type Schema interface {
	// Validate checks value and returns the value the procedure will receive.
	Validate(value any) (any, error)
	// Describe returns a JSON-serializable schema document.
	Describe() any
}

// documentSchema validates against a resolved JSON schema and hands back the
// value in its JSON form.
type documentSchema struct {
	doc      *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// FromDocument builds a Schema from a JSON schema document.
func FromDocument(doc *jsonschema.Schema) (Schema, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil schema document")
	}
	resolved, err := doc.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return &documentSchema{doc: doc, resolved: resolved}, nil
}

// MustFromDocument is like FromDocument but panics on error.
func MustFromDocument(doc *jsonschema.Schema) Schema {
	s, err := FromDocument(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// FromJSON builds a Schema from a raw JSON schema document.
func FromJSON(raw []byte) (Schema, error) {
	var doc jsonschema.Schema
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return FromDocument(&doc)
}

func (s *documentSchema) Validate(value any) (any, error) {
	value, err := jsonValue(value)
	if err != nil {
		return nil, err
	}
	if err := s.resolved.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

// jsonValue converts Go values such as structs or integers into the generic
// form encoding/json decodes to, which is what the validator understands.
func jsonValue(v any) (any, error) {
	switch v.(type) {
	case nil, bool, string, float64:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

func (s *documentSchema) Describe() any {
	return s.doc
}

// typedSchema validates like documentSchema and then decodes the value into T.
type typedSchema[T any] struct {
	documentSchema
}

// For infers a Schema from the Go type T. Validated values are decoded into T,
// so a procedure can type-assert the resume value directly.
func For[T any]() (Schema, error) {
	doc, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	resolved, err := doc.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return &typedSchema[T]{documentSchema{doc: doc, resolved: resolved}}, nil
}

// MustFor is like For but panics on error.
func MustFor[T any]() Schema {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func (s *typedSchema[T]) Validate(value any) (any, error) {
	normalized, err := s.documentSchema.Validate(value)
	if err != nil {
		return nil, err
	}
	if v, ok := value.(T); ok {
		return v, nil
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode value into %T: %w", out, err)
	}
	return out, nil
}
