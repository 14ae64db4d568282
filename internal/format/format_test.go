package format

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil", input: nil, expected: "null"},
		{name: "string", input: "commit id is required", expected: "commit id is required"},
		{name: "error", input: errors.New("boom"), expected: "boom"},
		{name: "object", input: map[string]any{"code": 1}, expected: "{\n  \"code\": 1\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Error(tt.input))
		})
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil", input: nil, expected: "null"},
		{name: "string is quoted", input: "abc", expected: `"abc"`},
		{name: "whole float", input: float64(5), expected: "5"},
		{name: "fraction", input: 6.6, expected: "6.6"},
		{name: "int", input: 42, expected: "42"},
		{name: "bool", input: true, expected: "true"},
		{name: "slice", input: []string{"a", "b"}, expected: `["a","b"]`},
		{name: "map", input: map[string]any{"isConfirm": true}, expected: `{"isConfirm":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Value(tt.input))
		})
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, "20%", Progress(1))
	assert.Equal(t, "33.33%", Progress(2))
	assert.Equal(t, "42.86%", Progress(3))
	assert.Equal(t, "50%", Progress(4))
	assert.Equal(t, "20%", Progress(0), "non-positive counts clamp to the first checkpoint")
}

func TestWithProgress(t *testing.T) {
	assert.Equal(t, "Workflow progress: 20%.\nhello", WithProgress("hello", "20%"))
}

func TestDocument(t *testing.T) {
	assert.Equal(t, `{"type":"number"}`, Document(map[string]any{"type": "number"}))
	assert.Equal(t, "{}", Document(func() {}))
}
