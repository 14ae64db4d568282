// Package format renders the text fragments that workflow prompts are built from.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Error renders a failure for inclusion in prompt text.
// Strings are returned as-is, errors by message, and any other value as indented JSON.
func Error(v any) string {
	switch e := v.(type) {
	case nil:
		return "null"
	case string:
		return e
	case error:
		return e.Error()
	case fmt.Stringer:
		return e.String()
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Value renders a workflow result for inclusion in prompt text.
// Strings are quoted, numbers use their shortest form, everything else is compact JSON.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return `"` + x + `"`
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Document renders a schema description document as a single line of JSON.
func Document(doc any) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// WithProgress prefixes prompt text with a progress line.
func WithProgress(text, progress string) string {
	return "Workflow progress: " + progress + ".\n" + text
}

// Progress returns the progress label for the n-th checkpoint of a session.
// It approaches but never reaches 100%, so an agent never reads a paused
// workflow as finished.
func Progress(n int) string {
	if n < 1 {
		n = 1
	}
	p := 100 * (float64(n) / float64(n+4))
	return formatFloat(math.Round(p*100)/100) + "%"
}

// formatFloat formats a float64 as a string, removing trailing zeros.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
