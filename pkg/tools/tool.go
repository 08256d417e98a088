// Package tools defines the contract shared by every action the plugin
// exposes to an assistant host, and a registry to collect them.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingArgument is returned when a required argument is absent or null.
var ErrMissingArgument = errors.New("missing required argument")

// Tool is a capability the host can invoke by name.
//
// Arguments arrive as the raw JSON object sent by the host, e.g.
//
//	{"message": "buy milk"}
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "add_note")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool with the given JSON arguments.
	// Returns: (result string, metadata map, error)
	// Metadata is optional and can be nil. It must never carry secrets.
	Execute(ctx context.Context, argumentsJSON []byte) (string, map[string]interface{}, error)
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty describes a single string parameter.
func StringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// DecodeArguments unmarshals the host's JSON arguments into v.
// Missing or null arguments leave v untouched.
func DecodeArguments(argumentsJSON []byte, v interface{}) error {
	if len(argumentsJSON) == 0 || string(argumentsJSON) == "null" {
		return nil
	}
	if err := json.Unmarshal(argumentsJSON, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// CheckRequired verifies that every name listed under the schema's
// "required" key is present in the arguments object with a non-null value.
func CheckRequired(schema map[string]interface{}, argumentsJSON []byte) error {
	required := requiredNames(schema["required"])
	if len(required) == 0 {
		return nil
	}

	args := map[string]json.RawMessage{}
	if len(argumentsJSON) > 0 && string(argumentsJSON) != "null" {
		if err := json.Unmarshal(argumentsJSON, &args); err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
	}

	var missing []string
	for _, name := range required {
		value, ok := args[name]
		if !ok || string(value) == "null" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingArgument, strings.Join(missing, ", "))
	}
	return nil
}

func requiredNames(v interface{}) []string {
	switch names := v.(type) {
	case []string:
		return names
	case []interface{}:
		out := make([]string, 0, len(names))
		for _, n := range names {
			if s, ok := n.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
