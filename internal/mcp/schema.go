package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// validateArguments checks tool call arguments against the tool's
// declared input schema before the tool runs. Bad arguments surface as
// a tool error with every violation listed, not just the first.
func validateArguments(tool Tool, args map[string]any) error {
	schemaJSON, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return fmt.Errorf("encode schema for %s: %w", tool.Name, err)
	}

	if args == nil {
		args = map[string]any{}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("validate arguments for %s: %w", tool.Name, err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid arguments for %s: %s", tool.Name, strings.Join(problems, "; "))
}
