package importer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildOrdersJSONSchema returns the JSON-Schema for an import document:
// an array of order objects. Kept as a generic map so tests and callers
// can inspect or tweak it without a schema file on disk.
func BuildOrdersJSONSchema() map[string]any {
	orderProps := map[string]any{
		"order_number":         map[string]any{"type": "string", "minLength": 1},
		"amount":               map[string]any{"type": "number", "exclusiveMinimum": 0},
		"image_uri":            map[string]any{"type": "string"},
		"comment_with_picture": map[string]any{"type": "boolean"},
		"commented":            map[string]any{"type": "boolean"},
		"revealed":             map[string]any{"type": "boolean"},
		"reimbursed":           map[string]any{"type": "boolean"},
		"reimbursed_amount":    map[string]any{"type": "number", "minimum": 0},
		"note":                 map[string]any{"type": "string"},
	}

	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           orderProps,
			"required":             []string{"order_number", "amount"},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("orders.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("orders.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	return schema.Validate(v)
}
