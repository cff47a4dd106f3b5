// internal/annotation/schema.go
package annotation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultFileSchema is the JSON Schema every uploaded result file must satisfy
// before decoding. It pins the envelope only; per-dimension judgment payloads
// are checked by the normalization pass after decoding.
var resultFileSchema = map[string]any{
	"type":     "object",
	"required": []any{"task_id", "mode", "results"},
	"properties": map[string]any{
		"task_id":      map[string]any{"type": "string", "minLength": 1},
		"annotator_id": map[string]any{"type": "string"},
		"mode":         map[string]any{"type": "string", "enum": []any{"pair", "score"}},
		"task_package": map[string]any{
			"type":     "object",
			"required": []any{"samples"},
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string"},
				"mode":    map[string]any{"type": "string"},
				"samples": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"sample_id"},
					},
				},
			},
		},
		"results": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"sample_id"},
				"properties": map[string]any{
					"sample_id":    map[string]any{"type": "string", "minLength": 1},
					"annotator_id": map[string]any{"type": "string"},
					"pair":         map[string]any{"type": "object"},
					"scores":       map[string]any{"type": "object"},
					"checklist":    map[string]any{"type": "object"},
					"timestamp":    map[string]any{"type": "string"},
				},
			},
		},
	},
}

// validateResultFileJSON checks raw bytes against the result-file schema and
// returns a descriptive error listing every violation.
func validateResultFileJSON(raw []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(resultFileSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("result file failed validation: %s", strings.Join(details, "; "))
}
