package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	domainllm "rove/internal/domain/services/llm"
)

// SchemaFor reflects T into an inline JSON schema (no $ref/$defs) suitable
// for a tool input schema.
func SchemaFor[T any](name, description string) domainllm.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	var zero T
	def, err := toMap(reflector.Reflect(&zero))
	if err != nil {
		// Reflection of our own model types cannot fail at runtime
		panic(fmt.Sprintf("reflect schema %s: %v", name, err))
	}
	delete(def, "$schema")
	delete(def, "$id")

	return domainllm.Schema{
		Name:        name,
		Description: description,
		Definition:  def,
	}
}

// ObjectSchema builds a flat object schema from property definitions, used
// for tool parameters that have no Go struct.
func ObjectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func toMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
