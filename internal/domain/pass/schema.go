package pass

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed schema.json
var schemaDocument []byte

//nolint:gochecknoglobals // Compiled once, shared by every validation.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()

	schema, err := compiler.Compile(schemaDocument)
	if err != nil {
		return nil, fmt.Errorf("compile descriptor schema: %w", err)
	}

	return schema, nil
})

// Validate checks that data has the structure of a pass.json document:
// required keys present, enumerations within their closed sets. It does not
// judge whether the values make sense for a given pass.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}

	return fmt.Errorf("descriptor schema validation failed: %v", result.Errors)
}
