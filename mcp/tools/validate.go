package tools

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// compileSchema loads a Definition's parameter schema once so each call only
// pays for validation.
func compileSchema(def Definition) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.Parameters))
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", def.Name, err)
	}
	return schema, nil
}

// validateArguments checks args against a compiled schema and folds every
// violation into one error.
func validateArguments(schema *gojsonschema.Schema, args map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(errs, ", "))
}

// ValidateArguments validates args against def's parameter schema.
func ValidateArguments(def Definition, args map[string]any) error {
	schema, err := compileSchema(def)
	if err != nil {
		return err
	}
	if args == nil {
		args = map[string]any{}
	}
	return validateArguments(schema, args)
}
