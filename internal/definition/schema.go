package definition

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/violet-go/internal/utils"
)

//go:embed schema/violet.schema.json
var schemaSource string

const schemaURL = "violet.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Validate checks a decoded document against the definition schema.
// The document is normalized through JSON first so TOML and YAML values
// are seen with JSON types.
func Validate(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal definition for validation: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal definition for validation: %w", err)
	}

	if err := schema.Validate(obj); err != nil {
		return fmt.Errorf("%w:\n%w", ErrInvalidDefinition, schemaErrors(err))
	}
	return nil
}

func schemaErrors(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(ve, &errs)
	if len(errs) == 0 {
		return &ValidationError{Message: ve.Message}
	}
	return errors.Join(errs...)
}

func collectSchemaErrors(err *jsonschema.ValidationError, result *[]error) {
	if len(err.Causes) == 0 {
		*result = append(*result, &ValidationError{
			Path:    utils.JSONPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, result)
	}
}
