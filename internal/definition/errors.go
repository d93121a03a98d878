package definition

import (
	"errors"
	"fmt"
)

var (
	// ErrDefinitionNotFound is returned when no violet.{toml,yaml,yml,json} exists.
	ErrDefinitionNotFound = errors.New("no violet definition file found")
	// ErrInvalidDefinition is returned when a definition file fails schema validation.
	ErrInvalidDefinition = errors.New("invalid definition file")
	// ErrUnsupportedFormat is returned for extensions other than toml, yaml, yml and json.
	ErrUnsupportedFormat = errors.New("unsupported definition format")
	// ErrAmbiguousStep is returned for a step that sets zero or several actions.
	ErrAmbiguousStep = errors.New("step must set exactly one of exec, parallel, context, log, warn, error")
)

// ValidationError points at one schema violation inside a definition file.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
