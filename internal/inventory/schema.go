package inventory

import (
	"encoding/json"
	"fmt"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidationError lists why a saved inventory does not match Schema.
type SchemaValidationError struct {
	Errors []string
}

func (err SchemaValidationError) Error() string {
	return fmt.Sprintf("inventory does not match its schema: %v", err.Errors)
}

// Schema returns the JSON schema of a saved inventory: an object mapping group names to
// lists of identifiers.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(map[string][]string{})
	schema.Version = ""
	schema.Title = "Casper Inventory Schema"
	schema.Description = "Resource groups mapped to the identifiers of the resources Terraform manages"

	return schema
}

// ValidateJSON checks data against Schema before it is decoded.
func ValidateJSON(data []byte) error {
	schemaBytes, err := json.Marshal(Schema())
	if err != nil {
		return errors.Errorf("failed to generate the inventory schema: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Errorf("failed to validate the inventory: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErrs := make([]string, len(result.Errors()))
	for i, validationErr := range result.Errors() {
		validationErrs[i] = validationErr.String()
	}

	return errors.New(SchemaValidationError{Errors: validationErrs})
}
