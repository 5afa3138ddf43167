package fieldcodec

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type requiredRule struct {
	validation.RequiredRule
}

// Required checks that a value is not empty. On a transformed field it runs
// after decoding, so it sees the normalized value: an optional field decoded
// to nil fails it.
var Required = requiredRule{validation.Required}

func (r requiredRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	schema.Required = append(schema.Required, name)
	return nil
}
