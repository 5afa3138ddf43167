package fieldcodec

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// DecodeEmbedded decodes s as a complete document in format into a T, applying
// T's own field transforms. Any failure, whether a syntax error or a field
// error inside the document, is reported as EmbeddedParseFailed wrapping the
// cause.
func DecodeEmbedded[T any](s string, format Format) (T, error) {
	var t T
	if err := Unmarshal(format, []byte(s), &t); err != nil {
		var zero T
		return zero, newError(EmbeddedParseFailed, err)
	}
	return t, nil
}

type embeddedDecoder[T any] struct {
	format Format
}

// Embedded decodes a string field holding a whole document in format, like
// a JSON object serialized into a string.
//
//	Transform(&r.Payload, Embedded[Payload](JSON))
func Embedded[T any](format Format) Decoder[T] {
	return embeddedDecoder[T]{format: format}
}

// EmbeddedJSON is Embedded[T](JSON).
func EmbeddedJSON[T any]() Decoder[T] {
	return Embedded[T](JSON)
}

// EmbeddedYAML is Embedded[T](YAML).
func EmbeddedYAML[T any]() Decoder[T] {
	return Embedded[T](YAML)
}

func (d embeddedDecoder[T]) DecodeValue(v Value) (T, error) {
	s, err := decodeAs[string](v)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeEmbedded[T](s, d.format)
}

func (d embeddedDecoder[T]) describe(schema *openapi3.Schema) {
	schema.Type = &openapi3.Types{openapi3.TypeString}
	schema.Format = ""
	schema.Properties = nil
	schema.Required = nil
	schema.Items = nil
	schema.AdditionalProperties = openapi3.AdditionalProperties{}
	schema.Description = fmt.Sprintf("%s document encoded as a string", d.format)
}
