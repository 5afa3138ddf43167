package fieldcodec

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// RuleFunc is a function type that validates a value and returns an error if invalid.
	RuleFunc func(value any) error

	// Rule is the interface that all validation rules must implement.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// Decoder turns one raw field value into a T. It is the per-field
	// transform the record decoder calls instead of decoding the value itself.
	Decoder[T any] interface {
		DecodeValue(v Value) (T, error)
	}

	// Func adapts an ordinary function to [Decoder].
	Func[T any] func(v Value) (T, error)

	// FieldRules binds a struct field pointer to an optional decode transform
	// and its validation rules.
	FieldRules struct {
		fieldPtr any
		rules    []Rule
		decode   func(Value) error
		decoder  any
	}

	// Ruler is implemented by records that bind transforms and rules to their
	// fields:
	//
	//	func (c *Contact) Rules() []*FieldRules {
	//	    return []*FieldRules{
	//	        Transform(&c.Email, Email, Required),
	//	        Transform(&c.Age, FromString(strconv.Atoi)),
	//	        Field(&c.Name, Required),
	//	    }
	//	}
	Ruler interface {
		Rules() []*FieldRules
	}

	// ContextRuler is like Ruler but receives a context.
	ContextRuler interface {
		Rules(ctx context.Context) []*FieldRules
	}

	// ValueRuler is implemented by non-struct types (e.g. type PhoneNumber string)
	// that carry their own validation rules. The returned rules are automatically
	// applied during both validation and OpenAPI schema generation wherever the
	// type appears as a struct field.
	//
	//	type PhoneNumber string
	//
	//	func (p PhoneNumber) ValueRules() []Rule {
	//	    return []Rule{IsPhone}
	//	}
	ValueRuler interface {
		ValueRules() []Rule
	}
)

// DecodeValue calls f(v).
func (f Func[T]) DecodeValue(v Value) (T, error) {
	return f(v)
}

// describer is implemented by decoders that document the wire shape they accept.
type describer interface {
	describe(schema *openapi3.Schema)
}
