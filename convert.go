package fieldcodec

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

// Integer is the set of Go integer types accepted by [Narrow] and [BoolTo].
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// coercion is the Decoder returned by the adapters in this file.
type coercion[T any] struct {
	decode   func(Value) (T, error)
	wire     reflect.Type
	nullable bool
}

func (c coercion[T]) DecodeValue(v Value) (T, error) {
	return c.decode(v)
}

func (c coercion[T]) describe(schema *openapi3.Schema) {
	if t := wireSchemaType(c.wire); t != "" {
		// Bounds and format were generated for the target type.
		schema.Type = &openapi3.Types{t}
		schema.Format = ""
		schema.Min, schema.Max = nil, nil
		schema.Items, schema.Properties = nil, nil
	}
	if c.nullable {
		schema.Nullable = true
	}
}

// wireSchemaType maps the intermediate Go type of an adapter to the OpenAPI type
// of the raw value it accepts.
func wireSchemaType(t reflect.Type) string {
	if t == nil {
		return ""
	}
	switch t.Kind() {
	case reflect.Bool:
		return openapi3.TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.TypeInteger
	case reflect.Float32, reflect.Float64:
		return openapi3.TypeNumber
	case reflect.String:
		return openapi3.TypeString
	case reflect.Slice, reflect.Array:
		return openapi3.TypeArray
	case reflect.Map, reflect.Struct:
		return openapi3.TypeObject
	}
	return ""
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// decodeAs decodes v as an S. Null, absent and wrongly shaped values are a
// TypeMismatch.
func decodeAs[S any](v Value) (S, error) {
	var s S
	if v.IsNull() {
		return s, newError(TypeMismatch, fmt.Errorf("expected %s, got null", typeOf[S]()))
	}
	if err := v.Decode(&s); err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			return s, err
		}
		return s, newError(TypeMismatch, err)
	}
	return s, nil
}

// optional lifts a strict decode into one that maps null and absent values to nil.
func optional[T any](decode func(Value) (T, error)) func(Value) (*T, error) {
	return func(v Value) (*T, error) {
		if v.IsNull() {
			return nil, nil
		}
		t, err := decode(v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
}

func from[S, T any](conv func(S) T) func(Value) (T, error) {
	return func(v Value) (T, error) {
		s, err := decodeAs[S](v)
		if err != nil {
			var zero T
			return zero, err
		}
		return conv(s), nil
	}
}

func tryFrom[S, T any](conv func(S) (T, error)) func(Value) (T, error) {
	return func(v Value) (T, error) {
		var zero T
		s, err := decodeAs[S](v)
		if err != nil {
			return zero, err
		}
		t, err := conv(s)
		if err != nil {
			return zero, newError(ConversionFailed, err)
		}
		return t, nil
	}
}

func fromString[T any](parse func(string) (T, error)) func(Value) (T, error) {
	return func(v Value) (T, error) {
		var zero T
		s, err := decodeAs[string](v)
		if err != nil {
			return zero, err
		}
		t, err := parse(s)
		if err != nil {
			return zero, newError(ParseFailed, err)
		}
		return t, nil
	}
}

func fromText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}]() func(Value) (T, error) {
	return fromString(func(s string) (T, error) {
		var t T
		err := PT(&t).UnmarshalText([]byte(s))
		return t, err
	})
}

// From decodes the raw value as an S and converts it to T with conv, which
// cannot fail. A raw value that is null, absent or not an S is a TypeMismatch.
//
//	Transform(&r.Enabled, From(BoolTo[uint8]))
func From[S, T any](conv func(S) T) Decoder[T] {
	return coercion[T]{decode: from(conv), wire: typeOf[S]()}
}

// TryFrom is like [From] but conv may reject the value, which is reported as
// ConversionFailed.
//
//	Transform(&r.Level, TryFrom(Narrow[int8, uint8]))
func TryFrom[S, T any](conv func(S) (T, error)) Decoder[T] {
	return coercion[T]{decode: tryFrom(conv), wire: typeOf[S]()}
}

// FromString decodes the raw value as a string and parses it with parse. A raw
// value that is not a string is a TypeMismatch, a parse error is ParseFailed.
//
//	Transform(&r.Count, FromString(strconv.Atoi))
func FromString[T any](parse func(string) (T, error)) Decoder[T] {
	return coercion[T]{decode: fromString(parse), wire: typeOf[string]()}
}

// FromText is [FromString] using T's own UnmarshalText.
//
//	Transform(&r.Addr, FromText[netip.Addr]())
func FromText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}]() Decoder[T] {
	return coercion[T]{decode: fromText[T, PT](), wire: typeOf[string]()}
}

// FromOption is [From] for optional fields: a null or absent value yields nil
// without calling conv.
func FromOption[S, T any](conv func(S) T) Decoder[*T] {
	return coercion[*T]{decode: optional(from(conv)), wire: typeOf[S](), nullable: true}
}

// TryFromOption is [TryFrom] for optional fields.
func TryFromOption[S, T any](conv func(S) (T, error)) Decoder[*T] {
	return coercion[*T]{decode: optional(tryFrom(conv)), wire: typeOf[S](), nullable: true}
}

// FromStringOption is [FromString] for optional fields.
func FromStringOption[T any](parse func(string) (T, error)) Decoder[*T] {
	return coercion[*T]{decode: optional(fromString(parse)), wire: typeOf[string](), nullable: true}
}

// FromTextOption is [FromText] for optional fields.
func FromTextOption[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}]() Decoder[*T] {
	return coercion[*T]{decode: optional(fromText[T, PT]()), wire: typeOf[string](), nullable: true}
}

// Narrow converts s to the integer type T, failing when s is out of T's range.
func Narrow[S, T Integer](s S) (T, error) {
	t := T(s)
	if S(t) != s || (s < 0) != (t < 0) {
		return 0, fmt.Errorf("%v overflows %s", s, typeOf[T]())
	}
	return t, nil
}

// BoolTo converts b to 1 or 0.
func BoolTo[T Integer](b bool) T {
	if b {
		return 1
	}
	return 0
}
