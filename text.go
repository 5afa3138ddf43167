package fieldcodec

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// StringTransformer rewrites or rejects a decoded string.
type StringTransformer func(string) (string, error)

type stringDecoder struct {
	fns    []StringTransformer
	format string
	desc   string
}

func (d stringDecoder) DecodeValue(v Value) (string, error) {
	s, err := decodeAs[string](v)
	if err != nil {
		return "", err
	}
	for _, fn := range d.fns {
		if s, err = fn(s); err != nil {
			return "", err
		}
	}
	return s, nil
}

func (d stringDecoder) describe(schema *openapi3.Schema) {
	schema.Type = &openapi3.Types{openapi3.TypeString}
	if d.format != "" {
		schema.Format = d.format
	}
	if d.desc != "" {
		if schema.Description != "" && !strings.HasSuffix(schema.Description, " ") {
			schema.Description += " "
		}
		schema.Description += d.desc
	}
}

// Phone decodes a string field with [ValidatePhone].
var Phone Decoder[string] = stringDecoder{
	fns:    []StringTransformer{ValidatePhone},
	format: "phone",
	desc:   "phone number, normalized to digits with an optional leading +",
}

// PhoneDigits decodes a string field with [NormalizePhone] and never rejects it.
var PhoneDigits Decoder[string] = stringDecoder{
	fns: []StringTransformer{func(s string) (string, error) {
		return NormalizePhone(s), nil
	}},
	format: "phone",
	desc:   "phone number, normalized to digits with an optional leading +",
}

// Email decodes a string field with [ValidateEmail].
var Email Decoder[string] = stringDecoder{
	fns:    []StringTransformer{ValidateEmail},
	format: "email",
	desc:   "e-mail address, trimmed and lowercased",
}

// URL decodes a string field with [ValidateURL].
var URL Decoder[string] = stringDecoder{
	fns:    []StringTransformer{ValidateURL},
	format: "uri",
	desc:   "percent-encoded URL, decoded and lowercased",
}

// PercentDecoded decodes a string field with [PercentDecode].
var PercentDecoded Decoder[string] = stringDecoder{
	fns:  []StringTransformer{PercentDecode},
	desc: "percent-encoded string",
}

// CreditCard decodes a string field with [ValidateCreditCard].
var CreditCard Decoder[string] = stringDecoder{
	fns:    []StringTransformer{ValidateCreditCard},
	format: "credit-card",
	desc:   "card number, whitespace and dashes removed",
}

// String decodes a string field and passes it through fns in order. The
// first error aborts the chain and is returned as is.
//
//	Transform(&r.Name, String(TrimSpace, ToLower))
func String(fns ...StringTransformer) Decoder[string] {
	return stringDecoder{fns: fns}
}

// TrimSpace is a StringTransformer for [strings.TrimSpace].
func TrimSpace(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

// ToLower is a StringTransformer for [strings.ToLower].
func ToLower(s string) (string, error) {
	return strings.ToLower(s), nil
}

type optionalDecoder[T any] struct {
	inner Decoder[T]
}

// Optional wraps d for a pointer field: a null or absent value yields nil
// without calling d.
//
//	Transform(&r.Mobile, Optional(Phone))
func Optional[T any](d Decoder[T]) Decoder[*T] {
	return optionalDecoder[T]{inner: d}
}

func (d optionalDecoder[T]) DecodeValue(v Value) (*T, error) {
	return optional(d.inner.DecodeValue)(v)
}

func (d optionalDecoder[T]) describe(schema *openapi3.Schema) {
	if inner, ok := d.inner.(describer); ok {
		inner.describe(schema)
	}
	schema.Nullable = true
}
