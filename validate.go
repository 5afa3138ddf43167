package fieldcodec

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate runs the validation rules of value. If value implements Ruler or
// ContextRuler its fields are validated with the rules bound by Field and
// Transform; a ValueRuler has its rules applied to itself. Collection
// elements implementing Ruler are validated too.
func Validate(value any) error {
	return validateCore(context.Background(), value)
}

// ValidateCtx is like Validate but passes a context to ContextRuler.Rules().
func ValidateCtx(ctx context.Context, value any) error {
	return validateCore(ctx, value)
}

// UnmarshalAndValidate decodes data into dst with [Unmarshal], then normalizes
// (see [Normalizer]) and validates it. Decode failures are returned as *Error
// and stop before validation; validation failures are [ValidationErrors].
func UnmarshalAndValidate(format Format, data []byte, dst any) error {
	return UnmarshalAndValidateCtx(context.Background(), format, data, dst)
}

// UnmarshalAndValidateCtx is like UnmarshalAndValidate but passes a context to
// ContextRuler.Rules and ContextNormalizer.Normalize.
func UnmarshalAndValidateCtx(ctx context.Context, format Format, data []byte, dst any) error {
	if err := unmarshalCtx(ctx, format, data, dst); err != nil {
		return err
	}
	normalizeRecursive(ctx, dst)
	return ValidateCtx(ctx, dst)
}

// DecodeAndValidate reads a whole document from r and handles it like
// [UnmarshalAndValidate]. Use it on an [io.Reader] such as an HTTP request body.
func DecodeAndValidate(format Format, r io.Reader, dst any) error {
	return DecodeAndValidateContext(context.Background(), format, r, dst)
}

// DecodeAndValidateContext is like DecodeAndValidate but passes a context to
// ContextRuler.Rules and ContextNormalizer.Normalize.
func DecodeAndValidateContext(ctx context.Context, format Format, r io.Reader, dst any) error {
	if err := decodeCtx(ctx, format, r, dst); err != nil {
		return err
	}
	normalizeRecursive(ctx, dst)
	return ValidateCtx(ctx, dst)
}

func validateCore(ctx context.Context, value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return nil
	}

	if fields, ok := rulesOf(ctx, value); ok {
		return validation.ValidateStruct(value, convertFieldRules(ctx, value, fields...)...)
	}
	// Non-pointer struct value: ozzo hands field values to the bridge rule
	// by value, so check whether *T is the Ruler.
	if rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		pi := ptr.Interface()
		if fields, ok := rulesOf(ctx, pi); ok {
			return validation.ValidateStruct(pi, convertFieldRules(ctx, pi, fields...)...)
		}
	}

	if vr, ok := value.(ValueRuler); ok {
		return validateValueRules(value, vr.ValueRules())
	}

	if rv.Kind() == reflect.Interface && rv.IsNil() {
		return nil
	}
	rv = reflect.Indirect(rv)

	switch rv.Kind() {
	case reflect.Map:
		if shouldAutoValidate(rv.Type().Elem()) {
			return validateMap(ctx, rv)
		}
	case reflect.Slice, reflect.Array:
		if shouldAutoValidate(rv.Type().Elem()) {
			return validateSlice(ctx, rv)
		}
	case reflect.Ptr, reflect.Interface:
		return validateCore(ctx, rv.Elem().Interface())
	}
	return nil
}

func validateValueRules(value any, rules []Rule) error {
	for _, rule := range rules {
		if err := rule.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// shouldAutoValidate reports whether elements of elemType are records with
// rules, looking through nested collections.
func shouldAutoValidate(elemType reflect.Type) bool {
	switch elemType.Kind() {
	case reflect.Struct:
		_, ok := rulesOf(context.Background(), reflect.New(elemType).Interface())
		return ok
	case reflect.Ptr:
		return elemType.Elem().Kind() == reflect.Struct && shouldAutoValidate(elemType.Elem())
	case reflect.Slice, reflect.Array, reflect.Map:
		return shouldAutoValidate(elemType.Elem())
	}
	return false
}

func validateElement(ctx context.Context, v reflect.Value) error {
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil
	}
	switch v.Kind() {
	case reflect.Struct:
		if v.CanAddr() {
			return validateCore(ctx, v.Addr().Interface())
		}
		return validateCore(ctx, v.Interface())
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Map:
		return validateCore(ctx, v.Interface())
	}
	return nil
}

func validateSlice(ctx context.Context, rv reflect.Value) error {
	errs := validation.Errors{}
	for i := range rv.Len() {
		if err := validateElement(ctx, rv.Index(i)); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMap(ctx context.Context, rv reflect.Value) error {
	errs := validation.Errors{}
	for _, key := range rv.MapKeys() {
		if err := validateElement(ctx, rv.MapIndex(key)); err != nil {
			errs[fmt.Sprintf("%v", key.Interface())] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// rulerBridge is an ozzo validation.Rule that sends field values back into
// validateCore, so nested records and collections of records are validated.
type rulerBridge struct {
	ctx context.Context
}

func (b *rulerBridge) Validate(value any) error {
	if value == nil {
		return nil
	}
	return validateCore(b.ctx, value)
}

// convertFieldRules translates FieldRules into ozzo's FieldRules. Decode
// transforms play no part here; they already ran.
func convertFieldRules(ctx context.Context, structPtr any, fields ...*FieldRules) []*validation.FieldRules {
	flat := expandFields(ctx, structPtr, fields)

	vFields := make([]*validation.FieldRules, len(flat))
	for i, fr := range flat {
		rules := make([]validation.Rule, len(fr.rules), len(fr.rules)+1)
		for j, r := range fr.rules {
			rules[j] = validation.Rule(r)
		}
		rules = append(rules, &rulerBridge{ctx: ctx})
		vFields[i] = validation.Field(fr.fieldPtr, rules...)
	}
	return vFields
}

// By wraps a RuleFunc into a Rule.
func By(f RuleFunc, desc string) Rule {
	return &inlineRule{validation.By(validation.RuleFunc(f)), desc}
}

type inlineRule struct {
	validation.Rule
	desc string
}

func (r *inlineRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref.Value, r.desc)
	return nil
}

func appendDescription(schema *openapi3.Schema, desc string) {
	if schema.Description != "" && !strings.HasSuffix(schema.Description, " ") {
		schema.Description += " "
	}
	schema.Description += desc
}
