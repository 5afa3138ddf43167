package fieldcodec

import (
	"context"
	"reflect"
)

// Field creates a FieldRules binding a struct field pointer to its validation rules.
// The field is decoded with the document format's own decoder.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// Transform binds a struct field pointer to the decoder that produces its value
// from the raw document value, plus optional validation rules that run after
// decoding in [UnmarshalAndValidate].
func Transform[T any](fieldPtr *T, d Decoder[T], rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
		decoder:  d,
		decode: func(v Value) error {
			t, err := d.DecodeValue(v)
			if err != nil {
				return err
			}
			*fieldPtr = t
			return nil
		},
	}
}

// rulesOf returns the field rules of a Ruler or ContextRuler, and whether
// structPtr is one.
func rulesOf(ctx context.Context, structPtr any) ([]*FieldRules, bool) {
	switch r := structPtr.(type) {
	case Ruler:
		return r.Rules(), true
	case ContextRuler:
		return r.Rules(ctx), true
	}
	return nil, false
}

// expandFields flattens embedded Ruler/ContextRuler field rules into the parent's rule set.
// Non-embedded fields are returned as-is. Embedded Ruler fields have their Rules() inlined
// recursively, so error keys and schema properties are flat (not nested under the embedded name).
func expandFields(ctx context.Context, structPtr any, fields []*FieldRules) []*FieldRules {
	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	if !structVal.IsValid() || structVal.Kind() != reflect.Struct {
		return fields
	}

	result := make([]*FieldRules, 0, len(fields))
	for _, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() == reflect.Ptr && fr.decode == nil {
			if sf := findStructField(structVal, fv); sf != nil && sf.Anonymous {
				embeddedPtr := fv.Interface()
				if rules, ok := rulesOf(ctx, embeddedPtr); ok {
					result = append(result, expandFields(ctx, embeddedPtr, rules)...)
					continue
				}
			}
		}
		result = append(result, fr)
	}
	return result
}

// findStructField returns the field of structVal whose address is fieldPtr,
// searching embedded structs too, or nil.
func findStructField(structVal reflect.Value, fieldPtr reflect.Value) *reflect.StructField {
	ptr := fieldPtr.Pointer()
	for i := range structVal.NumField() {
		sf := structVal.Type().Field(i)
		fv := structVal.Field(i)
		if fv.CanAddr() && fv.Addr().Pointer() == ptr && fv.Addr().Type() == fieldPtr.Type() {
			return &sf
		}
		if sf.Anonymous {
			inner := fv
			if inner.Kind() == reflect.Ptr {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				if f := findStructField(inner, fieldPtr); f != nil {
					return f
				}
			}
		}
	}
	return nil
}

// fieldAddr identifies a struct field by address and pointer type; the type
// tells a struct apart from its first field, which shares its address.
type fieldAddr struct {
	ptr uintptr
	typ reflect.Type
}

func addrOf(fieldPtr reflect.Value) fieldAddr {
	return fieldAddr{ptr: fieldPtr.Pointer(), typ: fieldPtr.Type()}
}

// boundFields indexes the transform-carrying rules of a record by field.
// When a field is bound more than once the last transform wins.
func boundFields(fields []*FieldRules) map[fieldAddr]*FieldRules {
	bound := make(map[fieldAddr]*FieldRules)
	for _, fr := range fields {
		if fr.decode == nil {
			continue
		}
		bound[addrOf(reflect.ValueOf(fr.fieldPtr))] = fr
	}
	return bound
}
