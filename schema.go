package fieldcodec

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// NewSchemaRefForValue generates an OpenAPI schema describing the documents
// value accepts. Transformed fields describe their wire shape (a phone field
// is a string with format "phone", a From[bool] field is a boolean, an
// optional adapter is nullable, an embedded document is a string), then the
// field's validation rules add their own constraints.
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	g := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(describeType))
	return g.NewSchemaRefForValue(value, nil)
}

func describeType(name string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	inst, fields := rulesForType(t)
	if inst == nil {
		return describeValueRuler(t, name, schema)
	}
	fields = expandFields(context.Background(), inst, fields)

	props, err := propertyNames(fields, reflect.Indirect(reflect.ValueOf(inst)))
	if err != nil {
		return err
	}
	for i, fr := range fields {
		ref, ok := schema.Properties[props[i]]
		if !ok || ref.Value == nil {
			continue
		}
		if d, ok := fr.decoder.(describer); ok {
			d.describe(ref.Value)
		}
		for _, rule := range fr.rules {
			if err := rule.Describe(props[i], schema, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// rulesForType returns a fresh *t and its field rules if it is a record with rules.
func rulesForType(t reflect.Type) (any, []*FieldRules) {
	if t.Kind() != reflect.Struct {
		return nil, nil
	}
	inst := reflect.New(t).Interface()
	fields, ok := rulesOf(context.Background(), inst)
	if !ok {
		return nil, nil
	}
	return inst, fields
}

// propertyNames resolves each field pointer to the JSON property name the
// schema generator used for it.
func propertyNames(fields []*FieldRules, structVal reflect.Value) ([]string, error) {
	names := make([]string, len(fields))
	for i, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			return nil, fmt.Errorf("rule target for field index %d must be a pointer, got %s", i, fv.Kind())
		}
		sf := findStructField(structVal, fv)
		if sf == nil {
			return nil, fmt.Errorf("rule target for field index %d not found in struct %s", i, structVal.Type())
		}
		if sf.Anonymous {
			continue
		}
		names[i] = sf.Name
		if tag := strings.Split(sf.Tag.Get("json"), ",")[0]; tag != "" && tag != "-" {
			names[i] = tag
		}
	}
	return names, nil
}

// describeValueRuler applies the rules of a ValueRuler type (e.g. type
// PhoneNumber string) to its schema.
func describeValueRuler(t reflect.Type, name string, schema *openapi3.Schema) error {
	vr, ok := reflect.New(t).Interface().(ValueRuler)
	if !ok {
		return nil
	}
	ref := &openapi3.SchemaRef{Value: schema}
	for _, rule := range vr.ValueRules() {
		if err := rule.Describe(name, schema, ref); err != nil {
			return err
		}
	}
	return nil
}
