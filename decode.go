package fieldcodec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unmarshal decodes the document data of the given format into dst, which
// must be a non-nil pointer.
//
// When dst implements [Ruler] or [ContextRuler], each field bound with
// [Transform] receives its raw value through its decoder and every other field
// is decoded by the format's own decoder. Records nested in fields, pointers,
// slices, arrays and string-keyed maps are decoded the same way. The first
// failing field aborts the decode with an *[Error] naming the field path
// ("items.0.email"), and dst is left unchanged. Types that reach no transform
// are decoded by encoding/json or gopkg.in/yaml.v3 directly.
func Unmarshal(format Format, data []byte, dst any) error {
	return unmarshalCtx(context.Background(), format, data, dst)
}

// UnmarshalJSON is Unmarshal(JSON, data, dst).
func UnmarshalJSON(data []byte, dst any) error {
	return Unmarshal(JSON, data, dst)
}

// UnmarshalYAML is Unmarshal(YAML, data, dst).
func UnmarshalYAML(data []byte, dst any) error {
	return Unmarshal(YAML, data, dst)
}

// Decode reads the whole of r and decodes it like [Unmarshal].
func Decode(format Format, r io.Reader, dst any) error {
	return decodeCtx(context.Background(), format, r, dst)
}

func decodeCtx(ctx context.Context, format Format, r io.Reader, dst any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return unmarshalCtx(ctx, format, data, dst)
}

func unmarshalCtx(ctx context.Context, format Format, data []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("fieldcodec: Unmarshal(%T): destination must be a non-nil pointer", dst)
	}
	root, err := parseDocument(format, data)
	if err != nil {
		return fmt.Errorf("fieldcodec: %w", err)
	}

	// Decode into a scratch value so a failure never leaves a partial record.
	scratch := reflect.New(rv.Elem().Type())
	if root.IsNull() && !hasTransforms(ctx, scratch.Elem().Type()) {
		return nil
	}
	if err := decodeValue(ctx, root, scratch.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(scratch.Elem())
	return nil
}

// decodeValue decodes v into dst, a non-nil pointer. Types that reach a field
// transform are walked by the record decoder, everything else goes to the
// format's own decoder.
func decodeValue(ctx context.Context, v Value, dst any) error {
	rv := reflect.ValueOf(dst).Elem()
	if hasTransforms(ctx, rv.Type()) {
		return decodeComposite(ctx, v, rv)
	}
	if err := v.decodeStd(dst); err != nil {
		return newError(TypeMismatch, err)
	}
	return nil
}

// decodeComposite decodes v into the addressable rv, descending through
// pointers and collections to the records that carry transforms.
func decodeComposite(ctx context.Context, v Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Struct:
		bound := map[fieldAddr]*FieldRules{}
		ptr := rv.Addr().Interface()
		if fields, ok := rulesOf(ctx, ptr); ok {
			bound = boundFields(expandFields(ctx, ptr, fields))
		}
		return decodeRecord(ctx, v, rv, bound)

	case reflect.Ptr:
		if v.IsNull() {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeValue(ctx, v, rv.Interface())

	case reflect.Slice, reflect.Array:
		if v.IsNull() {
			rv.SetZero()
			return nil
		}
		items, err := v.elements()
		if err != nil {
			return newError(TypeMismatch, err)
		}
		if rv.Kind() == reflect.Slice {
			rv.Set(reflect.MakeSlice(rv.Type(), len(items), len(items)))
		}
		for i, item := range items {
			if i >= rv.Len() {
				break
			}
			if err := decodeValue(ctx, item, rv.Index(i).Addr().Interface()); err != nil {
				return withField(strconv.Itoa(i), err)
			}
		}
		return nil

	case reflect.Map:
		if v.IsNull() {
			rv.SetZero()
			return nil
		}
		members, err := v.members()
		if err != nil {
			return newError(TypeMismatch, err)
		}
		m := reflect.MakeMapWithSize(rv.Type(), len(members))
		for _, key := range slices.Sorted(maps.Keys(members)) {
			elem := reflect.New(rv.Type().Elem())
			if err := decodeValue(ctx, members[key], elem.Interface()); err != nil {
				return withField(key, err)
			}
			m.SetMapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()), elem.Elem())
		}
		rv.Set(m)
		return nil
	}
	return newError(TypeMismatch, fmt.Errorf("cannot bind field transforms to %s", rv.Type()))
}

// decodeRecord decodes the object v into the struct rv field by field.
func decodeRecord(ctx context.Context, v Value, rv reflect.Value, bound map[fieldAddr]*FieldRules) error {
	members, err := v.members()
	if err != nil {
		return newError(TypeMismatch, err)
	}
	keys := newKeyIndex(v.Format(), members)
	return decodeFields(ctx, v.Format(), rv, keys, bound)
}

func decodeFields(ctx context.Context, format Format, rv reflect.Value, keys keyIndex, bound map[fieldAddr]*FieldRules) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		fv := rv.Field(i)

		name, inline, skip := fieldName(format, sf)
		if skip {
			continue
		}
		if inline {
			inner, ok := inlineStruct(fv)
			if !ok {
				continue
			}
			if ptr := inner.Addr(); ptr.CanInterface() {
				if fields, ok := rulesOf(ctx, ptr.Interface()); ok {
					for k, fr := range boundFields(expandFields(ctx, ptr.Interface(), fields)) {
						if _, exists := bound[k]; !exists {
							bound[k] = fr
						}
					}
				}
			}
			if err := decodeFields(ctx, format, inner, keys, bound); err != nil {
				return err
			}
			continue
		}

		raw, found := keys.lookup(name)
		if fr, ok := bound[addrOf(fv.Addr())]; ok {
			if !found {
				raw = Absent(format)
			}
			if err := fr.decode(raw); err != nil {
				return withField(name, err)
			}
			continue
		}
		if !found || !fv.CanSet() {
			continue
		}
		if err := decodeValue(ctx, raw, fv.Addr().Interface()); err != nil {
			return withField(name, err)
		}
	}
	return nil
}

// fieldName resolves the document key of sf: the format's own tag, then the
// other format's tag, then the Go field name (lowercased for YAML, as
// gopkg.in/yaml.v3 does). Embedded structs without a
// name, and fields tagged ",inline", are flattened into the parent.
func fieldName(format Format, sf reflect.StructField) (name string, inline, skip bool) {
	if !sf.IsExported() && !sf.Anonymous {
		return "", false, true
	}
	for _, key := range []string{format.tag(), otherFormat(format).tag()} {
		tag, ok := sf.Tag.Lookup(key)
		if !ok {
			continue
		}
		parts := strings.Split(tag, ",")
		if parts[0] == "-" && len(parts) == 1 {
			return "", false, true
		}
		for _, opt := range parts[1:] {
			if opt == "inline" {
				return "", true, false
			}
		}
		if parts[0] != "" {
			return parts[0], false, false
		}
		break
	}
	if sf.Anonymous {
		t := sf.Type
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() == reflect.Struct {
			return "", true, false
		}
		if !sf.IsExported() {
			return "", false, true
		}
	}
	if format == YAML {
		return strings.ToLower(sf.Name), false, false
	}
	return sf.Name, false, false
}

func otherFormat(f Format) Format {
	if f == YAML {
		return JSON
	}
	return YAML
}

// inlineStruct returns the addressable struct behind an embedded field,
// allocating nil embedded pointers.
func inlineStruct(fv reflect.Value) (reflect.Value, bool) {
	if fv.Kind() == reflect.Ptr {
		if fv.Type().Elem().Kind() != reflect.Struct || !fv.CanSet() {
			return reflect.Value{}, false
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}
	if fv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return fv, true
}

// keyIndex looks document keys up exactly first, then for JSON
// case-insensitively as encoding/json does. YAML keys match exactly, like
// gopkg.in/yaml.v3.
type keyIndex struct {
	exact  map[string]Value
	folded map[string]Value
}

func newKeyIndex(format Format, members map[string]Value) keyIndex {
	if format != JSON {
		return keyIndex{exact: members}
	}
	folded := make(map[string]Value, len(members))
	for k, v := range members {
		lk := strings.ToLower(k)
		if _, ok := folded[lk]; !ok {
			folded[lk] = v
		}
	}
	return keyIndex{exact: members, folded: folded}
}

func (k keyIndex) lookup(name string) (Value, bool) {
	if v, ok := k.exact[name]; ok {
		return v, true
	}
	if k.folded == nil {
		return nil, false
	}
	v, ok := k.folded[strings.ToLower(name)]
	return v, ok
}

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	yamlUnmarshalerType = reflect.TypeFor[yaml.Unmarshaler]()
)

// hasTransforms reports whether decoding a t runs any field transform: t is,
// contains, or points to a record binding one. Types that decode themselves
// are left to their own Unmarshal methods.
func hasTransforms(ctx context.Context, t reflect.Type) bool {
	return reachesTransform(ctx, t, map[reflect.Type]bool{})
}

func reachesTransform(ctx context.Context, t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return reachesTransform(ctx, t.Elem(), seen)
	case reflect.Map:
		return t.Key().Kind() == reflect.String && reachesTransform(ctx, t.Elem(), seen)
	case reflect.Struct:
	default:
		return false
	}

	pt := reflect.PointerTo(t)
	inst := reflect.New(t).Interface()
	if fields, ok := rulesOf(ctx, inst); ok && len(boundFields(expandFields(ctx, inst, fields))) > 0 {
		return true
	}
	if pt.Implements(jsonUnmarshalerType) || pt.Implements(yamlUnmarshalerType) {
		return false
	}
	for i := range t.NumField() {
		sf := t.Field(i)
		if (sf.IsExported() || sf.Anonymous) && reachesTransform(ctx, sf.Type, seen) {
			return true
		}
	}
	return false
}
