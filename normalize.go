package fieldcodec

import (
	"context"
	"reflect"
	"strings"
)

// Normalizer is implemented by records that tidy themselves up after decoding.
// UnmarshalAndValidate calls it after the field transforms ran and before
// validation, on the top level first and then on nested structs, pointers,
// slices and map values depth-first.
type Normalizer interface {
	Normalize()
}

// ContextNormalizer is like Normalizer but receives a context.
type ContextNormalizer interface {
	Normalize(context.Context)
}

func normalizeRecursive(ctx context.Context, a any) {
	if a == nil {
		return
	}
	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return
	}
	walkStructs(rv, func(ptr reflect.Value) {
		if !ptr.CanInterface() {
			return
		}
		switch n := ptr.Interface().(type) {
		case ContextNormalizer:
			n.Normalize(ctx)
		case Normalizer:
			n.Normalize()
		}
	})
}

// StructTrimSpace runs strings.TrimSpace on every string field of the struct
// pointer v, recursively.
func StructTrimSpace(v any) {
	StructStringFunc(v, strings.TrimSpace)
}

// StructToLower runs strings.ToLower on every string field of the struct
// pointer v, recursively.
func StructToLower(v any) {
	StructStringFunc(v, strings.ToLower)
}

// StructStringFunc applies f to every settable string of the struct pointer
// v: fields, pointed-to strings, slice elements and map values, including
// those of nested structs.
func StructStringFunc(v any, f func(string) string) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return
	}
	walkStructs(rv, func(ptr reflect.Value) {
		s := ptr.Elem()
		for i := range s.NumField() {
			rewriteStrings(s.Field(i), f)
		}
	})
}

// StructMulti runs all given functions on the struct pointer sequentially.
func StructMulti(v any, fns ...func(any)) {
	for _, f := range fns {
		f(v)
	}
}

func rewriteStrings(v reflect.Value, f func(string) string) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(f(v.String()))
		}
	case reflect.Ptr:
		if !v.IsNil() && v.Elem().Kind() == reflect.String {
			rewriteStrings(v.Elem(), f)
		}
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.String || v.Type().Elem().Kind() == reflect.Ptr {
			for i := range v.Len() {
				rewriteStrings(v.Index(i), f)
			}
		}
	case reflect.Map:
		if v.Type().Elem().Kind() != reflect.String || !v.CanSet() {
			return
		}
		for _, key := range v.MapKeys() {
			nv := reflect.New(v.Type().Elem()).Elem()
			nv.SetString(f(v.MapIndex(key).String()))
			v.SetMapIndex(key, nv)
		}
	}
}

// walkStructs calls visit with a pointer to every struct reachable from rv,
// parents before children. Map values are not addressable, so struct map
// values are copied, visited and stored back.
func walkStructs(rv reflect.Value, visit func(ptr reflect.Value)) {
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return
		}
		if rv.Elem().Kind() == reflect.Struct {
			visit(rv)
			walkFields(rv.Elem(), visit)
			return
		}
		walkStructs(rv.Elem(), visit)
	case reflect.Struct:
		if rv.CanAddr() {
			walkStructs(rv.Addr(), visit)
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			walkStructs(rv.Index(i), visit)
		}
	case reflect.Map:
		if rv.Type().Elem().Kind() != reflect.Struct {
			for _, key := range rv.MapKeys() {
				walkStructs(rv.MapIndex(key), visit)
			}
			return
		}
		for _, key := range rv.MapKeys() {
			cp := reflect.New(rv.Type().Elem())
			cp.Elem().Set(rv.MapIndex(key))
			walkStructs(cp, visit)
			if rv.CanSet() || rv.CanInterface() {
				rv.SetMapIndex(key, cp.Elem())
			}
		}
	case reflect.Interface:
		// Concrete type unknown; values behind interfaces are left alone.
	}
}

func walkFields(s reflect.Value, visit func(ptr reflect.Value)) {
	for i := range s.NumField() {
		f := s.Field(i)
		if !f.CanSet() && f.Kind() != reflect.Struct {
			continue
		}
		walkStructs(f, visit)
	}
}
