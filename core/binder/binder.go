package binder

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// Binder decodes part of a request into the struct pointed to by v.
type Binder func(r *http.Request, v any) error

// lookup returns the raw value for a tag name, if present.
type lookup func(name string) (string, bool)

func fromValues(values map[string][]string) lookup {
	return func(name string) (string, bool) {
		vs := values[name]
		if len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}
}

// bind walks the exported fields of the struct behind v. Only fields
// carrying tag are set; `tag:"-"` and untagged fields are left alone.
func bind(v any, tag string, get lookup, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to struct", bindErr)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := get(name)
		if !ok {
			continue
		}
		if err := set(rv.Field(i), raw); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, sf.Name, err)
		}
	}
	return nil
}

func set(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(clean(raw))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", raw)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", field.Kind())
	}
	return nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "on", "yes":
		return true, nil
	case "", "0", "f", "false", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", raw)
}

// clean drops control characters other than tab, so bound strings never
// carry line breaks into headers or logs.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || (r >= 0x20 && r != 0x7f) {
			return r
		}
		return -1
	}, s)
}
