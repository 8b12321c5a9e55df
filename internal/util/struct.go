package util

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// IsStructInitialized reports whether every nilable field of the struct
// (or pointed-to struct) has been set. Used by readiness checks to catch
// components that were never wired.
func IsStructInitialized(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return errors.New("struct pointer is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.Errorf("expected a struct, got %s", v.Kind())
	}

	var uninitialized []string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		switch v.Field(i).Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			if v.Field(i).IsNil() {
				uninitialized = append(uninitialized, t.Field(i).Name)
			}
		}
	}

	if len(uninitialized) > 0 {
		return errors.Errorf("uninitialized struct fields: %s", strings.Join(uninitialized, ", "))
	}

	return nil
}
