// FILE: lixenwraith/flatconfig/convenience.go
package flatconfig

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// SetStruct stores every exported field of v (a struct or struct pointer)
// as a configuration value. Paths come from the `config` tag or the field
// name, nested structs add a dot segment and slices add [i] indices.
// prefix, when not empty, is prepended to every path.
//
// Values set this way behave like any other: a later load overwrites them,
// which makes SetStruct the way to seed defaults.
func (s *Service) SetStruct(prefix string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return invalidArgument("SetStruct requires a non-nil struct pointer or value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return invalidArgument("SetStruct requires a struct or struct pointer, got %T", v)
	}

	flat := make(FlatMap)
	structFields(flat, strings.TrimSuffix(prefix, "."), rv)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.merge(flat)
	s.metrics.setKeys(s.cache.len())
	s.logger.Debug("struct values set", "prefix", prefix, "keys", len(flat))
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// structFields walks the exported fields of a struct value.
func structFields(flat FlatMap, prefix string, v reflect.Value) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(ScanTag)
		if tag == "-" {
			continue
		}
		key := field.Name
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}

		valueFields(flat, joinKey(prefix, key), v.Field(i))
	}
}

// valueFields stores a single value, descending into structs and slices.
func valueFields(flat FlatMap, path string, v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return // no well-defined value
		}
		valueFields(flat, path, v.Elem())
	case reflect.Struct:
		if v.Type() == timeType {
			flat[path] = v.Interface()
			return
		}
		structFields(flat, path, v)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			flat[path] = string(v.Bytes())
			return
		}
		for i := 0; i < v.Len(); i++ {
			valueFields(flat, indexKey(path, i), v.Index(i))
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			flat[path] = v.Interface()
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			valueFields(flat, joinKey(path, iter.Key().String()), iter.Value())
		}
	default:
		flat[path] = v.Interface()
	}
}

// Dump writes the merged configuration to w as TOML. Null values are
// omitted since TOML cannot express them.
func (s *Service) Dump(w io.Writer) error {
	snapshot := s.Snapshot()
	for key, value := range snapshot {
		if value == nil {
			delete(snapshot, key)
		}
	}

	tree, ok := buildTree(snapshot).(map[string]any)
	if !ok {
		return fmt.Errorf("configuration root is not a table")
	}

	if err := toml.NewEncoder(w).Encode(tree); err != nil {
		return fmt.Errorf("failed to encode configuration as TOML: %w", err)
	}
	return nil
}

// Debug returns a listing of every key with its value and Go type.
func (s *Service) Debug() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	fmt.Fprintf(&b, "Providers: %v\n", s.registry.Names())
	b.WriteString("Current values:\n")
	for _, key := range s.cache.keys() {
		value, _ := s.cache.get(key)
		fmt.Fprintf(&b, "  %s = %v (%T)\n", key, value, value)
	}
	return b.String()
}
