package gomap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/superscary/superconfig/debug"
)

// Field describes one mapped struct field.
type Field struct {
	// Key is the case-folded document key.
	Key string
	// GoName is the declared field name.
	GoName string
	// Index locates the field for reflect.Value.FieldByIndex.
	Index []int
	// Comment holds the lines from the field's comment tag.
	Comment []string
	Type    reflect.Type
}

// Schema describes how a struct type maps onto a document: its keys,
// their order, and the fields behind them. Schemas are built once per
// type and cached.
type Schema struct {
	Type    reflect.Type
	Fields  []Field
	Comment []string

	byKey map[string]*Field
}

// Commented lets a config type attach header comment lines to its
// document.
type Commented interface {
	ConfigComments() []string
}

var schemaCache sync.Map // reflect.Type -> *Schema

// SchemaOf builds, or returns the cached, schema for t, which must be a
// struct type or pointer to one.
func SchemaOf(t reflect.Type) (*Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &SchemaError{Type: t.String(), Msg: "not a struct type"}
	}
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*Schema), nil
	}
	sch, err := buildSchema(t)
	if err != nil {
		return nil, err
	}
	if debug.Schema() {
		debug.Logf("schema %s: keys %v\n", t, sch.Keys())
	}
	actual, _ := schemaCache.LoadOrStore(t, sch)
	return actual.(*Schema), nil
}

func buildSchema(t reflect.Type) (*Schema, error) {
	sch := &Schema{Type: t, byKey: map[string]*Field{}}
	if c, ok := reflect.New(t).Interface().(Commented); ok {
		sch.Comment = c.ConfigComments()
	}
	// byKey is filled after the append loop so its pointers stay
	// stable; duplicates are tracked separately.
	seen := map[string]string{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("conf"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		key := strings.ToLower(name)
		if prev, dup := seen[key]; dup {
			return nil, &SchemaError{
				Type: t.String(),
				Msg:  fmt.Sprintf("fields %s and %s both map to key %q", prev, sf.Name, key),
			}
		}
		seen[key] = sf.Name
		f := Field{
			Key:    key,
			GoName: sf.Name,
			Index:  sf.Index,
			Type:   sf.Type,
		}
		if c := sf.Tag.Get("comment"); c != "" {
			f.Comment = strings.Split(c, "\n")
		}
		sch.Fields = append(sch.Fields, f)
	}
	for i := range sch.Fields {
		sch.byKey[sch.Fields[i].Key] = &sch.Fields[i]
	}
	return sch, nil
}

// Lookup finds the field behind a document key, case-folded.
func (s *Schema) Lookup(key string) *Field {
	return s.byKey[strings.ToLower(key)]
}

// Keys returns the schema's document keys in declaration order.
func (s *Schema) Keys() []string {
	res := make([]string, len(s.Fields))
	for i := range s.Fields {
		res[i] = s.Fields[i].Key
	}
	return res
}

// KnownFields returns the top-level keys of v's type, for out-of-sync
// detection at parse time.
func KnownFields(v any) ([]string, error) {
	sch, err := SchemaOf(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}
	return sch.Keys(), nil
}
