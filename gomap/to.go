package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/superscary/superconfig/ir"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// ToIR converts a Go value into a document tree. Struct fields follow
// the type's schema: declaration order, case-folded keys, comment tags
// attached to the resulting nodes.
func ToIR(v any) (*ir.Node, error) {
	m := &marshaler{visited: map[uintptr]string{}}
	return m.value(reflect.ValueOf(v), "$")
}

type marshaler struct {
	// visited maps live pointers to the path where they were first
	// seen, to reject cycles.
	visited map[uintptr]string
}

func (m *marshaler) value(v reflect.Value, path string) (*ir.Node, error) {
	if !v.IsValid() {
		return ir.Null(), nil
	}
	if v.Type() == timeType {
		return ir.FromTime(v.Interface().(time.Time), ir.DateTimeKind), nil
	}
	if v.Type().Implements(textMarshalerType) && v.Kind() != reflect.Pointer {
		d, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, &MappingError{FieldPath: path, Msg: "MarshalText failed", Err: err}
		}
		return ir.FromString(string(d)), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return ir.FromBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, mapErrf(path, "%d overflows int64", u)
		}
		return ir.FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(v.Float()), nil
	case reflect.String:
		return ir.FromString(v.String()), nil
	case reflect.Pointer:
		if v.IsNil() {
			return ir.Null(), nil
		}
		ptr := v.Pointer()
		if at, seen := m.visited[ptr]; seen {
			return nil, mapErrf(path, "cycle back to %s", at)
		}
		m.visited[ptr] = path
		defer delete(m.visited, ptr)
		return m.value(v.Elem(), path)
	case reflect.Interface:
		if v.IsNil() {
			return ir.Null(), nil
		}
		return m.value(v.Elem(), path)
	case reflect.Struct:
		return m.structValue(v, path)
	case reflect.Map:
		return m.mapValue(v, path)
	case reflect.Slice, reflect.Array:
		return m.sliceValue(v, path)
	default:
		return nil, mapErrf(path, "cannot map %s", v.Kind())
	}
}

func (m *marshaler) structValue(v reflect.Value, path string) (*ir.Node, error) {
	sch, err := SchemaOf(v.Type())
	if err != nil {
		return nil, err
	}
	res := &ir.Node{Type: ir.ObjectType}
	res.WithComment(sch.Comment...)
	for i := range sch.Fields {
		f := &sch.Fields[i]
		fv := v.FieldByIndex(f.Index)
		node, err := m.value(fv, path+"."+f.Key)
		if err != nil {
			return nil, err
		}
		node.WithComment(append(append([]string(nil), f.Comment...), node.CommentLines()...)...)
		ir.Put(res, f.Key, node)
	}
	return res, nil
}

func (m *marshaler) mapValue(v reflect.Value, path string) (*ir.Node, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, mapErrf(path, "map keys must be strings, got %s", v.Type().Key())
	}
	keys := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)
	res := &ir.Node{Type: ir.ObjectType}
	for _, k := range keys {
		node, err := m.value(v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())), fmt.Sprintf("%s.%s", path, k))
		if err != nil {
			return nil, err
		}
		ir.Put(res, k, node)
	}
	return res, nil
}

func (m *marshaler) sliceValue(v reflect.Value, path string) (*ir.Node, error) {
	res := &ir.Node{Type: ir.ArrayType}
	for i := 0; i < v.Len(); i++ {
		node, err := m.value(v.Index(i), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		node.Parent = res
		node.ParentIndex = i
		res.Values = append(res.Values, node)
	}
	return res, nil
}
