package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/superscary/superconfig/ir"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// FromIR populates dst, a non-nil pointer, from a document tree.
// Document keys match struct fields case-insensitively; keys with no
// field behind them are skipped. Scalars coerce along a fixed ladder:
// exact type, TextUnmarshaler, then parsing the scalar's string form.
func FromIR(n *ir.Node, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return mapErrf("$", "destination must be a non-nil pointer, got %T", dst)
	}
	return assign(n, v.Elem(), "$")
}

func assign(n *ir.Node, v reflect.Value, path string) error {
	if n == nil || n.Type == ir.NullType {
		// Null clears reference kinds; a value field keeps its default.
		switch v.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			v.Set(reflect.Zero(v.Type()))
		}
		return nil
	}
	if v.Type() == timeType {
		return assignTime(n, v, path)
	}
	if v.Kind() != reflect.Pointer && v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		if n.Type == ir.StringType {
			if err := v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.String)); err != nil {
				return &MappingError{FieldPath: path, Msg: fmt.Sprintf("cannot parse %q", n.String), Err: err}
			}
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return assign(n, v.Elem(), path)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return mapErrf(path, "cannot map into non-empty interface %s", v.Type())
		}
		v.Set(reflect.ValueOf(generic(n)))
		return nil
	case reflect.Bool:
		return assignBool(n, v, path)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return assignInt(n, v, path)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return assignUint(n, v, path)
	case reflect.Float32, reflect.Float64:
		return assignFloat(n, v, path)
	case reflect.String:
		return assignString(n, v, path)
	case reflect.Struct:
		return assignStruct(n, v, path)
	case reflect.Map:
		return assignMap(n, v, path)
	case reflect.Slice:
		return assignSlice(n, v, path)
	case reflect.Array:
		return assignArray(n, v, path)
	default:
		return mapErrf(path, "cannot map into %s", v.Kind())
	}
}

func assignTime(n *ir.Node, v reflect.Value, path string) error {
	switch n.Type {
	case ir.TimeType:
		v.Set(reflect.ValueOf(n.Time))
		return nil
	case ir.StringType:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, n.String); err == nil {
				v.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return mapErrf(path, "cannot parse %q as a time", n.String)
	default:
		return mapErrf(path, "cannot map %v into time.Time", n.Type)
	}
}

func assignBool(n *ir.Node, v reflect.Value, path string) error {
	switch n.Type {
	case ir.BoolType:
		v.SetBool(n.Bool)
		return nil
	case ir.StringType:
		b, err := strconv.ParseBool(strings.ToLower(n.String))
		if err != nil {
			return mapErrf(path, "cannot parse %q as a bool", n.String)
		}
		v.SetBool(b)
		return nil
	default:
		return mapErrf(path, "cannot map %v into bool", n.Type)
	}
}

func assignInt(n *ir.Node, v reflect.Value, path string) error {
	var i int64
	switch n.Type {
	case ir.IntType:
		i = n.Int64
	case ir.FloatType:
		if n.Float64 != math.Trunc(n.Float64) {
			return mapErrf(path, "%v is not an integer", n.Float64)
		}
		i = int64(n.Float64)
	case ir.StringType:
		var err error
		i, err = strconv.ParseInt(n.String, 10, 64)
		if err != nil {
			return mapErrf(path, "cannot parse %q as an integer", n.String)
		}
	default:
		return mapErrf(path, "cannot map %v into %s", n.Type, v.Type())
	}
	if v.OverflowInt(i) {
		return mapErrf(path, "%d overflows %s", i, v.Type())
	}
	v.SetInt(i)
	return nil
}

func assignUint(n *ir.Node, v reflect.Value, path string) error {
	var u uint64
	switch n.Type {
	case ir.IntType:
		if n.Int64 < 0 {
			return mapErrf(path, "%d underflows %s", n.Int64, v.Type())
		}
		u = uint64(n.Int64)
	case ir.StringType:
		var err error
		u, err = strconv.ParseUint(n.String, 10, 64)
		if err != nil {
			return mapErrf(path, "cannot parse %q as an unsigned integer", n.String)
		}
	default:
		return mapErrf(path, "cannot map %v into %s", n.Type, v.Type())
	}
	if v.OverflowUint(u) {
		return mapErrf(path, "%d overflows %s", u, v.Type())
	}
	v.SetUint(u)
	return nil
}

func assignFloat(n *ir.Node, v reflect.Value, path string) error {
	var f float64
	switch n.Type {
	case ir.FloatType:
		f = n.Float64
	case ir.IntType:
		f = float64(n.Int64)
	case ir.StringType:
		var err error
		f, err = strconv.ParseFloat(n.String, 64)
		if err != nil {
			return mapErrf(path, "cannot parse %q as a float", n.String)
		}
	default:
		return mapErrf(path, "cannot map %v into %s", n.Type, v.Type())
	}
	if v.OverflowFloat(f) {
		return mapErrf(path, "%v overflows %s", f, v.Type())
	}
	v.SetFloat(f)
	return nil
}

func assignString(n *ir.Node, v reflect.Value, path string) error {
	switch n.Type {
	case ir.StringType:
		v.SetString(n.String)
	case ir.BoolType:
		v.SetString(strconv.FormatBool(n.Bool))
	case ir.IntType:
		v.SetString(strconv.FormatInt(n.Int64, 10))
	case ir.FloatType:
		v.SetString(strconv.FormatFloat(n.Float64, 'g', -1, 64))
	case ir.TimeType:
		v.SetString(n.Time.Format(n.TimeKind.Layout()))
	default:
		return mapErrf(path, "cannot map %v into string", n.Type)
	}
	return nil
}

func assignStruct(n *ir.Node, v reflect.Value, path string) error {
	if n.Type != ir.ObjectType {
		return mapErrf(path, "cannot map %v into %s", n.Type, v.Type())
	}
	sch, err := SchemaOf(v.Type())
	if err != nil {
		return err
	}
	for i, fnode := range n.Fields {
		f := sch.Lookup(fnode.String)
		if f == nil {
			continue
		}
		fv := v.FieldByIndex(f.Index)
		if err := assign(n.Values[i], fv, path+"."+f.Key); err != nil {
			return err
		}
		wireBackRef(v, fv)
	}
	return nil
}

// wireBackRef points a nested config's back-reference field, a
// conf:"-" pointer to the enclosing type, at its parent.
func wireBackRef(parent, child reflect.Value) {
	if child.Kind() == reflect.Pointer {
		if child.IsNil() {
			return
		}
		child = child.Elem()
	}
	if child.Kind() != reflect.Struct || !parent.CanAddr() {
		return
	}
	want := parent.Addr().Type()
	ct := child.Type()
	for i := 0; i < ct.NumField(); i++ {
		sf := ct.Field(i)
		if !sf.IsExported() || sf.Tag.Get("conf") != "-" || sf.Type != want {
			continue
		}
		child.Field(i).Set(parent.Addr())
	}
}

func assignMap(n *ir.Node, v reflect.Value, path string) error {
	if n.Type != ir.ObjectType {
		return mapErrf(path, "cannot map %v into %s", n.Type, v.Type())
	}
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return mapErrf(path, "map keys must be strings, got %s", t.Key())
	}
	res := reflect.MakeMapWithSize(t, len(n.Fields))
	for i, fnode := range n.Fields {
		ev := reflect.New(t.Elem()).Elem()
		if err := assign(n.Values[i], ev, fmt.Sprintf("%s.%s", path, fnode.String)); err != nil {
			return err
		}
		res.SetMapIndex(reflect.ValueOf(fnode.String).Convert(t.Key()), ev)
	}
	v.Set(res)
	return nil
}

func assignSlice(n *ir.Node, v reflect.Value, path string) error {
	if n.Type != ir.ArrayType {
		return mapErrf(path, "cannot map %v into %s", n.Type, v.Type())
	}
	res := reflect.MakeSlice(v.Type(), len(n.Values), len(n.Values))
	for i, e := range n.Values {
		if err := assign(e, res.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	v.Set(res)
	return nil
}

func assignArray(n *ir.Node, v reflect.Value, path string) error {
	if n.Type != ir.ArrayType {
		return mapErrf(path, "cannot map %v into %s", n.Type, v.Type())
	}
	if len(n.Values) > v.Len() {
		return mapErrf(path, "%d elements overflow %s", len(n.Values), v.Type())
	}
	for i, e := range n.Values {
		if err := assign(e, v.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	for i := len(n.Values); i < v.Len(); i++ {
		v.Index(i).Set(reflect.Zero(v.Type().Elem()))
	}
	return nil
}

// generic converts a tree into untyped Go values for interface{}
// targets.
func generic(n *ir.Node) any {
	switch n.Type {
	case ir.BoolType:
		return n.Bool
	case ir.IntType:
		return n.Int64
	case ir.FloatType:
		return n.Float64
	case ir.StringType:
		return n.String
	case ir.TimeType:
		return n.Time
	case ir.ArrayType:
		res := make([]any, len(n.Values))
		for i, e := range n.Values {
			res[i] = generic(e)
		}
		return res
	case ir.ObjectType:
		res := make(map[string]any, len(n.Fields))
		for i, f := range n.Fields {
			res[f.String] = generic(n.Values[i])
		}
		return res
	default:
		return nil
	}
}
