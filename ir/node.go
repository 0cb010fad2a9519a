package ir

import "time"

// Node is a single value in a configuration document. The IR works as a
// recursive tagged union: values are placed in fields depending on the
// node type, and the concrete scalar subtype is retained rather than
// coerced, so a TOML date stays distinguishable from a string carrying
// the same text.
//
// For ObjectType nodes, Fields[i] is the key for the value at Values[i];
// there are always as many fields as values, keys are unique within an
// object, and their order is the order keys appeared in the source (or
// declared-field order when the object was produced from a Go value).
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	// Tag holds a tokenized-but-unresolved annotation: a KDL "(type)"
	// annotation or a YAML "!tag". Writers may re-emit it; nothing
	// resolves it semantically.
	Tag string

	// Comment carries the comment lines attached to this node: on an
	// object, the header comments; on a value under a key, the lines
	// written above that key.
	Comment *Node

	// Lines is populated on CommentType nodes only.
	Lines []string

	String   string
	Bool     bool
	Int64    int64
	Float64  float64
	Time     time.Time
	TimeKind TimeKind
}

// TimeKind discriminates the three temporal scalar forms TOML can carry.
type TimeKind int

const (
	DateTimeKind TimeKind = iota
	DateKind
	TimeOnlyKind
)

// Layout returns the time layout string for formatting this kind.
func (k TimeKind) Layout() string {
	switch k {
	case DateKind:
		return "2006-01-02"
	case TimeOnlyKind:
		return "15:04:05"
	default:
		return "2006-01-02T15:04:05"
	}
}

func (y *Node) WithTag(tag string) *Node {
	y.Tag = tag
	return y
}

// WithComment attaches comment lines to the node, replacing any present.
func (y *Node) WithComment(lines ...string) *Node {
	if len(lines) == 0 {
		return y
	}
	y.Comment = &Node{Type: CommentType, Parent: y, Lines: lines}
	return y
}

// CommentLines returns the attached comment lines, nil when none.
func (y *Node) CommentLines() []string {
	if y.Comment == nil {
		return nil
	}
	return y.Comment.Lines
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Int64: v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: FloatType, Float64: f}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromTime(t time.Time, kind TimeKind) *Node {
	return &Node{Type: TimeType, Time: t, TimeKind: kind}
}

func Null() *Node {
	return &Node{Type: NullType}
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds an object node preserving the given key order.
func FromKeyVals(kvs ...KeyVal) *Node {
	return FromKeyValsAt(&Node{}, kvs)
}

func FromKeyValsAt(res *Node, kvs []KeyVal) *Node {
	res.Type = ObjectType
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		if kv.Val == nil {
			kv.Val = Null()
		}
		key := &Node{
			Type:        StringType,
			String:      kv.Key,
			Parent:      res,
			ParentIndex: i,
			ParentField: kv.Key,
		}
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Val.ParentField = kv.Key
		res.Fields[i] = key
		res.Values[i] = kv.Val
	}
	return res
}

func FromSlice(vs []*Node) *Node {
	res := &Node{Type: ArrayType}
	res.Values = make([]*Node, len(vs))
	for i, y := range vs {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
	}
	return res
}

// Get returns the value under field, or nil when absent.
func Get(y *Node, field string) *Node {
	for i := range y.Fields {
		if y.Fields[i].String == field {
			return y.Values[i]
		}
	}
	return nil
}

// Put appends or replaces the value under field, preserving the position
// of an existing key.
func Put(y *Node, field string, val *Node) {
	for i := range y.Fields {
		if y.Fields[i].String == field {
			val.Parent = y
			val.ParentIndex = i
			val.ParentField = field
			y.Values[i] = val
			return
		}
	}
	i := len(y.Fields)
	key := &Node{Type: StringType, String: field, Parent: y, ParentIndex: i, ParentField: field}
	val.Parent = y
	val.ParentIndex = i
	val.ParentField = field
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, val)
}

// Keys returns the object's keys in declaration order.
func (y *Node) Keys() []string {
	res := make([]string, len(y.Fields))
	for i, f := range y.Fields {
		res[i] = f.String
	}
	return res
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Tag = y.Tag
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Int64 = y.Int64
	dst.Float64 = y.Float64
	dst.Time = y.Time
	dst.TimeKind = y.TimeKind
	if y.Lines != nil {
		dst.Lines = append([]string(nil), y.Lines...)
	}
	dst.Fields = make([]*Node, len(y.Fields))
	dst.Values = make([]*Node, len(y.Values))
	for i, yf := range y.Fields {
		f := &Node{}
		yf.CloneTo(f)
		f.Parent = dst
		f.ParentIndex = i
		dst.Fields[i] = f
	}
	for i, yv := range y.Values {
		v := &Node{}
		yv.CloneTo(v)
		v.Parent = dst
		v.ParentIndex = i
		dst.Values[i] = v
	}
	if y.Comment != nil {
		c := &Node{}
		y.Comment.CloneTo(c)
		c.Parent = dst
		dst.Comment = c
	}
	return dst
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Visit walks the tree pre- and post-order. The callback's bool return
// controls whether values are descended into.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
