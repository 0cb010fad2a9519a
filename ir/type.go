package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	IntType
	FloatType
	StringType
	TimeType
	ArrayType
	ObjectType
	CommentType
)

func (t Type) String() string {
	switch t {
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case StringType:
		return "string"
	case TimeType:
		return "time"
	case ArrayType:
		return "array"
	case ObjectType:
		return "object"
	case CommentType:
		return "comment"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// IsScalar reports whether t is a leaf value type.
func (t Type) IsScalar() bool {
	switch t {
	case NullType, BoolType, IntType, FloatType, StringType, TimeType:
		return true
	}
	return false
}
