package ir

import (
	"testing"
	"time"
)

func TestGetPut(t *testing.T) {
	n := FromKeyVals(
		KeyVal{Key: "a", Val: FromInt(1)},
		KeyVal{Key: "b", Val: FromString("x")},
	)
	if got := Get(n, "a"); got == nil || got.Int64 != 1 {
		t.Fatalf("Get(a) = %+v", got)
	}
	if got := Get(n, "missing"); got != nil {
		t.Fatalf("Get(missing) = %+v", got)
	}

	// Replacing keeps the key's position.
	Put(n, "a", FromInt(2))
	if got := n.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys = %v", got)
	}
	if got := Get(n, "a"); got.Int64 != 2 {
		t.Fatalf("replaced a = %+v", got)
	}

	Put(n, "c", Null())
	if got := n.Keys(); len(got) != 3 || got[2] != "c" {
		t.Fatalf("Keys after append = %v", got)
	}
	if got := Get(n, "c"); got.Parent != n || got.ParentIndex != 2 || got.ParentField != "c" {
		t.Fatalf("appended child links = %+v", got)
	}
}

func TestNilValBecomesNull(t *testing.T) {
	n := FromKeyVals(KeyVal{Key: "a"})
	if got := Get(n, "a"); got == nil || got.Type != NullType {
		t.Fatalf("Get(a) = %+v", got)
	}
}

func TestClone(t *testing.T) {
	n := FromKeyVals(
		KeyVal{Key: "a", Val: FromSlice([]*Node{FromInt(1), FromBool(true)})},
		KeyVal{Key: "b", Val: FromString("x").WithComment("about b")},
	)
	c := n.Clone()
	if !Equal(n, c) {
		t.Fatal("clone not equal to original")
	}
	Put(c, "a", FromInt(9))
	if Equal(n, c) {
		t.Fatal("mutating clone changed original")
	}
	if got := Get(n.Clone(), "b").CommentLines(); len(got) != 1 || got[0] != "about b" {
		t.Fatalf("clone comments = %v", got)
	}
}

func TestRoot(t *testing.T) {
	inner := FromInt(1)
	n := FromKeyVals(KeyVal{Key: "a", Val: FromKeyVals(KeyVal{Key: "b", Val: inner})})
	if got := inner.Root(); got != n {
		t.Fatalf("Root = %p, want %p", got, n)
	}
}

func TestVisit(t *testing.T) {
	n := FromKeyVals(
		KeyVal{Key: "a", Val: FromInt(1)},
		KeyVal{Key: "b", Val: FromSlice([]*Node{FromInt(2), FromInt(3)})},
	)
	var sum int64
	err := n.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost && y.Type == IntType {
			sum += y.Int64
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum != 6 {
		t.Fatalf("sum = %d", sum)
	}

	// A false return prunes the subtree.
	var seen int
	n.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			seen++
		}
		return y.Type != ArrayType, nil
	})
	if seen != 3 {
		t.Fatalf("pruned visit saw %d nodes", seen)
	}
}

func TestEqual(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b *Node
		want bool
	}{
		{"null", Null(), Null(), true},
		{"null vs bool", Null(), FromBool(false), false},
		{"bool", FromBool(true), FromBool(true), true},
		{"int", FromInt(3), FromInt(3), true},
		{"int vs float", FromInt(3), FromFloat(3), false},
		{"string", FromString("a"), FromString("a"), true},
		{"time", FromTime(day, DateKind), FromTime(day, DateKind), true},
		{"time kind differs", FromTime(day, DateKind), FromTime(day, DateTimeKind), false},
		{"array", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(1)}), true},
		{"array length", FromSlice([]*Node{FromInt(1)}), FromSlice(nil), false},
		{
			"object order matters",
			FromKeyVals(KeyVal{Key: "a", Val: FromInt(1)}, KeyVal{Key: "b", Val: FromInt(2)}),
			FromKeyVals(KeyVal{Key: "b", Val: FromInt(2)}, KeyVal{Key: "a", Val: FromInt(1)}),
			false,
		},
		{
			"comments ignored",
			FromInt(1).WithComment("x"),
			FromInt(1),
			true,
		},
		{
			"tags ignored",
			FromInt(1).WithTag("!n"),
			FromInt(1),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Fatalf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeKindLayout(t *testing.T) {
	day := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	if got := day.Format(DateKind.Layout()); got != "2024-05-01" {
		t.Fatalf("date = %q", got)
	}
	if got := day.Format(TimeOnlyKind.Layout()); got != "09:30:00" {
		t.Fatalf("time = %q", got)
	}
	if got := day.Format(DateTimeKind.Layout()); got != "2024-05-01T09:30:00" {
		t.Fatalf("datetime = %q", got)
	}
}
