package value

import (
	"sync"
	"testing"
)

func TestBox(t *testing.T) {
	var b Box[int]
	if _, ok := b.Get(); ok {
		t.Fatal("empty box reports a value")
	}
	if got := b.Load(); got != 0 {
		t.Fatalf("Load() on empty box = %d", got)
	}
	b.Set(7)
	if v, ok := b.Get(); !ok || v != 7 {
		t.Fatalf("Get() = %d, %v", v, ok)
	}
	if prev := b.Swap(9); prev != 7 {
		t.Fatalf("Swap() = %d", prev)
	}
	if got := b.Load(); got != 9 {
		t.Fatalf("Load() = %d", got)
	}
	if v, ok := NewBox("x").Get(); !ok || v != "x" {
		t.Fatalf("NewBox Get() = %q, %v", v, ok)
	}
}

func TestBoxConcurrent(t *testing.T) {
	var b Box[int]
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			b.Set(i)
		}(i)
		go func() {
			defer wg.Done()
			b.Load()
		}()
	}
	wg.Wait()
	if _, ok := b.Get(); !ok {
		t.Fatal("box lost its value")
	}
}

func TestList(t *testing.T) {
	var l List[string]
	if l.Len() != 0 {
		t.Fatalf("Len() = %d", l.Len())
	}
	l.Append("a")
	l.Append("b")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d", l.Len())
	}
	var got []string
	l.Each(func(v string) { got = append(got, v) })
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Each order = %v", got)
	}
}

func TestListAppendDuringEach(t *testing.T) {
	var l List[int]
	l.Append(1)
	// Each walks a snapshot, so appending from the callback must not
	// deadlock or extend the walk.
	var calls int
	l.Each(func(int) {
		calls++
		l.Append(2)
	})
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d", l.Len())
	}
}
