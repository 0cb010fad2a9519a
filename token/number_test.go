package token

import (
	"errors"
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		opts  NumberOpts
		float bool
		i     int64
		f     float64
		bad   bool
	}{
		{name: "zero", in: "0"},
		{name: "int", in: "42", i: 42},
		{name: "negative", in: "-12", i: -12},
		{name: "float", in: "3.5", float: true, f: 3.5},
		{name: "exponent", in: "1e3", float: true, f: 1000},
		{name: "negative exponent", in: "2.5E-1", float: true, f: 0.25},
		{name: "zero point five", in: "0.5", float: true, f: 0.5},
		{name: "empty", in: "", bad: true},
		{name: "word", in: "abc", bad: true},
		{name: "leading zero", in: "007", bad: true},
		{name: "leading zero ok", in: "007", opts: NumberOpts{LeadingZeros: true}, i: 7},
		{name: "leading dot", in: ".5", bad: true},
		{name: "leading dot ok", in: ".5", opts: NumberOpts{LeadingDot: true}, float: true, f: 0.5},
		{name: "trailing dot", in: "5.", bad: true},
		{name: "trailing dot ok", in: "5.", opts: NumberOpts{TrailingDot: true}, float: true, f: 5},
		{name: "hex", in: "0x1F", opts: NumberOpts{HexOctBin: true}, i: 31},
		{name: "octal", in: "0o17", opts: NumberOpts{HexOctBin: true}, i: 15},
		{name: "binary", in: "0b101", opts: NumberOpts{HexOctBin: true}, i: 5},
		{name: "hex off", in: "0x1F", bad: true},
		{name: "underscores", in: "1_000_000", opts: NumberOpts{Underscores: true}, i: 1000000},
		{name: "leading underscore", in: "_1", opts: NumberOpts{Underscores: true}, bad: true},
		{name: "trailing underscore", in: "1_", opts: NumberOpts{Underscores: true}, bad: true},
		{name: "double underscore", in: "1__0", opts: NumberOpts{Underscores: true}, bad: true},
		{name: "plus", in: "+5", bad: true},
		{name: "plus ok", in: "+5", opts: NumberOpts{PlusSign: true}, i: 5},
		{name: "inf", in: "inf", opts: NumberOpts{InfNaN: true}, float: true, f: math.Inf(1)},
		{name: "neg inf", in: "-inf", opts: NumberOpts{InfNaN: true}, float: true, f: math.Inf(-1)},
		{name: "inf off", in: "inf", bad: true},
		{name: "js infinity", in: "Infinity", opts: NumberOpts{JSInfNaN: true}, float: true, f: math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(tt.in, tt.opts)
			if tt.bad {
				if !errors.Is(err, ErrBadNumber) {
					t.Fatalf("err = %v, want ErrBadNumber", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.IsFloat != tt.float {
				t.Fatalf("IsFloat = %v, want %v", got.IsFloat, tt.float)
			}
			if tt.float && got.Float != tt.f {
				t.Fatalf("Float = %v, want %v", got.Float, tt.f)
			}
			if !tt.float && got.Int != tt.i {
				t.Fatalf("Int = %v, want %v", got.Int, tt.i)
			}
		})
	}
}

func TestParseNumberNaN(t *testing.T) {
	got, err := ParseNumber("nan", NumberOpts{InfNaN: true})
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsFloat || !math.IsNaN(got.Float) {
		t.Fatalf("got %+v, want NaN", got)
	}
}

func TestStartsNumber(t *testing.T) {
	if !StartsNumber('5', NumberOpts{}) || !StartsNumber('-', NumberOpts{}) {
		t.Fatal("digit or minus rejected")
	}
	if StartsNumber('+', NumberOpts{}) {
		t.Fatal("plus accepted without PlusSign")
	}
	if !StartsNumber('.', NumberOpts{LeadingDot: true}) {
		t.Fatal("dot rejected with LeadingDot")
	}
	if StartsNumber('a', NumberOpts{HexOctBin: true}) {
		t.Fatal("letter accepted")
	}
}
