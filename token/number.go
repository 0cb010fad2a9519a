package token

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrBadNumber = errors.New("bad number")

// NumberOpts selects the numeric-literal extensions a dialect permits
// beyond the strict JSON grammar.
type NumberOpts struct {
	// LeadingZeros permits decimal literals such as 007.
	LeadingZeros bool
	// LeadingDot permits literals such as .5; TrailingDot permits 5.
	LeadingDot  bool
	TrailingDot bool
	// HexOctBin permits 0x, 0o, and 0b prefixed integers.
	HexOctBin bool
	// Underscores permits underscore digit separators.
	Underscores bool
	// InfNaN permits the words inf and nan; JSInfNaN permits Infinity
	// and NaN.
	InfNaN   bool
	JSInfNaN bool
	// PlusSign permits a leading plus.
	PlusSign bool
}

// Number is a parsed numeric literal retaining its integer-versus-float
// distinction.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

// ParseNumber parses lit under the given policy. The literal must be the
// complete token, delimiters excluded.
func ParseNumber(lit string, opts NumberOpts) (Number, error) {
	body := lit
	neg := false
	switch {
	case strings.HasPrefix(body, "-"):
		neg = true
		body = body[1:]
	case strings.HasPrefix(body, "+"):
		if !opts.PlusSign {
			return Number{}, fmt.Errorf("%w: leading + in %q", ErrBadNumber, lit)
		}
		body = body[1:]
	}

	if f, ok := specialFloat(body, opts); ok {
		if neg {
			f = -f
		}
		return Number{IsFloat: true, Float: f}, nil
	}

	if opts.HexOctBin && len(body) > 1 && body[0] == '0' {
		base := 0
		switch body[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			digits := body[2:]
			if opts.Underscores {
				digits = strings.ReplaceAll(digits, "_", "")
			}
			v, err := strconv.ParseInt(digits, base, 64)
			if err != nil {
				return Number{}, fmt.Errorf("%w: %q", ErrBadNumber, lit)
			}
			if neg {
				v = -v
			}
			return Number{Int: v}, nil
		}
	}

	if opts.Underscores {
		if strings.HasPrefix(body, "_") || strings.HasSuffix(body, "_") || strings.Contains(body, "__") {
			return Number{}, fmt.Errorf("%w: misplaced underscore in %q", ErrBadNumber, lit)
		}
		body = strings.ReplaceAll(body, "_", "")
	}
	if body == "" {
		return Number{}, fmt.Errorf("%w: %q", ErrBadNumber, lit)
	}

	isFloat := strings.ContainsAny(body, ".eE")
	if strings.HasPrefix(body, ".") {
		if !opts.LeadingDot {
			return Number{}, fmt.Errorf("%w: leading decimal point in %q", ErrBadNumber, lit)
		}
		body = "0" + body
	}
	if strings.HasSuffix(body, ".") {
		if !opts.TrailingDot {
			return Number{}, fmt.Errorf("%w: trailing decimal point in %q", ErrBadNumber, lit)
		}
		body += "0"
	}
	if !opts.LeadingZeros && len(body) > 1 && body[0] == '0' && body[1] >= '0' && body[1] <= '9' {
		return Number{}, fmt.Errorf("%w: leading zero in %q", ErrBadNumber, lit)
	}

	if isFloat {
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return Number{}, fmt.Errorf("%w: %q", ErrBadNumber, lit)
		}
		if neg {
			f = -f
		}
		return Number{IsFloat: true, Float: f}, nil
	}
	v, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q", ErrBadNumber, lit)
	}
	if neg {
		v = -v
	}
	return Number{Int: v}, nil
}

func specialFloat(body string, opts NumberOpts) (float64, bool) {
	switch body {
	case "inf":
		if opts.InfNaN {
			return math.Inf(1), true
		}
	case "nan":
		if opts.InfNaN {
			return math.NaN(), true
		}
	case "Infinity":
		if opts.JSInfNaN {
			return math.Inf(1), true
		}
	case "NaN":
		if opts.JSInfNaN {
			return math.NaN(), true
		}
	}
	return 0, false
}

// StartsNumber reports whether c can begin a numeric literal under the
// given policy.
func StartsNumber(c byte, opts NumberOpts) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '-':
		return true
	case c == '+':
		return opts.PlusSign
	case c == '.':
		return opts.LeadingDot
	}
	return false
}
