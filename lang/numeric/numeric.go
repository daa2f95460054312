// Package numeric defines the numeric backend Calc4's language core is
// parametrized over. The language has no floating point (spec.md §1
// Non-goals); every value, from the constant table to the value stack, is
// one of the wrapping signed integer backends named below.
package numeric

import "math"

// Number is the type constraint satisfied by the integer backends the
// Calc4 language core supports. 32-bit and 64-bit backends are required;
// an arbitrary-precision backend is an acknowledged future extension point
// (see SPEC_FULL.md) and is not implemented here.
type Number interface {
	~int32 | ~int64
}

// Truth reports whether v is considered "true" by Calc4's conditional
// operator and short-circuit logical operators: any non-zero value.
func Truth[N Number](v N) bool { return v != 0 }

// Bool converts a boolean to Calc4's 0/1 representation, the value every
// comparison operator produces (spec.md §3.4).
func Bool[N Number](b bool) N {
	if b {
		return 1
	}
	return 0
}

// FitsInt16 reports whether v fits in a signed 16-bit bytecode immediate
// (spec.md §3.8) and returns the narrowed value if so.
func FitsInt16[N Number](v N) (int16, bool) {
	iv := int64(v)
	if iv < math.MinInt16 || iv > math.MaxInt16 {
		return 0, false
	}
	return int16(iv), true
}

// Add, Sub, Mult perform wrapping arithmetic: Go defines overflow of
// signed integer arithmetic on fixed-width types as two's-complement
// wraparound, which is exactly the semantics spec.md §4.3 and §9 require
// ("wrapping/two's complement... as the target type defines").
func Add[N Number](a, b N) N { return a + b }
func Sub[N Number](a, b N) N { return a - b }
func Mult[N Number](a, b N) N { return a * b }

// Div and Mod perform truncating division/modulus without any
// zero-division check; calling them with b == 0 panics (Go's native
// behavior for integer division), matching the unchecked opcode's
// contract in spec.md §4.5: the division must still "raise at runtime",
// it is simply not converted to Calc4's own typed ZeroDivision error.
func Div[N Number](a, b N) N { return a / b }
func Mod[N Number](a, b N) N { return a % b }

// Compare returns -1, 0 or +1 according to whether a is less than, equal
// to, or greater than b.
func Compare[N Number](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}
