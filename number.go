package dynops

import "strconv"

// Number is the adapter-neutral numeric scalar passed between the algebra and
// its adapters. It holds either an integer or a floating-point payload; the
// narrowing accessors follow two's-complement truncation, so byte/short/int
// views of out-of-range values wrap rather than saturate.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// IntNumber returns a Number holding an integer payload.
func IntNumber(i int64) Number { return Number{i: i} }

// FloatNumber returns a Number holding a floating-point payload.
func FloatNumber(f float64) Number { return Number{f: f, isFloat: true} }

// ParseNumber parses a decimal literal, preferring the integer payload when
// the text has no fraction or exponent.
func ParseNumber(s string) (Number, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntNumber(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, err
	}
	return FloatNumber(f), nil
}

// IsFloat reports whether the payload is floating-point.
func (n Number) IsFloat() bool { return n.isFloat }

// Int64 returns the payload as an int64, truncating a float toward zero.
func (n Number) Int64() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	return n.i
}

// Float64 returns the payload as a float64.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n Number) Byte() int8      { return int8(n.Int64()) }
func (n Number) Short() int16    { return int16(n.Int64()) }
func (n Number) Int() int32      { return int32(n.Int64()) }
func (n Number) Long() int64     { return n.Int64() }
func (n Number) Float() float32  { return float32(n.Float64()) }
func (n Number) Double() float64 { return n.Float64() }

// Equal reports numeric equality: integer and floating payloads representing
// the same value compare equal.
func (n Number) Equal(o Number) bool {
	if !n.isFloat && !o.isFloat {
		return n.i == o.i
	}
	return n.Float64() == o.Float64()
}

// String renders the shortest decimal text that round-trips through
// ParseNumber to a numerically equal value.
func (n Number) String() string {
	if n.isFloat {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}
