// Package stdlib implements numeric parsing, the generic sort and search
// routines, and process termination.
package stdlib

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt/ctype"
)

// Strtol parses a signed integer at nptr. Base 0 auto-detects: a 0x/0X
// prefix selects 16, a leading 0 selects 8, anything else 10. Parsing stops
// at the first byte invalid in the chosen base; end is its address. There
// is no overflow clamping: digit accumulation wraps like the consumers'
// own build of this routine does.
func Strtol(m *machine.Machine, nptr uint64, base int32) (int64, uint64, error) {
	s := nptr
	var result int64
	neg := false

	for {
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, 0, err
		}
		sp, err := ctype.Isspace(m, int32(b))
		if err != nil {
			return 0, 0, err
		}
		if !sp {
			break
		}
		s++
	}

	b, err := m.MemReadU8(s)
	if err != nil {
		return 0, 0, err
	}
	if b == '-' {
		neg = true
		s++
	} else if b == '+' {
		s++
	}

	b0, err := m.MemReadU8(s)
	if err != nil {
		return 0, 0, err
	}
	b1, err := m.MemReadU8(s + 1)
	if err != nil {
		b1 = 0
	}
	if base == 0 {
		switch {
		case b0 == '0' && (b1 == 'x' || b1 == 'X'):
			base = 16
			s += 2
		case b0 == '0':
			base = 8
		default:
			base = 10
		}
	} else if base == 16 && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		s += 2
	}

	for {
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, 0, err
		}
		if b == 0 {
			break
		}
		var digit int32
		switch {
		case b >= '0' && b <= '9':
			digit = int32(b - '0')
		case b >= 'a' && b <= 'z':
			digit = int32(b-'a') + 10
		case b >= 'A' && b <= 'Z':
			digit = int32(b-'A') + 10
		default:
			digit = -1
		}
		if digit < 0 || digit >= base {
			break
		}
		result = result*int64(base) + int64(digit)
		s++
	}

	if neg {
		result = -result
	}
	return result, s, nil
}

// Strtod parses a floating-point number at nptr: sign, integer digits, an
// optional fraction after '.', and an optional e/E exponent. The mantissa
// accumulates digit by digit in a double; the exponent scales by a repeated
// power of ten.
func Strtod(m *machine.Machine, nptr uint64) (float64, uint64, error) {
	s := nptr
	var result float64
	neg := false

	for {
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, 0, err
		}
		sp, err := ctype.Isspace(m, int32(b))
		if err != nil {
			return 0, 0, err
		}
		if !sp {
			break
		}
		s++
	}

	b, err := m.MemReadU8(s)
	if err != nil {
		return 0, 0, err
	}
	if b == '-' {
		neg = true
		s++
	} else if b == '+' {
		s++
	}

	for {
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, 0, err
		}
		if b < '0' || b > '9' {
			break
		}
		result = result*10.0 + float64(b-'0')
		s++
	}

	b, err = m.MemReadU8(s)
	if err != nil {
		return 0, 0, err
	}
	if b == '.' {
		s++
		frac := 0.1
		for {
			b, err := m.MemReadU8(s)
			if err != nil {
				return 0, 0, err
			}
			if b < '0' || b > '9' {
				break
			}
			result += float64(b-'0') * frac
			frac *= 0.1
			s++
		}
	}

	b, err = m.MemReadU8(s)
	if err != nil {
		return 0, 0, err
	}
	if b == 'e' || b == 'E' {
		s++
		expNeg := false
		exp := 0
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, 0, err
		}
		if b == '-' {
			expNeg = true
			s++
		} else if b == '+' {
			s++
		}
		for {
			b, err := m.MemReadU8(s)
			if err != nil {
				return 0, 0, err
			}
			if b < '0' || b > '9' {
				break
			}
			exp = exp*10 + int(b-'0')
			s++
		}
		mult := 1.0
		for i := 0; i < exp; i++ {
			mult *= 10.0
		}
		if expNeg {
			result /= mult
		} else {
			result *= mult
		}
	}

	if neg {
		result = -result
	}
	return result, s, nil
}

// Atoi parses a base-10 integer, discarding the end position.
func Atoi(m *machine.Machine, s uint64) (int32, error) {
	v, _, err := Strtol(m, s, 10)
	return int32(v), err
}

// Atof parses a double, discarding the end position.
func Atof(m *machine.Machine, s uint64) (float64, error) {
	v, _, err := Strtod(m, s)
	return v, err
}

// Abs returns |x|, guarding the INT_MIN case instead of overflowing.
func Abs(x int32) int32 {
	if x == -2147483648 {
		return 2147483647
	}
	if x < 0 {
		return -x
	}
	return x
}
