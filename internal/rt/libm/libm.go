// Package libm is the fixed-iteration math library. Every transcendental
// function is a truncated series with explicit range reduction and a fixed
// iteration count; accuracy targets the embedded consumers' numeric
// operations, not IEEE-754 conformance. Domain errors return sentinels
// instead of signaling.
package libm

const (
	pi     = 3.14159265358979324
	twoPi  = 6.28318530717958648
	halfPi = 1.57079632679489662
	ln2    = 0.693147180559945309
	ln10   = 2.302585092994045684
)

var (
	zero   = 0.0
	posInf = 1.0 / zero
	negInf = -1.0 / zero
)

// Fabs returns |x|.
func Fabs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Fmod returns x - trunc(x/y)*y. A zero divisor yields zero, not a fault.
func Fmod(x, y float64) float64 {
	if y == 0.0 {
		return 0.0
	}
	return x - float64(int64(x/y))*y
}

// Floor rounds toward negative infinity by integer truncation.
func Floor(x float64) float64 {
	i := int64(x)
	if x < 0.0 && x != float64(i) {
		return float64(i - 1)
	}
	return float64(i)
}

// Ceil rounds toward positive infinity by integer truncation.
func Ceil(x float64) float64 {
	i := int64(x)
	if x > 0.0 && x != float64(i) {
		return float64(i + 1)
	}
	return float64(i)
}

// Sqrt is Newton-Raphson from a half-input guess, 64 iterations. Negative
// input and zero both map to zero.
func Sqrt(x float64) float64 {
	if x <= 0.0 {
		return 0.0
	}
	guess := x / 2.0
	for i := 0; i < 64; i++ {
		guess = (guess + x/guess) / 2.0
	}
	return guess
}

// Log reduces the mantissa into [1,2) tracking the binary exponent, runs a
// 20-term Taylor series around 1, and reassembles as exp*ln2 + ln(m).
// Non-positive input returns a large-magnitude negative sentinel.
func Log(x float64) float64 {
	if x <= 0 {
		return -1.0e308
	}
	exp := 0
	m := x
	for m >= 2.0 {
		m /= 2.0
		exp++
	}
	for m < 1.0 {
		m *= 2.0
		exp--
	}
	result := 0.0
	u := m - 1.0
	term := u
	for i := 1; i <= 20; i++ {
		result += term / float64(i)
		term *= -u
	}
	return result + float64(exp)*ln2
}

// Log2 is Log scaled by ln2.
func Log2(x float64) float64 { return Log(x) / ln2 }

// Log10 is Log scaled by ln10.
func Log10(x float64) float64 { return Log(x) / ln10 }

// Exp is a 30-term Taylor series with no range reduction; the consumers
// only pass bounded magnitudes.
func Exp(x float64) float64 {
	result := 1.0
	term := 1.0
	for i := 1; i <= 30; i++ {
		term *= x / float64(i)
		result += term
	}
	return result
}

// Pow uses exponentiation by squaring for integer exponents in (0, 64) and
// falls back to exp(e*log(b)) otherwise. Zero exponent yields one, zero
// base yields zero.
func Pow(base, exponent float64) float64 {
	if exponent == 0.0 {
		return 1.0
	}
	if base == 0.0 {
		return 0.0
	}
	if exponent == float64(int64(exponent)) && exponent > 0 && exponent < 64 {
		result := 1.0
		n := int64(exponent)
		b := base
		for n > 0 {
			if n&1 != 0 {
				result *= b
			}
			b *= b
			n >>= 1
		}
		return result
	}
	return Exp(exponent * Log(base))
}

// Ldexp returns x * 2^exp by repeated doubling or halving.
func Ldexp(x float64, exp int32) float64 {
	for exp > 0 {
		x *= 2.0
		exp--
	}
	for exp < 0 {
		x /= 2.0
		exp++
	}
	return x
}

// Frexp splits x into a mantissa in [0.5, 1) and a binary exponent.
func Frexp(x float64) (float64, int32) {
	var exp int32
	if x == 0.0 {
		return 0.0, 0
	}
	neg := false
	if x < 0 {
		neg = true
		x = -x
	}
	for x >= 1.0 {
		x /= 2.0
		exp++
	}
	for x < 0.5 {
		x *= 2.0
		exp--
	}
	if neg {
		return -x, exp
	}
	return x, exp
}

// Isnan detects NaN by self-inequality.
func Isnan(x float64) bool {
	return x != x
}

// Isinf detects either infinity by comparison against the two signed
// division-by-zero results.
func Isinf(x float64) bool {
	return x == posInf || x == negInf
}

// reduceAngle folds x into [-pi, pi] via truncating division by 2*pi.
func reduceAngle(x float64) float64 {
	x = x - twoPi*float64(int64(x/twoPi))
	if x > pi {
		x -= twoPi
	}
	if x < -pi {
		x += twoPi
	}
	return x
}

// Sin reduces into [-pi, pi], then runs a 12-term alternating Taylor
// series.
func Sin(x float64) float64 {
	x = reduceAngle(x)
	term := x
	sum := x
	for i := 1; i <= 12; i++ {
		term *= -x * x / float64((2*i)*(2*i+1))
		sum += term
	}
	return sum
}

// Cos reduces into [-pi, pi], then runs a 12-term alternating Taylor
// series.
func Cos(x float64) float64 {
	x = reduceAngle(x)
	term := 1.0
	sum := 1.0
	for i := 1; i <= 12; i++ {
		term *= -x * x / float64((2*i-1)*(2*i))
		sum += term
	}
	return sum
}

// Tan is sin/cos; a zero cosine maps to a large sentinel rather than a
// true infinity.
func Tan(x float64) float64 {
	c := Cos(x)
	if c == 0.0 {
		return 1.0e308
	}
	return Sin(x) / c
}

// Atan runs a 20-term Taylor series for |x| <= 1 and folds larger inputs
// through the reciprocal identity.
func Atan(x float64) float64 {
	if x > 1.0 {
		return halfPi - Atan(1.0/x)
	}
	if x < -1.0 {
		return -halfPi - Atan(1.0/x)
	}
	term := x
	sum := x
	x2 := x * x
	for i := 1; i <= 20; i++ {
		term *= -x2
		sum += term / float64(2*i+1)
	}
	return sum
}

// Atan2 composes Atan with the quadrant corrections; the origin maps to
// zero.
func Atan2(y, x float64) float64 {
	switch {
	case x > 0:
		return Atan(y / x)
	case x < 0 && y >= 0:
		return Atan(y/x) + pi
	case x < 0 && y < 0:
		return Atan(y/x) - pi
	case x == 0 && y > 0:
		return halfPi
	case x == 0 && y < 0:
		return -halfPi
	}
	return 0.0
}

// Asin is atan2(x, sqrt(1-x^2)) with exact endpoint handling at +/-1.
func Asin(x float64) float64 {
	if x >= 1.0 {
		return halfPi
	}
	if x <= -1.0 {
		return -halfPi
	}
	return Atan2(x, Sqrt(1.0-x*x))
}

// Acos is pi/2 - asin(x).
func Acos(x float64) float64 {
	return halfPi - Asin(x)
}

// Fmin ignores a NaN operand in favor of the other.
func Fmin(a, b float64) float64 {
	if Isnan(a) {
		return b
	}
	if Isnan(b) {
		return a
	}
	if a < b {
		return a
	}
	return b
}

// Fmax ignores a NaN operand in favor of the other.
func Fmax(a, b float64) float64 {
	if Isnan(a) {
		return b
	}
	if Isnan(b) {
		return a
	}
	if a > b {
		return a
	}
	return b
}
