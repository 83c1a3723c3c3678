// Package stdio implements the bounded formatter, the console output
// bridge, and the stream-shaped placeholders.
package stdio

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

const digitsLower = "0123456789abcdef"
const digitsUpper = "0123456789ABCDEF"

// writer emits into a guest buffer of capacity n, never past n-1, while
// counting every character that would have been written. The terminator is
// written separately by finish.
type writer struct {
	m   *machine.Machine
	buf uint64
	n   uint64
	pos uint64
	err error
}

func (w *writer) emit(b byte) {
	if w.err == nil && w.pos < w.n-1 {
		w.err = w.m.MemWriteU8(w.buf+w.pos, b)
	}
	w.pos++
}

func (w *writer) emitInt(val int64) {
	var tmp [24]byte
	l := 0
	neg := false
	if val < 0 {
		neg = true
		val = -val
	}
	if val == 0 {
		tmp[l] = '0'
		l++
	}
	for val > 0 {
		tmp[l] = byte('0' + val%10)
		val /= 10
		l++
	}
	if neg {
		tmp[l] = '-'
		l++
	}
	for i := l - 1; i >= 0; i-- {
		w.emit(tmp[i])
	}
}

func (w *writer) emitUint(val uint64, base uint64, upper bool) {
	digits := digitsLower
	if upper {
		digits = digitsUpper
	}
	var tmp [24]byte
	l := 0
	if val == 0 {
		tmp[l] = '0'
		l++
	}
	for val > 0 {
		tmp[l] = digits[val%base]
		val /= base
		l++
	}
	for i := l - 1; i >= 0; i-- {
		w.emit(tmp[i])
	}
}

func (w *writer) emitFloat(val float64, precision int) {
	if val < 0 {
		w.emit('-')
		val = -val
	}
	ipart := uint64(val)
	w.emitUint(ipart, 10, false)
	if precision > 0 {
		w.emit('.')
		frac := val - float64(ipart)
		for i := 0; i < precision; i++ {
			frac *= 10.0
			d := int(frac)
			if d > 9 {
				d = 9
			}
			w.emit(byte('0' + d))
			frac -= float64(d)
		}
	}
}

func (w *writer) finish() {
	if w.err != nil {
		return
	}
	end := w.pos
	if end >= w.n {
		end = w.n - 1
	}
	w.err = w.m.MemWriteU8(w.buf+end, 0)
}

// Vsnprintf formats into the guest buffer at buf with capacity n. At most
// n-1 characters are stored and a terminator is always written, even on
// truncation. The return value is the count of characters that would have
// been written given unlimited capacity.
//
// Directives: %d %i %u %x %X %o (with l/ll/z width modifiers), %f (and
// %e/%E/%g/%G via the fixed-point path), %s with precision truncation, %c,
// %p, %%. Zero-padding and left-alignment flags and widths are parsed but
// padding beyond digit emission is not applied; %n is parsed and ignored.
func Vsnprintf(m *machine.Machine, buf, n uint64, format string, args []rt.Value) (int32, error) {
	if n == 0 {
		return 0, nil
	}
	w := &writer{m: m, buf: buf, n: n}
	argIdx := 0
	nextArg := func() rt.Value {
		v := rt.Arg(args, argIdx)
		argIdx++
		return v
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			w.emit(c)
			i++
			continue
		}
		i++
		if i >= len(format) {
			break
		}

		for i < len(format) {
			c = format[i]
			if c == '0' || c == '-' || c == ' ' || c == '+' {
				i++
				continue
			}
			break
		}

		width := 0
		if i < len(format) && format[i] == '*' {
			width = int(nextArg().Int())
			i++
		} else {
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				width = width*10 + int(format[i]-'0')
				i++
			}
		}
		_ = width

		precision := -1
		if i < len(format) && format[i] == '.' {
			i++
			precision = 0
			if i < len(format) && format[i] == '*' {
				precision = int(nextArg().Int())
				i++
			} else {
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					precision = precision*10 + int(format[i]-'0')
					i++
				}
			}
		}

		// Length modifiers select which C width the argument carried;
		// every Value is already 64-bit, so they only need skipping.
		if i < len(format) && format[i] == 'l' {
			i++
			if i < len(format) && format[i] == 'l' {
				i++
			}
		} else if i < len(format) && format[i] == 'z' {
			i++
		}
		if i >= len(format) {
			break
		}

		switch verb := format[i]; verb {
		case 'd', 'i':
			w.emitInt(nextArg().Int())
		case 'u':
			w.emitUint(nextArg().Uint(), 10, false)
		case 'x', 'X':
			w.emitUint(nextArg().Uint(), 16, verb == 'X')
		case 'o':
			w.emitUint(nextArg().Uint(), 8, false)
		case 'f', 'e', 'E', 'g', 'G':
			prec := 6
			if precision >= 0 {
				prec = precision
			}
			w.emitFloat(nextArg().Float(), prec)
		case 's':
			p := nextArg().Ptr()
			var s string
			if p == 0 {
				s = "(null)"
			} else {
				read, err := m.MemReadString(p, 1<<20)
				if err != nil {
					return 0, err
				}
				s = read
			}
			if precision >= 0 && precision < len(s) {
				s = s[:precision]
			}
			for j := 0; j < len(s); j++ {
				w.emit(s[j])
			}
		case 'c':
			w.emit(byte(nextArg().Int()))
		case 'p':
			w.emit('0')
			w.emit('x')
			w.emitUint(nextArg().Ptr(), 16, false)
		case '%':
			w.emit('%')
		case 'n':
			// Intentionally not supported.
		default:
			w.emit('%')
			w.emit(verb)
		}
		i++
	}

	w.finish()
	if w.err != nil {
		return 0, w.err
	}
	return int32(w.pos), nil
}

// Snprintf is Vsnprintf with the arguments already gathered.
func Snprintf(m *machine.Machine, buf, n uint64, format string, args ...rt.Value) (int32, error) {
	return Vsnprintf(m, buf, n, format, args)
}

// sprintfCap stands in for "no bound": sprintf has no capacity argument,
// and the consumers never format anywhere near this much.
const sprintfCap = 65536

// Sprintf formats with the conventional unbounded contract.
func Sprintf(m *machine.Machine, buf uint64, format string, args ...rt.Value) (int32, error) {
	return Vsnprintf(m, buf, sprintfCap, format, args)
}
