// Package str implements the string and memory primitives over guest
// memory. All pointers are guest addresses; a scan past a region boundary
// surfaces as a memory fault error instead of running forever.
package str

import (
	"github.com/skiff-os/crt/internal/machine"
)

// Strlen returns the length of the NUL-terminated string at s.
func Strlen(m *machine.Machine, s uint64) (uint64, error) {
	var n uint64
	for {
		b, err := m.MemReadU8(s + n)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return n, nil
		}
		n++
	}
}

// Strcmp compares two NUL-terminated strings byte-wise.
func Strcmp(m *machine.Machine, s1, s2 uint64) (int32, error) {
	for {
		a, err := m.MemReadU8(s1)
		if err != nil {
			return 0, err
		}
		b, err := m.MemReadU8(s2)
		if err != nil {
			return 0, err
		}
		if a == 0 || a != b {
			return int32(a) - int32(b), nil
		}
		s1++
		s2++
	}
}

// Strncmp compares at most n bytes of two NUL-terminated strings.
func Strncmp(m *machine.Machine, s1, s2, n uint64) (int32, error) {
	if n == 0 {
		return 0, nil
	}
	for {
		a, err := m.MemReadU8(s1)
		if err != nil {
			return 0, err
		}
		b, err := m.MemReadU8(s2)
		if err != nil {
			return 0, err
		}
		n--
		if n == 0 || a == 0 || a != b {
			return int32(a) - int32(b), nil
		}
		s1++
		s2++
	}
}

// Strcpy copies the string at src, including the terminator, into dst.
// Returns dst.
func Strcpy(m *machine.Machine, dst, src uint64) (uint64, error) {
	for i := uint64(0); ; i++ {
		b, err := m.MemReadU8(src + i)
		if err != nil {
			return 0, err
		}
		if err := m.MemWriteU8(dst+i, b); err != nil {
			return 0, err
		}
		if b == 0 {
			return dst, nil
		}
	}
}

// Strncpy copies at most n bytes from src, then pads the remaining
// capacity with NULs. Note the conventional hazard survives: when src is
// at least n bytes long, dst is not terminated.
func Strncpy(m *machine.Machine, dst, src, n uint64) (uint64, error) {
	var i uint64
	for ; i < n; i++ {
		b, err := m.MemReadU8(src + i)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		if err := m.MemWriteU8(dst+i, b); err != nil {
			return 0, err
		}
	}
	for ; i < n; i++ {
		if err := m.MemWriteU8(dst+i, 0); err != nil {
			return 0, err
		}
	}
	return dst, nil
}

// Strcat appends the string at src to the string at dst. Returns dst.
func Strcat(m *machine.Machine, dst, src uint64) (uint64, error) {
	n, err := Strlen(m, dst)
	if err != nil {
		return 0, err
	}
	if _, err := Strcpy(m, dst+n, src); err != nil {
		return 0, err
	}
	return dst, nil
}

// Strncat appends at most n bytes from src to the string at dst and always
// terminates the result. Returns dst.
func Strncat(m *machine.Machine, dst, src, n uint64) (uint64, error) {
	d, err := Strlen(m, dst)
	if err != nil {
		return 0, err
	}
	d += dst
	for ; n > 0; n-- {
		b, err := m.MemReadU8(src)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		if err := m.MemWriteU8(d, b); err != nil {
			return 0, err
		}
		d++
		src++
	}
	if err := m.MemWriteU8(d, 0); err != nil {
		return 0, err
	}
	return dst, nil
}

// Strchr returns the address of the first occurrence of byte c in the
// string at s, or 0. Searching for NUL finds the terminator.
func Strchr(m *machine.Machine, s uint64, c int32) (uint64, error) {
	want := byte(c)
	for {
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			if want == 0 {
				return s, nil
			}
			return 0, nil
		}
		if b == want {
			return s, nil
		}
		s++
	}
}

// Strrchr returns the address of the last occurrence of byte c, or 0.
// Searching for NUL finds the terminator.
func Strrchr(m *machine.Machine, s uint64, c int32) (uint64, error) {
	want := byte(c)
	var last uint64
	for {
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			if want == 0 {
				return s, nil
			}
			return last, nil
		}
		if b == want {
			last = s
		}
		s++
	}
}

// Strstr returns the address of the first occurrence of needle within
// haystack, or 0. An empty needle matches at haystack.
func Strstr(m *machine.Machine, haystack, needle uint64) (uint64, error) {
	first, err := m.MemReadU8(needle)
	if err != nil {
		return 0, err
	}
	if first == 0 {
		return haystack, nil
	}
	for {
		hb, err := m.MemReadU8(haystack)
		if err != nil {
			return 0, err
		}
		if hb == 0 {
			return 0, nil
		}
		var i uint64
		for {
			nb, err := m.MemReadU8(needle + i)
			if err != nil {
				return 0, err
			}
			if nb == 0 {
				return haystack, nil
			}
			cb, err := m.MemReadU8(haystack + i)
			if err != nil {
				return 0, err
			}
			if cb == 0 || cb != nb {
				break
			}
			i++
		}
		haystack++
	}
}

// Strspn counts the leading bytes of s that are all drawn from accept.
func Strspn(m *machine.Machine, s, accept uint64) (uint64, error) {
	var n uint64
	for {
		b, err := m.MemReadU8(s + n)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return n, nil
		}
		hit, err := setContains(m, accept, b)
		if err != nil {
			return 0, err
		}
		if !hit {
			return n, nil
		}
		n++
	}
}

// Strcspn counts the leading bytes of s that are all absent from reject.
func Strcspn(m *machine.Machine, s, reject uint64) (uint64, error) {
	var n uint64
	for {
		b, err := m.MemReadU8(s + n)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return n, nil
		}
		hit, err := setContains(m, reject, b)
		if err != nil {
			return 0, err
		}
		if hit {
			return n, nil
		}
		n++
	}
}

// Strpbrk returns the address of the first byte of s present in accept,
// or 0.
func Strpbrk(m *machine.Machine, s, accept uint64) (uint64, error) {
	for {
		b, err := m.MemReadU8(s)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, nil
		}
		hit, err := setContains(m, accept, b)
		if err != nil {
			return 0, err
		}
		if hit {
			return s, nil
		}
		s++
	}
}

func setContains(m *machine.Machine, set uint64, b byte) (bool, error) {
	for {
		c, err := m.MemReadU8(set)
		if err != nil {
			return false, err
		}
		if c == 0 {
			return false, nil
		}
		if c == b {
			return true, nil
		}
		set++
	}
}

// Memchr returns the address of the first occurrence of byte c within the
// n bytes at s, or 0.
func Memchr(m *machine.Machine, s uint64, c int32, n uint64) (uint64, error) {
	want := byte(c)
	for i := uint64(0); i < n; i++ {
		b, err := m.MemReadU8(s + i)
		if err != nil {
			return 0, err
		}
		if b == want {
			return s + i, nil
		}
	}
	return 0, nil
}

// Memcmp compares n bytes at s1 and s2.
func Memcmp(m *machine.Machine, s1, s2, n uint64) (int32, error) {
	for i := uint64(0); i < n; i++ {
		a, err := m.MemReadU8(s1 + i)
		if err != nil {
			return 0, err
		}
		b, err := m.MemReadU8(s2 + i)
		if err != nil {
			return 0, err
		}
		if a != b {
			return int32(a) - int32(b), nil
		}
	}
	return 0, nil
}

// Memcpy copies n bytes from src to dst. The copy goes through a host
// buffer, so overlapping ranges behave like memmove. Returns dst.
func Memcpy(m *machine.Machine, dst, src, n uint64) (uint64, error) {
	if n == 0 {
		return dst, nil
	}
	data, err := m.MemRead(src, n)
	if err != nil {
		return 0, err
	}
	if err := m.MemWrite(dst, data); err != nil {
		return 0, err
	}
	return dst, nil
}

// Memmove copies n bytes from src to dst, correct for overlap. Returns dst.
func Memmove(m *machine.Machine, dst, src, n uint64) (uint64, error) {
	return Memcpy(m, dst, src, n)
}

// Memset fills n bytes at dst with byte c. Returns dst.
func Memset(m *machine.Machine, dst uint64, c int32, n uint64) (uint64, error) {
	if n == 0 {
		return dst, nil
	}
	data := make([]byte, n)
	if b := byte(c); b != 0 {
		for i := range data {
			data[i] = b
		}
	}
	if err := m.MemWrite(dst, data); err != nil {
		return 0, err
	}
	return dst, nil
}
