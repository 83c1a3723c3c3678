package stdlib

import (
	"math"
	"testing"

	"github.com/skiff-os/crt/internal/machine"
)

func newM(t *testing.T) *machine.Machine {
	t.Helper()
	m, err := machine.New(machine.Config{})
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	return m
}

func put(t *testing.T, m *machine.Machine, s string) uint64 {
	t.Helper()
	p := m.Alloc(uint64(len(s)) + 1)
	if p == 0 {
		t.Fatal("alloc failed")
	}
	if err := m.MemWriteString(p, s); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStrtol(t *testing.T) {
	m := newM(t)
	tests := []struct {
		in   string
		base int32
		want int64
		rest int // bytes consumed
	}{
		{"42", 10, 42, 2},
		{"  42", 10, 42, 4},
		{"-17", 10, -17, 3},
		{"+8", 10, 8, 2},
		{"0x1F", 0, 31, 4},
		{"0X1f", 0, 31, 4},
		{"017", 0, 15, 3},
		{"99", 0, 99, 2},
		{"1F", 16, 31, 2},
		{"0x1F", 16, 31, 4},
		{"1010", 2, 10, 4},
		{"12ab", 10, 12, 2},
		{"", 10, 0, 0},
		{"xyz", 10, 0, 0},
	}
	for _, tt := range tests {
		p := put(t, m, tt.in)
		v, end, err := Strtol(m, p, tt.base)
		if err != nil {
			t.Fatalf("Strtol(%q): %v", tt.in, err)
		}
		if v != tt.want {
			t.Errorf("Strtol(%q, %d) = %d, want %d", tt.in, tt.base, v, tt.want)
		}
		if end != p+uint64(tt.rest) {
			t.Errorf("Strtol(%q) end offset = %d, want %d", tt.in, end-p, tt.rest)
		}
	}
}

func TestStrtod(t *testing.T) {
	m := newM(t)
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"3.25e2", 325.0},
		{"1.5", 1.5},
		{"-1.5", -1.5},
		{"  2.5", 2.5},
		{"+0.125", 0.125},
		{"1e3", 1000},
		{"25e-1", 2.5},
		{"2E2", 200},
		{".5", 0.5},
		{"7abc", 7},
	}
	for _, tt := range tests {
		v, _, err := Strtod(m, put(t, m, tt.in))
		if err != nil {
			t.Fatalf("Strtod(%q): %v", tt.in, err)
		}
		if math.Abs(v-tt.want) > 1e-12*math.Max(1, math.Abs(tt.want)) {
			t.Errorf("Strtod(%q) = %v, want %v", tt.in, v, tt.want)
		}
	}
}

func TestStrtodEndPosition(t *testing.T) {
	m := newM(t)
	p := put(t, m, "3.25e2;")
	_, end, err := Strtod(m, p)
	if err != nil {
		t.Fatal(err)
	}
	if end != p+6 {
		t.Errorf("end offset = %d, want 6", end-p)
	}
}

func TestAtoiAtof(t *testing.T) {
	m := newM(t)

	v, err := Atoi(m, put(t, m, "-123"))
	if err != nil {
		t.Fatal(err)
	}
	if v != -123 {
		t.Errorf("Atoi = %d, want -123", v)
	}
	f, err := Atof(m, put(t, m, "2.5"))
	if err != nil {
		t.Fatal(err)
	}
	if f != 2.5 {
		t.Errorf("Atof = %v, want 2.5", f)
	}
}

func TestAbs(t *testing.T) {
	tests := []struct{ in, want int32 }{
		{0, 0},
		{5, 5},
		{-5, 5},
		{-2147483648, 2147483647},
		{2147483647, 2147483647},
	}
	for _, tt := range tests {
		if got := Abs(tt.in); got != tt.want {
			t.Errorf("Abs(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// u32Compare compares little-endian uint32 elements.
func u32Compare(m *machine.Machine, a, b uint64) (int32, error) {
	av, err := m.MemReadU32(a)
	if err != nil {
		return 0, err
	}
	bv, err := m.MemReadU32(b)
	if err != nil {
		return 0, err
	}
	switch {
	case av < bv:
		return -1, nil
	case av > bv:
		return 1, nil
	}
	return 0, nil
}

func writeU32s(t *testing.T, m *machine.Machine, vals []uint32) uint64 {
	t.Helper()
	if len(vals) == 0 {
		return 0
	}
	base := m.Alloc(uint64(len(vals)) * 4)
	if base == 0 {
		t.Fatal("alloc failed")
	}
	for i, v := range vals {
		if err := m.MemWriteU32(base+uint64(i)*4, v); err != nil {
			t.Fatal(err)
		}
	}
	return base
}

func readU32s(t *testing.T, m *machine.Machine, base uint64, n int) []uint32 {
	t.Helper()
	out := make([]uint32, n)
	for i := range out {
		v, err := m.MemReadU32(base + uint64(i)*4)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = v
	}
	return out
}

func TestQsort(t *testing.T) {
	m := newM(t)
	tests := []struct {
		name string
		in   []uint32
	}{
		{"sorted", []uint32{1, 2, 3, 4, 5}},
		{"reverse", []uint32{9, 7, 5, 3, 1}},
		{"dups", []uint32{4, 1, 4, 2, 1, 4}},
		{"single", []uint32{7}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := writeU32s(t, m, append([]uint32(nil), tt.in...))
			if err := Qsort(m, base, uint64(len(tt.in)), 4, u32Compare); err != nil {
				t.Fatal(err)
			}
			got := readU32s(t, m, base, len(tt.in))
			for i := 1; i < len(got); i++ {
				if got[i-1] > got[i] {
					t.Fatalf("not sorted: %v", got)
				}
			}
		})
	}
}

func TestQsortOversizeElementIsNoop(t *testing.T) {
	m := newM(t)
	vals := []uint32{3, 1, 2}
	base := writeU32s(t, m, vals)

	// Claim a width above the safety ceiling: buffer must be untouched.
	if err := Qsort(m, base, 3, MaxSortWidth+1, u32Compare); err != nil {
		t.Fatal(err)
	}
	got := readU32s(t, m, base, 3)
	for i, v := range vals {
		if got[i] != v {
			t.Fatalf("buffer modified: %v", got)
		}
	}
}

func TestBsearch(t *testing.T) {
	m := newM(t)
	base := writeU32s(t, m, []uint32{2, 4, 6, 8, 10, 12})
	key := m.Alloc(4)

	for i, want := range []uint32{2, 4, 6, 8, 10, 12} {
		m.MemWriteU32(key, want)
		p, err := Bsearch(m, key, base, 6, 4, u32Compare)
		if err != nil {
			t.Fatal(err)
		}
		if p != base+uint64(i)*4 {
			t.Errorf("Bsearch(%d) = 0x%x, want 0x%x", want, p, base+uint64(i)*4)
		}
	}

	m.MemWriteU32(key, 7)
	p, err := Bsearch(m, key, base, 6, 4, u32Compare)
	if err != nil {
		t.Fatal(err)
	}
	if p != 0 {
		t.Errorf("Bsearch(7) = 0x%x, want 0", p)
	}
}

func TestExitHalts(t *testing.T) {
	var code int32 = -1
	m, err := machine.New(machine.Config{Halt: func(c int32) { code = c; panic("halt") }})
	if err != nil {
		t.Fatal(err)
	}
	func() {
		defer func() { recover() }()
		Exit(m, 2)
	}()
	if code != 2 {
		t.Errorf("halt code = %d, want 2", code)
	}

	func() {
		defer func() { recover() }()
		Abort(m)
	}()
	if code != 134 {
		t.Errorf("abort code = %d, want 134", code)
	}
}

func TestAtexit(t *testing.T) {
	if got := Atexit(newM(t), 0xdead); got != 0 {
		t.Errorf("Atexit = %d, want 0", got)
	}
}
