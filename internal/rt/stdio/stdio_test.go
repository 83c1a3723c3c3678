package stdio

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
	"github.com/skiff-os/crt/internal/rt/stdlib"
)

func newM(t *testing.T) *machine.Machine {
	t.Helper()
	m, err := machine.New(machine.Config{})
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	return m
}

func format(t *testing.T, m *machine.Machine, cap uint64, fmtStr string, args ...rt.Value) (string, int32) {
	t.Helper()
	buf := m.Alloc(cap + 8)
	if buf == 0 {
		t.Fatal("alloc failed")
	}
	n, err := Vsnprintf(m, buf, cap, fmtStr, args)
	if err != nil {
		t.Fatalf("Vsnprintf(%q): %v", fmtStr, err)
	}
	out, err := m.MemReadString(buf, int(cap))
	if err != nil {
		t.Fatal(err)
	}
	return out, n
}

func TestFormatBasics(t *testing.T) {
	m := newM(t)
	tests := []struct {
		fmtStr string
		args   []rt.Value
		want   string
	}{
		{"plain", nil, "plain"},
		{"%d", []rt.Value{rt.Int(0)}, "0"},
		{"%d", []rt.Value{rt.Int(42)}, "42"},
		{"%d", []rt.Value{rt.Int(-5)}, "-5"},
		{"%i", []rt.Value{rt.Int(-17)}, "-17"},
		{"%u", []rt.Value{rt.Uint(4000000000)}, "4000000000"},
		{"%ld", []rt.Value{rt.Int(123456789012)}, "123456789012"},
		{"%lld", []rt.Value{rt.Int(-9876543210)}, "-9876543210"},
		{"%x", []rt.Value{rt.Uint(0xdeadbeef)}, "deadbeef"},
		{"%X", []rt.Value{rt.Uint(0xbeef)}, "BEEF"},
		{"%o", []rt.Value{rt.Uint(8)}, "10"},
		{"%c", []rt.Value{rt.Int('Q')}, "Q"},
		{"%%", nil, "%"},
		{"a%db", []rt.Value{rt.Int(7)}, "a7b"},
		{"%s", []rt.Value{rt.Ptr(0)}, "(null)"},
		{"%q", nil, "%q"}, // unknown verb passes through
		{"%zu", []rt.Value{rt.Uint(99)}, "99"},
	}
	for _, tt := range tests {
		got, n := format(t, m, 64, tt.fmtStr, tt.args...)
		if got != tt.want {
			t.Errorf("format(%q) = %q, want %q", tt.fmtStr, got, tt.want)
		}
		if int(n) != len(tt.want) {
			t.Errorf("format(%q) returned %d, want %d", tt.fmtStr, n, len(tt.want))
		}
	}
}

func TestFormatString(t *testing.T) {
	m := newM(t)
	s := m.Alloc(16)
	m.MemWriteString(s, "hello")

	got, n := format(t, m, 64, "<%s>", rt.Ptr(s))
	if got != "<hello>" || n != 7 {
		t.Errorf("got %q ret %d", got, n)
	}
	// Precision truncates.
	got, n = format(t, m, 64, "%.3s", rt.Ptr(s))
	if got != "hel" || n != 3 {
		t.Errorf("precision: got %q ret %d", got, n)
	}
}

func TestFormatFloat(t *testing.T) {
	m := newM(t)

	got, _ := format(t, m, 64, "%f", rt.Float(3.25))
	if got != "3.250000" {
		t.Errorf("%%f = %q", got)
	}
	got, _ = format(t, m, 64, "%.2f", rt.Float(-1.5))
	if got != "-1.50" {
		t.Errorf("%%.2f = %q", got)
	}
	got, _ = format(t, m, 64, "%.0f", rt.Float(2.75))
	if got != "2" {
		t.Errorf("%%.0f = %q", got)
	}
	// e/g collapse onto the fixed-point path.
	got, _ = format(t, m, 64, "%g", rt.Float(1.5))
	if got != "1.500000" {
		t.Errorf("%%g = %q", got)
	}
}

func TestFormatPointer(t *testing.T) {
	m := newM(t)
	got, _ := format(t, m, 64, "%p", rt.Ptr(0x90000000))
	if got != "0x90000000" {
		t.Errorf("%%p = %q", got)
	}
}

func TestTruncationContract(t *testing.T) {
	m := newM(t)

	// Capacity 4: three characters stored, terminator always present,
	// return value reports the untruncated length.
	got, n := format(t, m, 4, "%d", rt.Int(123456))
	if got != "123" {
		t.Errorf("truncated output = %q, want 123", got)
	}
	if n != 6 {
		t.Errorf("truncated return = %d, want 6", n)
	}

	// Minus five, eight-byte buffer: "-5" and return 2.
	got, n = format(t, m, 8, "%d", rt.Int(-5))
	if got != "-5" || n != 2 {
		t.Errorf("got %q ret %d, want -5 ret 2", got, n)
	}

	// Padded directive into a too-small buffer: still terminated, still
	// reports the would-have-written length of the digits emitted.
	got, n = format(t, m, 3, "%05d", rt.Int(42))
	if len(got) > 2 {
		t.Errorf("capacity overrun: %q", got)
	}
	if n != 2 {
		t.Errorf("%%05d return = %d, want 2", n)
	}

	// Zero capacity writes nothing.
	buf := m.Alloc(8)
	m.MemWriteU8(buf, 0xAA)
	ret, err := Vsnprintf(m, buf, 0, "hi", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ret != 0 {
		t.Errorf("n=0 return = %d", ret)
	}
	b, _ := m.MemReadU8(buf)
	if b != 0xAA {
		t.Error("n=0 wrote to buffer")
	}
}

func TestStarWidthAndPrecision(t *testing.T) {
	m := newM(t)

	// '*' consumes an argument even though padding is not applied.
	got, _ := format(t, m, 64, "%*d", rt.Int(8), rt.Int(5))
	if got != "5" {
		t.Errorf("%%*d = %q", got)
	}
	got, _ = format(t, m, 64, "%.*f", rt.Int(1), rt.Float(2.25))
	if got != "2.2" {
		t.Errorf("%%.*f = %q", got)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	m := newM(t)
	buf := m.Alloc(32)

	for _, v := range []int64{0, 1, 7, 42, 999, 123456789, 2147483647} {
		if _, err := Snprintf(m, buf, 32, "%d", rt.Int(v)); err != nil {
			t.Fatal(err)
		}
		got, _, err := stdlib.Strtol(m, buf, 10)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestSprintfUnbounded(t *testing.T) {
	m := newM(t)
	buf := m.Alloc(128)

	n, err := Sprintf(m, buf, "%s=%d", rt.Ptr(0), rt.Int(3))
	if err != nil {
		t.Fatal(err)
	}
	out, _ := m.MemReadString(buf, 64)
	if out != "(null)=3" || n != 8 {
		t.Errorf("Sprintf = %q ret %d", out, n)
	}
}

func TestConsoleBridge(t *testing.T) {
	var out bytes.Buffer
	m, err := machine.New(machine.Config{Console: machine.ConsoleWriter{W: &out}})
	if err != nil {
		t.Fatal(err)
	}
	s := m.Alloc(16)
	m.MemWriteString(s, "hello")

	if err := WriteString(m, s, 5); err != nil {
		t.Fatal(err)
	}
	WriteLine(m)
	if out.String() != "hello\n" {
		t.Errorf("console = %q", out.String())
	}

	out.Reset()
	msg := m.Alloc(16)
	m.MemWriteString(msg, "panic")
	if err := WriteError(m, "err: %s\n", rt.Ptr(msg)); err != nil {
		t.Fatal(err)
	}
	if out.String() != "err: panic\n" {
		t.Errorf("WriteError = %q", out.String())
	}
}

func TestFileStubs(t *testing.T) {
	m := newM(t)

	if Fopen(m, 0, 0) != 0 {
		t.Error("Fopen should fail")
	}
	if Freopen(m, 0, 0, m.StdinAddr()) != 0 {
		t.Error("Freopen should fail")
	}
	if Fclose(m, m.StdinAddr()) != 0 {
		t.Error("Fclose should report success")
	}
	if Fread(m, 0, 1, 10, m.StdinAddr()) != 0 {
		t.Error("Fread should deliver nothing")
	}
	if Feof(m, m.StdinAddr()) != 1 {
		t.Error("Feof should report end-of-stream")
	}
	if Ferror(m, m.StdinAddr()) != 1 {
		t.Error("Ferror should report error")
	}
	if Getc(m, m.StdinAddr()) != -1 {
		t.Error("Getc should deliver EOF")
	}
	if Ungetc(m, 'a', m.StdinAddr()) != -1 {
		t.Error("Ungetc should reject")
	}
}

func TestRegistryDispatch(t *testing.T) {
	m := newM(t)
	buf := m.Alloc(32)
	f := m.Alloc(8)
	m.MemWriteString(f, "%d-%d")

	ret, err := rt.Call(m, "snprintf", rt.Ptr(buf), rt.Uint(32), rt.Ptr(f), rt.Int(1), rt.Int(2))
	if err != nil {
		t.Fatal(err)
	}
	out, _ := m.MemReadString(buf, 32)
	if out != "1-2" || ret.Int() != 3 {
		t.Errorf("dispatch snprintf = %q ret %d", out, ret.Int())
	}
}

func TestFormatMatchesReference(t *testing.T) {
	m := newM(t)
	// Spot-check against the host formatter where contracts coincide.
	for _, v := range []int64{-40, 0, 7, 1234567} {
		got, _ := format(t, m, 64, "value=%d;", rt.Int(v))
		want := fmt.Sprintf("value=%d;", v)
		if got != want {
			t.Errorf("got %q want %q", got, want)
		}
	}
}
