package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
	"github.com/skiff-os/crt/internal/rt/alloc"
	"github.com/skiff-os/crt/internal/rt/libm"
	"github.com/skiff-os/crt/internal/rt/stdlib"
	"github.com/skiff-os/crt/internal/rt/str"
	"github.com/skiff-os/crt/internal/rt/vmload"
	"github.com/skiff-os/crt/internal/ui/colorize"
)

// A check exercises one slice of the runtime against a live machine.
type check struct {
	name string
	fn   func(m *machine.Machine) error
}

var checks = []check{
	{"string primitives", checkStrings},
	{"classification tables", checkCtype},
	{"numeric round-trip", checkNumeric},
	{"math identities", checkMath},
	{"allocator bridge", checkAlloc},
	{"sorting", checkSort},
	{"failure stubs", checkNosys},
	{"vm library subset", checkVmload},
}

func runSelftest(cmd *cobra.Command, args []string) error {
	m, err := newMachine()
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}

	collector, detach := attachCollector()
	defer detach()

	failed := 0
	for _, c := range checks {
		if err := c.fn(m); err != nil {
			fmt.Printf("%s %s  %s\n", colorize.Error("✗"), c.name, colorize.Error(err.Error()))
			failed++
		} else {
			fmt.Printf("%s %s\n", colorize.OK("✓"), c.name)
		}
	}

	fmt.Println()
	names, counts := collector.Counts()
	calls := 0
	for _, name := range names {
		calls += counts[name]
	}
	fmt.Printf("%s checks  %s traced calls\n",
		colorize.FuncName(fmt.Sprintf("%d/%d", len(checks)-failed, len(checks))),
		colorize.FuncName(fmt.Sprintf("%d", calls)))

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

// guestString copies s into guest memory and returns its address.
func guestString(m *machine.Machine, s string) (uint64, error) {
	p := m.Alloc(uint64(len(s)) + 1)
	if p == 0 {
		return 0, fmt.Errorf("out of guest memory")
	}
	if err := m.MemWriteString(p, s); err != nil {
		return 0, err
	}
	return p, nil
}

func checkStrings(m *machine.Machine) error {
	a, err := guestString(m, "hello, kernel")
	if err != nil {
		return err
	}
	n, err := str.Strlen(m, a)
	if err != nil {
		return err
	}
	if n != 13 {
		return fmt.Errorf("strlen = %d, want 13", n)
	}

	needle, err := guestString(m, "kernel")
	if err != nil {
		return err
	}
	hit, err := str.Strstr(m, a, needle)
	if err != nil {
		return err
	}
	if hit != a+7 {
		return fmt.Errorf("strstr = %#x, want %#x", hit, a+7)
	}

	dst := m.Alloc(32)
	if _, err := str.Strcpy(m, dst, a); err != nil {
		return err
	}
	cmp, err := str.Strcmp(m, dst, a)
	if err != nil {
		return err
	}
	if cmp != 0 {
		return fmt.Errorf("strcmp after strcpy = %d, want 0", cmp)
	}
	return nil
}

func checkCtype(m *machine.Machine) error {
	cases := []struct {
		sym  string
		c    int32
		want int64
	}{
		{"isdigit", '7', 1},
		{"isdigit", 'x', 0},
		{"isalpha", 'Q', 1},
		{"isspace", '\t', 1},
		{"isxdigit", 'f', 1},
		{"isupper", 'a', 0},
	}
	for _, tc := range cases {
		v, err := rt.Call(m, tc.sym, rt.Int(int64(tc.c)))
		if err != nil {
			return err
		}
		if (v.Int() != 0) != (tc.want != 0) {
			return fmt.Errorf("%s(%q) = %d, want %d", tc.sym, tc.c, v.Int(), tc.want)
		}
	}

	v, err := rt.Call(m, "toupper", rt.Int('g'))
	if err != nil {
		return err
	}
	if v.Int() != 'G' {
		return fmt.Errorf("toupper('g') = %d, want 'G'", v.Int())
	}
	return nil
}

func checkNumeric(m *machine.Machine) error {
	buf := m.Alloc(64)
	p, err := guestString(m, "%d")
	if err != nil {
		return err
	}

	v, err := rt.Call(m, "snprintf", rt.Ptr(buf), rt.Uint(64), rt.Ptr(p), rt.Int(-4321))
	if err != nil {
		return err
	}
	if v.Int() != 5 {
		return fmt.Errorf("snprintf returned %d, want 5", v.Int())
	}

	got, _, err := stdlib.Strtol(m, buf, 10)
	if err != nil {
		return err
	}
	if got != -4321 {
		return fmt.Errorf("round-trip = %d, want -4321", got)
	}

	hex, err := guestString(m, "0x1F")
	if err != nil {
		return err
	}
	n, end, err := stdlib.Strtol(m, hex, 0)
	if err != nil {
		return err
	}
	if n != 31 || end != hex+4 {
		return fmt.Errorf("strtol(0x1F, 0) = %d end+%d", n, end-hex)
	}
	return nil
}

func checkMath(m *machine.Machine) error {
	if got := libm.Sqrt(2.0); !near(got*got, 2.0, 1e-9) {
		return fmt.Errorf("sqrt(2)^2 = %v", got*got)
	}
	s, c := libm.Sin(0.5), libm.Cos(0.5)
	if !near(s*s+c*c, 1.0, 1e-6) {
		return fmt.Errorf("sin^2+cos^2 = %v", s*s+c*c)
	}
	if got := libm.Pow(2.0, 10.0); got != 1024.0 {
		return fmt.Errorf("pow(2,10) = %v", got)
	}
	if got := libm.Log(libm.Exp(1.0)); !near(got, 1.0, 0.02) {
		return fmt.Errorf("log(e) = %v", got)
	}
	return nil
}

func near(got, want, tol float64) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func checkAlloc(m *machine.Machine) error {
	mm := alloc.Methods(m)
	if p := mm.Alloc(0); p != 0 {
		return fmt.Errorf("alloc(0) = %#x, want NULL", p)
	}
	p := mm.Alloc(100)
	if p == 0 {
		return fmt.Errorf("alloc(100) returned NULL")
	}
	if got, want := mm.Size(p), mm.Roundup(100); got != want {
		return fmt.Errorf("size = %d, roundup = %d", got, want)
	}
	if q := mm.Realloc(p, 0); q != 0 {
		return fmt.Errorf("realloc(p, 0) = %#x, want NULL", q)
	}
	return nil
}

func checkSort(m *machine.Machine) error {
	vals := []uint32{42, 7, 19, 3, 88, 7}
	base := m.Alloc(uint64(len(vals)) * 4)
	for i, v := range vals {
		if err := m.MemWriteU32(base+uint64(i)*4, v); err != nil {
			return err
		}
	}
	cmp := func(mm *machine.Machine, a, b uint64) (int32, error) {
		x, err := mm.MemReadU32(a)
		if err != nil {
			return 0, err
		}
		y, err := mm.MemReadU32(b)
		if err != nil {
			return 0, err
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}
	if err := stdlib.Qsort(m, base, uint64(len(vals)), 4, cmp); err != nil {
		return err
	}
	prev := uint32(0)
	for i := range vals {
		v, err := m.MemReadU32(base + uint64(i)*4)
		if err != nil {
			return err
		}
		if v < prev {
			return fmt.Errorf("not sorted at %d: %d < %d", i, v, prev)
		}
		prev = v
	}

	key := m.Alloc(4)
	if err := m.MemWriteU32(key, 19); err != nil {
		return err
	}
	hit, err := stdlib.Bsearch(m, key, base, uint64(len(vals)), 4, cmp)
	if err != nil {
		return err
	}
	if hit == 0 {
		return fmt.Errorf("bsearch missed present key")
	}
	return nil
}

func checkNosys(m *machine.Machine) error {
	for _, sym := range []string{"open", "write", "stat"} {
		v, err := rt.Call(m, sym)
		if err != nil {
			return err
		}
		if v.Int() != -1 {
			return fmt.Errorf("%s = %d, want -1", sym, v.Int())
		}
	}
	v, err := rt.Call(m, "getpid")
	if err != nil {
		return err
	}
	if v.Int() != 1 {
		return fmt.Errorf("getpid = %d, want 1", v.Int())
	}
	return nil
}

// recordingVM counts Require calls for the loader check.
type recordingVM struct{ names []string }

func (r *recordingVM) Require(name string, open vmload.OpenFunc) error {
	if err := open(r); err != nil {
		return err
	}
	r.names = append(r.names, name)
	return nil
}

func checkVmload(m *machine.Machine) error {
	vm := &recordingVM{}
	if err := vmload.OpenLibraries(vm, ^uint64(0), 0); err != nil {
		return err
	}
	want := vmload.SafeList()
	if len(vm.names) != len(want) {
		return fmt.Errorf("opened %d libraries, want %d", len(vm.names), len(want))
	}
	for i, name := range want {
		if vm.names[i] != name {
			return fmt.Errorf("library %d = %q, want %q", i, vm.names[i], name)
		}
	}
	return nil
}
