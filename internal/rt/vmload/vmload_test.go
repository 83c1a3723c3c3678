package vmload

import (
	"errors"
	"reflect"
	"testing"
)

// fakeVM records every library the loader registers.
type fakeVM struct {
	required []string
	failOn   string
}

func (f *fakeVM) Require(name string, open OpenFunc) error {
	if name == f.failOn {
		return errors.New("library init failed")
	}
	if err := open(f); err != nil {
		return err
	}
	f.required = append(f.required, name)
	return nil
}

func TestOpenLibrariesIgnoresMasks(t *testing.T) {
	want := []string{"_G", "table", "string", "math", "coroutine", "utf8"}

	// Whatever the caller selects, the same safe subset loads.
	masks := []struct{ load, preload uint64 }{
		{0, 0},
		{^uint64(0), ^uint64(0)},
		{0x2a, 0},
		{0, 0x2a},
	}
	for _, mk := range masks {
		vm := &fakeVM{}
		if err := OpenLibraries(vm, mk.load, mk.preload); err != nil {
			t.Fatalf("OpenLibraries(load=%#x, preload=%#x): %v", mk.load, mk.preload, err)
		}
		if !reflect.DeepEqual(vm.required, want) {
			t.Errorf("load=%#x preload=%#x opened %v, want %v",
				mk.load, mk.preload, vm.required, want)
		}
	}
}

func TestUnsafeLibrariesNeverOpened(t *testing.T) {
	vm := &fakeVM{}
	if err := OpenLibraries(vm, ^uint64(0), ^uint64(0)); err != nil {
		t.Fatalf("OpenLibraries: %v", err)
	}
	opened := make(map[string]bool, len(vm.required))
	for _, name := range vm.required {
		opened[name] = true
	}
	for _, name := range []string{"io", "os", "package", "debug"} {
		if opened[name] {
			t.Errorf("library %q must never be opened", name)
		}
	}
}

func TestSafeListIsACopy(t *testing.T) {
	a := SafeList()
	a[0] = "mutated"
	if b := SafeList(); b[0] != "_G" {
		t.Fatal("SafeList exposes internal state")
	}
}

func TestOpenSelectedPropagatesErrors(t *testing.T) {
	vm := &fakeVM{failOn: "math"}
	err := OpenLibraries(vm, 0, 0)
	if err == nil {
		t.Fatal("expected error from failing library")
	}
	// Libraries before the failure are opened, nothing after it.
	want := []string{"_G", "table", "string"}
	if !reflect.DeepEqual(vm.required, want) {
		t.Errorf("opened %v before failure, want %v", vm.required, want)
	}
}
