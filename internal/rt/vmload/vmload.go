// Package vmload opens the scripting VM's standard libraries for a machine
// with no operating system underneath. Only the libraries that work without
// files, processes, or a loader are opened; the io, os, package, and debug
// libraries are never registered, so scripts cannot reach for them at all.
package vmload

import (
	"fmt"

	"github.com/skiff-os/crt/internal/rt"
)

// OpenFunc populates one library's table on the VM.
type OpenFunc func(vm VM) error

// VM is the slice of a scripting VM the loader needs: register a library
// under a global name, making it visible to scripts.
type VM interface {
	Require(name string, open OpenFunc) error
}

// Loader names one library and how to open it.
type Loader struct {
	Name string
	Open OpenFunc
}

// safeList is the fixed set of libraries opened on bare metal, in load
// order. Base goes first; the rest only add tables.
var safeList = []string{"_G", "table", "string", "math", "coroutine", "utf8"}

// SafeList returns the names of the libraries OpenLibraries opens,
// in load order.
func SafeList() []string {
	out := make([]string, len(safeList))
	copy(out, safeList)
	return out
}

// DefaultLoaders builds the loader set for the safe list. The open
// functions are placeholders wired by the embedding kernel; here they
// only mark the library as present.
func DefaultLoaders() []Loader {
	loaders := make([]Loader, len(safeList))
	for i, name := range safeList {
		loaders[i] = Loader{Name: name, Open: func(VM) error { return nil }}
	}
	return loaders
}

// OpenLibraries opens every library in the safe list on vm. The load and
// preload bitmasks select libraries on a hosted build; here they are
// accepted and ignored so callers get the same subset no matter what they
// ask for.
func OpenLibraries(vm VM, load, preload uint64) error {
	return OpenSelected(vm, DefaultLoaders(), load, preload)
}

// OpenSelected opens the given loaders, ignoring the selection bitmasks.
func OpenSelected(vm VM, loaders []Loader, load, preload uint64) error {
	_ = load
	_ = preload
	for _, l := range loaders {
		if err := vm.Require(l.Name, l.Open); err != nil {
			return fmt.Errorf("vmload: open %s: %w", l.Name, err)
		}
		rt.DefaultRegistry.Log("vmload", "require", l.Name)
	}
	return nil
}

func init() {
	// The entry point the VM links against. The machine argument stands
	// in for the VM state; embedding kernels call OpenLibraries directly
	// with their own VM adapter, so the registry entry is a marker only.
	rt.Register(rt.Def{
		Name:     "luaL_openselectedlibs",
		Aliases:  []string{"luaL_openlibs"},
		Category: "vmload",
	})
}
