// Package alloc implements the allocator method table the embedded
// database engine installs before its global initialization, bridging its
// allocation surface onto the four host primitives.
package alloc

import (
	"errors"
	"sync"

	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

// MemMethods is the method table handed to the consuming library's
// configuration step. The slots mirror its expected allocator surface;
// AppData is an opaque context pointer passed to Init and Shutdown.
type MemMethods struct {
	Alloc    func(n int32) uint64
	Free     func(p uint64)
	Realloc  func(p uint64, n int32) uint64
	Size     func(p uint64) int32
	Roundup  func(n int32) int32
	Init     func(appData uint64) int32
	Shutdown func(appData uint64)
	AppData  uint64
}

// Methods builds the bridge table over m's host allocator. The bridge
// itself is stateless: every slot forwards, with the edge cases absorbed
// before the host sees the call.
func Methods(m *machine.Machine) MemMethods {
	return MemMethods{
		Alloc: func(n int32) uint64 {
			if n <= 0 {
				return 0
			}
			return m.Alloc(uint64(n))
		},
		Free: func(p uint64) {
			// A NULL pointer is forwarded; the host contract requires
			// tolerating it.
			m.Free(p)
		},
		Realloc: func(p uint64, n int32) uint64 {
			if n <= 0 {
				m.Free(p)
				return 0
			}
			if p == 0 {
				return m.Alloc(uint64(n))
			}
			return m.Realloc(p, uint64(n))
		},
		Size: func(p uint64) int32 {
			return int32(m.UsableSize(p))
		},
		Roundup: func(n int32) int32 {
			if n <= 0 {
				return 8
			}
			return int32(machine.SizeClass(uint64(n)))
		},
		Init:     func(appData uint64) int32 { return 0 },
		Shutdown: func(appData uint64) {},
	}
}

var (
	mu        sync.Mutex
	installed *MemMethods
)

// ErrAlreadyInstalled is returned when Install is called twice; the method
// table is a one-time, pre-initialization configuration step.
var ErrAlreadyInstalled = errors.New("alloc: method table already installed")

// Install builds and records the process-wide method table. It must run
// exactly once, before the consuming library initializes.
func Install(m *machine.Machine) (*MemMethods, error) {
	mu.Lock()
	defer mu.Unlock()
	if installed != nil {
		return nil, ErrAlreadyInstalled
	}
	mm := Methods(m)
	installed = &mm
	rt.DefaultRegistry.Log("alloc", "install", "method table configured")
	return installed, nil
}

// Installed returns the installed method table, or nil.
func Installed() *MemMethods {
	mu.Lock()
	defer mu.Unlock()
	return installed
}

// Reset clears the installed table. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	installed = nil
}

func init() {
	rt.RegisterFunc("alloc", "malloc", invokeMalloc)
	rt.RegisterFunc("alloc", "calloc", invokeCalloc)
	rt.RegisterFunc("alloc", "realloc", invokeRealloc)
	rt.RegisterFunc("alloc", "free", invokeFree)
	rt.RegisterFunc("alloc", "malloc_usable_size", invokeUsableSize)
}

func invokeMalloc(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	n := rt.Arg(args, 0).Uint()
	if n == 0 {
		return rt.Ptr(0), nil
	}
	p := m.Alloc(n)
	rt.DefaultRegistry.Log("alloc", "malloc", rt.FormatPtrPair("size", n, "ptr", p))
	return rt.Ptr(p), nil
}

func invokeCalloc(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	count := rt.Arg(args, 0).Uint()
	size := rt.Arg(args, 1).Uint()
	total := count * size
	if total == 0 {
		return rt.Ptr(0), nil
	}
	if total/size != count {
		// nmemb*size wrapped; a small block here would be a heap overflow
		// waiting for the caller.
		return rt.Ptr(0), nil
	}
	p := m.Alloc(total)
	if p != 0 {
		if err := m.MemWrite(p, make([]byte, total)); err != nil {
			return rt.None(), err
		}
	}
	return rt.Ptr(p), nil
}

func invokeRealloc(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p := rt.Arg(args, 0).Ptr()
	n := rt.Arg(args, 1).Uint()
	if n == 0 {
		m.Free(p)
		return rt.Ptr(0), nil
	}
	if p == 0 {
		return rt.Ptr(m.Alloc(n)), nil
	}
	return rt.Ptr(m.Realloc(p, n)), nil
}

func invokeFree(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	m.Free(rt.Arg(args, 0).Ptr())
	return rt.None(), nil
}

func invokeUsableSize(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Uint(m.UsableSize(rt.Arg(args, 0).Ptr())), nil
}
