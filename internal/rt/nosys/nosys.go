// Package nosys provides the filesystem, process, and dynamic-loading
// surface for a build with no operating system underneath. Every call
// fails or degrades in a fixed, predictable way so callers take their
// error paths instead of crashing on a missing symbol. None of these
// routines touch errno.
package nosys

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

// failInt covers the file and process calls that report failure as -1.
var failInt = []string{
	"close", "read", "write", "unlink", "access",
	"stat", "fstat", "fcntl", "ioctl",
	"fsync", "ftruncate", "mkdir", "rmdir",
}

func init() {
	for _, name := range failInt {
		rt.RegisterFunc("nosys", name, returnMinusOne)
	}
	rt.RegisterFunc("nosys", "open", returnMinusOne, "open64")
	rt.RegisterFunc("nosys", "lseek", returnMinusOne, "lseek64")

	rt.RegisterFunc("nosys", "getcwd", returnNull)
	rt.RegisterFunc("nosys", "sleep", returnZero)
	rt.RegisterFunc("nosys", "usleep", returnZero)
	rt.RegisterFunc("nosys", "gettimeofday", returnMinusOne)
	rt.RegisterFunc("nosys", "clock", returnMinusOne)
	rt.RegisterFunc("nosys", "time", invokeTime)

	rt.RegisterFunc("nosys", "dlopen", returnNull)
	rt.RegisterFunc("nosys", "dlsym", returnNull)
	rt.RegisterFunc("nosys", "dlclose", returnMinusOne)
	rt.RegisterFunc("nosys", "dlerror", invokeDlerror)
}

func returnMinusOne(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Int(-1), nil
}

func returnZero(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Int(0), nil
}

func returnNull(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(0), nil
}

// invokeTime reports the epoch: zero is returned, and also stored through
// the out pointer when one is given, so both calling conventions agree.
func invokeTime(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	if out := rt.Arg(args, 0).Ptr(); out != 0 {
		if err := m.MemWriteU64(out, 0); err != nil {
			return rt.None(), err
		}
	}
	return rt.Int(0), nil
}

// invokeDlerror returns the canned explanation string; there is no dynamic
// loader to produce a real one.
func invokeDlerror(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(m.DlerrorText()), nil
}
