// Package locale implements the locale, errno, and identification stubs.
// There is exactly one locale: "C". Nothing here allocates; every returned
// pointer refers to the static globals region.
package locale

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
	"github.com/skiff-os/crt/internal/rt/str"
)

func init() {
	rt.RegisterFunc("locale", "localeconv", invokeLocaleconv)
	rt.RegisterFunc("locale", "setlocale", invokeSetlocale)
	rt.RegisterFunc("locale", "strcoll", invokeStrcoll)
	rt.RegisterFunc("locale", "strerror", invokeStrerror)
	rt.RegisterFunc("locale", "getenv", invokeGetenv)
	rt.RegisterFunc("locale", "getpid", invokeGetpid)
	rt.RegisterFunc("locale", "__errno_location", invokeErrnoLocation)
}

// Localeconv returns the address of the fixed lconv record.
func Localeconv(m *machine.Machine) uint64 {
	return m.LconvAddr()
}

// Setlocale reports the "C" locale for every category and every request.
func Setlocale(m *machine.Machine, category int32, locale uint64) uint64 {
	return m.LocaleName()
}

// Strcoll compares without collation: plain ordinal strcmp.
func Strcoll(m *machine.Machine, s1, s2 uint64) (int32, error) {
	return str.Strcmp(m, s1, s2)
}

// Strerror returns the same placeholder text for every error code.
func Strerror(m *machine.Machine, errnum int32) uint64 {
	return m.StrerrorText()
}

// Getenv reports every variable as absent.
func Getenv(m *machine.Machine, name uint64) uint64 {
	return 0
}

// Getpid returns the fixed process id of the only process there is.
func Getpid(m *machine.Machine) uint32 {
	return 1
}

// ErrnoLocation returns the address of the single global errno cell.
func ErrnoLocation(m *machine.Machine) uint64 {
	return m.ErrnoLoc()
}

func invokeLocaleconv(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(Localeconv(m)), nil
}

func invokeSetlocale(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(Setlocale(m, int32(rt.Arg(args, 0).Int()), rt.Arg(args, 1).Ptr())), nil
}

func invokeStrcoll(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	r, err := Strcoll(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(r)), nil
}

func invokeStrerror(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(Strerror(m, int32(rt.Arg(args, 0).Int()))), nil
}

func invokeGetenv(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	rt.DefaultRegistry.Log("locale", "getenv", "absent")
	return rt.Ptr(Getenv(m, rt.Arg(args, 0).Ptr())), nil
}

func invokeGetpid(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Uint(uint64(Getpid(m))), nil
}

func invokeErrnoLocation(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(ErrnoLocation(m)), nil
}
