package stdlib

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

func init() {
	rt.RegisterFunc("stdlib", "strtol", invokeStrtol, "strtoll", "strtoul", "strtoull")
	rt.RegisterFunc("stdlib", "strtod", invokeStrtod)
	rt.RegisterFunc("stdlib", "atoi", invokeAtoi)
	rt.RegisterFunc("stdlib", "atof", invokeAtof)
	rt.RegisterFunc("stdlib", "abs", invokeAbs)
	rt.RegisterFunc("stdlib", "exit", invokeExit)
	rt.RegisterFunc("stdlib", "abort", invokeAbort)
	rt.RegisterFunc("stdlib", "atexit", invokeAtexit)

	// qsort and bsearch take host comparators and cannot cross the name
	// registry; they stay visible in the symbol table as direct-only.
	rt.Register(rt.Def{Name: "qsort", Category: "stdlib"})
	rt.Register(rt.Def{Name: "bsearch", Category: "stdlib"})
}

func invokeStrtol(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	nptr := rt.Arg(args, 0).Ptr()
	endptr := rt.Arg(args, 1).Ptr()
	base := int32(rt.Arg(args, 2).Int())
	v, end, err := Strtol(m, nptr, base)
	if err != nil {
		return rt.None(), err
	}
	if endptr != 0 {
		if err := m.MemWriteU64(endptr, end); err != nil {
			return rt.None(), err
		}
	}
	return rt.Int(v), nil
}

func invokeStrtod(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	nptr := rt.Arg(args, 0).Ptr()
	endptr := rt.Arg(args, 1).Ptr()
	v, end, err := Strtod(m, nptr)
	if err != nil {
		return rt.None(), err
	}
	if endptr != 0 {
		if err := m.MemWriteU64(endptr, end); err != nil {
			return rt.None(), err
		}
	}
	return rt.Float(v), nil
}

func invokeAtoi(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	v, err := Atoi(m, rt.Arg(args, 0).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(v)), nil
}

func invokeAtof(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	v, err := Atof(m, rt.Arg(args, 0).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Float(v), nil
}

func invokeAbs(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Int(int64(Abs(int32(rt.Arg(args, 0).Int())))), nil
}

func invokeExit(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	Exit(m, int32(rt.Arg(args, 0).Int()))
	return rt.None(), nil // unreachable
}

func invokeAbort(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	Abort(m)
	return rt.None(), nil // unreachable
}

func invokeAtexit(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Int(int64(Atexit(m, rt.Arg(args, 0).Ptr()))), nil
}
