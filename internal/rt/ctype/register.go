package ctype

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

func init() {
	// The loc accessors return the address of the pointer cell, not the
	// table: callers dereference twice, exactly like the glibc protocol.
	rt.RegisterFunc("ctype", "__ctype_b_loc", invokeCtypeBLoc)
	rt.RegisterFunc("ctype", "__ctype_toupper_loc", invokeToupperLoc)
	rt.RegisterFunc("ctype", "__ctype_tolower_loc", invokeTolowerLoc)

	rt.RegisterFunc("ctype", "isalpha", predicate(Isalpha))
	rt.RegisterFunc("ctype", "isdigit", predicate(Isdigit))
	rt.RegisterFunc("ctype", "isalnum", predicate(Isalnum))
	rt.RegisterFunc("ctype", "isspace", predicate(Isspace))
	rt.RegisterFunc("ctype", "isupper", predicate(Isupper))
	rt.RegisterFunc("ctype", "islower", predicate(Islower))
	rt.RegisterFunc("ctype", "isxdigit", predicate(Isxdigit))
	rt.RegisterFunc("ctype", "isprint", predicate(Isprint))
	rt.RegisterFunc("ctype", "iscntrl", predicate(Iscntrl))
	rt.RegisterFunc("ctype", "ispunct", predicate(Ispunct))
	rt.RegisterFunc("ctype", "isblank", predicate(Isblank))
	rt.RegisterFunc("ctype", "isgraph", predicate(Isgraph))

	rt.RegisterFunc("ctype", "toupper", invokeToupper)
	rt.RegisterFunc("ctype", "tolower", invokeTolower)
}

func invokeCtypeBLoc(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(m.CtypeLoc()), nil
}

func invokeToupperLoc(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(m.ToupperLoc()), nil
}

func invokeTolowerLoc(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Ptr(m.TolowerLoc()), nil
}

func predicate(fn func(*machine.Machine, int32) (bool, error)) rt.InvokeFunc {
	return func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		ok, err := fn(m, int32(rt.Arg(args, 0).Int()))
		if err != nil {
			return rt.None(), err
		}
		if ok {
			return rt.Int(1), nil
		}
		return rt.Int(0), nil
	}
}

func invokeToupper(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	v, err := Toupper(m, int32(rt.Arg(args, 0).Int()))
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(v)), nil
}

func invokeTolower(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	v, err := Tolower(m, int32(rt.Arg(args, 0).Int()))
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(v)), nil
}
