package stdio

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

func init() {
	rt.RegisterFunc("stdio", "vsnprintf", invokeSnprintf, "snprintf")
	rt.RegisterFunc("stdio", "sprintf", invokeSprintf)
	rt.RegisterFunc("stdio", "putstring", invokeWriteString)
	rt.RegisterFunc("stdio", "putline", invokeWriteLine)
	rt.RegisterFunc("stdio", "putserror", invokeWriteError)
}

// invokeSnprintf serves both snprintf and vsnprintf: with arguments as a
// typed sequence, the two collapse into one entry point.
func invokeSnprintf(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	buf := rt.Arg(args, 0).Ptr()
	n := rt.Arg(args, 1).Uint()
	format, err := m.MemReadString(rt.Arg(args, 2).Ptr(), 1<<20)
	if err != nil {
		return rt.None(), err
	}
	ret, err := Vsnprintf(m, buf, n, format, args[min(3, len(args)):])
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(ret)), nil
}

func invokeSprintf(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	buf := rt.Arg(args, 0).Ptr()
	format, err := m.MemReadString(rt.Arg(args, 1).Ptr(), 1<<20)
	if err != nil {
		return rt.None(), err
	}
	ret, err := Vsnprintf(m, buf, sprintfCap, format, args[min(2, len(args)):])
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(ret)), nil
}

func invokeWriteString(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	if err := WriteString(m, rt.Arg(args, 0).Ptr(), int32(rt.Arg(args, 1).Int())); err != nil {
		return rt.None(), err
	}
	return rt.None(), nil
}

func invokeWriteLine(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	WriteLine(m)
	return rt.None(), nil
}

func invokeWriteError(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	format, err := m.MemReadString(rt.Arg(args, 0).Ptr(), 1<<20)
	if err != nil {
		return rt.None(), err
	}
	if err := WriteError(m, format, rt.Arg(args, 1)); err != nil {
		return rt.None(), err
	}
	return rt.None(), nil
}
