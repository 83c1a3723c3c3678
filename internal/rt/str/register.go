package str

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

func init() {
	rt.RegisterFunc("str", "strlen", invokeStrlen)
	rt.RegisterFunc("str", "strcmp", invokeStrcmp)
	rt.RegisterFunc("str", "strncmp", invokeStrncmp)
	rt.RegisterFunc("str", "strcpy", invokeStrcpy)
	rt.RegisterFunc("str", "strncpy", invokeStrncpy)
	rt.RegisterFunc("str", "strcat", invokeStrcat)
	rt.RegisterFunc("str", "strncat", invokeStrncat)
	rt.RegisterFunc("str", "strchr", invokeStrchr)
	rt.RegisterFunc("str", "strrchr", invokeStrrchr)
	rt.RegisterFunc("str", "strstr", invokeStrstr)
	rt.RegisterFunc("str", "strspn", invokeStrspn)
	rt.RegisterFunc("str", "strcspn", invokeStrcspn)
	rt.RegisterFunc("str", "strpbrk", invokeStrpbrk)
	rt.RegisterFunc("str", "memchr", invokeMemchr)
	rt.RegisterFunc("str", "memcmp", invokeMemcmp)
	// The fortified _chk variants pass a trailing destlen that the
	// invoke wrappers never read, matching the plain behavior.
	rt.RegisterFunc("str", "memcpy", invokeMemcpy, "__memcpy_chk")
	rt.RegisterFunc("str", "memmove", invokeMemmove)
	rt.RegisterFunc("str", "memset", invokeMemset, "__memset_chk")
}

func invokeStrlen(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	n, err := Strlen(m, rt.Arg(args, 0).Ptr())
	if err != nil {
		return rt.None(), err
	}
	rt.DefaultRegistry.Log("str", "strlen", rt.FormatPtr("len", n))
	return rt.Uint(n), nil
}

func invokeStrcmp(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	r, err := Strcmp(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(r)), nil
}

func invokeStrncmp(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	r, err := Strncmp(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr(), rt.Arg(args, 2).Uint())
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(r)), nil
}

func invokeStrcpy(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	dst, err := Strcpy(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(dst), nil
}

func invokeStrncpy(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	dst, err := Strncpy(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr(), rt.Arg(args, 2).Uint())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(dst), nil
}

func invokeStrcat(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	dst, err := Strcat(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(dst), nil
}

func invokeStrncat(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	dst, err := Strncat(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr(), rt.Arg(args, 2).Uint())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(dst), nil
}

func invokeStrchr(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p, err := Strchr(m, rt.Arg(args, 0).Ptr(), int32(rt.Arg(args, 1).Int()))
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(p), nil
}

func invokeStrrchr(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p, err := Strrchr(m, rt.Arg(args, 0).Ptr(), int32(rt.Arg(args, 1).Int()))
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(p), nil
}

func invokeStrstr(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p, err := Strstr(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(p), nil
}

func invokeStrspn(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	n, err := Strspn(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Uint(n), nil
}

func invokeStrcspn(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	n, err := Strcspn(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Uint(n), nil
}

func invokeStrpbrk(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p, err := Strpbrk(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(p), nil
}

func invokeMemchr(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p, err := Memchr(m, rt.Arg(args, 0).Ptr(), int32(rt.Arg(args, 1).Int()), rt.Arg(args, 2).Uint())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(p), nil
}

func invokeMemcmp(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	r, err := Memcmp(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr(), rt.Arg(args, 2).Uint())
	if err != nil {
		return rt.None(), err
	}
	return rt.Int(int64(r)), nil
}

func invokeMemcpy(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	dst := rt.Arg(args, 0).Ptr()
	src := rt.Arg(args, 1).Ptr()
	n := rt.Arg(args, 2).Uint()
	p, err := Memcpy(m, dst, src, n)
	if err != nil {
		return rt.None(), err
	}
	rt.DefaultRegistry.Log("str", "memcpy", rt.FormatPtrPair("dst", dst, "src", src))
	return rt.Ptr(p), nil
}

func invokeMemmove(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p, err := Memmove(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr(), rt.Arg(args, 2).Uint())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(p), nil
}

func invokeMemset(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	p, err := Memset(m, rt.Arg(args, 0).Ptr(), int32(rt.Arg(args, 1).Int()), rt.Arg(args, 2).Uint())
	if err != nil {
		return rt.None(), err
	}
	return rt.Ptr(p), nil
}
