package libm

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

func init() {
	rt.RegisterFunc("libm", "fabs", unary(Fabs))
	rt.RegisterFunc("libm", "floor", unary(Floor))
	rt.RegisterFunc("libm", "ceil", unary(Ceil))
	rt.RegisterFunc("libm", "sqrt", unary(Sqrt))
	rt.RegisterFunc("libm", "log", unary(Log))
	rt.RegisterFunc("libm", "log2", unary(Log2))
	rt.RegisterFunc("libm", "log10", unary(Log10))
	rt.RegisterFunc("libm", "exp", unary(Exp))
	rt.RegisterFunc("libm", "sin", unary(Sin))
	rt.RegisterFunc("libm", "cos", unary(Cos))
	rt.RegisterFunc("libm", "tan", unary(Tan))
	rt.RegisterFunc("libm", "atan", unary(Atan))
	rt.RegisterFunc("libm", "asin", unary(Asin))
	rt.RegisterFunc("libm", "acos", unary(Acos))

	rt.RegisterFunc("libm", "fmod", binary(Fmod))
	rt.RegisterFunc("libm", "pow", binary(Pow))
	rt.RegisterFunc("libm", "atan2", binary(Atan2))
	rt.RegisterFunc("libm", "fmin", binary(Fmin))
	rt.RegisterFunc("libm", "fmax", binary(Fmax))

	rt.RegisterFunc("libm", "ldexp", invokeLdexp)
	rt.RegisterFunc("libm", "frexp", invokeFrexp)
	rt.RegisterFunc("libm", "isnan", invokeIsnan)
	rt.RegisterFunc("libm", "isinf", invokeIsinf)
}

func unary(fn func(float64) float64) rt.InvokeFunc {
	return func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Float(fn(rt.Arg(args, 0).Float())), nil
	}
}

func binary(fn func(float64, float64) float64) rt.InvokeFunc {
	return func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Float(fn(rt.Arg(args, 0).Float(), rt.Arg(args, 1).Float())), nil
	}
}

func invokeLdexp(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	return rt.Float(Ldexp(rt.Arg(args, 0).Float(), int32(rt.Arg(args, 1).Int()))), nil
}

func invokeFrexp(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	frac, exp := Frexp(rt.Arg(args, 0).Float())
	if out := rt.Arg(args, 1).Ptr(); out != 0 {
		if err := m.MemWriteU32(out, uint32(exp)); err != nil {
			return rt.None(), err
		}
	}
	return rt.Float(frac), nil
}

func invokeIsnan(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	if Isnan(rt.Arg(args, 0).Float()) {
		return rt.Int(1), nil
	}
	return rt.Int(0), nil
}

func invokeIsinf(m *machine.Machine, args []rt.Value) (rt.Value, error) {
	if Isinf(rt.Arg(args, 0).Float()) {
		return rt.Int(1), nil
	}
	return rt.Int(0), nil
}
