package stdio

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

// Stream-shaped placeholders. There are no files: open always fails, reads
// deliver nothing, and every stream permanently reports end-of-stream and
// error. The stdin placeholder in the globals region exists only so
// consumer code holding a FILE* holds something non-NULL.

// Fopen reports failure for every path and mode.
func Fopen(m *machine.Machine, path, mode uint64) uint64 { return 0 }

// Freopen reports failure for every path, mode, and stream.
func Freopen(m *machine.Machine, path, mode, f uint64) uint64 { return 0 }

// Fclose accepts any stream and reports success.
func Fclose(m *machine.Machine, f uint64) int32 { return 0 }

// Fread delivers zero items.
func Fread(m *machine.Machine, buf, size, n, f uint64) uint64 { return 0 }

// Feof reports end-of-stream for every stream.
func Feof(m *machine.Machine, f uint64) int32 { return 1 }

// Ferror reports an error condition for every stream.
func Ferror(m *machine.Machine, f uint64) int32 { return 1 }

// Getc delivers EOF.
func Getc(m *machine.Machine, f uint64) int32 { return -1 }

// Ungetc rejects the pushback.
func Ungetc(m *machine.Machine, c int32, f uint64) int32 { return -1 }

func init() {
	rt.RegisterFunc("stdio", "fopen", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		rt.DefaultRegistry.Log("stdio", "fopen", "no filesystem")
		return rt.Ptr(Fopen(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr())), nil
	}, "fopen64")
	rt.RegisterFunc("stdio", "freopen", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Ptr(Freopen(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Ptr(), rt.Arg(args, 2).Ptr())), nil
	}, "freopen64")
	rt.RegisterFunc("stdio", "fclose", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Int(int64(Fclose(m, rt.Arg(args, 0).Ptr()))), nil
	})
	rt.RegisterFunc("stdio", "fread", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Uint(Fread(m, rt.Arg(args, 0).Ptr(), rt.Arg(args, 1).Uint(), rt.Arg(args, 2).Uint(), rt.Arg(args, 3).Ptr())), nil
	})
	rt.RegisterFunc("stdio", "feof", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Int(int64(Feof(m, rt.Arg(args, 0).Ptr()))), nil
	})
	rt.RegisterFunc("stdio", "ferror", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Int(int64(Ferror(m, rt.Arg(args, 0).Ptr()))), nil
	})
	rt.RegisterFunc("stdio", "getc", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Int(int64(Getc(m, rt.Arg(args, 0).Ptr()))), nil
	})
	rt.RegisterFunc("stdio", "ungetc", func(m *machine.Machine, args []rt.Value) (rt.Value, error) {
		return rt.Int(int64(Ungetc(m, int32(rt.Arg(args, 0).Int()), rt.Arg(args, 1).Ptr()))), nil
	})
}
