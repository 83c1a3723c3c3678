package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/spf13/cobra"

	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

// runScript executes a JavaScript file with a `crt` object bound to a live
// guest machine, so runtime symbols can be driven interactively:
//
//	var p = crt.str("0x1F");
//	var n = crt.call("strtol", p, 0, 0);
//	print("parsed", n);
func runScript(cmd *cobra.Command, args []string) (err error) {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	m, err := newMachine()
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}

	vm := goja.New()
	if err := bindRuntime(vm, m); err != nil {
		return err
	}
	if err := vm.Set("print", func(call goja.FunctionCall) goja.Value {
		for i, arg := range call.Arguments {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(arg.String())
		}
		fmt.Println()
		return goja.Undefined()
	}); err != nil {
		return err
	}

	// exit and abort unwind with a halt; report the code instead of
	// crashing the harness.
	defer func() {
		if r := recover(); r != nil {
			halt, ok := r.(*machine.HaltError)
			if !ok {
				panic(r)
			}
			fmt.Printf("guest halted with code %d\n", halt.Code)
		}
	}()

	if _, err := vm.RunScript(args[0], string(src)); err != nil {
		var halt *machine.HaltError
		if errors.As(err, &halt) {
			fmt.Printf("guest halted with code %d\n", halt.Code)
			return nil
		}
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// bindRuntime installs the `crt` object on the VM.
func bindRuntime(vm *goja.Runtime, m *machine.Machine) error {
	crt := vm.NewObject()

	must := func(err error) {
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
	}

	must(crt.Set("alloc", func(n int64) uint64 {
		return m.Alloc(uint64(n))
	}))
	must(crt.Set("free", func(p uint64) {
		m.Free(p)
	}))
	must(crt.Set("str", func(s string) uint64 {
		p := m.Alloc(uint64(len(s)) + 1)
		if p == 0 {
			panic(vm.ToValue("out of guest memory"))
		}
		must(m.MemWriteString(p, s))
		return p
	}))
	must(crt.Set("readString", func(addr uint64) string {
		s, err := m.MemReadString(addr, 4096)
		must(err)
		return s
	}))
	must(crt.Set("read", func(addr, n uint64) []byte {
		data, err := m.MemRead(addr, n)
		must(err)
		return data
	}))
	must(crt.Set("write", func(addr uint64, data []byte) {
		must(m.MemWrite(addr, data))
	}))
	must(crt.Set("peek32", func(addr uint64) uint32 {
		v, err := m.MemReadU32(addr)
		must(err)
		return v
	}))
	must(crt.Set("poke32", func(addr uint64, v uint32) {
		must(m.MemWriteU32(addr, v))
	}))
	must(crt.Set("errno", func() int32 {
		return m.Errno()
	}))
	must(crt.Set("symbols", func() []string {
		return rt.DefaultRegistry.List()
	}))

	// call dispatches a registered symbol. Numbers pass as integers,
	// strings are copied into guest memory and pass as pointers.
	must(crt.Set("call", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.ToValue("call needs a symbol name"))
		}
		name := call.Arguments[0].String()

		vals := make([]rt.Value, 0, len(call.Arguments)-1)
		for _, arg := range call.Arguments[1:] {
			switch v := arg.Export().(type) {
			case int64:
				vals = append(vals, rt.Int(v))
			case float64:
				vals = append(vals, rt.Float(v))
			case string:
				p := m.Alloc(uint64(len(v)) + 1)
				if p == 0 {
					panic(vm.ToValue("out of guest memory"))
				}
				must(m.MemWriteString(p, v))
				vals = append(vals, rt.Ptr(p))
			default:
				panic(vm.ToValue(fmt.Sprintf("unsupported argument %v", arg)))
			}
		}

		out, err := rt.Call(m, name, vals...)
		must(err)
		switch out.Kind() {
		case rt.KindFloat:
			return vm.ToValue(out.Float())
		case rt.KindPtr:
			return vm.ToValue(out.Ptr())
		case rt.KindNone:
			return goja.Undefined()
		}
		return vm.ToValue(out.Int())
	}))

	return vm.Set("crt", crt)
}
