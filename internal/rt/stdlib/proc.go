package stdlib

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

// Exit transfers control to the kernel halt path. It does not return.
func Exit(m *machine.Machine, status int32) {
	rt.DefaultRegistry.Log("stdlib", "exit", "halt")
	m.Halt(status)
}

// Abort terminates with a fixed failure code. It does not return.
func Abort(m *machine.Machine) {
	rt.DefaultRegistry.Log("stdlib", "abort", "halt")
	m.Halt(134) // 128 + SIGABRT, the conventional shell-visible code
}

// Atexit accepts and discards the handler: exit never unwinds through
// registered handlers in this environment. Always reports success.
func Atexit(m *machine.Machine, fn uint64) int32 {
	return 0
}
