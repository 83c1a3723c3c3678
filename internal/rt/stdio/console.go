package stdio

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
)

// WriteString forwards len bytes at s to the host console.
func WriteString(m *machine.Machine, s uint64, length int32) error {
	if length <= 0 {
		return nil
	}
	data, err := m.MemRead(s, uint64(length))
	if err != nil {
		return err
	}
	m.ConsoleWrite(data)
	return nil
}

// WriteLine forwards a line terminator to the host console.
func WriteLine(m *machine.Machine) {
	m.ConsoleWrite([]byte{'\n'})
}

// errBufSize bounds the scratch buffer for diagnostic messages, matching
// the small stack buffer the consumers' own error path uses.
const errBufSize = 256

// WriteError formats a message plus one argument into a bounded scratch
// buffer and forwards the result to the console. Used by the embedded
// libraries' diagnostic-output path.
func WriteError(m *machine.Machine, format string, arg rt.Value) error {
	buf := m.Alloc(errBufSize)
	if buf == 0 {
		return nil
	}
	defer m.Free(buf)

	n, err := Vsnprintf(m, buf, errBufSize, format, []rt.Value{arg})
	if err != nil {
		return err
	}
	if n > errBufSize-1 {
		n = errBufSize - 1
	}
	return WriteString(m, buf, n)
}
