// Package machine models the guest address space the embedded C libraries
// live in. There is no CPU here: the libraries are entered at the function
// call boundary, so the machine only owns memory, the libc globals, and the
// three host contracts (allocator, console, halt).
package machine

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Memory layout constants
const (
	HeapBase    = 0x90000000 // guest heap, backed by the host allocator
	GlobalsBase = 0xDEAD0000 // libc globals (_ctype_ tables, lconv, errno)
	GlobalsSize = 0x00010000

	// DefaultHeapSize is used when Config.HeapSize is zero.
	DefaultHeapSize = 0x00400000 // 4MB
)

// Allocator is the host heap contract. Alloc and Realloc return 0 when no
// allocation can be made. Free must tolerate a 0 pointer.
type Allocator interface {
	Alloc(size uint64) uint64
	Free(ptr uint64)
	Realloc(ptr, size uint64) uint64
	UsableSize(ptr uint64) uint64
}

// Console is the host console contract: bytes go out, nothing comes back.
type Console interface {
	Write(p []byte)
}

// ConsoleWriter adapts an io.Writer to the Console contract.
type ConsoleWriter struct{ W io.Writer }

func (c ConsoleWriter) Write(p []byte) {
	if c.W != nil {
		c.W.Write(p)
	}
}

// HaltFunc is the kernel halt handoff. It is expected not to return.
type HaltFunc func(code int32)

// HaltError is what Machine.Halt panics with when no halt hook is installed
// (or the hook returns, which it should not).
type HaltError struct{ Code int32 }

func (e *HaltError) Error() string {
	return fmt.Sprintf("halt: exit code %d", e.Code)
}

type region struct {
	base uint64
	data []byte
	name string
}

// Config carries the host collaborators and geometry for a Machine.
type Config struct {
	HeapSize  uint64
	Allocator Allocator // nil installs the built-in slab allocator
	Console   Console   // nil discards console output
	Halt      HaltFunc  // nil makes Halt panic with *HaltError
}

// Machine is a guest address space plus the installed host contracts.
type Machine struct {
	regions []region
	alloc   Allocator
	console Console
	halt    HaltFunc
}

// New builds a machine, maps the heap and globals regions, and initializes
// the libc globals (classification tables, lconv, errno cell).
func New(cfg Config) (*Machine, error) {
	heapSize := cfg.HeapSize
	if heapSize == 0 {
		heapSize = DefaultHeapSize
	}

	m := &Machine{
		console: cfg.Console,
		halt:    cfg.Halt,
	}
	if err := m.mapRegion("heap", HeapBase, heapSize); err != nil {
		return nil, err
	}
	if err := m.mapRegion("globals", GlobalsBase, GlobalsSize); err != nil {
		return nil, err
	}

	if cfg.Allocator != nil {
		m.alloc = cfg.Allocator
	} else {
		m.alloc = newSlab(m, HeapBase, heapSize)
	}

	if err := m.initGlobals(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Machine) mapRegion(name string, base, size uint64) error {
	for _, r := range m.regions {
		if base < r.base+uint64(len(r.data)) && r.base < base+size {
			return fmt.Errorf("map %s (0x%x): overlaps %s", name, base, r.name)
		}
	}
	m.regions = append(m.regions, region{base: base, data: make([]byte, size), name: name})
	return nil
}

func (m *Machine) find(addr, size uint64) ([]byte, error) {
	for _, r := range m.regions {
		end := r.base + uint64(len(r.data))
		// Compare against the remaining span so addr+size cannot wrap for
		// wild pointers near the top of the address space.
		if addr >= r.base && addr <= end && size <= end-addr {
			off := addr - r.base
			return r.data[off : off+size], nil
		}
	}
	return nil, fmt.Errorf("unmapped access: addr=0x%x size=0x%x", addr, size)
}

// MemRead returns a copy of size bytes at addr.
func (m *Machine) MemRead(addr, size uint64) ([]byte, error) {
	src, err := m.find(addr, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, src)
	return out, nil
}

// MemWrite copies data into guest memory at addr.
func (m *Machine) MemWrite(addr uint64, data []byte) error {
	dst, err := m.find(addr, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}

// MemReadString reads a NUL-terminated string at addr, up to maxLen bytes.
func (m *Machine) MemReadString(addr uint64, maxLen int) (string, error) {
	out := make([]byte, 0, 32)
	for i := 0; i < maxLen; i++ {
		b, err := m.MemReadU8(addr + uint64(i))
		if err != nil {
			return string(out), err
		}
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out), nil
}

// MemWriteString writes s plus a NUL terminator at addr.
func (m *Machine) MemWriteString(addr uint64, s string) error {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return m.MemWrite(addr, buf)
}

func (m *Machine) MemReadU64(addr uint64) (uint64, error) {
	b, err := m.find(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *Machine) MemWriteU64(addr, val uint64) error {
	b, err := m.find(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, val)
	return nil
}

func (m *Machine) MemReadU32(addr uint64) (uint32, error) {
	b, err := m.find(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *Machine) MemWriteU32(addr uint64, val uint32) error {
	b, err := m.find(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, val)
	return nil
}

func (m *Machine) MemReadU16(addr uint64) (uint16, error) {
	b, err := m.find(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (m *Machine) MemWriteU16(addr uint64, val uint16) error {
	b, err := m.find(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, val)
	return nil
}

func (m *Machine) MemReadU8(addr uint64) (uint8, error) {
	b, err := m.find(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *Machine) MemWriteU8(addr uint64, val uint8) error {
	b, err := m.find(addr, 1)
	if err != nil {
		return err
	}
	b[0] = val
	return nil
}

// Alloc forwards to the host allocator.
func (m *Machine) Alloc(size uint64) uint64 { return m.alloc.Alloc(size) }

// Free forwards to the host allocator. A 0 pointer is forwarded as-is; the
// host contract requires it be tolerated.
func (m *Machine) Free(ptr uint64) { m.alloc.Free(ptr) }

// Realloc forwards to the host allocator.
func (m *Machine) Realloc(ptr, size uint64) uint64 { return m.alloc.Realloc(ptr, size) }

// UsableSize forwards to the host allocator.
func (m *Machine) UsableSize(ptr uint64) uint64 { return m.alloc.UsableSize(ptr) }

// Allocator returns the installed host allocator.
func (m *Machine) Allocator() Allocator { return m.alloc }

// ConsoleWrite forwards bytes to the host console, if one is installed.
func (m *Machine) ConsoleWrite(p []byte) {
	if m.console != nil {
		m.console.Write(p)
	}
}

// Halt transfers control to the kernel halt path. It does not return: when
// no hook is installed, or the hook comes back, it panics with *HaltError.
func (m *Machine) Halt(code int32) {
	if m.halt != nil {
		m.halt(code)
	}
	panic(&HaltError{Code: code})
}
