// Package ctype implements character classification and case mapping on
// top of the biased guest tables. Every predicate goes through the table
// pointer the same way the glibc macros do, so the guest tables stay the
// single source of truth.
package ctype

import (
	"github.com/skiff-os/crt/internal/machine"
)

// Flags reads the classification entry for code c through the biased table
// pointer. Codes outside -128..255 read as zero.
func Flags(m *machine.Machine, c int32) (uint16, error) {
	if c < -128 || c > 255 {
		return 0, nil
	}
	table, err := m.MemReadU64(m.CtypeLoc())
	if err != nil {
		return 0, err
	}
	return m.MemReadU16(table + uint64(int64(c)*2))
}

func has(m *machine.Machine, c int32, flag uint16) (bool, error) {
	f, err := Flags(m, c)
	if err != nil {
		return false, err
	}
	return f&flag != 0, nil
}

func Isalpha(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagAlpha) }
func Isdigit(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagDigit) }
func Isalnum(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagAlnum) }
func Isspace(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagSpace) }
func Isupper(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagUpper) }
func Islower(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagLower) }
func Isxdigit(m *machine.Machine, c int32) (bool, error) { return has(m, c, machine.FlagXdigit) }
func Isprint(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagPrint) }
func Iscntrl(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagCntrl) }
func Ispunct(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagPunct) }
func Isblank(m *machine.Machine, c int32) (bool, error)  { return has(m, c, machine.FlagBlank) }

// Isgraph is printable-and-not-space: every alnum or punct code.
func Isgraph(m *machine.Machine, c int32) (bool, error) {
	return has(m, c, machine.FlagAlnum|machine.FlagPunct)
}

func caseMap(m *machine.Machine, loc uint64, c int32) (int32, error) {
	if c < -128 || c > 255 {
		return c, nil
	}
	table, err := m.MemReadU64(loc)
	if err != nil {
		return 0, err
	}
	v, err := m.MemReadU32(table + uint64(int64(c)*4))
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// Toupper maps c through the guest toupper table.
func Toupper(m *machine.Machine, c int32) (int32, error) {
	return caseMap(m, m.ToupperLoc(), c)
}

// Tolower maps c through the guest tolower table.
func Tolower(m *machine.Machine, c int32) (int32, error) {
	return caseMap(m, m.TolowerLoc(), c)
}
