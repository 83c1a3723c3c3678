package machine

import "encoding/binary"

// Character classification flag bits, matching the values glibc encodes in
// the __ctype_b_loc table. The embedded libraries were built against glibc
// headers, so the table contents have to use these exact bits.
const (
	FlagBlank  = 0x0001
	FlagCntrl  = 0x0002
	FlagPunct  = 0x0004
	FlagAlnum  = 0x0008
	FlagUpper  = 0x0100
	FlagLower  = 0x0200
	FlagAlpha  = 0x0400
	FlagDigit  = 0x0800
	FlagXdigit = 0x1000
	FlagSpace  = 0x2000
	FlagPrint  = 0x4000
)

// CtypeTableLen is the entry count of each classification and case table.
// Index = character code + 128, covering codes -128..255 so that EOF (-1)
// and sign-extended chars index safely.
const CtypeTableLen = 384

// Offsets inside the globals region. The pointer cells sit apart from the
// tables because the loc accessors return the address of the POINTER, not
// the table: callers do **__ctype_b_loc() and land on table[128].
const (
	ctypeTableOff = 0x0000 // 384 x uint16
	ctypePtrOff   = 0x0400 // *uint16, biased to table+128 entries
	upperTableOff = 0x0800 // 384 x int32
	upperPtrOff   = 0x0e00
	lowerTableOff = 0x1000 // 384 x int32
	lowerPtrOff   = 0x1600
	errnoOff      = 0x1680 // int32 cell
	lconvOff      = 0x1700 // 10 pointers + 8 char fields
	stringsOff    = 0x1800 // canned NUL-terminated strings
	stdinOff      = 0x1900 // placeholder FILE object
)

// String pool layout, relative to stringsOff.
const (
	strDecimalPoint = 0  // "."
	strEmpty        = 2  // ""
	strMinus        = 3  // "-"
	strError        = 5  // "error"
	strDlerror      = 11 // "no dynamic loading"
	strLocaleC      = 30 // "C"
)

// classTable returns the 384-entry classification table: codes -128..-1 and
// 128..255 are zero (non-ASCII, EOF), codes 0..127 carry ASCII flags.
func classTable() [CtypeTableLen]uint16 {
	var t [CtypeTableLen]uint16
	for c := 0; c < 128; c++ {
		var f uint16
		switch {
		case c == '\t':
			f = FlagCntrl | FlagSpace | FlagBlank
		case c == '\n' || c == '\v' || c == '\f' || c == '\r':
			f = FlagCntrl | FlagSpace
		case c < 32 || c == 127:
			f = FlagCntrl
		case c == ' ':
			f = FlagPrint | FlagSpace | FlagBlank
		case c >= '0' && c <= '9':
			f = FlagPrint | FlagDigit | FlagXdigit | FlagAlnum
		case c >= 'A' && c <= 'F':
			f = FlagPrint | FlagUpper | FlagAlpha | FlagXdigit | FlagAlnum
		case c >= 'A' && c <= 'Z':
			f = FlagPrint | FlagUpper | FlagAlpha | FlagAlnum
		case c >= 'a' && c <= 'f':
			f = FlagPrint | FlagLower | FlagAlpha | FlagXdigit | FlagAlnum
		case c >= 'a' && c <= 'z':
			f = FlagPrint | FlagLower | FlagAlpha | FlagAlnum
		default:
			f = FlagPrint | FlagPunct
		}
		t[128+c] = f
	}
	return t
}

// caseTable returns a 384-entry case-conversion table. Codes -128..-1 map
// to zero, everything else is identity except [lo, hi] which is shifted by
// delta ('a'..'z' by -32 for toupper, 'A'..'Z' by +32 for tolower).
func caseTable(lo, hi, delta int32) [CtypeTableLen]int32 {
	var t [CtypeTableLen]int32
	for c := int32(0); c < 256; c++ {
		v := c
		if c >= lo && c <= hi {
			v = c + delta
		}
		t[128+c] = v
	}
	return t
}

// initGlobals lays out the libc globals region: the three biased
// classification and case tables with their pointer cells, the errno cell,
// the lconv record, and the canned strings it points at.
func (m *Machine) initGlobals() error {
	cls := classTable()
	buf := make([]byte, CtypeTableLen*2)
	for i, v := range cls {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	if err := m.MemWrite(GlobalsBase+ctypeTableOff, buf); err != nil {
		return err
	}
	if err := m.MemWriteU64(GlobalsBase+ctypePtrOff, GlobalsBase+ctypeTableOff+128*2); err != nil {
		return err
	}

	upper := caseTable('a', 'z', -32)
	buf = make([]byte, CtypeTableLen*4)
	for i, v := range upper {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	if err := m.MemWrite(GlobalsBase+upperTableOff, buf); err != nil {
		return err
	}
	if err := m.MemWriteU64(GlobalsBase+upperPtrOff, GlobalsBase+upperTableOff+128*4); err != nil {
		return err
	}

	lower := caseTable('A', 'Z', 32)
	buf = make([]byte, CtypeTableLen*4)
	for i, v := range lower {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	if err := m.MemWrite(GlobalsBase+lowerTableOff, buf); err != nil {
		return err
	}
	if err := m.MemWriteU64(GlobalsBase+lowerPtrOff, GlobalsBase+lowerTableOff+128*4); err != nil {
		return err
	}

	if err := m.MemWriteU32(GlobalsBase+errnoOff, 0); err != nil {
		return err
	}

	pool := GlobalsBase + uint64(stringsOff)
	for off, s := range map[uint64]string{
		strDecimalPoint: ".",
		strEmpty:        "",
		strMinus:        "-",
		strError:        "error",
		strDlerror:      "no dynamic loading",
		strLocaleC:      "C",
	} {
		if err := m.MemWriteString(pool+off, s); err != nil {
			return err
		}
	}

	// lconv: decimal_point ".", negative_sign "-", everything else the
	// empty string; the trailing char fields stay zero.
	ptrs := []uint64{
		pool + strDecimalPoint, // decimal_point
		pool + strEmpty,        // thousands_sep
		pool + strEmpty,        // grouping
		pool + strEmpty,        // int_curr_symbol
		pool + strEmpty,        // currency_symbol
		pool + strEmpty,        // mon_decimal_point
		pool + strEmpty,        // mon_thousands_sep
		pool + strEmpty,        // mon_grouping
		pool + strEmpty,        // positive_sign
		pool + strMinus,        // negative_sign
	}
	for i, p := range ptrs {
		if err := m.MemWriteU64(GlobalsBase+lconvOff+uint64(i*8), p); err != nil {
			return err
		}
	}
	return nil
}

// CtypeLoc returns the address of the classification table pointer cell,
// mirroring glibc's __ctype_b_loc: the cell holds a pointer to entry 128 of
// the 384-entry flags table, so negative codes index backwards into it.
func (m *Machine) CtypeLoc() uint64 { return GlobalsBase + ctypePtrOff }

// ToupperLoc returns the address of the toupper table pointer cell
// (__ctype_toupper_loc protocol).
func (m *Machine) ToupperLoc() uint64 { return GlobalsBase + upperPtrOff }

// TolowerLoc returns the address of the tolower table pointer cell
// (__ctype_tolower_loc protocol).
func (m *Machine) TolowerLoc() uint64 { return GlobalsBase + lowerPtrOff }

// ErrnoLoc returns the address of the errno cell (__errno_location).
func (m *Machine) ErrnoLoc() uint64 { return GlobalsBase + errnoOff }

// Errno reads the current errno value.
func (m *Machine) Errno() int32 {
	v, err := m.MemReadU32(m.ErrnoLoc())
	if err != nil {
		return 0
	}
	return int32(v)
}

// SetErrno stores v into the errno cell.
func (m *Machine) SetErrno(v int32) {
	m.MemWriteU32(m.ErrnoLoc(), uint32(v))
}

// LconvAddr returns the address of the static lconv record ("." decimal
// point, "-" negative sign, empty everything else).
func (m *Machine) LconvAddr() uint64 { return GlobalsBase + lconvOff }

// StrerrorText returns the address of the fixed strerror string.
func (m *Machine) StrerrorText() uint64 { return GlobalsBase + stringsOff + strError }

// DlerrorText returns the address of the fixed dlerror string.
func (m *Machine) DlerrorText() uint64 { return GlobalsBase + stringsOff + strDlerror }

// LocaleName returns the address of the "C" locale name string.
func (m *Machine) LocaleName() uint64 { return GlobalsBase + stringsOff + strLocaleC }

// StdinAddr returns the address of the placeholder stdin FILE object. It is
// never read through; it only has to be a stable non-NULL pointer.
func (m *Machine) StdinAddr() uint64 { return GlobalsBase + stdinOff }
