package machine

// SizeClass rounds a request up to the allocation size class: powers of two
// from 8 to 4096, then multiples of 4096. The memory bridge reports the same
// rounding, so guest-visible usable sizes and host bookkeeping agree.
func SizeClass(n uint64) uint64 {
	if n > 4096 {
		return (n + 4095) &^ 4095
	}
	c := uint64(8)
	for c < n {
		c <<= 1
	}
	return c
}

// slab is the built-in heap allocator: a bump pointer over the heap region
// with per-class free lists. It is deliberately simple; a kernel wires its
// own Allocator in and this one only backs tests and the CLI harness.
type slab struct {
	m     *Machine
	base  uint64
	limit uint64
	next  uint64
	free  map[uint64][]uint64 // size class -> free addresses
	sizes map[uint64]uint64   // live ptr -> size class
}

// NewSlab builds the built-in allocator over [base, base+size). Exposed so
// harnesses can wrap it with instrumentation before handing it to Config.
func NewSlab(m *Machine, base, size uint64) Allocator {
	return newSlab(m, base, size)
}

func newSlab(m *Machine, base, size uint64) *slab {
	return &slab{
		m:     m,
		base:  base,
		limit: base + size,
		next:  base,
		free:  make(map[uint64][]uint64),
		sizes: make(map[uint64]uint64),
	}
}

func (s *slab) Alloc(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	class := SizeClass(size)
	if list := s.free[class]; len(list) > 0 {
		ptr := list[len(list)-1]
		s.free[class] = list[:len(list)-1]
		s.sizes[ptr] = class
		return ptr
	}
	if s.next+class > s.limit {
		return 0
	}
	ptr := s.next
	s.next += class
	s.sizes[ptr] = class
	return ptr
}

func (s *slab) Free(ptr uint64) {
	if ptr == 0 {
		return
	}
	class, ok := s.sizes[ptr]
	if !ok {
		return
	}
	delete(s.sizes, ptr)
	s.free[class] = append(s.free[class], ptr)
}

func (s *slab) Realloc(ptr, size uint64) uint64 {
	if ptr == 0 {
		return s.Alloc(size)
	}
	if size == 0 {
		s.Free(ptr)
		return 0
	}
	old := s.sizes[ptr]
	if SizeClass(size) <= old {
		return ptr
	}
	next := s.Alloc(size)
	if next == 0 {
		return 0
	}
	data, err := s.m.MemRead(ptr, old)
	if err == nil {
		s.m.MemWrite(next, data)
	}
	s.Free(ptr)
	return next
}

func (s *slab) UsableSize(ptr uint64) uint64 {
	return s.sizes[ptr]
}
