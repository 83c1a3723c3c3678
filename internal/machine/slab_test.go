package machine

import "testing"

func TestSizeClass(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{1, 8},
		{8, 8},
		{9, 16},
		{100, 128},
		{4096, 4096},
		{4097, 8192},
		{5000, 8192},
		{12288, 12288},
		{12289, 16384},
	}
	for _, tt := range tests {
		if got := SizeClass(tt.n); got != tt.want {
			t.Errorf("SizeClass(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSlabAllocFree(t *testing.T) {
	m := newTestMachine(t)

	p1 := m.Alloc(100)
	if p1 == 0 {
		t.Fatal("Alloc(100) returned NULL")
	}
	if sz := m.UsableSize(p1); sz != 128 {
		t.Errorf("UsableSize = %d, want 128", sz)
	}
	p2 := m.Alloc(100)
	if p2 == 0 || p2 == p1 {
		t.Fatalf("second Alloc = 0x%x", p2)
	}

	// Freed blocks are reused, but only by requests of the same class.
	m.Free(p1)
	p3 := m.Alloc(64)
	if p3 == p1 {
		t.Errorf("Alloc(64) reused a class-128 block at 0x%x", p3)
	}
	p4 := m.Alloc(100)
	if p4 != p1 {
		t.Errorf("Alloc(100) after Free = 0x%x, want reuse of 0x%x", p4, p1)
	}

	m.Free(0) // must be tolerated
}

func TestSlabRealloc(t *testing.T) {
	m := newTestMachine(t)

	p := m.Realloc(0, 16)
	if p == 0 {
		t.Fatal("Realloc(NULL, 16) returned NULL")
	}
	if err := m.MemWriteString(p, "abc"); err != nil {
		t.Fatal(err)
	}

	// Growing within the class keeps the block.
	if q := m.Realloc(p, 16); q != p {
		t.Errorf("Realloc same class moved block to 0x%x", q)
	}

	// Growing past the class copies contents.
	q := m.Realloc(p, 4000)
	if q == 0 || q == p {
		t.Fatalf("Realloc grow = 0x%x", q)
	}
	s, err := m.MemReadString(q, 16)
	if err != nil {
		t.Fatal(err)
	}
	if s != "abc" {
		t.Errorf("contents after grow = %q, want %q", s, "abc")
	}

	// Size 0 frees.
	if r := m.Realloc(q, 0); r != 0 {
		t.Errorf("Realloc(p, 0) = 0x%x, want 0", r)
	}
	if sz := m.UsableSize(q); sz != 0 {
		t.Errorf("UsableSize after free = %d, want 0", sz)
	}
}

func TestSlabExhaustion(t *testing.T) {
	m, err := New(Config{HeapSize: 0x1000})
	if err != nil {
		t.Fatal(err)
	}
	p := m.Alloc(0x1000)
	if p == 0 {
		t.Fatal("Alloc of whole heap failed")
	}
	if q := m.Alloc(8); q != 0 {
		t.Errorf("Alloc on full heap = 0x%x, want 0", q)
	}
	m.Free(p)
	if q := m.Alloc(0x1000); q != p {
		t.Errorf("Alloc after free = 0x%x, want 0x%x", q, p)
	}
}
