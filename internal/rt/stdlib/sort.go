package stdlib

import (
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt/str"
)

// MaxSortWidth is the element-size ceiling for Qsort's temporary slot.
// Elements wider than this make the sort return without touching the
// buffer.
const MaxSortWidth = 256

// Compare is a three-way comparator over two guest element addresses.
// Comparators live on the host side of the call boundary: a guest function
// pointer cannot be called without a CPU, so qsort and bsearch are entered
// through this typed surface rather than the name registry.
type Compare func(m *machine.Machine, a, b uint64) (int32, error)

// Qsort sorts nel elements of width bytes at base in place using a
// shrinking-gap insertion sort.
func Qsort(m *machine.Machine, base, nel, width uint64, compar Compare) error {
	if width > MaxSortWidth {
		return nil
	}
	if nel < 2 || width == 0 {
		return nil
	}

	// The comparator sees guest addresses, so the temporary slot has to
	// live in guest memory too.
	tmp := m.Alloc(width)
	if tmp == 0 {
		return nil
	}
	defer m.Free(tmp)

	for gap := nel / 2; gap > 0; gap /= 2 {
		for i := gap; i < nel; i++ {
			if _, err := str.Memcpy(m, tmp, base+i*width, width); err != nil {
				return err
			}
			j := i
			for j >= gap {
				cmp, err := compar(m, base+(j-gap)*width, tmp)
				if err != nil {
					return err
				}
				if cmp <= 0 {
					break
				}
				if _, err := str.Memcpy(m, base+j*width, base+(j-gap)*width, width); err != nil {
					return err
				}
				j -= gap
			}
			if _, err := str.Memcpy(m, base+j*width, tmp, width); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bsearch finds an element matching key in the sorted buffer at base and
// returns its address, or 0. With duplicate keys any match may be returned.
func Bsearch(m *machine.Machine, key, base, nel, width uint64, compar Compare) (uint64, error) {
	lo, hi := uint64(0), nel
	for lo < hi {
		mid := lo + (hi-lo)/2
		cmp, err := compar(m, key, base+mid*width)
		if err != nil {
			return 0, err
		}
		switch {
		case cmp == 0:
			return base + mid*width, nil
		case cmp < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return 0, nil
}
