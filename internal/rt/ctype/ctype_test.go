package ctype

import (
	"testing"

	"github.com/skiff-os/crt/internal/machine"
)

func newM(t *testing.T) *machine.Machine {
	t.Helper()
	m, err := machine.New(machine.Config{})
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	return m
}

// TestPredicatesMatchDirectComputation checks every representable code
// against a direct range computation.
func TestPredicatesMatchDirectComputation(t *testing.T) {
	m := newM(t)

	for c := int32(-128); c <= 255; c++ {
		ascii := c >= 0 && c < 128

		wantDigit := ascii && c >= '0' && c <= '9'
		wantUpper := ascii && c >= 'A' && c <= 'Z'
		wantLower := ascii && c >= 'a' && c <= 'z'
		wantAlpha := wantUpper || wantLower
		wantAlnum := wantAlpha || wantDigit
		wantSpace := ascii && (c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r')
		wantXdigit := wantDigit || (ascii && ((c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')))
		wantPrint := ascii && c >= 0x20 && c <= 0x7e
		wantCntrl := ascii && (c < 0x20 || c == 0x7f)
		wantPunct := wantPrint && !wantAlnum && c != ' '
		wantBlank := c == ' ' || c == '\t'
		wantGraph := wantPrint && c != ' '

		checks := []struct {
			name string
			fn   func(*machine.Machine, int32) (bool, error)
			want bool
		}{
			{"isdigit", Isdigit, wantDigit},
			{"isupper", Isupper, wantUpper},
			{"islower", Islower, wantLower},
			{"isalpha", Isalpha, wantAlpha},
			{"isalnum", Isalnum, wantAlnum},
			{"isspace", Isspace, wantSpace},
			{"isxdigit", Isxdigit, wantXdigit},
			{"isprint", Isprint, wantPrint},
			{"iscntrl", Iscntrl, wantCntrl},
			{"ispunct", Ispunct, wantPunct},
			{"isblank", Isblank, wantBlank},
			{"isgraph", Isgraph, wantGraph},
		}
		for _, chk := range checks {
			got, err := chk.fn(m, c)
			if err != nil {
				t.Fatalf("%s(%d): %v", chk.name, c, err)
			}
			if got != chk.want {
				t.Errorf("%s(%d) = %v, want %v", chk.name, c, got, chk.want)
			}
		}
	}
}

// TestCaseMappingInvolution checks that mapping down and back up restores
// letters, and that codes without a case map to themselves.
func TestCaseMappingInvolution(t *testing.T) {
	m := newM(t)

	for c := int32(0); c <= 255; c++ {
		up, err := Toupper(m, c)
		if err != nil {
			t.Fatal(err)
		}
		lo, err := Tolower(m, c)
		if err != nil {
			t.Fatal(err)
		}
		switch {
		case c >= 'a' && c <= 'z':
			if up != c-32 {
				t.Errorf("Toupper(%d) = %d", c, up)
			}
			back, _ := Tolower(m, up)
			if back != c {
				t.Errorf("Tolower(Toupper(%d)) = %d", c, back)
			}
		case c >= 'A' && c <= 'Z':
			if lo != c+32 {
				t.Errorf("Tolower(%d) = %d", c, lo)
			}
			back, _ := Toupper(m, lo)
			if back != c {
				t.Errorf("Toupper(Tolower(%d)) = %d", c, back)
			}
		default:
			if up != c || lo != c {
				t.Errorf("case(%d) = %d/%d, want identity", c, up, lo)
			}
		}
	}
}

func TestEOFClassifiesAsNothing(t *testing.T) {
	m := newM(t)

	f, err := Flags(m, -1)
	if err != nil {
		t.Fatal(err)
	}
	if f != 0 {
		t.Errorf("Flags(EOF) = 0x%04x, want 0", f)
	}
	up, _ := Toupper(m, -1)
	if up != 0 {
		t.Errorf("Toupper(EOF) = %d, want 0", up)
	}
}

func TestOutOfRangeCodes(t *testing.T) {
	m := newM(t)

	f, err := Flags(m, 4096)
	if err != nil {
		t.Fatal(err)
	}
	if f != 0 {
		t.Errorf("Flags(4096) = 0x%04x, want 0", f)
	}
	up, err := Toupper(m, -500)
	if err != nil {
		t.Fatal(err)
	}
	if up != -500 {
		t.Errorf("Toupper(-500) = %d, want identity", up)
	}
}
