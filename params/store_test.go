package params

import (
	"testing"

	"publicradio-go/types"
)

// Compile-time check.
var _ types.NVM = (*fakeNVM)(nil)

// fakeNVM is a byte array with an optional write budget, so tests can cut
// power mid-update.
type fakeNVM struct {
	mem        [64]byte
	writesLeft int // <0 => unlimited
}

func newFakeNVM() *fakeNVM {
	return &fakeNVM{writesLeft: -1}
}

func (f *fakeNVM) ReadByte(addr uint16) byte { return f.mem[addr] }

func (f *fakeNVM) WriteByte(addr uint16, b byte) {
	if f.writesLeft == 0 {
		return // power gone
	}
	if f.writesLeft > 0 {
		f.writesLeft--
	}
	f.mem[addr] = b
}

func seed(t *testing.T, f *fakeNVM) *Store {
	t.Helper()
	img, err := FactoryImage()
	if err != nil {
		t.Fatalf("FactoryImage: %v", err)
	}
	copy(f.mem[int(Working):], img[:])
	copy(f.mem[int(Factory):], img[:])
	return NewStore(f)
}

func TestValidateAndBitSensitivity(t *testing.T) {
	nvm := newFakeNVM()
	s := seed(t, nvm)

	if !s.Validate(Working) {
		t.Fatal("freshly packed working block should validate")
	}

	// Flipping any single bit of the covered bytes must be detected.
	for i := 0; i < offChecksum; i++ {
		for bit := 0; bit < 8; bit++ {
			nvm.mem[i] ^= 1 << bit
			if s.Validate(Working) {
				t.Fatalf("flip of byte %d bit %d went undetected", i, bit)
			}
			nvm.mem[i] ^= 1 << bit
		}
	}
	if !s.Validate(Working) {
		t.Fatal("block should validate again after restoring bits")
	}
}

func TestCopyFactoryToWorking(t *testing.T) {
	nvm := newFakeNVM()
	s := seed(t, nvm)

	// Trash the working block completely.
	for i := 0; i < BlockSize; i++ {
		nvm.mem[i] = 0xFF
	}
	if s.Validate(Working) {
		t.Fatal("trashed block should not validate")
	}

	s.CopyFactoryToWorking()

	if !s.Validate(Working) {
		t.Fatal("working should validate after factory copy")
	}
	w, f := s.Load(Working), s.Load(Factory)
	if w != f {
		t.Fatalf("working %x != factory %x after copy", w, f)
	}
}

func TestUpdateChannel(t *testing.T) {
	nvm := newFakeNVM()
	s := seed(t, nvm)

	s.UpdateChannel(0x0144)

	if got := s.Decode(Working).Channel; got != 0x0144 {
		t.Fatalf("channel = %#04x, want 0x0144", got)
	}
	if !s.Validate(Working) {
		t.Fatal("working block should validate after UpdateChannel")
	}
	// Factory stays untouched.
	if got := s.Decode(Factory).Channel; got == 0x0144 {
		t.Fatal("factory block channel changed by UpdateChannel")
	}
}

func TestPowerLossBetweenWritesIsDetectable(t *testing.T) {
	nvm := newFakeNVM()
	s := seed(t, nvm)

	// Allow only the channel field write (2 bytes); power dies before the
	// checksum is rewritten.
	nvm.writesLeft = 2
	s.UpdateChannel(0x0100)

	if s.Validate(Working) {
		t.Fatal("interrupted update must be flagged as corrupt, not pass")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	nvm := newFakeNVM()
	want := types.TuningParams{Band: 1, Deemphasis: 1, Spacing: 2, Channel: 320, Volume: 7}
	img := Pack(want)
	copy(nvm.mem[int(Working):], img[:])

	s := NewStore(nvm)
	if !s.Validate(Working) {
		t.Fatal("packed block should validate")
	}
	if got := s.Decode(Working); got != want {
		t.Fatalf("Decode = %+v, want %+v", got, want)
	}
}
