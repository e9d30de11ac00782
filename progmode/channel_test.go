package progmode

import (
	"testing"
	"time"

	"publicradio-go/errcode"
	"publicradio-go/params"
	"publicradio-go/types"
	"publicradio-go/x/crc16"
)

type memNVM struct{ mem [64]byte }

func (m *memNVM) ReadByte(addr uint16) byte     { return m.mem[addr] }
func (m *memNVM) WriteByte(addr uint16, b byte) { m.mem[addr] = b }

type scriptSource struct {
	data []byte
	pos  int
}

var _ ByteSource = (*scriptSource)(nil)

func (s *scriptSource) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, errcode.ShortRead
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func packet(channel uint16) []byte {
	hi, lo := byte(channel>>8), byte(channel)
	crc := crc16.Update(crc16.Update(0, hi), lo)
	return []byte{hi, lo, byte(crc >> 8), byte(crc)}
}

func newTestChannel(src ByteSource) (*Channel, *params.Store, *[]uint8) {
	nvm := &memNVM{}
	img := params.Pack(types.TuningParams{Channel: 0x0020, Volume: 5})
	copy(nvm.mem[int(params.Working):], img[:])

	store := params.NewStore(nvm)
	var blinks []uint8
	ch := New(src, store, func(n uint8) { blinks = append(blinks, n) },
		func(time.Duration) {})
	return ch, store, &blinks
}

func TestAcceptedPacketUpdatesChannel(t *testing.T) {
	ch, store, blinks := newTestChannel(&scriptSource{data: packet(0x0144)})

	if err := ch.HandlePacket(); err != nil {
		t.Fatalf("HandlePacket: %v", err)
	}
	if got := store.Decode(params.Working).Channel; got != 0x0144 {
		t.Fatalf("stored channel = %#04x, want 0x0144", got)
	}
	if !store.Validate(params.Working) {
		t.Fatal("working block should stay checksum-valid after update")
	}
	if len(*blinks) != 1 || (*blinks)[0] != FeedbackAccepted {
		t.Fatalf("feedback = %v, want [%d]", *blinks, FeedbackAccepted)
	}
}

func TestSwappedChecksumRejected(t *testing.T) {
	p := packet(0x0144)
	p[2], p[3] = p[3], p[2]
	ch, store, blinks := newTestChannel(&scriptSource{data: p})

	if err := ch.HandlePacket(); err != errcode.BadPacket {
		t.Fatalf("err = %v, want %v", err, errcode.BadPacket)
	}
	if got := store.Decode(params.Working).Channel; got != 0x0020 {
		t.Fatalf("stored channel = %#04x, want prior value 0x0020", got)
	}
	if len(*blinks) != 1 || (*blinks)[0] != FeedbackRejected {
		t.Fatalf("feedback = %v, want [%d]", *blinks, FeedbackRejected)
	}
}

func TestShortReadAborts(t *testing.T) {
	for length := 0; length < 4; length++ {
		src := &scriptSource{data: packet(0x0101)[:length]}
		ch, store, blinks := newTestChannel(src)

		if err := ch.HandlePacket(); err != errcode.ShortRead {
			t.Fatalf("len %d: err = %v, want %v", length, err, errcode.ShortRead)
		}
		if got := store.Decode(params.Working).Channel; got != 0x0020 {
			t.Fatalf("len %d: store touched, channel = %#04x", length, got)
		}
		if len(*blinks) != 0 {
			t.Fatalf("len %d: unexpected feedback %v", length, *blinks)
		}
	}
}
