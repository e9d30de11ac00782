// Package params owns the persisted tuning parameters: two 16-byte blocks in
// non-volatile memory, each trailed by a CRC-16 over its first 14 bytes. The
// working block is the one the firmware runs from; the factory block is
// written at manufacture and only ever copied, never mutated.
package params

import (
	"publicradio-go/types"
	"publicradio-go/x/crc16"
)

// Block layout (byte offsets within a 16-byte block).
const (
	offBand       = 0
	offDeemphasis = 1
	offSpacing    = 2
	offChannel    = 3 // 2 bytes, big-endian
	offVolume     = 5
	offChecksum   = 14 // 2 bytes, low byte first (accumulator byte order)

	// BlockSize is the full record including its checksum.
	BlockSize = 16
)

// Slot selects one of the two parameter blocks.
type Slot uint16

const (
	Working Slot = 0
	Factory Slot = 16
)

// Store reads and writes the parameter blocks over byte-addressed NVM.
type Store struct {
	nvm types.NVM
}

func NewStore(nvm types.NVM) *Store {
	return &Store{nvm: nvm}
}

// Load returns the raw 16-byte record for a slot. No validation is performed.
func (s *Store) Load(slot Slot) [BlockSize]byte {
	var b [BlockSize]byte
	for i := range b {
		b[i] = s.nvm.ReadByte(uint16(slot) + uint16(i))
	}
	return b
}

// Decode unpacks a slot into the in-memory tuning view handed to the radio
// driver at bring-up, reading fields straight out of NVM. Like Load, it does
// not validate.
func (s *Store) Decode(slot Slot) types.TuningParams {
	base := uint16(slot)
	return types.TuningParams{
		Band:       s.nvm.ReadByte(base + offBand),
		Deemphasis: s.nvm.ReadByte(base + offDeemphasis),
		Spacing:    s.nvm.ReadByte(base + offSpacing),
		Channel:    types.ReadWord(s.nvm, base+offChannel),
		Volume:     s.nvm.ReadByte(base + offVolume),
	}
}

// Validate recomputes the checksum over the first 14 bytes of a slot and
// compares it to the stored trailing word. Because the checksum is stored low
// byte first, this is equivalent to running the accumulator across the whole
// 16-byte block and checking for zero.
func (s *Store) Validate(slot Slot) bool {
	var crc uint16
	for i := uint16(0); i < offChecksum; i++ {
		crc = crc16.Update(crc, s.nvm.ReadByte(uint16(slot)+i))
	}
	base := uint16(slot) + offChecksum
	stored := uint16(s.nvm.ReadByte(base)) | uint16(s.nvm.ReadByte(base+1))<<8
	return crc == stored
}

// UpdateChannel writes the channel field of the working block, then
// recomputes and rewrites the block checksum. The two writes are deliberately
// not atomic: a power loss between them leaves the checksum mismatched, which
// Validate flags as corruption on the next boot.
func (s *Store) UpdateChannel(channel uint16) {
	types.WriteWord(s.nvm, uint16(Working)+offChannel, channel)
	s.rewriteChecksum(Working)
}

func (s *Store) rewriteChecksum(slot Slot) {
	var crc uint16
	for i := uint16(0); i < offChecksum; i++ {
		crc = crc16.Update(crc, s.nvm.ReadByte(uint16(slot)+i))
	}
	base := uint16(slot) + offChecksum
	s.nvm.WriteByte(base, byte(crc))
	s.nvm.WriteByte(base+1, byte(crc>>8))
}

// CopyFactoryToWorking bulk-copies all 16 factory bytes over the working
// block, checksum included. The source is not validated; a factory reset is
// an unconditional revert.
func (s *Store) CopyFactoryToWorking() {
	for i := uint16(0); i < BlockSize; i++ {
		s.nvm.WriteByte(uint16(Working)+i, s.nvm.ReadByte(uint16(Factory)+i))
	}
}
