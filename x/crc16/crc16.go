// Package crc16 implements the reflected CRC-16 used for both the stored
// parameter blocks and programming packets: polynomial 0xA001, initial value
// 0, bits processed low-first, no final XOR. One accumulator is carried
// across all bytes in address order.
//
// A useful consequence: running the accumulator over a message followed by
// its checksum stored low-byte-first yields 0.
package crc16

// Update folds one byte into the running checksum.
func Update(crc uint16, b byte) uint16 {
	crc ^= uint16(b)
	for i := 0; i < 8; i++ {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ 0xA001
		} else {
			crc >>= 1
		}
	}
	return crc
}

// Block runs one accumulator across data in order, starting from 0.
func Block(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = Update(crc, b)
	}
	return crc
}
