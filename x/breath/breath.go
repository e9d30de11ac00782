// Package breath holds the fixed idle-feedback brightness curve: one slow
// rise to full and back, played cyclically while the device waits for input.
package breath

// Curve data thanks to Lady Ada.
var curve = [...]uint8{
	1, 1, 2, 3, 5, 8, 11, 15, 20, 25, 30, 36, 43, 49, 56, 64, 72, 80, 88,
	97, 105, 114, 123, 132, 141, 150, 158, 167, 175, 183, 191, 199, 206,
	212, 219, 225, 230, 235, 240, 244, 247, 250, 252, 253, 254, 255, 254,
	253, 252, 250, 247, 244, 240, 235, 230, 225, 219, 212, 206, 199, 191,
	183, 175, 167, 158, 150, 141, 132, 123, 114, 105, 97, 88, 80, 72, 64,
	56, 49, 43, 36, 30, 25, 20, 15, 11, 8, 5, 3, 2, 1, 0,
}

// Len is the number of steps in one full breath.
const Len = len(curve)

// At returns the brightness for one step index. Steps past the end of the
// curve read as dark.
func At(step int) uint8 {
	if step < 0 || step >= Len {
		return 0
	}
	return curve[step]
}
