package framebuffer

// ShiftLeft scrolls every row one pixel to the left.
//
// Each row is a 96-bit shift register walked once from column 0 to 11. The
// bit leaving a byte's MSB enters the LSB of the next column; column 0 takes
// in a zero and the bit leaving column 11 is dropped.
func (fb *Framebuffer) ShiftLeft() {
	for r := range fb {
		var carry byte
		for c := range fb[r] {
			out := fb[r][c] >> 7
			fb[r][c] = fb[r][c]<<1 | carry
			carry = out
		}
	}
}
