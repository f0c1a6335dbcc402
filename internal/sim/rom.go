package sim

import (
	"periph.io/x/conn/v3/gpio"
)

const readOpcode = 0x03

// ROM emulates a serial font ROM holding image. It samples SI on the rising
// SCLK edge while CS is low. After a 0x03 opcode and a 24-bit address it
// shifts the stored bytes out on SO, most significant bit first, changing SO
// on each falling SCLK edge. Addresses past the image read as zero.
type ROM struct {
	image []byte
	si    *Pin

	selected bool
	reading  bool
	nbits    int
	cmd      uint32
	addr     uint32
	bit      int
	out      gpio.Level

	reads int
}

// NewROM attaches a ROM to the four lines.
func NewROM(image []byte, cs, sclk, si, so *Pin) *ROM {
	r := &ROM{image: image, si: si}
	cs.Watch(r.onCS)
	sclk.Watch(r.onSCLK)
	so.Drive(func() gpio.Level { return r.out })
	return r
}

// Reads returns the number of read commands accepted.
func (r *ROM) Reads() int {
	return r.reads
}

func (r *ROM) onCS(prev, now gpio.Level) {
	if falling(prev, now) {
		r.selected = true
		r.reading = false
		r.nbits = 0
		r.cmd = 0
		return
	}
	r.selected = false
	r.reading = false
	r.out = gpio.Low
}

func (r *ROM) onSCLK(prev, now gpio.Level) {
	if !r.selected {
		return
	}
	if rising(prev, now) && !r.reading {
		r.cmd = r.cmd<<1 | uint32(b2u(r.si.Level()))
		r.nbits++
		if r.nbits == 32 {
			if r.cmd>>24 == readOpcode {
				r.addr = r.cmd & 0xFFFFFF
				r.bit = 0
				r.reading = true
				r.reads++
			} else {
				r.selected = false
			}
		}
		return
	}
	if falling(prev, now) && r.reading {
		var b byte
		if int(r.addr) < len(r.image) {
			b = r.image[r.addr]
		}
		r.out = b&(0x80>>r.bit) != 0
		r.bit++
		if r.bit == 8 {
			r.bit = 0
			r.addr++
		}
	}
}

func b2u(l gpio.Level) uint8 {
	if l {
		return 1
	}
	return 0
}
