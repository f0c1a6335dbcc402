// Package message turns inbound display commands into the sign's character
// queue and hands them from the transport to the display task.
//
// A display command is laid out as
//
//	byte 0       command tag
//	byte 1       character count N
//	bytes 2..    N big-endian GB2312 codes
package message

import (
	"fmt"

	"github.com/fkcurrie/ledscroll-golang/pkg/font"
)

// Capacity is the largest number of characters a message can carry.
const Capacity = 20

// CmdDisplayText tags a payload as text for the sign. The queue accepts any
// tag; it is only used when building payloads.
const CmdDisplayText byte = 0x06

const headerSize = 2

// Queue is a fixed-capacity character queue, replaced wholesale by Load.
type Queue struct {
	codes [Capacity]font.Code
	n     int
}

// Load replaces the queue with the codes in payload. It returns the number of
// codes loaded and the count the payload asked for; they differ when the
// count exceeds Capacity or the codes present in payload.
func (q *Queue) Load(payload []byte) (loaded, requested int) {
	if len(payload) < headerSize {
		q.n = 0
		return 0, 0
	}

	requested = int(payload[1])
	n := requested
	if n > Capacity {
		n = Capacity
	}
	if avail := (len(payload) - headerSize) / 2; n > avail {
		n = avail
	}

	for i := 0; i < n; i++ {
		off := headerSize + 2*i
		q.codes[i] = font.Code(payload[off])<<8 | font.Code(payload[off+1])
	}
	q.n = n
	return n, requested
}

// Set replaces the queue with codes, keeping at most Capacity of them.
func (q *Queue) Set(codes []font.Code) int {
	q.n = copy(q.codes[:], codes)
	return q.n
}

// Len returns the number of queued codes.
func (q *Queue) Len() int {
	return q.n
}

// At returns the i-th code. It panics past Len.
func (q *Queue) At(i int) font.Code {
	if i < 0 || i >= q.n {
		panic(fmt.Sprintf("message: index %d out of range [0,%d)", i, q.n))
	}
	return q.codes[i]
}

// Codes returns a copy of the queued codes.
func (q *Queue) Codes() []font.Code {
	return append([]font.Code(nil), q.codes[:q.n]...)
}

// Payload builds a command carrying codes. Codes past Capacity are dropped.
func Payload(tag byte, codes []font.Code) []byte {
	if len(codes) > Capacity {
		codes = codes[:Capacity]
	}
	p := make([]byte, headerSize, headerSize+2*len(codes))
	p[0] = tag
	p[1] = byte(len(codes))
	for _, c := range codes {
		p = append(p, c.High(), c.Low())
	}
	return p
}
