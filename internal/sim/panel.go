package sim

import (
	"sync"

	"github.com/fkcurrie/ledscroll-golang/internal/types"
	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
	"periph.io/x/conn/v3/gpio"
)

// PanelPins are the lines feeding the simulated panel. STB and INH may be nil.
type PanelPins struct {
	SDI, CLK, LE, OE *Pin
	Addr             [4]*Pin
	STB, INH         *Pin
}

// Panel emulates the 80-column driver chain and the 4-to-16 row decoder.
//
// SDI is shifted in on each rising CLK edge, LE high copies the chain to the
// output latch, and a falling /OE lights the latched data on the addressed
// row unless INH is high. INH rising blanks the panel. Address or latch
// changes while the outputs are enabled count as ghosts.
type Panel struct {
	pins  PanelPins
	order bitbang.BitOrder

	chain   [types.PanelWidth]bool
	latched [types.PanelWidth]bool

	mu      sync.Mutex
	frame   types.Frame
	ghosts  int
	rowsLit int
}

// NewPanel attaches a panel to pins. Bits are decoded to screen columns in
// the given order, which must match the order the host shifts them.
func NewPanel(pins PanelPins, order bitbang.BitOrder) *Panel {
	p := &Panel{pins: pins, order: order}
	pins.CLK.Watch(p.onCLK)
	pins.LE.Watch(p.onLE)
	pins.OE.Watch(p.onOE)
	for _, a := range pins.Addr {
		a.Watch(p.onAddr)
	}
	if pins.INH != nil {
		pins.INH.Watch(p.onINH)
	}
	return p
}

// Frame returns the lit state of every LED.
func (p *Panel) Frame() types.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Ghosts returns the number of writes that disturbed an enabled row.
func (p *Panel) Ghosts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ghosts
}

// RowsLit returns the number of row enables seen.
func (p *Panel) RowsLit() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rowsLit
}

// Column returns the screen column, 0 leftmost, lit by the k-th bit of an
// 80-bit row transfer.
func (p *Panel) Column(k int) int {
	i, j := k/8, k%8
	bit := 7 - j
	if p.order == bitbang.LSBFirst {
		bit = j
	}
	return (types.PanelWidth/8-1-i)*8 + 7 - bit
}

func (p *Panel) enabled() bool {
	if p.pins.OE.Level() {
		return false
	}
	return p.pins.INH == nil || !bool(p.pins.INH.Level())
}

func (p *Panel) row() int {
	n := 0
	for i, a := range p.pins.Addr {
		if a.Level() {
			n |= 1 << i
		}
	}
	return n
}

func (p *Panel) onCLK(prev, now gpio.Level) {
	if !rising(prev, now) {
		return
	}
	copy(p.chain[:], p.chain[1:])
	p.chain[len(p.chain)-1] = bool(p.pins.SDI.Level())
}

func (p *Panel) onLE(prev, now gpio.Level) {
	if !rising(prev, now) {
		return
	}
	p.latched = p.chain
	if p.enabled() {
		p.ghost()
	}
}

func (p *Panel) onAddr(prev, now gpio.Level) {
	if p.enabled() {
		p.ghost()
	}
}

func (p *Panel) onOE(prev, now gpio.Level) {
	if !falling(prev, now) || !p.enabled() {
		return
	}
	row := p.row()
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, on := range p.latched {
		p.frame[row][p.Column(k)] = on
	}
	p.rowsLit++
}

func (p *Panel) onINH(prev, now gpio.Level) {
	if !rising(prev, now) {
		return
	}
	p.mu.Lock()
	p.frame = types.Frame{}
	p.mu.Unlock()
}

func (p *Panel) ghost() {
	p.mu.Lock()
	p.ghosts++
	p.mu.Unlock()
}
