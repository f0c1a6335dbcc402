package types

// ROMPins holds the line offsets wired to the font ROM.
type ROMPins struct {
	CS   int `json:"cs"`
	SCLK int `json:"sclk"`
	SI   int `json:"si"`
	SO   int `json:"so"`
}

// PanelPins holds the line offsets wired to the LED driver chain and the row
// decoder. STB and INH are optional; -1 leaves them unconnected.
type PanelPins struct {
	SDI int `json:"sdi"`
	CLK int `json:"clk"`
	LE  int `json:"le"`
	OE  int `json:"oe"`
	A   int `json:"a"`
	B   int `json:"b"`
	C   int `json:"c"`
	D   int `json:"d"`
	STB int `json:"stb"`
	INH int `json:"inh"`
}

// TimingConfig holds the tick and bus timing.
type TimingConfig struct {
	// TickMillis is the scheduler period.
	TickMillis int `json:"tick_ms"`
	// SettleUnits is the delay around every clock edge, in delay units.
	SettleUnits int `json:"settle_units"`
	// LoopsPerUnit fixes the busy-wait length; 0 calibrates to UnitNanos.
	LoopsPerUnit int `json:"loops_per_unit"`
	UnitNanos    int `json:"unit_ns"`
	// ScrollInterval is the number of ticks per one-pixel scroll.
	ScrollInterval int `json:"scroll_interval"`
	// GlyphWidth is the number of scrolls per glyph advance.
	GlyphWidth int `json:"glyph_width"`
	// BlankLimit is the number of blank cells shown before the message repeats.
	BlankLimit int `json:"blank_limit"`
}

// SimConfig configures the simulated ROM and panel.
type SimConfig struct {
	// ROMImage is a font ROM dump; empty builds one from FontFile.
	ROMImage string `json:"rom_image"`
	// FontFile is a TTF/OTF face used to build the ROM image; empty uses
	// the built-in ASCII face.
	FontFile string  `json:"font_file"`
	FontSize float64 `json:"font_size"`
}
