package types

const (
	// PanelWidth is the number of LED columns.
	PanelWidth = 80
	// PanelHeight is the number of LED rows.
	PanelHeight = 16
)

// Frame is the lit state of every LED, [row][column] with column 0 leftmost.
type Frame [PanelHeight][PanelWidth]bool

// FrameSource exposes the most recent panel image.
type FrameSource interface {
	Frame() Frame
}
