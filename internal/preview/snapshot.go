package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/fkcurrie/ledscroll-golang/internal/types"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	colorBoard = "#101010"
	colorLit   = "#ff2a1a"
	colorDark  = "#2a0c0a"
)

// SVG draws frame as one circle per LED, pitch pixels apart.
func SVG(frame types.Frame, pitch int) string {
	w, h := types.PanelWidth*pitch, types.PanelHeight*pitch
	r := float64(pitch) * 0.4

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w, h, w, h)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", w, h, colorBoard)
	for y := range frame {
		for x, lit := range frame[y] {
			fill := colorDark
			if lit {
				fill = colorLit
			}
			cx := float64(x*pitch) + float64(pitch)/2
			cy := float64(y*pitch) + float64(pitch)/2
			fmt.Fprintf(&b, `<circle cx="%g" cy="%g" r="%g" fill="%s"/>`+"\n", cx, cy, r, fill)
		}
	}
	b.WriteString("</svg>\n")
	return b.String()
}

// Image rasterises the SVG rendering of frame.
func Image(frame types.Frame, pitch int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(frame, pitch)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	w, h := types.PanelWidth*pitch, types.PanelHeight*pitch
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// PNG writes frame as a PNG image.
func PNG(out io.Writer, frame types.Frame, pitch int) error {
	img, err := Image(frame, pitch)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}
