package terminal

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"

	// upperHalf draws the top pixel in the foreground colour and the
	// bottom pixel in the background colour of one cell
	upperHalf = '▀'
)

// Backdrop is the colour transparent preview pixels are blended onto
var Backdrop = color.RGBA{R: 36, G: 33, B: 46, A: 255}

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

// ClearScreen clears the entire screen.
func ClearScreen() string {
	return CSI + "2J"
}

// HideCursor hides the terminal cursor.
func HideCursor() string {
	return CSI + "?25l"
}

// ShowCursor shows the terminal cursor.
func ShowCursor() string {
	return CSI + "?25h"
}

// EnableAltScreen switches to the alternate screen buffer.
func EnableAltScreen() string {
	return CSI + "?1049h"
}

// DisableAltScreen switches back from the alternate screen buffer.
func DisableAltScreen() string {
	return CSI + "?1049l"
}

// blend composites c over the backdrop
func blend(c color.Color) (uint8, uint8, uint8) {
	r, g, b, a := c.RGBA() // premultiplied, 16 bit
	inv := 0xffff - a
	mix := func(v uint32, bg uint8) uint8 {
		return uint8((v + uint32(bg)*0x101*inv/0xffff) >> 8)
	}
	return mix(r, Backdrop.R), mix(g, Backdrop.G), mix(b, Backdrop.B)
}

// writeCellSGR writes one half-block cell with a combined SGR so no state
// leaks between cells.
func writeCellSGR(sb *strings.Builder, top, bottom color.Color) {
	tr, tg, tb := blend(top)
	br, bg, bb := blend(bottom)

	sb.WriteString("\x1b[0;38;2;")
	sb.WriteString(strconv.Itoa(int(tr)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(tg)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(tb)))
	sb.WriteString(";48;2;")
	sb.WriteString(strconv.Itoa(int(br)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(bg)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(bb)))
	sb.WriteByte('m')
	sb.WriteRune(upperHalf)
}

// HalfBlocks renders img as truecolor half-block cells, two pixel rows per
// text row. Lines are separated by "\n" and each ends with a reset.
func HalfBlocks(img image.Image) string {
	bounds := img.Bounds()
	var sb strings.Builder

	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		if y > bounds.Min.Y {
			sb.WriteByte('\n')
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			bottom := color.Color(color.Transparent)
			if y+1 < bounds.Max.Y {
				bottom = img.At(x, y+1)
			}
			writeCellSGR(&sb, img.At(x, y), bottom)
		}
		sb.WriteString(Reset)
	}
	return sb.String()
}
