// Package qr turns the backend's join-link QR code image into text that a
// terminal can display and a phone can still scan.
//
// The backend renders the code; this package only samples it. The module
// size is measured from the top-left finder pattern, which is always seven
// modules wide, and each module becomes half a character cell so two rows
// of modules share one line of output.
package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// finderModules is the width of a QR finder pattern in modules.
const finderModules = 7

// Matrix is a grid of modules; true is dark.
type Matrix [][]bool

// Options controls rendering.
type Options struct {
	// Invert swaps dark and light, for terminals with light text on a dark
	// background. Scanners need the dark modules to print dark.
	Invert bool
	// QuietZone is the light border added around the code, in modules.
	QuietZone int
}

// DefaultOptions suits a dark terminal.
var DefaultOptions = Options{Invert: true, QuietZone: 2}

// Decode reads an image and samples it into a module matrix.
func Decode(data []byte) (Matrix, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR image: %w", err)
	}
	return Sample(img)
}

// Sample measures the module size of img and reads one pixel from the
// centre of each module.
func Sample(img image.Image) (Matrix, error) {
	b := img.Bounds()
	top, left, run, ok := finderRun(img)
	if !ok {
		return nil, fmt.Errorf("no QR code found in %dx%d image", b.Dx(), b.Dy())
	}
	module := run / finderModules
	if module < 1 {
		module = 1
	}

	// Find the extent of the code from the last dark pixel on each axis.
	right, bottom := left, top
	for y := top; y < b.Max.Y; y++ {
		for x := left; x < b.Max.X; x++ {
			if dark(img.At(x, y)) {
				right = max(right, x)
				bottom = max(bottom, y)
			}
		}
	}
	cols := (right - left + 1 + module/2) / module
	rows := (bottom - top + 1 + module/2) / module
	if cols < finderModules || rows < finderModules {
		return nil, fmt.Errorf("QR code too small: %dx%d modules", cols, rows)
	}

	m := make(Matrix, rows)
	for r := range rows {
		m[r] = make([]bool, cols)
		y := min(top+r*module+module/2, b.Max.Y-1)
		for c := range cols {
			x := min(left+c*module+module/2, b.Max.X-1)
			m[r][c] = dark(img.At(x, y))
		}
	}
	return m, nil
}

// finderRun locates the first dark pixel scanning rows from the top and
// returns the length of the dark run starting there.
func finderRun(img image.Image) (top, left, run int, ok bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !dark(img.At(x, y)) {
				continue
			}
			end := x
			for end < b.Max.X && dark(img.At(end, y)) {
				end++
			}
			return y, x, end - x, true
		}
	}
	return 0, 0, 0, false
}

func dark(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	_, _, _, a := c.RGBA()
	return a > 0x7fff && g.Y < 128
}

// Render decodes data and renders it with opts.
func Render(data []byte, opts Options) (string, error) {
	m, err := Decode(data)
	if err != nil {
		return "", err
	}
	return m.Render(opts), nil
}

// Render draws the matrix with half-block characters.
func (m Matrix) Render(opts Options) string {
	q := max(opts.QuietZone, 0)
	rows := len(m) + 2*q
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	cols += 2 * q

	at := func(r, c int) bool {
		r, c = r-q, c-q
		on := r >= 0 && r < len(m) && c >= 0 && c < len(m[r]) && m[r][c]
		return on != opts.Invert
	}

	var sb strings.Builder
	for r := 0; r < rows; r += 2 {
		for c := range cols {
			upper := at(r, c)
			lower := r+1 < rows && at(r+1, c)
			if r+1 >= rows {
				lower = opts.Invert
			}
			switch {
			case upper && lower:
				sb.WriteRune('█')
			case upper:
				sb.WriteRune('▀')
			case lower:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders with DefaultOptions.
func (m Matrix) String() string { return m.Render(DefaultOptions) }
