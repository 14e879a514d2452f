// Package fonts provides the bundled typefaces for map rendering.
//
// The Go fonts ship inside the binary, so raster output needs no font
// files on disk. Faces are parsed once on first use.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the font stack written into SVG text elements. SVG
// output references viewer fonts rather than embedding the bundled
// ones, so the stack starts from widely available faces.
const FontFamily = "Helvetica, Arial, sans-serif"

var (
	parseOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	parseErr    error
)

func parse() {
	regularFont, parseErr = truetype.Parse(goregular.TTF)
	if parseErr != nil {
		parseErr = fmt.Errorf("parse regular font: %w", parseErr)
		return
	}
	boldFont, parseErr = truetype.Parse(gobold.TTF)
	if parseErr != nil {
		parseErr = fmt.Errorf("parse bold font: %w", parseErr)
	}
}

// Regular returns a face of the bundled text font at the given point
// size.
func Regular(size float64) (font.Face, error) {
	return face(&regularFont, size)
}

// Bold returns a face of the bundled heading font at the given point
// size.
func Bold(size float64) (font.Face, error) {
	return face(&boldFont, size)
}

func face(f **truetype.Font, size float64) (font.Face, error) {
	parseOnce.Do(parse)
	if parseErr != nil {
		return nil, parseErr
	}
	return truetype.NewFace(*f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
