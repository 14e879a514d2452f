package mapview

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
)

// PNG renders the map as a PNG image. Text layers load the bundled
// font faces, so rendering needs no files on disk.
func (m *Map) PNG() ([]byte, error) {
	dc := gg.NewContext(m.width, m.height)
	dc.SetHexColor("#ffffff")
	dc.Clear()
	for _, l := range m.layers {
		if err := l.PNG(dc, m.vp); err != nil {
			return nil, fmt.Errorf("render %s layer: %w", l.Name(), err)
		}
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
