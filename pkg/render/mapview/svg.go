package mapview

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// SVG renders the map as a standalone SVG document. Output is
// byte-identical for the same composed map.
func (m *Map) SVG() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		m.width, m.height, m.width, m.height)
	buf.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>` + "\n")
	for _, l := range m.layers {
		l.SVG(&buf, m.vp)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// writeRingPath appends rings as path data, each ring its own closed
// subpath.
func writeRingPath(buf *bytes.Buffer, rings []orb.Ring, vp Viewport) {
	for i, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		if i > 0 {
			buf.WriteByte(' ')
		}
		x, y := vp.Project(ring[0])
		fmt.Fprintf(buf, "M%s,%s", coord(x), coord(y))
		for _, p := range ring[1:] {
			x, y = vp.Project(p)
			fmt.Fprintf(buf, " L%s,%s", coord(x), coord(y))
		}
		buf.WriteString(" Z")
	}
}

// coord formats a canvas coordinate with fixed precision so repeated
// renders agree byte for byte.
func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// ftoa formats a stroke width or radius without trailing zeros.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}
