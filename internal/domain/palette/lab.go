package palette

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// parseColor accepts "#rrggbb" (and the "#rgb" shorthand).
func parseColor(hex string) (colorful.Color, bool) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// Distance is the CIELAB (D65) euclidean distance between two colours.
func Distance(a, b colorful.Color) float64 {
	return a.DistanceLab(b)
}

func paletteLabs(pal []string) []colorful.Color {
	out := make([]colorful.Color, len(pal))
	for i, hex := range pal {
		out[i], _ = parseColor(hex)
	}
	return out
}
