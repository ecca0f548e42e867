// Package render draws a snapshot for a terminal or as an embeddable HTML widget.
package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenAngle = 137.50776405003785

// Palette returns n distinct hex colors, one per chart entry. Hues are spread
// by the golden angle starting at startHue, so the colors of the first
// entries stay put when more languages show up.
func Palette(n int, startHue float64) []string {
	if n <= 0 {
		return []string{}
	}
	hex := make([]string, n)
	for i := range hex {
		hue := math.Mod(startHue+float64(i)*goldenAngle, 360)
		hex[i] = colorful.Hcl(hue, 0.55, 0.7).Clamped().Hex()
	}
	return hex
}
