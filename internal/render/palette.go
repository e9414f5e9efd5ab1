package render

import (
	"image/color"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// viridisControls are evenly spaced samples of the viridis map, ordered by
// increasing luminance.
var viridisControls = []color.Color{
	hex(0x440154), hex(0x482777), hex(0x3e4989), hex(0x31688e), hex(0x26828e),
	hex(0x1f9e89), hex(0x35b779), hex(0x6ece58), hex(0xb5de2b), hex(0xfde725),
}

// ViridisHex is the same map as CSS colours, for HTML renderers.
var ViridisHex = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// NewViridis returns a viridis-like colour map normalized to [min, max].
func NewViridis(min, max float64) (palette.ColorMap, error) {
	cm, err := moreland.NewLuminance(viridisControls)
	if err != nil {
		return nil, err
	}
	cm.SetMax(max)
	cm.SetMin(min)
	return cm, nil
}

// solid is a single-colour palette used for isolines.
type solid struct{ c color.Color }

func (s solid) Colors() []color.Color { return []color.Color{s.c} }

func hex(v uint32) color.Color {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
