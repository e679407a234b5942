package theme

type RGB [3]uint8

type Palette struct {
	Name   string
	Colors []RGB
}

// Default is a dark purple-to-yellow ramp
func Default() *Palette {
	return &Palette{
		Name: "nightflow",
		Colors: []RGB{
			{26, 16, 37},
			{48, 26, 64},
			{92, 36, 110},
			{142, 52, 145},
			{193, 81, 164},
			{224, 103, 157},
			{240, 130, 132},
			{246, 164, 108},
			{250, 205, 96},
			{252, 244, 126},
		},
	}
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	// Find the two colors to interpolate between
	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
