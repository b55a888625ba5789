package hal

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// dim scales a channel by a backlight level (0..255).
func dim(c, level uint8) uint8 {
	return uint8((uint16(c) * uint16(level)) / 255)
}
