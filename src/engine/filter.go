package engine

// ----- Filter & Volume ----- //

// keyTrackReference is the note around which keytracking is centered.
const keyTrackReference = 60 * 512

// filterRegisters computes the filter and volume registers of one chip.
// keyLinear is the linear frequency of the chip's first voice, keyTrack
// enables keytracking.
func filterRegisters(p *FilterParams, cal Calibration, volume uint8, filMod int32, volMod int32, keyLinear uint16, keyTrack bool) FilterRegisters {
	c := int32(p.Cutoff) + filMod/16
	if keyTrack && p.KeyTrack != 0 {
		c += ((int32(keyLinear) - keyTrackReference) >> 4) * int32(p.KeyTrack) / 256
	}
	c12 := int32(clamp12(c))
	lo, hi := int32(cal.Min&0xfff), int32(cal.Max&0xfff)
	if lo != 0 || hi != 0 {
		c12 = lo + c12*(hi-lo)/0xfff
	}

	vol := clamp16(int32(volume&0x7f)<<9 + volMod)
	return FilterRegisters{
		Cutoff:    uint16(c12>>1) & 0x7ff,
		Resonance: p.Resonance >> 4,
		Routing:   p.Channels & 0x0f,
		Mode:      p.Mode & 0x0f,
		Volume:    uint8(vol >> 12),
	}
}
