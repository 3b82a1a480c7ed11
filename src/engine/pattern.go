package engine

import "fmt"

// ----- Bassline Steps ----- //

// BasslineStep is the decoded form of two pattern bytes:
//
//	byte 0: bits 0-3 note, bits 4-5 octave, bit 6 slide, bit 7 gate
//	byte 1: bits 0-6 parameter track value, bit 7 accent
type BasslineStep struct {
	Note   uint8 // 0..11
	Octave uint8 // 0..3, meaning -1..+2 octaves
	Slide  bool
	Gate   bool
	Accent bool
	Param  uint8 // 0..127
}

// Step decodes step i (0..15).
func (p *BasslinePattern) Step(i int) BasslineStep {
	if i < 0 || i >= seqSteps {
		return BasslineStep{}
	}
	b0, b1 := p[2*i], p[2*i+1]
	note := b0 & 0x0f
	if note > 11 {
		note = 11
	}
	return BasslineStep{
		Note:   note,
		Octave: (b0 >> 4) & 0x03,
		Slide:  b0&0x40 != 0,
		Gate:   b0&0x80 != 0,
		Accent: b1&0x80 != 0,
		Param:  b1 & 0x7f,
	}
}

// SetStep encodes s into step i.
func (p *BasslinePattern) SetStep(i int, s BasslineStep) {
	if i < 0 || i >= seqSteps {
		return
	}
	note := s.Note
	if note > 11 {
		note = 11
	}
	b0 := note | (s.Octave&0x03)<<4
	if s.Slide {
		b0 |= 0x40
	}
	if s.Gate {
		b0 |= 0x80
	}
	b1 := s.Param & 0x7f
	if s.Accent {
		b1 |= 0x80
	}
	p[2*i], p[2*i+1] = b0, b1
}

// Transpose is the step's offset in semitones from the base note.
func (s BasslineStep) Transpose() int {
	return int(s.Note) + 12*(int(s.Octave)-1)
}

// ----- Drum Hits ----- //

// DrumHit is the decoded (gate, accent) bit pair of a drum track step.
type DrumHit uint8

const (
	DrumHitNone DrumHit = iota
	DrumHitNormal
	DrumHitAccent
	// DrumHitSecondary plays the instrument of track+8.
	DrumHitSecondary
)

var drumHitNames = []string{"none", "normal", "accent", "secondary"}

func (h DrumHit) String() string {
	if int(h) >= len(drumHitNames) {
		return "unknown"
	}
	return drumHitNames[h]
}

// DrumHitFromString ...
func DrumHitFromString(s string) (DrumHit, error) {
	for i, name := range drumHitNames {
		if name == s {
			return DrumHit(i), nil
		}
	}
	return DrumHitNone, invalidArgument("unknown drum hit %s", s)
}

// Instrument returns the instrument played by the hit on a track, or -1.
func (h DrumHit) Instrument(track int) int {
	switch h {
	case DrumHitNormal, DrumHitAccent:
		return track
	case DrumHitSecondary:
		return track + numDrumTracks
	}
	return -1
}

// Hit decodes one track step. Steps 0-7 live in bytes 0 (gate) and 1
// (accent), steps 8-15 in bytes 2 and 3; bit n is step n mod 8.
func (p *DrumPattern) Hit(track int, step int) DrumHit {
	if track < 0 || track >= numDrumTracks || step < 0 || step >= seqSteps {
		return DrumHitNone
	}
	t := &p[track]
	base := 2 * (step / 8)
	bit := byte(1) << (step % 8)
	gate := t[base]&bit != 0
	accent := t[base+1]&bit != 0
	switch {
	case gate && accent:
		return DrumHitSecondary
	case gate:
		return DrumHitNormal
	case accent:
		return DrumHitAccent
	}
	return DrumHitNone
}

// SetHit encodes one track step.
func (p *DrumPattern) SetHit(track int, step int, h DrumHit) {
	if track < 0 || track >= numDrumTracks || step < 0 || step >= seqSteps {
		return
	}
	t := &p[track]
	base := 2 * (step / 8)
	bit := byte(1) << (step % 8)
	t[base] &^= bit
	t[base+1] &^= bit
	if h == DrumHitNormal || h == DrumHitSecondary {
		t[base] |= bit
	}
	if h == DrumHitAccent || h == DrumHitSecondary {
		t[base+1] |= bit
	}
}

// String renders a pattern as one line per track.
func (p *DrumPattern) String() string {
	s := ""
	for track := 0; track < numDrumTracks; track++ {
		line := make([]byte, seqSteps)
		for step := 0; step < seqSteps; step++ {
			line[step] = ".xX2"[p.Hit(track, step)]
		}
		s += fmt.Sprintf("%d %s\n", track+1, line)
	}
	return s
}
