package engine

import "testing"

func TestBasslineStepDecode(t *testing.T) {
	var p BasslinePattern
	p[0], p[1] = 0x9c, 0x85
	p[2], p[3] = 0x65, 0x10

	s := p.Step(0)
	expectEqual(t, s.Note, uint8(11))
	expectEqual(t, s.Octave, uint8(1))
	expectEqual(t, s.Gate, true)
	expectEqual(t, s.Slide, false)
	expectEqual(t, s.Accent, true)
	expectEqual(t, s.Param, uint8(5))
	expectEqual(t, s.Transpose(), 11)

	s = p.Step(1)
	expectEqual(t, s.Gate, false)
	expectEqual(t, s.Slide, true)
	expectEqual(t, s.Accent, false)
	expectEqual(t, s.Param, uint8(16))
	expectEqual(t, s.Transpose(), 17)

	expectEqual(t, p.Step(seqSteps), BasslineStep{})
}

func TestBasslineStepEncode(t *testing.T) {
	var p BasslinePattern
	s := BasslineStep{Note: 3, Octave: 2, Slide: true, Gate: true, Accent: true, Param: 0x42}
	p.SetStep(15, s)
	expectEqual(t, p[30], byte(0xe3))
	expectEqual(t, p[31], byte(0xc2))
	expectEqual(t, p.Step(15), s)
}

func TestDrumHitDecode(t *testing.T) {
	var p DrumPattern
	p[0] = [4]byte{0x01, 0x00, 0x00, 0x00}
	p[1] = [4]byte{0x00, 0x01, 0x00, 0x00}
	p[2] = [4]byte{0x01, 0x01, 0x00, 0x00}
	p[3] = [4]byte{0x00, 0x00, 0x02, 0x00}

	expectEqual(t, p.Hit(0, 0), DrumHitNormal)
	expectEqual(t, p.Hit(1, 0), DrumHitAccent)
	expectEqual(t, p.Hit(2, 0), DrumHitSecondary)
	expectEqual(t, p.Hit(3, 0), DrumHitNone)
	expectEqual(t, p.Hit(3, 9), DrumHitNormal)
	expectEqual(t, p.Hit(3, 1), DrumHitNone)

	expectEqual(t, DrumHitNormal.Instrument(2), 2)
	expectEqual(t, DrumHitAccent.Instrument(2), 2)
	expectEqual(t, DrumHitSecondary.Instrument(2), 10)
	expectEqual(t, DrumHitNone.Instrument(2), -1)
}

func TestDrumHitEncode(t *testing.T) {
	var p DrumPattern
	p.SetHit(5, 12, DrumHitSecondary)
	expectEqual(t, p[5], [4]byte{0x00, 0x00, 0x10, 0x10})
	p.SetHit(5, 12, DrumHitAccent)
	expectEqual(t, p[5], [4]byte{0x00, 0x00, 0x00, 0x10})
	p.SetHit(5, 12, DrumHitNone)
	expectEqual(t, p[5], [4]byte{})

	h, err := DrumHitFromString("secondary")
	expectEqual(t, err, nil)
	expectEqual(t, h, DrumHitSecondary)
	_, err = DrumHitFromString("loud")
	expectTrue(t, err != nil, "expected error for unknown hit")
}
