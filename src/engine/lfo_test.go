package engine

import "testing"

func TestLfoWrapPeriod(t *testing.T) {
	p := &LfoParams{Enabled: true, Waveform: LfoSaw, Rate: 200}
	var l lfo
	l.init(1)
	l.restart()
	inc := int(lfoRateTable[200])
	period := (0x10000 + inc - 1) / inc
	var wraps []int
	for n := 1; n <= 3*period+1; n++ {
		if l.tick(p, 0, 0, RateScaleUnity) {
			wraps = append(wraps, n)
		}
	}
	expectTrue(t, len(wraps) >= 3, "expected 3 wraps, got %v", wraps)
	expectEqual(t, wraps[0], period)
}

func TestLfoOneShot(t *testing.T) {
	p := &LfoParams{Enabled: true, Waveform: LfoTriangle, Rate: 255, OneShot: true}
	var l lfo
	l.init(1)
	l.restart()
	wraps := 0
	for n := 0; n < 1000; n++ {
		if l.tick(p, 0, 0, RateScaleUnity) {
			wraps++
		}
	}
	expectEqual(t, wraps, 1)
	expectTrue(t, l.stopped, "one-shot lfo should stop")

	l.restart()
	l.tick(p, 0, 0, RateScaleUnity)
	expectTrue(t, !l.stopped, "restart should resume a one-shot lfo")
}

func TestLfoClockSync(t *testing.T) {
	p := &LfoParams{Enabled: true, Waveform: LfoPulse, ClockSync: true, Rate: 0x10} // 6 clocks
	var l lfo
	l.init(1)
	l.restart()
	for n := 0; n < 100; n++ {
		expectTrue(t, !l.tick(p, 0, 0, RateScaleUnity), "lfo advanced without clock")
	}
	wraps := 0
	for n := 0; n < 24; n++ {
		if l.tick(p, 0, ClockTick, RateScaleUnity) {
			wraps++
		}
	}
	expectEqual(t, wraps, 4)
}

func TestLfoShapes(t *testing.T) {
	var l lfo
	l.init(1)
	l.phase = 0
	expectEqual(t, l.shape(&LfoParams{Waveform: LfoSaw}), int32(-0x7fff))
	expectEqual(t, l.shape(&LfoParams{Waveform: LfoPulse}), int32(0x7fff))
	expectEqual(t, l.shape(&LfoParams{Waveform: LfoSine}), int32(0))
	l.phase = 0x8000
	expectEqual(t, l.shape(&LfoParams{Waveform: LfoTriangle}), int32(0x7fff))
	expectEqual(t, l.shape(&LfoParams{Waveform: LfoPulse}), int32(-0x7fff))
	expectEqual(t, l.shape(&LfoParams{Waveform: LfoPulse, Duty: 0xc0}), int32(0x7fff))
	expectEqual(t, l.shape(&LfoParams{Waveform: LfoSaw, Unipolar: true}), int32(0x7fff/2))
}

func TestLfoDisabled(t *testing.T) {
	var l lfo
	l.init(1)
	l.value = 1234
	expectTrue(t, !l.tick(&LfoParams{}, 0, ClockTick, RateScaleUnity), "disabled lfo wrapped")
	expectEqual(t, l.value, int32(0))
}
