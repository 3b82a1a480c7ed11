package engine

import "testing"

func rampData() *[wtDataSize]byte {
	var data [wtDataSize]byte
	for i := range data {
		data[i] = 0x80 | byte(i)
	}
	return &data
}

// collectWT returns the parameter value written on each tick, or -1 when
// the position did not change.
func collectWT(w *wavetable, p *WTParams, data *[wtDataSize]byte, clk ClockEvent, ticks int) []int {
	var out []int
	for n := 0; n < ticks; n++ {
		_, param, _, changed := w.tick(p, data, clk, 60, 0, RateScaleUnity)
		if !changed {
			param = -1
		}
		out = append(out, param)
	}
	return out
}

func TestMapRange(t *testing.T) {
	expectEqual(t, mapRange(0, 15, 0, 128), 0)
	expectEqual(t, mapRange(0, 15, 64, 128), 8)
	expectEqual(t, mapRange(0, 15, 127, 128), 15)
	expectEqual(t, mapRange(15, 0, 0, 128), 15)
	expectEqual(t, mapRange(15, 0, 127, 128), 0)
	expectEqual(t, mapRange(10, 10, 50, 128), 10)
}

func TestWavetableKeyControl(t *testing.T) {
	data := rampData()
	var w wavetable
	w.init()
	p := &WTParams{KeyControl: true, Begin: 0, End: 15}
	for _, c := range []struct {
		note int
		pos  int
	}{
		{0, 0}, {64, 8}, {127, 15},
	} {
		value, param, relative, changed := w.tick(p, data, 0, c.note, 0, RateScaleUnity)
		expectEqual(t, changed, true)
		expectEqual(t, relative, false)
		expectEqual(t, param, c.pos)
		expectEqual(t, value, int32(c.pos-64)<<9)
	}
	_, _, _, changed := w.tick(p, data, 0, 127, 0, RateScaleUnity)
	expectEqual(t, changed, false)

	// inverted range
	p = &WTParams{KeyControl: true, Begin: 15, End: 0}
	w.init()
	_, param, _, _ := w.tick(p, data, 0, 0, 0, RateScaleUnity)
	expectEqual(t, param, 15)
	_, param, _, _ = w.tick(p, data, 0, 127, 0, RateScaleUnity)
	expectEqual(t, param, 0)
}

func TestWavetableModControl(t *testing.T) {
	data := rampData()
	var w wavetable
	w.init()
	p := &WTParams{ModControl: true, Begin: 0, End: 31}
	for _, c := range []struct {
		mod int32
		pos int
	}{
		{-0x8000, 0}, {0, 16}, {0x7fff, 31}, {0x10000, 31},
	} {
		w.tick(p, data, 0, 60, c.mod, RateScaleUnity)
		expectEqual(t, w.pos, c.pos)
	}
	p = &WTParams{ModControl: true, Begin: 31, End: 0}
	w.tick(p, data, 0, 60, -0x8000, RateScaleUnity)
	expectEqual(t, w.pos, 31)
}

func TestWavetableLoop(t *testing.T) {
	data := rampData()
	var w wavetable
	w.init()
	p := &WTParams{Begin: 2, End: 4, Loop: 3}

	expectNotes(t, collectWT(&w, p, data, 0, 2), []int{-1, -1})
	w.restart()
	expectNotes(t, collectWT(&w, p, data, 0, 7), []int{2, 3, 4, 3, 4, 3, 4})

	// a loop point outside the range wraps to the beginning
	p.Loop = 10
	w.restart()
	expectNotes(t, collectWT(&w, p, data, 0, 5), []int{2, 3, 4, 2, 3})

	p.Speed = 1
	w.restart()
	expectNotes(t, collectWT(&w, p, data, 0, 5), []int{2, -1, 3, -1, 4})
}

func TestWavetableOneShot(t *testing.T) {
	data := rampData()
	var w wavetable
	w.init()
	p := &WTParams{Begin: 2, End: 4, OneShot: true}
	w.restart()
	expectNotes(t, collectWT(&w, p, data, 0, 6), []int{2, 3, 4, -1, -1, -1})
	expectEqual(t, w.pos, wtStopped)

	w.restart()
	expectNotes(t, collectWT(&w, p, data, 0, 2), []int{2, 3})
}

func TestWavetableClockSync(t *testing.T) {
	data := rampData()
	var w wavetable
	w.init()
	p := &WTParams{Begin: 0, End: 7, ClockSync: true, Speed: 1}
	w.restart()
	expectNotes(t, collectWT(&w, p, data, 0, 3), []int{0, -1, -1})
	expectNotes(t, collectWT(&w, p, data, ClockTick, 4), []int{-1, 1, -1, 2})
}
