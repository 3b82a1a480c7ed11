package engine

import "testing"

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectTrue(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Errorf(format, args...)
	}
}

func runEnvelope(t *testing.T, e *envelope, p *EnvParams, maxTicks int) (sustainTick int, levels []uint16) {
	t.Helper()
	sustainTick = -1
	for n := 0; n < maxTicks; n++ {
		if e.tick(p, RateScaleUnity) {
			if sustainTick >= 0 {
				t.Fatalf("sustain reported twice, at %d and %d", sustainTick, n)
			}
			sustainTick = n
		}
		levels = append(levels, e.counter)
	}
	return sustainTick, levels
}

func TestEnvelopeSingleStage(t *testing.T) {
	p := &EnvParams{Attack: 100, Decay: 100, Sustain: 0x80}
	var e envelope
	e.init(false)
	e.restart()
	sustainTick, levels := runEnvelope(t, &e, p, 1000)
	expectTrue(t, sustainTick > 0, "sustain never reached")
	expectEqual(t, levels[sustainTick], level16(0x80))
	expectEqual(t, e.stage, envSustain)

	peak := 0
	for n := 1; n < len(levels); n++ {
		if levels[n] == 0xffff {
			peak = n
			break
		}
		expectTrue(t, levels[n] > levels[n-1], "attack not rising at tick %d", n)
	}
	for n := peak + 1; n <= sustainTick; n++ {
		expectTrue(t, levels[n] < levels[n-1], "decay not falling at tick %d", n)
	}
}

func TestEnvelopeTwoStage(t *testing.T) {
	p := &EnvParams{
		Attack: 60, AttackLevel: 0x80, Attack2: 80,
		Decay: 60, DecayLevel: 0xc0, Decay2: 80,
		Sustain: 0x40, Release: 60, ReleaseLevel: 0x20, Release2: 60,
	}
	var e envelope
	e.init(true)
	e.restart()
	stages := map[int]bool{}
	sustainTick := -1
	for n := 0; n < 5000 && e.stage != envSustain; n++ {
		if e.tick(p, RateScaleUnity) {
			sustainTick = n
		}
		stages[e.stage] = true
	}
	expectTrue(t, sustainTick >= 0, "sustain never reached")
	for _, s := range []int{envAttack, envAttack2, envDecay, envDecay2, envSustain} {
		expectTrue(t, stages[s], "stage %d skipped", s)
	}
	expectEqual(t, e.counter, level16(0x40))

	e.release()
	for n := 0; n < 5000 && e.stage != envIdle; n++ {
		expectTrue(t, !e.tick(p, RateScaleUnity), "release reported sustain")
	}
	expectEqual(t, e.stage, envIdle)
	expectEqual(t, e.counter, uint16(0))
}

func TestEnvelopeDelay(t *testing.T) {
	p := &EnvParams{Delay: 50, Attack: 0, Sustain: 0xff}
	var e envelope
	e.init(false)
	e.restart()
	e.tick(p, RateScaleUnity)
	expectEqual(t, e.stage, envDelay)
	expectEqual(t, e.counter, uint16(0))
}

func TestEnvelopeNeutralCurveIsLinear(t *testing.T) {
	p := &EnvParams{Attack: 100, Sustain: 0xff, Decay: 0}
	var e envelope
	e.init(false)
	e.restart()
	_, levels := runEnvelope(t, &e, p, 200)
	inc := envRateTable[100]
	prev := uint16(0)
	for _, l := range levels {
		if l == 0xffff {
			break
		}
		expectEqual(t, l-prev, inc)
		prev = l
	}
}

func TestEnvelopeCurves(t *testing.T) {
	for _, curve := range []int8{64, -64} {
		p := &EnvParams{Attack: 120, AttackCurve: curve, Sustain: 0xff}
		var e envelope
		e.init(false)
		e.restart()
		_, levels := runEnvelope(t, &e, p, 2000)
		var incs []uint16
		prev := uint16(0)
		for _, l := range levels {
			if l == 0xffff {
				break
			}
			expectTrue(t, l > prev, "curve %d not strictly rising", curve)
			incs = append(incs, l-prev)
			prev = l
		}
		expectTrue(t, len(incs) > 2, "curve %d too short", curve)
		first, last := incs[0], incs[len(incs)-1]
		if curve > 0 {
			expectTrue(t, last > first, "positive curve should accelerate: %d -> %d", first, last)
		} else {
			expectTrue(t, last < first, "negative curve should decelerate: %d -> %d", first, last)
		}
	}
}

func TestEnvelopeAccentDecay(t *testing.T) {
	p := &EnvParams{Attack: 0, Decay: 150, DecayAccent: 50, Sustain: 0}
	count := func(accent bool) int {
		var e envelope
		e.init(false)
		e.accent = accent
		e.restart()
		n := 0
		for ; n < 100000; n++ {
			if e.tick(p, RateScaleUnity) {
				break
			}
		}
		return n
	}
	expectTrue(t, count(true) < count(false), "accent should shorten the decay")
}

func TestEnvelopeRateScale(t *testing.T) {
	p := &EnvParams{Attack: 100, Sustain: 0xff}
	var e envelope
	e.init(false)
	e.restart()
	e.tick(p, 2*RateScaleUnity)
	expectEqual(t, e.counter, envRateTable[100]/2)
}
