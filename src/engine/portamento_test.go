package engine

import "testing"

func runGlide(t *testing.T, p *VoiceParams, from int, to int, maxTicks int) []uint16 {
	t.Helper()
	var v voice
	v.init(0)
	v.glide(p, uint16(from*512), RateScaleUnity)
	expectEqual(t, v.linear, uint16(from*512))
	v.startGlide(true)
	var path []uint16
	for n := 0; n < maxTicks; n++ {
		v.glide(p, uint16(to*512), RateScaleUnity)
		path = append(path, v.linear)
		if v.linear == uint16(to*512) {
			return path
		}
	}
	t.Fatalf("glide did not reach the target in %d ticks", maxTicks)
	return nil
}

func expectMonotonic(t *testing.T, path []uint16, target uint16) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		if path[i] < path[i-1] {
			t.Errorf("glide moved backwards at %d: %d -> %d", i, path[i-1], path[i])
		}
		if path[i] > target {
			t.Errorf("glide overshot at %d: %d", i, path[i])
		}
	}
}

func TestGlideConstantTime(t *testing.T) {
	const rate = 100
	p := &VoiceParams{Portamento: rate, ConstantTime: true}
	inc := int(glideRateTable[rate])
	limit := (0x10000 + inc - 1) / inc
	short := runGlide(t, p, 60, 62, limit+1)
	long := runGlide(t, p, 40, 90, limit+1)
	expectEqual(t, len(short), len(long))
	expectMonotonic(t, long, 90*512)
}

func TestGlideGlissando(t *testing.T) {
	p := &VoiceParams{Portamento: 120, Glissando: true}
	path := runGlide(t, p, 48, 60, 100000)
	for _, l := range path {
		if l%512 != 0 {
			t.Errorf("glissando left the semitone grid: %d", l)
		}
	}
	expectMonotonic(t, path, 60*512)
}

func TestGlideNormal(t *testing.T) {
	p := &VoiceParams{Portamento: 50}
	path := runGlide(t, p, 60, 72, 100000)
	expectTrue(t, len(path) > 1, "expected a gradual glide")
	expectMonotonic(t, path, 72*512)
}

func TestGlideInactiveJumps(t *testing.T) {
	p := &VoiceParams{Portamento: 50}
	var v voice
	v.init(0)
	v.glide(p, 60*512, RateScaleUnity)
	v.startGlide(false)
	v.glide(p, 67*512, RateScaleUnity)
	expectEqual(t, v.linear, uint16(67*512))

	// slides glide even without portamento
	v.slide = true
	v.startGlide(true)
	v.glide(&VoiceParams{}, 60*512, RateScaleUnity)
	expectTrue(t, v.linear > 60*512 && v.linear < 67*512, "expected slide, got %d", v.linear)
}
