package engine

// ----- Modulation Sources ----- //

const (
	ModSrcEnv1 = iota
	ModSrcEnv2
	ModSrcLfo1
	ModSrcLfo2
	ModSrcLfo3
	ModSrcLfo4
	ModSrcLfo5
	ModSrcLfo6
	ModSrcMod1
	ModSrcMod2
	ModSrcMod3
	ModSrcMod4
	ModSrcMod5
	ModSrcMod6
	ModSrcMod7
	ModSrcMod8
	ModSrcKey
	ModSrcVelocity
	ModSrcModWheel
	ModSrcPitchBend
	ModSrcAftertouch
	ModSrcWt1
	ModSrcWt2
	ModSrcWt3
	ModSrcWt4
	numModSources
)

// ----- Modulation Destinations ----- //

// Pitch and pulsewidth destinations are ordered O1L, O2L, O3L, O1R, O2R, O3R
// so that the voice index can be added to the first one.
const (
	ModDstPitch1 = iota
	ModDstPitch2
	ModDstPitch3
	ModDstPitch4
	ModDstPitch5
	ModDstPitch6
	ModDstPw1
	ModDstPw2
	ModDstPw3
	ModDstPw4
	ModDstPw5
	ModDstPw6
	ModDstFil1
	ModDstFil2
	ModDstVol1
	ModDstVol2
	ModDstLd1
	ModDstLd2
	ModDstLd3
	ModDstLd4
	ModDstLd5
	ModDstLd6
	ModDstLr1
	ModDstLr2
	ModDstLr3
	ModDstLr4
	ModDstLr5
	ModDstLr6
	ModDstWt1
	ModDstWt2
	ModDstWt3
	ModDstWt4
	numModDestinations
)

// direct targets of one side, in bit order of ModParams.Direct
var directTargets = [2][8]int{
	{ModDstPitch1, ModDstPitch2, ModDstPitch3, ModDstPw1, ModDstPw2, ModDstPw3, ModDstFil1, ModDstVol1},
	{ModDstPitch4, ModDstPitch5, ModDstPitch6, ModDstPw4, ModDstPw5, ModDstPw6, ModDstFil2, ModDstVol2},
}

// ----- Modulation Table ----- //

// modTable is the one shared mutable resource of a tick. Sources keep their
// value until their owner rewrites them, destinations are cleared at the
// beginning of every tick.
type modTable struct {
	src [numModSources]int32
	dst [numModDestinations]int32
	// LFO depth/rate destinations of the previous tick, read by the LFOs
	// before this tick's writers have run.
	lfoDepth [numLfos]int32
	lfoRate  [numLfos]int32
}

func (m *modTable) clearDestinations() {
	for i := 0; i < numLfos; i++ {
		m.lfoDepth[i] = m.dst[ModDstLd1+i]
		m.lfoRate[i] = m.dst[ModDstLr1+i]
	}
	for i := range m.dst {
		m.dst[i] = 0
	}
}

func (m *modTable) add(dst int, value int32) {
	if dst < 0 || dst >= numModDestinations {
		return
	}
	m.dst[dst] = clamp(m.dst[dst]+value, -0x10000, 0x10000)
}

func (m *modTable) setSource(src int, value int32) {
	if src < 0 || src >= numModSources {
		return
	}
	m.src[src] = value
}

func (m *modTable) source(src int) int32 {
	if src < 0 || src >= numModSources {
		return 0
	}
	return m.src[src]
}

func (m *modTable) destination(dst int) int32 {
	if dst < 0 || dst >= numModDestinations {
		return 0
	}
	return m.dst[dst]
}

// scaleDepth applies a signed 8-bit depth (128 = 1.0) to a modulation value.
func scaleDepth(value int32, depth int32) int32 {
	return value * depth / 128
}
