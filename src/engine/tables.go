package engine

import "math"

// ----- Engine Dimensions ----- //

const (
	numSIDs            = 2
	voicesPerSID       = 3
	numVoices          = numSIDs * voicesPerSID
	numMidiVoices      = 6
	numEnvs            = 2
	numLfos            = 6
	numWts             = 4
	numModSlots        = 8
	numDrumInstruments = 16
	numDrumTracks      = 8
	numPatterns        = 8
	seqSteps           = 16
	wtDataSize         = 128
)

// ----- Timing ----- //

// NominalTickRate is the update rate (Hz) all rate tables are calibrated for.
const NominalTickRate = 1000

// RateScaleUnity is the Q8.8 rate scale of an engine ticking at NominalTickRate.
const RateScaleUnity = 0x100

const sidClockPAL = 985248

// RateScaleFor returns the Q8.8 rate scale for an engine ticked at tickRate Hz.
func RateScaleFor(tickRate float64) uint16 {
	if tickRate <= 0 {
		return RateScaleUnity
	}
	s := tickRate / NominalTickRate * RateScaleUnity
	if s < 1 {
		s = 1
	}
	if s > 0xffff {
		s = 0xffff
	}
	return uint16(s)
}

// scaleIncrement divides a per-tick increment by the rate scale so that
// time-based motion does not depend on how often the engine is ticked.
func scaleIncrement(inc uint32, rateScale uint16) uint32 {
	if rateScale == 0 || rateScale == RateScaleUnity {
		return inc
	}
	v := uint64(inc) * RateScaleUnity / uint64(rateScale)
	if v == 0 {
		v = 1
	}
	if v > math.MaxUint32 {
		v = math.MaxUint32
	}
	return uint32(v)
}

// ----- Lookup Tables ----- //

// frqTable maps a note to the SID frequency register. Index 128 exists so
// that interpolation of note 127 has an upper neighbour.
var frqTable = func() [129]uint16 {
	var t [129]uint16
	for n := range t {
		hz := 440.0 * math.Pow(2, float64(n-69)/12)
		v := hz * 16777216 / sidClockPAL
		if v > 0xffff {
			v = 0xffff
		}
		t[n] = uint16(math.Round(v))
	}
	return t
}()

// envRateTable holds the 16-bit counter increment of one tick for an
// envelope rate. Rate 0 crosses the full range in one tick, rate 255 takes
// roughly a minute.
var envRateTable = func() [256]uint16 {
	var t [256]uint16
	for r := range t {
		ticks := math.Exp(float64(r)/255*math.Log(60000)) - 1
		inc := math.Round(0xffff / (1 + ticks))
		if inc < 1 {
			inc = 1
		}
		t[r] = uint16(inc)
	}
	return t
}()

// lfoRateTable holds phase increments for 0.02Hz .. 40Hz.
var lfoRateTable = func() [256]uint16 {
	var t [256]uint16
	for r := range t {
		hz := 0.02 * math.Exp(float64(r)/255*math.Log(2000))
		inc := math.Round(65536 * hz / NominalTickRate)
		if inc < 1 {
			inc = 1
		}
		t[r] = uint16(inc)
	}
	return t
}()

// lfoClockDivs is the number of MIDI clocks per period of a clock synced LFO.
var lfoClockDivs = [16]uint32{3, 6, 12, 16, 24, 32, 48, 64, 96, 128, 192, 256, 384, 512, 768, 1536}

// glideRateTable holds the counter increment per tick of constant time glides.
// Rate 1 takes a few ticks, rate 255 ten seconds.
var glideRateTable = func() [256]uint32 {
	var t [256]uint32
	t[0] = 0x10000
	for r := 1; r < len(t); r++ {
		ticks := math.Exp(float64(r) / 255 * math.Log(10000))
		inc := math.Round(0x10000 / ticks)
		if inc < 1 {
			inc = 1
		}
		t[r] = uint32(inc)
	}
	return t
}()

// glideFactorTable holds the fraction (of 0x10000) of the remaining distance
// covered per tick by normal portamento.
var glideFactorTable = func() [256]uint32 {
	var t [256]uint32
	for r := range t {
		t[r] = uint32(math.Round(0x10000 / (1 + float64(r)*float64(r)/64)))
	}
	return t
}()

var sineTable = func() [256]int16 {
	var t [256]int16
	for i := range t {
		t[i] = int16(math.Round(math.Sin(2*math.Pi*float64(i)/256) * 0x7fff))
	}
	return t
}()

// ----- Saturation ----- //

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp16(v int32) uint16 {
	return uint16(clamp(v, 0, 0xffff))
}

func clamp12(v int32) uint16 {
	return uint16(clamp(v, 0, 0xfff))
}

func clampS16(v int32) int32 {
	return clamp(v, -0x8000, 0x7fff)
}

// transposeNote adds delta semitones and folds the result back into the
// MIDI note range by whole octaves.
func transposeNote(note int, delta int) int {
	n := note + delta
	for n < 0 {
		n += 12
	}
	for n > 127 {
		n -= 12
	}
	return n
}

// linearToFrq converts a 16-bit linear frequency (512 steps per semitone) to
// the SID frequency register, interpolating between adjacent notes.
func linearToFrq(linear uint16) uint16 {
	idx := linear >> 9
	frac := int32(linear & 0x1ff)
	lo := int32(frqTable[idx])
	hi := int32(frqTable[idx+1])
	return clamp16(lo + (hi-lo)*frac/512)
}
