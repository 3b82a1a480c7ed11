package audio

import (
	"context"
	"io"
	"log"
	"math"
	"sync"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/sid-engine/src/engine"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096

const (
	sidClock  = 985248.0
	voiceGain = 0.12
)

// attack times in seconds; decay and release take three times as long
var attackTimes = [16]float64{
	0.002, 0.008, 0.016, 0.024, 0.038, 0.056, 0.068, 0.080,
	0.100, 0.250, 0.500, 0.800, 1.000, 3.000, 5.000, 8.000,
}

// ----- Preview Voice ----- //

// previewVoice is a rough software rendition of one chip voice: a 24-bit
// phase accumulator, combined waveforms by AND and a linear ADSR.
type previewVoice struct {
	acc       uint32
	msbRising bool
	lfsr      uint32
	level     float64
	attacking bool
	gate      bool
}

func (v *previewVoice) reset() {
	*v = previewVoice{lfsr: 0x7ffff8}
}

func (v *previewVoice) clock(r *engine.VoiceRegisters, step float64) {
	if r.Control&engine.CtrlTest != 0 {
		v.acc = 0
		v.msbRising = false
		return
	}
	prev := v.acc
	v.acc = (v.acc + uint32(float64(r.Frequency)*step)) & 0xffffff
	v.msbRising = prev&0x800000 == 0 && v.acc&0x800000 != 0
	// noise is clocked by bit 19
	if prev&0x080000 == 0 && v.acc&0x080000 != 0 {
		bit := (v.lfsr>>22 ^ v.lfsr>>17) & 1
		v.lfsr = (v.lfsr<<1 | bit) & 0x7fffff
	}
}

// output returns the 12-bit waveform value. ringMSB is the accumulator MSB
// of the ring modulation source.
func (v *previewVoice) output(r *engine.VoiceRegisters, ringMSB bool) uint32 {
	out := uint32(0xfff)
	on := false
	if r.Control&engine.CtrlTriangle != 0 {
		msb := v.acc&0x800000 != 0
		if r.Control&engine.CtrlRing != 0 {
			msb = msb != ringMSB
		}
		tri := v.acc >> 11 & 0xfff
		if msb {
			tri ^= 0xfff
		}
		out &= tri
		on = true
	}
	if r.Control&engine.CtrlSaw != 0 {
		out &= v.acc >> 12
		on = true
	}
	if r.Control&engine.CtrlPulse != 0 {
		if v.acc>>12 < uint32(r.PulseWidth&0xfff) {
			out = 0
		}
		on = true
	}
	if r.Control&engine.CtrlNoise != 0 {
		l := v.lfsr
		out &= (l>>11&0x800 | l>>10&0x400 | l>>7&0x200 | l>>5&0x100 | l>>4&0x80 | l>>1&0x40 | l<<1&0x20 | l<<2&0x10)
		on = true
	}
	if !on {
		return 0x800
	}
	return out
}

// envelope advances the amplitude by one sample.
func (v *previewVoice) envelope(r *engine.VoiceRegisters, dt float64) float64 {
	gate := r.Control&engine.CtrlGate != 0
	if gate && !v.gate {
		v.attacking = true
	}
	v.gate = gate
	sustain := float64(r.SustainRelease>>4) / 15
	switch {
	case gate && v.attacking:
		v.level += dt / attackTimes[r.AttackDecay>>4]
		if v.level >= 1 {
			v.level = 1
			v.attacking = false
		}
	case gate:
		if v.level > sustain {
			v.level = math.Max(sustain, v.level-dt/(3*attackTimes[r.AttackDecay&0x0f]))
		}
	default:
		v.attacking = false
		v.level = math.Max(0, v.level-dt/(3*attackTimes[r.SustainRelease&0x0f]))
	}
	return v.level
}

// ----- Preview Filter ----- //

// previewFilter is a Chamberlin state variable filter.
type previewFilter struct {
	low  float64
	band float64
}

func cutoffHz(cutoff uint16) float64 {
	return 30 + float64(cutoff&0x7ff)*5.8
}

func (f *previewFilter) process(in float64, r *engine.FilterRegisters) float64 {
	fc := 2 * math.Sin(math.Pi*math.Min(cutoffHz(r.Cutoff), sampleRate/6)/sampleRate)
	damp := 1.4 - float64(r.Resonance&0x0f)/15*1.2
	high := in - f.low - damp*f.band
	f.band += fc * high
	f.low += fc * f.band
	out := 0.0
	if r.Mode&engine.FilterLP != 0 {
		out += f.low
	}
	if r.Mode&engine.FilterBP != 0 {
		out += f.band
	}
	if r.Mode&engine.FilterHP != 0 {
		out += high
	}
	return out
}

// ----- Renderer ----- //

type previewChip struct {
	voices [3]previewVoice
	filter previewFilter
}

// renderer turns register frames into samples. It keeps the latest frame
// written by the engine.
type renderer struct {
	sync.Mutex
	frame engine.RegisterFrame
	chips [2]previewChip
	step  float64
	dt    float64
}

func newRenderer(rate float64) *renderer {
	r := &renderer{
		step: sidClock / rate,
		dt:   1 / rate,
	}
	for c := range r.chips {
		for i := range r.chips[c].voices {
			r.chips[c].voices[i].reset()
		}
	}
	return r
}

// WriteRegisters ...
func (r *renderer) WriteRegisters(f *engine.RegisterFrame) {
	r.Lock()
	r.frame = *f
	r.Unlock()
}

// render fills one output slice per chip.
func (r *renderer) render(out [2][]float64) {
	r.Lock()
	frame := r.frame
	r.Unlock()
	for c := range r.chips {
		chip := &r.chips[c]
		flt := &frame.Filters[c]
		regs := frame.Voices[c*3 : c*3+3]
		for i := range out[c] {
			for k := range chip.voices {
				chip.voices[k].clock(&regs[k], r.step)
			}
			for k := range chip.voices {
				src := &chip.voices[(k+2)%3]
				if regs[k].Control&engine.CtrlSync != 0 && src.msbRising {
					chip.voices[k].acc = 0
				}
			}
			direct, filtered := 0.0, 0.0
			for k := range chip.voices {
				v := &chip.voices[k]
				ring := chip.voices[(k+2)%3].acc&0x800000 != 0
				s := (float64(v.output(&regs[k], ring))/0x800 - 1) * v.envelope(&regs[k], r.dt) * voiceGain
				switch {
				case flt.Routing&(1<<k) != 0:
					filtered += s
				case k == 2 && flt.Mode&engine.Filter3Off != 0:
				default:
					direct += s
				}
			}
			out[c][i] = (direct + chip.filter.process(filtered, flt)) * float64(flt.Volume&0x0f) / 15
		}
	}
}

// ----- Player ----- //

// Player plays the register frames it receives through the default audio
// device.
type Player struct {
	ctx        context.Context
	otoContext *oto.Context
	renderer   *renderer
	out        [2][]float64
}

var _ io.Reader = (*Player)(nil)
var _ engine.RegisterWriter = (*Player)(nil)

// NewPlayer ...
func NewPlayer() (*Player, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	return &Player{
		ctx:        context.Background(),
		otoContext: otoContext,
		renderer:   newRenderer(sampleRate),
		out:        [2][]float64{make([]float64, samplesPerCycle), make([]float64, samplesPerCycle)},
	}, nil
}

// WriteRegisters ...
func (p *Player) WriteRegisters(f *engine.RegisterFrame) {
	p.renderer.WriteRegisters(f)
}

func (p *Player) Read(buf []byte) (int, error) {
	select {
	case <-p.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		n := len(buf) / bytesPerSample
		if n > samplesPerCycle {
			n = samplesPerCycle
		}
		out := [2][]float64{p.out[0][:n], p.out[1][:n]}
		p.renderer.render(out)
		writeBuffer(out[0], buf, 0)
		writeBuffer(out[1], buf, 1)
		return n * bytesPerSample, nil
	}
}

func writeBuffer(out []float64, buf []byte, ch int) {
	for i, value := range out {
		value = math.Max(-1, math.Min(1, value))
		b := int16(value * 32767)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Start ...
func (p *Player) Start(ctx context.Context) error {
	player := p.otoContext.NewPlayer()
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	p.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(player, p, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Player.Start() ended.")
	return nil
}

// Close ...
func (p *Player) Close() error {
	log.Println("Closing Player...")
	return p.otoContext.Close()
}
