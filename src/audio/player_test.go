package audio

import (
	"testing"

	"github.com/jinjor/sid-engine/src/engine"
)

func renderFrame(r *renderer, f *engine.RegisterFrame, n int) [2][]float64 {
	out := [2][]float64{make([]float64, n), make([]float64, n)}
	r.WriteRegisters(f)
	r.render(out)
	return out
}

func peak(samples []float64) float64 {
	p := 0.0
	for _, s := range samples {
		if s > p {
			p = s
		} else if -s > p {
			p = -s
		}
	}
	return p
}

func sawFrame() *engine.RegisterFrame {
	f := &engine.RegisterFrame{}
	f.Voices[0] = engine.VoiceRegisters{
		Frequency:      0x1cd6, // A-4
		Control:        engine.CtrlSaw | engine.CtrlGate,
		SustainRelease: 0xf0,
	}
	f.Filters[0].Volume = 15
	f.Filters[1].Volume = 15
	return f
}

func TestRendererVoice(t *testing.T) {
	r := newRenderer(sampleRate)
	out := renderFrame(r, sawFrame(), 4800)
	expectEqual(t, peak(out[0]) > 0.01, true)
	expectEqual(t, peak(out[1]), 0.0)
}

func TestRendererVolume(t *testing.T) {
	r := newRenderer(sampleRate)
	f := sawFrame()
	f.Filters[0].Volume = 0
	out := renderFrame(r, f, 4800)
	expectEqual(t, peak(out[0]), 0.0)
}

func TestRendererRelease(t *testing.T) {
	r := newRenderer(sampleRate)
	f := sawFrame()
	renderFrame(r, f, 4800)
	f.Voices[0].Control = engine.CtrlSaw
	renderFrame(r, f, 4800)
	out := renderFrame(r, f, 480)
	expectEqual(t, peak(out[0]), 0.0)
}

func TestRendererTestBit(t *testing.T) {
	r := newRenderer(sampleRate)
	f := sawFrame()
	f.Voices[0].Control |= engine.CtrlTest
	renderFrame(r, f, 100)
	expectEqual(t, r.chips[0].voices[0].acc, uint32(0))
}

func TestWriteBuffer(t *testing.T) {
	buf := make([]byte, 2*bytesPerSample)
	writeBuffer([]float64{1, -2}, buf, 0)
	writeBuffer([]float64{0, 0.5}, buf, 1)
	expectEqual(t, buf[0], byte(0xff))
	expectEqual(t, buf[1], byte(0x7f))
	expectEqual(t, buf[2], byte(0))
	expectEqual(t, buf[3], byte(0))
	expectEqual(t, buf[4], byte(0x01))
	expectEqual(t, buf[5], byte(0x80))
}
