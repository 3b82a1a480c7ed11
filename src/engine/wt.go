package engine

// ----- Wavetable ----- //

const wtStopped = -1

type wavetable struct {
	pos        int
	divCtr     uint32
	restartReq bool
	stepReq    bool
	lastPos    int
}

func (w *wavetable) init() {
	*w = wavetable{pos: wtStopped, lastPos: wtStopped}
}

func (w *wavetable) restart() {
	w.restartReq = true
}

// step requests one manual advance, used by the trigger matrix.
func (w *wavetable) step() {
	w.stepReq = true
}

// wtValue decodes a table byte: below 0x80 a signed 7-bit offset, from 0x80
// an absolute 7-bit value. It returns the modulation value and the parameter
// value.
func wtValue(b byte) (int32, int, bool) {
	if b < 0x80 {
		off := int(int8(b<<1) >> 1)
		return int32(off) << 9, off, true
	}
	v := int(b & 0x7f)
	return int32(v-64) << 9, v, false
}

func wtRange(p *WTParams) (int, int) {
	return int(p.Begin & 0x7f), int(p.End & 0x7f)
}

// mapRange maps pos in [0, size) onto the begin..end range, which may be
// inverted.
func mapRange(begin int, end int, pos int, size int) int {
	if begin <= end {
		return begin + pos*(end-begin+1)/size
	}
	return begin - pos*(begin-end+1)/size
}

// tick returns the new modulation value and the parameter write when the
// position changed. note is the played note, mod the WT destination.
func (w *wavetable) tick(p *WTParams, data *[wtDataSize]byte, clk ClockEvent, note int, mod int32, rateScale uint16) (value int32, param int, relative bool, changed bool) {
	begin, end := wtRange(p)
	pos := w.pos
	advance := false
	switch {
	case p.KeyControl:
		pos = mapRange(begin, end, int(clamp(int32(note), 0, 127)), 128)
	case p.ModControl:
		pos = mapRange(begin, end, int(clamp(mod+0x8000, 0, 0xffff)), 0x10000)
	default:
		if w.restartReq {
			w.restartReq = false
			w.divCtr = 0
			pos = begin
			w.lastPos = wtStopped
		} else if w.pos != wtStopped {
			if w.stepReq {
				advance = true
			} else if p.ClockSync {
				if clk.Has(ClockTick) {
					w.divCtr++
					if w.divCtr > uint32(p.Speed) {
						w.divCtr = 0
						advance = true
					}
				}
			} else {
				w.divCtr += scaleIncrement(RateScaleUnity, rateScale)
				if w.divCtr >= (uint32(p.Speed)+1)*RateScaleUnity {
					w.divCtr = 0
					advance = true
				}
			}
		}
		w.stepReq = false
		if advance {
			pos++
			if pos > end || pos < begin {
				if p.OneShot {
					pos = wtStopped
				} else {
					pos = int(p.Loop & 0x7f)
					if pos < begin || pos > end {
						pos = begin
					}
				}
			}
		}
	}
	w.pos = pos
	if pos == wtStopped || (pos == w.lastPos && !advance) {
		return 0, 0, false, false
	}
	w.lastPos = pos
	value, param, relative = wtValue(data[pos&0x7f])
	return value, param, relative, true
}
