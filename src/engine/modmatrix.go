package engine

// ----- Modulation Matrix ----- //

type modMatrix struct {
	lastSrc2 [numModSlots]int32
	held     [numModSlots]int32
}

func (m *modMatrix) init() {
	*m = modMatrix{}
}

// operand resolves a source selector to a signed 15-bit value.
func operand(sel uint8, t *modTable) int32 {
	if sel == 0 {
		return 0
	}
	if sel&0x80 != 0 {
		return int32(sel&0x7f) << 8
	}
	return clamp(t.source(int(sel)-1)>>1, -0x7fff, 0x7fff)
}

func boolValue(b bool) int32 {
	if b {
		return 0x7fff
	}
	return 0
}

func (m *modMatrix) apply(i int, op uint8, a int32, b int32) int32 {
	var r int32
	switch op & 0x0f {
	case ModOpSrc1:
		r = a
	case ModOpSrc2:
		r = b
	case ModOpAdd:
		r = a + b
	case ModOpSub:
		r = a - b
	case ModOpMul:
		r = a * b / 8192
	case ModOpXor:
		r = a ^ b
	case ModOpOr:
		r = a | b
	case ModOpAnd:
		r = a & b
	case ModOpMin:
		r = a
		if b < a {
			r = b
		}
	case ModOpMax:
		r = a
		if b > a {
			r = b
		}
	case ModOpLess:
		r = boolValue(a < b)
	case ModOpGreater:
		r = boolValue(a > b)
	case ModOpEqual:
		d := a - b
		r = boolValue(d >= -64 && d <= 64)
	case ModOpSampleHold:
		if m.lastSrc2[i] < 0 && b >= 0 {
			m.held[i] = a
		}
		r = m.held[i]
	}
	m.lastSrc2[i] = b
	return clamp(r, -0x7fff, 0x7fff)
}

// tick evaluates all slots in order. Each raw result becomes visible as the
// slot's MOD source to the slots after it.
func (m *modMatrix) tick(slots *[numModSlots]ModParams, t *modTable) {
	for i := range slots {
		s := &slots[i]
		if s.Depth == 0 {
			continue
		}
		r := m.apply(i, s.Op, operand(s.Src1, t), operand(s.Src2, t))
		t.setSource(ModSrcMod1+i, r)

		v := scaleDepth(r, int32(s.Depth))
		v1, v2 := v, v
		if s.Op&ModInvertTarget1 != 0 {
			v1 = -v
		}
		if s.Op&ModInvertTarget2 != 0 {
			v2 = -v
		}
		if s.Target1 != 0 {
			t.add(int(s.Target1)-1, v1)
		}
		if s.Target2 != 0 {
			t.add(int(s.Target2)-1, v2)
		}
		for side, vs := range [2]int32{v1, v2} {
			bits := uint8(s.Direct >> (8 * side))
			for b := 0; b < 8; b++ {
				if bits&(1<<b) != 0 {
					t.add(directTargets[side][b], vs)
				}
			}
		}
	}
}
