package engine

import "testing"

func TestModMatrixSampleHold(t *testing.T) {
	var m modMatrix
	m.init()
	var table modTable
	slots := [numModSlots]ModParams{
		{Src1: ModSrcEnv1 + 1, Src2: ModSrcLfo1 + 1, Op: ModOpSampleHold, Depth: 127, Target1: ModDstFil1 + 1},
	}
	run := func(env int32, lfo int32) int32 {
		table.clearDestinations()
		table.setSource(ModSrcEnv1, env)
		table.setSource(ModSrcLfo1, lfo)
		m.tick(&slots, &table)
		return table.source(ModSrcMod1)
	}

	expectEqual(t, run(0x1000, -100), int32(0))
	expectEqual(t, run(0x3000, -100), int32(0))
	expectEqual(t, run(0x5000, -50), int32(0))
	// negative to positive transition samples src1
	expectEqual(t, run(0x6000, 100), int32(0x3000))
	expectEqual(t, run(0x8000, 100), int32(0x3000))
	expectEqual(t, run(0xa000, 200), int32(0x3000))
	expectEqual(t, table.destination(ModDstFil1), scaleDepth(0x3000, 127))
	expectEqual(t, run(0xa000, -1), int32(0x3000))
	expectEqual(t, run(0x2000, 0), int32(0x1000))
}

func TestModMatrixOperators(t *testing.T) {
	var m modMatrix
	m.init()
	a, b := int32(0x2000), int32(0x1000)
	expectEqual(t, m.apply(0, ModOpSrc1, a, b), a)
	expectEqual(t, m.apply(0, ModOpSrc2, a, b), b)
	expectEqual(t, m.apply(0, ModOpAdd, a, b), int32(0x3000))
	expectEqual(t, m.apply(0, ModOpSub, b, a), int32(-0x1000))
	expectEqual(t, m.apply(0, ModOpMul, a, b), int32(0x2000*0x1000/8192))
	expectEqual(t, m.apply(0, ModOpMin, a, b), b)
	expectEqual(t, m.apply(0, ModOpMax, a, b), a)
	expectEqual(t, m.apply(0, ModOpLess, a, b), int32(0))
	expectEqual(t, m.apply(0, ModOpGreater, a, b), int32(0x7fff))
	expectEqual(t, m.apply(0, ModOpEqual, a, a+64), int32(0x7fff))
	expectEqual(t, m.apply(0, ModOpEqual, a, a+65), int32(0))
	expectEqual(t, m.apply(0, ModOpAdd, 0x7000, 0x7000), int32(0x7fff))
	expectEqual(t, m.apply(0, ModOpNone, a, b), int32(0))
}

func TestModMatrixConstantOperand(t *testing.T) {
	var table modTable
	expectEqual(t, operand(0x80|0x40, &table), int32(0x4000))
	expectEqual(t, operand(0, &table), int32(0))
	table.setSource(ModSrcEnv2, 0xffff)
	expectEqual(t, operand(ModSrcEnv2+1, &table), int32(0x7fff))
}

func TestModMatrixTargetsAndDirect(t *testing.T) {
	var m modMatrix
	m.init()
	var table modTable
	slots := [numModSlots]ModParams{
		{
			Src1:    0x80 | 0x10, // constant 0x1000
			Op:      ModOpSrc1 | ModInvertTarget1,
			Depth:   64,
			Target1: ModDstVol1 + 1,
			Target2: ModDstVol2 + 1,
			Direct:  0x0001 | 0x4000, // pitch O1L, filter right
		},
		{
			Src1:    ModSrcMod1 + 1, // feedback of slot 1
			Op:      ModOpSrc1,
			Depth:   127,
			Target1: ModDstPw1 + 1,
		},
	}
	m.tick(&slots, &table)
	v := scaleDepth(0x1000, 64)
	expectEqual(t, table.destination(ModDstVol1), -v)
	expectEqual(t, table.destination(ModDstVol2), v)
	expectEqual(t, table.destination(ModDstPitch1), -v)
	expectEqual(t, table.destination(ModDstFil2), v)
	expectEqual(t, table.destination(ModDstPitch4), int32(0))
	expectEqual(t, table.source(ModSrcMod1), int32(0x1000))
	expectEqual(t, table.destination(ModDstPw1), scaleDepth(0x1000>>1, 127))
}

func TestModTableLatchesLfoDestinations(t *testing.T) {
	var table modTable
	table.add(ModDstLd1, 0x1000)
	table.add(ModDstLr3, -0x200)
	table.clearDestinations()
	expectEqual(t, table.lfoDepth[0], int32(0x1000))
	expectEqual(t, table.lfoRate[2], int32(-0x200))
	expectEqual(t, table.destination(ModDstLd1), int32(0))
	table.clearDestinations()
	expectEqual(t, table.lfoDepth[0], int32(0))
}
