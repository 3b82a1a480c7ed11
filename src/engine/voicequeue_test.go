package engine

import "testing"

func TestVoiceQueueReuse(t *testing.T) {
	var q voiceQueue
	q.init()
	v0, stolen := q.get(0, AssignAll, 0)
	expectEqual(t, v0, 0)
	expectEqual(t, stolen, false)
	v1, _ := q.get(1, AssignAll, 0)
	expectEqual(t, v1, 1)
	v, stolen := q.get(0, AssignAll, 0)
	expectEqual(t, v, 0)
	expectEqual(t, stolen, false)
	expectEqual(t, q.voiceOf(1), 1)
	expectEqual(t, q.voiceOf(9), unbound)
}

func TestVoiceQueueEviction(t *testing.T) {
	var q voiceQueue
	q.init()
	for i := 0; i < numVoices; i++ {
		q.get(i, AssignAll, 0)
	}
	// touch instrument 0 so that instrument 1 is least recently used
	q.get(0, AssignAll, 0)

	v, stolen := q.get(6, AssignAll, 0)
	expectEqual(t, v, 1)
	expectEqual(t, stolen, true)
	expectEqual(t, q.voiceOf(1), unbound)

	expectEqual(t, q.release(3), 3)
	v, stolen = q.get(7, AssignAll, 0)
	expectEqual(t, v, 3)
	expectEqual(t, stolen, false)
	expectEqual(t, q.release(42), unbound)
}

func TestVoiceQueuePools(t *testing.T) {
	var q voiceQueue
	q.init()
	for i := 0; i < 4; i++ {
		v, _ := q.get(i, AssignLeft, 0)
		expectTrue(t, v >= 0 && v < voicesPerSID, "left voice out of range: %d", v)
	}
	for i := 10; i < 14; i++ {
		v, _ := q.get(i, AssignRight, 0)
		expectTrue(t, v >= voicesPerSID && v < numVoices, "right voice out of range: %d", v)
	}
	v, stolen := q.get(20, AssignDirect, 4)
	expectEqual(t, v, 4)
	expectEqual(t, stolen, true)
	v, _ = q.get(21, AssignDirect, 10)
	expectEqual(t, v, 4)
}
