package input

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressIsIdempotent(t *testing.T) {
	keys := NewKeySet()
	keys.Press(common.KeyW)
	keys.Press(common.KeyW)
	assert.Equal(t, 1, keys.Len())
	assert.Equal(t, []uint32{common.KeyW}, keys.Snapshot())
}

func TestReleaseUnpressedIsNoop(t *testing.T) {
	keys := NewKeySet()
	keys.Release(common.KeyA)
	assert.Equal(t, 0, keys.Len())

	keys.Press(common.KeyD)
	keys.Release(common.KeyA)
	assert.Equal(t, []uint32{common.KeyD}, keys.Snapshot())
}

func TestInterleavedPressRelease(t *testing.T) {
	cases := []struct {
		name     string
		pressed  []uint32
		released []uint32
		want     []uint32
	}{
		{"none released", []uint32{1, 2, 3}, nil, []uint32{1, 2, 3}},
		{"some released", []uint32{1, 2, 3, 4}, []uint32{2, 4}, []uint32{1, 3}},
		{"all released", []uint32{5, 6}, []uint32{6, 5}, []uint32{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keys := NewKeySet()
			for _, id := range tc.pressed {
				keys.Press(id)
			}
			for _, id := range tc.released {
				keys.Release(id)
			}
			assert.Equal(t, len(tc.want), keys.Len())
			assert.ElementsMatch(t, tc.want, keys.Snapshot())
		})
	}
}

func TestSnapshotIsSortedCopy(t *testing.T) {
	keys := NewKeySet()
	keys.Press(common.KeyUp)
	keys.Press(common.KeyA)
	keys.Press(common.KeySpace)

	snap := keys.Snapshot()
	require.Equal(t, []uint32{common.KeySpace, common.KeyA, common.KeyUp}, snap)

	keys.Release(common.KeyA)
	assert.Len(t, snap, 3, "snapshot must not alias the live set")
}

func TestApplyVisitsHeldKeys(t *testing.T) {
	keys := NewKeySet()
	keys.Press(common.KeyW)

	var sawW, sawS bool
	ok := keys.Apply(func(view KeyView) {
		sawW = view.Held(common.KeyW)
		sawS = view.Held(common.KeyS)
	})
	assert.True(t, ok)
	assert.True(t, sawW)
	assert.False(t, sawS)
}

func TestApplyPanicDegradesToEmptyFrame(t *testing.T) {
	keys := NewKeySet()
	keys.Press(common.KeyW)

	ok := keys.Apply(func(KeyView) { panic("boom") })
	assert.False(t, ok)
	assert.Equal(t, 1, keys.Degraded())

	// the lock is released and the set still works
	keys.Press(common.KeyS)
	assert.Equal(t, []uint32{common.KeyS, common.KeyW}, keys.Snapshot())
}

func TestConcurrentWritesAreNotLost(t *testing.T) {
	keys := NewKeySet()
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			keys.Press(id)
			_ = keys.Snapshot()
		}(uint32(i))
	}
	wg.Wait()
	assert.Equal(t, 64, keys.Len())
}

func TestDebugLogOnlyOnHeldSetChanges(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	log.SetLevel(log.Debug)
	t.Cleanup(func() {
		log.SetSink(os.Stdout)
		log.SetLevel(log.Notice)
	})

	keys := NewKeySet()
	keys.Press(common.KeyW)
	keys.Press(common.KeyW)
	for range 100 {
		keys.Snapshot()
	}
	keys.Release(common.KeyW)
	keys.Release(common.KeyW)
	for range 100 {
		keys.Snapshot()
	}

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "held keys"), out)
	assert.Contains(t, out, "W pressed")
	assert.Contains(t, out, "W released")
}
