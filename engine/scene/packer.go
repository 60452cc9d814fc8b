package scene

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scene_buffer"
)

// defaultChunkSize is the number of records one pool task marshals.
const defaultChunkSize = 256

// poolPacker marshals records in chunks on a worker pool. Workers persist across frames; a
// WaitGroup is the per-call barrier because pool.Wait() waits for the whole pool to go idle.
type poolPacker struct {
	pool      worker.DynamicWorkerPool
	chunkSize int
}

var _ scene_buffer.Packer = &poolPacker{}

// newPoolPacker starts a pool of workers goroutines.
//
// Parameters:
//   - workers: the number of pool workers
//   - chunkSize: records per task; inputs of at most one chunk are packed inline
//
// Returns:
//   - *poolPacker: the packer
func newPoolPacker(workers, chunkSize int) *poolPacker {
	if chunkSize < 1 {
		chunkSize = defaultChunkSize
	}
	return &poolPacker{
		pool:      worker.NewDynamicWorkerPool(workers, 256, time.Second),
		chunkSize: chunkSize,
	}
}

func (p *poolPacker) Pack(dst []byte, stride, n int, put func(i int, out []byte)) {
	if n <= p.chunkSize {
		scene_buffer.SerialPacker{}.Pack(dst, stride, n, put)
		return
	}

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += p.chunkSize {
		end := min(start+p.chunkSize, n)
		wg.Add(1)
		lo, hi := start, end
		p.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					put(i, dst[i*stride:(i+1)*stride])
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
}

// Stop stops the pool workers.
func (p *poolPacker) Stop() {
	p.pool.Stop()
}
