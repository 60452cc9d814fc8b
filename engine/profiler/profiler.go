package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-rt/engine/log"
)

var logger = log.New("profiler")

// Stats is one reporting interval's worth of frame and memory statistics.
type Stats struct {
	Frames int
	FPS    float64

	// MinFrame and MaxFrame are the shortest and longest frame in the interval.
	MinFrame time.Duration
	MaxFrame time.Duration

	HeapMB      float64
	AllocRateMB float64
	SysMB       float64

	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate and memory statistics for the render loop and logs them once per
// interval. It is not safe for concurrent use; the render loop is its only caller.
type Profiler struct {
	now      func() time.Time
	interval time.Duration

	frameCount int
	lastTime   time.Time
	lastFrame  time.Time
	minFrame   time.Duration
	maxFrame   time.Duration

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(p *Profiler)

// WithInterval sets how often statistics are reported. Non-positive values keep the default.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithClock replaces time.Now as the profiler's time source.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler that reports once per second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		now:      time.Now,
		interval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	return p
}

// Tick should be called once per frame. When the interval has elapsed it gathers statistics,
// logs them at info level and starts a new interval.
//
// Returns:
//   - Stats: the statistics of the interval that just closed
//   - bool: true if an interval closed on this tick
func (p *Profiler) Tick() (Stats, bool) {
	now := p.now()
	frameTime := now.Sub(p.lastFrame)
	p.lastFrame = now
	if p.frameCount == 0 || frameTime < p.minFrame {
		p.minFrame = frameTime
	}
	if frameTime > p.maxFrame {
		p.maxFrame = frameTime
	}
	p.frameCount++

	elapsed := now.Sub(p.lastTime)
	if elapsed < p.interval {
		return Stats{}, false
	}

	stats := Stats{
		Frames:   p.frameCount,
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		MinFrame: p.minFrame,
		MaxFrame: p.maxFrame,
	}
	p.readMemory(&stats, elapsed)

	logger.Infof("FPS: %.2f | frame: %s..%s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		stats.FPS, stats.MinFrame.Round(time.Microsecond), stats.MaxFrame.Round(time.Microsecond),
		stats.HeapMB, stats.AllocRateMB, stats.GCCount, stats.LastPauseUs, stats.MaxPauseUs, stats.SysMB)

	p.frameCount = 0
	p.minFrame = 0
	p.maxFrame = 0
	p.lastTime = now
	return stats, true
}

// readMemory fills the memory fields of stats and advances the GC and allocation baselines.
func (p *Profiler) readMemory(stats *Stats, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	stats.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	stats.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	stats.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses
	gcCount := p.memStats.NumGC
	stats.GCCount = gcCount
	if gcCount > 0 {
		stats.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > stats.MaxPauseUs {
				stats.MaxPauseUs = pause
			}
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
