package input

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// defaultBufferSize is the command buffer capacity when QueueConfig
// leaves BufferSize unset. At the 10 Hz aim cadence the API allows this
// absorbs a long engine stall before anything is lost.
const defaultBufferSize = 256

// CommandQueue decouples transport handlers from the engine: Enqueue
// never blocks, and a single worker applies commands in arrival order
// so an aim is always in effect before the fire that follows it.
type CommandQueue struct {
	buf  chan Command
	disp *Dispatcher

	running atomic.Bool
	quit    chan struct{}
	wg      sync.WaitGroup

	enq     atomic.Uint64
	proc    atomic.Uint64
	drop    atomic.Uint64
	waitEMA atomic.Int64 // smoothed queue latency in nanoseconds
}

// QueueConfig sizes the command buffer. The zero value is usable and
// falls back to defaultBufferSize.
type QueueConfig struct {
	BufferSize int
}

// DefaultQueueConfig returns the buffer sizing used by the server.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{BufferSize: defaultBufferSize}
}

// QueueStats summarizes queue activity for the stats endpoint.
type QueueStats struct {
	Enqueued       uint64  `json:"enqueued"`
	Processed      uint64  `json:"processed"`
	Dropped        uint64  `json:"dropped"`
	Pending        uint64  `json:"pending"`
	BufferSize     uint64  `json:"buffer_size"`
	AvgWaitTimeMs  float64 `json:"avg_wait_time_ms"`
	BufferUsagePct float64 `json:"buffer_usage_pct"`
}

// NewCommandQueue builds a queue draining into dispatcher. Call Start
// before expecting commands to apply; Enqueue works either way.
func NewCommandQueue(dispatcher *Dispatcher, config QueueConfig) *CommandQueue {
	size := config.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	return &CommandQueue{
		buf:  make(chan Command, size),
		disp: dispatcher,
		quit: make(chan struct{}),
	}
}

// Start launches the drain worker. Calling it twice is a no-op.
func (q *CommandQueue) Start() {
	if q.running.Swap(true) {
		return
	}
	log.Printf("🚀 Command queue up, buffer %d", cap(q.buf))
	q.wg.Add(1)
	go q.drain()
}

// Stop shuts the worker down once it has applied everything already
// buffered. A queue cannot be restarted after Stop.
func (q *CommandQueue) Stop() {
	if !q.running.Swap(false) {
		return
	}
	close(q.quit)
	q.wg.Wait()
	log.Printf("📊 Command queue stopped - %d enqueued, %d applied, %d dropped",
		q.enq.Load(), q.proc.Load(), q.drop.Load())
}

// Enqueue stamps cmd with its arrival time and buffers it without
// blocking. A full buffer drops the command and returns false.
func (q *CommandQueue) Enqueue(cmd Command) bool {
	cmd.ReceivedAt = time.Now()
	select {
	case q.buf <- cmd:
		q.enq.Add(1)
		return true
	default:
	}
	if n := q.drop.Add(1); n%100 == 1 {
		log.Printf("⚠️ Command buffer full, dropping %s from %s (%d dropped)",
			cmd.Op, cmd.Source, n)
	}
	return false
}

// drain is the single consumer. On quit it finishes whatever is
// already buffered, then exits.
func (q *CommandQueue) drain() {
	defer q.wg.Done()
	for {
		select {
		case <-q.quit:
			for {
				select {
				case cmd := <-q.buf:
					q.apply(cmd)
				default:
					return
				}
			}
		case cmd := <-q.buf:
			q.apply(cmd)
		}
	}
}

// apply hands one command to the dispatcher and folds its queue wait
// into the moving average.
func (q *CommandQueue) apply(cmd Command) {
	wait := time.Since(cmd.ReceivedAt)
	q.waitEMA.Store((q.waitEMA.Load()*9 + wait.Nanoseconds()) / 10)
	if wait > 100*time.Millisecond {
		log.Printf("⚠️ %s from %s sat %.1fms in the queue",
			cmd.Op, cmd.Source, float64(wait.Microseconds())/1000)
	}
	q.disp.Apply(cmd)
	q.proc.Add(1)
}

// Stats reports counters and current buffer occupancy.
func (q *CommandQueue) Stats() QueueStats {
	pending := len(q.buf)
	return QueueStats{
		Enqueued:       q.enq.Load(),
		Processed:      q.proc.Load(),
		Dropped:        q.drop.Load(),
		Pending:        uint64(pending),
		BufferSize:     uint64(cap(q.buf)),
		AvgWaitTimeMs:  float64(q.waitEMA.Load()) / float64(time.Millisecond),
		BufferUsagePct: float64(pending) / float64(cap(q.buf)) * 100,
	}
}
