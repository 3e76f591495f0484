package game

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize      = 1024                   // ring capacity, power of two
	MaxEventsPerSec      = 10000                  // global emit ceiling
	MaxEventsPerSource   = 100                    // per-source emit ceiling
	BatchFlushSize       = 64                     // events per disk write
	BatchFlushInterval   = 100 * time.Millisecond // writer wakeup period
	SourceLimiterCleanup = 5 * time.Minute        // idle source gate lifetime
)

// EventLog records every gameplay event as newline-delimited JSON for
// replay and debugging. Emit never blocks the tick: events land in a
// fixed ring and a writer goroutine drains them to disk in batches.
// When producers outrun the writer the oldest entries are overwritten
// and counted as dropped.
//
// Events raised by network commands carry a source ID and pass a
// per-source gate, so one noisy client cannot crowd engine events out
// of the log.
type EventLog struct {
	ring [EventBufferSize]Event
	head atomic.Uint64 // producer position
	tail atomic.Uint64 // writer position

	global  *rate.Limiter
	sources sync.Map // source -> *srcGate

	wg      sync.WaitGroup
	done    chan struct{}
	once    sync.Once
	running atomic.Bool

	path   string
	file   *os.File
	fileMu sync.Mutex

	dropped atomic.Uint64
	total   atomic.Uint64
}

// srcGate is one per-source limiter plus its last use, for the sweep.
type srcGate struct {
	lim      *rate.Limiter
	lastUsed atomic.Int64 // unix nanos
}

// NewEventLog builds a log that is inert until Start.
func NewEventLog() *EventLog {
	return &EventLog{
		global: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		done:   make(chan struct{}),
	}
}

// Start opens the output file (none if path is empty, counters still
// run) and launches the writer goroutine.
func (el *EventLog) Start(path string) error {
	if el.running.Load() {
		return nil
	}

	el.path = path
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = f
	}

	el.running.Store(true)
	el.wg.Add(1)
	go el.writerLoop()
	return nil
}

// Stop flushes whatever is pending and closes the file. Idempotent.
func (el *EventLog) Stop() {
	el.once.Do(func() {
		el.running.Store(false)
		close(el.done)
		el.wg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit files an event into the ring. Returns false when the log is not
// running or a rate gate refused the event.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.global.Allow() {
		el.dropped.Add(1)
		return false
	}

	if event.Source != "" && !el.gateFor(event.Source).Allow() {
		el.dropped.Add(1)
		return false
	}

	head := el.head.Add(1)
	if head-el.tail.Load() >= EventBufferSize {
		// Ring full: sacrifice the oldest unwritten event
		el.tail.Add(1)
		el.dropped.Add(1)
	}

	event.Sequence = head
	el.ring[head%EventBufferSize] = event

	el.total.Add(1)
	return true
}

// EmitSimple builds and files an event in one call.
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, source string, payload interface{}) bool {
	return el.Emit(NewEvent(eventType, tickNum, source, payload))
}

// EmitAll files a tick's worth of already-built events, preserving order.
func (el *EventLog) EmitAll(events []Event) {
	for _, ev := range events {
		el.Emit(ev)
	}
}

func (el *EventLog) gateFor(source string) *rate.Limiter {
	now := time.Now().UnixNano()

	if v, ok := el.sources.Load(source); ok {
		g := v.(*srcGate)
		g.lastUsed.Store(now)
		return g.lim
	}

	g := &srcGate{lim: rate.NewLimiter(MaxEventsPerSource, MaxEventsPerSource/10)}
	g.lastUsed.Store(now)
	v, _ := el.sources.LoadOrStore(source, g)
	return v.(*srcGate).lim
}

// writerLoop drains the ring to disk on a timer and sweeps idle source
// gates. A final drain runs on shutdown so short runs lose nothing.
func (el *EventLog) writerLoop() {
	defer el.wg.Done()

	flush := time.NewTicker(BatchFlushInterval)
	defer flush.Stop()
	sweep := time.NewTicker(SourceLimiterCleanup)
	defer sweep.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.done:
			if batch = el.drain(batch[:0]); len(batch) > 0 {
				el.writeBatch(batch)
			}
			return

		case <-flush.C:
			if batch = el.drain(batch[:0]); len(batch) > 0 {
				el.writeBatch(batch)
			}

		case <-sweep.C:
			el.sweepGates()
		}
	}
}

// drain copies up to one batch of pending events out of the ring and
// advances the writer position.
func (el *EventLog) drain(batch []Event) []Event {
	head := el.head.Load()
	tail := el.tail.Load()

	for i := tail; i < head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, el.ring[i%EventBufferSize])
	}
	if len(batch) > 0 {
		el.tail.Add(uint64(len(batch)))
	}
	return batch
}

// writeBatch appends one JSON object per line. Marshal failures skip
// the event; the log is diagnostic, not transactional.
func (el *EventLog) writeBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}

	enc := json.NewEncoder(el.file)
	for i := range batch {
		enc.Encode(&batch[i])
	}
}

// sweepGates forgets sources that went quiet a full cleanup period ago.
func (el *EventLog) sweepGates() {
	cutoff := time.Now().Add(-SourceLimiterCleanup).UnixNano()
	el.sources.Range(func(key, v interface{}) bool {
		if v.(*srcGate).lastUsed.Load() < cutoff {
			el.sources.Delete(key)
		}
		return true
	})
}

// GetStats returns counters for the stats endpoint.
func (el *EventLog) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"total":   el.total.Load(),
		"dropped": el.dropped.Load(),
		"pending": el.head.Load() - el.tail.Load(),
		"running": el.running.Load(),
	}
}

// GetDroppedCount returns how many events were refused or overwritten.
func (el *EventLog) GetDroppedCount() uint64 {
	return el.dropped.Load()
}

// GetTotalCount returns how many events entered the ring.
func (el *EventLog) GetTotalCount() uint64 {
	return el.total.Load()
}
