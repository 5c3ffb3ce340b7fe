package eventbus

import (
	"sync"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"

	"plantid-bot-go/internal/platform/logging"
)

const queueSize = 1000

// AsyncEventBus dispatches events to subscribers from a fixed worker pool.
type AsyncEventBus struct {
	bus       evbus.Bus
	workerNum int
	workChan  chan asyncEvent
	logger    logging.Interface

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	pending sync.WaitGroup
	dropped atomic.Int64
}

type asyncEvent struct {
	topic string
	args  []any
}

// NewAsyncEventBus creates a stopped bus; workerNum <= 0 means 4 workers.
func NewAsyncEventBus(workerNum int, logger logging.Interface) *AsyncEventBus {
	if workerNum <= 0 {
		workerNum = 4
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &AsyncEventBus{
		bus:       evbus.New(),
		workerNum: workerNum,
		workChan:  make(chan asyncEvent, queueSize),
		logger:    logger,
	}
}

// Start launches the workers.
func (aeb *AsyncEventBus) Start() {
	for i := 0; i < aeb.workerNum; i++ {
		aeb.wg.Add(1)
		go aeb.worker()
	}
}

// Stop drains queued events and waits for the workers to exit.
func (aeb *AsyncEventBus) Stop() {
	aeb.mu.Lock()
	if aeb.closed {
		aeb.mu.Unlock()
		return
	}
	aeb.closed = true
	close(aeb.workChan)
	aeb.mu.Unlock()
	aeb.wg.Wait()
}

func (aeb *AsyncEventBus) worker() {
	defer aeb.wg.Done()
	for event := range aeb.workChan {
		aeb.dispatch(event)
	}
}

func (aeb *AsyncEventBus) dispatch(event asyncEvent) {
	defer aeb.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			aeb.logger.Error("event handler for %s panicked: %v", event.topic, r)
		}
	}()
	aeb.bus.Publish(event.topic, event.args...)
}

// publishAsync queues an event. A full queue or a stopped bus drops it.
func (aeb *AsyncEventBus) publishAsync(topic string, args ...any) bool {
	aeb.mu.RLock()
	defer aeb.mu.RUnlock()
	if aeb.closed {
		aeb.dropped.Add(1)
		return false
	}
	aeb.pending.Add(1)
	select {
	case aeb.workChan <- asyncEvent{topic: topic, args: args}:
		return true
	default:
		aeb.pending.Done()
		aeb.dropped.Add(1)
		aeb.logger.Warn("event queue full, dropping %s", topic)
		return false
	}
}

// Emit publishes ev on its own topic asynchronously.
func (aeb *AsyncEventBus) Emit(ev Event) bool {
	return aeb.publishAsync(ev.Type, ev)
}

// Subscribe registers fn for topic. fn must accept an Event.
func (aeb *AsyncEventBus) Subscribe(topic string, fn any) error {
	return aeb.bus.Subscribe(topic, fn)
}

// Flush blocks until every queued event has been handled.
func (aeb *AsyncEventBus) Flush() {
	aeb.pending.Wait()
}

// Dropped reports how many events were discarded.
func (aeb *AsyncEventBus) Dropped() int64 {
	return aeb.dropped.Load()
}
