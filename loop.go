package futures

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Task is a zero-argument unit of work executed by the loop. Exactly one
// task executes at a time, to completion, before the next is popped.
type Task func()

// loopIDCounter allocates process-wide loop identifiers for logging.
var loopIDCounter atomic.Uint64

// Loop is the single-threaded cooperative scheduler driving all future
// settlement. It holds a FIFO queue of runnable tasks, processed one item
// per tick, plus a secondary queue of idle jobs that only run while the
// main queue is empty but futures remain pending.
//
// All future construction and state transitions must happen on the loop
// goroutine (from within tasks, or before the loop is driven). The only
// concurrency-safe entry point is [Loop.Submit], which is how native leaf
// providers inject external events; everything else assumes single-threaded
// access and performs no locking, per the cooperative execution model.
type Loop struct {
	// Prevent copying
	_ [0]func()

	log          *logiface.Logger[logiface.Event]
	metrics      *Metrics
	panicHandler func(recovered any)

	// Main FIFO task queue. head indexes the next task to pop; the slice
	// is compacted when fully drained.
	queue []Task
	head  int

	// Idle jobs, run one per tick only when the main queue is empty.
	idle     []Task
	idleHead int

	// Ingress for cross-goroutine submission (native leaf providers).
	mu      sync.Mutex
	ingress []Task
	wake    chan struct{}

	// Count of futures currently in Pending state.
	pending int

	running   bool
	tickCount uint64
	nextID    uint64
	id        uint64
}

// New creates a Loop with the given options.
func New(opts ...LoopOption) (*Loop, error) {
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		log:          cfg.logger,
		panicHandler: cfg.panicHandler,
		wake:         make(chan struct{}, 1),
		id:           loopIDCounter.Add(1),
	}
	if cfg.metrics {
		l.metrics = &Metrics{}
	}

	l.log.Debug().
		Uint64("loop", l.id).
		Log("loop created")

	return l, nil
}

// Enqueue appends a task to the loop's FIFO queue. The task is never
// executed synchronously; it runs on a strictly later tick.
//
// Enqueue must be called from the loop goroutine (i.e. from within a task
// or continuation, or before the loop is driven). Use [Loop.Submit] from
// other goroutines.
func (l *Loop) Enqueue(task Task) {
	if task == nil {
		return
	}
	l.queue = append(l.queue, task)
	l.log.Trace().
		Uint64("loop", l.id).
		Int("depth", len(l.queue)-l.head).
		Log("task enqueued")
}

// enqueueIdle appends an idle job, run only when the main queue is empty.
func (l *Loop) enqueueIdle(task Task) {
	if task == nil {
		return
	}
	l.idle = append(l.idle, task)
}

// Submit injects a task from outside the loop goroutine. This is the entry
// point for native leaf providers (timers, I/O) whose external events drive
// settlement; the task is appended to the queue on the next tick, in
// submission order relative to other Submit calls.
func (l *Loop) Submit(task Task) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.ingress = append(l.ingress, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// drainIngress moves externally submitted tasks onto the main queue.
func (l *Loop) drainIngress() {
	l.mu.Lock()
	batch := l.ingress
	l.ingress = nil
	l.mu.Unlock()
	for _, task := range batch {
		l.queue = append(l.queue, task)
	}
}

// Step executes at most one task (one tick). It returns true if a task ran,
// false if no runnable work was available. Idle jobs are considered only
// when the main queue is empty.
//
// Step returns [ErrLoopBusy] when called from within a task executing on
// this loop.
func (l *Loop) Step() (bool, error) {
	if l.running {
		return false, ErrLoopBusy
	}
	l.running = true
	defer func() { l.running = false }()
	return l.step(), nil
}

// step pops and executes one task. Caller must hold the running flag.
func (l *Loop) step() bool {
	l.drainIngress()

	if l.head < len(l.queue) {
		task := l.queue[l.head]
		l.queue[l.head] = nil
		l.head++
		if l.head == len(l.queue) {
			l.queue = l.queue[:0]
			l.head = 0
		}
		l.tickCount++
		if l.metrics != nil {
			l.metrics.Ticks++
			l.metrics.Tasks++
		}
		l.safeExecute(task)
		return true
	}

	if l.idleHead < len(l.idle) {
		task := l.idle[l.idleHead]
		l.idle[l.idleHead] = nil
		l.idleHead++
		if l.idleHead == len(l.idle) {
			l.idle = l.idle[:0]
			l.idleHead = 0
		}
		l.tickCount++
		if l.metrics != nil {
			l.metrics.Ticks++
			l.metrics.IdleTasks++
		}
		l.safeExecute(task)
		return true
	}

	return false
}

// RunToCompletion repeatedly pops and executes one task until the queue is
// empty and no future remains pending. When the queue drains while futures
// are still pending, it blocks waiting for external submissions (native
// leaf providers); the context bounds that wait. Returns [ErrLoopStopped]
// (wrapping the context error) if ctx is cancelled first.
//
// RunToCompletion returns [ErrLoopBusy] when called from within a task
// executing on this loop.
func (l *Loop) RunToCompletion(ctx context.Context) error {
	if l.running {
		return ErrLoopBusy
	}
	l.running = true
	defer func() { l.running = false }()

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrLoopStopped, err)
		}
		if l.step() {
			continue
		}
		if l.pending == 0 {
			l.log.Debug().
				Uint64("loop", l.id).
				Uint64("ticks", l.tickCount).
				Log("loop drained")
			return nil
		}
		// Queue empty, futures still pending: only an external event can
		// make progress now.
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrLoopStopped, ctx.Err())
		case <-l.wake:
		}
	}
}

// PendingFutures returns the number of futures currently in Pending state.
func (l *Loop) PendingFutures() int {
	return l.pending
}

// Ticks returns the number of pop-and-execute cycles performed so far.
func (l *Loop) Ticks() uint64 {
	return l.tickCount
}

// safeExecute runs a task, recovering panics so a failing continuation
// cannot take down the loop. Recovered values go to the configured panic
// handler, or to the logger.
func (l *Loop) safeExecute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			if l.panicHandler != nil {
				l.panicHandler(r)
				return
			}
			l.log.Err().
				Uint64("loop", l.id).
				Err(PanicError{Value: r}).
				Log("panic in task")
		}
	}()
	task()
}

// callFunc applies an evaluator callable with panic protection, mapping a
// recovered panic onto an error so combinator reducers can treat it as a
// failure rather than crashing the loop.
func (l *Loop) callFunc(fn Func, args ...Value) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = PanicError{Value: r}
		}
	}()
	return fn(args...)
}
