package futures

// futureKind discriminates leaf futures from combinators, and selects the
// settlement reducer for the latter. It is a closed set; adding a kind
// means extending the childSettled dispatch.
type futureKind uint8

const (
	kindNever futureKind = iota
	kindResolve
	kindReject
	kindOnIdle
	kindExternal
	kindMap
	kindMapErr
	kindChain
	kindChainErr
	kindJoin
	kindJoinAll
	kindSelect
	kindSelectAll
)

// leaf returns true for kinds with no children.
func (k futureKind) leaf() bool {
	return k <= kindExternal
}

// String returns the kind's name as spelled in the language surface.
func (k futureKind) String() string {
	switch k {
	case kindNever:
		return "never"
	case kindResolve:
		return "resolve"
	case kindReject:
		return "reject"
	case kindOnIdle:
		return "on_idle"
	case kindExternal:
		return "external"
	case kindMap:
		return "map"
	case kindMapErr:
		return "map_err"
	case kindChain:
		return "chain"
	case kindChainErr:
		return "chain_err"
	case kindJoin:
		return "join"
	case kindJoinAll:
		return "join_all"
	case kindSelect:
		return "select"
	case kindSelectAll:
		return "select_all"
	default:
		return "unknown"
	}
}

// Future is the handle to an asynchronous computation progressing through
// the lifecycle state machine (see [State]). A future is created Inert by a
// leaf constructor or combinator, becomes Staged when consumed as a
// combinator child, Pending once armed by [Future.Run], and finally
// Resolved, Rejected or Cancelled.
//
// A future consumed by a combinator transfers lifecycle control to the
// resulting parent; running or cancelling it directly afterwards fails with
// a [FutureStateError].
//
// Futures are not safe for concurrent use; all methods except
// [Future.Complete] and [Future.Fail] must be called on the loop goroutine.
type Future struct {
	loop *Loop

	// fn is the combinator callback (map/map_err/chain/chain_err), or the
	// idle job for on_idle leaves.
	fn Func
	// start is invoked when an external leaf is armed, registering it with
	// whatever outside mechanism drives its settlement.
	start func(*Future)
	// cancelHook is the constructor-registered cancellation callback of
	// never/external leaves, invoked in addition to any onCancelled
	// registered via Run.
	cancelHook Func

	// payload is the predetermined settlement value of resolve/reject
	// leaves.
	payload Value
	// value is the settlement payload, set exactly once on the transition
	// into Resolved or Rejected.
	value Value

	children []*Future
	parent   *Future

	// Continuations registered via Run. Invoked on a strictly later tick
	// than the transition that triggers them, never inline.
	onResolved  Func
	onRejected  Func
	onCancelled Func

	// results collects child values for join/join_all, indexed by child
	// order.
	results []Value

	id uint64
	// order is this future's index within its parent's children.
	order int
	// unresolved counts children that have not yet resolved (join kinds).
	unresolved int
	// cancelledKids counts children that ended cancelled.
	cancelledKids int

	kind  futureKind
	state State
	// adopted is set once a chain/chain_err callback's returned future has
	// been wired in as the settlement source.
	adopted bool
}

// newFuture allocates an Inert future against the loop.
func (l *Loop) newFuture(kind futureKind) *Future {
	l.nextID++
	if l.metrics != nil {
		l.metrics.FuturesCreated++
	}
	return &Future{
		loop: l,
		id:   l.nextID,
		kind: kind,
	}
}

// ID returns the loop-unique identifier of the future.
func (f *Future) ID() uint64 { return f.id }

// State returns the current lifecycle state.
func (f *Future) State() State { return f.state }

// Value returns the settlement payload and true once the future is Resolved
// or Rejected. Cancelled futures carry no payload.
func (f *Future) Value() (Value, bool) {
	if f.state.Settled() {
		return f.value, true
	}
	return Value{}, false
}

// Run arms the future: registers the continuations, transitions Inert →
// Pending, recursively arms every Staged child, and enqueues the leaf
// descendants with the loop. Callbacks fire on loop ticks strictly after
// the settling transition, never during Run itself.
//
// Each callback may be nil. onResolved and onRejected receive the
// settlement value; onCancelled is invoked without arguments.
//
// Run fails with a [FutureStateError], mutating nothing, unless the future
// is Inert.
func (f *Future) Run(onResolved, onRejected, onCancelled Func) error {
	if f == nil {
		return newTypeError("fut_run requires a future")
	}
	if f.state != Inert {
		return newStateError("run", f.state)
	}

	f.onResolved = onResolved
	f.onRejected = onRejected
	f.onCancelled = onCancelled
	f.arm()

	f.loop.log.Debug().
		Uint64("loop", f.loop.id).
		Uint64("future", f.id).
		Stringer("kind", f.kind).
		Log("future running")
	return nil
}

// Cancel transitions a Pending future to Cancelled, invoking any registered
// onCancelled on a later tick and recursively cancelling all children still
// Pending. Cancelling a done future is a silent no-op. Cancelling an Inert
// or Staged future fails with a [FutureStateError] and changes nothing; the
// future may become Pending later and remains cancellable then.
func (f *Future) Cancel() error {
	if f == nil {
		return newTypeError("fut_cancel requires a future")
	}
	switch f.state {
	case Pending:
		f.cancel()
		return nil
	case Resolved, Rejected, Cancelled:
		return nil
	default: // Inert, Staged
		return newStateError("cancel", f.state)
	}
}

// arm transitions this future (Inert root or Staged child) to Pending and
// schedules whatever drives its settlement: deterministic leaves enqueue
// their settling task, idle leaves register an idle job, external leaves
// invoke their registration hook, and children are armed depth-first in
// construction order so leaf tasks enqueue deterministically.
func (f *Future) arm() {
	f.state = Pending
	f.loop.pending++

	switch f.kind {
	case kindResolve:
		f.loop.Enqueue(func() { f.settle(Resolved, f.payload) })
	case kindReject:
		f.loop.Enqueue(func() { f.settle(Rejected, f.payload) })
	case kindOnIdle:
		f.loop.enqueueIdle(func() { f.runIdleJob() })
	case kindExternal:
		if f.start != nil {
			f.start(f)
		}
	case kindNever:
		// Leaves Pending only via cancellation.
	case kindJoinAll:
		if len(f.children) == 0 {
			// Nothing to wait on: resolves to an empty sequence on the
			// next tick.
			f.loop.Enqueue(func() { f.settle(Resolved, Arr()) })
		}
	}

	for _, c := range f.children {
		if c.state == Staged {
			c.arm()
		}
	}
}

// settle performs the Pending → Resolved/Rejected transition. The value is
// stored exactly once; registered continuations are enqueued, never invoked
// inline, but the parent's reducer runs synchronously within the transition
// so that a winning child cancels its still-pending siblings before their
// already-queued settle tasks run. Calls on a non-Pending future are
// dropped, which is what makes done states absorbing and illegal re-entrant
// transitions harmless.
func (f *Future) settle(to State, v Value) {
	if f.state != Pending {
		return
	}
	f.state = to
	f.value = v
	f.loop.pending--
	if f.loop.metrics != nil {
		f.loop.metrics.FuturesSettled++
	}

	f.loop.log.Debug().
		Uint64("loop", f.loop.id).
		Uint64("future", f.id).
		Stringer("kind", f.kind).
		Stringer("state", to).
		Log("future settled")

	var cb Func
	if to == Resolved {
		cb = f.onResolved
	} else {
		cb = f.onRejected
	}
	if cb != nil {
		f.loop.Enqueue(func() { f.invokeContinuation(cb, v) })
	}

	if p := f.parent; p != nil && p.state == Pending {
		p.childSettled(f)
	}
}

// cancel performs the Pending → Cancelled transition, schedules the
// cancellation callbacks, cancels all still-Pending children, and folds the
// cancellation into a still-Pending parent's reducer synchronously. Only
// the callbacks are deferred to later ticks.
func (f *Future) cancel() {
	if f.state != Pending {
		return
	}
	f.state = Cancelled
	f.loop.pending--
	if f.loop.metrics != nil {
		f.loop.metrics.FuturesCancelled++
	}

	f.loop.log.Debug().
		Uint64("loop", f.loop.id).
		Uint64("future", f.id).
		Stringer("kind", f.kind).
		Log("future cancelled")

	if hook := f.cancelHook; hook != nil {
		f.loop.Enqueue(func() { f.invokeContinuation(hook) })
	}
	if cb := f.onCancelled; cb != nil {
		f.loop.Enqueue(func() { f.invokeContinuation(cb) })
	}

	for _, c := range f.children {
		if c.state == Pending {
			c.cancel()
		}
	}

	if p := f.parent; p != nil && p.state == Pending {
		p.childSettled(f)
	}
}

// invokeContinuation applies a registered callback. Failures (including
// recovered panics) are the evaluator's concern; the core only guarantees
// the loop keeps running, so they are handed to the panic handler or
// logged.
func (f *Future) invokeContinuation(cb Func, args ...Value) {
	if _, err := f.loop.callFunc(cb, args...); err != nil {
		if f.loop.panicHandler != nil {
			f.loop.panicHandler(err)
			return
		}
		f.loop.log.Err().
			Uint64("loop", f.loop.id).
			Uint64("future", f.id).
			Err(err).
			Log("continuation failed")
	}
}

// runIdleJob executes an on_idle leaf's job, settling the future with the
// job's outcome. The job is skipped if the future was cancelled before the
// loop went idle.
func (f *Future) runIdleJob() {
	if f.state != Pending {
		return
	}
	v, err := f.loop.callFunc(f.fn)
	if err != nil {
		f.settle(Rejected, rejectionValue(err))
		return
	}
	f.settle(Resolved, v)
}

// Complete settles an external leaf future with a value, from any
// goroutine. This is the settlement entry point for native leaf providers:
// the transition is marshalled onto the loop and re-enters the normal
// propagation logic. Later calls, and calls after cancellation, are
// absorbed by the state guard.
//
// Complete fails with a [TypeError] if the future is not an external leaf.
func (f *Future) Complete(v Value) error {
	if f == nil || f.kind != kindExternal {
		return newTypeError("complete requires an external leaf future")
	}
	f.loop.Submit(func() { f.settle(Resolved, v) })
	return nil
}

// Fail rejects an external leaf future with a value, from any goroutine.
// See [Future.Complete] for the settlement contract.
func (f *Future) Fail(v Value) error {
	if f == nil || f.kind != kindExternal {
		return newTypeError("fail requires an external leaf future")
	}
	f.loop.Submit(func() { f.settle(Rejected, v) })
	return nil
}
