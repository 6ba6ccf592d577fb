package futures

// Never returns an Inert leaf future that, once run, never settles on its
// own; it only ever leaves Pending via cancellation. The optional
// onCancelled hook fires (on a later tick) when that happens, in addition
// to any onCancelled registered via [Future.Run].
func (l *Loop) Never(onCancelled Func) *Future {
	f := l.newFuture(kindNever)
	f.cancelHook = onCancelled
	return f
}

// Resolve returns an Inert leaf future that, once run, resolves to v on the
// immediately following tick: scheduled, never synchronous, but guaranteed
// to be that future's very next settlement with no intervening event
// dependency.
func (l *Loop) Resolve(v Value) *Future {
	f := l.newFuture(kindResolve)
	f.payload = v
	return f
}

// Reject is the rejecting counterpart of [Loop.Resolve].
func (l *Loop) Reject(v Value) *Future {
	f := l.newFuture(kindReject)
	f.payload = v
	return f
}

// OnIdle returns an Inert leaf future whose job runs only once the loop's
// task queue is empty while futures remain pending. The job's return value
// resolves the future; a job error rejects it. Cancelling the future before
// the loop goes idle discards the job.
//
// OnIdle fails with a [TypeError] if job is nil.
func (l *Loop) OnIdle(job Func) (*Future, error) {
	if job == nil {
		return nil, newTypeError("fut_on_idle requires a function")
	}
	f := l.newFuture(kindOnIdle)
	f.fn = job
	return f, nil
}

// NewLeaf returns an Inert leaf future for a native provider (timer,
// socket, ...). When the future is armed, start is invoked with it so the
// provider can register with whatever outside mechanism drives settlement;
// the provider later calls [Future.Complete] or [Future.Fail] exactly once,
// from any goroutine. The optional onCancelled hook fires if the future is
// cancelled instead.
func (l *Loop) NewLeaf(start func(*Future), onCancelled Func) *Future {
	f := l.newFuture(kindExternal)
	f.start = start
	f.cancelHook = onCancelled
	return f
}
