// Package futures implements the future/event-loop concurrency core of a
// dynamically typed, single-threaded scripting language: representation of
// in-flight asynchronous computations, their lifecycle state machine, and
// their sequential and parallel composition.
//
// # Architecture
//
// The package is built around a [Loop], a cooperative FIFO scheduler that
// executes one task per tick, and [Future], the state-machine entity
// progressing Inert → Staged/Pending → Resolved/Rejected/Cancelled (see
// [State]). Leaf constructors ([Loop.Never], [Loop.Resolve], [Loop.Reject],
// [Loop.OnIdle], [Loop.NewLeaf]) produce futures settled deterministically
// or by external events; combinators ([Loop.Map], [Loop.MapErr],
// [Loop.Chain], [Loop.ChainErr], [Loop.Join], [Loop.JoinAll],
// [Loop.Select], [Loop.SelectAll]) build parent futures whose settlement is
// reduced from their children's.
//
// A program builds a future graph, then calls [Future.Run] on the root,
// which arms the whole graph and enqueues its leaves. Settlement propagates
// upward through per-kind reducers, each producing the next tick's
// continuation callbacks.
//
// # Execution Model
//
// Execution is single-threaded and cooperative: exactly one task runs at a
// time, to completion, in FIFO enqueue order. Every callback invocation is
// deferred to a tick strictly after the transition that triggered it; no
// API ever invokes a callback synchronously. Cancellation transitions are
// synchronous within the cancel call, but the cancellation callbacks still
// fire on later ticks.
//
// The only concurrency-safe entry points are [Loop.Submit],
// [Future.Complete] and [Future.Fail], which is how native leaf providers
// (timers, sockets) inject external events into the loop. Everything else
// must run on the loop goroutine.
//
// # Language Surface
//
// [Loop.Intrinsics] exposes the core as a table of dynamically checked
// built-in functions (fut_run, fut_cancel, fut_never, fut_resolve,
// fut_reject, fut_on_idle, and the eight combinators) over the
// tagged-variant [Value] type, for registration by the evaluator.
//
// # Error Types
//
//   - [TypeError]: an argument fails its shape constraint (not a future,
//     not a function-or-nil, not an array of futures).
//   - [FutureStateError]: a future is not in the state the operation
//     requires (running a non-Inert future, cancelling an Inert or Staged
//     one).
//
// Both are raised synchronously with zero side effects: no partial wiring,
// no partial enqueue, no state mutation. Errors raised by user-supplied
// callbacks are not the core's error kinds; combinator callbacks that fail
// propagate as rejections, and continuation failures are logged without
// crashing the loop.
package futures
