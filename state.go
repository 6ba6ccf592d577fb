package futures

// State represents the lifecycle state of a [Future].
//
// State Machine:
//
//	Inert (0) → Staged (1)       [consumed by a combinator]
//	Inert (0) → Pending (2)      [Future.Run on a root]
//	Staged (1) → Pending (2)     [recursive arming via the parent]
//	Pending (2) → Resolved (3)   [settlement]
//	Pending (2) → Rejected (4)   [settlement]
//	Pending (2) → Cancelled (5)  [Future.Cancel, or cancellation propagation]
//
// Resolved, Rejected and Cancelled are terminal ("done"); Resolved and
// Rejected are additionally "settled" (they carry a value). Transitions are
// monotonic, and no operation ever moves a future backward.
type State uint8

const (
	// Inert indicates the future has been constructed but not yet run, and
	// has not been consumed by a combinator.
	Inert State = iota
	// Staged indicates the future has been consumed as a child of a
	// combinator, and will be armed when the combinator's root is run.
	Staged
	// Pending indicates the future has been armed and is awaiting
	// settlement or cancellation.
	Pending
	// Resolved indicates the future completed successfully with a value.
	Resolved
	// Rejected indicates the future failed with a value.
	Rejected
	// Cancelled indicates the future was cancelled before settling.
	// Cancellation carries no payload.
	Cancelled
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Inert:
		return "Inert"
	case Staged:
		return "Staged"
	case Pending:
		return "Pending"
	case Resolved:
		return "Resolved"
	case Rejected:
		return "Rejected"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Settled returns true for Resolved and Rejected, the two terminal states
// that carry a settlement value.
func (s State) Settled() bool {
	return s == Resolved || s == Rejected
}

// Done returns true for the terminal states (Resolved, Rejected, Cancelled).
// A done future is absorbing: no further transition, callback registration,
// or enqueueing will ever occur for it.
func (s State) Done() bool {
	return s == Resolved || s == Rejected || s == Cancelled
}
