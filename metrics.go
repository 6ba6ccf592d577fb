package futures

// Metrics is a snapshot of loop activity counters. Collection is opt-in via
// [WithMetrics]; all counters are maintained on the loop goroutine, so the
// snapshot is consistent when taken between ticks.
type Metrics struct {
	// Ticks is the number of pop-and-execute cycles performed.
	Ticks uint64
	// Tasks is the number of queue tasks executed, excluding idle jobs;
	// Ticks counts both.
	Tasks uint64
	// IdleTasks is the number of idle jobs executed while the queue was
	// empty but futures were still pending.
	IdleTasks uint64
	// FuturesCreated counts futures constructed against this loop.
	FuturesCreated uint64
	// FuturesSettled counts transitions into Resolved or Rejected.
	FuturesSettled uint64
	// FuturesCancelled counts transitions into Cancelled.
	FuturesCancelled uint64
}

// Metrics returns a snapshot of the loop's counters, and whether collection
// is enabled. The zero snapshot is returned when disabled.
func (l *Loop) Metrics() (Metrics, bool) {
	if l.metrics == nil {
		return Metrics{}, false
	}
	return *l.metrics, true
}
