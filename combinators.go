package futures

// Combinators build a parent future wired to one or more child futures.
// Construction is atomic validate-then-construct: every argument is checked
// before any child is consumed, so a failed call leaves every future
// untouched. Consumed children move Inert → Staged immediately, at
// construction, transferring lifecycle control to the parent.
//
// Settlement propagates upward through the childSettled reducer, dispatched
// on the parent's kind. Downward propagation is uniform for every
// combinator: arming the parent arms all children, cancelling the parent
// cancels all still-Pending children.

// Map returns a future that resolves fn(x) when fut resolves x, rejects the
// same x when fut rejects, and is cancelled when fut is cancelled.
func (l *Loop) Map(fut *Future, fn Func) (*Future, error) {
	if fn == nil {
		return nil, newTypeError("fut_map requires a function")
	}
	return l.newCombinator(kindMap, fn, fut)
}

// MapErr returns a future that resolves x when fut resolves x, rejects
// fn(x) when fut rejects x, and is cancelled when fut is cancelled.
func (l *Loop) MapErr(fut *Future, fn Func) (*Future, error) {
	if fn == nil {
		return nil, newTypeError("fut_map_err requires a function")
	}
	return l.newCombinator(kindMapErr, fn, fut)
}

// Chain returns a future that, when fut resolves x, applies fn(x) to obtain
// a continuation future g (a non-future result y is wrapped as resolve(y)),
// runs g immediately, and settles exactly as g settles. A rejection or
// cancellation of fut propagates unchanged.
func (l *Loop) Chain(fut *Future, fn Func) (*Future, error) {
	if fn == nil {
		return nil, newTypeError("fut_chain requires a function")
	}
	return l.newCombinator(kindChain, fn, fut)
}

// ChainErr is the rejection-side counterpart of [Loop.Chain]: it resolves x
// when fut resolves x, and on rejection applies fn to obtain the
// continuation (a non-future result y is wrapped as reject(y)).
func (l *Loop) ChainErr(fut *Future, fn Func) (*Future, error) {
	if fn == nil {
		return nil, newTypeError("fut_chain_err requires a function")
	}
	return l.newCombinator(kindChainErr, fn, fut)
}

// Join returns a future that resolves [x, y] only when both children
// resolve. The first rejection wins: the parent rejects with that value and
// the other child is cancelled. If either child is cancelled, the parent is
// cancelled.
func (l *Loop) Join(a, b *Future) (*Future, error) {
	return l.newCombinator(kindJoin, nil, a, b)
}

// JoinAll returns a future that resolves the ordered array of all resolved
// child values, only when all children resolve. The first rejection wins,
// cancelling all remaining children. The parent is cancelled only once all
// children end cancelled. An empty input resolves to an empty array on the
// next tick.
func (l *Loop) JoinAll(children []*Future) (*Future, error) {
	return l.newCombinator(kindJoinAll, nil, children...)
}

// Select returns a future that settles exactly as whichever child settles
// first, resolve or reject; the loser is cancelled. The parent is cancelled
// only if both children end cancelled. Ties are impossible by construction:
// settlement transitions are totally ordered by the loop's FIFO queue, and
// children armed in argument order settle in argument order when otherwise
// simultaneous.
func (l *Loop) Select(a, b *Future) (*Future, error) {
	return l.newCombinator(kindSelect, nil, a, b)
}

// SelectAll generalizes [Loop.Select] to an array: the parent settles as
// the first settling element and all others are cancelled. The parent is
// cancelled only if all elements end cancelled. An empty input never
// settles.
func (l *Loop) SelectAll(children []*Future) (*Future, error) {
	return l.newCombinator(kindSelectAll, nil, children...)
}

// newCombinator validates and then consumes the children. No mutation
// happens until every argument has been checked.
func (l *Loop) newCombinator(kind futureKind, fn Func, children ...*Future) (*Future, error) {
	for i, c := range children {
		if c == nil {
			return nil, newTypeError("fut_%s requires futures, got nil argument %d", kind, i)
		}
		if c.loop != l {
			return nil, newTypeError("fut_%s argument %d belongs to a different loop", kind, i)
		}
		if c.state != Inert || c.parent != nil {
			return nil, newStateError("consume", c.state)
		}
		for _, prev := range children[:i] {
			if prev == c {
				// Same instance at two composition sites.
				return nil, newStateError("consume", Staged)
			}
		}
	}

	f := l.newFuture(kind)
	f.fn = fn
	for _, c := range children {
		f.claim(c)
	}
	if kind == kindJoin || kind == kindJoinAll {
		f.results = make([]Value, len(children))
		f.unresolved = len(children)
	}
	return f, nil
}

// claim consumes an Inert child, staging it under this parent.
func (p *Future) claim(c *Future) {
	c.parent = p
	c.order = len(p.children)
	c.state = Staged
	p.children = append(p.children, c)
}

// childSettled is the settlement reducer: it folds one child's terminal
// transition into the parent's state, per the parent's kind. It runs
// synchronously within the child's transition, so "first settle wins" races
// are decided by the FIFO order of the settle tasks: the first child to
// settle drives the reducer, which cancels still-pending siblings before
// their queued settle tasks run (those are then absorbed by the state
// guard). A parent that is no longer Pending absorbs the notification.
func (p *Future) childSettled(c *Future) {
	if p.state != Pending {
		return
	}

	switch p.kind {
	case kindMap:
		switch c.state {
		case Resolved:
			v, err := p.loop.callFunc(p.fn, c.value)
			if err != nil {
				p.settle(Rejected, rejectionValue(err))
			} else {
				p.settle(Resolved, v)
			}
		case Rejected:
			p.settle(Rejected, c.value)
		case Cancelled:
			p.cancel()
		}

	case kindMapErr:
		switch c.state {
		case Resolved:
			p.settle(Resolved, c.value)
		case Rejected:
			v, err := p.loop.callFunc(p.fn, c.value)
			if err != nil {
				p.settle(Rejected, rejectionValue(err))
			} else {
				p.settle(Rejected, v)
			}
		case Cancelled:
			p.cancel()
		}

	case kindChain:
		if p.adopted {
			p.settleAs(c)
			return
		}
		switch c.state {
		case Resolved:
			p.adoptContinuation(c.value, false)
		case Rejected:
			p.settle(Rejected, c.value)
		case Cancelled:
			p.cancel()
		}

	case kindChainErr:
		if p.adopted {
			p.settleAs(c)
			return
		}
		switch c.state {
		case Resolved:
			p.settle(Resolved, c.value)
		case Rejected:
			p.adoptContinuation(c.value, true)
		case Cancelled:
			p.cancel()
		}

	case kindJoin, kindJoinAll:
		switch c.state {
		case Resolved:
			p.results[c.order] = c.value
			p.unresolved--
			if p.unresolved == 0 {
				p.settle(Resolved, Arr(p.results...))
			}
		case Rejected:
			p.settle(Rejected, c.value)
			p.cancelChildren()
		case Cancelled:
			if p.kind == kindJoin {
				p.cancel()
				return
			}
			p.cancelledKids++
			if p.cancelledKids == len(p.children) {
				p.cancel()
			}
		}

	case kindSelect, kindSelectAll:
		switch c.state {
		case Resolved, Rejected:
			p.settle(c.state, c.value)
			p.cancelChildren()
		case Cancelled:
			p.cancelledKids++
			if p.cancelledKids == len(p.children) {
				p.cancel()
			}
		}
	}
}

// settleAs mirrors a child's terminal state onto the parent.
func (p *Future) settleAs(c *Future) {
	switch c.state {
	case Resolved:
		p.settle(Resolved, c.value)
	case Rejected:
		p.settle(Rejected, c.value)
	case Cancelled:
		p.cancel()
	}
}

// cancelChildren cancels every still-Pending child. Used after the parent
// settles off one child's outcome, so upward notifications from the
// cancelled losers are absorbed by the parent's terminal state.
func (p *Future) cancelChildren() {
	for _, c := range p.children {
		if c.state == Pending {
			c.cancel()
		}
	}
}

// adoptContinuation applies a chain/chain_err callback to the settling
// value and wires the resulting future in as the parent's settlement
// source, running it immediately. Non-future results are wrapped: on the
// resolve side as a resolve leaf, on the reject side as a reject leaf. A
// callback error, or a returned future this parent cannot own, rejects the
// parent.
func (p *Future) adoptContinuation(x Value, errSide bool) {
	out, err := p.loop.callFunc(p.fn, x)
	if err != nil {
		p.settle(Rejected, rejectionValue(err))
		return
	}

	g, ok := out.Future()
	if !ok {
		if errSide {
			g = p.loop.Reject(out)
		} else {
			g = p.loop.Resolve(out)
		}
	} else if g == nil || g.state != Inert || g.parent != nil {
		p.settle(Rejected, Str("continuation callback returned a non-inert future"))
		return
	} else if g.loop != p.loop {
		p.settle(Rejected, Str("continuation callback returned a future from a different loop"))
		return
	}

	p.claim(g)
	p.adopted = true
	g.arm()
}
