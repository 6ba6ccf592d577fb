package futures

// Intrinsic is an entry in the language's built-in function table. Each
// intrinsic performs the dynamic tag checks of the public contract (raising
// [*TypeError] before any state check or mutation) and then delegates to
// the typed API.
type Intrinsic func(args ...Value) (Value, error)

// Intrinsics returns the future core's contribution to the language's
// intrinsic function table, keyed by surface name. The evaluator registers
// these alongside the rest of the standard library; errors returned here
// are surfaced to the user per language semantics.
func (l *Loop) Intrinsics() map[string]Intrinsic {
	return map[string]Intrinsic{
		"fut_run":        l.intrinsicRun,
		"fut_cancel":     l.intrinsicCancel,
		"fut_never":      l.intrinsicNever,
		"fut_resolve":    l.intrinsicResolve,
		"fut_reject":     l.intrinsicReject,
		"fut_on_idle":    l.intrinsicOnIdle,
		"fut_map":        l.combinator1("fut_map", l.Map),
		"fut_map_err":    l.combinator1("fut_map_err", l.MapErr),
		"fut_chain":      l.combinator1("fut_chain", l.Chain),
		"fut_chain_err":  l.combinator1("fut_chain_err", l.ChainErr),
		"fut_join":       l.combinator2("fut_join", l.Join),
		"fut_select":     l.combinator2("fut_select", l.Select),
		"fut_join_all":   l.combinatorN("fut_join_all", l.JoinAll),
		"fut_select_all": l.combinatorN("fut_select_all", l.SelectAll),
	}
}

func (l *Loop) intrinsicRun(args ...Value) (Value, error) {
	if err := arity("fut_run", args, 1, 4); err != nil {
		return Value{}, err
	}
	fut, err := futureArg("fut_run", args, 0)
	if err != nil {
		return Value{}, err
	}
	onResolved, err := optFuncArg("fut_run", args, 1)
	if err != nil {
		return Value{}, err
	}
	onRejected, err := optFuncArg("fut_run", args, 2)
	if err != nil {
		return Value{}, err
	}
	onCancelled, err := optFuncArg("fut_run", args, 3)
	if err != nil {
		return Value{}, err
	}
	if err := fut.Run(onResolved, onRejected, onCancelled); err != nil {
		return Value{}, err
	}
	return args[0], nil
}

func (l *Loop) intrinsicCancel(args ...Value) (Value, error) {
	if err := arity("fut_cancel", args, 1, 1); err != nil {
		return Value{}, err
	}
	fut, err := futureArg("fut_cancel", args, 0)
	if err != nil {
		return Value{}, err
	}
	if err := fut.Cancel(); err != nil {
		return Value{}, err
	}
	return Value{}, nil
}

func (l *Loop) intrinsicNever(args ...Value) (Value, error) {
	if err := arity("fut_never", args, 0, 1); err != nil {
		return Value{}, err
	}
	onCancelled, err := optFuncArg("fut_never", args, 0)
	if err != nil {
		return Value{}, err
	}
	return FutureValue(l.Never(onCancelled)), nil
}

func (l *Loop) intrinsicResolve(args ...Value) (Value, error) {
	if err := arity("fut_resolve", args, 1, 1); err != nil {
		return Value{}, err
	}
	return FutureValue(l.Resolve(args[0])), nil
}

func (l *Loop) intrinsicReject(args ...Value) (Value, error) {
	if err := arity("fut_reject", args, 1, 1); err != nil {
		return Value{}, err
	}
	return FutureValue(l.Reject(args[0])), nil
}

func (l *Loop) intrinsicOnIdle(args ...Value) (Value, error) {
	if err := arity("fut_on_idle", args, 1, 1); err != nil {
		return Value{}, err
	}
	job, err := funcArg("fut_on_idle", args, 0)
	if err != nil {
		return Value{}, err
	}
	f, err := l.OnIdle(job)
	if err != nil {
		return Value{}, err
	}
	return FutureValue(f), nil
}

// combinator1 adapts single-child combinators (map, map_err, chain,
// chain_err) to the intrinsic calling convention.
func (l *Loop) combinator1(name string, build func(*Future, Func) (*Future, error)) Intrinsic {
	return func(args ...Value) (Value, error) {
		if err := arity(name, args, 2, 2); err != nil {
			return Value{}, err
		}
		fut, err := futureArg(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		fn, err := funcArg(name, args, 1)
		if err != nil {
			return Value{}, err
		}
		f, err := build(fut, fn)
		if err != nil {
			return Value{}, err
		}
		return FutureValue(f), nil
	}
}

// combinator2 adapts pair combinators (join, select).
func (l *Loop) combinator2(name string, build func(*Future, *Future) (*Future, error)) Intrinsic {
	return func(args ...Value) (Value, error) {
		if err := arity(name, args, 2, 2); err != nil {
			return Value{}, err
		}
		a, err := futureArg(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		b, err := futureArg(name, args, 1)
		if err != nil {
			return Value{}, err
		}
		f, err := build(a, b)
		if err != nil {
			return Value{}, err
		}
		return FutureValue(f), nil
	}
}

// combinatorN adapts array combinators (join_all, select_all).
func (l *Loop) combinatorN(name string, build func([]*Future) (*Future, error)) Intrinsic {
	return func(args ...Value) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return Value{}, err
		}
		children, err := futureArrayArg(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		f, err := build(children)
		if err != nil {
			return Value{}, err
		}
		return FutureValue(f), nil
	}
}

func arity(name string, args []Value, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return newTypeError("%s expects %d argument(s), got %d", name, min, len(args))
		}
		return newTypeError("%s expects %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}

func futureArg(name string, args []Value, i int) (*Future, error) {
	f, ok := args[i].Future()
	if !ok {
		return nil, newTypeError("%s argument %d must be a future, got %s", name, i+1, args[i].Kind())
	}
	return f, nil
}

func funcArg(name string, args []Value, i int) (Func, error) {
	fn, ok := args[i].Func()
	if !ok {
		return nil, newTypeError("%s argument %d must be a function, got %s", name, i+1, args[i].Kind())
	}
	return fn, nil
}

// optFuncArg accepts a function, nil, or a missing trailing argument.
func optFuncArg(name string, args []Value, i int) (Func, error) {
	if i >= len(args) || args[i].IsNil() {
		return nil, nil
	}
	return funcArg(name, args, i)
}

func futureArrayArg(name string, args []Value, i int) ([]*Future, error) {
	items, ok := args[i].Arr()
	if !ok {
		return nil, newTypeError("%s argument %d must be an array, got %s", name, i+1, args[i].Kind())
	}
	children := make([]*Future, len(items))
	for j, item := range items {
		f, ok := item.Future()
		if !ok {
			return nil, newTypeError("%s argument %d element %d must be a future, got %s", name, i+1, j, item.Kind())
		}
		children[j] = f
	}
	return children, nil
}
