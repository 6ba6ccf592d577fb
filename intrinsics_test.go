package futures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrinsicsTable(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	table := l.Intrinsics()
	for _, name := range []string{
		"fut_run", "fut_cancel", "fut_never", "fut_resolve", "fut_reject",
		"fut_on_idle", "fut_map", "fut_map_err", "fut_chain", "fut_chain_err",
		"fut_join", "fut_join_all", "fut_select", "fut_select_all",
	} {
		assert.Contains(t, table, name)
	}
	assert.Len(t, table, 14)
}

func TestIntrinsicArity(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	table := l.Intrinsics()

	cases := []struct {
		name string
		args []Value
	}{
		{"fut_run", nil},
		{"fut_run", []Value{FutureValue(l.Never(nil)), Nil(), Nil(), Nil(), Nil()}},
		{"fut_cancel", nil},
		{"fut_never", []Value{Nil(), Nil()}},
		{"fut_resolve", nil},
		{"fut_resolve", []Value{Int(1), Int(2)}},
		{"fut_reject", nil},
		{"fut_on_idle", nil},
		{"fut_map", []Value{FutureValue(l.Never(nil))}},
		{"fut_join", []Value{FutureValue(l.Never(nil))}},
		{"fut_join_all", nil},
		{"fut_select_all", []Value{Arr(), Arr()}},
	}
	for _, tc := range cases {
		_, err := table[tc.name](tc.args...)
		var typeErr *TypeError
		require.ErrorAs(t, err, &typeErr, "%s with %d args", tc.name, len(tc.args))
	}
}

func TestIntrinsicTypeChecks(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	table := l.Intrinsics()

	fn := FuncValue(func(...Value) (Value, error) { return Value{}, nil })

	cases := []struct {
		name string
		args []Value
	}{
		{"fut_run", []Value{Int(1)}},
		{"fut_cancel", []Value{Str("x")}},
		{"fut_never", []Value{Int(1)}},
		{"fut_on_idle", []Value{Nil()}},
		{"fut_map", []Value{Int(1), fn}},
		{"fut_map", []Value{FutureValue(l.Never(nil)), Int(1)}},
		{"fut_join", []Value{FutureValue(l.Never(nil)), Str("y")}},
		{"fut_join_all", []Value{Int(1)}},
		{"fut_join_all", []Value{Arr(FutureValue(l.Never(nil)), Int(1))}},
		{"fut_select_all", []Value{Arr(Str("x"))}},
	}
	for _, tc := range cases {
		_, err := table[tc.name](tc.args...)
		var typeErr *TypeError
		require.ErrorAs(t, err, &typeErr, "%s(%v)", tc.name, tc.args)
	}
}

func TestIntrinsicRunChecksTypesBeforeState(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	table := l.Intrinsics()

	// A bad callback argument must fail with a TypeError and leave the
	// future Inert, even though arming would otherwise be legal.
	f := l.Never(nil)
	_, err = table["fut_run"](FutureValue(f), Str("not a function"))
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, Inert, f.State(), "failed fut_run must have no side effects")

	// The same future is still runnable afterwards.
	out, err := table["fut_run"](FutureValue(f))
	require.NoError(t, err)
	assert.Equal(t, Pending, f.State())
	got, ok := out.Future()
	require.True(t, ok)
	assert.Same(t, f, got, "fut_run returns its argument")

	require.NoError(t, f.Cancel())
	stepAll(t, l)
}

func TestIntrinsicRunStateError(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	table := l.Intrinsics()

	f := l.Never(nil)
	_, err = table["fut_run"](FutureValue(f))
	require.NoError(t, err)
	_, err = table["fut_run"](FutureValue(f))
	var stateErr *FutureStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, Pending, stateErr.State)
}

func TestIntrinsicRunOptionalCallbacks(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	table := l.Intrinsics()

	var got []Value
	cb := FuncValue(func(args ...Value) (Value, error) {
		got = args
		return Value{}, nil
	})

	// Nil placeholders select the callback position.
	out, err := table["fut_resolve"](Int(7))
	require.NoError(t, err)
	_, err = table["fut_run"](out, cb, Nil(), Nil())
	require.NoError(t, err)
	drain(t, l)
	require.Len(t, got, 1)
	n, _ := got[0].Int()
	assert.Equal(t, int64(7), n)
}

func TestIntrinsicEndToEnd(t *testing.T) {
	// select_all([map(resolve(1), +1), never()]) via the surface table only.
	l, err := New()
	require.NoError(t, err)
	table := l.Intrinsics()

	base, err := table["fut_resolve"](Int(1))
	require.NoError(t, err)
	mapped, err := table["fut_map"](base, FuncValue(addOne))
	require.NoError(t, err)
	never, err := table["fut_never"]()
	require.NoError(t, err)
	sel, err := table["fut_select_all"](Arr(mapped, never))
	require.NoError(t, err)

	var got Value
	_, err = table["fut_run"](sel, FuncValue(func(args ...Value) (Value, error) {
		got = args[0]
		return Value{}, nil
	}))
	require.NoError(t, err)

	drain(t, l)
	f, _ := sel.Future()
	requireResolvedInt(t, f, 2)
	n, ok := got.Int()
	require.True(t, ok)
	assert.Equal(t, int64(2), n)

	loser, _ := never.Future()
	assert.Equal(t, Cancelled, loser.State())
}

func TestIntrinsicCancelEndToEnd(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	table := l.Intrinsics()

	fired := false
	fut, err := table["fut_never"](FuncValue(func(...Value) (Value, error) {
		fired = true
		return Value{}, nil
	}))
	require.NoError(t, err)
	_, err = table["fut_run"](fut)
	require.NoError(t, err)

	out, err := table["fut_cancel"](fut)
	require.NoError(t, err)
	assert.True(t, out.IsNil())

	drain(t, l)
	assert.True(t, fired)
}
