package futures_test

import (
	"context"
	"fmt"
	"os"

	futures "github.com/joeycumines/go-futures"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

func ExampleLoop() {
	loop, err := futures.New()
	if err != nil {
		panic(err)
	}

	f := loop.Resolve(futures.Int(42))
	if err := f.Run(func(args ...futures.Value) (futures.Value, error) {
		fmt.Println("resolved:", args[0])
		return futures.Nil(), nil
	}, nil, nil); err != nil {
		panic(err)
	}

	if err := loop.RunToCompletion(context.Background()); err != nil {
		panic(err)
	}

	// Output:
	// resolved: 42
}

func ExampleLoop_Chain() {
	loop, err := futures.New()
	if err != nil {
		panic(err)
	}

	double := func(args ...futures.Value) (futures.Value, error) {
		n, _ := args[0].Int()
		return futures.FutureValue(loop.Resolve(futures.Int(n * 2))), nil
	}

	chained, err := loop.Chain(loop.Resolve(futures.Int(21)), double)
	if err != nil {
		panic(err)
	}
	if err := chained.Run(func(args ...futures.Value) (futures.Value, error) {
		fmt.Println("chained:", args[0])
		return futures.Nil(), nil
	}, nil, nil); err != nil {
		panic(err)
	}

	if err := loop.RunToCompletion(context.Background()); err != nil {
		panic(err)
	}

	// Output:
	// chained: 42
}

func ExampleLoop_Select() {
	loop, err := futures.New()
	if err != nil {
		panic(err)
	}

	// The resolve leaf settles first; the never leaf loses and is cancelled.
	winner := loop.Resolve(futures.Str("fast"))
	loser := loop.Never(func(...futures.Value) (futures.Value, error) {
		fmt.Println("loser cancelled")
		return futures.Nil(), nil
	})

	sel, err := loop.Select(winner, loser)
	if err != nil {
		panic(err)
	}
	if err := sel.Run(func(args ...futures.Value) (futures.Value, error) {
		fmt.Println("selected:", args[0])
		return futures.Nil(), nil
	}, nil, nil); err != nil {
		panic(err)
	}

	if err := loop.RunToCompletion(context.Background()); err != nil {
		panic(err)
	}

	// Output:
	// selected: "fast"
	// loser cancelled
}

func ExampleWithLogger() {
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stdout), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelInformational),
	).Logger()

	loop, err := futures.New(futures.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	// Debug events are below the configured level, so nothing is written.
	f := loop.Resolve(futures.Nil())
	if err := f.Run(nil, nil, nil); err != nil {
		panic(err)
	}
	if err := loop.RunToCompletion(context.Background()); err != nil {
		panic(err)
	}
	fmt.Println("done")

	// Output:
	// done
}
