package sandboxes

import (
	"fmt"
	"math/rand"
	"time"

	starlarkjson "go.starlark.net/lib/json"
	starlarkmath "go.starlark.net/lib/math"
	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// predeclaredModules builds the allow-list of safe modules available to
// artifact code without any load statement. A fresh random module is
// built per execution so that seeding stays local to one run.
func predeclaredModules() starlark.StringDict {
	return starlark.StringDict{
		"math":   starlarkmath.Module,
		"json":   starlarkjson.Module,
		"time":   starlarktime.Module,
		"random": newRandomModule(),
	}
}

func newRandomModule() *starlarkstruct.Module {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	seed := starlark.NewBuiltin("seed", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var n int64
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &n); err != nil {
			return nil, err
		}
		rng.Seed(n)
		return starlark.None, nil
	})

	random := starlark.NewBuiltin("random", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return starlark.Float(rng.Float64()), nil
	})

	randint := starlark.NewBuiltin("randint", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var lo, hi int64
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &lo, &hi); err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, fmt.Errorf("randint: empty range [%d, %d]", lo, hi)
		}
		return starlark.MakeInt64(lo + rng.Int63n(hi-lo+1)), nil
	})

	uniform := starlark.NewBuiltin("uniform", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var lo, hi float64
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &lo, &hi); err != nil {
			return nil, err
		}
		return starlark.Float(lo + rng.Float64()*(hi-lo)), nil
	})

	choice := starlark.NewBuiltin("choice", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var list *starlark.List
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &list); err != nil {
			return nil, err
		}
		if list.Len() == 0 {
			return nil, fmt.Errorf("choice: empty sequence")
		}
		return list.Index(rng.Intn(list.Len())), nil
	})

	shuffle := starlark.NewBuiltin("shuffle", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var list *starlark.List
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &list); err != nil {
			return nil, err
		}
		n := list.Len()
		for i := n - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			a := list.Index(i)
			b := list.Index(j)
			if err := list.SetIndex(i, b); err != nil {
				return nil, err
			}
			if err := list.SetIndex(j, a); err != nil {
				return nil, err
			}
		}
		return starlark.None, nil
	})

	return &starlarkstruct.Module{
		Name: "random",
		Members: starlark.StringDict{
			"seed":    seed,
			"random":  random,
			"randint": randint,
			"uniform": uniform,
			"choice":  choice,
			"shuffle": shuffle,
		},
	}
}
