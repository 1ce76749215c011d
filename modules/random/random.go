// Package randommod implements the random module.
package randommod

import (
	"fmt"
	"math/rand"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "random",
		Funcs: []modules.FuncDef{
			{Name: "random", MinArgs: 0, Impl: randomRandom},
			{Name: "randint", MinArgs: 2, Impl: randomRandint},
			{Name: "choice", MinArgs: 1, Impl: randomChoice},
			{Name: "seed", MinArgs: 1, Impl: randomSeed},
			{Name: "uniform", MinArgs: 2, Impl: randomUniform},
		},
	})
}

var rng = rand.New(rand.NewSource(1))

func randomRandom(args []any) (any, error) {
	return rng.Float64(), nil
}

func randomRandint(args []any) (any, error) {
	a, err := modules.ToInt(args[0])
	if err != nil {
		return nil, err
	}
	b, err := modules.ToInt(args[1])
	if err != nil {
		return nil, err
	}
	if b < a {
		return nil, fmt.Errorf("random.randint: empty range [%d, %d]", a, b)
	}
	return a + rng.Int63n(b-a+1), nil
}

func randomChoice(args []any) (any, error) {
	seq, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("random.choice: expected a list, got %T", args[0])
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("random.choice: empty sequence")
	}
	return seq[rng.Intn(len(seq))], nil
}

func randomSeed(args []any) (any, error) {
	n, err := modules.ToInt(args[0])
	if err != nil {
		return nil, err
	}
	rng = rand.New(rand.NewSource(n))
	return nil, nil
}

func randomUniform(args []any) (any, error) {
	a, err := modules.ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	b, err := modules.ToFloat(args[1])
	if err != nil {
		return nil, err
	}
	return a + rng.Float64()*(b-a), nil
}
