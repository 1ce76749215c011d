// Package timemod implements the time module.
package timemod

import (
	"time"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "time",
		Funcs: []modules.FuncDef{
			{Name: "time", MinArgs: 0, Impl: timeTime},
			{Name: "monotonic", MinArgs: 0, Impl: timeMonotonic},
			{Name: "sleep", MinArgs: 1, Impl: timeSleep},
		},
	})
}

var start = time.Now()

func timeTime(args []any) (any, error) {
	return float64(time.Now().UnixNano()) / 1e9, nil
}

func timeMonotonic(args []any) (any, error) {
	return time.Since(start).Seconds(), nil
}

func timeSleep(args []any) (any, error) {
	secs, err := modules.ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	time.Sleep(time.Duration(secs * float64(time.Second)))
	return nil, nil
}
