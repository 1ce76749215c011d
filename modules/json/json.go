// Package jsonmod implements the json module: loads and dumps between
// JSON text and interpreter values.
package jsonmod

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "json",
		Funcs: []modules.FuncDef{
			{Name: "loads", MinArgs: 1, Impl: jsonLoads},
			{Name: "dumps", MinArgs: 1, MaxArgs: 2, Impl: jsonDumps},
		},
	})
}

func jsonLoads(args []any) (any, error) {
	s, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("json.loads: %v", err)
	}
	return fromJSON(v), nil
}

// fromJSON rewrites decoded values into interpreter conventions:
// json.Number becomes int64 when integral, float64 otherwise.
func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i := range x {
			x[i] = fromJSON(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = fromJSON(x[k])
		}
		return x
	default:
		return v
	}
}

func jsonDumps(args []any) (any, error) {
	var out []byte
	var err error
	if len(args) == 2 {
		indent, ierr := modules.ToInt(args[1])
		if ierr != nil {
			return nil, ierr
		}
		out, err = json.MarshalIndent(args[0], "", spaces(int(indent)))
	} else {
		out, err = json.Marshal(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("json.dumps: %v", err)
	}
	return string(out), nil
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%*s", n, "")
}
