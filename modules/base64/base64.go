// Package base64mod implements the base64 module.
package base64mod

import (
	"encoding/base64"
	"fmt"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "base64",
		Funcs: []modules.FuncDef{
			{Name: "b64encode", MinArgs: 1, Impl: encode},
			{Name: "b64decode", MinArgs: 1, Impl: decode},
		},
	})
}

func encode(args []any) (any, error) {
	s, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

func decode(args []any) (any, error) {
	s, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64.b64decode: %v", err)
	}
	return string(out), nil
}
