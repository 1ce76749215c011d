// Package osmod implements the os module and its os.path submodule.
package osmod

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "os",
		Funcs: []modules.FuncDef{
			{Name: "getenv", MinArgs: 1, MaxArgs: 2, Impl: osGetenv},
			{Name: "environ", MinArgs: 0, Impl: osEnviron},
			{Name: "getcwd", MinArgs: 0, Impl: osGetcwd},
			{Name: "listdir", MinArgs: 0, MaxArgs: 1, Impl: osListdir},
		},
	})
	modules.Register(&modules.Module{
		Name: "os.path",
		Funcs: []modules.FuncDef{
			{Name: "basename", MinArgs: 1, Impl: pathBasename},
			{Name: "dirname", MinArgs: 1, Impl: pathDirname},
			{Name: "join", MinArgs: 1, Variadic: true, Impl: pathJoin},
			{Name: "exists", MinArgs: 1, Impl: pathExists},
			{Name: "splitext", MinArgs: 1, Impl: pathSplitext},
		},
	})
}

func osGetenv(args []any) (any, error) {
	name, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv(name); ok {
		return v, nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, nil
}

func osEnviron(args []any) (any, error) {
	env := make(map[string]any)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env, nil
}

func osGetcwd(args []any) (any, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return cwd, nil
}

func osListdir(args []any) (any, error) {
	dir := "."
	if len(args) == 1 {
		var err error
		if dir, err = modules.ToString(args[0]); err != nil {
			return nil, err
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]any, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func pathBasename(args []any) (any, error) {
	p, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	return filepath.Base(p), nil
}

func pathDirname(args []any) (any, error) {
	p, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	return filepath.Dir(p), nil
}

func pathJoin(args []any) (any, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		p, err := modules.ToString(a)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	return filepath.Join(parts...), nil
}

func pathExists(args []any) (any, error) {
	p, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(p)
	return statErr == nil, nil
}

func pathSplitext(args []any) (any, error) {
	p, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	ext := filepath.Ext(p)
	return []any{strings.TrimSuffix(p, ext), ext}, nil
}
