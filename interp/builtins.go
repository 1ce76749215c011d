package interp

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// installBuiltins populates the outermost frame. Every name here must
// also appear in the analysis builtin table, and vice versa, so that a
// name the analyzer treats as always-resolvable really is.
func installBuiltins(env *Env) {
	for name, fn := range builtinFuncs {
		env.Bind(name, &Builtin{Name: name, Fn: fn})
	}
	for _, name := range excTypes {
		env.Bind(name, &ExcType{Name: name})
	}
}

var excTypes = []string{
	"Exception", "ValueError", "TypeError", "KeyError", "IndexError",
	"NameError", "AttributeError", "ImportError", "RuntimeError",
	"ZeroDivisionError", "StopIteration",
}

var builtinFuncs = map[string]func(r *Runtime, args []any) (any, error){
	"print": func(r *Runtime, args []any) (any, error) {
		parts := make([]string, len(args))
		for i, v := range args {
			parts[i] = Str(v)
		}
		fmt.Fprintln(r.Stdout, strings.Join(parts, " "))
		return nil, nil
	},
	"len": func(_ *Runtime, args []any) (any, error) {
		if err := arity("len", args, 1, 1); err != nil {
			return nil, err
		}
		switch x := args[0].(type) {
		case string:
			return int64(len(x)), nil
		case []any:
			return int64(len(x)), nil
		case Tuple:
			return int64(len(x)), nil
		case map[string]any:
			return int64(len(x)), nil
		default:
			return nil, scriptErrf("TypeError", "object of type %s has no len()", TypeName(args[0]))
		}
	},
	"range": func(_ *Runtime, args []any) (any, error) {
		if err := arity("range", args, 1, 3); err != nil {
			return nil, err
		}
		nums := make([]int64, len(args))
		for i, a := range args {
			n, ok := a.(int64)
			if !ok {
				return nil, scriptErrf("TypeError", "range() requires integers, got %s", TypeName(a))
			}
			nums[i] = n
		}
		start, stop, step := int64(0), int64(0), int64(1)
		switch len(nums) {
		case 1:
			stop = nums[0]
		case 2:
			start, stop = nums[0], nums[1]
		case 3:
			start, stop, step = nums[0], nums[1], nums[2]
			if step == 0 {
				return nil, scriptErrf("ValueError", "range() step must not be zero")
			}
		}
		var out []any
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, i)
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, i)
			}
		}
		if out == nil {
			out = []any{}
		}
		return out, nil
	},
	"str": func(_ *Runtime, args []any) (any, error) {
		if len(args) == 0 {
			return "", nil
		}
		if err := arity("str", args, 1, 1); err != nil {
			return nil, err
		}
		return Str(args[0]), nil
	},
	"int": func(_ *Runtime, args []any) (any, error) {
		if err := arity("int", args, 1, 1); err != nil {
			return nil, err
		}
		switch x := args[0].(type) {
		case int64:
			return x, nil
		case float64:
			return int64(x), nil
		case bool:
			if x {
				return int64(1), nil
			}
			return int64(0), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, scriptErrf("ValueError", "invalid literal for int(): %q", x)
			}
			return n, nil
		default:
			return nil, scriptErrf("TypeError", "int() argument must be a number or string")
		}
	},
	"float": func(_ *Runtime, args []any) (any, error) {
		if err := arity("float", args, 1, 1); err != nil {
			return nil, err
		}
		switch x := args[0].(type) {
		case int64:
			return float64(x), nil
		case float64:
			return x, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, scriptErrf("ValueError", "could not convert string to float: %q", x)
			}
			return f, nil
		default:
			return nil, scriptErrf("TypeError", "float() argument must be a number or string")
		}
	},
	"bool": func(_ *Runtime, args []any) (any, error) {
		if len(args) == 0 {
			return false, nil
		}
		return Truth(args[0]), nil
	},
	"list": func(_ *Runtime, args []any) (any, error) {
		if len(args) == 0 {
			return []any{}, nil
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		copy(out, items)
		return out, nil
	},
	"tuple": func(_ *Runtime, args []any) (any, error) {
		if len(args) == 0 {
			return Tuple{}, nil
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		out := make(Tuple, len(items))
		copy(out, items)
		return out, nil
	},
	"dict": func(_ *Runtime, args []any) (any, error) {
		if len(args) == 0 {
			return map[string]any{}, nil
		}
		src, ok := args[0].(map[string]any)
		if !ok {
			return nil, scriptErrf("TypeError", "dict() argument must be a dict")
		}
		out := make(map[string]any, len(src))
		for k, v := range src {
			out[k] = v
		}
		return out, nil
	},
	"set": func(_ *Runtime, args []any) (any, error) {
		if len(args) == 0 {
			return []any{}, nil
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		var out []any
		for _, v := range items {
			dup := false
			for _, seen := range out {
				if Equal(v, seen) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, v)
			}
		}
		if out == nil {
			out = []any{}
		}
		return out, nil
	},
	"abs": func(_ *Runtime, args []any) (any, error) {
		if err := arity("abs", args, 1, 1); err != nil {
			return nil, err
		}
		switch x := args[0].(type) {
		case int64:
			if x < 0 {
				return -x, nil
			}
			return x, nil
		case float64:
			return math.Abs(x), nil
		default:
			return nil, scriptErrf("TypeError", "bad operand type for abs(): %s", TypeName(args[0]))
		}
	},
	"min":      func(r *Runtime, args []any) (any, error) { return extreme(r, "min", args) },
	"max":      func(r *Runtime, args []any) (any, error) { return extreme(r, "max", args) },
	"sum": func(_ *Runtime, args []any) (any, error) {
		if err := arity("sum", args, 1, 1); err != nil {
			return nil, err
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		var acc any = int64(0)
		for _, v := range items {
			if acc, err = add(acc, v); err != nil {
				return nil, err
			}
		}
		return acc, nil
	},
	"sorted": func(r *Runtime, args []any) (any, error) {
		if err := arity("sorted", args, 1, 1); err != nil {
			return nil, err
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		copy(out, items)
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			v, err := compare("<", out[i], out[j])
			if err != nil && sortErr == nil {
				sortErr = err
			}
			b, _ := v.(bool)
			return b
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return out, nil
	},
	"reversed": func(_ *Runtime, args []any) (any, error) {
		if err := arity("reversed", args, 1, 1); err != nil {
			return nil, err
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return out, nil
	},
	"enumerate": func(_ *Runtime, args []any) (any, error) {
		if err := arity("enumerate", args, 1, 2); err != nil {
			return nil, err
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		start := int64(0)
		if len(args) == 2 {
			n, ok := args[1].(int64)
			if !ok {
				return nil, scriptErrf("TypeError", "enumerate() start must be an integer")
			}
			start = n
		}
		out := make([]any, len(items))
		for i, v := range items {
			out[i] = Tuple{start + int64(i), v}
		}
		return out, nil
	},
	"zip": func(_ *Runtime, args []any) (any, error) {
		if len(args) == 0 {
			return []any{}, nil
		}
		seqs := make([][]any, len(args))
		shortest := -1
		for i, a := range args {
			items, err := iterate(a)
			if err != nil {
				return nil, err
			}
			seqs[i] = items
			if shortest < 0 || len(items) < shortest {
				shortest = len(items)
			}
		}
		out := make([]any, shortest)
		for i := 0; i < shortest; i++ {
			row := make(Tuple, len(seqs))
			for j, s := range seqs {
				row[j] = s[i]
			}
			out[i] = row
		}
		return out, nil
	},
	"map": func(r *Runtime, args []any) (any, error) {
		if err := arity("map", args, 2, 2); err != nil {
			return nil, err
		}
		items, err := iterate(args[1])
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, v := range items {
			if out[i], err = r.call(args[0], []any{v}); err != nil {
				return nil, err
			}
		}
		return out, nil
	},
	"filter": func(r *Runtime, args []any) (any, error) {
		if err := arity("filter", args, 2, 2); err != nil {
			return nil, err
		}
		items, err := iterate(args[1])
		if err != nil {
			return nil, err
		}
		out := []any{}
		for _, v := range items {
			keep := Truth(v)
			if args[0] != nil {
				res, err := r.call(args[0], []any{v})
				if err != nil {
					return nil, err
				}
				keep = Truth(res)
			}
			if keep {
				out = append(out, v)
			}
		}
		return out, nil
	},
	"any": func(_ *Runtime, args []any) (any, error) {
		if err := arity("any", args, 1, 1); err != nil {
			return nil, err
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		for _, v := range items {
			if Truth(v) {
				return true, nil
			}
		}
		return false, nil
	},
	"all": func(_ *Runtime, args []any) (any, error) {
		if err := arity("all", args, 1, 1); err != nil {
			return nil, err
		}
		items, err := iterate(args[0])
		if err != nil {
			return nil, err
		}
		for _, v := range items {
			if !Truth(v) {
				return false, nil
			}
		}
		return true, nil
	},
	"round": func(_ *Runtime, args []any) (any, error) {
		if err := arity("round", args, 1, 2); err != nil {
			return nil, err
		}
		f, ok := toFloat(args[0])
		if !ok {
			return nil, scriptErrf("TypeError", "round() argument must be a number")
		}
		if len(args) == 2 {
			digits, ok := args[1].(int64)
			if !ok {
				return nil, scriptErrf("TypeError", "round() digits must be an integer")
			}
			scale := math.Pow(10, float64(digits))
			return math.Round(f*scale) / scale, nil
		}
		return int64(math.Round(f)), nil
	},
	"repr": func(_ *Runtime, args []any) (any, error) {
		if err := arity("repr", args, 1, 1); err != nil {
			return nil, err
		}
		return Repr(args[0]), nil
	},
	"type": func(_ *Runtime, args []any) (any, error) {
		if err := arity("type", args, 1, 1); err != nil {
			return nil, err
		}
		return TypeName(args[0]), nil
	},
	"isinstance": func(_ *Runtime, args []any) (any, error) {
		if err := arity("isinstance", args, 2, 2); err != nil {
			return nil, err
		}
		switch t := args[1].(type) {
		case *Class:
			inst, ok := args[0].(*Instance)
			return ok && inst.Class == t, nil
		case *Builtin:
			return TypeName(args[0]) == t.Name, nil
		case *ExcType:
			se, ok := args[0].(*ScriptError)
			return ok && se.matches(t), nil
		case string:
			return TypeName(args[0]) == t, nil
		default:
			return nil, scriptErrf("TypeError", "isinstance() second argument must be a type")
		}
	},
	"getattr": func(r *Runtime, args []any) (any, error) {
		if err := arity("getattr", args, 2, 3); err != nil {
			return nil, err
		}
		name, ok := args[1].(string)
		if !ok {
			return nil, scriptErrf("TypeError", "getattr() name must be a string")
		}
		v, err := r.getAttr(args[0], name)
		if err != nil {
			if len(args) == 3 {
				return args[2], nil
			}
			return nil, err
		}
		return v, nil
	},
	"hasattr": func(r *Runtime, args []any) (any, error) {
		if err := arity("hasattr", args, 2, 2); err != nil {
			return nil, err
		}
		name, ok := args[1].(string)
		if !ok {
			return nil, scriptErrf("TypeError", "hasattr() name must be a string")
		}
		_, err := r.getAttr(args[0], name)
		return err == nil, nil
	},
	"callable": func(_ *Runtime, args []any) (any, error) {
		if err := arity("callable", args, 1, 1); err != nil {
			return nil, err
		}
		switch args[0].(type) {
		case *Function, *Builtin, *Class, *ExcType:
			return true, nil
		}
		return false, nil
	},
	"chr": func(_ *Runtime, args []any) (any, error) {
		if err := arity("chr", args, 1, 1); err != nil {
			return nil, err
		}
		n, ok := args[0].(int64)
		if !ok {
			return nil, scriptErrf("TypeError", "chr() argument must be an integer")
		}
		return string(rune(n)), nil
	},
	"ord": func(_ *Runtime, args []any) (any, error) {
		if err := arity("ord", args, 1, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(string)
		if !ok || len([]rune(s)) != 1 {
			return nil, scriptErrf("TypeError", "ord() expected a character")
		}
		return int64([]rune(s)[0]), nil
	},
	"input": func(r *Runtime, args []any) (any, error) {
		if len(args) == 1 {
			fmt.Fprint(r.Stdout, Str(args[0]))
		}
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return nil, scriptErrf("RuntimeError", "input: %v", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	},
	"open": func(_ *Runtime, args []any) (any, error) {
		if err := arity("open", args, 1, 2); err != nil {
			return nil, err
		}
		path, ok := args[0].(string)
		if !ok {
			return nil, scriptErrf("TypeError", "open() path must be a string")
		}
		if len(args) == 2 {
			mode, _ := args[1].(string)
			if mode != "r" {
				return nil, scriptErrf("ValueError", "open() supports mode 'r' only")
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, scriptErrf("RuntimeError", "open: %v", err)
		}
		return newFileObject(path, string(data)), nil
	},
}

var fileClass = &Class{Name: "file", Attrs: map[string]any{}}

// newFileObject wraps already-read contents as a read-only file value.
func newFileObject(path, contents string) *Instance {
	inst := &Instance{Class: fileClass, Attrs: make(map[string]any)}
	inst.Attrs["name"] = path
	inst.Attrs["read"] = &Builtin{
		Name: "file.read",
		Fn:   func(_ *Runtime, args []any) (any, error) { return contents, nil },
	}
	inst.Attrs["close"] = &Builtin{
		Name: "file.close",
		Fn:   func(_ *Runtime, args []any) (any, error) { return nil, nil },
	}
	return inst
}

func extreme(_ *Runtime, name string, args []any) (any, error) {
	var items []any
	if len(args) == 1 {
		var err error
		if items, err = iterate(args[0]); err != nil {
			return nil, err
		}
	} else {
		items = args
	}
	if len(items) == 0 {
		return nil, scriptErrf("ValueError", "%s() of empty sequence", name)
	}
	best := items[0]
	for _, v := range items[1:] {
		op := "<"
		if name == "max" {
			op = ">"
		}
		res, err := compare(op, v, best)
		if err != nil {
			return nil, err
		}
		if res.(bool) {
			best = v
		}
	}
	return best, nil
}

func arity(name string, args []any, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return scriptErrf("TypeError", "%s() takes exactly %d argument(s), got %d", name, min, len(args))
		}
		return scriptErrf("TypeError", "%s() takes %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}
