package interp

import (
	"strings"
)

// getAttr resolves obj.name. Methods on strings, lists, and dicts are
// returned as builtins closed over the receiver.
func (r *Runtime) getAttr(obj any, name string) (any, error) {
	switch o := obj.(type) {
	case *ModuleVal:
		if v, ok := o.Attrs[name]; ok {
			return v, nil
		}
		return nil, scriptErrf("AttributeError", "module %s has no attribute '%s'", o.Name, name)
	case *Class:
		if v, ok := o.Attrs[name]; ok {
			return v, nil
		}
		return nil, scriptErrf("AttributeError", "class %s has no attribute '%s'", o.Name, name)
	case *Instance:
		if v, ok := o.Attrs[name]; ok {
			return v, nil
		}
		if v, ok := o.Class.Attrs[name]; ok {
			if method, isFn := v.(*Function); isFn {
				return bindMethod(o, method), nil
			}
			return v, nil
		}
		return nil, scriptErrf("AttributeError", "'%s' object has no attribute '%s'", o.Class.Name, name)
	case string:
		if m, ok := stringMethod(o, name); ok {
			return m, nil
		}
	case []any:
		if m, ok := listMethod(o, name); ok {
			return m, nil
		}
	case map[string]any:
		if m, ok := dictMethod(o, name); ok {
			return m, nil
		}
	}
	return nil, scriptErrf("AttributeError", "'%s' object has no attribute '%s'", TypeName(obj), name)
}

// bindMethod wraps a class function with its receiver.
func bindMethod(self *Instance, f *Function) *Builtin {
	return &Builtin{
		Name: self.Class.Name + "." + f.Name,
		Fn: func(r *Runtime, args []any) (any, error) {
			return r.callFunction(f, append([]any{self}, args...))
		},
	}
}

func setAttr(obj any, name string, v any) error {
	switch o := obj.(type) {
	case *Instance:
		o.Attrs[name] = v
		return nil
	case *ModuleVal:
		o.Attrs[name] = v
		return nil
	case *Class:
		o.Attrs[name] = v
		return nil
	default:
		return scriptErrf("AttributeError", "cannot set attribute on %s", TypeName(obj))
	}
}

func getIndex(obj, idx any) (any, error) {
	switch o := obj.(type) {
	case []any:
		i, err := seqIndex(len(o), idx)
		if err != nil {
			return nil, err
		}
		return o[i], nil
	case Tuple:
		i, err := seqIndex(len(o), idx)
		if err != nil {
			return nil, err
		}
		return o[i], nil
	case string:
		i, err := seqIndex(len(o), idx)
		if err != nil {
			return nil, err
		}
		return string(o[i]), nil
	case map[string]any:
		k, ok := idx.(string)
		if !ok {
			return nil, scriptErrf("TypeError", "dict keys must be strings, got %s", TypeName(idx))
		}
		v, present := o[k]
		if !present {
			return nil, scriptErrf("KeyError", "%s", Repr(k))
		}
		return v, nil
	default:
		return nil, scriptErrf("TypeError", "%s is not subscriptable", TypeName(obj))
	}
}

func setIndex(obj, idx, v any) error {
	switch o := obj.(type) {
	case []any:
		i, err := seqIndex(len(o), idx)
		if err != nil {
			return err
		}
		o[i] = v
		return nil
	case map[string]any:
		k, ok := idx.(string)
		if !ok {
			return scriptErrf("TypeError", "dict keys must be strings, got %s", TypeName(idx))
		}
		o[k] = v
		return nil
	default:
		return scriptErrf("TypeError", "%s does not support item assignment", TypeName(obj))
	}
}

// seqIndex normalizes a sequence index, supporting negative values.
func seqIndex(length int, idx any) (int, error) {
	n, ok := idx.(int64)
	if !ok {
		return 0, scriptErrf("TypeError", "indices must be integers, got %s", TypeName(idx))
	}
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, scriptErrf("IndexError", "index out of range")
	}
	return i, nil
}

func stringMethod(s, name string) (*Builtin, bool) {
	var fn func(r *Runtime, args []any) (any, error)
	switch name {
	case "upper":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("upper", args, 0, 0); err != nil {
				return nil, err
			}
			return strings.ToUpper(s), nil
		}
	case "lower":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("lower", args, 0, 0); err != nil {
				return nil, err
			}
			return strings.ToLower(s), nil
		}
	case "strip":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("strip", args, 0, 0); err != nil {
				return nil, err
			}
			return strings.TrimSpace(s), nil
		}
	case "split":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("split", args, 0, 1); err != nil {
				return nil, err
			}
			var parts []string
			if len(args) == 0 {
				parts = strings.Fields(s)
			} else {
				sep, ok := args[0].(string)
				if !ok {
					return nil, scriptErrf("TypeError", "separator must be a string")
				}
				parts = strings.Split(s, sep)
			}
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return out, nil
		}
	case "join":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("join", args, 1, 1); err != nil {
				return nil, err
			}
			items, err := iterate(args[0])
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(items))
			for i, v := range items {
				p, ok := v.(string)
				if !ok {
					return nil, scriptErrf("TypeError", "join() requires strings, got %s", TypeName(v))
				}
				parts[i] = p
			}
			return strings.Join(parts, s), nil
		}
	case "replace":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("replace", args, 2, 2); err != nil {
				return nil, err
			}
			old, ok1 := args[0].(string)
			new_, ok2 := args[1].(string)
			if !ok1 || !ok2 {
				return nil, scriptErrf("TypeError", "replace() requires strings")
			}
			return strings.ReplaceAll(s, old, new_), nil
		}
	case "startswith":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("startswith", args, 1, 1); err != nil {
				return nil, err
			}
			p, ok := args[0].(string)
			if !ok {
				return nil, scriptErrf("TypeError", "startswith() requires a string")
			}
			return strings.HasPrefix(s, p), nil
		}
	case "endswith":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("endswith", args, 1, 1); err != nil {
				return nil, err
			}
			p, ok := args[0].(string)
			if !ok {
				return nil, scriptErrf("TypeError", "endswith() requires a string")
			}
			return strings.HasSuffix(s, p), nil
		}
	case "find":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("find", args, 1, 1); err != nil {
				return nil, err
			}
			p, ok := args[0].(string)
			if !ok {
				return nil, scriptErrf("TypeError", "find() requires a string")
			}
			return int64(strings.Index(s, p)), nil
		}
	default:
		return nil, false
	}
	return &Builtin{Name: "str." + name, Fn: fn}, true
}

func listMethod(l []any, name string) (*Builtin, bool) {
	var fn func(r *Runtime, args []any) (any, error)
	switch name {
	case "index":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("index", args, 1, 1); err != nil {
				return nil, err
			}
			for i, v := range l {
				if Equal(v, args[0]) {
					return int64(i), nil
				}
			}
			return nil, scriptErrf("ValueError", "%s is not in list", Repr(args[0]))
		}
	case "count":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("count", args, 1, 1); err != nil {
				return nil, err
			}
			n := int64(0)
			for _, v := range l {
				if Equal(v, args[0]) {
					n++
				}
			}
			return n, nil
		}
	default:
		return nil, false
	}
	return &Builtin{Name: "list." + name, Fn: fn}, true
}

func dictMethod(d map[string]any, name string) (*Builtin, bool) {
	var fn func(r *Runtime, args []any) (any, error)
	switch name {
	case "get":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("get", args, 1, 2); err != nil {
				return nil, err
			}
			k, ok := args[0].(string)
			if !ok {
				return nil, scriptErrf("TypeError", "dict keys must be strings, got %s", TypeName(args[0]))
			}
			if v, present := d[k]; present {
				return v, nil
			}
			if len(args) > 1 {
				return args[1], nil
			}
			return nil, nil
		}
	case "keys":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("keys", args, 0, 0); err != nil {
				return nil, err
			}
			return iterate(d)
		}
	case "values":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("values", args, 0, 0); err != nil {
				return nil, err
			}
			keys, _ := iterate(d)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = d[k.(string)]
			}
			return out, nil
		}
	case "items":
		fn = func(_ *Runtime, args []any) (any, error) {
			if err := arity("items", args, 0, 0); err != nil {
				return nil, err
			}
			keys, _ := iterate(d)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = Tuple{k, d[k.(string)]}
			}
			return out, nil
		}
	default:
		return nil, false
	}
	return &Builtin{Name: "dict." + name, Fn: fn}, true
}
