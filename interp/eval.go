package interp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pyrite-lang/pyrite/ast"
)

func (r *Runtime) evalExpr(e ast.Expr, env *Env) (any, error) {
	switch ex := e.(type) {
	case *ast.Ident:
		v, ok := env.Get(ex.Name)
		if !ok {
			return nil, scriptErrf("NameError", "name '%s' is not defined", ex.Name)
		}
		return v, nil
	case *ast.IntLit:
		return ex.Value, nil
	case *ast.FloatLit:
		return ex.Value, nil
	case *ast.StringLit:
		return ex.Value, nil
	case *ast.BoolLit:
		return ex.Value, nil
	case *ast.NoneLit:
		return nil, nil
	case *ast.ListLit:
		return r.evalSeq(ex.Elems, env)
	case *ast.TupleLit:
		items, err := r.evalSeq(ex.Elems, env)
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case *ast.DictLit:
		return r.evalDict(ex, env)
	case *ast.AttrExpr:
		obj, err := r.evalExpr(ex.Object, env)
		if err != nil {
			return nil, err
		}
		return r.getAttr(obj, ex.Name)
	case *ast.IndexExpr:
		obj, err := r.evalExpr(ex.Object, env)
		if err != nil {
			return nil, err
		}
		idx, err := r.evalExpr(ex.Index, env)
		if err != nil {
			return nil, err
		}
		return getIndex(obj, idx)
	case *ast.CallExpr:
		return r.evalCall(ex, env)
	case *ast.BinaryExpr:
		return r.evalBinary(ex, env)
	case *ast.UnaryExpr:
		return r.evalUnary(ex, env)
	case *ast.CondExpr:
		cond, err := r.evalExpr(ex.Cond, env)
		if err != nil {
			return nil, err
		}
		if Truth(cond) {
			return r.evalExpr(ex.Then, env)
		}
		return r.evalExpr(ex.Else, env)
	case *ast.LambdaExpr:
		fn := &Function{Name: "<lambda>", Params: ex.Params, Expr: ex.Body, Env: env}
		for _, p := range ex.Params {
			if p.Default != nil {
				v, err := r.evalExpr(p.Default, env)
				if err != nil {
					return nil, err
				}
				fn.Defaults = append(fn.Defaults, v)
			}
		}
		return fn, nil
	case *ast.CompExpr:
		return r.evalComp(ex, env)
	default:
		return nil, fmt.Errorf("unhandled expression %T", e)
	}
}

func (r *Runtime) evalSeq(elems []ast.Expr, env *Env) ([]any, error) {
	items := make([]any, len(elems))
	for i, el := range elems {
		v, err := r.evalExpr(el, env)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func (r *Runtime) evalDict(ex *ast.DictLit, env *Env) (any, error) {
	d := make(map[string]any, len(ex.Keys))
	for i := range ex.Keys {
		k, err := r.evalExpr(ex.Keys[i], env)
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			return nil, scriptErrf("TypeError", "dict keys must be strings, got %s", TypeName(k))
		}
		v, err := r.evalExpr(ex.Values[i], env)
		if err != nil {
			return nil, err
		}
		d[key] = v
	}
	return d, nil
}

func (r *Runtime) evalCall(ex *ast.CallExpr, env *Env) (any, error) {
	callee, err := r.evalExpr(ex.Func, env)
	if err != nil {
		return nil, err
	}
	args, err := r.evalSeq(ex.Args, env)
	if err != nil {
		return nil, err
	}
	return r.call(callee, args)
}

func (r *Runtime) call(callee any, args []any) (any, error) {
	switch fn := callee.(type) {
	case *Builtin:
		return fn.Fn(r, args)
	case *Function:
		return r.callFunction(fn, args)
	case *Class:
		return r.instantiate(fn, args)
	case *ExcType:
		msg := ""
		if len(args) > 0 {
			msg = Str(args[0])
		}
		return &ScriptError{Kind: fn.Name, Msg: msg}, nil
	default:
		return nil, scriptErrf("TypeError", "%s is not callable", TypeName(callee))
	}
}

func (r *Runtime) callFunction(f *Function, args []any) (any, error) {
	required := len(f.Params) - len(f.Defaults)
	if len(args) < required || len(args) > len(f.Params) {
		return nil, scriptErrf("TypeError", "%s() takes %d to %d arguments, got %d",
			f.Name, required, len(f.Params), len(args))
	}
	env := NewEnv(f.Env)
	for i, p := range f.Params {
		if i < len(args) {
			env.Bind(p.Name, args[i])
		} else {
			env.Bind(p.Name, f.Defaults[i-required])
		}
	}
	if f.Expr != nil {
		return r.evalExpr(f.Expr, env)
	}
	err := r.execBlock(f.Body, env)
	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	return nil, err
}

func (r *Runtime) instantiate(cls *Class, args []any) (any, error) {
	inst := &Instance{Class: cls, Attrs: make(map[string]any)}
	if init, ok := cls.Attrs["__init__"].(*Function); ok {
		if _, err := r.callFunction(init, append([]any{inst}, args...)); err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		return nil, scriptErrf("TypeError", "%s() takes no arguments", cls.Name)
	}
	return inst, nil
}

func (r *Runtime) evalBinary(ex *ast.BinaryExpr, env *Env) (any, error) {
	// and/or short-circuit and return the deciding operand.
	if ex.Op == "and" || ex.Op == "or" {
		left, err := r.evalExpr(ex.Left, env)
		if err != nil {
			return nil, err
		}
		if (ex.Op == "and" && !Truth(left)) || (ex.Op == "or" && Truth(left)) {
			return left, nil
		}
		return r.evalExpr(ex.Right, env)
	}

	left, err := r.evalExpr(ex.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := r.evalExpr(ex.Right, env)
	if err != nil {
		return nil, err
	}
	return r.binaryOp(ex.Op, left, right)
}

func (r *Runtime) binaryOp(op string, a, b any) (any, error) {
	switch op {
	case "==":
		return Equal(a, b), nil
	case "!=":
		return !Equal(a, b), nil
	case "<", "<=", ">", ">=":
		return compare(op, a, b)
	case "in":
		return contains(b, a)
	case "not in":
		v, err := contains(b, a)
		if err != nil {
			return nil, err
		}
		return !v.(bool), nil
	case "+":
		return add(a, b)
	case "-", "*", "/", "//", "%", "**":
		return arith(op, a, b)
	default:
		return nil, fmt.Errorf("unhandled operator %q", op)
	}
}

func add(a, b any) (any, error) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x + y, nil
		}
	case []any:
		if y, ok := b.([]any); ok {
			out := make([]any, 0, len(x)+len(y))
			return append(append(out, x...), y...), nil
		}
	case Tuple:
		if y, ok := b.(Tuple); ok {
			out := make(Tuple, 0, len(x)+len(y))
			return append(append(out, x...), y...), nil
		}
	}
	return arith("+", a, b)
}

func arith(op string, a, b any) (any, error) {
	// int repetition for sequences.
	if op == "*" {
		if n, ok := a.(int64); ok {
			if v, err, handled := repeat(b, n); handled {
				return v, err
			}
		}
		if n, ok := b.(int64); ok {
			if v, err, handled := repeat(a, n); handled {
				return v, err
			}
		}
	}

	ai, aIsInt := a.(int64)
	bi, bIsInt := b.(int64)
	if aIsInt && bIsInt {
		switch op {
		case "+":
			return ai + bi, nil
		case "-":
			return ai - bi, nil
		case "*":
			return ai * bi, nil
		case "/":
			if bi == 0 {
				return nil, scriptErrf("ZeroDivisionError", "division by zero")
			}
			return float64(ai) / float64(bi), nil
		case "//":
			if bi == 0 {
				return nil, scriptErrf("ZeroDivisionError", "integer division by zero")
			}
			return floorDivInt(ai, bi), nil
		case "%":
			if bi == 0 {
				return nil, scriptErrf("ZeroDivisionError", "modulo by zero")
			}
			return pyModInt(ai, bi), nil
		case "**":
			return powInt(ai, bi), nil
		}
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, scriptErrf("TypeError", "unsupported operand types for %s: %s and %s",
			op, TypeName(a), TypeName(b))
	}
	switch op {
	case "+":
		return af + bf, nil
	case "-":
		return af - bf, nil
	case "*":
		return af * bf, nil
	case "/":
		if bf == 0 {
			return nil, scriptErrf("ZeroDivisionError", "division by zero")
		}
		return af / bf, nil
	case "//":
		if bf == 0 {
			return nil, scriptErrf("ZeroDivisionError", "division by zero")
		}
		return math.Floor(af / bf), nil
	case "%":
		if bf == 0 {
			return nil, scriptErrf("ZeroDivisionError", "modulo by zero")
		}
		return math.Mod(math.Mod(af, bf)+bf, bf), nil
	case "**":
		return math.Pow(af, bf), nil
	}
	return nil, fmt.Errorf("unhandled operator %q", op)
}

func repeat(v any, n int64) (any, error, bool) {
	if n < 0 {
		n = 0
	}
	switch x := v.(type) {
	case string:
		return strings.Repeat(x, int(n)), nil, true
	case []any:
		out := make([]any, 0, int(n)*len(x))
		for i := int64(0); i < n; i++ {
			out = append(out, x...)
		}
		return out, nil, true
	default:
		return nil, nil, false
	}
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func pyModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

func powInt(a, b int64) any {
	if b < 0 {
		return math.Pow(float64(a), float64(b))
	}
	result := int64(1)
	for i := int64(0); i < b; i++ {
		result *= a
	}
	return result
}

func compare(op string, a, b any) (any, error) {
	var cmp int
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		if !bok {
			return nil, scriptErrf("TypeError", "cannot compare %s and %s", TypeName(a), TypeName(b))
		}
		switch {
		case af < bf:
			cmp = -1
		case af > bf:
			cmp = 1
		}
	} else if as, aok := a.(string); aok {
		bs, bok := b.(string)
		if !bok {
			return nil, scriptErrf("TypeError", "cannot compare %s and %s", TypeName(a), TypeName(b))
		}
		cmp = strings.Compare(as, bs)
	} else {
		return nil, scriptErrf("TypeError", "cannot compare %s and %s", TypeName(a), TypeName(b))
	}

	switch op {
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

func contains(container, item any) (any, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return nil, scriptErrf("TypeError", "'in <string>' requires a string, got %s", TypeName(item))
		}
		return strings.Contains(c, s), nil
	case []any:
		for _, v := range c {
			if Equal(v, item) {
				return true, nil
			}
		}
		return false, nil
	case Tuple:
		for _, v := range c {
			if Equal(v, item) {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		k, ok := item.(string)
		if !ok {
			return false, nil
		}
		_, present := c[k]
		return present, nil
	default:
		return nil, scriptErrf("TypeError", "%s is not iterable", TypeName(container))
	}
}

func (r *Runtime) evalUnary(ex *ast.UnaryExpr, env *Env) (any, error) {
	v, err := r.evalExpr(ex.Operand, env)
	if err != nil {
		return nil, err
	}
	switch ex.Op {
	case "not":
		return !Truth(v), nil
	case "-":
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, scriptErrf("TypeError", "bad operand type for unary -: %s", TypeName(v))
	case "+":
		switch v.(type) {
		case int64, float64:
			return v, nil
		}
		return nil, scriptErrf("TypeError", "bad operand type for unary +: %s", TypeName(v))
	default:
		return nil, fmt.Errorf("unhandled unary operator %q", ex.Op)
	}
}

func (r *Runtime) evalComp(ex *ast.CompExpr, env *Env) (any, error) {
	compEnv := NewEnv(env)
	var list []any
	dict := make(map[string]any)

	var loop func(i int) error
	loop = func(i int) error {
		if i == len(ex.Clauses) {
			elem, err := r.evalExpr(ex.Elem, compEnv)
			if err != nil {
				return err
			}
			if ex.Kind == ast.DictComp {
				key, ok := elem.(string)
				if !ok {
					return scriptErrf("TypeError", "dict keys must be strings, got %s", TypeName(elem))
				}
				v, err := r.evalExpr(ex.Value, compEnv)
				if err != nil {
					return err
				}
				dict[key] = v
				return nil
			}
			list = append(list, elem)
			return nil
		}

		cl := ex.Clauses[i]
		iterEnv := compEnv
		if i == 0 {
			iterEnv = env
		}
		seq, err := r.evalExpr(cl.Iter, iterEnv)
		if err != nil {
			return err
		}
		items, err := iterate(seq)
		if err != nil {
			return err
		}
	next:
		for _, item := range items {
			if err := r.assign(cl.Target, item, compEnv); err != nil {
				return err
			}
			for _, cond := range cl.Ifs {
				v, err := r.evalExpr(cond, compEnv)
				if err != nil {
					return err
				}
				if !Truth(v) {
					continue next
				}
			}
			if err := loop(i + 1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := loop(0); err != nil {
		return nil, err
	}
	switch ex.Kind {
	case ast.DictComp:
		return dict, nil
	case ast.SetComp:
		var out []any
		for _, v := range list {
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
		return out, nil
	default:
		if list == nil {
			list = []any{}
		}
		return list, nil
	}
}

// iterate materializes a value as a sequence for loops, unpacking, and
// comprehensions. Dicts iterate over their keys in sorted order.
func iterate(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case Tuple:
		return x, nil
	case string:
		out := make([]any, 0, len(x))
		for _, ch := range x {
			out = append(out, string(ch))
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	default:
		return nil, scriptErrf("TypeError", "%s is not iterable", TypeName(v))
	}
}
