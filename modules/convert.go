package modules

import "fmt"

// ToString coerces an argument to a Go string.
func ToString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", v)
	}
	return s, nil
}

// ToInt coerces an argument to an int64. Floats with integral values
// are accepted.
func ToInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
		return 0, fmt.Errorf("expected an integer, got %v", n)
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

// ToFloat coerces an argument to a float64.
func ToFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
