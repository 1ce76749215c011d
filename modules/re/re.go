// Package remod implements the re module: regular expression matching
// over Go's regexp engine. Functions return the matched text (or nil)
// rather than match objects.
package remod

import (
	"fmt"
	"regexp"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "re",
		Funcs: []modules.FuncDef{
			{Name: "search", MinArgs: 2, Impl: reSearch},
			{Name: "match", MinArgs: 2, Impl: reMatch},
			{Name: "fullmatch", MinArgs: 2, Impl: reFullmatch},
			{Name: "findall", MinArgs: 2, Impl: reFindall},
			{Name: "sub", MinArgs: 3, Impl: reSub},
			{Name: "split", MinArgs: 2, Impl: reSplit},
			{Name: "escape", MinArgs: 1, Impl: reEscape},
		},
	})
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("re: invalid pattern %q: %v", pattern, err)
	}
	return re, nil
}

func twoStrings(args []any) (string, string, error) {
	a, err := modules.ToString(args[0])
	if err != nil {
		return "", "", err
	}
	b, err := modules.ToString(args[1])
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func reSearch(args []any) (any, error) {
	pattern, s, err := twoStrings(args)
	if err != nil {
		return nil, err
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return nil, nil
	}
	return s[loc[0]:loc[1]], nil
}

func reMatch(args []any) (any, error) {
	pattern, s, err := twoStrings(args)
	if err != nil {
		return nil, err
	}
	re, err := compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, err
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return nil, nil
	}
	return s[loc[0]:loc[1]], nil
}

func reFullmatch(args []any) (any, error) {
	pattern, s, err := twoStrings(args)
	if err != nil {
		return nil, err
	}
	re, err := compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	if !re.MatchString(s) {
		return nil, nil
	}
	return s, nil
}

func reFindall(args []any) (any, error) {
	pattern, s, err := twoStrings(args)
	if err != nil {
		return nil, err
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	matches := re.FindAllString(s, -1)
	result := make([]any, len(matches))
	for i, m := range matches {
		result[i] = m
	}
	return result, nil
}

func reSub(args []any) (any, error) {
	pattern, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	repl, err := modules.ToString(args[1])
	if err != nil {
		return nil, err
	}
	s, err := modules.ToString(args[2])
	if err != nil {
		return nil, err
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return re.ReplaceAllString(s, repl), nil
}

func reSplit(args []any) (any, error) {
	pattern, s, err := twoStrings(args)
	if err != nil {
		return nil, err
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	parts := re.Split(s, -1)
	result := make([]any, len(parts))
	for i, p := range parts {
		result[i] = p
	}
	return result, nil
}

func reEscape(args []any) (any, error) {
	s, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	return regexp.QuoteMeta(s), nil
}
