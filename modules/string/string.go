// Package stringmod implements the string module: character class
// constants and a few helpers not covered by builtins.
package stringmod

import (
	"strings"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "string",
		Funcs: []modules.FuncDef{
			{Name: "capwords", MinArgs: 1, Impl: capwords},
		},
		Consts: map[string]any{
			"ascii_lowercase": "abcdefghijklmnopqrstuvwxyz",
			"ascii_uppercase": "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
			"ascii_letters":   "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
			"digits":          "0123456789",
			"hexdigits":       "0123456789abcdefABCDEF",
			"punctuation":     "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~",
			"whitespace":      " \t\n\r\v\f",
		},
	})
}

func capwords(args []any) (any, error) {
	s, err := modules.ToString(args[0])
	if err != nil {
		return nil, err
	}
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " "), nil
}
