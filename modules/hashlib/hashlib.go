// Package hashlibmod implements the hashlib module: hex digests over
// the common hash functions.
package hashlibmod

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "hashlib",
		Funcs: []modules.FuncDef{
			{Name: "md5", MinArgs: 1, Impl: digest(md5.New)},
			{Name: "sha1", MinArgs: 1, Impl: digest(sha1.New)},
			{Name: "sha256", MinArgs: 1, Impl: digest(sha256.New)},
			{Name: "sha512", MinArgs: 1, Impl: digest(sha512.New)},
		},
	})
}

func digest(newHash func() hash.Hash) func([]any) (any, error) {
	return func(args []any) (any, error) {
		s, err := modules.ToString(args[0])
		if err != nil {
			return nil, err
		}
		h := newHash()
		h.Write([]byte(s))
		return fmt.Sprintf("%x", h.Sum(nil)), nil
	}
}
