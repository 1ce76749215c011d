package main

import (
	"github.com/pyrite-lang/pyrite/cmd"
	_ "github.com/pyrite-lang/pyrite/modules/base64"
	_ "github.com/pyrite-lang/pyrite/modules/hashlib"
	_ "github.com/pyrite-lang/pyrite/modules/json"
	_ "github.com/pyrite-lang/pyrite/modules/math"
	_ "github.com/pyrite-lang/pyrite/modules/os"
	_ "github.com/pyrite-lang/pyrite/modules/random"
	_ "github.com/pyrite-lang/pyrite/modules/re"
	_ "github.com/pyrite-lang/pyrite/modules/string"
	_ "github.com/pyrite-lang/pyrite/modules/time"
)

var version = "v0.3.1"

func main() {
	cmd.Execute(version)
}
