package analysis

import (
	"strings"

	"github.com/pyrite-lang/pyrite/resolve"
)

// Synthesize renders binding requests as top-level source: one import
// line per Import request, then one assignment line per Alias request,
// each group in first-seen order. The result ends in a newline and is
// safe to prepend to any module source.
func Synthesize(reqs []resolve.Request) string {
	var b strings.Builder
	for _, r := range reqs {
		if r.Kind == resolve.ImportReq {
			b.WriteString("import ")
			b.WriteString(r.Module)
			b.WriteByte('\n')
		}
	}
	for _, r := range reqs {
		if r.Kind == resolve.AliasReq {
			b.WriteString(r.Name)
			b.WriteString(" = ")
			b.WriteString(r.Path)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
