package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards with the same return are combinable with ||.
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	// External tools must be cancellable: every spawn in this codebase goes
	// through toolexec or takes a context. The one exception is the audio
	// recorder, whose capture process deliberately outlives any request
	// context and is killed by its owning goroutine instead.
	m.Match(`exec.Command($*args)`).
		Where(!m.File().Name.Matches(`recorder\.go`)).
		Report(`use exec.CommandContext (or toolexec.Runner) so tool runs are cancellable`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)
}
