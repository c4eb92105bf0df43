// Package profile wraps [github.com/pkg/profile] for optional runtime
// profiling of 1ls.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o 1ls .
//	1ls --pprof-mode=cpu '.users.map(x => x.name)' < users.json
//
// Without the tag [Modes] is empty and [Start] always returns a no-op
// [Stopper].
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace. Profile files are written to [Settings.Dir] with names
// matching the mode (cpu.pprof, mem.pprof, ...).
package profile

// Tag is the build tag that enables profiling. It doubles as the prefix of
// the profiling flags.
const Tag = `pprof`
