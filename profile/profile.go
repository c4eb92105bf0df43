package profile

// Settings describe a profiling session.
type Settings struct {
	Mode  string
	Dir   string
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling as described by s.
//
// The returned Stopper is a no-op when s.Mode is empty or unknown, or when
// built without the pprof tag. Both Start and Stop are always safe to call.
func Start(s Settings) Stopper {
	if s.Mode == "" {
		return nop{}
	}

	return start(s)
}

type nop struct{}

func (nop) Stop() {}
