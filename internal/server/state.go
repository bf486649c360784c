package server

// ConnState is the phase a connection is in. every connection walks
// through them in order, possibly skipping straight to StateClosed.
type ConnState int

const (
	StateAwaitingRead ConnState = iota
	StateParsing
	StateDispatching
	StateResponding
	StateClosed
)

var stateName = map[ConnState]string{
	StateAwaitingRead: "awaiting-read",
	StateParsing:      "parsing",
	StateDispatching:  "dispatching",
	StateResponding:   "responding",
	StateClosed:       "closed",
}

func (c ConnState) String() string {
	if s, ok := stateName[c]; ok {
		return s
	}
	return "unknown"
}
