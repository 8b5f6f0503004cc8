package upload

// State is the lifecycle state of a Pipeline.
type State int

const (
	// StateIdle means no run is in progress. A new pipeline starts here and
	// each Process call passes through it before Processing.
	StateIdle State = iota
	// StateProcessing means a run is reading or deserializing a file.
	StateProcessing
	// StateSuccess means the last run delivered a bundle to the sink.
	StateSuccess
	// StateFailed means the last run ended with an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s ends a run.
func (s State) IsTerminal() bool {
	return s == StateSuccess || s == StateFailed
}
