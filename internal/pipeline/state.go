package pipeline

// State is a pipeline state.
type State string

const (
	StatePreflightCheck State = "preflight"
	StateAcquiring      State = "acquiring"
	StateTranscribing   State = "transcribing"
	StateSummarizing    State = "summarizing"
	StateDone           State = "done"
	StateAborted        State = "aborted"
)

func (s State) String() string { return string(s) }

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}
