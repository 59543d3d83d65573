package handover

// State is who currently drives the remote surface.
type State int

const (
	// AgentControlled is the initial state: the agent drives the surface.
	AgentControlled State = iota
	// HumanControlled means the human took control; the agent is paused.
	HumanControlled
	// FeedbackPending means the human asked to hand control back and must
	// describe what they did before the agent resumes.
	FeedbackPending
)

func (s State) String() string {
	switch s {
	case AgentControlled:
		return "agent-controlled"
	case HumanControlled:
		return "human-controlled"
	case FeedbackPending:
		return "feedback-pending"
	default:
		return "unknown"
	}
}

// StatusActive is the only run status with meaning here: the agent is operating.
const StatusActive = "active"

// IsActive reports whether runStatus means the agent is currently operating.
func IsActive(runStatus string) bool {
	return runStatus == StatusActive
}
