package domain

// Phase represents where the session is in the swipe flow
type Phase string

const (
	PhaseSetup      Phase = "SETUP"       // Editing the list and settings
	PhaseInProgress Phase = "IN_PROGRESS" // Voting on candidates one by one
	PhaseComplete   Phase = "COMPLETE"    // Showing liked places and overlap
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseSetup:      {PhaseInProgress, PhaseComplete}, // An empty pool completes immediately
		PhaseInProgress: {PhaseInProgress, PhaseComplete, PhaseSetup},
		PhaseComplete:   {PhaseSetup},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
