package domain

// Status represents the lifecycle state of a session
type Status string

const (
	StatusWaiting  Status = "waiting"  // Waiting for players to join
	StatusPlaying  Status = "playing"  // Rounds in progress
	StatusFinished Status = "finished" // Round cap reached or session aborted
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from the current status to the target is valid.
// The lifecycle is monotonic: waiting -> playing -> finished, with finished also
// reachable directly from waiting when a session is abandoned.
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaiting:  {StatusPlaying, StatusFinished},
		StatusPlaying:  {StatusFinished},
		StatusFinished: {},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
