package domain

// CoachAction is a single suggested follow-up attached to a coach tip.
// Kind is a machine-readable action identifier the presentation layer maps
// to a screen or flow; Label is the human-readable button text.
type CoachAction struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// CoachTip is a transient, templated coaching suggestion derived from the
// current goal/deadline state. Tips are never persisted: each recomputation
// supersedes the previous set entirely. The ID is stable per trigger
// condition (not per instance) so consumers can diff tips across
// recomputations by identity.
type CoachTip struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Message string        `json:"message"`
	Actions []CoachAction `json:"actions"`
}
