package domain

// Priority represents how urgent a goal or deadline is.
type Priority string

// Possible priority values
const (
	PriorityLow  Priority = "low"
	PriorityMed  Priority = "med"
	PriorityHigh Priority = "high"
)

// Valid reports whether the priority is one of the allowed values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMed, PriorityHigh:
		return true
	}
	return false
}

// Weight returns the numeric weight used for sort tie-breaks.
// Higher priority sorts first.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMed:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}
